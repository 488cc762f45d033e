package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const bodyLogLimit = 1000

// SetupResty 为上游 HTTP 客户端挂载请求日志
func SetupResty(client *resty.Client, name string) *resty.Client {
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request
		elapsed := resp.Time()

		fields := []any{
			log.String("upstream", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Int("status", resp.StatusCode()),
			log.Duration("latency", elapsed),
		}

		if resp.StatusCode() >= 500 {
			fields = append(fields, log.String("res_body", truncate(resp.String())))
			log.WarnContext(req.Context(), "UPSTREAM_ERROR_STATUS", fields...)
		} else if elapsed > 500*time.Millisecond {
			log.WarnContext(req.Context(), "UPSTREAM_SLOW", fields...)
		} else {
			log.InfoContext(req.Context(), "UPSTREAM", fields...)
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "UPSTREAM_FAILED",
			log.String("upstream", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})

	return client
}

func truncate(s string) string {
	if len(s) > bodyLogLimit {
		return s[:bodyLogLimit] + "...[truncated]"
	}
	return s
}
