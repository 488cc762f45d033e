package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 4096

// 不记录请求/响应体的路径，令牌接口的请求体含凭证
var auditSkipBody = []string{
	"/api/validate-token",
	"/api/auth/",
	"/auth/",
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if remain := auditBodyLimit - r.body.Len(); remain > 0 {
		if len(b) > remain {
			r.body.Write(b[:remain])
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录请求与响应摘要，只记录 JSON 与文本类的请求体
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		logBody := shouldAuditBody(c.Request)

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		query, err := url.QueryUnescape(c.Request.URL.RawQuery)
		if err != nil {
			query = c.Request.URL.RawQuery
		}

		fields := []any{
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", query),
			log.Int("req_size", len(reqBody)),
		}
		if logBody {
			fields = append(fields, log.String("req_body", truncateBody(reqBody)))
		}
		log.InfoContext(ctx, "Recv Request", fields...)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		fields = []any{
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
		}
		if logBody {
			fields = append(fields, log.String("res_body", w.body.String()))
		}
		log.InfoContext(c.Request.Context(), "Send Response", fields...)
	}
}

func shouldAuditBody(r *http.Request) bool {
	for _, prefix := range auditSkipBody {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "json") || strings.HasPrefix(ct, "text/")
}

func truncateBody(b []byte) string {
	if len(b) > auditBodyLimit {
		return string(b[:auditBodyLimit]) + "...[truncated]"
	}
	return string(b)
}
