package logger

import (
	"Booklet/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

// LogWriter gin 访问日志的输出目标，连上 Logstash 后切换为远程连接
var LogWriter io.Writer = os.Stdout

// InitLogger 本地输出 JSON 日志，配置了 Logstash 时额外上报带 trace_id 的日志
func InitLogger() {
	cfg := config.Cfg.Logstash
	service := config.Cfg.Server.Name
	level := parseLevel(config.Cfg.Server.LogLevel)

	local := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: level}).
		WithAttrs([]log.Attr{log.String("service", service)})

	var handler log.Handler = local
	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, 3*time.Second)
		if err != nil {
			log.SetDefault(log.New(&ContextHandler{local}))
			log.Warn("Failed to connect to Logstash, logging to stdout only", "addr", cfg.Address, "err", err)
			return
		}

		remote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
			WithAttrs([]log.Attr{
				log.String("service", service),
				log.String("target_index", cfg.Index),
				log.String("log_token", cfg.Token),
			})
		handler = &TeeHandler{handlers: []log.Handler{local, &RemoteFilterHandler{next: remote}}}
		LogWriter = conn
	}

	log.SetDefault(log.New(&ContextHandler{handler}))
	log.Info("Logger initialized", "level", level.String())
}

func parseLevel(s string) log.Level {
	var level log.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return log.LevelInfo
	}
	return level
}
