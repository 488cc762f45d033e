package logger

import "context"

// Context 中的日志字段
const (
	TraceIDKey = "trace_id"
	UserIDKey  = "user_id"
)

// WithTraceID 返回携带 trace_id 的 ctx，后台任务与消费者用它串联日志
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithUserID 返回携带当前用户 id 的 ctx
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// TraceID 取出 ctx 中的 trace_id，没有则为空串
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}
