package infrastructure

import "context"

type contextKey string

const traceIDKey contextKey = "trace_id"

// WithTraceID stores a trace id in the context for request-scoped logging.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace id stored in the context, or "".
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}
