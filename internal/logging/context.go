package logging

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type (
	sessionCtxKey struct{}
	requestCtxKey struct{}
	commandCtxKey struct{}
	loggerCtxKey  struct{}
)

// ContextFields returns the correlation fields carried by ctx: the active
// span, the CLI invocation (session), the subcommand and the backend request.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}
	if id := SessionIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("session.id", id))
	}
	if name, ok := ctx.Value(commandCtxKey{}).(string); ok {
		fields = append(fields, zap.String("command", name))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request.id", id))
	}
	return fields
}

// WithSessionID tags ctx with the ID of one CLI invocation.
// IDs that are not UUIDs are ignored.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withUUID(ctx, sessionCtxKey{}, id)
}

// SessionIDFromContext returns the session ID, or "".
func SessionIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionCtxKey{}).(string)
	return s
}

// WithRequestID tags ctx with the ID of one backend request. The same ID is
// sent to the server as X-Request-ID. IDs that are not UUIDs are ignored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withUUID(ctx, requestCtxKey{}, id)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(requestCtxKey{}).(string)
	return s
}

// WithCommand tags ctx with the running subcommand.
func WithCommand(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, commandCtxKey{}, name)
}

func withUUID(ctx context.Context, key any, id string) context.Context {
	if _, err := uuid.Parse(id); err != nil {
		return ctx
	}
	return context.WithValue(ctx, key, id)
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves the logger from context, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
