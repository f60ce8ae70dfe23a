// Package ragline provides the shared context utilities, logging helpers and
// error taxonomy used across the ingestion, retrieval and answer pipelines.
//
// Loggers, trace IDs and request IDs travel through context.Context so every
// stage of a pipeline run logs with the same correlation metadata.
package ragline

import (
	"context"
	"log/slog"
)

type ctxKey string

const (
	loggerKey    ctxKey = "ragline.logger"
	traceIDKey   ctxKey = "ragline.trace_id"
	requestIDKey ctxKey = "ragline.request_id"
)

// WithLogger stores a slog.Logger in the context.
//
// The logger will be used by LogInfo, LogDebug, LogWarn, LogError functions.
// If no logger is set, slog.Default() is used.
//
// Example:
//
//	logger := slog.New(logging.NewZerologHandler(zl))
//	ctx = ragline.WithLogger(ctx, logger)
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger retrieves the slog.Logger from context.
//
// Returns slog.Default() if no logger is found in context.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithTraceID stores a trace ID in the context.
//
// Trace ID is typically set at the start of an ingestion or question run and
// used for correlating logs across the run lifecycle.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID retrieves the trace ID from context.
//
// Returns empty string if no trace ID is found.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores a request ID in the context.
//
// Request ID is unique per question or ingestion request and used for
// tracking individual requests through the system.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID retrieves the request ID from context.
//
// Returns empty string if no request ID is found.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
