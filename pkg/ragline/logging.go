package ragline

import (
	"context"
	"log/slog"
)

// LogInfo logs an info-level message with context metadata.
//
// Automatically appends trace_id and request_id from context if present.
// Uses the logger from context, or slog.Default() if not set.
//
// Checks if info level is enabled before building the log message (optimization).
//
// Example:
//
//	ragline.LogInfo(ctx, "document processed", "chunks", len(chunks))
func LogInfo(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelInfo) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.InfoContext(ctx, msg, args...)
}

// LogDebug logs a debug-level message with context metadata.
//
// Automatically appends trace_id and request_id from context if present.
// Uses the logger from context, or slog.Default() if not set.
//
// Checks if debug level is enabled before building the log message (optimization).
//
// Example:
//
//	ragline.LogDebug(ctx, "search hit", "score", score, "source", src)
func LogDebug(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.DebugContext(ctx, msg, args...)
}

// LogWarn logs a warning-level message with context metadata.
//
// Automatically appends trace_id and request_id from context if present.
// Uses the logger from context, or slog.Default() if not set.
//
// Example:
//
//	ragline.LogWarn(ctx, "skipping malformed line", "line", n)
func LogWarn(ctx context.Context, msg string, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelWarn) {
		return
	}
	args = appendContextFields(ctx, args)
	logger.WarnContext(ctx, msg, args...)
}

// LogError logs an error-level message with context metadata.
//
// Automatically appends trace_id, request_id, and error from context if present.
// Uses the logger from context, or slog.Default() if not set.
// If err is not nil, it's added to the log with key "error".
//
// Example:
//
//	ragline.LogError(ctx, "embedding failed", err, "batch", i)
func LogError(ctx context.Context, msg string, err error, args ...any) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, slog.LevelError) {
		return
	}
	args = appendContextFields(ctx, args)
	if err != nil {
		args = append(args, "error", err)
	}
	logger.ErrorContext(ctx, msg, args...)
}

// appendContextFields adds trace_id and request_id to args if present in context.
func appendContextFields(ctx context.Context, args []any) []any {
	if traceID := TraceID(ctx); traceID != "" {
		args = append(args, "trace_id", traceID)
	}
	if requestID := RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	return args
}

// LogWith returns a logger with pre-attached context fields.
//
// Useful when you need to log multiple messages with the same context fields.
// The returned logger includes trace_id and request_id from context.
//
// Example:
//
//	logger := ragline.LogWith(ctx, "component", "processor")
//	logger.Info("starting")
//	logger.Info("completed", "duration_ms", elapsed)
func LogWith(ctx context.Context, args ...any) *slog.Logger {
	logger := Logger(ctx)
	args = appendContextFields(ctx, args)
	return logger.With(args...)
}

// LogAttr logs with slog.Attr for structured logging.
//
// Use this when you need type-safe attributes. Automatically appends
// trace_id and request_id as attributes.
func LogAttr(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	logger := Logger(ctx)
	if !logger.Enabled(ctx, level) {
		return
	}

	if traceID := TraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	if requestID := RequestID(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	logger.LogAttrs(ctx, level, msg, attrs...)
}

// LogErrorAttr logs error-level with slog.Attr.
//
// If you have an error, include it as slog.Any("error", err).
func LogErrorAttr(ctx context.Context, msg string, attrs ...slog.Attr) {
	LogAttr(ctx, slog.LevelError, msg, attrs...)
}
