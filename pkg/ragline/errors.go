package ragline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors classifying pipeline failures. Call sites branch on these
// with errors.Is; wrap them with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrNotFound reports a source path that does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrTooLarge reports a source file over the configured size limit.
	ErrTooLarge = errors.New("document too large")

	// ErrUnsupportedFormat reports a file extension with no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrContent reports extracted text too short or empty to be useful.
	ErrContent = errors.New("document content invalid")

	// ErrPersistence reports a vector index read or write failure.
	ErrPersistence = errors.New("vector store operation failed")

	// ErrGeneration reports a model call failure during answering.
	ErrGeneration = errors.New("answer generation failed")

	// ErrGenerationTimeout reports a model call that exceeded its deadline.
	// It wraps ErrGeneration, so errors.Is(err, ErrGeneration) also holds.
	ErrGenerationTimeout = fmt.Errorf("%w: deadline exceeded", ErrGeneration)
)

// Error is a context-aware error that carries metadata for logging.
//
// It implements the standard error interface and supports Go's error wrapping
// (errors.Is, errors.As, errors.Unwrap). Metadata includes trace ID, request
// ID, and arbitrary tags as slog.Attr for structured logging.
//
// Example:
//
//	err := ragline.WrapErr(ctx, originalErr, "failed to index batch")
//	err.Tag(slog.Int("batch", i))
//	return err
type Error struct {
	msg       string
	cause     error
	traceID   string
	requestID string
	attrs     []slog.Attr
}

// WrapErr wraps an existing error with context metadata.
//
// The trace ID and request ID are automatically extracted from context.
// Use Tag() to add additional metadata.
//
// Example:
//
//	if err != nil {
//	    return ragline.WrapErr(ctx, err, "extraction failed").
//	        Tag(slog.String("path", path))
//	}
func WrapErr(ctx context.Context, err error, msg string) *Error {
	return &Error{
		msg:       msg,
		cause:     err,
		traceID:   TraceID(ctx),
		requestID: RequestID(ctx),
		attrs:     make([]slog.Attr, 0),
	}
}

// NewErr creates a new error with context metadata (no underlying cause).
func NewErr(ctx context.Context, msg string) *Error {
	return &Error{
		msg:       msg,
		cause:     nil,
		traceID:   TraceID(ctx),
		requestID: RequestID(ctx),
		attrs:     make([]slog.Attr, 0),
	}
}

// Tag adds a slog.Attr to the error for structured logging.
//
// Returns the error for fluent chaining.
func (e *Error) Tag(attr slog.Attr) *Error {
	e.attrs = append(e.attrs, attr)
	return e
}

// Tags adds multiple slog.Attr to the error.
func (e *Error) Tags(attrs ...slog.Attr) *Error {
	e.attrs = append(e.attrs, attrs...)
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error.
//
// This enables errors.Is and errors.As to work with wrapped errors,
// including the sentinel taxonomy above.
func (e *Error) Unwrap() error {
	return e.cause
}

// TraceID returns the trace ID associated with this error.
func (e *Error) TraceID() string {
	return e.traceID
}

// RequestID returns the request ID associated with this error.
func (e *Error) RequestID() string {
	return e.requestID
}

// Message returns the error message without the cause.
func (e *Error) Message() string {
	return e.msg
}

// Attrs returns the slog attributes associated with this error.
func (e *Error) Attrs() []slog.Attr {
	return e.attrs
}

// LogAttrs returns all attributes including trace_id and request_id.
func (e *Error) LogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.cause != nil {
		attrs = append(attrs, slog.Any("error", e.cause))
	}
	if e.traceID != "" {
		attrs = append(attrs, slog.String("trace_id", e.traceID))
	}
	if e.requestID != "" {
		attrs = append(attrs, slog.String("request_id", e.requestID))
	}

	attrs = append(attrs, e.attrs...)
	return attrs
}

// Log logs this error at error level with all metadata.
//
// Uses the logger from context or slog.Default().
func (e *Error) Log(ctx context.Context) {
	LogErrorAttr(ctx, e.msg, e.LogAttrs()...)
}
