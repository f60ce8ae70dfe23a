// Package logging bridges zerolog into the slog-based context logging used
// throughout the pipelines.
package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// ZerologHandler adapts a zerolog.Logger to slog.Handler so the context
// logging helpers can emit through zerolog's output pipeline.
type ZerologHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	group  string
}

// NewZerologHandler creates a slog.Handler backed by the given zerolog logger.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	logger := slog.New(logging.NewZerologHandler(zl))
//	ctx = ragline.WithLogger(ctx, logger)
func NewZerologHandler(logger zerolog.Logger) *ZerologHandler {
	return &ZerologHandler{logger: logger}
}

// Enabled reports whether the zerolog logger emits at the given slog level.
func (h *ZerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.GetLevel() <= slogLevelToZerolog(level)
}

// Handle writes the record through zerolog at the mapped level.
func (h *ZerologHandler) Handle(_ context.Context, r slog.Record) error {
	var evt *zerolog.Event

	switch {
	case r.Level >= slog.LevelError:
		evt = h.logger.Error()
	case r.Level >= slog.LevelWarn:
		evt = h.logger.Warn()
	case r.Level >= slog.LevelInfo:
		evt = h.logger.Info()
	default:
		evt = h.logger.Debug()
	}

	for _, attr := range h.attrs {
		evt = appendAttr(evt, h.group, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		evt = appendAttr(evt, h.group, attr)
		return true
	})

	evt.Msg(r.Message)
	return nil
}

// WithAttrs returns a handler with the attributes pre-attached.
func (h *ZerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ZerologHandler{logger: h.logger, attrs: merged, group: h.group}
}

// WithGroup returns a handler that prefixes attribute keys with the group name.
func (h *ZerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &ZerologHandler{logger: h.logger, attrs: h.attrs, group: group}
}

func appendAttr(evt *zerolog.Event, group string, attr slog.Attr) *zerolog.Event {
	key := attr.Key
	if key == "" {
		return evt
	}
	if group != "" {
		key = group + "." + key
	}
	return evt.Interface(key, attr.Value.Any())
}

func slogLevelToZerolog(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
