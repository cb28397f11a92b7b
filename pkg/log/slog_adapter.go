package log

import (
	"context"
	"log/slog"
)

// SlogAdapter renders trace events as slog records, so a trace can be
// followed on the console next to operational logs.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter writes events to logger at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, a.level) {
		return
	}
	a.logger.LogAttrs(ctx, a.level, "trace", eventAttrs(event)...)
}

func eventAttrs(e Event) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("conn_id", e.ConnectionID),
		slog.String("direction", e.Direction.String()),
		slog.String("layer", e.Layer.String()),
		slog.String("category", e.Category.String()),
	}
	if e.Federation != "" {
		attrs = append(attrs, slog.String("federation", e.Federation))
	}
	if e.Federate != 0 {
		attrs = append(attrs, slog.Uint64("federate", uint64(e.Federate)))
	}

	switch {
	case e.Frame != nil:
		attrs = append(attrs, slog.Int("frame_size", e.Frame.Size), slog.Bool("truncated", e.Frame.Truncated))
	case e.Message != nil:
		attrs = append(attrs, messageAttrs(e.Message)...)
	case e.StateChange != nil:
		sc := e.StateChange
		attrs = append(attrs,
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState))
		attrs = appendNonEmpty(attrs, "reason", sc.Reason)
	case e.ControlMsg != nil:
		attrs = append(attrs, slog.String("ctrl_type", e.ControlMsg.Type.String()))
	case e.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", e.Error.Layer.String()),
			slog.String("error_msg", e.Error.Message))
		attrs = appendNonEmpty(attrs, "error_kind", e.Error.Kind)
		attrs = appendNonEmpty(attrs, "error_context", e.Error.Context)
	}
	return attrs
}

func messageAttrs(m *MessageEvent) []slog.Attr {
	attrs := []slog.Attr{
		slog.Uint64("msg_id", uint64(m.MessageID)),
		slog.String("msg_type", m.Type.String()),
	}
	if m.Operation != nil {
		attrs = append(attrs, slog.String("operation", m.Operation.String()))
	}
	if m.Callback != nil {
		attrs = append(attrs, slog.String("callback", m.Callback.String()))
	}
	if m.Callbacks > 0 {
		attrs = append(attrs, slog.Int("callbacks", m.Callbacks))
	}
	attrs = appendNonEmpty(attrs, "error_kind", m.ErrorKind)
	if m.ProcessingTime != nil {
		attrs = append(attrs, slog.Duration("processing_time", *m.ProcessingTime))
	}
	return attrs
}

func appendNonEmpty(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

var _ Logger = (*SlogAdapter)(nil)
