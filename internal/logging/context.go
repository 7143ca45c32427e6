package logging

import (
	"context"
	"log/slog"

	"github.com/simoneroux/magicbox/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator next steps.
	FieldErrorHint = "error_hint"
	// FieldScanID is the standardized structured logging key for per-scan correlation identifiers.
	FieldScanID = "scan_id"
	// FieldRoom is the standardized structured logging key for the controlled room name.
	FieldRoom = "room"
	// FieldTagUID is the standardized structured logging key for NFC tag UIDs.
	FieldTagUID = "tag_uid"
	// FieldCommand is the standardized structured logging key for dispatched control commands.
	FieldCommand = "command"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.ScanIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldScanID, id))
	}
	if uid, ok := services.TagUIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTagUID, uid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
