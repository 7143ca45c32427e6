package services

import "context"

type contextKey string

const (
	scanIDKey contextKey = "scan_id"
	tagUIDKey contextKey = "tag_uid"
)

// WithScanID annotates context with a per-scan correlation identifier.
func WithScanID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, scanIDKey, id)
}

// ScanIDFromContext extracts the scan correlation identifier if present.
func ScanIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(scanIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTagUID annotates context with the scanned tag UID.
func WithTagUID(ctx context.Context, uid string) context.Context {
	if uid == "" {
		return ctx
	}
	return context.WithValue(ctx, tagUIDKey, uid)
}

// TagUIDFromContext extracts the scanned tag UID if present.
func TagUIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(tagUIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
