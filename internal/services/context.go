package services

import "context"

type contextKey string

const (
	userKey      contextKey = "user"
	listIDKey    contextKey = "list_id"
	requestIDKey contextKey = "request_id"
)

// WithUser annotates context with the signed-in username.
func WithUser(ctx context.Context, user string) context.Context {
	if user == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the username if present.
func UserFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(userKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithListID annotates context with the list being mutated.
func WithListID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, listIDKey, id)
}

// ListIDFromContext extracts the list identifier if present.
func ListIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(listIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
