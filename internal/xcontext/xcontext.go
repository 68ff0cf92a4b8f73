// Package xcontext holds typed request-scoped values shared by the mock
// backend middleware and its handlers.
package xcontext

import "context"

type (
	requestIDKey struct{}
	sessionIDKey struct{}
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) (string, bool) {
	return get[string](ctx, requestIDKey{})
}

// SetSessionID records the dashboard session that issued the request.
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func GetSessionID(ctx context.Context) (string, bool) {
	return get[string](ctx, sessionIDKey{})
}

func get[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}
