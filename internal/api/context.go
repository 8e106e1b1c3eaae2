package api

import (
	"context"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, or 0 if none is set
func UserIDFromContext(ctx context.Context) int64 {
	id, ok := ctx.Value(userIDContextKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// ContextWithUserID adds the authenticated user id to context
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
