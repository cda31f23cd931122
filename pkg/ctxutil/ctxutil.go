// Package ctxutil carries per-request identity through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type (
	userKey    struct{}
	requestKey struct{}
)

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserIDFromCtx reports the authenticated user. uuid.Nil counts as absent.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, _ := ctx.Value(userKey{}).(uuid.UUID)
	return id, id != uuid.Nil
}

// OptionalUserID is UserIDFromCtx for columns that are NULL for anonymous
// callers.
func OptionalUserID(ctx context.Context) *uuid.UUID {
	if id, ok := UserIDFromCtx(ctx); ok {
		return &id
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	_, ok := UserIDFromCtx(ctx)
	return ok
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey{}, id)
}

// RequestIDFromCtx returns "" outside of a request.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestKey{}).(string)
	return id
}
