package auth

import (
	"context"

	"userAccounts/internal/models"
)

type contextKey struct{}

// WithUser stores the authenticated caller on the request context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok && user != nil
}
