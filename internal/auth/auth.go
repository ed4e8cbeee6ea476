package auth

import (
	"context"

	"noteful/internal/models"
)

// Context key for the authenticated user
type contextKey string

const userKey contextKey = "user"

// Identity is the caller as recorded in a verified token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// IdentityOf returns the token identity for u.
func IdentityOf(u *models.User) Identity {
	return Identity{ID: u.ID, Username: u.Username, Fullname: u.Fullname}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// IdentityFromContext retrieves the authenticated caller from the context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(userKey).(Identity)
	return id, ok
}
