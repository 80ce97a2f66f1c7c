package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by repositories when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email address is already registered.
	ErrEmailTaken = errors.New("email address already registered")
)

// User represents a registered account. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	EmailAddress string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	FirstName    string
	LastName     string
	EmailAddress string
	Password     string
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive regardless of the store's collation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ctxKey struct{}

// WithUser binds the authenticated user to ctx for the rest of the request.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the user bound by WithUser.
func FromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(ctxKey{}).(User)
	return user, ok
}
