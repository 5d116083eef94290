// Package identity carries the authenticated user through request context.
// Token issuance is owned by the auth service; this package only validates.
package identity

import "context"

// Role distinguishes the two account types the platform serves.
type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

// User is the authenticated principal attached to a request.
type User struct {
	ID   string
	Role Role
}

type ctxKey string

const userKey ctxKey = "docnearby.user"

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated user if present.
func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	u, ok := val.(User)
	return u, ok && u.ID != ""
}
