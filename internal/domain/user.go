package domain

import (
	"context"
	"errors"
)

// SystemActor is recorded when no authenticated user is attached to a request.
const SystemActor = "system"

// User is the authenticated caller, as asserted by the identity provider.
type User struct {
	ID        string
	Email     string
	Role      Role
	CompanyID string
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin may cancel entries and manage bank accounts
	RoleAdmin Role = "admin"

	// RoleOperator can record and undo payments
	RoleOperator Role = "operator"

	// RoleViewer can only read
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSettle checks if the role can record or undo payments
func (r Role) CanSettle() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanAdminister checks if the role can cancel entries and manage accounts
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

type userContextKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActorID is the id recorded on ledger lines and audit rows.
func ActorID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok && user.ID != "" {
		return user.ID
	}
	return SystemActor
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type requestIDContextKey struct{}

// WithRequestID attaches the transport request id to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
