// internal/services/authorization_service.go
package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const principalContextKey contextKey = "authenticated_principal"

// WithPrincipal stamps the authenticated principal into the context. The
// auth middleware calls this after validating the bearer token.
func WithPrincipal(ctx context.Context, principal uuid.UUID) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	principal, ok := ctx.Value(principalContextKey).(uuid.UUID)
	return principal, ok
}

// Authorizer attests that a claimed principal actually authorized the
// current call. RequireAuth must run before any state is read for
// principal-gated operations.
type Authorizer interface {
	RequireAuth(ctx context.Context, principal uuid.UUID) error
}

// ContextAuthorizer authorizes a principal iff it matches the authenticated
// principal carried in the context.
type ContextAuthorizer struct{}

func NewContextAuthorizer() ContextAuthorizer {
	return ContextAuthorizer{}
}

func (ContextAuthorizer) RequireAuth(ctx context.Context, principal uuid.UUID) error {
	authenticated, ok := PrincipalFromContext(ctx)
	if !ok || authenticated != principal {
		return ErrUnauthorized
	}
	return nil
}
