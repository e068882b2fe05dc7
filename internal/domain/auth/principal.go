package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("auth: authentication required")
	ErrForbidden       = errors.New("auth: insufficient permissions")
)

type Role string

const RoleAdmin Role = "admin"

// Principal is the caller resolved by the transport layer.
type Principal struct {
	Username string
	Roles    []Role
}

func (p Principal) HasRole(role Role) bool {
	want := strings.ToLower(strings.TrimSpace(string(role)))
	if want == "" {
		return false
	}
	for _, r := range p.Roles {
		if strings.ToLower(string(r)) == want {
			return true
		}
	}
	return false
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Restricted is implemented by commands and queries that need a role.
type Restricted interface {
	RequiredRole() Role
}
