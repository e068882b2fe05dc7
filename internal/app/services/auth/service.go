package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	domainauth "imoveis/internal/domain/auth"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotConfigured      = errors.New("auth: admin credentials not configured")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service verifies the single admin account configured for the service.
// When PasswordHash is set it wins over the plain Password.
type Service struct {
	Username     string
	Password     string
	PasswordHash string
	Passwords    PasswordHasher
	Logger       *slog.Logger
}

func (s *Service) Configured() bool {
	if s == nil || strings.TrimSpace(s.Username) == "" {
		return false
	}
	if s.PasswordHash != "" {
		return s.Passwords != nil
	}
	return s.Password != ""
}

// Authenticate checks basic-auth credentials and returns the admin principal.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domainauth.Principal, error) {
	if !s.Configured() {
		return domainauth.Principal{}, ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := s.checkPassword(password)
	if !userOK || !passOK {
		if s.Logger != nil {
			s.Logger.WarnContext(ctx, "admin authentication failed", "username", username)
		}
		return domainauth.Principal{}, ErrInvalidCredentials
	}
	return domainauth.Principal{Username: s.Username, Roles: []domainauth.Role{domainauth.RoleAdmin}}, nil
}

func (s *Service) checkPassword(password string) bool {
	if s.PasswordHash != "" {
		return s.Passwords.Compare(s.PasswordHash, password) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
}

// Authorize enforces RequiredRole on restricted bus messages using the
// principal stored in ctx.
func (s *Service) Authorize(ctx context.Context, message any) error {
	restricted, ok := message.(domainauth.Restricted)
	if !ok {
		return nil
	}
	role := restricted.RequiredRole()
	if role == "" {
		return nil
	}
	p, ok := domainauth.PrincipalFromContext(ctx)
	if !ok {
		return domainauth.ErrUnauthenticated
	}
	if !p.HasRole(role) {
		return domainauth.ErrForbidden
	}
	return nil
}
