package auth

import (
	"context"
	"errors"
	"testing"

	domainauth "imoveis/internal/domain/auth"
	"imoveis/internal/infra/security"
)

type adminOnly struct{}

func (adminOnly) RequiredRole() domainauth.Role { return domainauth.RoleAdmin }

func TestAuthenticatePlainPassword(t *testing.T) {
	svc := &Service{Username: "admin", Password: "s3cret"}

	p, err := svc.Authenticate(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !p.HasRole(domainauth.RoleAdmin) {
		t.Errorf("principal lacks admin role: %+v", p)
	}
	if _, err := svc.Authenticate(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "root", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong user err = %v", err)
	}
}

func TestAuthenticateHashedPassword(t *testing.T) {
	hasher := security.BcryptHasher{Cost: 4}
	hash, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	svc := &Service{Username: "admin", Password: "ignored", PasswordHash: hash, Passwords: hasher}

	if _, err := svc.Authenticate(context.Background(), "admin", "s3cret"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "admin", "ignored"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("plain password should not be accepted when a hash is set, err = %v", err)
	}
}

func TestAuthenticateNotConfigured(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	if err := svc.Authorize(ctx, struct{}{}); err != nil {
		t.Errorf("unrestricted message: %v", err)
	}
	if err := svc.Authorize(ctx, adminOnly{}); !errors.Is(err, domainauth.ErrUnauthenticated) {
		t.Errorf("anonymous err = %v", err)
	}
	guest := domainauth.ContextWithPrincipal(ctx, domainauth.Principal{Username: "x"})
	if err := svc.Authorize(guest, adminOnly{}); !errors.Is(err, domainauth.ErrForbidden) {
		t.Errorf("guest err = %v", err)
	}
	admin := domainauth.ContextWithPrincipal(ctx, domainauth.Principal{Username: "admin", Roles: []domainauth.Role{"ADMIN"}})
	if err := svc.Authorize(admin, adminOnly{}); err != nil {
		t.Errorf("admin err = %v", err)
	}
}
