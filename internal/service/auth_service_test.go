package service

import (
	"errors"
	"testing"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, enabled bool) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewAuthService(&config.AuthConfig{
		Enabled:           enabled,
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecret:         "a-test-secret-that-is-long-enough",
		ExpireTime:        time.Hour,
	})
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	s := newAuth(t, true)

	res, err := s.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if time.Until(res.ExpiresAt) <= 0 {
		t.Fatalf("token already expired: %v", res.ExpiresAt)
	}

	claims, err := s.Verify(res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "admin" || claims.Role != util.RoleAdmin {
		t.Fatalf("unexpected claims %#v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newAuth(t, true)

	if _, err := s.Login("admin", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login("root", "hunter2"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong user: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Verify("not.a.token"); err == nil {
		t.Fatalf("garbage token verified")
	}
}

func TestLoginWhenDisabled(t *testing.T) {
	if _, err := newAuth(t, false).Login("admin", "hunter2"); !errors.Is(err, util.ErrAuthDisabled) {
		t.Fatalf("want ErrAuthDisabled, got %v", err)
	}
}
