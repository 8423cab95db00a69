package service

import (
	"errors"
	"testing"

	"github.com/aegisai/backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(t *testing.T) config.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return config.AuthConfig{
		JWTSecret:            "test-secret",
		OperatorID:           "operator",
		OperatorPasswordHash: string(hash),
		AccessTTLMinutes:     30,
	}
}

func TestNewAuthServiceValidation(t *testing.T) {
	if _, err := NewAuthService(config.AuthConfig{OperatorPasswordHash: "x"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("missing JWT secret must be rejected, got %v", err)
	}
	if _, err := NewAuthService(config.AuthConfig{JWTSecret: "s"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("missing password hash must be rejected, got %v", err)
	}
	if _, err := NewAuthService(config.AuthConfig{JWTSecret: "s", OperatorPasswordHash: "plaintext"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("non-bcrypt hash must be rejected, got %v", err)
	}
}

func TestLoginAndParseToken(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(t))
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	token, expiresIn, err := svc.Login("operator", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if expiresIn != 30*60 {
		t.Fatalf("expiresIn = %d, want 1800", expiresIn)
	}

	loginID, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if loginID != "operator" {
		t.Fatalf("loginID = %q", loginID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(t))
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	if _, _, err := svc.Login("operator", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password must be unauthorized, got %v", err)
	}
	if _, _, err := svc.Login("admin", "correct-horse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown operator must be unauthorized, got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(t))
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	if _, err := svc.ParseAccessToken("not.a.token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token must be unauthorized, got %v", err)
	}
}
