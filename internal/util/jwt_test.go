package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManagerGenerateAndParse(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute)

	userID := uuid.New()
	token, expiresAt, err := manager.Generate(userID, "admin@desa.id", []string{"admin"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Fatalf("expected admin role claim, got %v", claims.Roles)
	}
}

func TestJWTManagerTokensAreUnique(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	userID := uuid.New()
	first, _, _ := manager.Generate(userID, "a@desa.id", nil)
	second, _, _ := manager.Generate(userID, "a@desa.id", nil)
	if first == second {
		t.Fatal("two logins in the same second must not share a token")
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	manager.now = func() time.Time { return issued }
	token, _, err := manager.Generate(uuid.New(), "admin@desa.id", nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}

func TestJWTManagerRejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Minute).Generate(uuid.New(), "admin@desa.id", nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := NewJWTManager("two", time.Minute).Parse(token); err == nil {
		t.Fatal("expected signature error")
	}
}
