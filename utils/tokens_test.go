package utils

import (
	"testing"
	"time"
)

func TestManagerAccessTokenRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := m.NewAccessToken(42, "steward", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	userID, role, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id mismatch: %d", userID)
	}
	if role != "steward" {
		t.Errorf("role mismatch: %q", role)
	}
}

func TestManagerRejectsWrongKey(t *testing.T) {
	m1, _ := NewManager("secret-one")
	m2, _ := NewManager("secret-two")

	token, err := m1.NewAccessToken(1, "customer", time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, _, err := m2.Parse(token); err == nil {
		t.Fatal("expected parse to fail with a different key")
	}
}

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error for empty signing key")
	}
}

func TestNewRefreshTokenIsUnique(t *testing.T) {
	m, _ := NewManager("test-secret")

	a, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens should not collide")
	}
	if len(a) != 64 {
		t.Errorf("unexpected token length: %d", len(a))
	}
}
