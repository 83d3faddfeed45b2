package auth

import (
	"testing"
	"time"
)

func TestJWTStrategyRoundTrip(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})

	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	id, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected user id 42, got %d", id)
	}
}

func TestJWTStrategyRejectsGarbage(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := strategy.ParseToken(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestJWTStrategyRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTStrategy("secret-a", Options{})
	verifier := NewJWTStrategy("secret-b", Options{})

	token, err := issuer.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if _, err := verifier.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestJWTStrategyRejectsExpired(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: -time.Minute})

	token, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if _, err := strategy.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTStrategyName(t *testing.T) {
	if got := NewJWTStrategy("secret", Options{}).Name(); got != "jwt" {
		t.Fatalf("unexpected strategy name %q", got)
	}
}
