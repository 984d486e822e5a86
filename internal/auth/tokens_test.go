package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

	token, err := codec.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, ok := codec.UserID(token)
	if !ok {
		t.Fatal("expected token to verify")
	}
	if got != "user-1" {
		t.Fatalf("expected user-1, got %q", got)
	}
}

func TestTokenExpired(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Minute)
	codec.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

	token, err := codec.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	codec.now = func() time.Time { return time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC) }
	if _, ok := codec.UserID(token); ok {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	verifier := NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, ok := verifier.UserID(token); ok {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestTokenGarbage(t *testing.T) {
	codec := NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if _, ok := codec.UserID("not-a-token"); ok {
		t.Fatal("expected garbage to be rejected")
	}
}
