// ABOUTME: Tests for JWT token minting and verification
// ABOUTME: Covers round-trip, expiry, tampering, and secret length enforcement

package auth

import (
	"strings"
	"testing"
	"time"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength.
var tokenTestSecret = []byte("inkwell-token-test-secret-32byte")

func TestNewJWTVerifier_SecretTooShort(t *testing.T) {
	_, err := NewJWTVerifier([]byte("short"))
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier, err := NewJWTVerifier(tokenTestSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}

	token, err := verifier.Generate("user-123", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	userID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user ID 'user-123', got %q", userID)
	}
}

func TestJWTVerifier_Expired(t *testing.T) {
	verifier, _ := NewJWTVerifier(tokenTestSecret)

	token, err := verifier.Generate("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTVerifier_Tampered(t *testing.T) {
	verifier, _ := NewJWTVerifier(tokenTestSecret)

	token, _ := verifier.Generate("user-123", time.Hour)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := verifier.Verify(tampered); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	verifier, _ := NewJWTVerifier(tokenTestSecret)
	other, _ := NewJWTVerifier([]byte("another-token-secret-32-bytes-xx"))

	token, _ := verifier.Generate("user-123", time.Hour)

	if _, err := other.Verify(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestJWTVerifier_Garbage(t *testing.T) {
	verifier, _ := NewJWTVerifier(tokenTestSecret)

	if _, err := verifier.Verify("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}
