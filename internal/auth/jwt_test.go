package auth

import (
	"errors"
	"testing"

	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleAdmin,
	}
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret")
	user := testUser()

	tok, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	identity, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if identity.ID != user.ID {
		t.Fatalf("id mismatch: got %q want %q", identity.ID, user.ID)
	}
	if identity.Email != user.Email {
		t.Fatalf("email mismatch: got %q want %q", identity.Email, user.Email)
	}
	if identity.Role != models.RoleAdmin {
		t.Fatalf("role mismatch: got %q want %q", identity.Role, models.RoleAdmin)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret")
	tok, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one byte in the signature segment.
	raw := []byte(tok)
	raw[len(raw)-1] ^= 0x01

	_, err = tokens.Verify(string(raw))
	if err == nil {
		t.Fatalf("expected error for tampered token, got nil")
	}
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected apperr.ErrUnauthorized, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right-secret").Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService("wrong-secret").Verify(tok)
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("k").Verify("not.a.jwt")
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected apperr.ErrUnauthorized, got %v", err)
	}
}

func TestVerify_UnknownRole(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret")
	user := testUser()
	user.Role = models.Role("superuser")

	tok, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = tokens.Verify(tok)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected apperr.ErrUnauthorized for unknown role, got %v", err)
	}
}

func TestIssue_NoExpiryClaim(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret")
	tok, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Tokens stay valid until the secret rotates, so a verify far in the
	// "future" of issuance must still succeed; the claims set carries no
	// expiry to run out.
	if _, err := tokens.Verify(tok); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
}
