package auth

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()

	service, err := NewTokenService(strings.Repeat("s", 32), "super-secret-access-key")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return service
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	token, err := service.Issue("super-secret-access-key")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := service.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("Role = %q", claims.Role)
	}
}

func TestTokenService_IssueRejectsWrongKey(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	if _, err := service.Issue("wrong-key"); !errors.Is(err, ErrInvalidAccessKey) {
		t.Fatalf("expected ErrInvalidAccessKey, got %v", err)
	}
}

func TestTokenService_VerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	service := newTestService(t)

	if _, err := service.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_VerifyRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	other, err := NewTokenService(strings.Repeat("x", 32), "super-secret-access-key")
	if err != nil {
		t.Fatal(err)
	}

	token, err := other.Issue("super-secret-access-key")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if got := ExtractBearerToken(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if got := ExtractBearerToken(r); got != "abc123" {
		t.Fatalf("ExtractBearerToken = %q", got)
	}

	r.Header.Set("Authorization", "Basic abc123")
	if got := ExtractBearerToken(r); got != "" {
		t.Fatalf("expected empty token for Basic auth, got %q", got)
	}
}
