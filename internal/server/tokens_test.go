package server

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	ts, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, expires, err := ts.Issue("user-1", RoleOwner, "sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 59*time.Minute {
		t.Errorf("unexpected expiry %v", expires)
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != "user-1" || claims.SessionID() != "sess-1" || claims.Role != RoleOwner {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenServiceRejects(t *testing.T) {
	ts, _ := NewTokenService("test-secret", time.Hour)
	other, _ := NewTokenService("other-secret", time.Hour)

	foreign, _, _ := other.Issue("user-1", RoleOwner, "sess-1")

	expired, _ := NewTokenService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue("user-1", RoleOwner, "sess-1")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleOwner}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", foreign},
		{"expired", old},
		{"unsigned", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenServiceEmptySecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
