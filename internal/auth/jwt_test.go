package auth

import (
	"testing"
	"time"

	"leadmart/config"

	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "leadmart-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 42, "v@example.com", "VENDOR")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "v@example.com" || claims.Role != "VENDOR" {
		t.Errorf("claims = %d/%s/%s, want 42/v@example.com/VENDOR", claims.UserID, claims.Email, claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 1, "a@example.com", "BUYER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := testJWTConfig()
	other.AccessSecret = "a-different-secret"
	if _, err := ParseAccessToken(other, token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	claims := AccessClaims{
		UserID: 1,
		Role:   "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenSubjectCarriesUserID(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	token, err := GenerateRefreshToken(cfg, 99)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseRefreshToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "99" {
		t.Errorf("subject = %q, want 99", claims.Subject)
	}
}
