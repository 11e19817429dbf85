package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "chumma-order",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), userID, "Prasanna V")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.FullName != "Prasanna V" {
		t.Fatalf("full name = %q", claims.FullName)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	minted := testJWTConfig()
	minted.Issuer = "someone-else"
	token, err := MintAccessToken(minted, time.Now(), uuid.New(), "")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatalf("accepted a token from the wrong issuer")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.New(), "")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("accepted an expired token")
	}
}

func TestParseRejectsTamperedSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), uuid.New(), "")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("accepted a token signed with a different secret")
	}
}
