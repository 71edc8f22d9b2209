package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/contentcreate/storefront-backend/pkg/config"
	"github.com/contentcreate/storefront-backend/pkg/enums"
)

var jwtCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "contentcreate",
	ExpirationMinutes: 30,
}

func TestMintAndParse(t *testing.T) {
	userID := uuid.New()
	signed, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{
		UserID:   userID,
		Role:     enums.LegacyRoleCustomer,
		IsSeller: true,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(jwtCfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Role != enums.LegacyRoleCustomer {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
	if !claims.IsSeller {
		t.Fatal("is_seller flag dropped")
	}
	if claims.ID == "" {
		t.Fatal("jti should be generated when absent")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.LegacyRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := jwtCfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("token signed with another secret should fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(jwtCfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.LegacyRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(jwtCfg, signed); err == nil {
		t.Fatal("expired token should fail")
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	if _, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.LegacyRole("superuser"),
	}); err == nil {
		t.Fatal("unknown role should be rejected")
	}
}
