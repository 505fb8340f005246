package service

import (
	"testing"
	"time"

	"github.com/wowlabz/accounts-api/internal/core/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	signed, expiry, err := tm.Create("64f000000000000000000001", domain.RoleTalent, domain.TokenBearer, AccessTokenTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantExpiry := time.Now().Add(AccessTokenTTL).UnixMilli()
	if diff := wantExpiry - expiry; diff < -5000 || diff > 5000 {
		t.Fatalf("expiry %d not within 5s of %d", expiry, wantExpiry)
	}

	claims, err := tm.Verify(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.UserType != domain.RoleTalent {
		t.Fatalf("user type mismatch: %s", claims.UserType)
	}
	if claims.TokenType != domain.TokenBearer {
		t.Fatalf("token type mismatch: %s", claims.TokenType)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	signed, _, err := NewTokenManager("secret-a").Create("u1", domain.RoleClient, domain.TokenBearer, AccessTokenTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Verify(signed); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed, _, err := tm.Create("u1", domain.RoleClient, domain.TokenBearer, -time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tm.Verify(signed); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenManager_Garbage(t *testing.T) {
	if _, err := NewTokenManager("test-secret").Verify("not-a-jwt"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenManager_RefreshTypeSurvives(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed, _, err := tm.Create("u1", domain.RoleSuperAdmin, domain.TokenRefresh, RefreshTokenTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := tm.Verify(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.TokenType != domain.TokenRefresh {
		t.Fatalf("expected refresh type, got %s", claims.TokenType)
	}
}
