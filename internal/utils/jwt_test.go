package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "STAFF", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if time.Until(at.Exp) <= 0 {
		t.Fatalf("token already expired at %s", at.Exp)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", tok.Claims)
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("expected sub 42, got %v", claims["sub"])
	}
	if claims["role"] != "STAFF" {
		t.Fatalf("expected role STAFF, got %v", claims["role"])
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right", 1, "CUSTOMER", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil && tok.Valid {
		t.Fatalf("token must not validate under a different secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatalf("hash must be deterministic")
	}
	other, _ := NewRefreshToken(30)
	if rt.Raw == other.Raw {
		t.Fatalf("two refresh tokens must not collide")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	h, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(h, "s3cret") {
		t.Fatalf("correct password must verify")
	}
	if VerifyPassword(h, "wrong") {
		t.Fatalf("wrong password must not verify")
	}
}
