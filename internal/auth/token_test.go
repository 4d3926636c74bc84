// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var tokenSecret = []byte("0123456789abcdef0123456789abcdef")

func TestAPIToken_RoundTrip(t *testing.T) {
	token, err := GenerateAPIToken(tokenSecret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAPIToken error: %v", err)
	}

	claims, err := ParseAPIToken(tokenSecret, token)
	if err != nil {
		t.Fatalf("ParseAPIToken error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Scope != ScopeAPI {
		t.Errorf("Scope = %q, want %q", claims.Scope, ScopeAPI)
	}
}

func TestAPIToken_WrongSecret(t *testing.T) {
	token, err := GenerateAPIToken(tokenSecret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAPIToken error: %v", err)
	}

	if _, err := ParseAPIToken([]byte("another-secret-another-secret-xx"), token); err == nil {
		t.Fatal("token signed with a different secret was accepted")
	}
}

func TestAPIToken_Expired(t *testing.T) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Scope: ScopeAPI,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenSecret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := ParseAPIToken(tokenSecret, token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestAPIToken_MissingScope(t *testing.T) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenSecret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := ParseAPIToken(tokenSecret, token); err == nil {
		t.Fatal("token without api scope was accepted")
	}
}

func TestAPIToken_NoneAlgorithmRejected(t *testing.T) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scope: ScopeAPI,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := ParseAPIToken(tokenSecret, token); err == nil {
		t.Fatal("unsigned token was accepted")
	}
}
