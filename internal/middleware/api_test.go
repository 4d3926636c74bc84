// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mirelo-dev/canopy/internal/auth"
)

var apiSecret = []byte("0123456789abcdef0123456789abcdef")

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/enquiries", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return e
}

func TestBearerAuth_ValidToken(t *testing.T) {
	token, err := auth.GenerateAPIToken(apiSecret, "u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAPIToken error: %v", err)
	}

	var claims *auth.TokenClaims
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetAPIClaims(r)
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	BearerAuth(apiSecret)(handler).ServeHTTP(w, bearerRequest(token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if claims == nil || claims.Subject != "u1" {
		t.Errorf("claims = %+v, want subject u1", claims)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	BearerAuth(apiSecret)(okHandler()).ServeHTTP(w, bearerRequest(""))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if e := decodeAPIError(t, w); e.Success {
		t.Error("error envelope reports success")
	}
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/enquiries", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	w := httptest.NewRecorder()
	BearerAuth(apiSecret)(okHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestBearerAuth_BadToken(t *testing.T) {
	w := httptest.NewRecorder()
	BearerAuth(apiSecret)(okHandler()).ServeHTTP(w, bearerRequest("not.a.token"))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2)
	handler := rl.Middleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("X-Real-IP", "192.0.2.1")

	// Burst of 2 allowed, third request refused.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// A different IP has its own budget.
	other := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	other.Header.Set("X-Real-IP", "192.0.2.2")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	cache := newLimiterCache[string](1, 1)
	cache.get("a")
	cache.get("b")

	if cache.clearIfExceeds(10) {
		t.Error("cache cleared below threshold")
	}
	if !cache.clearIfExceeds(1) {
		t.Error("cache not cleared above threshold")
	}
}
