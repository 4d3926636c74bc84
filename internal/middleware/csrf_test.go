// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var csrfTestKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	t.Run("development trusts localhost", func(t *testing.T) {
		cfg := DefaultCSRFConfig(csrfTestKey, true)
		if len(cfg.AuthKey) != 32 {
			t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
		}
		if len(cfg.TrustedOrigins) != 2 {
			t.Fatalf("TrustedOrigins = %v, want two entries", cfg.TrustedOrigins)
		}
		for _, origin := range cfg.TrustedOrigins {
			// The csrf library expects host:port values, not full URLs.
			if len(origin) > 4 && origin[:4] == "http" {
				t.Errorf("TrustedOrigin %q should be host:port, not a URL", origin)
			}
		}
	})

	t.Run("production trusts nothing", func(t *testing.T) {
		cfg := DefaultCSRFConfig(csrfTestKey, false)
		if len(cfg.TrustedOrigins) != 0 {
			t.Errorf("TrustedOrigins = %v, want none in production", cfg.TrustedOrigins)
		}
	})
}

func TestCSRFBlocksCrossSiteWrites(t *testing.T) {
	mw := CSRF(DefaultCSRFConfig(csrfTestKey, false))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("cross-site POST rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("same-origin POST allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
		req.Header.Set("Sec-Fetch-Site", "same-origin")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("GET allowed without fetch metadata", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestCSRFCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(csrfTestKey, false)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	})
	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}

func TestSkipCSRF(t *testing.T) {
	mw := CSRF(DefaultCSRFConfig(csrfTestKey, false))
	skip := SkipCSRF("/api/v1/enquiries")
	handler := skip(mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("skipped path passes cross-site", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/enquiries", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("other paths still guarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})
}
