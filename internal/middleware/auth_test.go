// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/session"
)

func newTestSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()
	return sm
}

func sessionRequest(t *testing.T, sm *scs.SessionManager, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("session load error: %v", err)
	}
	if userID != "" {
		sm.Put(ctx, session.KeyUserID, userID)
	}
	return req.WithContext(ctx)
}

func TestAuth_NoSessionRedirects(t *testing.T) {
	sm := newTestSessionManager()
	mw := Auth(sm)

	w := httptest.NewRecorder()
	req := sessionRequest(t, sm, "")
	mw(okHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	// The login page pops this message so the user learns why they
	// were sent back.
	if flash := sm.PopString(req.Context(), session.KeyFlash); flash != "Your session has expired, please sign in again." {
		t.Errorf("flash = %q, want session expired notice", flash)
	}
}

func TestAuth_WithSessionPasses(t *testing.T) {
	sm := newTestSessionManager()
	mw := Auth(sm)

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, sessionRequest(t, sm, "u1"))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireGuest(t *testing.T) {
	sm := newTestSessionManager()
	mw := RequireGuest(sm)

	t.Run("guest passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(w, sessionRequest(t, sm, ""))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("authenticated user redirected to console", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(w, sessionRequest(t, sm, "u1"))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if loc := w.Header().Get("Location"); loc != "/admin" {
			t.Errorf("Location = %q, want /admin", loc)
		}
	})
}

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user := GetUser(req); user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
		if id := GetUserID(req); id != "" {
			t.Errorf("GetUserID() = %q, want empty", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := &model.User{ID: "abc123", Email: "test@example.com", Name: "Test User"}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != "abc123" {
			t.Errorf("GetUser().ID = %q, want abc123", user.ID)
		}
		if GetUserID(req) != "abc123" {
			t.Errorf("GetUserID() = %q, want abc123", GetUserID(req))
		}
	})
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/product", nil)
	RequestPath(handler).ServeHTTP(w, req)

	if got != "/admin/product" {
		t.Errorf("GetRequestPath() = %q, want /admin/product", got)
	}
}
