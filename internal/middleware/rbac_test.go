// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirelo-dev/canopy/internal/model"
)

// stubPermissionSource returns a fixed role and permission set.
type stubPermissionSource struct {
	role  *model.Role
	perms []model.Permission
	err   error
}

func (s *stubPermissionSource) PermissionsForUser(ctx context.Context, userID string) (*model.Role, []model.Permission, error) {
	return s.role, s.perms, s.err
}

// memEventRecorder captures events in memory.
type memEventRecorder struct {
	events []*model.Event
}

func (m *memEventRecorder) InsertEvent(ctx context.Context, e *model.Event) error {
	m.events = append(m.events, e)
	return nil
}

func requestWithUser(user *model.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/product", nil)
	if user != nil {
		ctx := context.WithValue(req.Context(), ContextKeyUser, user)
		req = req.WithContext(ctx)
	}
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthorize_ExactMatch(t *testing.T) {
	tests := []struct {
		name       string
		role       *model.Role
		perms      []model.Permission
		resource   string
		action     string
		wantStatus int
	}{
		{
			name:       "matching permission allows",
			role:       &model.Role{Name: "Editor"},
			perms:      []model.Permission{{Resource: "Product", Action: "Edit"}},
			resource:   "Product",
			action:     "Edit",
			wantStatus: http.StatusOK,
		},
		{
			name:       "different action denied",
			role:       &model.Role{Name: "Editor"},
			perms:      []model.Permission{{Resource: "Product", Action: "Read"}},
			resource:   "Product",
			action:     "Delete",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "different resource denied",
			role:       &model.Role{Name: "Editor"},
			perms:      []model.Permission{{Resource: "Post", Action: "Edit"}},
			resource:   "Product",
			action:     "Edit",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "match is case sensitive",
			role:       &model.Role{Name: "Editor"},
			perms:      []model.Permission{{Resource: "product", Action: "edit"}},
			resource:   "Product",
			action:     "Edit",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "empty permission set denied",
			role:       &model.Role{Name: "Viewer"},
			perms:      nil,
			resource:   "Product",
			action:     "Read",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin role bypasses with no permissions",
			role:       &model.Role{Name: model.RoleAdmin},
			perms:      nil,
			resource:   "Product",
			action:     "Delete",
			wantStatus: http.StatusOK,
		},
		{
			name:       "lowercase admin does not bypass",
			role:       &model.Role{Name: "admin"},
			perms:      nil,
			resource:   "Product",
			action:     "Read",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Authorizer{
				Source: &stubPermissionSource{role: tt.role, perms: tt.perms},
			}
			mw := a.Require(tt.resource, tt.action)

			w := httptest.NewRecorder()
			req := requestWithUser(&model.User{ID: "u1", Name: "Test"})
			mw(okHandler()).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthorize_MissingUserRedirects(t *testing.T) {
	a := &Authorizer{
		Source: &stubPermissionSource{role: &model.Role{Name: model.RoleAdmin}},
	}
	mw := a.Require("Product", "Read")

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, requestWithUser(nil))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestAuthorize_SourceErrorRedirectsToLogin(t *testing.T) {
	a := &Authorizer{
		Source: &stubPermissionSource{err: context.DeadlineExceeded},
	}
	mw := a.Require("Product", "Read")

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, requestWithUser(&model.User{ID: "u1"}))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestAuthorize_DenialRecordsEvent(t *testing.T) {
	rec := &memEventRecorder{}
	a := &Authorizer{
		Source: &stubPermissionSource{role: &model.Role{Name: "Viewer"}},
		Events: rec,
	}
	mw := a.Require("Product", "Delete")

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, requestWithUser(&model.User{ID: "u1"}))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	e := rec.events[0]
	if e.Category != model.EventCategoryAuthz {
		t.Errorf("event category = %q, want %q", e.Category, model.EventCategoryAuthz)
	}
	if e.UserID != "u1" {
		t.Errorf("event user id = %q, want u1", e.UserID)
	}
	if e.Metadata["resource"] != "Product" || e.Metadata["action"] != "Delete" {
		t.Errorf("event metadata = %v", e.Metadata)
	}
}

func TestAuthorize_AllowDoesNotRecordEvent(t *testing.T) {
	rec := &memEventRecorder{}
	a := &Authorizer{
		Source: &stubPermissionSource{
			role:  &model.Role{Name: "Editor"},
			perms: []model.Permission{{Resource: "Product", Action: "Read"}},
		},
		Events: rec,
	}
	mw := a.Require("Product", "Read")

	w := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(w, requestWithUser(&model.User{ID: "u1"}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(rec.events) != 0 {
		t.Errorf("recorded %d events, want 0", len(rec.events))
	}
}
