// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
)

// PermissionSource resolves a user's role and permission set. It is
// consulted on every guarded request so permission edits take effect
// without re-login.
type PermissionSource interface {
	PermissionsForUser(ctx context.Context, userID string) (*model.Role, []model.Permission, error)
}

// EventRecorder stores audit events. Recording is best effort, a failed
// insert never fails the guarded request.
type EventRecorder interface {
	InsertEvent(ctx context.Context, e *model.Event) error
}

// Authorizer builds per-route authorization middleware over a permission
// source. The Admin role bypasses permission checks by name.
type Authorizer struct {
	Source   PermissionSource
	Sessions *scs.SessionManager
	Renderer *render.Renderer
	Events   EventRecorder
}

// Require creates middleware that allows the request only when the
// current user's role holds a permission matching resource and action
// exactly. Denials render the unauthorized view with a 403 status.
func (a *Authorizer) Require(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				// Identity never reached the context, the session is not
				// trustworthy. Tear it down and start over at login.
				if a.Sessions != nil {
					_ = a.Sessions.Destroy(r.Context())
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			role, perms, err := a.Source.PermissionsForUser(r.Context(), user.ID)
			if err != nil {
				// A failed lookup means the identity cannot be verified,
				// same treatment as a missing one.
				slog.Error("resolving permissions", "error", err, "user_id", user.ID)
				if a.Sessions != nil {
					_ = a.Sessions.Destroy(r.Context())
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if role.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			for _, p := range perms {
				if p.Allows(resource, action) {
					next.ServeHTTP(w, r)
					return
				}
			}

			a.deny(w, r, user, role, resource, action)
		})
	}
}

func (a *Authorizer) deny(w http.ResponseWriter, r *http.Request, user *model.User, role *model.Role, resource, action string) {
	roleName := ""
	if role != nil {
		roleName = role.Name
	}

	slog.Warn("access denied",
		"status", http.StatusForbidden,
		"method", r.Method,
		"path", r.URL.Path,
		"user_id", user.ID,
		"role", roleName,
		"resource", resource,
		"action", action,
		"remote_addr", r.RemoteAddr,
	)

	if a.Events != nil {
		_ = a.Events.InsertEvent(r.Context(), &model.Event{
			Level:    model.EventLevelWarning,
			Category: model.EventCategoryAuthz,
			Message:  "Access denied: missing permission",
			UserID:   user.ID,
			IP:       r.RemoteAddr,
			Path:     r.URL.Path,
			Metadata: map[string]any{
				"method":   r.Method,
				"role":     roleName,
				"resource": resource,
				"action":   action,
			},
			CreatedAt: time.Now(),
		})
	}

	w.WriteHeader(http.StatusForbidden)
	if a.Renderer != nil {
		err := a.Renderer.Render(w, r, "admin/unauthorized", render.TemplateData{
			Title: "Unauthorized",
			User:  user,
		})
		if err == nil {
			return
		}
		slog.Error("rendering unauthorized view", "error", err)
	}
	_, _ = w.Write([]byte("Forbidden: missing permission"))
}
