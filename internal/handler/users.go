// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/auth"
	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/store"
)

// minPasswordLength is the minimum accepted password length for new accounts.
const minPasswordLength = 8

// UserHandler handles user management routes.
type UserHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *UserHandler {
	return &UserHandler{store: st, renderer: renderer, sessionManager: sm}
}

// UsersListData holds data for the users list template.
type UsersListData struct {
	Users      []model.User
	RoleNames  map[string]string
	Pagination AdminPagination
}

// List handles GET /admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	users, total, err := h.store.ListUsers(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	roleNames := make(map[string]string)
	if roles, err := h.store.AllRoles(r.Context()); err != nil {
		slog.Error("failed to load roles", "error", err)
	} else {
		for _, role := range roles {
			roleNames[role.ID] = role.Name
		}
	}

	data := UsersListData{
		Users:      users,
		RoleNames:  roleNames,
		Pagination: BuildAdminPagination(params, total, redirectAdminUsers, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/users_list", render.TemplateData{
		Title:  "Users",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering users list", "error", err)
	}
}

// UserFormData holds data for the user form template.
type UserFormData struct {
	FormUser *model.User
	Roles    []model.Role
	IsEdit   bool
}

// NewForm handles GET /admin/users/new.
func (h *UserHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New User", UserFormData{Roles: h.allRoles(r)})
}

// Create handles POST /admin/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsersNew) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"email", "Email"},
		[2]string{"password", "Password"},
		[2]string{"role_id", "Role"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminUsersNew, missing+" is required")
		return
	}

	email := r.FormValue("email")
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Email address is not valid")
		return
	}

	password := r.FormValue("password")
	if len(password) < minPasswordLength {
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Error creating user")
		return
	}

	now := time.Now()
	user := &model.User{
		ID:           store.NewID(),
		Name:         r.FormValue("name"),
		Email:        email,
		PasswordHash: hash,
		RoleID:       r.FormValue("role_id"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminUsersNew, "A user with this email already exists")
			return
		}
		slog.Error("failed to create user", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Error creating user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "email", user.Email,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User created successfully")
}

// EditForm handles GET /admin/users/{id}.
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "User", idParam(r),
		func(id string) (*model.User, error) { return h.store.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderForm(w, r, "Edit User", UserFormData{FormUser: user, Roles: h.allRoles(r), IsEdit: true})
}

// Update handles POST /admin/users/{id}. An empty password field leaves the
// current password unchanged.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "User", idParam(r),
		func(id string) (*model.User, error) { return h.store.GetUserByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"email", "Email"},
		[2]string{"role_id", "Role"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminUsers, missing+" is required")
		return
	}

	email := r.FormValue("email")
	if _, err := mail.ParseAddress(email); err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Email address is not valid")
		return
	}

	user.Name = r.FormValue("name")
	user.Email = email
	user.RoleID = r.FormValue("role_id")
	user.UpdatedAt = time.Now()

	passwordChanged := false
	if password := r.FormValue("password"); password != "" {
		if len(password) < minPasswordLength {
			flashError(w, r, h.renderer, redirectAdminUsers, "Password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			flashError(w, r, h.renderer, redirectAdminUsers, "Error updating user")
			return
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminUsers, "A user with this email already exists")
			return
		}
		slog.Error("failed to update user", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectAdminUsers, "Error updating user")
		return
	}

	// Changing your own password invalidates the old session token
	if passwordChanged && user.ID == middleware.GetUserID(r) {
		if err := h.sessionManager.RenewToken(r.Context()); err != nil {
			slog.Error("session renewal after password change failed", "error", err)
		}
	}

	slog.Info("user updated", "user_id", user.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User updated successfully")
}

// Delete handles POST /admin/users/{id}/delete. Users cannot delete their
// own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminUsers, "User not found")
			return
		}
		slog.Error("failed to delete user", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Error deleting user")
		return
	}

	slog.Info("user deleted", "user_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted successfully")
}

func (h *UserHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data UserFormData) {
	if err := h.renderer.Render(w, r, "admin/users_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering user form", "error", err)
	}
}

func (h *UserHandler) allRoles(r *http.Request) []model.Role {
	roles, err := h.store.AllRoles(r.Context())
	if err != nil {
		slog.Error("failed to load roles", "error", err)
	}
	return roles
}
