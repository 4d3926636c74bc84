// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/store"
)

// RBACHandler handles role and permission management routes.
type RBACHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewRBACHandler creates a new RBACHandler.
func NewRBACHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *RBACHandler {
	return &RBACHandler{store: st, renderer: renderer, sessionManager: sm}
}

// RolesListData holds data for the roles list template.
type RolesListData struct {
	Roles      []model.Role
	Pagination AdminPagination
}

// ListRoles handles GET /admin/roles.
func (h *RBACHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	roles, total, err := h.store.ListRoles(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list roles", "error", err)
		return
	}

	data := RolesListData{
		Roles:      roles,
		Pagination: BuildAdminPagination(params, total, redirectAdminRoles, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/roles_list", render.TemplateData{
		Title:  "Roles",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering roles list", "error", err)
	}
}

// RoleFormData holds data for the role form template.
type RoleFormData struct {
	Role        *model.Role
	Permissions []model.Permission
	Assigned    map[string]bool
	IsEdit      bool
}

// NewRoleForm handles GET /admin/roles/new.
func (h *RBACHandler) NewRoleForm(w http.ResponseWriter, r *http.Request) {
	h.renderRoleForm(w, r, "New Role", RoleFormData{Permissions: h.allPermissions(r)})
}

// CreateRole handles POST /admin/roles.
func (h *RBACHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminRoles) {
		return
	}

	if missing := firstMissingField(r, [2]string{"name", "Name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminRoles, missing+" is required")
		return
	}

	now := time.Now()
	role := &model.Role{
		ID:            store.NewID(),
		Name:          r.FormValue("name"),
		PermissionIDs: r.Form["permission_ids"],
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.store.CreateRole(r.Context(), role); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminRoles, "A role with this name already exists")
			return
		}
		slog.Error("failed to create role", "error", err)
		flashError(w, r, h.renderer, redirectAdminRoles, "Error creating role")
		return
	}

	slog.Info("role created", "role_id", role.ID, "name", role.Name,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminRoles, "Role created successfully")
}

// EditRoleForm handles GET /admin/roles/{id}.
func (h *RBACHandler) EditRoleForm(w http.ResponseWriter, r *http.Request) {
	role, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminRoles, "Role", idParam(r),
		func(id string) (*model.Role, error) { return h.store.GetRoleByID(r.Context(), id) })
	if !ok {
		return
	}

	assigned := make(map[string]bool, len(role.PermissionIDs))
	for _, id := range role.PermissionIDs {
		assigned[id] = true
	}

	h.renderRoleForm(w, r, "Edit Role", RoleFormData{
		Role:        role,
		Permissions: h.allPermissions(r),
		Assigned:    assigned,
		IsEdit:      true,
	})
}

// UpdateRole handles POST /admin/roles/{id}. Permission edits take effect on
// the next guarded request; grants are never cached.
func (h *RBACHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminRoles) {
		return
	}

	role, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminRoles, "Role", idParam(r),
		func(id string) (*model.Role, error) { return h.store.GetRoleByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r, [2]string{"name", "Name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminRoles, missing+" is required")
		return
	}

	// The admin role name is load-bearing; renaming it away would lock
	// every administrator out.
	if role.IsAdmin() && r.FormValue("name") != model.RoleAdmin {
		flashError(w, r, h.renderer, redirectAdminRoles, "The Admin role cannot be renamed")
		return
	}

	role.Name = r.FormValue("name")
	role.PermissionIDs = r.Form["permission_ids"]
	role.UpdatedAt = time.Now()

	if err := h.store.UpdateRole(r.Context(), role); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminRoles, "A role with this name already exists")
			return
		}
		slog.Error("failed to update role", "error", err, "role_id", role.ID)
		flashError(w, r, h.renderer, redirectAdminRoles, "Error updating role")
		return
	}

	slog.Info("role updated", "role_id", role.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminRoles, "Role updated successfully")
}

// DeleteRole handles POST /admin/roles/{id}/delete.
func (h *RBACHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	role, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminRoles, "Role", idParam(r),
		func(id string) (*model.Role, error) { return h.store.GetRoleByID(r.Context(), id) })
	if !ok {
		return
	}

	if role.IsAdmin() {
		flashError(w, r, h.renderer, redirectAdminRoles, "The Admin role cannot be deleted")
		return
	}

	if err := h.store.DeleteRole(r.Context(), role.ID); err != nil {
		slog.Error("failed to delete role", "error", err, "role_id", role.ID)
		flashError(w, r, h.renderer, redirectAdminRoles, "Cannot delete role: "+err.Error())
		return
	}

	slog.Info("role deleted", "role_id", role.ID, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminRoles, "Role deleted successfully")
}

// PermissionsListData holds data for the permissions list template.
type PermissionsListData struct {
	Permissions []model.Permission
	Pagination  AdminPagination
}

// ListPermissions handles GET /admin/permissions.
func (h *RBACHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	perms, total, err := h.store.ListPermissions(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list permissions", "error", err)
		return
	}

	data := PermissionsListData{
		Permissions: perms,
		Pagination:  BuildAdminPagination(params, total, redirectAdminPermissions, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/permissions_list", render.TemplateData{
		Title:  "Permissions",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering permissions list", "error", err)
	}
}

// PermissionFormData holds data for the permission form template.
type PermissionFormData struct {
	Permission *model.Permission
	Resources  []string
	Actions    []string
	IsEdit     bool
}

// NewPermissionForm handles GET /admin/permissions/new.
func (h *RBACHandler) NewPermissionForm(w http.ResponseWriter, r *http.Request) {
	h.renderPermissionForm(w, r, "New Permission", PermissionFormData{
		Resources: model.Resources,
		Actions:   model.Actions,
	})
}

// CreatePermission handles POST /admin/permissions.
func (h *RBACHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPermissions) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"resource", "Resource"},
		[2]string{"action", "Action"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPermissions, missing+" is required")
		return
	}

	action := r.FormValue("action")
	if !model.IsValidAction(action) {
		flashError(w, r, h.renderer, redirectAdminPermissions, "Unknown action "+action)
		return
	}

	now := time.Now()
	perm := &model.Permission{
		ID:        store.NewID(),
		Resource:  r.FormValue("resource"),
		Action:    action,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreatePermission(r.Context(), perm); err != nil {
		slog.Error("failed to create permission", "error", err)
		flashError(w, r, h.renderer, redirectAdminPermissions, "Error creating permission")
		return
	}

	slog.Info("permission created", "permission_id", perm.ID,
		"resource", perm.Resource, "action", perm.Action, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPermissions, "Permission created successfully")
}

// EditPermissionForm handles GET /admin/permissions/{id}.
func (h *RBACHandler) EditPermissionForm(w http.ResponseWriter, r *http.Request) {
	perm, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPermissions, "Permission", idParam(r),
		func(id string) (*model.Permission, error) { return h.store.GetPermissionByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderPermissionForm(w, r, "Edit Permission", PermissionFormData{
		Permission: perm,
		Resources:  model.Resources,
		Actions:    model.Actions,
		IsEdit:     true,
	})
}

// UpdatePermission handles POST /admin/permissions/{id}.
func (h *RBACHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPermissions) {
		return
	}

	perm, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPermissions, "Permission", idParam(r),
		func(id string) (*model.Permission, error) { return h.store.GetPermissionByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"resource", "Resource"},
		[2]string{"action", "Action"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPermissions, missing+" is required")
		return
	}

	action := r.FormValue("action")
	if !model.IsValidAction(action) {
		flashError(w, r, h.renderer, redirectAdminPermissions, "Unknown action "+action)
		return
	}

	perm.Resource = r.FormValue("resource")
	perm.Action = action
	perm.UpdatedAt = time.Now()

	if err := h.store.UpdatePermission(r.Context(), perm); err != nil {
		slog.Error("failed to update permission", "error", err, "permission_id", perm.ID)
		flashError(w, r, h.renderer, redirectAdminPermissions, "Error updating permission")
		return
	}

	slog.Info("permission updated", "permission_id", perm.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPermissions, "Permission updated successfully")
}

// DeletePermission handles POST /admin/permissions/{id}/delete.
func (h *RBACHandler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeletePermission(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPermissions, "Permission not found")
			return
		}
		slog.Error("failed to delete permission", "error", err, "permission_id", id)
		flashError(w, r, h.renderer, redirectAdminPermissions, "Error deleting permission")
		return
	}

	slog.Info("permission deleted", "permission_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPermissions, "Permission deleted successfully")
}

func (h *RBACHandler) renderRoleForm(w http.ResponseWriter, r *http.Request, title string, data RoleFormData) {
	if err := h.renderer.Render(w, r, "admin/roles_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering role form", "error", err)
	}
}

func (h *RBACHandler) renderPermissionForm(w http.ResponseWriter, r *http.Request, title string, data PermissionFormData) {
	if err := h.renderer.Render(w, r, "admin/permissions_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering permission form", "error", err)
	}
}

// allPermissions returns every permission sorted by resource then action so
// the role form checkbox grid is stable.
func (h *RBACHandler) allPermissions(r *http.Request) []model.Permission {
	perms, err := h.store.AllPermissions(r.Context())
	if err != nil {
		slog.Error("failed to load permissions", "error", err)
	}
	sort.Slice(perms, func(i, j int) bool {
		if perms[i].Resource != perms[j].Resource {
			return perms[i].Resource < perms[j].Resource
		}
		return perms[i].Action < perms[j].Action
	})
	return perms
}
