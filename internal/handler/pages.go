// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/store"
)

// PageHandler handles static page management routes.
type PageHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *PageHandler {
	return &PageHandler{store: st, renderer: renderer, sessionManager: sm}
}

// PagesListData holds data for the pages list template.
type PagesListData struct {
	Pages      []model.Page
	Pagination AdminPagination
}

// List handles GET /admin/pages.
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	pages, total, err := h.store.ListPages(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}

	data := PagesListData{
		Pages:      pages,
		Pagination: BuildAdminPagination(params, total, redirectAdminPages, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/pages_list", render.TemplateData{
		Title:  "Pages",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering pages list", "error", err)
	}
}

// PageFormData holds data for the page form template.
type PageFormData struct {
	Page   *model.Page
	IsEdit bool
}

// NewForm handles GET /admin/pages/new.
func (h *PageHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Page", PageFormData{})
}

// Create handles POST /admin/pages.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPagesNew) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"body", "Body"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPagesNew, missing+" is required")
		return
	}

	now := time.Now()
	page := &model.Page{
		ID:         store.NewID(),
		Title:      r.FormValue("title"),
		Slug:       deriveSlug(r.FormValue("title"), r.FormValue("slug")),
		Body:       r.FormValue("body"),
		SEO:        seoFromForm(r),
		ShowStatus: r.FormValue("show_status") != "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.store.CreatePage(r.Context(), page); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminPagesNew, "A page with this slug already exists")
			return
		}
		slog.Error("failed to create page", "error", err)
		flashError(w, r, h.renderer, redirectAdminPagesNew, "Error creating page")
		return
	}

	slog.Info("page created", "page_id", page.ID, "slug", page.Slug, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPages, "Page created successfully")
}

// EditForm handles GET /admin/pages/{id}.
func (h *PageHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	page, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPages, "Page", idParam(r),
		func(id string) (*model.Page, error) { return h.store.GetPageByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderForm(w, r, "Edit Page", PageFormData{Page: page, IsEdit: true})
}

// Update handles POST /admin/pages/{id}.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPages) {
		return
	}

	page, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPages, "Page", idParam(r),
		func(id string) (*model.Page, error) { return h.store.GetPageByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"body", "Body"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPages, missing+" is required")
		return
	}

	page.Title = r.FormValue("title")
	page.Slug = deriveSlug(page.Title, r.FormValue("slug"))
	page.Body = r.FormValue("body")
	page.SEO = seoFromForm(r)
	page.ShowStatus = r.FormValue("show_status") != ""
	page.UpdatedAt = time.Now()

	if err := h.store.UpdatePage(r.Context(), page); err != nil {
		slog.Error("failed to update page", "error", err, "page_id", page.ID)
		flashError(w, r, h.renderer, redirectAdminPages, "Error updating page")
		return
	}

	slog.Info("page updated", "page_id", page.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPages, "Page updated successfully")
}

// Delete handles POST /admin/pages/{id}/delete.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeletePage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPages, "Page not found")
			return
		}
		slog.Error("failed to delete page", "error", err, "page_id", id)
		flashError(w, r, h.renderer, redirectAdminPages, "Error deleting page")
		return
	}

	slog.Info("page deleted", "page_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPages, "Page deleted successfully")
}

// DeleteBulk handles POST /admin/pages/delete.
func (h *PageHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPages) {
		return
	}

	deleted, err := h.store.DeletePages(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPages, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete pages", "error", err)
		flashError(w, r, h.renderer, redirectAdminPages, "Error deleting pages")
		return
	}

	slog.Info("pages bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPages, "Selected pages deleted")
}

// ToggleStatus handles POST /admin/pages/{id}/status.
func (h *PageHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.TogglePageStatus(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPages, "Page not found")
			return
		}
		slog.Error("failed to toggle page status", "error", err, "page_id", id)
		flashError(w, r, h.renderer, redirectAdminPages, "Error updating page status")
		return
	}

	h.renderer.SetFlash(r, "Page visibility updated", "success")
	redirectBack(w, r, redirectAdminPages)
}

func (h *PageHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data PageFormData) {
	if err := h.renderer.Render(w, r, "admin/pages_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering page form", "error", err)
	}
}
