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

// TaxonomyHandler handles category and tag management routes.
type TaxonomyHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *TaxonomyHandler {
	return &TaxonomyHandler{store: st, renderer: renderer, sessionManager: sm}
}

// CategoriesListData holds data for the categories list template.
type CategoriesListData struct {
	Categories []model.Category
	Kind       string
	Pagination AdminPagination
}

// ListCategories handles GET /admin/categories.
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	kind := r.URL.Query().Get("kind")

	categories, total, err := h.store.ListCategories(r.Context(), params, kind)
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	data := CategoriesListData{
		Categories: categories,
		Kind:       kind,
		Pagination: BuildAdminPagination(params, total, redirectAdminCategories, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/categories_list", render.TemplateData{
		Title:  "Categories",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering categories list", "error", err)
	}
}

// CategoryFormData holds data for the category form template.
type CategoryFormData struct {
	Category *model.Category
	Kinds    []string
	IsEdit   bool
}

// NewCategoryForm handles GET /admin/categories/new.
func (h *TaxonomyHandler) NewCategoryForm(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, "New Category", CategoryFormData{
		Kinds: []string{model.CategoryKindProduct, model.CategoryKindPost},
	})
}

// CreateCategory handles POST /admin/categories.
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"kind", "Kind"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCategories, missing+" is required")
		return
	}

	now := time.Now()
	category := &model.Category{
		ID:          store.NewID(),
		Name:        r.FormValue("name"),
		Slug:        deriveSlug(r.FormValue("name"), r.FormValue("slug")),
		Description: r.FormValue("description"),
		Kind:        r.FormValue("kind"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminCategories, "A category with this slug already exists")
			return
		}
		slog.Error("failed to create category", "error", err)
		flashError(w, r, h.renderer, redirectAdminCategories, "Error creating category")
		return
	}

	slog.Info("category created", "category_id", category.ID, "slug", category.Slug,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category created successfully")
}

// EditCategoryForm handles GET /admin/categories/{id}.
func (h *TaxonomyHandler) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	category, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCategories, "Category", idParam(r),
		func(id string) (*model.Category, error) { return h.store.GetCategoryByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderCategoryForm(w, r, "Edit Category", CategoryFormData{
		Category: category,
		Kinds:    []string{model.CategoryKindProduct, model.CategoryKindPost},
		IsEdit:   true,
	})
}

// UpdateCategory handles POST /admin/categories/{id}.
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	category, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCategories, "Category", idParam(r),
		func(id string) (*model.Category, error) { return h.store.GetCategoryByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r, [2]string{"name", "Name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCategories, missing+" is required")
		return
	}

	category.Name = r.FormValue("name")
	category.Slug = deriveSlug(category.Name, r.FormValue("slug"))
	category.Description = r.FormValue("description")
	if kind := r.FormValue("kind"); kind != "" {
		category.Kind = kind
	}
	category.UpdatedAt = time.Now()

	if err := h.store.UpdateCategory(r.Context(), category); err != nil {
		slog.Error("failed to update category", "error", err, "category_id", category.ID)
		flashError(w, r, h.renderer, redirectAdminCategories, "Error updating category")
		return
	}

	slog.Info("category updated", "category_id", category.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category updated successfully")
}

// DeleteCategory handles POST /admin/categories/{id}/delete.
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCategories, "Category not found")
			return
		}
		slog.Error("failed to delete category", "error", err, "category_id", id)
		flashError(w, r, h.renderer, redirectAdminCategories, "Error deleting category")
		return
	}

	slog.Info("category deleted", "category_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category deleted successfully")
}

// DeleteCategoriesBulk handles POST /admin/categories/delete.
func (h *TaxonomyHandler) DeleteCategoriesBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	deleted, err := h.store.DeleteCategories(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCategories, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete categories", "error", err)
		flashError(w, r, h.renderer, redirectAdminCategories, "Error deleting categories")
		return
	}

	slog.Info("categories bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Selected categories deleted")
}

// TagsListData holds data for the tags list template.
type TagsListData struct {
	Tags       []model.Tag
	Pagination AdminPagination
}

// ListTags handles GET /admin/tags.
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	tags, total, err := h.store.ListTags(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list tags", "error", err)
		return
	}

	data := TagsListData{
		Tags:       tags,
		Pagination: BuildAdminPagination(params, total, redirectAdminTags, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/tags_list", render.TemplateData{
		Title:  "Tags",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering tags list", "error", err)
	}
}

// TagFormData holds data for the tag form template.
type TagFormData struct {
	Tag    *model.Tag
	IsEdit bool
}

// NewTagForm handles GET /admin/tags/new.
func (h *TaxonomyHandler) NewTagForm(w http.ResponseWriter, r *http.Request) {
	h.renderTagForm(w, r, "New Tag", TagFormData{})
}

// CreateTag handles POST /admin/tags.
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminTags) {
		return
	}

	if missing := firstMissingField(r, [2]string{"name", "Name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminTags, missing+" is required")
		return
	}

	now := time.Now()
	tag := &model.Tag{
		ID:        store.NewID(),
		Name:      r.FormValue("name"),
		Slug:      deriveSlug(r.FormValue("name"), r.FormValue("slug")),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateTag(r.Context(), tag); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminTags, "A tag with this slug already exists")
			return
		}
		slog.Error("failed to create tag", "error", err)
		flashError(w, r, h.renderer, redirectAdminTags, "Error creating tag")
		return
	}

	slog.Info("tag created", "tag_id", tag.ID, "slug", tag.Slug, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTags, "Tag created successfully")
}

// EditTagForm handles GET /admin/tags/{id}.
func (h *TaxonomyHandler) EditTagForm(w http.ResponseWriter, r *http.Request) {
	tag, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminTags, "Tag", idParam(r),
		func(id string) (*model.Tag, error) { return h.store.GetTagByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderTagForm(w, r, "Edit Tag", TagFormData{Tag: tag, IsEdit: true})
}

// UpdateTag handles POST /admin/tags/{id}.
func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminTags) {
		return
	}

	tag, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminTags, "Tag", idParam(r),
		func(id string) (*model.Tag, error) { return h.store.GetTagByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r, [2]string{"name", "Name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminTags, missing+" is required")
		return
	}

	tag.Name = r.FormValue("name")
	tag.Slug = deriveSlug(tag.Name, r.FormValue("slug"))
	tag.UpdatedAt = time.Now()

	if err := h.store.UpdateTag(r.Context(), tag); err != nil {
		slog.Error("failed to update tag", "error", err, "tag_id", tag.ID)
		flashError(w, r, h.renderer, redirectAdminTags, "Error updating tag")
		return
	}

	slog.Info("tag updated", "tag_id", tag.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTags, "Tag updated successfully")
}

// DeleteTag handles POST /admin/tags/{id}/delete.
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminTags, "Tag not found")
			return
		}
		slog.Error("failed to delete tag", "error", err, "tag_id", id)
		flashError(w, r, h.renderer, redirectAdminTags, "Error deleting tag")
		return
	}

	slog.Info("tag deleted", "tag_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTags, "Tag deleted successfully")
}

// DeleteTagsBulk handles POST /admin/tags/delete.
func (h *TaxonomyHandler) DeleteTagsBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminTags) {
		return
	}

	deleted, err := h.store.DeleteTags(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminTags, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete tags", "error", err)
		flashError(w, r, h.renderer, redirectAdminTags, "Error deleting tags")
		return
	}

	slog.Info("tags bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminTags, "Selected tags deleted")
}

func (h *TaxonomyHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, title string, data CategoryFormData) {
	if err := h.renderer.Render(w, r, "admin/categories_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering category form", "error", err)
	}
}

func (h *TaxonomyHandler) renderTagForm(w http.ResponseWriter, r *http.Request, title string, data TagFormData) {
	if err := h.renderer.Render(w, r, "admin/tags_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering tag form", "error", err)
	}
}
