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
	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/store"
)

// PostHandler handles blog post management routes.
type PostHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	uploads        *service.Uploader
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager, up *service.Uploader) *PostHandler {
	return &PostHandler{store: st, renderer: renderer, sessionManager: sm, uploads: up}
}

// PostsListData holds data for the posts list template.
type PostsListData struct {
	Posts      []model.Post
	Categories []model.Category
	CategoryID string
	Pagination AdminPagination
}

// List handles GET /admin/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	filter := store.PostFilter{CategoryID: r.URL.Query().Get("category")}

	posts, total, err := h.store.ListPosts(r.Context(), params, filter)
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	categories, err := h.store.AllCategories(r.Context(), model.CategoryKindPost)
	if err != nil {
		slog.Error("failed to load post categories", "error", err)
	}

	data := PostsListData{
		Posts:      posts,
		Categories: categories,
		CategoryID: filter.CategoryID,
		Pagination: BuildAdminPagination(params, total, redirectAdminPosts, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/posts_list", render.TemplateData{
		Title:  "Posts",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering posts list", "error", err)
	}
}

// PostFormData holds data for the post form template.
type PostFormData struct {
	Post       *model.Post
	Categories []model.Category
	Tags       []model.Tag
	TagSet     map[string]bool
	IsEdit     bool
}

// NewForm handles GET /admin/posts/new.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Post", PostFormData{
		Categories: h.formCategories(r),
		Tags:       h.formTags(r),
	})
}

// Create handles POST /admin/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Invalid form data")
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"body", "Body"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPostsNew, missing+" is required")
		return
	}

	now := time.Now()
	post := &model.Post{
		ID:        store.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.fillFromForm(post, r)
	if post.ShowStatus && post.PublishedAt == nil {
		post.PublishedAt = &now
	}

	if cover, ok := h.saveCover(w, r, redirectAdminPostsNew); !ok {
		return
	} else if cover != "" {
		post.CoverImage = cover
	}

	if err := h.store.CreatePost(r.Context(), post); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminPostsNew, "A post with this slug already exists")
			return
		}
		slog.Error("failed to create post", "error", err)
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Error creating post")
		return
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post created successfully")
}

// EditForm handles GET /admin/posts/{id}.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", idParam(r),
		func(id string) (*model.Post, error) { return h.store.GetPostByID(r.Context(), id) })
	if !ok {
		return
	}

	tagSet := make(map[string]bool, len(post.TagIDs))
	for _, id := range post.TagIDs {
		tagSet[id] = true
	}

	h.renderForm(w, r, "Edit Post", PostFormData{
		Post:       post,
		Categories: h.formCategories(r),
		Tags:       h.formTags(r),
		TagSet:     tagSet,
		IsEdit:     true,
	})
}

// Update handles POST /admin/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, "Invalid form data")
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "Post", idParam(r),
		func(id string) (*model.Post, error) { return h.store.GetPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"body", "Body"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminPosts, missing+" is required")
		return
	}

	h.fillFromForm(post, r)
	post.UpdatedAt = time.Now()
	if post.ShowStatus && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if cover, ok := h.saveCover(w, r, redirectAdminPosts); !ok {
		return
	} else if cover != "" {
		post.CoverImage = cover
	}

	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminPosts, "Post not found")
			return
		}
		slog.Error("failed to update post", "error", err, "post_id", post.ID)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error updating post")
		return
	}

	slog.Info("post updated", "post_id", post.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post updated successfully")
}

// Delete handles POST /admin/posts/{id}/delete.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPosts, "Post not found")
			return
		}
		slog.Error("failed to delete post", "error", err, "post_id", id)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error deleting post")
		return
	}

	slog.Info("post deleted", "post_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post deleted successfully")
}

// DeleteBulk handles POST /admin/posts/delete.
func (h *PostHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPosts) {
		return
	}

	deleted, err := h.store.DeletePosts(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPosts, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete posts", "error", err)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error deleting posts")
		return
	}

	slog.Info("posts bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Selected posts deleted")
}

// ToggleStatus handles POST /admin/posts/{id}/status.
func (h *PostHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.TogglePostStatus(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminPosts, "Post not found")
			return
		}
		slog.Error("failed to toggle post status", "error", err, "post_id", id)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error updating post status")
		return
	}

	h.renderer.SetFlash(r, "Post visibility updated", "success")
	redirectBack(w, r, redirectAdminPosts)
}

func (h *PostHandler) fillFromForm(post *model.Post, r *http.Request) {
	post.Title = r.FormValue("title")
	post.Slug = deriveSlug(post.Title, r.FormValue("slug"))
	post.Excerpt = r.FormValue("excerpt")
	post.Body = r.FormValue("body")
	post.CategoryID = r.FormValue("category_id")
	post.TagIDs = r.Form["tag_ids"]
	post.ShowStatus = r.FormValue("show_status") != ""
	post.SEO = seoFromForm(r)
}

func (h *PostHandler) saveCover(w http.ResponseWriter, r *http.Request, redirectURL string) (string, bool) {
	file, header, err := r.FormFile("cover_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", true
		}
		flashError(w, r, h.renderer, redirectURL, "Invalid cover image upload")
		return "", false
	}
	defer func() { _ = file.Close() }()

	saved, err := h.uploads.Save(service.UploadPosts, file, header)
	if err != nil {
		slog.Error("failed to save cover image", "error", err)
		flashError(w, r, h.renderer, redirectURL, "Error saving cover image: "+err.Error())
		return "", false
	}
	return saved.URL, true
}

func (h *PostHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data PostFormData) {
	if err := h.renderer.Render(w, r, "admin/posts_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering post form", "error", err)
	}
}

func (h *PostHandler) formCategories(r *http.Request) []model.Category {
	categories, err := h.store.AllCategories(r.Context(), model.CategoryKindPost)
	if err != nil {
		slog.Error("failed to load post categories", "error", err)
	}
	return categories
}

func (h *PostHandler) formTags(r *http.Request) []model.Tag {
	tags, err := h.store.AllTags(r.Context())
	if err != nil {
		slog.Error("failed to load tags", "error", err)
	}
	return tags
}
