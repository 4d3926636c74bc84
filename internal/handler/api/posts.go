// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/store"
)

// postView is a Post with its markdown body rendered to sanitized HTML.
type postView struct {
	model.Post
	BodyHTML string `json:"body_html"`
}

// ListPosts handles GET /api/v1/posts. Optional filters: category (slug),
// tag (slug), year_from, year_to, search, page, limit. Only published
// posts are returned; bodies stay as raw markdown in list responses.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listParams(r)
	q := r.URL.Query()
	filter := store.PostFilter{
		VisibleOnly: true,
		YearFrom:    atoi(q.Get("year_from")),
		YearTo:      atoi(q.Get("year_to")),
	}

	if slug := q.Get("category"); slug != "" {
		category, err := a.store.GetCategoryBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Unknown category")
				return
			}
			a.internalError(w, "failed to resolve category slug", err)
			return
		}
		filter.CategoryID = category.ID
	}

	if slug := q.Get("tag"); slug != "" {
		tag, err := a.store.GetTagBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Unknown tag")
				return
			}
			a.internalError(w, "failed to resolve tag slug", err)
			return
		}
		filter.TagID = tag.ID
	}

	posts, total, err := a.store.ListPosts(ctx, params, filter)
	if err != nil {
		a.internalError(w, "failed to list posts", err)
		return
	}
	writeList(w, posts, params, total)
}

// GetPost handles GET /api/v1/posts/{slug}.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.store.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		a.internalError(w, "failed to load post", err)
		return
	}
	if !post.ShowStatus {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	bodyHTML, err := renderMarkdown(post.Body)
	if err != nil {
		a.internalError(w, "failed to render post body", err)
		return
	}
	writeData(w, postView{Post: *post, BodyHTML: bodyHTML})
}
