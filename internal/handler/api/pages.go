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

type pageView struct {
	model.Page
	BodyHTML string `json:"body_html"`
}

// GetPage handles GET /api/v1/pages/{slug}. Hidden pages 404.
func (a *API) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := a.store.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Page not found")
			return
		}
		a.internalError(w, "failed to load page", err)
		return
	}

	bodyHTML, err := renderMarkdown(page.Body)
	if err != nil {
		a.internalError(w, "failed to render page body", err)
		return
	}
	writeData(w, pageView{Page: *page, BodyHTML: bodyHTML})
}
