// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// ListCategories handles GET /api/v1/categories. An optional kind query
// parameter limits the list to product or post categories.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	categories, total, err := a.store.ListCategories(r.Context(), params, r.URL.Query().Get("kind"))
	if err != nil {
		a.internalError(w, "failed to list categories", err)
		return
	}
	writeList(w, categories, params, total)
}

// ListTags handles GET /api/v1/tags.
func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	tags, total, err := a.store.ListTags(r.Context(), params)
	if err != nil {
		a.internalError(w, "failed to list tags", err)
		return
	}
	writeList(w, tags, params, total)
}
