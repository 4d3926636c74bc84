// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelo-dev/canopy/internal/store"
)

// ListProducts handles GET /api/v1/products. Optional filters: country
// (ISO code), category (slug), search, page, limit. Only visible products
// are returned. An unknown country or category is a 404, not an empty page.
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listParams(r)
	filter := store.ProductFilter{VisibleOnly: true}

	if code := r.URL.Query().Get("country"); code != "" {
		country, err := a.store.GetCountryByCode(ctx, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Unknown country code")
				return
			}
			a.internalError(w, "failed to resolve country code", err)
			return
		}
		filter.CountryID = country.ID
	}

	if slug := r.URL.Query().Get("category"); slug != "" {
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

	products, total, err := a.store.ListProducts(ctx, params, filter)
	if err != nil {
		a.internalError(w, "failed to list products", err)
		return
	}
	writeList(w, products, params, total)
}

// GetProduct handles GET /api/v1/products/{slug}. Hidden products are
// indistinguishable from missing ones.
func (a *API) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := a.store.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		a.internalError(w, "failed to load product", err)
		return
	}
	if !product.ShowStatus {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeData(w, product)
}
