// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirelo-dev/canopy/internal/store"
)

// ListCountries handles GET /api/v1/countries.
func (a *API) ListCountries(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	countries, total, err := a.store.ListCountries(r.Context(), params)
	if err != nil {
		a.internalError(w, "failed to list countries", err)
		return
	}
	writeList(w, countries, params, total)
}

// ListStates handles GET /api/v1/countries/{code}/states. The country is
// addressed by its ISO code; an unknown code is a 404.
func (a *API) ListStates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	country, err := a.store.GetCountryByCode(ctx, chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Unknown country code")
			return
		}
		a.internalError(w, "failed to resolve country code", err)
		return
	}

	params := listParams(r)
	states, total, err := a.store.ListStates(ctx, params, country.ID)
	if err != nil {
		a.internalError(w, "failed to list states", err)
		return
	}
	writeList(w, states, params, total)
}

// ListCities handles GET /api/v1/states/{id}/cities.
func (a *API) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stateID := chi.URLParam(r, "id")
	if _, err := a.store.GetStateByID(ctx, stateID); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			writeError(w, http.StatusNotFound, "Unknown state")
			return
		}
		a.internalError(w, "failed to resolve state", err)
		return
	}

	params := listParams(r)
	cities, total, err := a.store.ListCities(ctx, params, stateID)
	if err != nil {
		a.internalError(w, "failed to list cities", err)
		return
	}
	writeList(w, cities, params, total)
}
