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

// GeoHandler handles country, state and city management routes.
type GeoHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *GeoHandler {
	return &GeoHandler{store: st, renderer: renderer, sessionManager: sm}
}

// CountriesListData holds data for the countries list template.
type CountriesListData struct {
	Countries  []model.Country
	Pagination AdminPagination
}

// ListCountries handles GET /admin/countries.
func (h *GeoHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	countries, total, err := h.store.ListCountries(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list countries", "error", err)
		return
	}

	data := CountriesListData{
		Countries:  countries,
		Pagination: BuildAdminPagination(params, total, redirectAdminCountries, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/countries_list", render.TemplateData{
		Title:  "Countries",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering countries list", "error", err)
	}
}

// CountryFormData holds data for the country form template.
type CountryFormData struct {
	Country *model.Country
	IsEdit  bool
}

// NewCountryForm handles GET /admin/countries/new.
func (h *GeoHandler) NewCountryForm(w http.ResponseWriter, r *http.Request) {
	h.renderGeoForm(w, r, "admin/countries_form", "New Country", CountryFormData{})
}

// CreateCountry handles POST /admin/countries.
func (h *GeoHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCountries) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"code", "Code"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCountries, missing+" is required")
		return
	}

	now := time.Now()
	country := &model.Country{
		ID:        store.NewID(),
		Name:      r.FormValue("name"),
		Slug:      deriveSlug(r.FormValue("name"), r.FormValue("slug")),
		Code:      r.FormValue("code"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateCountry(r.Context(), country); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminCountries, "A country with this code already exists")
			return
		}
		slog.Error("failed to create country", "error", err)
		flashError(w, r, h.renderer, redirectAdminCountries, "Error creating country")
		return
	}

	slog.Info("country created", "country_id", country.ID, "code", country.Code,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCountries, "Country created successfully")
}

// EditCountryForm handles GET /admin/countries/{id}.
func (h *GeoHandler) EditCountryForm(w http.ResponseWriter, r *http.Request) {
	country, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCountries, "Country", idParam(r),
		func(id string) (*model.Country, error) { return h.store.GetCountryByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderGeoForm(w, r, "admin/countries_form", "Edit Country", CountryFormData{Country: country, IsEdit: true})
}

// UpdateCountry handles POST /admin/countries/{id}.
func (h *GeoHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCountries) {
		return
	}

	country, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCountries, "Country", idParam(r),
		func(id string) (*model.Country, error) { return h.store.GetCountryByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"code", "Code"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCountries, missing+" is required")
		return
	}

	country.Name = r.FormValue("name")
	country.Slug = deriveSlug(country.Name, r.FormValue("slug"))
	country.Code = r.FormValue("code")
	country.UpdatedAt = time.Now()

	if err := h.store.UpdateCountry(r.Context(), country); err != nil {
		slog.Error("failed to update country", "error", err, "country_id", country.ID)
		flashError(w, r, h.renderer, redirectAdminCountries, "Error updating country")
		return
	}

	slog.Info("country updated", "country_id", country.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCountries, "Country updated successfully")
}

// DeleteCountry handles POST /admin/countries/{id}/delete.
func (h *GeoHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteCountry(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCountries, "Country not found")
			return
		}
		slog.Error("failed to delete country", "error", err, "country_id", id)
		flashError(w, r, h.renderer, redirectAdminCountries, "Error deleting country")
		return
	}

	slog.Info("country deleted", "country_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCountries, "Country deleted successfully")
}

// DeleteCountriesBulk handles POST /admin/countries/delete.
func (h *GeoHandler) DeleteCountriesBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCountries) {
		return
	}

	deleted, err := h.store.DeleteCountries(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCountries, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete countries", "error", err)
		flashError(w, r, h.renderer, redirectAdminCountries, "Error deleting countries")
		return
	}

	slog.Info("countries bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCountries, "Selected countries deleted")
}

// StatesListData holds data for the states list template.
type StatesListData struct {
	States     []model.State
	Countries  []model.Country
	CountryID  string
	Pagination AdminPagination
}

// ListStates handles GET /admin/states.
func (h *GeoHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	countryID := r.URL.Query().Get("country")

	states, total, err := h.store.ListStates(r.Context(), params, countryID)
	if err != nil {
		logAndInternalError(w, "failed to list states", "error", err)
		return
	}

	data := StatesListData{
		States:     states,
		Countries:  h.allCountries(r),
		CountryID:  countryID,
		Pagination: BuildAdminPagination(params, total, redirectAdminStates, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/states_list", render.TemplateData{
		Title:  "States",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering states list", "error", err)
	}
}

// StateFormData holds data for the state form template.
type StateFormData struct {
	State     *model.State
	Countries []model.Country
	IsEdit    bool
}

// NewStateForm handles GET /admin/states/new.
func (h *GeoHandler) NewStateForm(w http.ResponseWriter, r *http.Request) {
	h.renderGeoForm(w, r, "admin/states_form", "New State", StateFormData{Countries: h.allCountries(r)})
}

// CreateState handles POST /admin/states.
func (h *GeoHandler) CreateState(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminStates) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"country_id", "Country"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminStates, missing+" is required")
		return
	}

	now := time.Now()
	state := &model.State{
		ID:        store.NewID(),
		Name:      r.FormValue("name"),
		Slug:      deriveSlug(r.FormValue("name"), r.FormValue("slug")),
		CountryID: r.FormValue("country_id"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateState(r.Context(), state); err != nil {
		slog.Error("failed to create state", "error", err)
		flashError(w, r, h.renderer, redirectAdminStates, "Error creating state")
		return
	}

	slog.Info("state created", "state_id", state.ID, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminStates, "State created successfully")
}

// EditStateForm handles GET /admin/states/{id}.
func (h *GeoHandler) EditStateForm(w http.ResponseWriter, r *http.Request) {
	state, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminStates, "State", idParam(r),
		func(id string) (*model.State, error) { return h.store.GetStateByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderGeoForm(w, r, "admin/states_form", "Edit State", StateFormData{
		State:     state,
		Countries: h.allCountries(r),
		IsEdit:    true,
	})
}

// UpdateState handles POST /admin/states/{id}.
func (h *GeoHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminStates) {
		return
	}

	state, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminStates, "State", idParam(r),
		func(id string) (*model.State, error) { return h.store.GetStateByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"country_id", "Country"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminStates, missing+" is required")
		return
	}

	state.Name = r.FormValue("name")
	state.Slug = deriveSlug(state.Name, r.FormValue("slug"))
	state.CountryID = r.FormValue("country_id")
	state.UpdatedAt = time.Now()

	if err := h.store.UpdateState(r.Context(), state); err != nil {
		slog.Error("failed to update state", "error", err, "state_id", state.ID)
		flashError(w, r, h.renderer, redirectAdminStates, "Error updating state")
		return
	}

	slog.Info("state updated", "state_id", state.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminStates, "State updated successfully")
}

// DeleteState handles POST /admin/states/{id}/delete.
func (h *GeoHandler) DeleteState(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteState(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminStates, "State not found")
			return
		}
		slog.Error("failed to delete state", "error", err, "state_id", id)
		flashError(w, r, h.renderer, redirectAdminStates, "Error deleting state")
		return
	}

	slog.Info("state deleted", "state_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminStates, "State deleted successfully")
}

// DeleteStatesBulk handles POST /admin/states/delete.
func (h *GeoHandler) DeleteStatesBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminStates) {
		return
	}

	deleted, err := h.store.DeleteStates(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminStates, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete states", "error", err)
		flashError(w, r, h.renderer, redirectAdminStates, "Error deleting states")
		return
	}

	slog.Info("states bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminStates, "Selected states deleted")
}

// CitiesListData holds data for the cities list template.
type CitiesListData struct {
	Cities     []model.City
	States     []model.State
	StateID    string
	Pagination AdminPagination
}

// ListCities handles GET /admin/cities.
func (h *GeoHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	stateID := r.URL.Query().Get("state")

	cities, total, err := h.store.ListCities(r.Context(), params, stateID)
	if err != nil {
		logAndInternalError(w, "failed to list cities", "error", err)
		return
	}

	data := CitiesListData{
		Cities:     cities,
		States:     h.allStates(r),
		StateID:    stateID,
		Pagination: BuildAdminPagination(params, total, redirectAdminCities, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/cities_list", render.TemplateData{
		Title:  "Cities",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering cities list", "error", err)
	}
}

// CityFormData holds data for the city form template.
type CityFormData struct {
	City   *model.City
	States []model.State
	IsEdit bool
}

// NewCityForm handles GET /admin/cities/new.
func (h *GeoHandler) NewCityForm(w http.ResponseWriter, r *http.Request) {
	h.renderGeoForm(w, r, "admin/cities_form", "New City", CityFormData{States: h.allStates(r)})
}

// CreateCity handles POST /admin/cities.
func (h *GeoHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCities) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"state_id", "State"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCities, missing+" is required")
		return
	}

	now := time.Now()
	city := &model.City{
		ID:        store.NewID(),
		Name:      r.FormValue("name"),
		Slug:      deriveSlug(r.FormValue("name"), r.FormValue("slug")),
		StateID:   r.FormValue("state_id"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateCity(r.Context(), city); err != nil {
		slog.Error("failed to create city", "error", err)
		flashError(w, r, h.renderer, redirectAdminCities, "Error creating city")
		return
	}

	slog.Info("city created", "city_id", city.ID, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCities, "City created successfully")
}

// EditCityForm handles GET /admin/cities/{id}.
func (h *GeoHandler) EditCityForm(w http.ResponseWriter, r *http.Request) {
	city, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCities, "City", idParam(r),
		func(id string) (*model.City, error) { return h.store.GetCityByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderGeoForm(w, r, "admin/cities_form", "Edit City", CityFormData{
		City:   city,
		States: h.allStates(r),
		IsEdit: true,
	})
}

// UpdateCity handles POST /admin/cities/{id}.
func (h *GeoHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCities) {
		return
	}

	city, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCities, "City", idParam(r),
		func(id string) (*model.City, error) { return h.store.GetCityByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"name", "Name"},
		[2]string{"state_id", "State"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCities, missing+" is required")
		return
	}

	city.Name = r.FormValue("name")
	city.Slug = deriveSlug(city.Name, r.FormValue("slug"))
	city.StateID = r.FormValue("state_id")
	city.UpdatedAt = time.Now()

	if err := h.store.UpdateCity(r.Context(), city); err != nil {
		slog.Error("failed to update city", "error", err, "city_id", city.ID)
		flashError(w, r, h.renderer, redirectAdminCities, "Error updating city")
		return
	}

	slog.Info("city updated", "city_id", city.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCities, "City updated successfully")
}

// DeleteCity handles POST /admin/cities/{id}/delete.
func (h *GeoHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteCity(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCities, "City not found")
			return
		}
		slog.Error("failed to delete city", "error", err, "city_id", id)
		flashError(w, r, h.renderer, redirectAdminCities, "Error deleting city")
		return
	}

	slog.Info("city deleted", "city_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCities, "City deleted successfully")
}

// DeleteCitiesBulk handles POST /admin/cities/delete.
func (h *GeoHandler) DeleteCitiesBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCities) {
		return
	}

	deleted, err := h.store.DeleteCities(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCities, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete cities", "error", err)
		flashError(w, r, h.renderer, redirectAdminCities, "Error deleting cities")
		return
	}

	slog.Info("cities bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCities, "Selected cities deleted")
}

func (h *GeoHandler) renderGeoForm(w http.ResponseWriter, r *http.Request, tmpl, title string, data any) {
	if err := h.renderer.Render(w, r, tmpl, render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering geo form", "error", err, "template", tmpl)
	}
}

func (h *GeoHandler) allCountries(r *http.Request) []model.Country {
	countries, err := h.store.AllCountries(r.Context())
	if err != nil {
		slog.Error("failed to load countries", "error", err)
	}
	return countries
}

func (h *GeoHandler) allStates(r *http.Request) []model.State {
	// All states regardless of country, for filter dropdowns
	states, _, err := h.store.ListStates(r.Context(), store.ListParams{Page: 1, Limit: store.MaxPerPage}, "")
	if err != nil {
		slog.Error("failed to load states", "error", err)
	}
	return states
}
