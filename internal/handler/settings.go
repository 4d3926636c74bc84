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

// SettingsHandler handles the site settings form and enquiry management.
type SettingsHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *SettingsHandler {
	return &SettingsHandler{store: st, renderer: renderer, sessionManager: sm}
}

// Form handles GET /admin/settings. The settings document is a singleton;
// a site that has never saved it gets an empty form.
func (h *SettingsHandler) Form(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load settings", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/settings_form", render.TemplateData{
		Title: "Site Settings",
		User:  middleware.GetUser(r),
		Data:  settings,
	}); err != nil {
		logAndInternalError(w, "rendering settings form", "error", err)
	}
}

// Save handles POST /admin/settings.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSettings) {
		return
	}

	if missing := firstMissingField(r, [2]string{"site_name", "Site name"}); missing != "" {
		flashError(w, r, h.renderer, redirectAdminSettings, missing+" is required")
		return
	}

	settings := &model.Settings{
		ID:              model.SettingsID,
		SiteName:        r.FormValue("site_name"),
		Tagline:         r.FormValue("tagline"),
		ContactEmail:    r.FormValue("contact_email"),
		ContactPhone:    r.FormValue("contact_phone"),
		Address:         r.FormValue("address"),
		FacebookURL:     r.FormValue("facebook_url"),
		TwitterURL:      r.FormValue("twitter_url"),
		InstagramURL:    r.FormValue("instagram_url"),
		LinkedInURL:     r.FormValue("linkedin_url"),
		MetaTitle:       r.FormValue("meta_title"),
		MetaDescription: r.FormValue("meta_description"),
		UpdatedAt:       time.Now(),
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		slog.Error("failed to save settings", "error", err)
		flashError(w, r, h.renderer, redirectAdminSettings, "Error saving settings")
		return
	}

	slog.Info("settings saved", "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Settings saved successfully")
}

// EnquiriesListData holds data for the enquiries list template.
type EnquiriesListData struct {
	Enquiries  []model.Enquiry
	Pagination AdminPagination
}

// ListEnquiries handles GET /admin/enquiries.
func (h *SettingsHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	enquiries, total, err := h.store.ListEnquiries(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list enquiries", "error", err)
		return
	}

	data := EnquiriesListData{
		Enquiries:  enquiries,
		Pagination: BuildAdminPagination(params, total, redirectAdminEnquiries, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/enquiries_list", render.TemplateData{
		Title:  "Enquiries",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering enquiries list", "error", err)
	}
}

// ViewEnquiry handles GET /admin/enquiries/{id}.
func (h *SettingsHandler) ViewEnquiry(w http.ResponseWriter, r *http.Request) {
	enquiry, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminEnquiries, "Enquiry", idParam(r),
		func(id string) (*model.Enquiry, error) { return h.store.GetEnquiryByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/enquiries_view", render.TemplateData{
		Title: "Enquiry from " + enquiry.Name,
		User:  middleware.GetUser(r),
		Data:  enquiry,
	}); err != nil {
		logAndInternalError(w, "rendering enquiry view", "error", err)
	}
}

// DeleteEnquiry handles POST /admin/enquiries/{id}/delete.
func (h *SettingsHandler) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteEnquiry(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminEnquiries, "Enquiry not found")
			return
		}
		slog.Error("failed to delete enquiry", "error", err, "enquiry_id", id)
		flashError(w, r, h.renderer, redirectAdminEnquiries, "Error deleting enquiry")
		return
	}

	slog.Info("enquiry deleted", "enquiry_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminEnquiries, "Enquiry deleted successfully")
}
