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

// closingDateLayout is the HTML date input format.
const closingDateLayout = "2006-01-02"

// CareerHandler handles job posting and application management routes.
type CareerHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	uploads        *service.Uploader
}

// NewCareerHandler creates a new CareerHandler.
func NewCareerHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager, up *service.Uploader) *CareerHandler {
	return &CareerHandler{store: st, renderer: renderer, sessionManager: sm, uploads: up}
}

// CareersListData holds data for the careers list template.
type CareersListData struct {
	Careers    []model.Career
	Now        time.Time
	Pagination AdminPagination
}

// List handles GET /admin/careers.
func (h *CareerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)

	careers, total, err := h.store.ListCareers(r.Context(), params)
	if err != nil {
		logAndInternalError(w, "failed to list careers", "error", err)
		return
	}

	data := CareersListData{
		Careers:    careers,
		Now:        time.Now(),
		Pagination: BuildAdminPagination(params, total, redirectAdminCareers, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/careers_list", render.TemplateData{
		Title:  "Careers",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering careers list", "error", err)
	}
}

// CareerFormData holds data for the career form template.
type CareerFormData struct {
	Career          *model.Career
	EmploymentTypes []string
	IsEdit          bool
}

// NewForm handles GET /admin/careers/new.
func (h *CareerHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New Career", CareerFormData{EmploymentTypes: model.EmploymentTypes})
}

// Create handles POST /admin/careers.
func (h *CareerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCareersNew) {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"description", "Description"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCareersNew, missing+" is required")
		return
	}

	now := time.Now()
	career := &model.Career{
		ID:        store.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ok := h.fillFromForm(w, r, career, redirectAdminCareersNew); !ok {
		return
	}

	if err := h.store.CreateCareer(r.Context(), career); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			flashError(w, r, h.renderer, redirectAdminCareersNew, "A career with this slug already exists")
			return
		}
		slog.Error("failed to create career", "error", err)
		flashError(w, r, h.renderer, redirectAdminCareersNew, "Error creating career")
		return
	}

	slog.Info("career created", "career_id", career.ID, "slug", career.Slug,
		"created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCareers, "Career created successfully")
}

// EditForm handles GET /admin/careers/{id}.
func (h *CareerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	career, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCareers, "Career", idParam(r),
		func(id string) (*model.Career, error) { return h.store.GetCareerByID(r.Context(), id) })
	if !ok {
		return
	}

	h.renderForm(w, r, "Edit Career", CareerFormData{
		Career:          career,
		EmploymentTypes: model.EmploymentTypes,
		IsEdit:          true,
	})
}

// Update handles POST /admin/careers/{id}.
func (h *CareerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCareers) {
		return
	}

	career, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCareers, "Career", idParam(r),
		func(id string) (*model.Career, error) { return h.store.GetCareerByID(r.Context(), id) })
	if !ok {
		return
	}

	if missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"description", "Description"},
	); missing != "" {
		flashError(w, r, h.renderer, redirectAdminCareers, missing+" is required")
		return
	}

	if ok := h.fillFromForm(w, r, career, redirectAdminCareers); !ok {
		return
	}
	career.UpdatedAt = time.Now()

	if err := h.store.UpdateCareer(r.Context(), career); err != nil {
		slog.Error("failed to update career", "error", err, "career_id", career.ID)
		flashError(w, r, h.renderer, redirectAdminCareers, "Error updating career")
		return
	}

	slog.Info("career updated", "career_id", career.ID, "updated_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCareers, "Career updated successfully")
}

// Delete handles POST /admin/careers/{id}/delete.
func (h *CareerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.DeleteCareer(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCareers, "Career not found")
			return
		}
		slog.Error("failed to delete career", "error", err, "career_id", id)
		flashError(w, r, h.renderer, redirectAdminCareers, "Error deleting career")
		return
	}

	slog.Info("career deleted", "career_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCareers, "Career deleted successfully")
}

// DeleteBulk handles POST /admin/careers/delete.
func (h *CareerHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCareers) {
		return
	}

	deleted, err := h.store.DeleteCareers(r.Context(), formIDs(r))
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCareers, "Invalid selection, nothing was deleted")
			return
		}
		slog.Error("failed to bulk delete careers", "error", err)
		flashError(w, r, h.renderer, redirectAdminCareers, "Error deleting careers")
		return
	}

	slog.Info("careers bulk deleted", "count", deleted, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminCareers, "Selected careers deleted")
}

// ToggleStatus handles POST /admin/careers/{id}/status.
func (h *CareerHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.store.ToggleCareerStatus(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			flashError(w, r, h.renderer, redirectAdminCareers, "Career not found")
			return
		}
		slog.Error("failed to toggle career status", "error", err, "career_id", id)
		flashError(w, r, h.renderer, redirectAdminCareers, "Error updating career status")
		return
	}

	h.renderer.SetFlash(r, "Career visibility updated", "success")
	redirectBack(w, r, redirectAdminCareers)
}

// fillFromForm copies editable form fields into the career. Returns false
// when the closing date was malformed and a redirect has been written.
func (h *CareerHandler) fillFromForm(w http.ResponseWriter, r *http.Request, career *model.Career, redirectURL string) bool {
	career.Title = r.FormValue("title")
	career.Slug = deriveSlug(career.Title, r.FormValue("slug"))
	career.Location = r.FormValue("location")
	career.EmploymentType = r.FormValue("employment_type")
	career.Description = r.FormValue("description")
	career.ShowStatus = r.FormValue("show_status") != ""

	if raw := r.FormValue("closing_date"); raw != "" {
		closing, err := time.Parse(closingDateLayout, raw)
		if err != nil {
			flashError(w, r, h.renderer, redirectURL, "Closing date must be in YYYY-MM-DD format")
			return false
		}
		career.ClosingDate = &closing
	} else {
		career.ClosingDate = nil
	}
	return true
}

func (h *CareerHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, data CareerFormData) {
	if err := h.renderer.Render(w, r, "admin/careers_form", render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering career form", "error", err)
	}
}

// ApplicationsListData holds data for the job applications list template.
type ApplicationsListData struct {
	Applications []model.JobApplication
	Careers      []model.Career
	CareerID     string
	Pagination   AdminPagination
}

// ListApplications handles GET /admin/applications.
func (h *CareerHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	careerID := r.URL.Query().Get("career")

	applications, total, err := h.store.ListJobApplications(r.Context(), params, careerID)
	if err != nil {
		logAndInternalError(w, "failed to list job applications", "error", err)
		return
	}

	careers, _, err := h.store.ListCareers(r.Context(), store.ListParams{Page: 1, Limit: store.MaxPerPage})
	if err != nil {
		slog.Error("failed to load careers for filter", "error", err)
	}

	data := ApplicationsListData{
		Applications: applications,
		Careers:      careers,
		CareerID:     careerID,
		Pagination:   BuildAdminPagination(params, total, redirectAdminApplications, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/applications_list", render.TemplateData{
		Title:  "Job Applications",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering applications list", "error", err)
	}
}

// ApplicationViewData holds data for the application detail template.
type ApplicationViewData struct {
	Application *model.JobApplication
	Career      *model.Career
}

// ViewApplication handles GET /admin/applications/{id}.
func (h *CareerHandler) ViewApplication(w http.ResponseWriter, r *http.Request) {
	application, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminApplications, "Application", idParam(r),
		func(id string) (*model.JobApplication, error) { return h.store.GetJobApplicationByID(r.Context(), id) })
	if !ok {
		return
	}

	career, err := h.store.GetCareerByID(r.Context(), application.CareerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to load career for application", "error", err, "career_id", application.CareerID)
	}

	if err := h.renderer.Render(w, r, "admin/applications_view", render.TemplateData{
		Title: "Application from " + application.Name,
		User:  middleware.GetUser(r),
		Data:  ApplicationViewData{Application: application, Career: career},
	}); err != nil {
		logAndInternalError(w, "rendering application view", "error", err)
	}
}

// DeleteApplication handles POST /admin/applications/{id}/delete.
// Applications and their resumes are removed permanently.
func (h *CareerHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	application, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminApplications, "Application", idParam(r),
		func(id string) (*model.JobApplication, error) { return h.store.GetJobApplicationByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.store.DeleteJobApplication(r.Context(), application.ID); err != nil {
		slog.Error("failed to delete job application", "error", err, "application_id", application.ID)
		flashError(w, r, h.renderer, redirectAdminApplications, "Error deleting application")
		return
	}

	if application.Resume != "" {
		if err := h.uploads.Remove(application.Resume); err != nil {
			slog.Warn("failed to remove resume file", "error", err, "path", application.Resume)
		}
	}

	slog.Info("job application deleted", "application_id", application.ID,
		"deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminApplications, "Application deleted successfully")
}
