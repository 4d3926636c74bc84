// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/store"
)

const maxApplicationForm = 32 << 20 // 32MB

// ListCareers handles GET /api/v1/careers. Only open postings are listed:
// visible and either without a closing date or with one still in the future.
func (a *API) ListCareers(w http.ResponseWriter, r *http.Request) {
	careers, err := a.store.OpenCareers(r.Context(), time.Now())
	if err != nil {
		a.internalError(w, "failed to list careers", err)
		return
	}
	writeData(w, careers)
}

// GetCareer handles GET /api/v1/careers/{slug}. Closed postings 404.
func (a *API) GetCareer(w http.ResponseWriter, r *http.Request) {
	career, err := a.store.GetCareerBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Career not found")
			return
		}
		a.internalError(w, "failed to load career", err)
		return
	}
	if !career.IsOpen(time.Now()) {
		writeError(w, http.StatusNotFound, "Career not found")
		return
	}
	writeData(w, career)
}

// Apply handles POST /api/v1/careers/{slug}/apply. The multipart form
// carries name, email, phone, message and an optional resume file. Email
// is the only field with format validation.
func (a *API) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	career, err := a.store.GetCareerBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Career not found")
			return
		}
		a.internalError(w, "failed to load career", err)
		return
	}
	if !career.IsOpen(time.Now()) {
		writeError(w, http.StatusGone, "This position is no longer accepting applications")
		return
	}

	if err := r.ParseMultipartForm(maxApplicationForm); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	if name == "" || email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	now := time.Now()
	application := &model.JobApplication{
		ID:        store.NewID(),
		CareerID:  career.ID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Message:   strings.TrimSpace(r.FormValue("message")),
		CreatedAt: now,
		UpdatedAt: now,
	}

	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		defer file.Close()
		saved, saveErr := a.uploads.Save(service.UploadResumes, file, header)
		if saveErr != nil {
			writeError(w, http.StatusBadRequest, saveErr.Error())
			return
		}
		application.Resume = saved.RelPath
	case errors.Is(err, http.ErrMissingFile):
		// resume is optional
	default:
		writeError(w, http.StatusBadRequest, "Invalid resume upload")
		return
	}

	if err := a.store.CreateJobApplication(ctx, application); err != nil {
		a.internalError(w, "failed to store job application", err)
		return
	}
	writeCreated(w, "Application received", map[string]string{"id": application.ID})
}

// ListApplications handles GET /api/v1/applications (bearer protected).
// An optional career query parameter narrows the list to one posting.
func (a *API) ListApplications(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	applications, total, err := a.store.ListJobApplications(r.Context(), params, r.URL.Query().Get("career"))
	if err != nil {
		a.internalError(w, "failed to list job applications", err)
		return
	}
	writeList(w, applications, params, total)
}
