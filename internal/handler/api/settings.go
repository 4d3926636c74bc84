// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/store"
)

// GetSettings handles GET /api/v1/settings. A site that has never saved
// its settings answers with an empty document rather than an error.
func (a *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.store.GetSettings(r.Context())
	if err != nil {
		a.internalError(w, "failed to load settings", err)
		return
	}
	writeData(w, settings)
}

// enquiryRequest is the JSON body of a public contact submission.
type enquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateEnquiry handles POST /api/v1/enquiries.
func (a *API) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	now := time.Now()
	enquiry := &model.Enquiry{
		ID:        store.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   strings.TrimSpace(req.Subject),
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateEnquiry(r.Context(), enquiry); err != nil {
		a.internalError(w, "failed to store enquiry", err)
		return
	}
	writeCreated(w, "Enquiry received", map[string]string{"id": enquiry.ID})
}

// ListEnquiries handles GET /api/v1/enquiries (bearer protected).
func (a *API) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)
	enquiries, total, err := a.store.ListEnquiries(r.Context(), params)
	if err != nil {
		a.internalError(w, "failed to list enquiries", err)
		return
	}
	writeList(w, enquiries, params, total)
}
