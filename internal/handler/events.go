// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/store"
)

// EventHandler serves the operational event log.
type EventHandler struct {
	store          *store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(st *store.Store, renderer *render.Renderer, sm *scs.SessionManager) *EventHandler {
	return &EventHandler{store: st, renderer: renderer, sessionManager: sm}
}

// EventsListData holds data for the events list template.
type EventsListData struct {
	Events     []model.Event
	Level      string
	Category   string
	Levels     []string
	Categories []string
	Pagination AdminPagination
}

// List handles GET /admin/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromRequest(r)
	level := r.URL.Query().Get("level")
	category := r.URL.Query().Get("category")

	events, total, err := h.store.ListEvents(r.Context(), params, level, category)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	data := EventsListData{
		Events:     events,
		Level:      level,
		Category:   category,
		Levels:     []string{model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError},
		Categories: []string{model.EventCategoryAuth, model.EventCategoryAuthz, model.EventCategorySystem},
		Pagination: BuildAdminPagination(params, total, redirectAdminEvents, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/events_list", render.TemplateData{
		Title:  "Event Log",
		User:   middleware.GetUser(r),
		Data:   data,
		Search: params.Search,
		Page:   data.Pagination.CurrentPage,
		Pages:  data.Pagination.TotalPages,
	}); err != nil {
		logAndInternalError(w, "rendering events list", "error", err)
	}
}
