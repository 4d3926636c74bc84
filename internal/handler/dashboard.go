// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mirelo-dev/canopy/internal/middleware"
	"github.com/mirelo-dev/canopy/internal/model"
	"github.com/mirelo-dev/canopy/internal/render"
	"github.com/mirelo-dev/canopy/internal/store"
)

// DashboardHandler serves the admin dashboard.
type DashboardHandler struct {
	store    *store.Store
	renderer *render.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(st *store.Store, renderer *render.Renderer) *DashboardHandler {
	return &DashboardHandler{store: st, renderer: renderer}
}

// DashboardData holds counts and recent activity for the dashboard template.
type DashboardData struct {
	ProductCount     int64
	PostCount        int64
	PageCount        int64
	CareerCount      int64
	EnquiryCount     int64
	ApplicationCount int64
	UserCount        int64
	RecentEvents     []model.Event
}

// Dashboard handles GET /admin.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := DashboardData{
		ProductCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListProducts(ctx, p, store.ProductFilter{})
			return n, err
		}),
		PostCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListPosts(ctx, p, store.PostFilter{})
			return n, err
		}),
		PageCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListPages(ctx, p)
			return n, err
		}),
		CareerCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListCareers(ctx, p)
			return n, err
		}),
		EnquiryCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListEnquiries(ctx, p)
			return n, err
		}),
		ApplicationCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListJobApplications(ctx, p, "")
			return n, err
		}),
		UserCount: h.count(ctx, func(ctx context.Context, p store.ListParams) (int64, error) {
			_, n, err := h.store.ListUsers(ctx, p)
			return n, err
		}),
	}

	events, _, err := h.store.ListEvents(ctx, store.ListParams{Page: 1, Limit: 10}, "", "")
	if err != nil {
		slog.Error("failed to load recent events", "error", err)
	} else {
		data.RecentEvents = events
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// count runs a list query for its total only. Count failures degrade to zero
// rather than failing the whole dashboard.
func (h *DashboardHandler) count(ctx context.Context, fn func(context.Context, store.ListParams) (int64, error)) int64 {
	n, err := fn(ctx, store.ListParams{Page: 1, Limit: 1})
	if err != nil {
		slog.Error("dashboard count query failed", "error", err)
		return 0
	}
	return n
}
