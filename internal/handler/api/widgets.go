// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// ListSliders handles GET /api/v1/sliders, visible entries only, ordered
// by position.
func (a *API) ListSliders(w http.ResponseWriter, r *http.Request) {
	sliders, err := a.store.VisibleSliders(r.Context())
	if err != nil {
		a.internalError(w, "failed to list sliders", err)
		return
	}
	writeData(w, sliders)
}

// ListFaqs handles GET /api/v1/faqs, visible entries only.
func (a *API) ListFaqs(w http.ResponseWriter, r *http.Request) {
	faqs, err := a.store.VisibleFaqs(r.Context())
	if err != nil {
		a.internalError(w, "failed to list faqs", err)
		return
	}
	writeData(w, faqs)
}

// ListVideos handles GET /api/v1/videos, visible entries only.
func (a *API) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := a.store.VisibleVideos(r.Context())
	if err != nil {
		a.internalError(w, "failed to list videos", err)
		return
	}
	writeData(w, videos)
}
