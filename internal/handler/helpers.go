// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirelo-dev/canopy/internal/store"
	"github.com/mirelo-dev/canopy/internal/util"
)

// listParamsFromRequest reads page, limit and search query parameters.
// Out-of-range values are normalized by the store layer.
func listParamsFromRequest(r *http.Request) store.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return store.ListParams{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}.Normalize()
}

// idParam returns the {id} chi route parameter.
func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// formIDs extracts the selected document ids from a bulk action form.
// Both repeated "ids" fields and a comma-separated "ids" value are accepted.
func formIDs(r *http.Request) []string {
	values := r.Form["ids"]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

// firstMissingField returns the label of the first required field whose form
// value is empty, or "" when every field is present. Field order follows the
// form layout so the flash message matches what the operator sees first.
func firstMissingField(r *http.Request, fields ...[2]string) string {
	for _, f := range fields {
		if strings.TrimSpace(r.FormValue(f[0])) == "" {
			return f[1]
		}
	}
	return ""
}

// deriveSlug returns the canonical slug for a submitted form, generated
// from the title when the slug field is blank or degenerate.
func deriveSlug(title, slug string) string {
	return util.DeriveSlug(title, slug)
}

// redirectBack redirects to the referring page, falling back to the given
// URL when the Referer header is absent. Used by status toggles so the
// operator stays on whatever list page they acted from.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Referer()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
