// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api implements the public read-only JSON API plus the two public
// write endpoints (enquiries and job applications). Every response uses the
// same envelope: {"success": bool, "message": string, "data": ...}. List
// payloads nest pagination metadata inside data.
package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/mirelo-dev/canopy/internal/service"
	"github.com/mirelo-dev/canopy/internal/store"
)

// htmlSanitizer strips dangerous markup from rendered markdown before it
// leaves the API.
var htmlSanitizer = bluemonday.UGCPolicy()

// API bundles the dependencies of the public API handlers.
type API struct {
	store   *store.Store
	uploads *service.Uploader
}

// New creates the public API handler set.
func New(st *store.Store, up *service.Uploader) *API {
	return &API{store: st, uploads: up}
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// listPayload carries a page of results with its pagination metadata.
type listPayload struct {
	Data    any   `json:"data"`
	Current int   `json:"current"`
	Offset  int64 `json:"offset"`
	Pages   int   `json:"pages"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode API response", "error", err)
	}
}

// writeData writes a success envelope around a single document.
func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "OK", Data: data})
}

// writeList writes a success envelope around a page of results.
func writeList(w http.ResponseWriter, items any, params store.ListParams, total int64) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "OK",
		Data: listPayload{
			Data:    items,
			Current: params.Page,
			Offset:  params.Offset(),
			Pages:   store.PageCount(total, params.Limit),
		},
	})
}

// writeError writes a failure envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Message: message})
}

// internalError logs the underlying error and answers with a generic 500.
func (a *API) internalError(w http.ResponseWriter, logMsg string, err error) {
	slog.Error(logMsg, "error", err)
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

// writeCreated writes a success envelope for a newly stored document.
func writeCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// renderMarkdown converts markdown to sanitized HTML. Content authored in
// the console is still treated as untrusted on the way out.
func renderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// listParams reads page, limit and search query parameters.
func listParams(r *http.Request) store.ListParams {
	q := r.URL.Query()
	page := atoi(q.Get("page"))
	limit := atoi(q.Get("limit"))
	return store.ListParams{Page: page, Limit: limit, Search: q.Get("search")}.Normalize()
}

// atoi parses a numeric query parameter, treating garbage as absent.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Status handles GET /api/v1/status.
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}
