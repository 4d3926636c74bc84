// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelo-dev/canopy/internal/store"
)

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(rec, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "OK", env.Message)
	assert.Equal(t, map[string]any{"status": "ok"}, env.Data)
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	params := store.ListParams{Page: 2, Limit: 10}.Normalize()
	writeList(rec, []string{"a", "b"}, params, 35)

	var env struct {
		Success bool        `json:"success"`
		Data    listPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Current)
	assert.Equal(t, int64(10), env.Data.Offset)
	assert.Equal(t, 4, env.Data.Pages)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "Product not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Product not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := renderMarkdown("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html, err := renderMarkdown("hello <script>alert(1)</script> world")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}

func TestListParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=3&limit=25&search=widget", nil)
	params := listParams(r)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "widget", params.Search)
}

func TestListParamsDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=abc&limit=-5", nil)
	params := listParams(r)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, store.DefaultPerPage, params.Limit)
}

func TestAtoi(t *testing.T) {
	assert.Equal(t, 42, atoi("42"))
	assert.Equal(t, 0, atoi(""))
	assert.Equal(t, 0, atoi("12a"))
	assert.Equal(t, 0, atoi("-3"))
}
