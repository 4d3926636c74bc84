// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelo-dev/canopy/internal/store"
)

func TestListParamsFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/products?page=3&limit=25&search=+pump+", nil)
	params := listParamsFromRequest(r)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "pump", params.Search)
}

func TestListParamsFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/products", nil)
	params := listParamsFromRequest(r)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, store.DefaultPerPage, params.Limit)
	assert.Empty(t, params.Search)
}

func TestFormIDs(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want []string
	}{
		{
			name: "repeated fields",
			form: url.Values{"ids": {"a", "b", "c"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "comma separated",
			form: url.Values{"ids": {"a,b,c"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "blanks dropped",
			form: url.Values{"ids": {"a", " ", ""}},
			want: []string{"a"},
		},
		{
			name: "empty form",
			form: url.Values{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/admin/products/delete",
				strings.NewReader(tt.form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			require.NoError(t, r.ParseForm())

			assert.Equal(t, tt.want, formIDs(r))
		})
	}
}

func TestFirstMissingField(t *testing.T) {
	form := url.Values{"title": {"Widget"}, "body": {"  "}}
	r := httptest.NewRequest("POST", "/admin/posts", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, r.ParseForm())

	missing := firstMissingField(r,
		[2]string{"title", "Title"},
		[2]string{"body", "Body"},
		[2]string{"slug", "Slug"},
	)
	assert.Equal(t, "Body", missing)

	assert.Empty(t, firstMissingField(r, [2]string{"title", "Title"}))
}

func TestDeriveSlug(t *testing.T) {
	assert.Equal(t, "hello-world", deriveSlug("Hello World!", ""))
	assert.Equal(t, "custom-slug", deriveSlug("Hello World!", "Custom Slug"))
	// Idempotent on its own output
	assert.Equal(t, "hello-world", deriveSlug("", "hello-world"))
}

func TestRedirectBack(t *testing.T) {
	r := httptest.NewRequest("POST", "/admin/products/abc/status", nil)
	r.Header.Set("Referer", "/admin/products?page=2")
	w := httptest.NewRecorder()
	redirectBack(w, r, "/admin/products")

	assert.Equal(t, 303, w.Code)
	assert.Equal(t, "/admin/products?page=2", w.Header().Get("Location"))
}

func TestRedirectBack_NoReferer(t *testing.T) {
	r := httptest.NewRequest("POST", "/admin/products/abc/status", nil)
	w := httptest.NewRecorder()
	redirectBack(w, r, "/admin/products")

	assert.Equal(t, "/admin/products", w.Header().Get("Location"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30 seconds", formatDuration(30*time.Second))
	assert.Equal(t, "1 minute", formatDuration(90*time.Second))
	assert.Equal(t, "15 minutes", formatDuration(15*time.Minute))
	assert.Equal(t, "1 hour", formatDuration(time.Hour))
	assert.Equal(t, "3 hours", formatDuration(3*time.Hour))
}
