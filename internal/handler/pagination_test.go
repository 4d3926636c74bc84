// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirelo-dev/canopy/internal/store"
)

func TestBuildAdminPagination(t *testing.T) {
	params := store.ListParams{Page: 2, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 35, "/admin/products", nil)

	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 4, p.TotalPages)
	assert.Equal(t, int64(35), p.TotalItems)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/admin/products?page=1", p.PrevURL())
	assert.Equal(t, "/admin/products?page=3", p.NextURL())
	assert.True(t, p.ShouldShow())
}

func TestBuildAdminPagination_SinglePage(t *testing.T) {
	params := store.ListParams{Page: 1, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 5, "/admin/tags", nil)

	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.False(t, p.ShouldShow())
}

func TestBuildAdminPagination_EmptyList(t *testing.T) {
	params := store.ListParams{Page: 1, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 0, "/admin/tags", nil)

	// An empty list still presents one (empty) page.
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, "0-0", p.PageRange())
}

func TestBuildAdminPagination_PageBeyondEnd(t *testing.T) {
	params := store.ListParams{Page: 9, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 21, "/admin/posts", nil)

	assert.Equal(t, 3, p.CurrentPage)
	assert.False(t, p.HasNext)
}

func TestBuildAdminPagination_PreservesQuery(t *testing.T) {
	params := store.ListParams{Page: 1, Limit: 10}.Normalize()
	q := url.Values{"search": {"widget"}, "page": {"1"}, "empty": {""}}
	p := BuildAdminPagination(params, 50, "/admin/products", q)

	assert.Equal(t, "search=widget", p.QueryString)
	assert.Equal(t, "/admin/products?search=widget&page=3", p.PageURL(3))
}

func TestBuildAdminPagination_Ellipsis(t *testing.T) {
	params := store.ListParams{Page: 10, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 200, "/admin/events", nil)

	// First page, ellipsis, window around current, ellipsis, last page.
	assert.Equal(t, 1, p.Pages[0].Number)
	assert.True(t, p.Pages[1].IsEllipsis)
	last := p.Pages[len(p.Pages)-1]
	assert.Equal(t, 20, last.Number)
	assert.True(t, p.Pages[len(p.Pages)-2].IsEllipsis)

	var window []int
	for _, pg := range p.Pages {
		if !pg.IsEllipsis {
			window = append(window, pg.Number)
		}
	}
	assert.Equal(t, []int{1, 8, 9, 10, 11, 12, 20}, window)
}

func TestPageRange(t *testing.T) {
	params := store.ListParams{Page: 3, Limit: 10}.Normalize()
	p := BuildAdminPagination(params, 25, "/admin/users", nil)
	assert.Equal(t, "21-25", p.PageRange())
}
