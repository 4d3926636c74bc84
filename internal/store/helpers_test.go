// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty", 0, 10, 0},
		{"one short page", 1, 10, 1},
		{"exact page", 10, 10, 1},
		{"one over", 11, 10, 2},
		{"several pages", 21, 10, 3},
		{"zero limit falls back to default", 21, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.total, tt.limit))
		})
	}
}

func TestValidateIDs(t *testing.T) {
	valid := NewID()

	t.Run("empty batch rejected", func(t *testing.T) {
		assert.ErrorIs(t, ValidateIDs(nil), ErrInvalidID)
		assert.ErrorIs(t, ValidateIDs([]string{}), ErrInvalidID)
	})

	t.Run("all valid", func(t *testing.T) {
		require.NoError(t, ValidateIDs([]string{valid, NewID()}))
	})

	t.Run("one bad id fails the batch", func(t *testing.T) {
		assert.ErrorIs(t, ValidateIDs([]string{valid, "not-an-id"}), ErrInvalidID)
	})
}

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         ListParams
		wantPage   int
		wantLimit  int
		wantOffset int64
	}{
		{"defaults", ListParams{}, 1, DefaultPerPage, 0},
		{"negative page", ListParams{Page: -3, Limit: 5}, 1, 5, 0},
		{"second page", ListParams{Page: 2, Limit: 10}, 2, 10, 10},
		{"limit capped", ListParams{Page: 1, Limit: 5000}, 1, MaxPerPage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}
