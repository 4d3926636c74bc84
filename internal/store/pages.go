// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// CreatePage inserts a new page.
func (s *Store) CreatePage(ctx context.Context, p *model.Page) error {
	return insertOne(ctx, s.col(ColPages), p)
}

// GetPageByID fetches a page by id.
func (s *Store) GetPageByID(ctx context.Context, id string) (*model.Page, error) {
	return findOne[model.Page](ctx, s.col(ColPages),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetPageBySlug fetches a page by slug. VisibleOnly restricts the lookup
// to pages with show status on, which is what the public API wants.
func (s *Store) GetPageBySlug(ctx context.Context, slug string, visibleOnly bool) (*model.Page, error) {
	filter := notDeleted(bson.D{{Key: "slug", Value: slug}})
	if visibleOnly {
		filter = append(filter, bson.E{Key: "show_status", Value: true})
	}
	return findOne[model.Page](ctx, s.col(ColPages), filter)
}

// ListPages returns a page of pages plus the total count.
func (s *Store) ListPages(ctx context.Context, params ListParams) ([]model.Page, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "title", params.Search)
	pages, err := findPage[model.Page](ctx, s.col(ColPages), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColPages), filter)
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// UpdatePage replaces a page document.
func (s *Store) UpdatePage(ctx context.Context, p *model.Page) error {
	p.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColPages), p.ID, p)
}

// DeletePage soft-deletes a page.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColPages), id)
}

// DeletePages soft-deletes a batch of pages.
func (s *Store) DeletePages(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColPages), ids)
}

// TogglePageStatus flips a page's show status.
func (s *Store) TogglePageStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColPages), id, "show_status")
}
