// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// PostFilter narrows public post listings. YearFrom/YearTo bound the
// publication year (inclusive).
type PostFilter struct {
	CategoryID  string
	TagID       string
	YearFrom    int
	YearTo      int
	VisibleOnly bool
}

func (f PostFilter) build() bson.D {
	filter := notDeleted(bson.D{})
	if f.CategoryID != "" {
		filter = append(filter, bson.E{Key: "category_id", Value: f.CategoryID})
	}
	if f.TagID != "" {
		filter = append(filter, bson.E{Key: "tag_ids", Value: f.TagID})
	}
	if f.VisibleOnly {
		filter = append(filter, bson.E{Key: "show_status", Value: true})
	}
	if f.YearFrom > 0 || f.YearTo > 0 {
		bounds := bson.D{}
		if f.YearFrom > 0 {
			bounds = append(bounds, bson.E{Key: "$gte", Value: time.Date(f.YearFrom, 1, 1, 0, 0, 0, 0, time.UTC)})
		}
		if f.YearTo > 0 {
			bounds = append(bounds, bson.E{Key: "$lt", Value: time.Date(f.YearTo+1, 1, 1, 0, 0, 0, 0, time.UTC)})
		}
		filter = append(filter, bson.E{Key: "published_at", Value: bounds})
	}
	return filter
}

// CreatePost inserts a new post.
func (s *Store) CreatePost(ctx context.Context, p *model.Post) error {
	return insertOne(ctx, s.col(ColPosts), p)
}

// GetPostByID fetches a post by id.
func (s *Store) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	return findOne[model.Post](ctx, s.col(ColPosts),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetPostBySlug fetches a post by slug.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return findOne[model.Post](ctx, s.col(ColPosts),
		notDeleted(bson.D{{Key: "slug", Value: slug}}))
}

// ListPosts returns a page of posts matching the filter plus the total count.
func (s *Store) ListPosts(ctx context.Context, params ListParams, f PostFilter) ([]model.Post, int64, error) {
	filter := searchFilter(f.build(), "title", params.Search)
	posts, err := findPage[model.Post](ctx, s.col(ColPosts), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColPosts), filter)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost replaces a post document.
func (s *Store) UpdatePost(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColPosts), p.ID, p)
}

// DeletePost soft-deletes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColPosts), id)
}

// DeletePosts soft-deletes a batch of posts, all-or-nothing on id validation.
func (s *Store) DeletePosts(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColPosts), ids)
}

// TogglePostStatus flips a post's show_status flag.
func (s *Store) TogglePostStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColPosts), id, "show_status")
}
