// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// CreateCategory inserts a new category.
func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	return insertOne(ctx, s.col(ColCategories), c)
}

// GetCategoryByID fetches a category by id.
func (s *Store) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	return findOne[model.Category](ctx, s.col(ColCategories),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetCategoryBySlug fetches a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return findOne[model.Category](ctx, s.col(ColCategories),
		notDeleted(bson.D{{Key: "slug", Value: slug}}))
}

// ListCategories returns a page of categories plus the total count. Kind
// filters by category kind when non-empty.
func (s *Store) ListCategories(ctx context.Context, params ListParams, kind string) ([]model.Category, int64, error) {
	filter := notDeleted(bson.D{})
	if kind != "" {
		filter = append(filter, bson.E{Key: "kind", Value: kind})
	}
	filter = searchFilter(filter, "name", params.Search)
	categories, err := findPage[model.Category](ctx, s.col(ColCategories), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColCategories), filter)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// AllCategories returns every live category of a kind, for form option lists.
func (s *Store) AllCategories(ctx context.Context, kind string) ([]model.Category, error) {
	filter := notDeleted(bson.D{})
	if kind != "" {
		filter = append(filter, bson.E{Key: "kind", Value: kind})
	}
	return findMany[model.Category](ctx, s.col(ColCategories), filter)
}

// UpdateCategory replaces a category document.
func (s *Store) UpdateCategory(ctx context.Context, c *model.Category) error {
	c.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColCategories), c.ID, c)
}

// DeleteCategory soft-deletes a category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColCategories), id)
}

// DeleteCategories soft-deletes a batch of categories.
func (s *Store) DeleteCategories(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColCategories), ids)
}

// CreateTag inserts a new tag.
func (s *Store) CreateTag(ctx context.Context, t *model.Tag) error {
	return insertOne(ctx, s.col(ColTags), t)
}

// GetTagByID fetches a tag by id.
func (s *Store) GetTagByID(ctx context.Context, id string) (*model.Tag, error) {
	return findOne[model.Tag](ctx, s.col(ColTags),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetTagBySlug fetches a tag by slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	return findOne[model.Tag](ctx, s.col(ColTags),
		notDeleted(bson.D{{Key: "slug", Value: slug}}))
}

// ListTags returns a page of tags plus the total count.
func (s *Store) ListTags(ctx context.Context, params ListParams) ([]model.Tag, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "name", params.Search)
	tags, err := findPage[model.Tag](ctx, s.col(ColTags), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColTags), filter)
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

// AllTags returns every live tag, for form option lists.
func (s *Store) AllTags(ctx context.Context) ([]model.Tag, error) {
	return findMany[model.Tag](ctx, s.col(ColTags), notDeleted(bson.D{}))
}

// UpdateTag replaces a tag document.
func (s *Store) UpdateTag(ctx context.Context, t *model.Tag) error {
	t.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColTags), t.ID, t)
}

// DeleteTag soft-deletes a tag.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColTags), id)
}

// DeleteTags soft-deletes a batch of tags.
func (s *Store) DeleteTags(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColTags), ids)
}
