// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// ProductFilter narrows public product listings.
type ProductFilter struct {
	CountryID    string
	CategoryID   string
	VisibleOnly  bool
}

func (f ProductFilter) build() bson.D {
	filter := notDeleted(bson.D{})
	if f.CountryID != "" {
		filter = append(filter, bson.E{Key: "country_id", Value: f.CountryID})
	}
	if f.CategoryID != "" {
		filter = append(filter, bson.E{Key: "category_id", Value: f.CategoryID})
	}
	if f.VisibleOnly {
		filter = append(filter, bson.E{Key: "show_status", Value: true})
	}
	return filter
}

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	return insertOne(ctx, s.col(ColProducts), p)
}

// GetProductByID fetches a product by id. Soft-deleted products are
// treated as missing.
func (s *Store) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col(ColProducts),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetProductBySlug fetches a product by slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return findOne[model.Product](ctx, s.col(ColProducts),
		notDeleted(bson.D{{Key: "slug", Value: slug}}))
}

// ListProducts returns a page of products matching the filter plus the
// total count.
func (s *Store) ListProducts(ctx context.Context, params ListParams, f ProductFilter) ([]model.Product, int64, error) {
	filter := searchFilter(f.build(), "title", params.Search)
	products, err := findPage[model.Product](ctx, s.col(ColProducts), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColProducts), filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct replaces a product document (full-field replace, not patch).
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	p.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColProducts), p.ID, p)
}

// DeleteProduct soft-deletes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColProducts), id)
}

// DeleteProducts soft-deletes a batch of products. The batch is rejected
// as a whole when any id is malformed.
func (s *Store) DeleteProducts(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColProducts), ids)
}

// ToggleProductStatus flips a product's show_status flag.
func (s *Store) ToggleProductStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColProducts), id, "show_status")
}
