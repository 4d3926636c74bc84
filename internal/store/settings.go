// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mirelo-dev/canopy/internal/model"
)

// GetSettings returns the site settings singleton. A missing document
// yields zero-value settings rather than an error so the site works
// before anything has been saved.
func (s *Store) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings, err := findOne[model.Settings](ctx, s.col(ColSettings),
		bson.D{{Key: "_id", Value: model.SettingsID}})
	if errors.Is(err, ErrNotFound) {
		return &model.Settings{ID: model.SettingsID}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings upserts the site settings singleton.
func (s *Store) SaveSettings(ctx context.Context, settings *model.Settings) error {
	settings.ID = model.SettingsID
	settings.UpdatedAt = time.Now()
	_, err := s.col(ColSettings).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: model.SettingsID}},
		settings,
		options.Replace().SetUpsert(true))
	return wrapError(err)
}

// CreateEnquiry inserts a contact enquiry.
func (s *Store) CreateEnquiry(ctx context.Context, e *model.Enquiry) error {
	return insertOne(ctx, s.col(ColEnquiries), e)
}

// GetEnquiryByID fetches an enquiry by id.
func (s *Store) GetEnquiryByID(ctx context.Context, id string) (*model.Enquiry, error) {
	return findOne[model.Enquiry](ctx, s.col(ColEnquiries),
		bson.D{{Key: "_id", Value: id}})
}

// ListEnquiries returns a page of enquiries plus the total count.
func (s *Store) ListEnquiries(ctx context.Context, params ListParams) ([]model.Enquiry, int64, error) {
	filter := searchFilter(bson.D{}, "name", params.Search)
	enquiries, err := findPage[model.Enquiry](ctx, s.col(ColEnquiries), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColEnquiries), filter)
	if err != nil {
		return nil, 0, err
	}
	return enquiries, total, nil
}

// DeleteEnquiry removes an enquiry permanently.
func (s *Store) DeleteEnquiry(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColEnquiries), id)
}
