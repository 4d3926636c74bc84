// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// InsertEvent records an audit event. Event inserts are best effort at
// the call sites, a failed insert never fails the triggering request.
func (s *Store) InsertEvent(ctx context.Context, e *model.Event) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return insertOne(ctx, s.col(ColEvents), e)
}

// ListEvents returns a page of events plus the total count. Level and
// category filter the stream when non-empty.
func (s *Store) ListEvents(ctx context.Context, params ListParams, level, category string) ([]model.Event, int64, error) {
	filter := bson.D{}
	if level != "" {
		filter = append(filter, bson.E{Key: "level", Value: level})
	}
	if category != "" {
		filter = append(filter, bson.E{Key: "category", Value: category})
	}
	filter = searchFilter(filter, "message", params.Search)
	events, err := findPage[model.Event](ctx, s.col(ColEvents), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColEvents), filter)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
