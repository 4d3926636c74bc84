// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PurgeSoftDeleted permanently removes soft-deleted documents whose
// deleted_at is older than the cutoff. It returns the number of documents
// removed across all collections.
func (s *Store) PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	filter := bson.D{{Key: "deleted_at", Value: bson.D{{Key: "$lt", Value: olderThan}}}}

	var purged int64
	for _, name := range softDeletable {
		res, err := s.col(name).DeleteMany(ctx, filter)
		if err != nil {
			return purged, wrapError(err)
		}
		purged += res.DeletedCount
	}
	return purged, nil
}
