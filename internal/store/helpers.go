// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultPerPage is the default page size for list queries. MaxPerPage
// bounds what a caller can request in one page.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// NewID generates a new document id as an ObjectID hex string.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidateID reports whether id is a well-formed ObjectID hex string.
func ValidateID(id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// ValidateIDs validates every id in the list. A single malformed id rejects
// the whole batch so bulk operations are all-or-nothing.
func ValidateIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrInvalidID
	}
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}

// ListParams holds pagination and search parameters for list queries.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps page and limit to valid values.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPerPage
	}
	if p.Limit > MaxPerPage {
		p.Limit = MaxPerPage
	}
	return p
}

// Offset returns the number of documents to skip.
func (p ListParams) Offset() int64 {
	p = p.Normalize()
	return int64((p.Page - 1) * p.Limit)
}

// PageCount returns the total number of pages for a document count, using
// ceiling division. A zero count yields zero pages.
func PageCount(total int64, limit int) int {
	if limit < 1 {
		limit = DefaultPerPage
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// wrapError translates driver errors into domain errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// notDeleted excludes soft-deleted documents from a filter.
func notDeleted(filter bson.D) bson.D {
	return append(filter, bson.E{Key: "deleted_at", Value: bson.D{{Key: "$exists", Value: false}}})
}

// searchFilter adds a case-insensitive substring match on the given field
// when search is non-empty.
func searchFilter(filter bson.D, field, search string) bson.D {
	if search == "" {
		return filter
	}
	return append(filter, bson.E{Key: field, Value: bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(search)},
		{Key: "$options", Value: "i"},
	}})
}

// findOne decodes a single document. A missing document maps to ErrNotFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

// findMany decodes all documents matching filter.
func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// findPage runs a paginated find sorted by created_at descending.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter bson.D, params ListParams) ([]T, error) {
	params = params.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(params.Offset()).
		SetLimit(int64(params.Limit))
	return findMany[T](ctx, col, filter, opts)
}

// insertOne inserts a single document.
func insertOne(ctx context.Context, col *mongo.Collection, doc any) error {
	_, err := col.InsertOne(ctx, doc)
	return wrapError(err)
}

// replaceByID replaces a full document (create/update is full-field replace,
// not patch). A zero match maps to ErrNotFound; a matched-but-unmodified
// replace is a successful no-op.
func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	res, err := col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// updateFields sets the given fields on a document by id.
func updateFields(ctx context.Context, col *mongo.Collection, id string, update bson.D) error {
	res, err := col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: update}})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// softDeleteByID marks a document deleted without removing it.
func softDeleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	return updateFields(ctx, col, id, bson.D{{Key: "deleted_at", Value: time.Now()}})
}

// softDeleteMany marks a batch of documents deleted. Ids must be validated
// by the caller; the batch is applied in a single update.
func softDeleteMany(ctx context.Context, col *mongo.Collection, ids []string) (int64, error) {
	res, err := col.UpdateMany(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "deleted_at", Value: time.Now()}}}})
	if err != nil {
		return 0, wrapError(err)
	}
	return res.ModifiedCount, nil
}

// deleteByID removes a document permanently.
func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// countDocs counts documents matching filter.
func countDocs(ctx context.Context, col *mongo.Collection, filter bson.D) (int64, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrapError(err)
	}
	return n, nil
}

// toggleField flips a boolean field on a document by id.
func toggleField(ctx context.Context, col *mongo.Collection, id, field string) error {
	res, err := col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.A{bson.D{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$not", Value: "$" + field}}},
		}}}})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
