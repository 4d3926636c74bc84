// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	ColUsers           = "users"
	ColRoles           = "roles"
	ColPermissions     = "permissions"
	ColProducts        = "products"
	ColPosts           = "posts"
	ColCategories      = "categories"
	ColTags            = "tags"
	ColPages           = "pages"
	ColCountries       = "countries"
	ColStates          = "states"
	ColCities          = "cities"
	ColCareers         = "careers"
	ColJobApplications = "job_applications"
	ColSliders         = "sliders"
	ColFaqs            = "faqs"
	ColVideos          = "videos"
	ColSettings        = "settings"
	ColEnquiries       = "enquiries"
	ColEvents          = "events"
)

// softDeletable lists the collections whose documents are soft-deleted and
// later purged by the scheduler.
var softDeletable = []string{
	ColProducts, ColPosts, ColCategories, ColTags, ColPages,
	ColCountries, ColStates, ColCities, ColCareers, ColJobApplications,
	ColSliders, ColFaqs, ColVideos, ColEnquiries,
}

// Store wraps a MongoDB database and exposes typed queries per collection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB, verifies the connection and makes sure all
// indexes exist.
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	if err := s.ensureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure indexes", "error", err)
	}

	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// col returns the named collection.
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes creates all required indexes. Unique slug indexes are partial
// so that soft-deleted documents do not block slug reuse.
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col     string
		keys    bson.D
		unique  bool
		partial bool
	}

	slugIdx := func(col string) idx {
		return idx{col, bson.D{{Key: "slug", Value: 1}}, true, true}
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true, false},
		{ColRoles, bson.D{{Key: "name", Value: 1}}, true, false},
		{ColPermissions, bson.D{{Key: "resource", Value: 1}, {Key: "action", Value: 1}}, false, false},

		slugIdx(ColProducts),
		slugIdx(ColPosts),
		slugIdx(ColCategories),
		slugIdx(ColTags),
		slugIdx(ColPages),
		slugIdx(ColCountries),
		slugIdx(ColStates),
		slugIdx(ColCities),
		slugIdx(ColCareers),

		{ColCountries, bson.D{{Key: "code", Value: 1}}, true, true},
		{ColStates, bson.D{{Key: "country_id", Value: 1}}, false, false},
		{ColCities, bson.D{{Key: "state_id", Value: 1}}, false, false},
		{ColPosts, bson.D{{Key: "category_id", Value: 1}}, false, false},
		{ColPosts, bson.D{{Key: "published_at", Value: -1}}, false, false},
		{ColProducts, bson.D{{Key: "country_id", Value: 1}}, false, false},
		{ColJobApplications, bson.D{{Key: "career_id", Value: 1}}, false, false},
		{ColEvents, bson.D{{Key: "created_at", Value: -1}}, false, false},
	}

	for _, i := range indexes {
		im := mongo.IndexModel{Keys: i.keys}
		opts := options.Index()
		if i.unique {
			opts = opts.SetUnique(true)
		}
		if i.partial {
			opts = opts.SetPartialFilterExpression(bson.D{
				{Key: "deleted_at", Value: bson.D{{Key: "$exists", Value: false}}},
			})
		}
		if i.unique || i.partial {
			im.Options = opts
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, im); err != nil {
			return fmt.Errorf("creating index on %s: %w", i.col, err)
		}
	}

	return nil
}
