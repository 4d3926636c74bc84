// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// CreateCareer inserts a new career opening.
func (s *Store) CreateCareer(ctx context.Context, c *model.Career) error {
	return insertOne(ctx, s.col(ColCareers), c)
}

// GetCareerByID fetches a career by id.
func (s *Store) GetCareerByID(ctx context.Context, id string) (*model.Career, error) {
	return findOne[model.Career](ctx, s.col(ColCareers),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetCareerBySlug fetches a career by slug.
func (s *Store) GetCareerBySlug(ctx context.Context, slug string) (*model.Career, error) {
	return findOne[model.Career](ctx, s.col(ColCareers),
		notDeleted(bson.D{{Key: "slug", Value: slug}}))
}

// ListCareers returns a page of careers plus the total count.
func (s *Store) ListCareers(ctx context.Context, params ListParams) ([]model.Career, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "title", params.Search)
	careers, err := findPage[model.Career](ctx, s.col(ColCareers), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColCareers), filter)
	if err != nil {
		return nil, 0, err
	}
	return careers, total, nil
}

// OpenCareers returns visible careers whose closing date has not passed,
// for the public listing. A career without a closing date stays open
// indefinitely, so the filter must also match documents where the field
// is absent.
func (s *Store) OpenCareers(ctx context.Context, now time.Time) ([]model.Career, error) {
	return findMany[model.Career](ctx, s.col(ColCareers), openCareersFilter(now))
}

func openCareersFilter(now time.Time) bson.D {
	return notDeleted(bson.D{
		{Key: "show_status", Value: true},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "closing_date", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "closing_date", Value: bson.D{{Key: "$gte", Value: now}}}},
		}},
	})
}

// UpdateCareer replaces a career document.
func (s *Store) UpdateCareer(ctx context.Context, c *model.Career) error {
	c.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColCareers), c.ID, c)
}

// DeleteCareer soft-deletes a career.
func (s *Store) DeleteCareer(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColCareers), id)
}

// DeleteCareers soft-deletes a batch of careers.
func (s *Store) DeleteCareers(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColCareers), ids)
}

// ToggleCareerStatus flips a career's show status.
func (s *Store) ToggleCareerStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColCareers), id, "show_status")
}

// CreateJobApplication inserts an application submitted for a career.
func (s *Store) CreateJobApplication(ctx context.Context, a *model.JobApplication) error {
	return insertOne(ctx, s.col(ColJobApplications), a)
}

// GetJobApplicationByID fetches an application by id.
func (s *Store) GetJobApplicationByID(ctx context.Context, id string) (*model.JobApplication, error) {
	return findOne[model.JobApplication](ctx, s.col(ColJobApplications),
		bson.D{{Key: "_id", Value: id}})
}

// ListJobApplications returns a page of applications plus the total count.
// CareerID filters by the career applied to when non-empty.
func (s *Store) ListJobApplications(ctx context.Context, params ListParams, careerID string) ([]model.JobApplication, int64, error) {
	filter := bson.D{}
	if careerID != "" {
		filter = append(filter, bson.E{Key: "career_id", Value: careerID})
	}
	filter = searchFilter(filter, "name", params.Search)
	apps, err := findPage[model.JobApplication](ctx, s.col(ColJobApplications), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColJobApplications), filter)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// DeleteJobApplication removes an application permanently.
func (s *Store) DeleteJobApplication(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColJobApplications), id)
}
