// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mirelo-dev/canopy/internal/model"
)

// Sliders, FAQs and videos share the same simple listing shape, so the
// store methods follow one pattern throughout.

// CreateSlider inserts a new slider.
func (s *Store) CreateSlider(ctx context.Context, sl *model.Slider) error {
	return insertOne(ctx, s.col(ColSliders), sl)
}

// GetSliderByID fetches a slider by id.
func (s *Store) GetSliderByID(ctx context.Context, id string) (*model.Slider, error) {
	return findOne[model.Slider](ctx, s.col(ColSliders),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// ListSliders returns a page of sliders plus the total count.
func (s *Store) ListSliders(ctx context.Context, params ListParams) ([]model.Slider, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "title", params.Search)
	sliders, err := findPage[model.Slider](ctx, s.col(ColSliders), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColSliders), filter)
	if err != nil {
		return nil, 0, err
	}
	return sliders, total, nil
}

// VisibleSliders returns live sliders with show status on, ordered by
// position.
func (s *Store) VisibleSliders(ctx context.Context) ([]model.Slider, error) {
	return findMany[model.Slider](ctx, s.col(ColSliders),
		notDeleted(bson.D{{Key: "show_status", Value: true}}),
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
}

// UpdateSlider replaces a slider document.
func (s *Store) UpdateSlider(ctx context.Context, sl *model.Slider) error {
	sl.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColSliders), sl.ID, sl)
}

// DeleteSlider soft-deletes a slider.
func (s *Store) DeleteSlider(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColSliders), id)
}

// DeleteSliders soft-deletes a batch of sliders.
func (s *Store) DeleteSliders(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColSliders), ids)
}

// ToggleSliderStatus flips a slider's show status.
func (s *Store) ToggleSliderStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColSliders), id, "show_status")
}

// CreateFaq inserts a new FAQ entry.
func (s *Store) CreateFaq(ctx context.Context, f *model.Faq) error {
	return insertOne(ctx, s.col(ColFaqs), f)
}

// GetFaqByID fetches a FAQ entry by id.
func (s *Store) GetFaqByID(ctx context.Context, id string) (*model.Faq, error) {
	return findOne[model.Faq](ctx, s.col(ColFaqs),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// ListFaqs returns a page of FAQ entries plus the total count.
func (s *Store) ListFaqs(ctx context.Context, params ListParams) ([]model.Faq, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "question", params.Search)
	faqs, err := findPage[model.Faq](ctx, s.col(ColFaqs), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColFaqs), filter)
	if err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}

// VisibleFaqs returns live FAQ entries with show status on, ordered by
// position.
func (s *Store) VisibleFaqs(ctx context.Context) ([]model.Faq, error) {
	return findMany[model.Faq](ctx, s.col(ColFaqs),
		notDeleted(bson.D{{Key: "show_status", Value: true}}),
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
}

// UpdateFaq replaces a FAQ document.
func (s *Store) UpdateFaq(ctx context.Context, f *model.Faq) error {
	f.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColFaqs), f.ID, f)
}

// DeleteFaq soft-deletes a FAQ entry.
func (s *Store) DeleteFaq(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColFaqs), id)
}

// DeleteFaqs soft-deletes a batch of FAQ entries.
func (s *Store) DeleteFaqs(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColFaqs), ids)
}

// ToggleFaqStatus flips a FAQ entry's show status.
func (s *Store) ToggleFaqStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColFaqs), id, "show_status")
}

// CreateVideo inserts a new video.
func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	return insertOne(ctx, s.col(ColVideos), v)
}

// GetVideoByID fetches a video by id.
func (s *Store) GetVideoByID(ctx context.Context, id string) (*model.Video, error) {
	return findOne[model.Video](ctx, s.col(ColVideos),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// ListVideos returns a page of videos plus the total count.
func (s *Store) ListVideos(ctx context.Context, params ListParams) ([]model.Video, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "title", params.Search)
	videos, err := findPage[model.Video](ctx, s.col(ColVideos), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColVideos), filter)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// VisibleVideos returns live videos with show status on.
func (s *Store) VisibleVideos(ctx context.Context) ([]model.Video, error) {
	return findMany[model.Video](ctx, s.col(ColVideos),
		notDeleted(bson.D{{Key: "show_status", Value: true}}))
}

// UpdateVideo replaces a video document.
func (s *Store) UpdateVideo(ctx context.Context, v *model.Video) error {
	v.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColVideos), v.ID, v)
}

// DeleteVideo soft-deletes a video.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColVideos), id)
}

// DeleteVideos soft-deletes a batch of videos.
func (s *Store) DeleteVideos(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColVideos), ids)
}

// ToggleVideoStatus flips a video's show status.
func (s *Store) ToggleVideoStatus(ctx context.Context, id string) error {
	return toggleField(ctx, s.col(ColVideos), id, "show_status")
}
