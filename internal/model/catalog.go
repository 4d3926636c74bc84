// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Product represents a catalog product.
type Product struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Slug        string     `bson:"slug" json:"slug"`
	Summary     string     `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Price       string     `bson:"price,omitempty" json:"price,omitempty"`
	Images      []string   `bson:"images,omitempty" json:"images,omitempty"`
	CategoryID  string     `bson:"category_id,omitempty" json:"category_id,omitempty"`
	CountryID   string     `bson:"country_id,omitempty" json:"country_id,omitempty"`
	SEO         SEO        `bson:"seo,omitempty" json:"seo,omitempty"`
	ShowStatus  bool       `bson:"show_status" json:"show_status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Slider represents a homepage slider entry.
type Slider struct {
	ID         string     `bson:"_id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	Image      string     `bson:"image,omitempty" json:"image,omitempty"`
	Caption    string     `bson:"caption,omitempty" json:"caption,omitempty"`
	Link       string     `bson:"link,omitempty" json:"link,omitempty"`
	Position   int        `bson:"position" json:"position"`
	ShowStatus bool       `bson:"show_status" json:"show_status"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Faq represents a frequently-asked question entry.
type Faq struct {
	ID         string     `bson:"_id" json:"id"`
	Question   string     `bson:"question" json:"question"`
	Answer     string     `bson:"answer" json:"answer"`
	Position   int        `bson:"position" json:"position"`
	ShowStatus bool       `bson:"show_status" json:"show_status"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Video represents an embedded video entry.
type Video struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	URL         string     `bson:"url" json:"url"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	ShowStatus  bool       `bson:"show_status" json:"show_status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
