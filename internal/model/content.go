// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category kinds
const (
	CategoryKindProduct = "product"
	CategoryKindPost    = "post"
)

// Post represents a blog post. The body is stored as markdown and rendered
// to sanitized HTML on the public API.
type Post struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Slug        string     `bson:"slug" json:"slug"`
	Excerpt     string     `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Body        string     `bson:"body" json:"body"`
	CoverImage  string     `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	CategoryID  string     `bson:"category_id,omitempty" json:"category_id,omitempty"`
	TagIDs      []string   `bson:"tag_ids,omitempty" json:"tag_ids,omitempty"`
	SEO         SEO        `bson:"seo,omitempty" json:"seo,omitempty"`
	ShowStatus  bool       `bson:"show_status" json:"show_status"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Category groups products or posts. Kind is "product" or "post".
type Category struct {
	ID          string     `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Slug        string     `bson:"slug" json:"slug"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Kind        string     `bson:"kind" json:"kind"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Tag labels posts.
type Tag struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Slug      string     `bson:"slug" json:"slug"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// Page represents a static page.
type Page struct {
	ID         string     `bson:"_id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	Slug       string     `bson:"slug" json:"slug"`
	Body       string     `bson:"body" json:"body"`
	SEO        SEO        `bson:"seo,omitempty" json:"seo,omitempty"`
	ShowStatus bool       `bson:"show_status" json:"show_status"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
