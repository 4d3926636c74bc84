// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// SettingsID is the fixed document id of the single settings document.
const SettingsID = "site"

// Settings is the singleton site settings document.
type Settings struct {
	ID             string    `bson:"_id" json:"id"`
	SiteName       string    `bson:"site_name" json:"site_name"`
	Tagline        string    `bson:"tagline,omitempty" json:"tagline,omitempty"`
	ContactEmail   string    `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone   string    `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address        string    `bson:"address,omitempty" json:"address,omitempty"`
	FacebookURL    string    `bson:"facebook_url,omitempty" json:"facebook_url,omitempty"`
	TwitterURL     string    `bson:"twitter_url,omitempty" json:"twitter_url,omitempty"`
	InstagramURL   string    `bson:"instagram_url,omitempty" json:"instagram_url,omitempty"`
	LinkedInURL    string    `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	MetaTitle      string    `bson:"meta_title,omitempty" json:"meta_title,omitempty"`
	MetaDescription string   `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Enquiry is a public contact submission.
type Enquiry struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Subject   string     `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string     `bson:"message" json:"message"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
