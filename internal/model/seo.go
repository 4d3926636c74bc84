// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SEO is the optional metadata block embedded in content entities.
type SEO struct {
	MetaTitle       string `bson:"meta_title,omitempty" json:"meta_title,omitempty"`
	MetaDescription string `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	MetaKeywords    string `bson:"meta_keywords,omitempty" json:"meta_keywords,omitempty"`
	CanonicalURL    string `bson:"canonical_url,omitempty" json:"canonical_url,omitempty"`
}
