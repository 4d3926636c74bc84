// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth   = "auth"
	EventCategoryAuthz  = "authz"
	EventCategorySystem = "system"
)

// Event is an operational event log entry, written by the slog bridge and
// by authentication/authorization denials.
type Event struct {
	ID        string         `bson:"_id" json:"id"`
	Level     string         `bson:"level" json:"level"`
	Category  string         `bson:"category" json:"category"`
	Message   string         `bson:"message" json:"message"`
	UserID    string         `bson:"user_id,omitempty" json:"user_id,omitempty"`
	IP        string         `bson:"ip,omitempty" json:"ip,omitempty"`
	Path      string         `bson:"path,omitempty" json:"path,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
