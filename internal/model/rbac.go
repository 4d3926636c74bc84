// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// RoleAdmin is the distinguished role name that bypasses permission checks.
const RoleAdmin = "Admin"

// Permission actions. Resources are entity type names ("Product", "Post", ...).
const (
	ActionCreate = "Create"
	ActionRead   = "Read"
	ActionAdd    = "Add"
	ActionEdit   = "Edit"
	ActionUpdate = "Update"
	ActionDelete = "Delete"
	ActionStatus = "Status"
)

// Actions lists every valid permission action.
var Actions = []string{
	ActionCreate, ActionRead, ActionAdd, ActionEdit,
	ActionUpdate, ActionDelete, ActionStatus,
}

// Resources lists every entity type name used as a permission resource.
var Resources = []string{
	"Product", "Post", "Category", "Tag", "Page",
	"Country", "State", "City", "Career", "Slider",
	"Faq", "Video", "Setting", "User", "Role",
	"Permission", "Enquiry", "JobApplication",
}

// Role is a named group owning an unordered set of permission references.
// Roles compose no hierarchy: a user's effective permission set is fully
// determined by its single role.
type Role struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	PermissionIDs []string  `bson:"permission_ids" json:"permission_ids"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin returns true if the role carries the distinguished admin name.
func (r *Role) IsAdmin() bool {
	return r.Name == RoleAdmin
}

// Permission is a (resource, action) pair, e.g. ("Post", "Delete").
// Uniqueness of the pair is a soft expectation, not a database constraint;
// duplicates are harmless because the membership test still succeeds.
type Permission struct {
	ID        string    `bson:"_id" json:"id"`
	Resource  string    `bson:"resource" json:"resource"`
	Action    string    `bson:"action" json:"action"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Allows reports whether this permission grants the given resource/action
// pair. Matching is a case-sensitive exact comparison: no wildcards, and no
// implication between actions ("Update" does not imply "Read").
func (p Permission) Allows(resource, action string) bool {
	return p.Resource == resource && p.Action == action
}

// IsValidAction reports whether the action name is one of the known actions.
func IsValidAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}
