// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestRoleIsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		roleName string
		expected bool
	}{
		{"distinguished admin name", "Admin", true},
		{"lowercase is not admin", "admin", false},
		{"editor is not admin", "Editor", false},
		{"empty name is not admin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := Role{Name: tt.roleName}
			if got := role.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v for role %q, want %v", got, tt.roleName, tt.expected)
			}
		})
	}
}

func TestPermissionAllows(t *testing.T) {
	perm := Permission{Resource: "Post", Action: "Delete"}

	tests := []struct {
		name     string
		resource string
		action   string
		expected bool
	}{
		{"exact match", "Post", "Delete", true},
		{"resource mismatch", "Product", "Delete", false},
		{"action mismatch", "Post", "Update", false},
		{"case-sensitive resource", "post", "Delete", false},
		{"case-sensitive action", "Post", "delete", false},
		{"no implication between actions", "Post", "Read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := perm.Allows(tt.resource, tt.action); got != tt.expected {
				t.Errorf("Allows(%q, %q) = %v, want %v", tt.resource, tt.action, got, tt.expected)
			}
		})
	}
}

func TestIsValidAction(t *testing.T) {
	for _, action := range Actions {
		if !IsValidAction(action) {
			t.Errorf("IsValidAction(%q) = false for known action", action)
		}
	}
	for _, action := range []string{"", "Publish", "read", "DELETE"} {
		if IsValidAction(action) {
			t.Errorf("IsValidAction(%q) = true for unknown action", action)
		}
	}
}

func TestCareerIsOpen(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		career   Career
		expected bool
	}{
		{"visible with no closing date", Career{ShowStatus: true}, true},
		{"visible before closing date", Career{ShowStatus: true, ClosingDate: &future}, true},
		{"closed after closing date", Career{ShowStatus: true, ClosingDate: &past}, false},
		{"hidden posting is closed", Career{ShowStatus: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.career.IsOpen(now); got != tt.expected {
				t.Errorf("IsOpen() = %v, want %v", got, tt.expected)
			}
		})
	}
}
