// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// CreateRole inserts a new role.
func (s *Store) CreateRole(ctx context.Context, role *model.Role) error {
	return insertOne(ctx, s.col(ColRoles), role)
}

// GetRoleByID fetches a role by id.
func (s *Store) GetRoleByID(ctx context.Context, id string) (*model.Role, error) {
	return findOne[model.Role](ctx, s.col(ColRoles), bson.D{{Key: "_id", Value: id}})
}

// GetRoleByName fetches a role by its exact name.
func (s *Store) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return findOne[model.Role](ctx, s.col(ColRoles), bson.D{{Key: "name", Value: name}})
}

// ListRoles returns a page of roles plus the total count.
func (s *Store) ListRoles(ctx context.Context, params ListParams) ([]model.Role, int64, error) {
	filter := searchFilter(bson.D{}, "name", params.Search)
	roles, err := findPage[model.Role](ctx, s.col(ColRoles), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColRoles), filter)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// AllRoles returns every role, for form option lists.
func (s *Store) AllRoles(ctx context.Context) ([]model.Role, error) {
	return findMany[model.Role](ctx, s.col(ColRoles), bson.D{})
}

// UpdateRole replaces a role document.
func (s *Store) UpdateRole(ctx context.Context, role *model.Role) error {
	role.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColRoles), role.ID, role)
}

// DeleteRole removes a role permanently. Fails when users still reference it.
func (s *Store) DeleteRole(ctx context.Context, id string) error {
	n, err := s.CountUsersWithRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("role is assigned to %d user(s)", n)
	}
	return deleteByID(ctx, s.col(ColRoles), id)
}

// CreatePermission inserts a new permission.
func (s *Store) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return insertOne(ctx, s.col(ColPermissions), perm)
}

// GetPermissionByID fetches a permission by id.
func (s *Store) GetPermissionByID(ctx context.Context, id string) (*model.Permission, error) {
	return findOne[model.Permission](ctx, s.col(ColPermissions), bson.D{{Key: "_id", Value: id}})
}

// ListPermissions returns a page of permissions plus the total count.
func (s *Store) ListPermissions(ctx context.Context, params ListParams) ([]model.Permission, int64, error) {
	filter := searchFilter(bson.D{}, "resource", params.Search)
	perms, err := findPage[model.Permission](ctx, s.col(ColPermissions), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColPermissions), filter)
	if err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

// AllPermissions returns every permission, for role form checkboxes.
func (s *Store) AllPermissions(ctx context.Context) ([]model.Permission, error) {
	return findMany[model.Permission](ctx, s.col(ColPermissions), bson.D{})
}

// UpdatePermission replaces a permission document.
func (s *Store) UpdatePermission(ctx context.Context, perm *model.Permission) error {
	perm.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColPermissions), perm.ID, perm)
}

// DeletePermission removes a permission permanently.
func (s *Store) DeletePermission(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColPermissions), id)
}

// PermissionsForUser resolves a user's role and its permission set in a
// single composed lookup (user → role → permissions). Authorization is
// evaluated per request; results are never cached.
func (s *Store) PermissionsForUser(ctx context.Context, userID string) (*model.Role, []model.Permission, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving user: %w", err)
	}

	role, err := s.GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving role: %w", err)
	}

	if len(role.PermissionIDs) == 0 {
		return role, nil, nil
	}

	perms, err := findMany[model.Permission](ctx, s.col(ColPermissions),
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: role.PermissionIDs}}}})
	if err != nil {
		return nil, nil, fmt.Errorf("resolving permissions: %w", err)
	}

	return role, perms, nil
}
