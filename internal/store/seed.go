// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirelo-dev/canopy/internal/model"
)

// Seed populates an empty database with the permission matrix, the Admin
// role and the initial administrator account. It is idempotent: existing
// documents are left alone, so it is safe to run on every startup.
func (s *Store) Seed(ctx context.Context, adminEmail, adminPasswordHash string) error {
	permIDs, err := s.seedPermissions(ctx)
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}

	role, err := s.seedAdminRole(ctx, permIDs)
	if err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}

	if adminEmail != "" && adminPasswordHash != "" {
		if err := s.seedAdminUser(ctx, role.ID, adminEmail, adminPasswordHash); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
	}
	return nil
}

// seedPermissions ensures one permission per (resource, action) pair and
// returns the ids of the full matrix.
func (s *Store) seedPermissions(ctx context.Context) ([]string, error) {
	existing, err := s.AllPermissions(ctx)
	if err != nil {
		return nil, err
	}
	byPair := make(map[string]string, len(existing))
	for _, p := range existing {
		byPair[p.Resource+"\x00"+p.Action] = p.ID
	}

	now := time.Now()
	ids := make([]string, 0, len(model.Resources)*len(model.Actions))
	for _, resource := range model.Resources {
		for _, action := range model.Actions {
			if id, ok := byPair[resource+"\x00"+action]; ok {
				ids = append(ids, id)
				continue
			}
			p := &model.Permission{
				ID:        NewID(),
				Resource:  resource,
				Action:    action,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.CreatePermission(ctx, p); err != nil {
				return nil, err
			}
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// seedAdminRole ensures the Admin role exists. The role name alone grants
// full access, but the full permission set is attached anyway so the role
// reads sensibly in the console.
func (s *Store) seedAdminRole(ctx context.Context, permIDs []string) (*model.Role, error) {
	role, err := s.GetRoleByName(ctx, model.RoleAdmin)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	role = &model.Role{
		ID:            NewID(),
		Name:          model.RoleAdmin,
		PermissionIDs: permIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Store) seedAdminUser(ctx context.Context, roleID, email, passwordHash string) error {
	_, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	now := time.Now()
	return s.CreateUser(ctx, &model.User{
		ID:           NewID(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
