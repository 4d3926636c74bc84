// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mirelo-dev/canopy/internal/model"
)

// CreateUser inserts a new user. The email is stored lower-cased.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return insertOne(ctx, s.col(ColUsers), user)
}

// GetUserByID fetches a user by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

// GetUserByEmail fetches a user by lower-cased email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

// ListUsers returns a page of users plus the total count.
func (s *Store) ListUsers(ctx context.Context, params ListParams) ([]model.User, int64, error) {
	filter := searchFilter(bson.D{}, "name", params.Search)
	users, err := findPage[model.User](ctx, s.col(ColUsers), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColUsers), filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser replaces a user document.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColUsers), user.ID, user)
}

// UpdateUserPassword sets a new password hash for the user.
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "password_hash", Value: passwordHash},
		{Key: "updated_at", Value: time.Now()},
	})
}

// UpdateUserLastLogin records a successful login.
func (s *Store) UpdateUserLastLogin(ctx context.Context, id string, at time.Time) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "last_login_at", Value: at},
	})
}

// DeleteUser removes a user permanently.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColUsers), id)
}

// CountUsersWithRole counts users referencing the given role. Used to block
// deleting a role that is still assigned.
func (s *Store) CountUsersWithRole(ctx context.Context, roleID string) (int64, error) {
	return countDocs(ctx, s.col(ColUsers), bson.D{{Key: "role_id", Value: roleID}})
}
