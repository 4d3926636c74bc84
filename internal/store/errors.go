// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store implements the MongoDB persistence layer. Driver errors are
// translated into the domain errors below so handlers never depend on
// mongo-specific error types.
package store

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned on unique index violations.
	ErrDuplicate = errors.New("store: duplicate")

	// ErrInvalidID is returned when an id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("store: invalid id")
)
