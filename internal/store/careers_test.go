// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comparison operators never match documents missing the field, so the
// open-careers filter must carry an $exists:false branch for postings
// saved without a closing date.
func TestOpenCareersFilterMatchesMissingClosingDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	filter := openCareersFilter(now)

	var or bson.A
	for _, e := range filter {
		if e.Key == "$or" {
			or = e.Value.(bson.A)
		}
	}
	require.Len(t, or, 2, "filter must accept both absent and future closing dates")

	absent := or[0].(bson.D)
	require.Equal(t, "closing_date", absent[0].Key)
	require.Equal(t, bson.D{{Key: "$exists", Value: false}}, absent[0].Value)

	future := or[1].(bson.D)
	require.Equal(t, "closing_date", future[0].Key)
	require.Equal(t, bson.D{{Key: "$gte", Value: now}}, future[0].Value)
}
