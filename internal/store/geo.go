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

// CreateCountry inserts a new country. Codes are stored upper-case.
func (s *Store) CreateCountry(ctx context.Context, c *model.Country) error {
	c.Code = strings.ToUpper(c.Code)
	return insertOne(ctx, s.col(ColCountries), c)
}

// GetCountryByID fetches a country by id.
func (s *Store) GetCountryByID(ctx context.Context, id string) (*model.Country, error) {
	return findOne[model.Country](ctx, s.col(ColCountries),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// GetCountryByCode fetches a country by its ISO code, case-insensitively.
func (s *Store) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	return findOne[model.Country](ctx, s.col(ColCountries),
		notDeleted(bson.D{{Key: "code", Value: strings.ToUpper(code)}}))
}

// ListCountries returns a page of countries plus the total count.
func (s *Store) ListCountries(ctx context.Context, params ListParams) ([]model.Country, int64, error) {
	filter := searchFilter(notDeleted(bson.D{}), "name", params.Search)
	countries, err := findPage[model.Country](ctx, s.col(ColCountries), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColCountries), filter)
	if err != nil {
		return nil, 0, err
	}
	return countries, total, nil
}

// AllCountries returns every live country, for form option lists.
func (s *Store) AllCountries(ctx context.Context) ([]model.Country, error) {
	return findMany[model.Country](ctx, s.col(ColCountries), notDeleted(bson.D{}))
}

// UpdateCountry replaces a country document.
func (s *Store) UpdateCountry(ctx context.Context, c *model.Country) error {
	c.Code = strings.ToUpper(c.Code)
	c.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColCountries), c.ID, c)
}

// DeleteCountry soft-deletes a country.
func (s *Store) DeleteCountry(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColCountries), id)
}

// DeleteCountries soft-deletes a batch of countries.
func (s *Store) DeleteCountries(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColCountries), ids)
}

// CreateState inserts a new state.
func (s *Store) CreateState(ctx context.Context, st *model.State) error {
	return insertOne(ctx, s.col(ColStates), st)
}

// GetStateByID fetches a state by id.
func (s *Store) GetStateByID(ctx context.Context, id string) (*model.State, error) {
	return findOne[model.State](ctx, s.col(ColStates),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// ListStates returns a page of states plus the total count. CountryID
// filters by parent country when non-empty.
func (s *Store) ListStates(ctx context.Context, params ListParams, countryID string) ([]model.State, int64, error) {
	filter := notDeleted(bson.D{})
	if countryID != "" {
		filter = append(filter, bson.E{Key: "country_id", Value: countryID})
	}
	filter = searchFilter(filter, "name", params.Search)
	states, err := findPage[model.State](ctx, s.col(ColStates), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColStates), filter)
	if err != nil {
		return nil, 0, err
	}
	return states, total, nil
}

// StatesForCountry returns every live state of a country.
func (s *Store) StatesForCountry(ctx context.Context, countryID string) ([]model.State, error) {
	return findMany[model.State](ctx, s.col(ColStates),
		notDeleted(bson.D{{Key: "country_id", Value: countryID}}))
}

// UpdateState replaces a state document.
func (s *Store) UpdateState(ctx context.Context, st *model.State) error {
	st.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColStates), st.ID, st)
}

// DeleteState soft-deletes a state.
func (s *Store) DeleteState(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColStates), id)
}

// DeleteStates soft-deletes a batch of states.
func (s *Store) DeleteStates(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColStates), ids)
}

// CreateCity inserts a new city.
func (s *Store) CreateCity(ctx context.Context, c *model.City) error {
	return insertOne(ctx, s.col(ColCities), c)
}

// GetCityByID fetches a city by id.
func (s *Store) GetCityByID(ctx context.Context, id string) (*model.City, error) {
	return findOne[model.City](ctx, s.col(ColCities),
		notDeleted(bson.D{{Key: "_id", Value: id}}))
}

// ListCities returns a page of cities plus the total count. StateID
// filters by parent state when non-empty.
func (s *Store) ListCities(ctx context.Context, params ListParams, stateID string) ([]model.City, int64, error) {
	filter := notDeleted(bson.D{})
	if stateID != "" {
		filter = append(filter, bson.E{Key: "state_id", Value: stateID})
	}
	filter = searchFilter(filter, "name", params.Search)
	cities, err := findPage[model.City](ctx, s.col(ColCities), filter, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := countDocs(ctx, s.col(ColCities), filter)
	if err != nil {
		return nil, 0, err
	}
	return cities, total, nil
}

// CitiesForState returns every live city of a state.
func (s *Store) CitiesForState(ctx context.Context, stateID string) ([]model.City, error) {
	return findMany[model.City](ctx, s.col(ColCities),
		notDeleted(bson.D{{Key: "state_id", Value: stateID}}))
}

// UpdateCity replaces a city document.
func (s *Store) UpdateCity(ctx context.Context, c *model.City) error {
	c.UpdatedAt = time.Now()
	return replaceByID(ctx, s.col(ColCities), c.ID, c)
}

// DeleteCity soft-deletes a city.
func (s *Store) DeleteCity(ctx context.Context, id string) error {
	return softDeleteByID(ctx, s.col(ColCities), id)
}

// DeleteCities soft-deletes a batch of cities.
func (s *Store) DeleteCities(ctx context.Context, ids []string) (int64, error) {
	if err := ValidateIDs(ids); err != nil {
		return 0, err
	}
	return softDeleteMany(ctx, s.col(ColCities), ids)
}
