// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Employment types for careers.
const (
	EmploymentFullTime = "full-time"
	EmploymentPartTime = "part-time"
	EmploymentContract = "contract"
	EmploymentIntern   = "internship"
)

// EmploymentTypes lists all valid employment type values.
var EmploymentTypes = []string{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern,
}

// Career represents a job posting.
type Career struct {
	ID             string     `bson:"_id" json:"id"`
	Title          string     `bson:"title" json:"title"`
	Slug           string     `bson:"slug" json:"slug"`
	Location       string     `bson:"location,omitempty" json:"location,omitempty"`
	EmploymentType string     `bson:"employment_type,omitempty" json:"employment_type,omitempty"`
	Description    string     `bson:"description" json:"description"`
	ClosingDate    *time.Time `bson:"closing_date,omitempty" json:"closing_date,omitempty"`
	ShowStatus     bool       `bson:"show_status" json:"show_status"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// IsOpen reports whether applications are still accepted for this posting.
func (c *Career) IsOpen(now time.Time) bool {
	if !c.ShowStatus {
		return false
	}
	return c.ClosingDate == nil || now.Before(*c.ClosingDate)
}

// JobApplication is a public submission against a Career posting.
type JobApplication struct {
	ID        string     `bson:"_id" json:"id"`
	CareerID  string     `bson:"career_id" json:"career_id"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Message   string     `bson:"message,omitempty" json:"message,omitempty"`
	Resume    string     `bson:"resume,omitempty" json:"resume,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
