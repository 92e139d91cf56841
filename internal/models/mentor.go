package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// Mentor is the teaching profile attached to a user account. Each user owns
// at most one mentor profile.
type Mentor struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Specialization  []string        `json:"specialization"`
	ExperienceYears int             `json:"experience_years"`
	Qualifications  []string        `json:"qualifications"`
	AssignedCourses []string        `json:"assigned_courses"`
	AvailableHours  []timeslot.Slot `json:"available_hours"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	Bio             string          `json:"bio"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the mentor.
func (m Mentor) Clone() Mentor {
	cp := m
	cp.Specialization = cloneIDs(m.Specialization)
	cp.Qualifications = cloneIDs(m.Qualifications)
	cp.AssignedCourses = cloneIDs(m.AssignedCourses)
	cp.AvailableHours = timeslot.Clone(m.AvailableHours)
	if cp.AvailableHours == nil {
		cp.AvailableHours = []timeslot.Slot{}
	}
	return cp
}

// IsAssigned reports whether courseID is in the mentor's assigned set.
func (m Mentor) IsAssigned(courseID string) bool {
	return containsID(m.AssignedCourses, courseID)
}
