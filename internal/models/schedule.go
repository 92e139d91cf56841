package models

import "github.com/noah-isme/academy-ledger-api/pkg/timeslot"

// ConflictCheck describes a candidate schedule for a classroom. ExcludeCourseID
// skips the course being edited in place.
type ConflictCheck struct {
	ClassroomID     string          `json:"classroom_id"`
	Slots           []timeslot.Slot `json:"slots" validate:"required,min=1,dive"`
	ExcludeCourseID string          `json:"exclude_course_id,omitempty"`
}

// ConflictReport is the result of a schedule conflict check.
type ConflictReport struct {
	HasConflict        bool     `json:"has_conflict"`
	ConflictingCourses []Course `json:"conflicting_courses"`
}

// AvailabilityQuery asks whether a classroom is free in a weekly window.
type AvailabilityQuery struct {
	ClassroomID string `form:"-" json:"classroom_id"`
	DayOfWeek   int    `form:"day" json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `form:"start" json:"start_time" validate:"required,clock"`
	EndTime     string `form:"end" json:"end_time" validate:"required,clock"`
}

// Availability is the answer to an AvailabilityQuery.
type Availability struct {
	ClassroomID string `json:"classroom_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Available   bool   `json:"available"`
}
