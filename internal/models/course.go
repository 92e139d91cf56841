package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// CourseStatus represents the lifecycle of a course offering.
type CourseStatus string

// Possible course statuses.
const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusInactive  CourseStatus = "inactive"
	CourseStatusSuspended CourseStatus = "suspended"
)

// Valid reports whether the status is one of the known values.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusActive, CourseStatusInactive, CourseStatusSuspended:
		return true
	}
	return false
}

// CourseLevel is the difficulty band of a course.
type CourseLevel string

// Known course levels.
const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// Course is a scheduled offering held in a classroom and led by a mentor.
// MentorID is empty when the course is unassigned. CurrentStudents always
// equals len(EnrolledStudents).
type Course struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	MentorID         string          `json:"mentor_id"`
	ClassroomID      string          `json:"classroom_id"`
	DurationWeeks    int             `json:"duration_weeks"`
	MaxStudents      int             `json:"max_students"`
	CurrentStudents  int             `json:"current_students"`
	EnrolledStudents []string        `json:"enrolled_students"`
	Schedule         []timeslot.Slot `json:"schedule"`
	Price            decimal.Decimal `json:"price"`
	Level            CourseLevel     `json:"level"`
	Category         string          `json:"category"`
	Status           CourseStatus    `json:"status"`
	StartDate        *time.Time      `json:"start_date,omitempty"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	cp := c
	cp.EnrolledStudents = cloneIDs(c.EnrolledStudents)
	cp.Schedule = timeslot.Clone(c.Schedule)
	if cp.Schedule == nil {
		cp.Schedule = []timeslot.Slot{}
	}
	if c.StartDate != nil {
		start := *c.StartDate
		cp.StartDate = &start
	}
	if c.EndDate != nil {
		end := *c.EndDate
		cp.EndDate = &end
	}
	return cp
}

// HasStudent reports whether studentID is in the course roster.
func (c Course) HasStudent(studentID string) bool {
	return containsID(c.EnrolledStudents, studentID)
}

// IsFull reports whether the capacity invariant blocks another enrollment.
func (c Course) IsFull() bool {
	return c.CurrentStudents >= c.MaxStudents
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	MentorID    string
	StudentID   string
	ClassroomID string
	Status      CourseStatus
}

// Matches reports whether the course satisfies the filter.
func (f CourseFilter) Matches(c Course) bool {
	if f.MentorID != "" && c.MentorID != f.MentorID {
		return false
	}
	if f.StudentID != "" && !c.HasStudent(f.StudentID) {
		return false
	}
	if f.ClassroomID != "" && c.ClassroomID != f.ClassroomID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}
