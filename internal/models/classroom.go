package models

import (
	"time"

	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// Classroom is a physical room courses are held in.
type Classroom struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Equipment   []string  `json:"equipment"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the classroom.
func (c Classroom) Clone() Classroom {
	cp := c
	cp.Equipment = cloneIDs(c.Equipment)
	return cp
}

// ClassroomScheduleEntry is one published weekly slot of a classroom,
// derived from a course that references the room.
type ClassroomScheduleEntry struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroom_id"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	MentorID    string `json:"mentor_id,omitempty"`
	timeslot.Slot
	IsRecurring bool `json:"is_recurring"`
}
