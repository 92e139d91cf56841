package models

import "time"

// EmergencyContact is the person to call on behalf of a student.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Student represents a learner owned by a parent account.
type Student struct {
	ID               string           `json:"id"`
	ParentID         string           `json:"parent_id"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	AcademicLevel    string           `json:"academic_level"`
	EnrolledCourses  []string         `json:"enrolled_courses"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	cp := s
	cp.EnrolledCourses = cloneIDs(s.EnrolledCourses)
	if s.DateOfBirth != nil {
		dob := *s.DateOfBirth
		cp.DateOfBirth = &dob
	}
	return cp
}

// IsEnrolledIn reports whether courseID is in the student's enrolled set.
func (s Student) IsEnrolledIn(courseID string) bool {
	return containsID(s.EnrolledCourses, courseID)
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	ParentID string
	CourseID string
	Active   *bool
}

// Matches reports whether the student satisfies the filter.
func (f StudentFilter) Matches(s Student) bool {
	if f.ParentID != "" && s.ParentID != f.ParentID {
		return false
	}
	if f.CourseID != "" && !s.IsEnrolledIn(f.CourseID) {
		return false
	}
	if f.Active != nil && s.IsActive != *f.Active {
		return false
	}
	return true
}
