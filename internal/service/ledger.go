package service

import (
	"context"
	"time"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

// ledgerStore is the transactional state every ledger service works on.
type ledgerStore interface {
	View(ctx context.Context, fn func(tx repository.ReadTx) error) error
	Update(ctx context.Context, fn func(tx *repository.Tx) error) error
}

type ledgerMetrics interface {
	ObserveLedgerOperation(operation string, err error, duration time.Duration)
}

type noopLedgerMetrics struct{}

func (noopLedgerMetrics) ObserveLedgerOperation(string, error, time.Duration) {}

func metricsOrNoop(m ledgerMetrics) ledgerMetrics {
	if m == nil {
		return noopLedgerMetrics{}
	}
	return m
}

func studentNotFound() error   { return appErrors.Clone(appErrors.ErrNotFound, "student not found") }
func courseNotFound() error    { return appErrors.Clone(appErrors.ErrNotFound, "course not found") }
func mentorNotFound() error    { return appErrors.Clone(appErrors.ErrNotFound, "mentor not found") }
func classroomNotFound() error { return appErrors.Clone(appErrors.ErrNotFound, "classroom not found") }
func invoiceNotFound() error   { return appErrors.Clone(appErrors.ErrNotFound, "invoice not found") }

func loadStudent(tx repository.ReadTx, id string) (models.Student, error) {
	student, ok := tx.Student(id)
	if !ok {
		return models.Student{}, studentNotFound()
	}
	return student, nil
}

func loadCourse(tx repository.ReadTx, id string) (models.Course, error) {
	course, ok := tx.Course(id)
	if !ok {
		return models.Course{}, courseNotFound()
	}
	return course, nil
}

func loadMentor(tx repository.ReadTx, id string) (models.Mentor, error) {
	mentor, ok := tx.Mentor(id)
	if !ok {
		return models.Mentor{}, mentorNotFound()
	}
	return mentor, nil
}

func loadClassroom(tx repository.ReadTx, id string) (models.Classroom, error) {
	classroom, ok := tx.Classroom(id)
	if !ok {
		return models.Classroom{}, classroomNotFound()
	}
	return classroom, nil
}

func loadInvoice(tx repository.ReadTx, id string) (models.Invoice, error) {
	invoice, ok := tx.Invoice(id)
	if !ok {
		return models.Invoice{}, invoiceNotFound()
	}
	return invoice, nil
}

// setRoster replaces the course roster and keeps the head count in sync.
func setRoster(course *models.Course, roster []string) {
	course.EnrolledStudents = roster
	course.CurrentStudents = len(roster)
}

// detachStudent removes the student from every course roster it appears in.
func detachStudent(tx *repository.Tx, student models.Student, now time.Time) {
	for _, courseID := range student.EnrolledCourses {
		course, ok := tx.Course(courseID)
		if !ok {
			continue
		}
		setRoster(&course, models.RemoveID(course.EnrolledStudents, student.ID))
		course.UpdatedAt = now
		tx.PutCourse(course)
	}
}

// detachCourse removes the course from every enrolled student and from its
// mentor's assigned set.
func detachCourse(tx *repository.Tx, course models.Course, now time.Time) {
	for _, studentID := range course.EnrolledStudents {
		student, ok := tx.Student(studentID)
		if !ok {
			continue
		}
		student.EnrolledCourses = models.RemoveID(student.EnrolledCourses, course.ID)
		student.UpdatedAt = now
		tx.PutStudent(student)
	}
	if course.MentorID == "" {
		return
	}
	if mentor, ok := tx.Mentor(course.MentorID); ok {
		mentor.AssignedCourses = models.RemoveID(mentor.AssignedCourses, course.ID)
		mentor.UpdatedAt = now
		tx.PutMentor(mentor)
	}
}
