package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

// EnrollmentService keeps student.EnrolledCourses and course.EnrolledStudents
// in step. Every mutation touches both sides inside one store transaction.
type EnrollmentService struct {
	store   ledgerStore
	metrics ledgerMetrics
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(store ledgerStore, metrics ledgerMetrics, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: store, metrics: metricsOrNoop(metrics), logger: logger}
}

// Enroll adds the student to the course roster.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Student, error) {
	start := time.Now()
	var result models.Student
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		student, err := enroll(tx, studentID, courseID)
		if err != nil {
			return err
		}
		result = student
		return nil
	})
	s.metrics.ObserveLedgerOperation("enroll", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("course_id", courseID))
	return &result, nil
}

// Unenroll removes the student from the course roster. Unenrolling a student
// who is not on the roster succeeds without changes to either set.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID string) (*models.Student, error) {
	start := time.Now()
	var result models.Student
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		student, err := loadStudent(tx.ReadTx, studentID)
		if err != nil {
			return err
		}
		course, err := loadCourse(tx.ReadTx, courseID)
		if err != nil {
			return err
		}
		now := tx.Now()

		student.EnrolledCourses = models.RemoveID(student.EnrolledCourses, courseID)
		student.UpdatedAt = now
		setRoster(&course, models.RemoveID(course.EnrolledStudents, studentID))
		course.UpdatedAt = now

		tx.PutStudent(student)
		tx.PutCourse(course)
		result = student
		return nil
	})
	s.metrics.ObserveLedgerOperation("unenroll", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("course_id", courseID))
	return &result, nil
}

// BulkEnroll enrolls each student in input order. A failure for one student
// is recorded and does not undo earlier successes.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, courseID string, studentIDs []string) (*models.BulkEnrollResult, error) {
	result := &models.BulkEnrollResult{CourseID: courseID, Succeeded: []string{}, Failed: []models.BulkFailure{}}
	for _, studentID := range studentIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.Enroll(ctx, studentID, courseID); err != nil {
			result.Failed = append(result.Failed, bulkFailure(studentID, err))
			continue
		}
		result.Succeeded = append(result.Succeeded, studentID)
	}
	s.logger.Info("bulk enrollment finished",
		zap.String("course_id", courseID),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func enroll(tx *repository.Tx, studentID, courseID string) (models.Student, error) {
	student, err := loadStudent(tx.ReadTx, studentID)
	if err != nil {
		return models.Student{}, err
	}
	course, err := loadCourse(tx.ReadTx, courseID)
	if err != nil {
		return models.Student{}, err
	}
	if student.IsEnrolledIn(courseID) {
		return models.Student{}, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	}
	if course.IsFull() {
		return models.Student{}, appErrors.Clone(appErrors.ErrCourseFull, "")
	}

	now := tx.Now()
	student.EnrolledCourses = models.AddID(student.EnrolledCourses, courseID)
	student.UpdatedAt = now
	setRoster(&course, models.AddID(course.EnrolledStudents, studentID))
	course.UpdatedAt = now

	tx.PutStudent(student)
	tx.PutCourse(course)
	return student, nil
}

func bulkFailure(id string, err error) models.BulkFailure {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return models.BulkFailure{ID: id, Code: appErrors.ErrInternal.Code, Reason: "unexpected error"}
	}
	failure := models.BulkFailure{ID: id, Code: appErr.Code, Reason: appErr.Message}
	if appErr.Code == appErrors.ErrInternal.Code {
		failure.Reason = "unexpected error"
	}
	return failure
}
