package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

// AssignmentService keeps mentor.AssignedCourses and course.MentorID in step.
// Assignment does not look at the mentor's available hours or other courses.
type AssignmentService struct {
	store   ledgerStore
	metrics ledgerMetrics
	logger  *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(store ledgerStore, metrics ledgerMetrics, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{store: store, metrics: metricsOrNoop(metrics), logger: logger}
}

// Assign makes mentorID the mentor of courseID.
func (s *AssignmentService) Assign(ctx context.Context, mentorID, courseID string) (*models.Mentor, error) {
	start := time.Now()
	var result models.Mentor
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		mentor, err := loadMentor(tx.ReadTx, mentorID)
		if err != nil {
			return err
		}
		course, err := loadCourse(tx.ReadTx, courseID)
		if err != nil {
			return err
		}
		if mentor.IsAssigned(courseID) {
			return appErrors.Clone(appErrors.ErrAlreadyAssigned, "")
		}
		result = assign(tx, mentor, course)
		return nil
	})
	s.metrics.ObserveLedgerOperation("assign", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("course assigned", zap.String("mentor_id", mentorID), zap.String("course_id", courseID))
	return &result, nil
}

// Unassign detaches courseID from mentorID. The course is left without a
// mentor and marked inactive, unless it already names a different mentor,
// in which case only mentorID's side is cleaned up.
func (s *AssignmentService) Unassign(ctx context.Context, mentorID, courseID string) (*models.Mentor, error) {
	start := time.Now()
	var result models.Mentor
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		mentor, err := loadMentor(tx.ReadTx, mentorID)
		if err != nil {
			return err
		}
		course, err := loadCourse(tx.ReadTx, courseID)
		if err != nil {
			return err
		}
		now := tx.Now()

		mentor.AssignedCourses = models.RemoveID(mentor.AssignedCourses, courseID)
		mentor.UpdatedAt = now
		tx.PutMentor(mentor)

		// Another mentor's link must survive a stale unassign.
		if course.MentorID == mentorID || course.MentorID == "" {
			course.MentorID = ""
			course.Status = models.CourseStatusInactive
			course.UpdatedAt = now
			tx.PutCourse(course)
		}
		result = mentor
		return nil
	})
	s.metrics.ObserveLedgerOperation("unassign", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("course unassigned", zap.String("mentor_id", mentorID), zap.String("course_id", courseID))
	return &result, nil
}

// assign links mentor and course, first releasing the course from any
// previous mentor. Course status is not touched.
func assign(tx *repository.Tx, mentor models.Mentor, course models.Course) models.Mentor {
	now := tx.Now()
	if course.MentorID != "" && course.MentorID != mentor.ID {
		releaseFromMentor(tx, course.MentorID, course.ID, now)
	}
	mentor.AssignedCourses = models.AddID(mentor.AssignedCourses, course.ID)
	mentor.UpdatedAt = now
	tx.PutMentor(mentor)

	course.MentorID = mentor.ID
	course.UpdatedAt = now
	tx.PutCourse(course)
	return mentor
}

func releaseFromMentor(tx *repository.Tx, mentorID, courseID string, now time.Time) {
	previous, ok := tx.Mentor(mentorID)
	if !ok {
		return
	}
	previous.AssignedCourses = models.RemoveID(previous.AssignedCourses, courseID)
	previous.UpdatedAt = now
	tx.PutMentor(previous)
}
