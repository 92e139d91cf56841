package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// CreateCourseRequest describes a new course.
type CreateCourseRequest struct {
	Name          string              `json:"name" validate:"required"`
	Description   string              `json:"description"`
	MentorID      string              `json:"mentor_id"`
	ClassroomID   string              `json:"classroom_id"`
	DurationWeeks int                 `json:"duration_weeks" validate:"min=0"`
	MaxStudents   int                 `json:"max_students" validate:"required,min=1"`
	Schedule      []timeslot.Slot     `json:"schedule"`
	Price         decimal.Decimal     `json:"price"`
	Level         models.CourseLevel  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category      string              `json:"category"`
	Status        models.CourseStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	StartDate     *time.Time          `json:"start_date"`
	EndDate       *time.Time          `json:"end_date"`
}

// UpdateCourseRequest carries a partial course update. The roster is not
// editable here.
type UpdateCourseRequest struct {
	Name          *string              `json:"name" validate:"omitempty,min=1"`
	Description   *string              `json:"description"`
	MentorID      *string              `json:"mentor_id"`
	ClassroomID   *string              `json:"classroom_id"`
	DurationWeeks *int                 `json:"duration_weeks" validate:"omitempty,min=0"`
	MaxStudents   *int                 `json:"max_students" validate:"omitempty,min=1"`
	Schedule      *[]timeslot.Slot     `json:"schedule"`
	Price         *decimal.Decimal     `json:"price"`
	Level         *models.CourseLevel  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Category      *string              `json:"category"`
	Status        *models.CourseStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	StartDate     *time.Time           `json:"start_date"`
	EndDate       *time.Time           `json:"end_date"`
}

// BulkCourseStatusRequest changes the status of several courses.
type BulkCourseStatusRequest struct {
	CourseIDs []string            `json:"course_ids" validate:"required,min=1,dive,required"`
	Status    models.CourseStatus `json:"status" validate:"required,oneof=active inactive suspended"`
}

// CourseService manages course records and their two-sided links.
type CourseService struct {
	store     ledgerStore
	validator *validator.Validate
	metrics   ledgerMetrics
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(store ledgerStore, validate *validator.Validate, metrics ledgerMetrics, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, metrics: metricsOrNoop(metrics), logger: logger}
}

func validateCourseFields(schedule []timeslot.Slot, price decimal.Decimal) error {
	if err := timeslot.ValidateAll(schedule); err != nil {
		return appErrors.Validation(err, "invalid course schedule")
	}
	if price.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "price must not be negative")
	}
	return nil
}

// Create stores a new course with an empty roster. A given mentor is linked
// on both sides.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if err := validateCourseFields(req.Schedule, req.Price); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.CourseStatusActive
	}

	start := time.Now()
	var created models.Course
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		if req.ClassroomID != "" {
			if _, err := loadClassroom(tx.ReadTx, req.ClassroomID); err != nil {
				return err
			}
		}
		var mentor models.Mentor
		if req.MentorID != "" {
			var err error
			if mentor, err = loadMentor(tx.ReadTx, req.MentorID); err != nil {
				return err
			}
		}

		now := tx.Now()
		created = models.Course{
			ID:               tx.NewID(),
			Name:             strings.TrimSpace(req.Name),
			Description:      req.Description,
			ClassroomID:      req.ClassroomID,
			DurationWeeks:    req.DurationWeeks,
			MaxStudents:      req.MaxStudents,
			EnrolledStudents: []string{},
			Schedule:         timeslot.Clone(req.Schedule),
			Price:            req.Price,
			Level:            req.Level,
			Category:         req.Category,
			Status:           status,
			StartDate:        req.StartDate,
			EndDate:          req.EndDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		tx.PutCourse(created)
		if req.MentorID != "" {
			assign(tx, mentor, created)
			created.MentorID = mentor.ID
		}
		return nil
	})
	s.metrics.ObserveLedgerOperation("create_course", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("course_id", created.ID), zap.String("mentor_id", created.MentorID))
	return &created, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		var err error
		course, err = loadCourse(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns courses matching the filter in creation order.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses := []models.Course{}
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		for _, course := range tx.Courses() {
			if filter.Matches(course) {
				courses = append(courses, course)
			}
		}
		return nil
	})
	return courses, err
}

// Update applies a partial update. Changing the mentor moves the course from
// the old mentor's assigned set to the new one without touching its status.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if req.Schedule != nil {
		if err := timeslot.ValidateAll(*req.Schedule); err != nil {
			return nil, appErrors.Validation(err, "invalid course schedule")
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must not be negative")
	}

	start := time.Now()
	var updated models.Course
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		course, err := loadCourse(tx.ReadTx, id)
		if err != nil {
			return err
		}
		if req.MaxStudents != nil && *req.MaxStudents < course.CurrentStudents {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("max_students cannot be lower than the %d enrolled students", course.CurrentStudents))
		}
		if req.ClassroomID != nil && *req.ClassroomID != "" {
			if _, err := loadClassroom(tx.ReadTx, *req.ClassroomID); err != nil {
				return err
			}
		}
		var newMentor *models.Mentor
		if req.MentorID != nil && *req.MentorID != course.MentorID && *req.MentorID != "" {
			mentor, err := loadMentor(tx.ReadTx, *req.MentorID)
			if err != nil {
				return err
			}
			newMentor = &mentor
		}

		now := tx.Now()
		applyCourseUpdate(&course, req)
		course.UpdatedAt = now

		switch {
		case newMentor != nil:
			tx.PutCourse(course)
			assign(tx, *newMentor, course)
			course.MentorID = newMentor.ID
		case req.MentorID != nil && *req.MentorID == "" && course.MentorID != "":
			releaseFromMentor(tx, course.MentorID, course.ID, now)
			course.MentorID = ""
			tx.PutCourse(course)
		default:
			tx.PutCourse(course)
		}
		updated, _ = tx.Course(id)
		return nil
	})
	s.metrics.ObserveLedgerOperation("update_course", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.Info("course updated", zap.String("course_id", id))
	return &updated, nil
}

func applyCourseUpdate(course *models.Course, req UpdateCourseRequest) {
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.ClassroomID != nil {
		course.ClassroomID = *req.ClassroomID
	}
	if req.DurationWeeks != nil {
		course.DurationWeeks = *req.DurationWeeks
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}
	if req.Schedule != nil {
		course.Schedule = timeslot.Clone(*req.Schedule)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.StartDate != nil {
		course.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = req.EndDate
	}
}

// Delete removes the course after detaching it from its students and mentor.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		course, err := loadCourse(tx.ReadTx, id)
		if err != nil {
			return err
		}
		detachCourse(tx, course, tx.Now())
		tx.DeleteCourse(id)
		return nil
	})
	s.metrics.ObserveLedgerOperation("delete_course", err, time.Since(start))
	if err != nil {
		return err
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

// BulkUpdateStatus sets the status of each course in input order. Unknown
// ids are reported and do not stop the remaining updates.
func (s *CourseService) BulkUpdateStatus(ctx context.Context, req BulkCourseStatusRequest) (*models.BulkStatusResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid bulk status payload")
	}
	result := &models.BulkStatusResult{Status: req.Status, Updated: []string{}, Failed: []models.BulkFailure{}}
	for _, id := range req.CourseIDs {
		err := s.store.Update(ctx, func(tx *repository.Tx) error {
			course, err := loadCourse(tx.ReadTx, id)
			if err != nil {
				return err
			}
			course.Status = req.Status
			course.UpdatedAt = tx.Now()
			tx.PutCourse(course)
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, bulkFailure(id, err))
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	s.logger.Info("bulk course status finished",
		zap.String("status", string(req.Status)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
