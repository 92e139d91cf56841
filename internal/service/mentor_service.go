package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// CreateMentorRequest describes a new mentor profile.
type CreateMentorRequest struct {
	UserID          string          `json:"user_id" validate:"required"`
	Specialization  []string        `json:"specialization"`
	ExperienceYears int             `json:"experience_years" validate:"min=0"`
	Qualifications  []string        `json:"qualifications"`
	AvailableHours  []timeslot.Slot `json:"available_hours"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	Bio             string          `json:"bio"`
	IsActive        *bool           `json:"is_active"`
}

// UpdateMentorRequest carries a partial mentor update. Assigned courses are
// managed through the assignment endpoints only.
type UpdateMentorRequest struct {
	Specialization  *[]string        `json:"specialization"`
	ExperienceYears *int             `json:"experience_years" validate:"omitempty,min=0"`
	Qualifications  *[]string        `json:"qualifications"`
	AvailableHours  *[]timeslot.Slot `json:"available_hours"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate"`
	Bio             *string          `json:"bio"`
	IsActive        *bool            `json:"is_active"`
}

// MentorService manages mentor profiles.
type MentorService struct {
	store     ledgerStore
	validator *validator.Validate
	metrics   ledgerMetrics
	logger    *zap.Logger
}

// NewMentorService constructs MentorService.
func NewMentorService(store ledgerStore, validate *validator.Validate, metrics ledgerMetrics, logger *zap.Logger) *MentorService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{store: store, validator: validate, metrics: metricsOrNoop(metrics), logger: logger}
}

// Create registers a mentor profile. A user may own only one profile.
func (s *MentorService) Create(ctx context.Context, req CreateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid mentor payload")
	}
	if err := timeslot.ValidateAll(req.AvailableHours); err != nil {
		return nil, appErrors.Validation(err, "invalid available hours")
	}
	if req.HourlyRate.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "hourly rate must not be negative")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var created models.Mentor
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		if _, exists := tx.MentorByUserID(req.UserID); exists {
			return appErrors.Clone(appErrors.ErrConflict, "user already has a mentor profile")
		}
		now := tx.Now()
		created = models.Mentor{
			ID:              tx.NewID(),
			UserID:          req.UserID,
			Specialization:  append([]string{}, req.Specialization...),
			ExperienceYears: req.ExperienceYears,
			Qualifications:  append([]string{}, req.Qualifications...),
			AssignedCourses: []string{},
			AvailableHours:  timeslot.Clone(req.AvailableHours),
			HourlyRate:      req.HourlyRate,
			Bio:             req.Bio,
			IsActive:        active,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		tx.PutMentor(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("mentor created", zap.String("mentor_id", created.ID), zap.String("user_id", created.UserID))
	return &created, nil
}

// Get returns a mentor by id.
func (s *MentorService) Get(ctx context.Context, id string) (*models.Mentor, error) {
	var mentor models.Mentor
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		var err error
		mentor, err = loadMentor(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &mentor, nil
}

// GetByUserID returns the mentor profile owned by userID.
func (s *MentorService) GetByUserID(ctx context.Context, userID string) (*models.Mentor, error) {
	var mentor models.Mentor
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		found, ok := tx.MentorByUserID(userID)
		if !ok {
			return mentorNotFound()
		}
		mentor = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mentor, nil
}

// List returns every mentor in creation order.
func (s *MentorService) List(ctx context.Context) ([]models.Mentor, error) {
	var mentors []models.Mentor
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		mentors = tx.Mentors()
		return nil
	})
	return mentors, err
}

// Update applies a partial update.
func (s *MentorService) Update(ctx context.Context, id string, req UpdateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid mentor payload")
	}
	if req.AvailableHours != nil {
		if err := timeslot.ValidateAll(*req.AvailableHours); err != nil {
			return nil, appErrors.Validation(err, "invalid available hours")
		}
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "hourly rate must not be negative")
	}

	var updated models.Mentor
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		mentor, err := loadMentor(tx.ReadTx, id)
		if err != nil {
			return err
		}
		if req.Specialization != nil {
			mentor.Specialization = append([]string{}, (*req.Specialization)...)
		}
		if req.ExperienceYears != nil {
			mentor.ExperienceYears = *req.ExperienceYears
		}
		if req.Qualifications != nil {
			mentor.Qualifications = append([]string{}, (*req.Qualifications)...)
		}
		if req.AvailableHours != nil {
			mentor.AvailableHours = timeslot.Clone(*req.AvailableHours)
		}
		if req.HourlyRate != nil {
			mentor.HourlyRate = *req.HourlyRate
		}
		if req.Bio != nil {
			mentor.Bio = *req.Bio
		}
		if req.IsActive != nil {
			mentor.IsActive = *req.IsActive
		}
		mentor.UpdatedAt = tx.Now()
		tx.PutMentor(mentor)
		updated = mentor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the mentor. Every course it led loses its mentor and is
// marked inactive first.
func (s *MentorService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	var released []string
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		mentor, err := loadMentor(tx.ReadTx, id)
		if err != nil {
			return err
		}
		now := tx.Now()
		for _, courseID := range mentor.AssignedCourses {
			course, ok := tx.Course(courseID)
			if !ok || course.MentorID != id {
				continue
			}
			course.MentorID = ""
			course.Status = models.CourseStatusInactive
			course.UpdatedAt = now
			tx.PutCourse(course)
			released = append(released, courseID)
		}
		tx.DeleteMentor(id)
		return nil
	})
	s.metrics.ObserveLedgerOperation("delete_mentor", err, time.Since(start))
	if err != nil {
		return err
	}
	s.logger.Info("mentor deleted", zap.String("mentor_id", id), zap.Strings("released_courses", released))
	return nil
}
