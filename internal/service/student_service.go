package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// CreateStudentRequest describes a new student. Enrollments are managed
// through the enrollment endpoints only.
type CreateStudentRequest struct {
	ParentID         string                  `json:"parent_id" validate:"required"`
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	DateOfBirth      *time.Time              `json:"date_of_birth"`
	Email            string                  `json:"email" validate:"omitempty,email"`
	Phone            string                  `json:"phone"`
	Address          string                  `json:"address"`
	EmergencyContact models.EmergencyContact `json:"emergency_contact"`
	AcademicLevel    string                  `json:"academic_level"`
	IsActive         *bool                   `json:"is_active"`
}

// UpdateStudentRequest carries a partial student update.
type UpdateStudentRequest struct {
	ParentID         *string                  `json:"parent_id" validate:"omitempty,min=1"`
	FirstName        *string                  `json:"first_name" validate:"omitempty,min=1"`
	LastName         *string                  `json:"last_name" validate:"omitempty,min=1"`
	DateOfBirth      *time.Time               `json:"date_of_birth"`
	Email            *string                  `json:"email" validate:"omitempty,email"`
	Phone            *string                  `json:"phone"`
	Address          *string                  `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact"`
	AcademicLevel    *string                  `json:"academic_level"`
	IsActive         *bool                    `json:"is_active"`
}

// StudentService manages student records.
type StudentService struct {
	store     ledgerStore
	validator *validator.Validate
	metrics   ledgerMetrics
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(store ledgerStore, validate *validator.Validate, metrics ledgerMetrics, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: validate, metrics: metricsOrNoop(metrics), logger: logger}
}

// Create registers a student with an empty enrollment set.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var created models.Student
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		now := tx.Now()
		created = models.Student{
			ID:               tx.NewID(),
			ParentID:         req.ParentID,
			FirstName:        strings.TrimSpace(req.FirstName),
			LastName:         strings.TrimSpace(req.LastName),
			DateOfBirth:      req.DateOfBirth,
			Email:            req.Email,
			Phone:            req.Phone,
			Address:          req.Address,
			EmergencyContact: req.EmergencyContact,
			AcademicLevel:    req.AcademicLevel,
			EnrolledCourses:  []string{},
			IsActive:         active,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		tx.PutStudent(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", created.ID))
	return &created, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		var err error
		student, err = loadStudent(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students matching the filter in creation order.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students := []models.Student{}
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		for _, student := range tx.Students() {
			if filter.Matches(student) {
				students = append(students, student)
			}
		}
		return nil
	})
	return students, err
}

// Update applies a partial update.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	var updated models.Student
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		student, err := loadStudent(tx.ReadTx, id)
		if err != nil {
			return err
		}
		if req.ParentID != nil {
			student.ParentID = *req.ParentID
		}
		if req.FirstName != nil {
			student.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			student.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.DateOfBirth != nil {
			student.DateOfBirth = req.DateOfBirth
		}
		if req.Email != nil {
			student.Email = *req.Email
		}
		if req.Phone != nil {
			student.Phone = *req.Phone
		}
		if req.Address != nil {
			student.Address = *req.Address
		}
		if req.EmergencyContact != nil {
			student.EmergencyContact = *req.EmergencyContact
		}
		if req.AcademicLevel != nil {
			student.AcademicLevel = *req.AcademicLevel
		}
		if req.IsActive != nil {
			student.IsActive = *req.IsActive
		}
		student.UpdatedAt = tx.Now()
		tx.PutStudent(student)
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the student after detaching it from every course roster.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		student, err := loadStudent(tx.ReadTx, id)
		if err != nil {
			return err
		}
		detachStudent(tx, student, tx.Now())
		tx.DeleteStudent(id)
		return nil
	})
	s.metrics.ObserveLedgerOperation("delete_student", err, time.Since(start))
	if err != nil {
		return err
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}
