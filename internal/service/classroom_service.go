package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// CreateClassroomRequest describes a new classroom.
type CreateClassroomRequest struct {
	Name        string   `json:"name" validate:"required"`
	Capacity    int      `json:"capacity" validate:"required,min=1"`
	Equipment   []string `json:"equipment"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateClassroomRequest carries a partial classroom update.
type UpdateClassroomRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	Capacity    *int      `json:"capacity" validate:"omitempty,min=1"`
	Equipment   *[]string `json:"equipment"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
}

// ClassroomService manages classroom records.
type ClassroomService struct {
	store     ledgerStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs ClassroomService.
func NewClassroomService(store ledgerStore, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{store: store, validator: validate, logger: logger}
}

// Create stores a new classroom.
func (s *ClassroomService) Create(ctx context.Context, req CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid classroom payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	var created models.Classroom
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		now := tx.Now()
		created = models.Classroom{
			ID:          tx.NewID(),
			Name:        strings.TrimSpace(req.Name),
			Capacity:    req.Capacity,
			Equipment:   append([]string{}, req.Equipment...),
			Location:    req.Location,
			Description: req.Description,
			IsActive:    active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		tx.PutClassroom(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("classroom created", zap.String("classroom_id", created.ID))
	return &created, nil
}

// Get returns a classroom by id.
func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		var err error
		classroom, err = loadClassroom(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

// List returns every classroom in creation order.
func (s *ClassroomService) List(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		classrooms = tx.Classrooms()
		return nil
	})
	return classrooms, err
}

// Update applies a partial update.
func (s *ClassroomService) Update(ctx context.Context, id string, req UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid classroom payload")
	}
	var updated models.Classroom
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		classroom, err := loadClassroom(tx.ReadTx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			classroom.Name = strings.TrimSpace(*req.Name)
		}
		if req.Capacity != nil {
			classroom.Capacity = *req.Capacity
		}
		if req.Equipment != nil {
			classroom.Equipment = append([]string{}, (*req.Equipment)...)
		}
		if req.Location != nil {
			classroom.Location = *req.Location
		}
		if req.Description != nil {
			classroom.Description = *req.Description
		}
		if req.IsActive != nil {
			classroom.IsActive = *req.IsActive
		}
		classroom.UpdatedAt = tx.Now()
		tx.PutClassroom(classroom)
		updated = classroom
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a classroom that no course references.
func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		if _, err := loadClassroom(tx.ReadTx, id); err != nil {
			return err
		}
		var referencing []string
		for _, course := range tx.Courses() {
			if course.ClassroomID == id {
				referencing = append(referencing, course.ID)
			}
		}
		if len(referencing) > 0 {
			return appErrors.Clone(appErrors.ErrInvalidReference,
				fmt.Sprintf("classroom is used by %d course(s)", len(referencing)))
		}
		tx.DeleteClassroom(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("classroom deleted", zap.String("classroom_id", id))
	return nil
}
