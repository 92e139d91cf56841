package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

// ScheduleService answers read-only questions about classroom time use.
type ScheduleService struct {
	store     ledgerStore
	validator *validator.Validate
	metrics   ledgerMetrics
	logger    *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(store ledgerStore, validate *validator.Validate, metrics ledgerMetrics, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{store: store, validator: validate, metrics: metricsOrNoop(metrics), logger: logger}
}

// FindConflicts lists the courses held in the classroom whose slots overlap
// any candidate slot. The course named by ExcludeCourseID is ignored so a
// course can be checked against everything but itself.
func (s *ScheduleService) FindConflicts(ctx context.Context, check models.ConflictCheck) (*models.ConflictReport, error) {
	if err := s.validator.Struct(check); err != nil {
		return nil, appErrors.Validation(err, "invalid candidate slots")
	}
	if err := timeslot.ValidateAll(check.Slots); err != nil {
		return nil, appErrors.Validation(err, "invalid candidate slots")
	}
	start := time.Now()
	var report models.ConflictReport
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		report = findConflicts(tx.Courses(), check.ClassroomID, check.Slots, check.ExcludeCourseID)
		return nil
	})
	s.metrics.ObserveLedgerOperation("find_conflicts", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Schedule derives the weekly schedule of a classroom from the courses held
// in it, in course creation order.
func (s *ScheduleService) Schedule(ctx context.Context, classroomID string) ([]models.ClassroomScheduleEntry, error) {
	var entries []models.ClassroomScheduleEntry
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		if _, err := loadClassroom(tx, classroomID); err != nil {
			return err
		}
		entries = classroomSchedule(tx.Courses(), classroomID)
		return nil
	})
	return entries, err
}

// IsAvailable reports whether no published slot of the classroom overlaps
// the requested window. A classroom with no courses is always available.
func (s *ScheduleService) IsAvailable(ctx context.Context, query models.AvailabilityQuery) (*models.Availability, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Validation(err, "invalid availability window")
	}
	window := timeslot.Slot{DayOfWeek: query.DayOfWeek, StartTime: query.StartTime, EndTime: query.EndTime}
	if err := window.Validate(); err != nil {
		return nil, appErrors.Validation(err, "invalid availability window")
	}
	start := time.Now()
	available := true
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		for _, entry := range classroomSchedule(tx.Courses(), query.ClassroomID) {
			if entry.Slot.Overlaps(window) {
				available = false
				return nil
			}
		}
		return nil
	})
	s.metrics.ObserveLedgerOperation("check_availability", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &models.Availability{
		ClassroomID: query.ClassroomID,
		DayOfWeek:   query.DayOfWeek,
		StartTime:   query.StartTime,
		EndTime:     query.EndTime,
		Available:   available,
	}, nil
}

func findConflicts(courses []models.Course, classroomID string, candidates []timeslot.Slot, excludeCourseID string) models.ConflictReport {
	report := models.ConflictReport{ConflictingCourses: []models.Course{}}
	seen := make(map[string]struct{})
	for _, candidate := range candidates {
		for _, course := range courses {
			if course.ClassroomID != classroomID || course.ID == excludeCourseID {
				continue
			}
			if _, dup := seen[course.ID]; dup {
				continue
			}
			for _, slot := range course.Schedule {
				if timeslot.Overlaps(candidate, slot) {
					seen[course.ID] = struct{}{}
					report.ConflictingCourses = append(report.ConflictingCourses, course)
					break
				}
			}
		}
	}
	report.HasConflict = len(report.ConflictingCourses) > 0
	return report
}

func classroomSchedule(courses []models.Course, classroomID string) []models.ClassroomScheduleEntry {
	entries := []models.ClassroomScheduleEntry{}
	for _, course := range courses {
		if course.ClassroomID != classroomID {
			continue
		}
		for i, slot := range course.Schedule {
			entries = append(entries, models.ClassroomScheduleEntry{
				ID:          fmt.Sprintf("%s-%d", course.ID, i),
				ClassroomID: classroomID,
				CourseID:    course.ID,
				CourseName:  course.Name,
				MentorID:    course.MentorID,
				Slot:        slot,
				IsRecurring: true,
			})
		}
	}
	return entries
}
