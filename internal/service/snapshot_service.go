package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

const maxReportedSnapshotProblems = 10

type snapshotStore interface {
	Export() models.Snapshot
	Import(snapshot models.Snapshot)
}

type snapshotRepository interface {
	Create(ctx context.Context, snapshot *models.SavedSnapshot) error
	FindByID(ctx context.Context, id string) (*models.SavedSnapshot, error)
	List(ctx context.Context, limit int) ([]models.SavedSnapshot, error)
}

// SnapshotService exports, validates and restores whole-ledger snapshots.
// Persistence is optional; without a repository only Export and Import work.
type SnapshotService struct {
	store   snapshotStore
	repo    snapshotRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSnapshotService constructs SnapshotService. repo may be nil.
func NewSnapshotService(store snapshotStore, repo snapshotRepository, metrics *MetricsService, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{store: store, repo: repo, metrics: metrics, logger: logger}
}

// Export returns the current ledger state.
func (s *SnapshotService) Export(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}
	return s.store.Export(), nil
}

// Import replaces the ledger state after checking that every two-sided
// relationship in the snapshot is consistent.
func (s *SnapshotService) Import(ctx context.Context, snapshot models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSnapshot(snapshot); err != nil {
		return err
	}
	s.store.Import(snapshot)
	s.logger.Info("snapshot imported",
		zap.Int("students", len(snapshot.Students)),
		zap.Int("courses", len(snapshot.Courses)),
		zap.Int("mentors", len(snapshot.Mentors)),
		zap.Int("invoices", len(snapshot.Invoices)))
	return nil
}

// Save persists the current state under label.
func (s *SnapshotService) Save(ctx context.Context, label string) (*models.SavedSnapshot, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "snapshot persistence is disabled")
	}
	snapshot := s.store.Export()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to encode snapshot")
	}
	if strings.TrimSpace(label) == "" {
		label = "snapshot " + snapshot.ExportedAt.Format(time.RFC3339)
	}
	saved := &models.SavedSnapshot{
		ID:        uuid.NewString(),
		Label:     label,
		Payload:   payload,
		SizeBytes: len(payload),
		CreatedAt: snapshot.ExportedAt,
	}
	start := time.Now()
	err = s.repo.Create(ctx, saved)
	s.metrics.ObserveSnapshotQuery("create", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to save snapshot")
	}
	s.logger.Info("snapshot saved", zap.String("snapshot_id", saved.ID), zap.Int("bytes", saved.SizeBytes))
	return saved, nil
}

// Restore loads a persisted snapshot and imports it.
func (s *SnapshotService) Restore(ctx context.Context, id string) (*models.SavedSnapshot, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "snapshot persistence is disabled")
	}
	start := time.Now()
	saved, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveSnapshotQuery("find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "snapshot not found")
		}
		return nil, appErrors.Internal(err, "failed to load snapshot")
	}
	var snapshot models.Snapshot
	if err := json.Unmarshal(saved.Payload, &snapshot); err != nil {
		return nil, appErrors.Validation(err, "stored snapshot is not valid JSON")
	}
	if err := s.Import(ctx, snapshot); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot restored", zap.String("snapshot_id", id))
	return saved, nil
}

// ListSaved returns persisted snapshot metadata, newest first.
func (s *SnapshotService) ListSaved(ctx context.Context) ([]models.SavedSnapshot, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "snapshot persistence is disabled")
	}
	start := time.Now()
	snapshots, err := s.repo.List(ctx, 0)
	s.metrics.ObserveSnapshotQuery("list", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list snapshots")
	}
	if snapshots == nil {
		snapshots = []models.SavedSnapshot{}
	}
	return snapshots, nil
}

// ValidateSnapshot checks ids, references and the two-sided relationships of
// a snapshot. It reports up to ten problems in one VALIDATION_ERROR.
func ValidateSnapshot(snapshot models.Snapshot) error {
	var problems []string
	report := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	students := make(map[string]models.Student, len(snapshot.Students))
	for _, student := range snapshot.Students {
		if _, dup := students[student.ID]; dup || student.ID == "" {
			report("student id %q is empty or duplicated", student.ID)
		}
		students[student.ID] = student
		for _, id := range repeatedIDs(student.EnrolledCourses) {
			report("student %q lists course %q more than once", student.ID, id)
		}
	}
	classrooms := make(map[string]struct{}, len(snapshot.Classrooms))
	for _, classroom := range snapshot.Classrooms {
		if _, dup := classrooms[classroom.ID]; dup || classroom.ID == "" {
			report("classroom id %q is empty or duplicated", classroom.ID)
		}
		classrooms[classroom.ID] = struct{}{}
	}
	mentors := make(map[string]models.Mentor, len(snapshot.Mentors))
	users := make(map[string]string, len(snapshot.Mentors))
	for _, mentor := range snapshot.Mentors {
		if _, dup := mentors[mentor.ID]; dup || mentor.ID == "" {
			report("mentor id %q is empty or duplicated", mentor.ID)
		}
		if owner, taken := users[mentor.UserID]; taken {
			report("user %q owns mentor profiles %q and %q", mentor.UserID, owner, mentor.ID)
		}
		users[mentor.UserID] = mentor.ID
		mentors[mentor.ID] = mentor
		for _, id := range repeatedIDs(mentor.AssignedCourses) {
			report("mentor %q lists course %q more than once", mentor.ID, id)
		}
	}

	courses := make(map[string]models.Course, len(snapshot.Courses))
	for _, course := range snapshot.Courses {
		if _, dup := courses[course.ID]; dup || course.ID == "" {
			report("course id %q is empty or duplicated", course.ID)
		}
		courses[course.ID] = course
		if course.MaxStudents <= 0 {
			report("course %q: max_students must be positive", course.ID)
		}
		if course.CurrentStudents != len(course.EnrolledStudents) {
			report("course %q: current_students %d does not match %d enrolled", course.ID, course.CurrentStudents, len(course.EnrolledStudents))
		}
		for _, id := range repeatedIDs(course.EnrolledStudents) {
			report("course %q lists student %q more than once", course.ID, id)
		}
		if len(course.EnrolledStudents) > course.MaxStudents {
			report("course %q: roster exceeds max_students", course.ID)
		}
		if course.ClassroomID != "" {
			if _, ok := classrooms[course.ClassroomID]; !ok {
				report("course %q: unknown classroom %q", course.ID, course.ClassroomID)
			}
		}
		if err := timeslot.ValidateAll(course.Schedule); err != nil {
			report("course %q: %v", course.ID, err)
		}
		for _, studentID := range course.EnrolledStudents {
			student, ok := students[studentID]
			if !ok || !student.IsEnrolledIn(course.ID) {
				report("course %q lists student %q without a matching enrollment", course.ID, studentID)
			}
		}
		if course.MentorID != "" {
			mentor, ok := mentors[course.MentorID]
			if !ok || !mentor.IsAssigned(course.ID) {
				report("course %q names mentor %q without a matching assignment", course.ID, course.MentorID)
			}
		}
	}
	for _, student := range snapshot.Students {
		for _, courseID := range student.EnrolledCourses {
			course, ok := courses[courseID]
			if !ok || !course.HasStudent(student.ID) {
				report("student %q lists course %q without a matching roster entry", student.ID, courseID)
			}
		}
	}
	for _, mentor := range snapshot.Mentors {
		for _, courseID := range mentor.AssignedCourses {
			course, ok := courses[courseID]
			if !ok || course.MentorID != mentor.ID {
				report("mentor %q lists course %q that names a different mentor", mentor.ID, courseID)
			}
		}
	}

	invoices := make(map[string]struct{}, len(snapshot.Invoices))
	for _, invoice := range snapshot.Invoices {
		if _, dup := invoices[invoice.ID]; dup || invoice.ID == "" {
			report("invoice id %q is empty or duplicated", invoice.ID)
		}
		invoices[invoice.ID] = struct{}{}
		if !invoice.Status.Valid() {
			report("invoice %q: unknown status %q", invoice.ID, invoice.Status)
		}
	}
	for _, payment := range snapshot.Payments {
		if !payment.Amount.IsPositive() {
			report("payment %q: amount must be positive", payment.ID)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	if len(problems) > maxReportedSnapshotProblems {
		problems = append(problems[:maxReportedSnapshotProblems], fmt.Sprintf("and %d more", len(problems)-maxReportedSnapshotProblems))
	}
	return appErrors.Wrap(errors.New(strings.Join(problems, "; ")), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "snapshot is inconsistent")
}

// repeatedIDs returns each id that occurs more than once, in first-repeat order.
func repeatedIDs(ids []string) []string {
	seen := make(map[string]int, len(ids))
	var repeated []string
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			repeated = append(repeated, id)
		}
	}
	return repeated
}
