package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

type memorySnapshotRepo struct {
	saved   map[string]models.SavedSnapshot
	order   []string
	failErr error
}

func newMemorySnapshotRepo() *memorySnapshotRepo {
	return &memorySnapshotRepo{saved: map[string]models.SavedSnapshot{}}
}

func (m *memorySnapshotRepo) Create(_ context.Context, snapshot *models.SavedSnapshot) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saved[snapshot.ID] = *snapshot
	m.order = append(m.order, snapshot.ID)
	return nil
}

func (m *memorySnapshotRepo) FindByID(_ context.Context, id string) (*models.SavedSnapshot, error) {
	snapshot, ok := m.saved[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &snapshot, nil
}

func (m *memorySnapshotRepo) List(_ context.Context, _ int) ([]models.SavedSnapshot, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := make([]models.SavedSnapshot, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.saved[m.order[i]])
	}
	return out, nil
}

func seedConsistentLedger(t *testing.T, store *repository.Store) {
	seedEnrollment(t, store, 3, "x", "y")
	seed(t, store, func(tx *repository.Tx) {
		tx.PutMentor(models.Mentor{ID: "m1", UserID: "u1"})
	})
	ctx := context.Background()
	_, err := NewEnrollmentService(store, nil, nil).Enroll(ctx, "x", "c1")
	require.NoError(t, err)
	_, err = NewAssignmentService(store, nil, nil).Assign(ctx, "m1", "c1")
	require.NoError(t, err)
}

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	source, _ := newTestStore(t)
	seedConsistentLedger(t, source)
	svc := NewSnapshotService(source, nil, nil, nil)

	snapshot, err := svc.Export(context.Background())
	require.NoError(t, err)
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	target, _ := newTestStore(t)
	require.NoError(t, NewSnapshotService(target, nil, nil, nil).Import(context.Background(), decoded))
	assert.Equal(t, []string{"x"}, mustCourse(t, target, "c1").EnrolledStudents)
	assert.Equal(t, []string{"c1"}, mustMentor(t, target, "m1").AssignedCourses)
	requireConsistent(t, target)
}

func TestSnapshotImportRejectsBrokenLinks(t *testing.T) {
	store, _ := newTestStore(t)
	seedConsistentLedger(t, store)
	before := store.Export()

	broken := store.Export()
	broken.Courses[0].EnrolledStudents = []string{"x", "y"}
	broken.Courses[0].CurrentStudents = 1

	err := NewSnapshotService(store, nil, nil, nil).Import(context.Background(), broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, err.Error(), "current_students")
	assert.Contains(t, err.Error(), `lists student "y"`)

	assert.Equal(t, before.Courses, store.Export().Courses)
}

func TestValidateSnapshotRejectsRepeatedIDs(t *testing.T) {
	store, _ := newTestStore(t)
	seedConsistentLedger(t, store)
	snapshot := store.Export()
	require.NoError(t, ValidateSnapshot(snapshot))

	for i := range snapshot.Courses {
		if snapshot.Courses[i].ID == "c1" {
			snapshot.Courses[i].EnrolledStudents = []string{"x", "x"}
			snapshot.Courses[i].CurrentStudents = 2
		}
	}
	for i := range snapshot.Students {
		if snapshot.Students[i].ID == "x" {
			snapshot.Students[i].EnrolledCourses = []string{"c1", "c1"}
		}
	}
	snapshot.Mentors[0].AssignedCourses = []string{"c1", "c1"}

	err := ValidateSnapshot(snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, err.Error(), `course "c1" lists student "x" more than once`)
	assert.Contains(t, err.Error(), `student "x" lists course "c1" more than once`)
	assert.Contains(t, err.Error(), `mentor "m1" lists course "c1" more than once`)
}

func TestValidateSnapshotCapsProblems(t *testing.T) {
	snapshot := models.Snapshot{}
	for i := 0; i < 15; i++ {
		snapshot.Courses = append(snapshot.Courses, models.Course{ID: "", MaxStudents: 1})
	}
	err := ValidateSnapshot(snapshot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "and 5 more")
}

func TestSnapshotPersistence(t *testing.T) {
	store, _ := newTestStore(t)
	seedConsistentLedger(t, store)
	repo := newMemorySnapshotRepo()
	svc := NewSnapshotService(store, repo, NewMetricsService(), nil)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "snapshot 2024-03-04T09:00:00Z", saved.Label)
	assert.Equal(t, len(saved.Payload), saved.SizeBytes)

	_, err = NewStudentService(store, nil, nil, nil).Create(ctx, CreateStudentRequest{ParentID: "p", FirstName: "New", LastName: "Kid"})
	require.NoError(t, err)
	assert.Len(t, store.Export().Students, 3)

	_, err = svc.Restore(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, store.Export().Students, 2)

	list, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Restore(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	repo.failErr = errors.New("db down")
	_, err = svc.Save(ctx, "label")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestSnapshotPersistenceDisabled(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewSnapshotService(store, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, "x")
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	_, err = svc.Restore(ctx, "x")
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	_, err = svc.ListSaved(ctx)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}
