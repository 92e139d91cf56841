package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

func seedRoom(t *testing.T, store *repository.Store) {
	seed(t, store, func(tx *repository.Tx) {
		tx.PutClassroom(models.Classroom{ID: "r1", Capacity: 20})
		tx.PutClassroom(models.Classroom{ID: "r2", Capacity: 20})
		tx.PutCourse(models.Course{ID: "A", Name: "Algebra", ClassroomID: "r1", MaxStudents: 5,
			Schedule: []timeslot.Slot{slot(1, "10:00", "11:30")}})
		tx.PutCourse(models.Course{ID: "B", Name: "Biology", ClassroomID: "r1", MaxStudents: 5,
			Schedule: []timeslot.Slot{slot(1, "13:00", "14:00"), slot(3, "10:00", "11:00")}})
		tx.PutCourse(models.Course{ID: "C", Name: "Chemistry", ClassroomID: "r2", MaxStudents: 5,
			Schedule: []timeslot.Slot{slot(1, "10:00", "11:30")}})
	})
}

func conflictIDs(report *models.ConflictReport) []string {
	ids := []string{}
	for _, course := range report.ConflictingCourses {
		ids = append(ids, course.ID)
	}
	return ids
}

func TestFindConflictsHalfOpenBoundary(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)
	ctx := context.Background()

	report, err := svc.FindConflicts(ctx, models.ConflictCheck{ClassroomID: "r1", Slots: []timeslot.Slot{slot(1, "11:00", "12:00")}})
	require.NoError(t, err)
	assert.True(t, report.HasConflict)
	assert.Equal(t, []string{"A"}, conflictIDs(report))

	report, err = svc.FindConflicts(ctx, models.ConflictCheck{ClassroomID: "r1", Slots: []timeslot.Slot{slot(1, "11:30", "12:30")}})
	require.NoError(t, err)
	assert.False(t, report.HasConflict)
	assert.NotNil(t, report.ConflictingCourses)
	assert.Empty(t, report.ConflictingCourses)
}

func TestFindConflictsOrderAndDeduplication(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)

	report, err := svc.FindConflicts(context.Background(), models.ConflictCheck{
		ClassroomID: "r1",
		Slots: []timeslot.Slot{
			slot(3, "10:30", "11:30"),
			slot(1, "09:00", "18:00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, conflictIDs(report))
}

func TestFindConflictsExcludesCourse(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)

	report, err := svc.FindConflicts(context.Background(), models.ConflictCheck{
		ClassroomID:     "r1",
		Slots:           []timeslot.Slot{slot(1, "10:00", "11:30")},
		ExcludeCourseID: "A",
	})
	require.NoError(t, err)
	assert.False(t, report.HasConflict)
}

func TestFindConflictsInputHandling(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)

	_, err := svc.FindConflicts(context.Background(), models.ConflictCheck{ClassroomID: "r1", Slots: []timeslot.Slot{slot(1, "12:00", "11:00")}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.FindConflicts(context.Background(), models.ConflictCheck{ClassroomID: "r1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation, "at least one candidate slot is required")

	_, err = svc.FindConflicts(context.Background(), models.ConflictCheck{ClassroomID: "r1", Slots: []timeslot.Slot{slot(7, "10:00", "11:00")}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	report, err := svc.FindConflicts(context.Background(), models.ConflictCheck{ClassroomID: "ghost", Slots: []timeslot.Slot{slot(1, "10:00", "11:00")}})
	require.NoError(t, err)
	assert.False(t, report.HasConflict)
}

func TestClassroomSchedule(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)

	entries, err := svc.Schedule(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "A-0", entries[0].ID)
	assert.Equal(t, "B-1", entries[2].ID)
	assert.Equal(t, 3, entries[2].DayOfWeek)
	assert.True(t, entries[2].IsRecurring)

	_, err = svc.Schedule(context.Background(), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestIsAvailable(t *testing.T) {
	store, _ := newTestStore(t)
	seedRoom(t, store)
	svc := NewScheduleService(store, nil, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		query models.AvailabilityQuery
		want  bool
	}{
		{"overlapping", models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00"}, false},
		{"touching", models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 1, StartTime: "11:30", EndTime: "13:00"}, true},
		{"other day", models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"}, true},
		{"unused room", models.AvailabilityQuery{ClassroomID: "empty", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			availability, err := svc.IsAvailable(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, availability.Available)
		})
	}

	_, err := svc.IsAvailable(ctx, models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 1, StartTime: "11:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.IsAvailable(ctx, models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 1, EndTime: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.IsAvailable(ctx, models.AvailabilityQuery{ClassroomID: "r1", DayOfWeek: 1, StartTime: "+9:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
