package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*repository.Store, *testClock) {
	t.Helper()
	clock := &testClock{now: fixedNow}
	seq := 0
	store := repository.NewStore(repository.StoreConfig{
		Now: clock.Now,
		NewID: func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		},
	})
	return store, clock
}

func seed(t *testing.T, store *repository.Store, fn func(tx *repository.Tx)) {
	t.Helper()
	require.NoError(t, store.Update(context.Background(), func(tx *repository.Tx) error {
		fn(tx)
		return nil
	}))
}

func slot(day int, start, end string) timeslot.Slot {
	return timeslot.Slot{DayOfWeek: day, StartTime: start, EndTime: end}
}

func mustStudent(t *testing.T, store *repository.Store, id string) models.Student {
	t.Helper()
	var student models.Student
	require.NoError(t, store.View(context.Background(), func(tx repository.ReadTx) error {
		var ok bool
		student, ok = tx.Student(id)
		require.True(t, ok, "student %s", id)
		return nil
	}))
	return student
}

func mustCourse(t *testing.T, store *repository.Store, id string) models.Course {
	t.Helper()
	var course models.Course
	require.NoError(t, store.View(context.Background(), func(tx repository.ReadTx) error {
		var ok bool
		course, ok = tx.Course(id)
		require.True(t, ok, "course %s", id)
		return nil
	}))
	return course
}

func mustMentor(t *testing.T, store *repository.Store, id string) models.Mentor {
	t.Helper()
	var mentor models.Mentor
	require.NoError(t, store.View(context.Background(), func(tx repository.ReadTx) error {
		var ok bool
		mentor, ok = tx.Mentor(id)
		require.True(t, ok, "mentor %s", id)
		return nil
	}))
	return mentor
}

// requireConsistent checks both two-sided relationships over the whole store.
func requireConsistent(t *testing.T, store *repository.Store) {
	t.Helper()
	require.NoError(t, ValidateSnapshot(store.Export()))
}
