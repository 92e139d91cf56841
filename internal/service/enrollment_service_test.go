package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

func seedEnrollment(t *testing.T, store *repository.Store, maxStudents int, students ...string) {
	seed(t, store, func(tx *repository.Tx) {
		tx.PutCourse(models.Course{ID: "c1", Name: "Algebra", MaxStudents: maxStudents, Status: models.CourseStatusActive})
		for _, id := range students {
			tx.PutStudent(models.Student{ID: id, IsActive: true})
		}
	})
}

func TestEnrollUntilCourseFull(t *testing.T) {
	store, clock := newTestStore(t)
	seedEnrollment(t, store, 1, "x", "y")
	svc := NewEnrollmentService(store, nil, nil)
	ctx := context.Background()

	clock.Advance(1)
	student, err := svc.Enroll(ctx, "x", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, student.EnrolledCourses)
	assert.Equal(t, clock.now, student.UpdatedAt)

	course := mustCourse(t, store, "c1")
	assert.Equal(t, 1, course.CurrentStudents)
	assert.Equal(t, []string{"x"}, course.EnrolledStudents)

	_, err = svc.Enroll(ctx, "y", "c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCourseFull)
	assert.Empty(t, mustStudent(t, store, "y").EnrolledCourses)
	assert.Equal(t, 1, mustCourse(t, store, "c1").CurrentStudents)
	requireConsistent(t, store)
}

func TestEnrollTwiceFailsWithoutChanges(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 5, "x")
	svc := NewEnrollmentService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "x", "c1")
	require.NoError(t, err)
	before := store.Export()

	_, err = svc.Enroll(ctx, "x", "c1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)

	after := store.Export()
	assert.Equal(t, before.Students, after.Students)
	assert.Equal(t, before.Courses, after.Courses)
}

func TestEnrollUnknownIDs(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 5, "x")
	svc := NewEnrollmentService(store, nil, nil)

	_, err := svc.Enroll(context.Background(), "ghost", "c1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.Enroll(context.Background(), "x", "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Zero(t, mustCourse(t, store, "c1").CurrentStudents)
}

func TestUnenrollRemovesBothSides(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 5, "x", "y")
	svc := NewEnrollmentService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "x", "c1")
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "y", "c1")
	require.NoError(t, err)

	student, err := svc.Unenroll(ctx, "x", "c1")
	require.NoError(t, err)
	assert.Empty(t, student.EnrolledCourses)

	course := mustCourse(t, store, "c1")
	assert.Equal(t, []string{"y"}, course.EnrolledStudents)
	assert.Equal(t, 1, course.CurrentStudents)
	requireConsistent(t, store)
}

func TestUnenrollNonMemberIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 5, "x")
	svc := NewEnrollmentService(store, nil, nil)

	student, err := svc.Unenroll(context.Background(), "x", "c1")
	require.NoError(t, err)
	assert.Empty(t, student.EnrolledCourses)
	assert.Zero(t, mustCourse(t, store, "c1").CurrentStudents)

	_, err = svc.Unenroll(context.Background(), "x", "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBulkEnrollPartitionsByOutcome(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 2, "s1", "s2", "s3")
	svc := NewEnrollmentService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, "s2", "c1")
	require.NoError(t, err)

	result, err := svc.BulkEnroll(ctx, "c1", []string{"s1", "s2", "s3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "s2", result.Failed[0].ID)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, result.Failed[0].Code)
	assert.Equal(t, "s3", result.Failed[1].ID)
	assert.Equal(t, appErrors.ErrCourseFull.Code, result.Failed[1].Code)

	course := mustCourse(t, store, "c1")
	assert.Equal(t, 2, course.CurrentStudents)
	assert.ElementsMatch(t, []string{"s1", "s2"}, course.EnrolledStudents)
	requireConsistent(t, store)
}

func TestBulkEnrollReportsUnknownStudents(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 3, "s1")
	svc := NewEnrollmentService(store, nil, nil)

	result, err := svc.BulkEnroll(context.Background(), "c1", []string{"ghost", "s1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, models.BulkFailure{ID: "ghost", Code: "NOT_FOUND", Reason: "student not found"}, result.Failed[0])
}

func TestEnrollmentRecordsLedgerMetrics(t *testing.T) {
	store, _ := newTestStore(t)
	seedEnrollment(t, store, 1, "x")
	metrics := NewMetricsService()
	svc := NewEnrollmentService(store, metrics, nil)

	_, _ = svc.Enroll(context.Background(), "x", "c1")
	_, _ = svc.Enroll(context.Background(), "x", "c1")

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.LedgerOperations)
	assert.Equal(t, uint64(1), snapshot.LedgerFailures)
}
