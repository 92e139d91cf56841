package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// roleTokens accepts the role name itself as the bearer token.
type roleTokens struct{}

func (roleTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	switch models.UserRole(token) {
	case models.RoleAdmin, models.RoleMentor, models.RoleParent:
		return &models.JWTClaims{UserID: "user-" + token, Role: models.UserRole(token), FullName: "Test " + token}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type testAPI struct {
	router *gin.Engine
	store  *repository.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seq := 0
	store := repository.NewStore(repository.StoreConfig{
		Now: func() time.Time { return fixedNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})

	invoices := service.NewInvoiceService(store, nil, nil, nil, nil, service.InvoiceConfig{Currency: "USD"})
	reminders := service.NewReminderService(invoices, nil, nil)
	handlers := Handlers{
		Students:    NewStudentHandler(service.NewStudentService(store, nil, nil, nil)),
		Enrollments: NewEnrollmentHandler(service.NewEnrollmentService(store, nil, nil)),
		Courses:     NewCourseHandler(service.NewCourseService(store, nil, nil, nil)),
		Mentors:     NewMentorHandler(service.NewMentorService(store, nil, nil, nil), service.NewAssignmentService(store, nil, nil)),
		Classrooms:  NewClassroomHandler(service.NewClassroomService(store, nil, nil), service.NewScheduleService(store, nil, nil, nil)),
		Invoices:    NewInvoiceHandler(invoices, reminders),
		Billing:     NewBillingHandler(invoices, service.NewExportService(invoices, nil, nil, nil)),
		Snapshots:   NewSnapshotHandler(service.NewSnapshotService(store, nil, nil, nil)),
		Metrics:     NewMetricsHandler(service.NewMetricsService(), nil, nil),
	}

	router := gin.New()
	RegisterRoutes(router, "/api/v1", roleTokens{}, handlers)
	return &testAPI{router: router, store: store}
}

func (a *testAPI) do(method, path, role string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+role)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func (a *testAPI) create(t *testing.T, path string, body interface{}) string {
	t.Helper()
	w := a.do(http.MethodPost, path, "admin", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

type ledgerIDs struct {
	classroom, mentor, course, student string
}

func (a *testAPI) seedLedger(t *testing.T, maxStudents int) ledgerIDs {
	t.Helper()
	var ids ledgerIDs
	ids.classroom = a.create(t, "/classrooms", gin.H{"name": "Room 1", "capacity": 20})
	ids.mentor = a.create(t, "/mentors", gin.H{"user_id": "u-1", "experience_years": 3, "hourly_rate": "25"})
	ids.course = a.create(t, "/courses", gin.H{
		"name":         "Algebra",
		"mentor_id":    ids.mentor,
		"classroom_id": ids.classroom,
		"max_students": maxStudents,
		"price":        "100",
		"schedule":     []gin.H{{"day_of_week": 1, "start_time": "10:00", "end_time": "11:30"}},
	})
	ids.student = a.create(t, "/students", gin.H{"parent_id": "p-1", "first_name": "Ada", "last_name": "Lovelace"})
	return ids
}

func TestRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/students", "intruder", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWritesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/students", "parent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, float64(0), env.Meta["count"])

	w = api.do(http.MethodPost, "/students", "parent", gin.H{"parent_id": "p-1", "first_name": "A", "last_name": "B"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/snapshots/export", "mentor", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvalidPayload(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/students", "admin", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)

	w = api.do(http.MethodPost, "/students/id-1/enrollments", "admin", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/courses/c-1/enrollments/bulk", "admin", gin.H{"student_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentFlow(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 1)

	w := api.do(http.MethodPost, "/students/"+ids.student+"/enrollments", "admin", gin.H{"course_id": ids.course})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var student models.Student
	decode(t, w, &student)
	assert.Equal(t, []string{ids.course}, student.EnrolledCourses)

	w = api.do(http.MethodPost, "/students/"+ids.student+"/enrollments", "admin", gin.H{"course_id": ids.course})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, decode(t, w, nil).Error.Code)

	other := api.create(t, "/students", gin.H{"parent_id": "p-2", "first_name": "Alan", "last_name": "Turing"})
	w = api.do(http.MethodPost, "/students/"+other+"/enrollments", "admin", gin.H{"course_id": ids.course})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrCourseFull.Code, decode(t, w, nil).Error.Code)

	w = api.do(http.MethodGet, "/courses/"+ids.course, "parent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var course models.Course
	decode(t, w, &course)
	assert.Equal(t, 1, course.CurrentStudents)
	assert.Equal(t, []string{ids.student}, course.EnrolledStudents)
	assert.Equal(t, ids.mentor, course.MentorID)

	w = api.do(http.MethodDelete, "/students/"+ids.student+"/enrollments/"+ids.course, "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &student)
	assert.Empty(t, student.EnrolledCourses)

	w = api.do(http.MethodGet, "/courses?student_id="+ids.student, "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w, nil).Meta["count"])
}

func TestBulkEnrollReportsPerStudent(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 2)

	w := api.do(http.MethodPost, "/courses/"+ids.course+"/enrollments/bulk", "admin", gin.H{
		"student_ids": []string{ids.student, "missing", ids.student},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.BulkEnrollResult
	decode(t, w, &result)
	assert.Equal(t, []string{ids.student}, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, appErrors.ErrNotFound.Code, result.Failed[0].Code)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, result.Failed[1].Code)
}

func TestMentorAssignmentRoutes(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 5)

	w := api.do(http.MethodPost, "/mentors/"+ids.mentor+"/courses", "admin", gin.H{"course_id": ids.course})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrAlreadyAssigned.Code, decode(t, w, nil).Error.Code)

	w = api.do(http.MethodDelete, "/mentors/"+ids.mentor+"/courses/"+ids.course, "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mentor models.Mentor
	decode(t, w, &mentor)
	assert.Empty(t, mentor.AssignedCourses)

	w = api.do(http.MethodGet, "/courses/"+ids.course, "admin", nil)
	var course models.Course
	decode(t, w, &course)
	assert.Empty(t, course.MentorID)
	assert.Equal(t, models.CourseStatusInactive, course.Status)

	w = api.do(http.MethodGet, "/mentors?user_id=u-1", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w, nil).Meta["count"])

	w = api.do(http.MethodGet, "/mentors?user_id=nobody", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w, nil).Meta["count"])

	w = api.do(http.MethodPost, "/mentors", "admin", gin.H{"user_id": "u-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClassroomScheduleRoutes(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 5)

	w := api.do(http.MethodPost, "/classrooms/"+ids.classroom+"/conflicts", "mentor", gin.H{
		"slots": []gin.H{{"day_of_week": 1, "start_time": "11:30", "end_time": "12:30"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report models.ConflictReport
	decode(t, w, &report)
	assert.False(t, report.HasConflict)

	w = api.do(http.MethodPost, "/classrooms/"+ids.classroom+"/conflicts", "mentor", gin.H{
		"slots": []gin.H{{"day_of_week": 1, "start_time": "11:00", "end_time": "12:00"}},
	})
	decode(t, w, &report)
	assert.True(t, report.HasConflict)
	require.Len(t, report.ConflictingCourses, 1)
	assert.Equal(t, ids.course, report.ConflictingCourses[0].ID)

	w = api.do(http.MethodPost, "/classrooms/"+ids.classroom+"/conflicts", "mentor", gin.H{
		"slots": []gin.H{{"day_of_week": 1, "start_time": "12:00", "end_time": "11:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cases := []struct {
		query     string
		status    int
		available bool
	}{
		{"day=1&start=09:00&end=10:00", http.StatusOK, true},
		{"day=1&start=10:30&end=10:45", http.StatusOK, false},
		{"day=2&start=10:30&end=10:45", http.StatusOK, true},
		{"start=10:30&end=10:45", http.StatusBadRequest, false},
		{"day=1&start=25:00&end=26:00", http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := api.do(http.MethodGet, "/classrooms/"+ids.classroom+"/availability?"+tc.query, "parent", nil)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status != http.StatusOK {
				return
			}
			var availability models.Availability
			decode(t, w, &availability)
			assert.Equal(t, tc.available, availability.Available)
		})
	}

	w = api.do(http.MethodGet, "/classrooms/"+ids.classroom+"/schedule", "parent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.ClassroomScheduleEntry
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "10:00", entries[0].StartTime)

	w = api.do(http.MethodDelete, "/classrooms/"+ids.classroom, "admin", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrInvalidReference.Code, decode(t, w, nil).Error.Code)
}

func TestInvoicePaymentFlow(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 5)

	invoiceID := api.create(t, "/invoices", gin.H{
		"parent_id":  "p-1",
		"student_id": ids.student,
		"amount":     "350",
		"due_date":   "2024-03-01T00:00:00Z",
		"status":     "pending",
	})

	w := api.do(http.MethodGet, "/invoices?overdue=true", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w, nil).Meta["count"])

	w = api.do(http.MethodPost, "/invoices/"+invoiceID+"/payments", "admin", gin.H{"amount": "200", "payment_method": "cash", "reference": "R1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invoice models.Invoice
	decode(t, w, &invoice)
	assert.Equal(t, models.InvoiceStatusPartial, invoice.Status)
	assert.Equal(t, "user-admin", invoice.LastModifiedBy)
	require.NotEmpty(t, invoice.Comments)
	assert.Equal(t, "Test admin", invoice.Comments[len(invoice.Comments)-1].CreatedByName)

	w = api.do(http.MethodPost, "/invoices/"+invoiceID+"/payments", "admin", gin.H{"amount": "150", "payment_method": "card"})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &invoice)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)

	w = api.do(http.MethodGet, "/invoices/"+invoiceID+"/balance", "parent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance models.InvoiceBalance
	decode(t, w, &balance)
	assert.Equal(t, "350", balance.TotalPaid.String())
	assert.True(t, balance.Outstanding.IsZero())
	assert.False(t, balance.Overdue)

	w = api.do(http.MethodGet, "/payments?invoice_id="+invoiceID, "parent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []models.PaymentRecord
	decode(t, w, &payments)
	require.Len(t, payments, 2)
	assert.Equal(t, "card", payments[0].PaymentMethod)

	w = api.do(http.MethodPost, "/invoices/"+invoiceID+"/payments", "admin", gin.H{"amount": "0", "payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, "/invoices/"+invoiceID+"/status", "admin", gin.H{"status": "refunded", "comment": "duplicate charge"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &invoice)
	assert.Equal(t, models.InvoiceStatusRefunded, invoice.Status)

	w = api.do(http.MethodPost, "/invoices/"+invoiceID+"/reminders", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &invoice)
	assert.Equal(t, models.CommentTypeReminder, invoice.Comments[len(invoice.Comments)-1].Type)

	w = api.do(http.MethodPost, "/invoices/missing/payments", "admin", gin.H{"amount": "10", "payment_method": "cash"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispatchOverdueWithoutQueue(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/invoices/reminders/overdue", "admin", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, appErrors.ErrInternal.Code, decode(t, w, nil).Error.Code)
}

func TestBillingStatsAndExports(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 5)
	api.create(t, "/invoices", gin.H{
		"parent_id":  "p-1",
		"student_id": ids.student,
		"amount":     "120.50",
		"issue_date": "2024-03-02T00:00:00Z",
		"due_date":   "2024-03-03T00:00:00Z",
		"status":     "pending",
	})

	w := api.do(http.MethodGet, "/billing/stats?start=2024-03-01&end=2024-03-31", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats models.BillingStats
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.TotalInvoices)
	assert.Equal(t, 1, stats.OverdueCount)
	assert.Equal(t, "120.5", stats.TotalAmount.String())

	w = api.do(http.MethodGet, "/billing/stats?start=2024-03-01", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/billing/stats?start=2024-03-31&end=2024-03-01", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/billing/export/invoices", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="invoices_`)
	assert.Contains(t, w.Body.String(), "120.50")

	w = api.do(http.MethodGet, "/billing/export/payments?format=PDF", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = api.do(http.MethodGet, "/billing/export/invoices?format=xlsx", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotRoutes(t *testing.T) {
	api := newTestAPI(t)
	ids := api.seedLedger(t, 5)

	w := api.do(http.MethodGet, "/snapshots/export", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot models.Snapshot
	decode(t, w, &snapshot)
	require.Len(t, snapshot.Courses, 1)

	broken := snapshot
	broken.Courses = []models.Course{snapshot.Courses[0].Clone()}
	broken.Courses[0].EnrolledStudents = []string{ids.student}
	broken.Courses[0].CurrentStudents = 1
	w = api.do(http.MethodPost, "/snapshots/import", "admin", broken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, "/courses/"+ids.course, "admin", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodPost, "/snapshots/import", "admin", snapshot)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	w = api.do(http.MethodGet, "/courses/"+ids.course, "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/snapshots", "admin", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, appErrors.ErrUnavailable.Code, decode(t, w, nil).Error.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, nil, map[string]ReadinessCheck{
		"store": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.Health(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
