package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/middleware"
	"github.com/noah-isme/academy-ledger-api/internal/models"
)

// Handlers groups every HTTP handler registered by RegisterRoutes.
type Handlers struct {
	Students    *StudentHandler
	Enrollments *EnrollmentHandler
	Courses     *CourseHandler
	Mentors     *MentorHandler
	Classrooms  *ClassroomHandler
	Invoices    *InvoiceHandler
	Billing     *BillingHandler
	Snapshots   *SnapshotHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the ledger API under prefix. Every API route needs a
// valid bearer token; writes additionally need the admin role.
func RegisterRoutes(r *gin.Engine, prefix string, tokens middleware.TokenValidator, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix, middleware.JWT(tokens))
	admin := middleware.RequireRoles(models.RoleAdmin)

	api.GET("/metrics/summary", admin, h.Metrics.Summary)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", admin, h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PATCH("/:id", admin, h.Students.Update)
	students.DELETE("/:id", admin, h.Students.Delete)
	students.POST("/:id/enrollments", admin, h.Enrollments.Enroll)
	students.DELETE("/:id/enrollments/:courseId", admin, h.Enrollments.Unenroll)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", admin, h.Courses.Create)
	courses.POST("/status/bulk", admin, h.Courses.BulkStatus)
	courses.GET("/:id", h.Courses.Get)
	courses.PATCH("/:id", admin, h.Courses.Update)
	courses.DELETE("/:id", admin, h.Courses.Delete)
	courses.POST("/:id/enrollments/bulk", admin, h.Enrollments.BulkEnroll)

	mentors := api.Group("/mentors")
	mentors.GET("", h.Mentors.List)
	mentors.POST("", admin, h.Mentors.Create)
	mentors.GET("/:id", h.Mentors.Get)
	mentors.PATCH("/:id", admin, h.Mentors.Update)
	mentors.DELETE("/:id", admin, h.Mentors.Delete)
	mentors.POST("/:id/courses", admin, h.Mentors.Assign)
	mentors.DELETE("/:id/courses/:courseId", admin, h.Mentors.Unassign)

	classrooms := api.Group("/classrooms")
	classrooms.GET("", h.Classrooms.List)
	classrooms.POST("", admin, h.Classrooms.Create)
	classrooms.GET("/:id", h.Classrooms.Get)
	classrooms.PATCH("/:id", admin, h.Classrooms.Update)
	classrooms.DELETE("/:id", admin, h.Classrooms.Delete)
	classrooms.GET("/:id/schedule", h.Classrooms.Schedule)
	classrooms.POST("/:id/conflicts", h.Classrooms.Conflicts)
	classrooms.GET("/:id/availability", h.Classrooms.Availability)

	invoices := api.Group("/invoices")
	invoices.GET("", h.Invoices.List)
	invoices.POST("", admin, h.Invoices.Create)
	invoices.POST("/reminders/overdue", admin, h.Invoices.DispatchOverdue)
	invoices.GET("/:id", h.Invoices.Get)
	invoices.PATCH("/:id", admin, h.Invoices.Update)
	invoices.DELETE("/:id", admin, h.Invoices.Delete)
	invoices.GET("/:id/balance", h.Invoices.Balance)
	invoices.PUT("/:id/status", admin, h.Invoices.UpdateStatus)
	invoices.POST("/:id/payments", admin, h.Invoices.RecordPayment)
	invoices.POST("/:id/comments", admin, h.Invoices.AddComment)
	invoices.POST("/:id/reminders", admin, h.Invoices.SendReminder)

	api.GET("/payments", h.Billing.Payments)
	billing := api.Group("/billing")
	billing.GET("/stats", h.Billing.Stats)
	billing.GET("/export/invoices", h.Billing.ExportInvoices)
	billing.GET("/export/payments", h.Billing.ExportPayments)

	snapshots := api.Group("/snapshots", admin)
	snapshots.GET("/export", h.Snapshots.Export)
	snapshots.POST("/import", h.Snapshots.Import)
	snapshots.GET("", h.Snapshots.List)
	snapshots.POST("", h.Snapshots.Save)
	snapshots.POST("/:id/restore", h.Snapshots.Restore)
}
