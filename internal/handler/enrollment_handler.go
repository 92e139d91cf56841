package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment ledger.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Enroll a student into a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body courseRef true "Course reference"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req courseRef
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.enrollments.Enroll(c.Request.Context(), c.Param("id"), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Unenroll godoc
// @Summary Remove a student from a course
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments/{courseId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	student, err := h.enrollments.Unenroll(c.Request.Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// BulkEnroll godoc
// @Summary Enroll several students into a course
// @Description Each student is enrolled independently; failures are reported per id.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.BulkEnrollRequest true "Student ids"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/enrollments/bulk [post]
func (h *EnrollmentHandler) BulkEnroll(c *gin.Context) {
	var req models.BulkEnrollRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.enrollments.BulkEnroll(c.Request.Context(), c.Param("id"), req.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
