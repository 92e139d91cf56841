package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// MentorHandler exposes mentor profiles and course assignment.
type MentorHandler struct {
	mentors     *service.MentorService
	assignments *service.AssignmentService
}

// NewMentorHandler constructs MentorHandler.
func NewMentorHandler(mentors *service.MentorService, assignments *service.AssignmentService) *MentorHandler {
	return &MentorHandler{mentors: mentors, assignments: assignments}
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Param user_id query string false "Only the profile owned by this user"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	if userID := c.Query("user_id"); userID != "" {
		mentor, err := h.mentors.GetByUserID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, appErrors.ErrNotFound):
			response.List(c, []models.Mentor{}, 0)
		case err != nil:
			response.Error(c, err)
		default:
			response.List(c, []models.Mentor{*mentor}, 1)
		}
		return
	}
	mentors, err := h.mentors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, mentors, len(mentors))
}

// Get godoc
// @Summary Get mentor detail
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.mentors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, mentor)
}

// Create godoc
// @Summary Create mentor profile
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body service.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req service.CreateMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.mentors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// Update godoc
// @Summary Update mentor profile
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body service.UpdateMentorRequest true "Mentor payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [patch]
func (h *MentorHandler) Update(c *gin.Context) {
	var req service.UpdateMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.mentors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, mentor)
}

// Delete godoc
// @Summary Delete mentor profile
// @Description Courses led by the mentor become inactive and unassigned.
// @Tags Mentors
// @Param id path string true "Mentor ID"
// @Success 204
// @Router /mentors/{id} [delete]
func (h *MentorHandler) Delete(c *gin.Context) {
	if err := h.mentors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assign godoc
// @Summary Assign a course to a mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body courseRef true "Course reference"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors/{id}/courses [post]
func (h *MentorHandler) Assign(c *gin.Context) {
	var req courseRef
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.assignments.Assign(c.Request.Context(), c.Param("id"), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// Unassign godoc
// @Summary Release a course from a mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/courses/{courseId} [delete]
func (h *MentorHandler) Unassign(c *gin.Context) {
	mentor, err := h.assignments.Unassign(c.Request.Context(), c.Param("id"), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, mentor)
}
