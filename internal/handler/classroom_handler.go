package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// ClassroomHandler exposes classrooms and their schedule checks.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	schedule   *service.ScheduleService
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms *service.ClassroomService, schedule *service.ScheduleService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, schedule: schedule}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	classrooms, err := h.classrooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, classrooms, len(classrooms))
}

// Get godoc
// @Summary Get classroom detail
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroom, err := h.classrooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// Create godoc
// @Summary Create classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body service.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req service.CreateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}
	classroom, err := h.classrooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// Update godoc
// @Summary Update classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param payload body service.UpdateClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [patch]
func (h *ClassroomHandler) Update(c *gin.Context) {
	var req service.UpdateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}
	classroom, err := h.classrooms.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// Delete godoc
// @Summary Delete classroom
// @Tags Classrooms
// @Param id path string true "Classroom ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /classrooms/{id} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	if err := h.classrooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Schedule godoc
// @Summary Weekly schedule of a classroom
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/schedule [get]
func (h *ClassroomHandler) Schedule(c *gin.Context) {
	entries, err := h.schedule.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, entries, len(entries))
}

// Conflicts godoc
// @Summary Check candidate slots against a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param payload body models.ConflictCheck true "Candidate slots"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/conflicts [post]
func (h *ClassroomHandler) Conflicts(c *gin.Context) {
	var check models.ConflictCheck
	if !bindJSON(c, &check) {
		return
	}
	check.ClassroomID = c.Param("id")
	report, err := h.schedule.FindConflicts(c.Request.Context(), check)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Availability godoc
// @Summary Check whether a classroom is free
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Param day query int true "Day of week, 0 is Sunday"
// @Param start query string true "Start time HH:MM"
// @Param end query string true "End time HH:MM"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/availability [get]
func (h *ClassroomHandler) Availability(c *gin.Context) {
	if c.Query("day") == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day is required"))
		return
	}
	var query models.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid availability query"))
		return
	}
	query.ClassroomID = c.Param("id")
	availability, err := h.schedule.IsAvailable(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, availability)
}
