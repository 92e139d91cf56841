package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// SnapshotHandler exposes export, import and persisted snapshots.
type SnapshotHandler struct {
	snapshots *service.SnapshotService
}

// NewSnapshotHandler constructs SnapshotHandler.
func NewSnapshotHandler(snapshots *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Export godoc
// @Summary Export the ledger state
// @Tags Snapshots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /snapshots/export [get]
func (h *SnapshotHandler) Export(c *gin.Context) {
	snapshot, err := h.snapshots.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snapshot)
}

// Import godoc
// @Summary Replace the ledger state
// @Description The snapshot is rejected unless every two-sided link is consistent.
// @Tags Snapshots
// @Accept json
// @Param payload body models.Snapshot true "Snapshot"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /snapshots/import [post]
func (h *SnapshotHandler) Import(c *gin.Context) {
	var snapshot models.Snapshot
	if !bindJSON(c, &snapshot) {
		return
	}
	if err := h.snapshots.Import(c.Request.Context(), snapshot); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Save godoc
// @Summary Persist the current state
// @Tags Snapshots
// @Accept json
// @Produce json
// @Param payload body labelRequest false "Optional label"
// @Success 201 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /snapshots [post]
func (h *SnapshotHandler) Save(c *gin.Context) {
	var req labelRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	saved, err := h.snapshots.Save(c.Request.Context(), req.Label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

// List godoc
// @Summary List persisted snapshots
// @Tags Snapshots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /snapshots [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	snapshots, err := h.snapshots.ListSaved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, snapshots, len(snapshots))
}

// Restore godoc
// @Summary Restore a persisted snapshot
// @Tags Snapshots
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} response.Envelope
// @Router /snapshots/{id}/restore [post]
func (h *SnapshotHandler) Restore(c *gin.Context) {
	saved, err := h.snapshots.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}
