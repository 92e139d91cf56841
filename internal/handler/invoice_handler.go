package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/middleware"
	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// InvoiceHandler exposes the invoice ledger and reminders.
type InvoiceHandler struct {
	invoices  *service.InvoiceService
	reminders *service.ReminderService
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(invoices *service.InvoiceService, reminders *service.ReminderService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, reminders: reminders}
}

// List godoc
// @Summary List invoices
// @Description overdue=true returns only invoices that are past due and still expect payment.
// @Tags Invoices
// @Produce json
// @Param parent_id query string false "Filter by parent"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by stored status"
// @Param overdue query bool false "Only overdue invoices"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	overdue, err := queryBool(c, "overdue")
	if err != nil {
		response.Error(c, err)
		return
	}
	var invoices []models.Invoice
	if overdue != nil && *overdue {
		invoices, err = h.invoices.Overdue(c.Request.Context())
	} else {
		invoices, err = h.invoices.List(c.Request.Context(), models.InvoiceFilter{
			ParentID:  c.Query("parent_id"),
			StudentID: c.Query("student_id"),
			Status:    models.InvoiceStatus(c.Query("status")),
		})
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, invoices, len(invoices))
}

// Get godoc
// @Summary Get invoice detail
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// Create godoc
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param payload body service.CreateInvoiceRequest true "Invoice payload"
// @Success 201 {object} response.Envelope
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Create(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// Update godoc
// @Summary Update invoice
// @Description Status changes go through the status endpoint.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body service.UpdateInvoiceRequest true "Invoice payload"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [patch]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Update(c.Request.Context(), c.Param("id"), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// Delete godoc
// @Summary Delete invoice
// @Description Recorded payments are kept.
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Balance godoc
// @Summary Paid and outstanding amounts of an invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/balance [get]
func (h *InvoiceHandler) Balance(c *gin.Context) {
	balance, err := h.invoices.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, balance)
}

// UpdateStatus godoc
// @Summary Change invoice status
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body service.UpdateInvoiceStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateInvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.UpdateStatus(c.Request.Context(), c.Param("id"), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// RecordPayment godoc
// @Summary Record a payment
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.RecordPayment(c.Request.Context(), c.Param("id"), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// AddComment godoc
// @Summary Comment on an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body service.AddCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /invoices/{id}/comments [post]
func (h *InvoiceHandler) AddComment(c *gin.Context) {
	var req service.AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.AddComment(c.Request.Context(), c.Param("id"), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// SendReminder godoc
// @Summary Send a payment reminder
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/reminders [post]
func (h *InvoiceHandler) SendReminder(c *gin.Context) {
	invoice, err := h.reminders.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// DispatchOverdue godoc
// @Summary Queue reminders for every overdue invoice
// @Tags Invoices
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /invoices/reminders/overdue [post]
func (h *InvoiceHandler) DispatchOverdue(c *gin.Context) {
	dispatch, err := h.reminders.DispatchOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dispatch)
}
