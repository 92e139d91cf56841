package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/response"
)

// BillingHandler exposes payment history, aggregates and exports.
type BillingHandler struct {
	invoices *service.InvoiceService
	exports  *service.ExportService
}

// NewBillingHandler constructs BillingHandler.
func NewBillingHandler(invoices *service.InvoiceService, exports *service.ExportService) *BillingHandler {
	return &BillingHandler{invoices: invoices, exports: exports}
}

// Payments godoc
// @Summary Payment history
// @Description Newest first. Without invoice_id the whole payment ledger is returned.
// @Tags Billing
// @Produce json
// @Param invoice_id query string false "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *BillingHandler) Payments(c *gin.Context) {
	payments, err := h.invoices.PaymentHistory(c.Request.Context(), c.Query("invoice_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, payments, len(payments))
}

// Stats godoc
// @Summary Billing statistics for invoices issued in a range
// @Tags Billing
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD or RFC3339)"
// @Param end query string true "End date, inclusive"
// @Success 200 {object} response.Envelope
// @Router /billing/stats [get]
func (h *BillingHandler) Stats(c *gin.Context) {
	start, ok, err := queryTime(c, "start", false)
	if err == nil && !ok {
		err = appErrors.Clone(appErrors.ErrValidation, "start is required")
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	end, ok, err := queryTime(c, "end", true)
	if err == nil && !ok {
		err = appErrors.Clone(appErrors.ErrValidation, "end is required")
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.invoices.BillingStats(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ExportInvoices godoc
// @Summary Export invoices
// @Tags Billing
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param parent_id query string false "Filter by parent"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Router /billing/export/invoices [get]
func (h *BillingHandler) ExportInvoices(c *gin.Context) {
	filter := models.InvoiceFilter{
		ParentID:  c.Query("parent_id"),
		StudentID: c.Query("student_id"),
		Status:    models.InvoiceStatus(c.Query("status")),
	}
	file, err := h.exports.ExportInvoices(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeFile(c, file)
}

// ExportPayments godoc
// @Summary Export payment history
// @Tags Billing
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param invoice_id query string false "Invoice ID"
// @Success 200 {file} file
// @Router /billing/export/payments [get]
func (h *BillingHandler) ExportPayments(c *gin.Context) {
	file, err := h.exports.ExportPayments(c.Request.Context(), c.Query("invoice_id"), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeFile(c, file)
}

func writeFile(c *gin.Context, file *models.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
