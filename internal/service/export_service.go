package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/export"
)

type billingSource interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	PaymentHistory(ctx context.Context, invoiceID string) ([]models.PaymentRecord, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

var (
	invoiceExportHeaders = []string{"Invoice", "Student", "Parent", "Issued", "Due", "Status", "Amount", "Overdue"}
	paymentExportHeaders = []string{"Payment", "Invoice", "Amount", "Method", "Reference", "Paid On", "Recorded By"}
)

// ExportService renders billing data as CSV or PDF documents.
type ExportService struct {
	billing billingSource
	csv     csvRenderer
	pdf     pdfRenderer
	now     func() time.Time
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(billing billingSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		billing: billing,
		csv:     csv,
		pdf:     pdf,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
}

// ExportInvoices renders the invoices matching filter.
func (s *ExportService) ExportInvoices(ctx context.Context, filter models.InvoiceFilter, format models.ExportFormat) (*models.ExportFile, error) {
	invoices, err := s.billing.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dataset := export.Dataset{Headers: invoiceExportHeaders}
	total := decimal.Zero
	for _, invoice := range invoices {
		total = total.Add(invoice.Amount)
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Invoice": invoice.ID,
			"Student": invoice.StudentID,
			"Parent":  invoice.ParentID,
			"Issued":  invoice.IssueDate.Format("2006-01-02"),
			"Due":     invoice.DueDate.Format("2006-01-02"),
			"Status":  string(invoice.Status),
			"Amount":  invoice.Amount.StringFixed(2),
			"Overdue": strconv.FormatBool(invoice.IsOverdue(now)),
		})
	}
	dataset.Totals = map[string]string{"Invoice": "Total", "Amount": total.StringFixed(2)}
	return s.render(dataset, "Invoices", "invoices", format)
}

// ExportPayments renders the payment history, optionally for one invoice.
func (s *ExportService) ExportPayments(ctx context.Context, invoiceID string, format models.ExportFormat) (*models.ExportFile, error) {
	payments, err := s.billing.PaymentHistory(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: paymentExportHeaders}
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Payment":     payment.ID,
			"Invoice":     payment.InvoiceID,
			"Amount":      payment.Amount.StringFixed(2),
			"Method":      payment.PaymentMethod,
			"Reference":   payment.Reference,
			"Paid On":     payment.PaymentDate.Format("2006-01-02"),
			"Recorded By": payment.CreatedBy,
		})
	}
	dataset.Totals = map[string]string{"Payment": "Total", "Amount": total.StringFixed(2)}
	title := "Payment History"
	name := "payments"
	if invoiceID != "" {
		title = fmt.Sprintf("Payments for invoice %s", invoiceID)
		name = "payments_" + sanitizeFilename(invoiceID)
	}
	return s.render(dataset, title, name, format)
}

func (s *ExportService) render(dataset export.Dataset, title, name string, format models.ExportFormat) (*models.ExportFile, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case models.ExportFormatCSV, "":
		format = models.ExportFormatCSV
		contentType = "text/csv"
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		contentType = "application/pdf"
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	filename := fmt.Sprintf("%s_%s.%s", name, s.now().Format("20060102_150405"), format)
	s.logger.Info("billing export rendered", zap.String("file", filename), zap.Int("rows", len(dataset.Rows)))
	return &models.ExportFile{Filename: filename, ContentType: contentType, Data: payload}, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
