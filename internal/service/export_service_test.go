package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/export"
)

type billingStub struct {
	invoices   []models.Invoice
	payments   []models.PaymentRecord
	lastFilter models.InvoiceFilter
	lastID     string
	err        error
}

func (b *billingStub) List(_ context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	b.lastFilter = filter
	return b.invoices, b.err
}

func (b *billingStub) PaymentHistory(_ context.Context, invoiceID string) ([]models.PaymentRecord, error) {
	b.lastID = invoiceID
	return b.payments, b.err
}

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("disk full") }

func newExportServiceForTest(stub *billingStub) *ExportService {
	svc := NewExportService(stub, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestExportInvoicesCSV(t *testing.T) {
	stub := &billingStub{invoices: []models.Invoice{
		{ID: "inv-1", StudentID: "s1", ParentID: "p1", Amount: decimal.NewFromInt(200), Status: models.InvoiceStatusPaid,
			IssueDate: fixedNow, DueDate: fixedNow.AddDate(0, 0, 7)},
		{ID: "inv-2", StudentID: "s2", ParentID: "p1", Amount: decimal.RequireFromString("150.5"), Status: models.InvoiceStatusPending,
			IssueDate: fixedNow.AddDate(0, 0, -30), DueDate: fixedNow.AddDate(0, 0, -1)},
	}}
	svc := newExportServiceForTest(stub)

	file, err := svc.ExportInvoices(context.Background(), models.InvoiceFilter{ParentID: "p1"}, models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "p1", stub.lastFilter.ParentID)
	assert.Equal(t, "invoices_20240304_090000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, invoiceExportHeaders, records[0])
	assert.Equal(t, []string{"inv-2", "s2", "p1", "2024-02-03", "2024-03-03", "pending", "150.50", "true"}, records[2])
	assert.Equal(t, "Total", records[3][0])
	assert.Equal(t, "350.50", records[3][6])
}

func TestExportPaymentsPDF(t *testing.T) {
	stub := &billingStub{payments: []models.PaymentRecord{
		{ID: "pay-1", InvoiceID: "inv/1", Amount: decimal.NewFromInt(50), PaymentMethod: "card", PaymentDate: fixedNow, CreatedBy: "admin-1"},
	}}
	svc := newExportServiceForTest(stub)

	file, err := svc.ExportPayments(context.Background(), "inv/1", models.ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "inv/1", stub.lastID)
	assert.Equal(t, "payments_inv-1_20240304_090000.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportDefaultsAndFailures(t *testing.T) {
	stub := &billingStub{}
	svc := newExportServiceForTest(stub)
	ctx := context.Background()

	file, err := svc.ExportPayments(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "payments_20240304_090000.csv", file.Filename)

	_, err = svc.ExportInvoices(ctx, models.InvoiceFilter{}, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	broken := NewExportService(stub, failingRenderer{}, nil, nil)
	_, err = broken.ExportInvoices(ctx, models.InvoiceFilter{}, models.ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	stub.err = appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
	_, err = svc.ExportPayments(ctx, "ghost", models.ExportFormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "a_b-c-d", sanitizeFilename("a b/c:d"))
}
