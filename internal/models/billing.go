package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStats aggregates invoices issued inside a date range.
type BillingStats struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalInvoices int             `json:"total_invoices"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	PaidCount     int             `json:"paid_count"`
	PendingCount  int             `json:"pending_count"`
	OverdueCount  int             `json:"overdue_count"`
	Currency      string          `json:"currency"`
}

// InvoiceBalance summarises what has been paid against an invoice.
type InvoiceBalance struct {
	InvoiceID   string          `json:"invoice_id"`
	Status      InvoiceStatus   `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Overdue     bool            `json:"overdue"`
	Currency    string          `json:"currency"`
}

// ReminderDispatch reports which overdue invoices were queued for a reminder.
type ReminderDispatch struct {
	Queued []string      `json:"queued"`
	Failed []BulkFailure `json:"failed"`
}
