package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates the billing lifecycle of an invoice.
type InvoiceStatus string

// Invoice statuses. Overdue may be stored when set explicitly but is
// otherwise derived on read, see Invoice.IsOverdue.
const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

// Valid reports whether the status is one of the known values.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// CommentType classifies invoice comments.
type CommentType string

// Comment types.
const (
	CommentTypeGeneral  CommentType = "general"
	CommentTypePayment  CommentType = "payment"
	CommentTypeReminder CommentType = "reminder"
	CommentTypeDispute  CommentType = "dispute"
	CommentTypeSystem   CommentType = "system"
)

// Valid reports whether the comment type is known.
func (t CommentType) Valid() bool {
	switch t {
	case CommentTypeGeneral, CommentTypePayment, CommentTypeReminder, CommentTypeDispute, CommentTypeSystem:
		return true
	}
	return false
}

// BillingPeriod bounds the service period of an invoice line.
type BillingPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	CourseID    string          `json:"course_id"`
	CourseName  string          `json:"course_name"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Description string          `json:"description,omitempty"`
	Period      *BillingPeriod  `json:"period,omitempty"`
}

// InvoiceComment is an append-only audit entry on an invoice.
type InvoiceComment struct {
	ID            string      `json:"id"`
	Comment       string      `json:"comment"`
	Type          CommentType `json:"type"`
	CreatedBy     string      `json:"created_by"`
	CreatedByName string      `json:"created_by_name"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Invoice is a bill issued to a parent for a student.
type Invoice struct {
	ID             string           `json:"id"`
	ParentID       string           `json:"parent_id"`
	StudentID      string           `json:"student_id"`
	Amount         decimal.Decimal  `json:"amount"`
	IssueDate      time.Time        `json:"issue_date"`
	DueDate        time.Time        `json:"due_date"`
	Status         InvoiceStatus    `json:"status"`
	Items          []InvoiceItem    `json:"items"`
	Comments       []InvoiceComment `json:"comments"`
	PaymentDate    *time.Time       `json:"payment_date,omitempty"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	LastModified   time.Time        `json:"last_modified"`
	LastModifiedBy string           `json:"last_modified_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Clone returns a deep copy of the invoice.
func (i Invoice) Clone() Invoice {
	cp := i
	cp.Items = make([]InvoiceItem, len(i.Items))
	for idx, item := range i.Items {
		if item.Period != nil {
			period := *item.Period
			item.Period = &period
		}
		cp.Items[idx] = item
	}
	cp.Comments = append([]InvoiceComment{}, i.Comments...)
	if i.PaymentDate != nil {
		paid := *i.PaymentDate
		cp.PaymentDate = &paid
	}
	return cp
}

// IsOverdue derives the overdue state at now: the invoice still expects
// money and its due date has passed.
func (i Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case InvoiceStatusOverdue:
		return true
	case InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPartial:
		return i.DueDate.Before(now)
	}
	return false
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	ParentID  string
	StudentID string
	Status    InvoiceStatus
}

// Matches reports whether the invoice satisfies the filter.
func (f InvoiceFilter) Matches(i Invoice) bool {
	if f.ParentID != "" && i.ParentID != f.ParentID {
		return false
	}
	if f.StudentID != "" && i.StudentID != f.StudentID {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	return true
}

// PaymentRecord is an immutable payment against an invoice.
type PaymentRecord struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
