package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/timeslot"
)

const reminderCommentText = "Payment reminder sent to parent"

// CreateInvoiceRequest describes a new invoice.
type CreateInvoiceRequest struct {
	ParentID      string               `json:"parent_id" validate:"required"`
	StudentID     string               `json:"student_id" validate:"required"`
	Amount        decimal.Decimal      `json:"amount"`
	IssueDate     *time.Time           `json:"issue_date"`
	DueDate       time.Time            `json:"due_date" validate:"required"`
	Status        models.InvoiceStatus `json:"status"`
	Items         []models.InvoiceItem `json:"items" validate:"dive"`
	PaymentMethod string               `json:"payment_method"`
}

// UpdateInvoiceRequest carries a partial invoice update. Status changes go
// through UpdateStatus so they are audited.
type UpdateInvoiceRequest struct {
	Amount        *decimal.Decimal      `json:"amount"`
	IssueDate     *time.Time            `json:"issue_date"`
	DueDate       *time.Time            `json:"due_date"`
	Items         *[]models.InvoiceItem `json:"items" validate:"omitempty,dive"`
	PaymentMethod *string               `json:"payment_method"`
}

// UpdateInvoiceStatusRequest moves an invoice to another status.
type UpdateInvoiceStatusRequest struct {
	Status  models.InvoiceStatus `json:"status" validate:"required"`
	Comment string               `json:"comment"`
}

// RecordPaymentRequest describes a payment against an invoice.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
}

// AddCommentRequest appends a comment to an invoice.
type AddCommentRequest struct {
	Comment string             `json:"comment" validate:"required"`
	Type    models.CommentType `json:"type"`
}

// InvoiceConfig tunes invoice behaviour.
type InvoiceConfig struct {
	Currency string
	StatsTTL time.Duration
}

// InvoiceService is the invoice ledger. Payments are append-only and the
// paid total is always recomputed from the full payment history.
type InvoiceService struct {
	store     ledgerStore
	cache     *CacheService
	validator *validator.Validate
	metrics   ledgerMetrics
	logger    *zap.Logger
	cfg       InvoiceConfig
}

// NewInvoiceService constructs InvoiceService. cache may be nil.
func NewInvoiceService(store ledgerStore, cache *CacheService, validate *validator.Validate, metrics ledgerMetrics, logger *zap.Logger, cfg InvoiceConfig) *InvoiceService {
	if validate == nil {
		validate = timeslot.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &InvoiceService{store: store, cache: cache, validator: validate, metrics: metricsOrNoop(metrics), logger: logger, cfg: cfg}
}

func normaliseItems(items []models.InvoiceItem) ([]models.InvoiceItem, error) {
	out := make([]models.InvoiceItem, 0, len(items))
	for i, item := range items {
		if item.UnitPrice.IsNegative() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("item %d: unit price must not be negative", i))
		}
		if item.TotalPrice.IsZero() {
			item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		out = append(out, item)
	}
	return out, nil
}

// Create stores a new invoice. Status defaults to draft.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest, actor models.Actor) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid invoice payload")
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}
	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown invoice status")
	}
	items, err := normaliseItems(req.Items)
	if err != nil {
		return nil, err
	}

	var created models.Invoice
	err = s.store.Update(ctx, func(tx *repository.Tx) error {
		if _, err := loadStudent(tx.ReadTx, req.StudentID); err != nil {
			return err
		}
		now := tx.Now()
		issued := now
		if req.IssueDate != nil {
			issued = *req.IssueDate
		}
		created = models.Invoice{
			ID:             tx.NewID(),
			ParentID:       req.ParentID,
			StudentID:      req.StudentID,
			Amount:         req.Amount,
			IssueDate:      issued,
			DueDate:        req.DueDate,
			Status:         status,
			Items:          items,
			Comments:       []models.InvoiceComment{},
			PaymentMethod:  req.PaymentMethod,
			LastModified:   now,
			LastModifiedBy: actor.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		tx.PutInvoice(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("invoice created", zap.String("invoice_id", created.ID), zap.String("student_id", created.StudentID))
	return &created, nil
}

// Get returns an invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		var err error
		invoice, err = loadInvoice(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices matching the filter in creation order.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		for _, invoice := range tx.Invoices() {
			if filter.Matches(invoice) {
				invoices = append(invoices, invoice)
			}
		}
		return nil
	})
	return invoices, err
}

// Update applies a partial update and stamps the audit fields.
func (s *InvoiceService) Update(ctx context.Context, id string, req UpdateInvoiceRequest, actor models.Actor) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid invoice payload")
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}
	var items []models.InvoiceItem
	if req.Items != nil {
		var err error
		if items, err = normaliseItems(*req.Items); err != nil {
			return nil, err
		}
	}

	var updated models.Invoice
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		invoice, err := loadInvoice(tx.ReadTx, id)
		if err != nil {
			return err
		}
		if req.Amount != nil {
			invoice.Amount = *req.Amount
		}
		if req.IssueDate != nil {
			invoice.IssueDate = *req.IssueDate
		}
		if req.DueDate != nil {
			invoice.DueDate = *req.DueDate
		}
		if req.Items != nil {
			invoice.Items = items
		}
		if req.PaymentMethod != nil {
			invoice.PaymentMethod = *req.PaymentMethod
		}
		stamp(&invoice, actor, tx.Now())
		tx.PutInvoice(invoice)
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &updated, nil
}

// Delete removes an invoice. Its payments stay in the payment ledger.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		if !tx.DeleteInvoice(id) {
			return invoiceNotFound()
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

// UpdateStatus moves the invoice to any status. A non-empty comment is kept
// as a system comment. Marking an invoice paid stamps the payment date once.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id string, req UpdateInvoiceStatusRequest, actor models.Actor) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown invoice status")
	}

	start := time.Now()
	var updated models.Invoice
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		invoice, err := loadInvoice(tx.ReadTx, id)
		if err != nil {
			return err
		}
		now := tx.Now()
		invoice.Status = req.Status
		stamp(&invoice, actor, now)
		if req.Comment != "" {
			invoice.Comments = append(invoice.Comments, newComment(tx, req.Comment, models.CommentTypeSystem, actor, now))
		}
		if req.Status == models.InvoiceStatusPaid && invoice.PaymentDate == nil {
			paid := now
			invoice.PaymentDate = &paid
		}
		tx.PutInvoice(invoice)
		updated = invoice
		return nil
	})
	s.metrics.ObserveLedgerOperation("update_invoice_status", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("invoice status updated",
		zap.String("invoice_id", id),
		zap.String("status", string(req.Status)),
		zap.String("actor_id", actor.ID))
	return &updated, nil
}

// RecordPayment appends a payment and re-derives the invoice status from the
// sum of every payment recorded against it.
func (s *InvoiceService) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest, actor models.Actor) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment payload")
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment amount must be greater than zero")
	}

	start := time.Now()
	var updated models.Invoice
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		invoice, err := loadInvoice(tx.ReadTx, id)
		if err != nil {
			return err
		}
		now := tx.Now()
		paidOn := now
		if req.PaymentDate != nil {
			paidOn = *req.PaymentDate
		}
		tx.AppendPayment(models.PaymentRecord{
			ID:            tx.NewID(),
			InvoiceID:     id,
			Amount:        req.Amount,
			PaymentDate:   paidOn,
			PaymentMethod: req.PaymentMethod,
			Reference:     req.Reference,
			Notes:         req.Notes,
			CreatedBy:     actor.ID,
			CreatedAt:     now,
		})

		applyPaymentStatus(&invoice, totalPaid(tx.Payments(id)), now)
		invoice.Comments = append(invoice.Comments, newComment(tx, paymentComment(req), models.CommentTypePayment, actor, now))
		invoice.UpdatedAt = now
		tx.PutInvoice(invoice)
		updated = invoice
		return nil
	})
	s.metrics.ObserveLedgerOperation("record_payment", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("payment recorded",
		zap.String("invoice_id", id),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(updated.Status)))
	return &updated, nil
}

// AddComment appends a comment without touching the status.
func (s *InvoiceService) AddComment(ctx context.Context, id string, req AddCommentRequest, actor models.Actor) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid comment payload")
	}
	if req.Type == "" {
		req.Type = models.CommentTypeGeneral
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown comment type")
	}
	var updated models.Invoice
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		invoice, err := loadInvoice(tx.ReadTx, id)
		if err != nil {
			return err
		}
		now := tx.Now()
		invoice.Comments = append(invoice.Comments, newComment(tx, req.Comment, req.Type, actor, now))
		invoice.UpdatedAt = now
		tx.PutInvoice(invoice)
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SendReminder records that a payment reminder went out for the invoice.
func (s *InvoiceService) SendReminder(ctx context.Context, id string) (*models.Invoice, error) {
	var updated models.Invoice
	err := s.store.Update(ctx, func(tx *repository.Tx) error {
		invoice, err := loadInvoice(tx.ReadTx, id)
		if err != nil {
			return err
		}
		now := tx.Now()
		invoice.Comments = append(invoice.Comments, newComment(tx, reminderCommentText, models.CommentTypeReminder, models.SystemActor, now))
		invoice.UpdatedAt = now
		tx.PutInvoice(invoice)
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("invoice reminder sent", zap.String("invoice_id", id), zap.String("parent_id", updated.ParentID))
	return &updated, nil
}

// Overdue lists invoices that are past due while still expecting payment.
func (s *InvoiceService) Overdue(ctx context.Context) ([]models.Invoice, error) {
	overdue := []models.Invoice{}
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		now := tx.Now()
		for _, invoice := range tx.Invoices() {
			if invoice.IsOverdue(now) {
				overdue = append(overdue, invoice)
			}
		}
		return nil
	})
	return overdue, err
}

// PaymentHistory returns payments newest first. An empty invoiceID returns
// the whole payment ledger. Payments created at the same instant are listed
// most recently recorded first.
func (s *InvoiceService) PaymentHistory(ctx context.Context, invoiceID string) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		payments = tx.Payments(invoiceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(payments)-1; i < j; i, j = i+1, j-1 {
		payments[i], payments[j] = payments[j], payments[i]
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// Balance reports the paid total and the outstanding amount of an invoice.
func (s *InvoiceService) Balance(ctx context.Context, id string) (*models.InvoiceBalance, error) {
	var balance models.InvoiceBalance
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		invoice, err := loadInvoice(tx, id)
		if err != nil {
			return err
		}
		paid := totalPaid(tx.Payments(id))
		outstanding := invoice.Amount.Sub(paid)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		balance = models.InvoiceBalance{
			InvoiceID:   id,
			Status:      invoice.Status,
			Amount:      invoice.Amount,
			TotalPaid:   paid,
			Outstanding: outstanding,
			Overdue:     invoice.IsOverdue(tx.Now()),
			Currency:    s.cfg.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// BillingStats aggregates invoices issued between start and end inclusive.
// An invoice counts as overdue when it is pending and past its due date.
func (s *InvoiceService) BillingStats(ctx context.Context, start, end time.Time) (*models.BillingStats, error) {
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must not be before start")
	}
	key := billingStatsKey(start, end)
	var cached models.BillingStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	stats := models.BillingStats{
		StartDate:     start,
		EndDate:       end,
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		OverdueAmount: decimal.Zero,
		Currency:      s.cfg.Currency,
	}
	err := s.store.View(ctx, func(tx repository.ReadTx) error {
		now := tx.Now()
		for _, invoice := range tx.Invoices() {
			if invoice.IssueDate.Before(start) || invoice.IssueDate.After(end) {
				continue
			}
			stats.TotalInvoices++
			stats.TotalAmount = stats.TotalAmount.Add(invoice.Amount)
			switch invoice.Status {
			case models.InvoiceStatusPaid:
				stats.PaidCount++
				stats.PaidAmount = stats.PaidAmount.Add(invoice.Amount)
			case models.InvoiceStatusPending:
				stats.PendingCount++
				stats.PendingAmount = stats.PendingAmount.Add(invoice.Amount)
				if invoice.DueDate.Before(now) {
					stats.OverdueCount++
					stats.OverdueAmount = stats.OverdueAmount.Add(invoice.Amount)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, stats, s.cfg.StatsTTL)
	return &stats, nil
}

func (s *InvoiceService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, billingKeyPattern)
}

func stamp(invoice *models.Invoice, actor models.Actor, now time.Time) {
	invoice.LastModified = now
	invoice.LastModifiedBy = actor.ID
	invoice.UpdatedAt = now
}

func newComment(tx *repository.Tx, text string, kind models.CommentType, actor models.Actor, now time.Time) models.InvoiceComment {
	name := actor.Name
	if name == "" {
		name = models.SystemActor.Name
	}
	return models.InvoiceComment{
		ID:            tx.NewID(),
		Comment:       text,
		Type:          kind,
		CreatedBy:     actor.ID,
		CreatedByName: name,
		CreatedAt:     now,
	}
}

func totalPaid(payments []models.PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total
}

// applyPaymentStatus derives the status from the paid total. Zero payments
// leave the status alone. The payment date is stamped once.
func applyPaymentStatus(invoice *models.Invoice, paid decimal.Decimal, now time.Time) {
	switch {
	case paid.GreaterThanOrEqual(invoice.Amount):
		invoice.Status = models.InvoiceStatusPaid
		if invoice.PaymentDate == nil {
			paidAt := now
			invoice.PaymentDate = &paidAt
		}
	case paid.IsPositive():
		invoice.Status = models.InvoiceStatusPartial
	}
}

func paymentComment(req RecordPaymentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment of %s received via %s", req.Amount.String(), req.PaymentMethod)
	if req.Reference != "" {
		fmt.Fprintf(&b, " (Ref: %s)", req.Reference)
	}
	return b.String()
}
