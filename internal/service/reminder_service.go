package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
	"github.com/noah-isme/academy-ledger-api/pkg/jobs"
)

const reminderJobType = "invoice_reminder"

type reminderLedger interface {
	SendReminder(ctx context.Context, id string) (*models.Invoice, error)
	Overdue(ctx context.Context) ([]models.Invoice, error)
}

type reminderQueue interface {
	Enqueue(job jobs.Job) error
}

// ReminderService dispatches payment reminders through the background queue.
type ReminderService struct {
	invoices reminderLedger
	queue    reminderQueue
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewReminderService constructs ReminderService. Use AttachQueue to wire the
// queue that runs Handle.
func NewReminderService(invoices reminderLedger, metrics *MetricsService, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{invoices: invoices, metrics: metrics, logger: logger}
}

// AttachQueue sets the queue used by DispatchOverdue.
func (s *ReminderService) AttachQueue(queue reminderQueue) {
	s.queue = queue
}

// Send records a reminder for a single invoice right away.
func (s *ReminderService) Send(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.invoices.SendReminder(ctx, invoiceID)
	s.metrics.ObserveReminder(err)
	return invoice, err
}

// DispatchOverdue queues one reminder job per overdue invoice.
func (s *ReminderService) DispatchOverdue(ctx context.Context) (*models.ReminderDispatch, error) {
	if s.queue == nil {
		return nil, appErrors.Internal(errors.New("reminder queue not configured"), "reminders unavailable")
	}
	overdue, err := s.invoices.Overdue(ctx)
	if err != nil {
		return nil, err
	}
	result := &models.ReminderDispatch{Queued: []string{}, Failed: []models.BulkFailure{}}
	for _, invoice := range overdue {
		job := jobs.Job{ID: uuid.NewString(), Type: reminderJobType, Payload: invoice.ID}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to queue reminder", zap.String("invoice_id", invoice.ID), zap.Error(err))
			result.Failed = append(result.Failed, models.BulkFailure{ID: invoice.ID, Code: appErrors.ErrInternal.Code, Reason: err.Error()})
			continue
		}
		result.Queued = append(result.Queued, invoice.ID)
	}
	s.logger.Info("overdue reminders queued", zap.Int("queued", len(result.Queued)), zap.Int("failed", len(result.Failed)))
	return result, nil
}

// Handle processes a reminder job. Invoices deleted since the job was queued
// are skipped rather than retried.
func (s *ReminderService) Handle(ctx context.Context, job jobs.Job) error {
	invoiceID, ok := job.Payload.(string)
	if !ok || invoiceID == "" {
		return fmt.Errorf("reminder job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := s.Send(ctx, invoiceID)
	if errors.Is(err, appErrors.ErrNotFound) {
		s.logger.Warn("skipping reminder for missing invoice", zap.String("invoice_id", invoiceID))
		return nil
	}
	return err
}
