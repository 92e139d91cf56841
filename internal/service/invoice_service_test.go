package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-ledger-api/internal/models"
	"github.com/noah-isme/academy-ledger-api/internal/repository"
	appErrors "github.com/noah-isme/academy-ledger-api/pkg/errors"
)

var billingAdmin = models.Actor{ID: "admin-1", Name: "Billing Admin"}

type fakeCacheRepo struct {
	entries       map[string][]byte
	sets          int
	invalidations []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.sets++
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.invalidations = append(f.invalidations, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func newInvoiceFixture(t *testing.T) (*InvoiceService, *repository.Store, *testClock) {
	t.Helper()
	store, clock := newTestStore(t)
	seed(t, store, func(tx *repository.Tx) {
		tx.PutStudent(models.Student{ID: "s1", ParentID: "p1", IsActive: true})
	})
	return NewInvoiceService(store, nil, nil, nil, nil, InvoiceConfig{}), store, clock
}

func createInvoice(t *testing.T, svc *InvoiceService, amount int64, due time.Time) *models.Invoice {
	t.Helper()
	invoice, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ParentID:  "p1",
		StudentID: "s1",
		Amount:    decimal.NewFromInt(amount),
		DueDate:   due,
		Status:    models.InvoiceStatusPending,
	}, billingAdmin)
	require.NoError(t, err)
	return invoice
}

func pay(t *testing.T, svc *InvoiceService, id string, amount int64, ref string) *models.Invoice {
	t.Helper()
	invoice, err := svc.RecordPayment(context.Background(), id, RecordPaymentRequest{
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: "cash",
		Reference:     ref,
	}, billingAdmin)
	require.NoError(t, err)
	return invoice
}

func TestInvoiceCreateDefaults(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)

	invoice, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ParentID:  "p1",
		StudentID: "s1",
		Amount:    decimal.NewFromInt(90),
		DueDate:   fixedNow.AddDate(0, 0, 14),
		Items: []models.InvoiceItem{
			{Description: "Lessons", Quantity: 3, UnitPrice: decimal.NewFromInt(30)},
		},
	}, billingAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, fixedNow, invoice.IssueDate)
	assert.Equal(t, "admin-1", invoice.LastModifiedBy)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].TotalPrice.Equal(decimal.NewFromInt(90)))
}

func TestInvoiceCreateValidation(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)
	ctx := context.Background()
	due := fixedNow.AddDate(0, 0, 7)

	_, err := svc.Create(ctx, CreateInvoiceRequest{ParentID: "p1", StudentID: "s1", Amount: decimal.Zero, DueDate: due}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, CreateInvoiceRequest{ParentID: "p1", StudentID: "s1", Amount: decimal.NewFromInt(1), DueDate: due, Status: "lost"}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, CreateInvoiceRequest{ParentID: "p1", StudentID: "ghost", Amount: decimal.NewFromInt(1), DueDate: due}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	svc, store, clock := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 350, fixedNow.AddDate(0, 1, 0))

	clock.Advance(time.Hour)
	afterFirst := pay(t, svc, invoice.ID, 200, "R1")
	assert.Equal(t, models.InvoiceStatusPartial, afterFirst.Status)
	assert.Nil(t, afterFirst.PaymentDate)

	clock.Advance(time.Hour)
	afterSecond := pay(t, svc, invoice.ID, 150, "")
	assert.Equal(t, models.InvoiceStatusPaid, afterSecond.Status)
	require.NotNil(t, afterSecond.PaymentDate)
	assert.Equal(t, clock.now, *afterSecond.PaymentDate)

	require.Len(t, afterSecond.Comments, 2)
	assert.Equal(t, "Payment of 200 received via cash (Ref: R1)", afterSecond.Comments[0].Comment)
	assert.Equal(t, "Payment of 150 received via cash", afterSecond.Comments[1].Comment)
	assert.Equal(t, models.CommentTypePayment, afterSecond.Comments[1].Type)
	assert.Equal(t, "Billing Admin", afterSecond.Comments[1].CreatedByName)

	paidAt := *afterSecond.PaymentDate
	clock.Advance(time.Hour)
	overpaid := pay(t, svc, invoice.ID, 10, "")
	assert.Equal(t, models.InvoiceStatusPaid, overpaid.Status)
	require.NotNil(t, overpaid.PaymentDate)
	assert.Equal(t, paidAt, *overpaid.PaymentDate)

	assert.Len(t, store.Export().Payments, 3)
}

func TestRecordPaymentDerivationIgnoresOrder(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)
	due := fixedNow.AddDate(0, 1, 0)

	first := createInvoice(t, svc, 300, due)
	pay(t, svc, first.ID, 100, "")
	forward := pay(t, svc, first.ID, 200, "")

	second := createInvoice(t, svc, 300, due)
	pay(t, svc, second.ID, 200, "")
	backward := pay(t, svc, second.ID, 100, "")

	assert.Equal(t, models.InvoiceStatusPaid, forward.Status)
	assert.Equal(t, forward.Status, backward.Status)

	repeated := pay(t, svc, first.ID, 50, "")
	assert.Equal(t, models.InvoiceStatusPaid, repeated.Status)
}

func TestRecordPaymentRejectsBadInput(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 100, fixedNow)
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{Amount: decimal.Zero, PaymentMethod: "cash"}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.RecordPayment(ctx, invoice.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(10)}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.RecordPayment(ctx, "ghost", RecordPaymentRequest{Amount: decimal.NewFromInt(10), PaymentMethod: "cash"}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUpdateStatusStampsAuditFields(t *testing.T) {
	svc, _, clock := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 100, fixedNow.AddDate(0, 0, 7))
	ctx := context.Background()
	actor := models.Actor{ID: "admin-2", Name: "Other Admin"}

	clock.Advance(time.Minute)
	sent, err := svc.UpdateStatus(ctx, invoice.ID, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusSent, Comment: "emailed"}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, sent.Status)
	assert.Equal(t, clock.now, sent.LastModified)
	assert.Equal(t, "admin-2", sent.LastModifiedBy)
	require.Len(t, sent.Comments, 1)
	assert.Equal(t, models.CommentTypeSystem, sent.Comments[0].Type)
	assert.Nil(t, sent.PaymentDate)

	paidAt := clock.now
	paid, err := svc.UpdateStatus(ctx, invoice.ID, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusPaid}, actor)
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, paidAt, *paid.PaymentDate)

	clock.Advance(time.Minute)
	again, err := svc.UpdateStatus(ctx, invoice.ID, UpdateInvoiceStatusRequest{Status: models.InvoiceStatusPaid}, actor)
	require.NoError(t, err)
	assert.Equal(t, paidAt, *again.PaymentDate)

	_, err = svc.UpdateStatus(ctx, invoice.ID, UpdateInvoiceStatusRequest{Status: "lost"}, actor)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAddCommentDefaultsToGeneral(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 100, fixedNow)

	updated, err := svc.AddComment(context.Background(), invoice.ID, AddCommentRequest{Comment: "called parent"}, billingAdmin)
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, models.CommentTypeGeneral, updated.Comments[0].Type)
	assert.Equal(t, models.InvoiceStatusPending, updated.Status)

	_, err = svc.AddComment(context.Background(), invoice.ID, AddCommentRequest{Comment: "x", Type: "shout"}, billingAdmin)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestOverdueIsDerivedOnRead(t *testing.T) {
	svc, _, clock := newInvoiceFixture(t)
	late := createInvoice(t, svc, 100, fixedNow.Add(time.Hour))
	createInvoice(t, svc, 100, fixedNow.AddDate(0, 1, 0))

	overdue, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overdue)

	clock.Advance(2 * time.Hour)
	overdue, err = svc.Overdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
	assert.Equal(t, models.InvoiceStatusPending, overdue[0].Status)

	balance, err := svc.Balance(context.Background(), late.ID)
	require.NoError(t, err)
	assert.True(t, balance.Overdue)
}

func TestPaymentHistoryNewestFirst(t *testing.T) {
	svc, _, clock := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 1000, fixedNow.AddDate(0, 1, 0))

	pay(t, svc, invoice.ID, 10, "first")
	pay(t, svc, invoice.ID, 20, "second")
	clock.Advance(time.Hour)
	pay(t, svc, invoice.ID, 30, "third")

	history, err := svc.PaymentHistory(context.Background(), invoice.ID)
	require.NoError(t, err)
	refs := make([]string, 0, len(history))
	for _, payment := range history {
		refs = append(refs, payment.Reference)
	}
	assert.Equal(t, []string{"third", "second", "first"}, refs)
}

func TestBalanceAndDeleteKeepsPayments(t *testing.T) {
	svc, store, _ := newInvoiceFixture(t)
	invoice := createInvoice(t, svc, 350, fixedNow.AddDate(0, 1, 0))
	pay(t, svc, invoice.ID, 200, "")

	balance, err := svc.Balance(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.True(t, balance.TotalPaid.Equal(decimal.NewFromInt(200)))
	assert.True(t, balance.Outstanding.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "USD", balance.Currency)

	require.NoError(t, svc.Delete(context.Background(), invoice.ID))
	_, err = svc.Get(context.Background(), invoice.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Len(t, store.Export().Payments, 1)

	assert.ErrorIs(t, svc.Delete(context.Background(), invoice.ID), appErrors.ErrNotFound)
}

func TestBillingStatsPartitionsByStatus(t *testing.T) {
	svc, _, _ := newInvoiceFixture(t)
	ctx := context.Background()

	paid := createInvoice(t, svc, 100, fixedNow.AddDate(0, 0, 7))
	pay(t, svc, paid.ID, 100, "")
	createInvoice(t, svc, 40, fixedNow.AddDate(0, 0, -1))
	createInvoice(t, svc, 60, fixedNow.AddDate(0, 0, 7))
	_, err := svc.Create(ctx, CreateInvoiceRequest{
		ParentID: "p1", StudentID: "s1", Amount: decimal.NewFromInt(999),
		IssueDate: timePtr(fixedNow.AddDate(0, -2, 0)), DueDate: fixedNow,
	}, billingAdmin)
	require.NoError(t, err)

	stats, err := svc.BillingStats(ctx, fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalInvoices)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 2, stats.PendingCount)
	assert.True(t, stats.PendingAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, stats.OverdueCount)
	assert.True(t, stats.OverdueAmount.Equal(decimal.NewFromInt(40)))

	_, err = svc.BillingStats(ctx, fixedNow, fixedNow.Add(-time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestBillingStatsCacheInvalidatedOnWrite(t *testing.T) {
	store, _ := newTestStore(t)
	seed(t, store, func(tx *repository.Tx) {
		tx.PutStudent(models.Student{ID: "s1", ParentID: "p1"})
	})
	repo := newFakeCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewInvoiceService(store, cache, nil, nil, nil, InvoiceConfig{Currency: "EUR"})
	ctx := context.Background()

	createInvoice(t, svc, 50, fixedNow.AddDate(0, 0, 7))
	stats, err := svc.BillingStats(ctx, fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalInvoices)
	assert.Equal(t, "EUR", stats.Currency)
	assert.Equal(t, 1, repo.sets)

	cached, err := svc.BillingStats(ctx, fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.TotalInvoices)
	assert.Equal(t, 1, repo.sets)

	createInvoice(t, svc, 70, fixedNow.AddDate(0, 0, 7))
	assert.Contains(t, repo.invalidations, billingKeyPattern)

	fresh, err := svc.BillingStats(ctx, fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TotalInvoices)
	assert.Equal(t, 2, repo.sets)
}

func timePtr(v time.Time) *time.Time { return &v }
