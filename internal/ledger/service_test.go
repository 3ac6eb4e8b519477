package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
)

type fixture struct {
	svc       *Service
	customers *store.CustomerStore
	invoices  *store.InvoiceStore
	entries   *store.LedgerStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := store.Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	customers := store.NewCustomerStore(db)
	invoices := store.NewInvoiceStore(db)
	entries := store.NewLedgerStore(db)
	svc := New(Options{LargeCreditThreshold: 10000, OverdueDays: 30}, customers, entries, invoices, log)
	return &fixture{svc: svc, customers: customers, invoices: invoices, entries: entries}
}

func (f *fixture) addCustomer(t *testing.T, name string, totalCredit, creditLimit float64) *domain.Customer {
	t.Helper()
	c := &domain.Customer{
		ID:          uuid.New().String(),
		Name:        name,
		TotalCredit: totalCredit,
		CreditLimit: creditLimit,
	}
	require.NoError(t, f.customers.Insert(c))
	return c
}

func (f *fixture) addInvoice(t *testing.T, customerID string, total float64, createdAt time.Time) *domain.Invoice {
	t.Helper()
	inv := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: "KT/test/" + uuid.New().String()[:8],
		Type:          domain.InvoicePucca,
		CustomerID:    customerID,
		CustomerName:  "test",
		Items: []domain.InvoiceLineItem{
			{Name: "Fabric", Quantity: 1, Rate: total, TaxableAmount: total, TotalAmount: total},
		},
		Subtotal:      total,
		GrandTotal:    total,
		PaymentStatus: domain.PaymentPending,
		BalanceDue:    total,
		CreatedAt:     createdAt,
		DueDate:       createdAt.AddDate(0, 0, 30),
	}
	require.NoError(t, f.invoices.Insert(inv))
	return inv
}

func TestAddCredit_Applied(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	result, err := f.svc.AddCredit(c.ID, 5000, "", "silk order")
	require.NoError(t, err)
	assert.False(t, result.Gated)
	require.NotNil(t, result.Applied)
	assert.Equal(t, 5000.0, result.Applied.BalanceAfter)

	got, err := f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got.TotalCredit)
}

func TestAddCredit_ThresholdBoundary(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	// exactly at the threshold passes
	result, err := f.svc.AddCredit(c.ID, 10000, "", "")
	require.NoError(t, err)
	assert.False(t, result.Gated)

	// one paisa over is gated
	result, err = f.svc.AddCredit(c.ID, 10000.01, "", "")
	require.NoError(t, err)
	assert.True(t, result.Gated)
	require.NotNil(t, result.Request)
	assert.Equal(t, domain.HITLLargeCredit, result.Request.Type)
	assert.Equal(t, domain.HITLPending, result.Request.Status)

	// gated credit did not touch the balance
	got, err := f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, got.TotalCredit)
}

func TestAddCredit_GatedOverCreditLimit(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 48000, 50000)

	// small amount, but it would push past the 50k limit
	result, err := f.svc.AddCredit(c.ID, 3000, "", "")
	require.NoError(t, err)
	assert.True(t, result.Gated)

	got, err := f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, got.TotalCredit)
}

func TestAddCredit_RejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	_, err := f.svc.AddCredit(c.ID, 0, "", "")
	require.Error(t, err)
	_, err = f.svc.AddCredit(c.ID, -100, "", "")
	require.Error(t, err)
}

func TestApprove_AppliesGatedCredit(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	result, err := f.svc.AddCredit(c.ID, 15000, "", "bulk order")
	require.NoError(t, err)
	require.True(t, result.Gated)

	req, err := f.svc.Approve(result.Request.ID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, domain.HITLApproved, req.Status)

	got, err := f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, got.TotalCredit)

	// approving again is a no-op, the credit is not applied twice
	again, err := f.svc.Approve(result.Request.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	got, err = f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, got.TotalCredit)
}

func TestReject_LeavesBalanceAlone(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	result, err := f.svc.AddCredit(c.ID, 15000, "", "")
	require.NoError(t, err)
	require.True(t, result.Gated)

	req, err := f.svc.Reject(result.Request.ID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, domain.HITLRejected, req.Status)

	got, err := f.customers.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.TotalCredit)
}

func TestRecordPayment_AutoAppliesToOldestInvoice(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 8000, 50000)
	now := time.Now().UTC()
	oldest := f.addInvoice(t, c.ID, 5000, now.AddDate(0, 0, -40))
	f.addInvoice(t, c.ID, 3000, now)

	entry, err := f.svc.RecordPayment(c.ID, 5000, domain.MethodUPI, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, entry.BalanceAfter)
	assert.Equal(t, oldest.ID, entry.InvoiceID)

	got, err := f.invoices.Get(oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
}

func TestRecordPayment_OverpaymentFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 2000, 50000)

	entry, err := f.svc.RecordPayment(c.ID, 9999, domain.MethodCash, "", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, entry.BalanceAfter)
}

func TestOverdueAndReminders(t *testing.T) {
	f := newFixture(t)
	c1 := f.addCustomer(t, "Ramesh", 5000, 50000)
	c2 := f.addCustomer(t, "Suresh", 0, 50000)
	now := time.Now().UTC()
	f.addInvoice(t, c1.ID, 5000, now.AddDate(0, 0, -60))
	f.addInvoice(t, c2.ID, 3000, now)

	overdue, err := f.svc.Overdue()
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, c1.ID, overdue[0].CustomerID)

	requests, err := f.svc.RequestReminders()
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, domain.HITLCreditReminder, requests[0].Type)
	assert.Equal(t, domain.HITLPending, requests[0].Status)
	assert.Equal(t, 5000.0, requests[0].Amount)

	// reminder approval resolves without touching any balance
	req, err := f.svc.Approve(requests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HITLApproved, req.Status)

	got, err := f.customers.Get(c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got.TotalCredit)
}

func TestFormatCreditStatus(t *testing.T) {
	f := newFixture(t)
	c := f.addCustomer(t, "Ramesh", 0, 50000)

	_, err := f.svc.AddCredit(c.ID, 5000, "", "")
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(c.ID, 2000, domain.MethodUPI, "", "")
	require.NoError(t, err)

	customer, entries, err := f.svc.CreditStatus(c.ID, 10)
	require.NoError(t, err)

	msg := FormatCreditStatus(customer, entries)
	assert.Contains(t, msg, "Ramesh")
	assert.Contains(t, msg, "Baki: ₹3000")
	assert.Contains(t, msg, "Limit: ₹50000")
	assert.Contains(t, msg, "+₹5000")
	assert.Contains(t, msg, "-₹2000")

	// same inputs render the same text
	assert.Equal(t, msg, FormatCreditStatus(customer, entries))
}

func TestFormatOverdue_Empty(t *testing.T) {
	assert.Contains(t, FormatOverdue(nil), "Koi overdue")
}
