// Package ledger manages udhaar (informal credit): granting it,
// settling it, and gating risky grants behind owner approval.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
)

// Options tunes the approval gate.
type Options struct {
	// LargeCreditThreshold is the amount above which a single credit
	// needs owner approval. The threshold itself passes.
	LargeCreditThreshold float64
	// OverdueDays is how long an invoice may stay unpaid before it
	// counts as overdue.
	OverdueDays int
}

// CreditResult is the outcome of an AddCredit call: either the credit
// was applied, or it was gated and a pending approval request created.
type CreditResult struct {
	Applied *domain.UdhaarTransaction
	Gated   bool
	Request *domain.HITLRequest
}

// Service applies ledger business rules on top of the stores.
type Service struct {
	opts      Options
	customers *store.CustomerStore
	entries   *store.LedgerStore
	invoices  *store.InvoiceStore
	log       *logging.Logger
	now       func() time.Time
}

// New creates a ledger service.
func New(opts Options, customers *store.CustomerStore, entries *store.LedgerStore, invoices *store.InvoiceStore, log *logging.Logger) *Service {
	if opts.OverdueDays == 0 {
		opts.OverdueDays = 30
	}
	return &Service{
		opts:      opts,
		customers: customers,
		entries:   entries,
		invoices:  invoices,
		log:       log.Sub("ledger"),
		now:       time.Now,
	}
}

// AddCredit grants udhaar to a customer. Credits above the large
// credit threshold, or that would push the customer past their credit
// limit, are not applied: a pending approval request is stored and
// returned instead.
func (s *Service) AddCredit(customerID string, amount float64, invoiceID, notes string) (*CreditResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}

	customer, err := s.customers.Get(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %s not found", customerID)
	}

	exceedsThreshold := amount > s.opts.LargeCreditThreshold && s.opts.LargeCreditThreshold > 0
	exceedsLimit := customer.CreditLimit > 0 && customer.TotalCredit+amount > customer.CreditLimit

	if exceedsThreshold || exceedsLimit {
		req := &domain.HITLRequest{
			ID:           uuid.New().String(),
			Type:         domain.HITLLargeCredit,
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			Amount:       amount,
			InvoiceID:    invoiceID,
			Notes:        notes,
			Status:       domain.HITLPending,
			RequestedAt:  s.now().UTC(),
		}
		if err := s.entries.InsertHITL(req); err != nil {
			return nil, err
		}
		s.log.Info().
			Str("customer", customer.Name).
			Float64("amount", amount).
			Bool("over_limit", exceedsLimit).
			Msg("credit gated for approval")
		return &CreditResult{Gated: true, Request: req}, nil
	}

	entry, err := s.entries.ApplyCredit(customerID, amount, invoiceID, notes)
	if err != nil {
		return nil, err
	}
	return &CreditResult{Applied: entry}, nil
}

// RecordPayment settles udhaar. When no invoice is named the payment
// is applied to the customer's oldest open invoice.
func (s *Service) RecordPayment(customerID string, amount float64, method domain.PaymentMethod, invoiceID, notes string) (*domain.UdhaarTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	if invoiceID == "" {
		unpaid, err := s.invoices.UnpaidByCustomer(customerID)
		if err != nil {
			return nil, err
		}
		if len(unpaid) > 0 {
			invoiceID = unpaid[0].ID
		}
	}

	return s.entries.ApplyPayment(customerID, amount, method, invoiceID, notes)
}

// Overdue returns per-customer totals of unpaid invoices past due.
func (s *Service) Overdue() ([]domain.OverdueCustomer, error) {
	return s.invoices.Overdue(s.now().UTC())
}

// RequestReminders creates one pending approval request per overdue
// customer. Reminders never go out without the owner's say-so.
func (s *Service) RequestReminders() ([]domain.HITLRequest, error) {
	overdue, err := s.Overdue()
	if err != nil {
		return nil, err
	}

	var requests []domain.HITLRequest
	for _, oc := range overdue {
		req := domain.HITLRequest{
			ID:           uuid.New().String(),
			Type:         domain.HITLCreditReminder,
			CustomerID:   oc.CustomerID,
			CustomerName: oc.CustomerName,
			Amount:       oc.TotalOverdue,
			Notes:        fmt.Sprintf("%d overdue invoice(s), oldest %s", oc.InvoiceCount, oc.OldestInvoice.Format("02-01-2006")),
			Status:       domain.HITLPending,
			RequestedAt:  s.now().UTC(),
		}
		if err := s.entries.InsertHITL(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Approve resolves a pending request. A gated credit is applied now
// without re-running the gate. Returns the resolved request, or nil
// if it was not pending.
func (s *Service) Approve(requestID string) (*domain.HITLRequest, error) {
	ok, err := s.entries.ResolveHITL(requestID, domain.HITLApproved)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	req, err := s.entries.GetHITL(requestID)
	if err != nil {
		return nil, err
	}

	if req.Type == domain.HITLLargeCredit {
		if _, err := s.entries.ApplyCredit(req.CustomerID, req.Amount, req.InvoiceID, req.Notes); err != nil {
			return nil, fmt.Errorf("applying approved credit: %w", err)
		}
		s.log.Info().Str("customer", req.CustomerName).Float64("amount", req.Amount).Msg("approved credit applied")
	}
	return req, nil
}

// Reject resolves a pending request without applying anything.
// Returns the resolved request, or nil if it was not pending.
func (s *Service) Reject(requestID string) (*domain.HITLRequest, error) {
	ok, err := s.entries.ResolveHITL(requestID, domain.HITLRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.entries.GetHITL(requestID)
}

// CreditStatus returns a customer with their recent ledger entries.
func (s *Service) CreditStatus(customerID string, limit int) (*domain.Customer, []domain.UdhaarTransaction, error) {
	customer, err := s.customers.Get(customerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, fmt.Errorf("customer %s not found", customerID)
	}
	entries, err := s.entries.Transactions(customerID, limit)
	if err != nil {
		return nil, nil, err
	}
	return customer, entries, nil
}

// FormatCreditStatus renders a customer's udhaar position for chat.
func FormatCreditStatus(customer *domain.Customer, entries []domain.UdhaarTransaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📒 %s ka Udhaar*\n\n", customer.Name)
	fmt.Fprintf(&b, "Baki: ₹%.0f\n", customer.TotalCredit)
	fmt.Fprintf(&b, "Limit: ₹%.0f\n", customer.CreditLimit)

	if len(entries) > 0 {
		b.WriteString("\n*Recent entries:*\n")
		for _, e := range entries {
			sign := "+"
			if e.Type == domain.TransactionPayment {
				sign = "-"
			}
			fmt.Fprintf(&b, "%s %s₹%.0f (baki ₹%.0f)\n",
				e.CreatedAt.Format("02-01"), sign, e.Amount, e.BalanceAfter)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatOverdue renders the overdue report for the owner.
func FormatOverdue(overdue []domain.OverdueCustomer) string {
	if len(overdue) == 0 {
		return "Koi overdue payment nahi hai. ✅"
	}

	var b strings.Builder
	b.WriteString("*⏰ Overdue Payments*\n\n")
	var total float64
	for _, oc := range overdue {
		fmt.Fprintf(&b, "• %s: ₹%.0f (%d invoice, oldest %s)\n",
			oc.CustomerName, oc.TotalOverdue, oc.InvoiceCount, oc.OldestInvoice.Format("02-01-2006"))
		total += oc.TotalOverdue
	}
	fmt.Fprintf(&b, "\nTotal: ₹%.0f", total)
	return b.String()
}
