package domain

import "time"

// TransactionType distinguishes udhaar granted from payments received.
type TransactionType string

const (
	TransactionCredit  TransactionType = "credit"
	TransactionPayment TransactionType = "payment"
)

// UdhaarTransaction is one immutable entry in the credit audit trail.
// BalanceAfter is a snapshot taken at insert time, never recomputed.
type UdhaarTransaction struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	InvoiceID     string          `json:"invoiceId,omitempty"`
	Amount        float64         `json:"amount"`
	Type          TransactionType `json:"type"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	BalanceAfter  float64         `json:"balanceAfter"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// HITLStatus is the lifecycle of an approval request.
type HITLStatus string

const (
	HITLPending  HITLStatus = "pending"
	HITLApproved HITLStatus = "approved"
	HITLRejected HITLStatus = "rejected"
)

// HITLRequestType names what kind of mutation was gated.
type HITLRequestType string

const (
	HITLLargeCredit    HITLRequestType = "large_credit"
	HITLCreditReminder HITLRequestType = "credit_reminder"
)

// HITLRequest is a gated mutation awaiting owner approval.
type HITLRequest struct {
	ID           string          `json:"id"`
	Type         HITLRequestType `json:"type"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Amount       float64         `json:"amount"`
	InvoiceID    string          `json:"invoiceId,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Status       HITLStatus      `json:"status"`
	RequestedAt  time.Time       `json:"requestedAt"`
	RespondedAt  *time.Time      `json:"respondedAt,omitempty"`
}

// OverdueCustomer is an aggregation row: one customer's unpaid
// invoices older than the overdue window.
type OverdueCustomer struct {
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	TotalOverdue  float64   `json:"totalOverdue"`
	InvoiceCount  int       `json:"invoiceCount"`
	OldestInvoice time.Time `json:"oldestInvoice"`
}
