package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// LedgerStore persists the udhaar audit trail and gated approval
// requests. Credit and payment writes update the transaction log and
// the customer's running balance in a single SQL transaction, so the
// two can never drift apart.
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a ledger store using the given database.
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// ApplyCredit records udhaar given to a customer and bumps their
// balance. Returns the inserted transaction with BalanceAfter set.
func (s *LedgerStore) ApplyCredit(customerID string, amount float64, invoiceID, notes string) (*domain.UdhaarTransaction, error) {
	return s.apply(customerID, amount, domain.TransactionCredit, "", invoiceID, notes)
}

// ApplyPayment records a payment received. The customer balance floors
// at zero; any open invoice referenced by invoiceID has its paid
// amount and status updated in the same transaction.
func (s *LedgerStore) ApplyPayment(customerID string, amount float64, method domain.PaymentMethod, invoiceID, notes string) (*domain.UdhaarTransaction, error) {
	return s.apply(customerID, amount, domain.TransactionPayment, method, invoiceID, notes)
}

func (s *LedgerStore) apply(customerID string, amount float64, txType domain.TransactionType, method domain.PaymentMethod, invoiceID, notes string) (*domain.UdhaarTransaction, error) {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin ledger write: %w", err)
	}
	defer tx.Rollback()

	var (
		name    string
		balance float64
	)
	err = tx.QueryRow(`SELECT name, total_credit FROM customers WHERE id = ?`, customerID).Scan(&name, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s not found", customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading customer balance: %w", err)
	}

	switch txType {
	case domain.TransactionCredit:
		balance += amount
	case domain.TransactionPayment:
		balance -= amount
		if balance < 0 {
			balance = 0
		}
	}

	now := time.Now().UTC()
	entry := &domain.UdhaarTransaction{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		CustomerName:  name,
		InvoiceID:     invoiceID,
		Amount:        amount,
		Type:          txType,
		PaymentMethod: method,
		BalanceAfter:  balance,
		Notes:         notes,
		CreatedAt:     now,
	}

	_, err = tx.Exec(`
		INSERT INTO udhaar_transactions (id, customer_id, customer_name, invoice_id, amount, type, payment_method, balance_after, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.CustomerID, entry.CustomerName, entry.InvoiceID,
		entry.Amount, string(entry.Type), string(entry.PaymentMethod),
		entry.BalanceAfter, entry.Notes, now.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting ledger entry: %w", err)
	}

	_, err = tx.Exec(`UPDATE customers SET total_credit = ?, updated_at = ? WHERE id = ?`,
		balance, now.Format(time.DateTime), customerID)
	if err != nil {
		return nil, fmt.Errorf("updating customer balance: %w", err)
	}

	if txType == domain.TransactionPayment && invoiceID != "" {
		if err := settleInvoice(tx, invoiceID, amount); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger write: %w", err)
	}
	return entry, nil
}

// settleInvoice applies a payment against an invoice within the
// caller's transaction.
func settleInvoice(tx *sql.Tx, invoiceID string, amount float64) error {
	var grandTotal, amountPaid float64
	err := tx.QueryRow(`SELECT grand_total, amount_paid FROM invoices WHERE id = ?`, invoiceID).
		Scan(&grandTotal, &amountPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("invoice %s not found", invoiceID)
	}
	if err != nil {
		return fmt.Errorf("reading invoice: %w", err)
	}

	amountPaid += amount
	balanceDue := grandTotal - amountPaid
	if balanceDue < 0 {
		balanceDue = 0
	}

	status := domain.PaymentPartial
	if balanceDue == 0 {
		status = domain.PaymentPaid
	} else if amountPaid == 0 {
		status = domain.PaymentPending
	}

	_, err = tx.Exec(`
		UPDATE invoices SET amount_paid = ?, balance_due = ?, payment_status = ? WHERE id = ?`,
		amountPaid, balanceDue, string(status), invoiceID)
	if err != nil {
		return fmt.Errorf("settling invoice: %w", err)
	}
	return nil
}

// Transactions returns a customer's ledger entries, newest first.
// A non-positive limit returns everything. created_at has second
// resolution, so same-second entries tie-break on rowid: the table is
// append-only and rowid is insertion order.
func (s *LedgerStore) Transactions(customerID string, limit int) ([]domain.UdhaarTransaction, error) {
	query := `
		SELECT id, customer_id, customer_name, invoice_id, amount, type, payment_method, balance_after, notes, created_at
		FROM udhaar_transactions WHERE customer_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{customerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.UdhaarTransaction
	for rows.Next() {
		var (
			entry     domain.UdhaarTransaction
			createdAt string
		)
		if err := rows.Scan(
			&entry.ID, &entry.CustomerID, &entry.CustomerName, &entry.InvoiceID,
			&entry.Amount, &entry.Type, &entry.PaymentMethod, &entry.BalanceAfter,
			&entry.Notes, &createdAt,
		); err != nil {
			return nil, err
		}
		entry.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// InsertHITL stores a new approval request.
func (s *LedgerStore) InsertHITL(req *domain.HITLRequest) error {
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	_, err := s.db.sql.Exec(`
		INSERT INTO hitl_requests (id, type, customer_id, customer_name, amount, invoice_id, notes, status, requested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, string(req.Type), req.CustomerID, req.CustomerName, req.Amount,
		req.InvoiceID, req.Notes, string(req.Status),
		req.RequestedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting approval request: %w", err)
	}
	return nil
}

// GetHITL returns an approval request by id, or nil if not found.
func (s *LedgerStore) GetHITL(id string) (*domain.HITLRequest, error) {
	var (
		req         domain.HITLRequest
		requestedAt string
		respondedAt sql.NullString
	)
	err := s.db.sql.QueryRow(`
		SELECT id, type, customer_id, customer_name, amount, invoice_id, notes, status, requested_at, responded_at
		FROM hitl_requests WHERE id = ?`, id,
	).Scan(
		&req.ID, &req.Type, &req.CustomerID, &req.CustomerName, &req.Amount,
		&req.InvoiceID, &req.Notes, &req.Status, &requestedAt, &respondedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading approval request: %w", err)
	}
	req.RequestedAt, _ = time.Parse(time.DateTime, requestedAt)
	if respondedAt.Valid {
		t, err := time.Parse(time.DateTime, respondedAt.String)
		if err == nil {
			req.RespondedAt = &t
		}
	}
	return &req, nil
}

// ResolveHITL transitions a pending request to approved or rejected.
// Returns false if the request was not pending (already resolved or
// missing), so a double-tapped approval button is a no-op.
func (s *LedgerStore) ResolveHITL(id string, status domain.HITLStatus) (bool, error) {
	res, err := s.db.sql.Exec(`
		UPDATE hitl_requests SET status = ?, responded_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return false, fmt.Errorf("resolving approval request: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
