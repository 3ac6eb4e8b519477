package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// InvoiceStore persists invoices with their line items.
type InvoiceStore struct {
	db *DB
}

// NewInvoiceStore creates an invoice store using the given database.
func NewInvoiceStore(db *DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

// Insert writes an invoice and all its line items in one transaction.
func (s *InvoiceStore) Insert(inv *domain.Invoice) error {
	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin invoice insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO invoices (
			id, invoice_number, type, customer_id, customer_name, customer_phone,
			customer_gst, customer_address, subtotal, total_cgst, total_sgst, total_igst,
			grand_total, payment_status, amount_paid, balance_due, is_inter_state,
			place_of_supply, created_at, due_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.InvoiceNumber, string(inv.Type), inv.CustomerID, inv.CustomerName,
		inv.CustomerPhone, inv.CustomerGST, inv.CustomerAddress,
		inv.Subtotal, inv.TotalCGST, inv.TotalSGST, inv.TotalIGST,
		inv.GrandTotal, string(inv.PaymentStatus), inv.AmountPaid, inv.BalanceDue,
		boolToInt(inv.IsInterState), inv.PlaceOfSupply,
		inv.CreatedAt.UTC().Format(time.DateTime), inv.DueDate.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting invoice %s: %w", inv.InvoiceNumber, err)
	}

	for _, item := range inv.Items {
		_, err = tx.Exec(`
			INSERT INTO invoice_items (
				invoice_id, item_id, name, fabric_type, color, width, hsn_code,
				quantity, unit, rate, gst_rate, taxable_amount,
				cgst_amount, sgst_amount, igst_amount, total_amount
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, item.ItemID, item.Name, item.FabricType, item.Color, item.Width,
			item.HSNCode, item.Quantity, item.Unit, item.Rate, item.GSTRate,
			item.TaxableAmount, item.CGSTAmount, item.SGSTAmount, item.IGSTAmount,
			item.TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("inserting invoice item %s: %w", item.Name, err)
		}
	}

	return tx.Commit()
}

// Get returns an invoice with its items, or nil if not found.
func (s *InvoiceStore) Get(id string) (*domain.Invoice, error) {
	return s.queryOne(`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
}

// GetByNumber returns an invoice by its human-facing number.
func (s *InvoiceStore) GetByNumber(number string) (*domain.Invoice, error) {
	return s.queryOne(`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_number = ?`, number)
}

// ListByCustomer returns a customer's invoices, newest first.
func (s *InvoiceStore) ListByCustomer(customerID string) ([]domain.Invoice, error) {
	rows, err := s.db.sql.Query(`
		SELECT `+invoiceColumns+` FROM invoices
		WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices for %s: %w", customerID, err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// UnpaidByCustomer returns a customer's open invoices, oldest first,
// which is the order payments are applied in.
func (s *InvoiceStore) UnpaidByCustomer(customerID string) ([]domain.Invoice, error) {
	rows, err := s.db.sql.Query(`
		SELECT `+invoiceColumns+` FROM invoices
		WHERE customer_id = ? AND payment_status != 'paid'
		ORDER BY created_at ASC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid invoices for %s: %w", customerID, err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// TotalsSince returns invoice count and grand-total sum created at or
// after the cutoff. Used for the daily business summary.
func (s *InvoiceStore) TotalsSince(since time.Time) (int, float64, error) {
	var (
		count int
		total sql.NullFloat64
	)
	err := s.db.sql.QueryRow(`
		SELECT COUNT(*), SUM(grand_total) FROM invoices WHERE created_at >= ?`,
		since.UTC().Format(time.DateTime),
	).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("summing invoices: %w", err)
	}
	return count, total.Float64, nil
}

// Overdue aggregates unpaid invoices past their due date per customer.
func (s *InvoiceStore) Overdue(asOf time.Time) ([]domain.OverdueCustomer, error) {
	rows, err := s.db.sql.Query(`
		SELECT customer_id, customer_name, customer_phone,
		       SUM(balance_due), COUNT(*), MIN(created_at)
		FROM invoices
		WHERE payment_status != 'paid' AND due_date < ?
		GROUP BY customer_id
		ORDER BY SUM(balance_due) DESC`,
		asOf.UTC().Format(time.DateTime))
	if err != nil {
		return nil, fmt.Errorf("querying overdue invoices: %w", err)
	}
	defer rows.Close()

	var overdue []domain.OverdueCustomer
	for rows.Next() {
		var (
			oc     domain.OverdueCustomer
			oldest string
		)
		if err := rows.Scan(&oc.CustomerID, &oc.CustomerName, &oc.CustomerPhone,
			&oc.TotalOverdue, &oc.InvoiceCount, &oldest); err != nil {
			return nil, err
		}
		oc.OldestInvoice, _ = time.Parse(time.DateTime, oldest)
		overdue = append(overdue, oc)
	}
	return overdue, rows.Err()
}

const invoiceColumns = `id, invoice_number, type, customer_id, customer_name, customer_phone,
	customer_gst, customer_address, subtotal, total_cgst, total_sgst, total_igst,
	grand_total, payment_status, amount_paid, balance_due, is_inter_state,
	place_of_supply, created_at, due_date`

func (s *InvoiceStore) queryOne(query string, args ...any) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.sql.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inv.Items, err = s.loadItems(inv.ID)
	return inv, err
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var (
		inv                domain.Invoice
		interState         int
		createdAt, dueDate string
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.Type, &inv.CustomerID, &inv.CustomerName,
		&inv.CustomerPhone, &inv.CustomerGST, &inv.CustomerAddress,
		&inv.Subtotal, &inv.TotalCGST, &inv.TotalSGST, &inv.TotalIGST,
		&inv.GrandTotal, &inv.PaymentStatus, &inv.AmountPaid, &inv.BalanceDue,
		&interState, &inv.PlaceOfSupply, &createdAt, &dueDate,
	)
	if err != nil {
		return nil, err
	}
	inv.IsInterState = interState != 0
	inv.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	inv.DueDate, _ = time.Parse(time.DateTime, dueDate)
	return &inv, nil
}

func (s *InvoiceStore) loadItems(invoiceID string) ([]domain.InvoiceLineItem, error) {
	rows, err := s.db.sql.Query(`
		SELECT item_id, name, fabric_type, color, width, hsn_code,
		       quantity, unit, rate, gst_rate, taxable_amount,
		       cgst_amount, sgst_amount, igst_amount, total_amount
		FROM invoice_items WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice items: %w", err)
	}
	defer rows.Close()

	var items []domain.InvoiceLineItem
	for rows.Next() {
		var item domain.InvoiceLineItem
		if err := rows.Scan(
			&item.ItemID, &item.Name, &item.FabricType, &item.Color, &item.Width,
			&item.HSNCode, &item.Quantity, &item.Unit, &item.Rate, &item.GSTRate,
			&item.TaxableAmount, &item.CGSTAmount, &item.SGSTAmount, &item.IGSTAmount,
			&item.TotalAmount,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
