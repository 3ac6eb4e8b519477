package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// CustomerStore persists customers and their running credit totals.
type CustomerStore struct {
	db *DB
}

// NewCustomerStore creates a customer store using the given database.
func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

const customerColumns = `id, name, phone, whatsapp_id, address, gst_number, total_credit, credit_limit, is_bulk_buyer, created_at, updated_at`

// Insert adds a new customer. A zero credit limit gets the default.
func (s *CustomerStore) Insert(c *domain.Customer) error {
	if c.CreditLimit == 0 {
		c.CreditLimit = domain.DefaultCreditLimit
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.db.sql.Exec(`
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Phone, c.WhatsAppID, c.Address, c.GSTNumber,
		c.TotalCredit, c.CreditLimit, boolToInt(c.IsBulkBuyer),
		c.CreatedAt.Format(time.DateTime), c.UpdatedAt.Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting customer %s: %w", c.Name, err)
	}
	return nil
}

// Get returns a customer by id, or nil if not found.
func (s *CustomerStore) Get(id string) (*domain.Customer, error) {
	return s.queryOne(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
}

// GetByName finds a customer by case-insensitive name match.
func (s *CustomerStore) GetByName(name string) (*domain.Customer, error) {
	return s.queryOne(`SELECT `+customerColumns+` FROM customers WHERE name = ? COLLATE NOCASE`, name)
}

// GetByPhone finds a customer by phone or WhatsApp id.
func (s *CustomerStore) GetByPhone(phone string) (*domain.Customer, error) {
	return s.queryOne(`SELECT `+customerColumns+` FROM customers WHERE phone = ? OR whatsapp_id = ?`, phone, phone)
}

// List returns all customers ordered by name.
func (s *CustomerStore) List() ([]domain.Customer, error) {
	rows, err := s.db.sql.Query(`SELECT ` + customerColumns + ` FROM customers ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// UpdateCreditLimit sets a customer's udhaar ceiling.
func (s *CustomerStore) UpdateCreditLimit(id string, limit float64) error {
	_, err := s.db.sql.Exec(`
		UPDATE customers SET credit_limit = ?, updated_at = ? WHERE id = ?`,
		limit, time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("updating credit limit for %s: %w", id, err)
	}
	return nil
}

func (s *CustomerStore) queryOne(query string, args ...any) (*domain.Customer, error) {
	row := s.db.sql.QueryRow(query, args...)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c                  domain.Customer
		isBulk             int
		createdAt, updated string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.WhatsAppID, &c.Address, &c.GSTNumber,
		&c.TotalCredit, &c.CreditLimit, &isBulk, &createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}
	c.IsBulkBuyer = isBulk != 0
	c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	c.UpdatedAt, _ = time.Parse(time.DateTime, updated)
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
