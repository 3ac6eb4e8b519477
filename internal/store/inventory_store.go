package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// InventoryStore persists fabric stock, keyed by variant
// (fabric type, color, width).
type InventoryStore struct {
	db *DB
}

// NewInventoryStore creates an inventory store using the given database.
func NewInventoryStore(db *DB) *InventoryStore {
	return &InventoryStore{db: db}
}

const inventoryColumns = `id, name, fabric_type, color, width, grade, hsn_code, quantity, unit, rate_per_unit, gst_rate, reorder_level, wastage_percent, created_at, updated_at`

// Insert adds a stock item.
func (s *InventoryStore) Insert(item *domain.InventoryItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := s.db.sql.Exec(`
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.FabricType, item.Color, item.Width, item.Grade,
		item.HSNCode, item.Quantity, item.Unit, item.RatePerUnit, item.GSTRate,
		item.ReorderLevel, item.WastagePercent,
		item.CreatedAt.Format(time.DateTime), item.UpdatedAt.Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting inventory item %s: %w", item.Name, err)
	}
	return nil
}

// Get returns an item by id, or nil if not found.
func (s *InventoryStore) Get(id string) (*domain.InventoryItem, error) {
	return s.queryOne(`SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`, id)
}

// FindVariant looks up stock by fabric type and color, optionally
// narrowed by width. A zero width matches any width.
func (s *InventoryStore) FindVariant(fabricType, color string, width int) (*domain.InventoryItem, error) {
	if width > 0 {
		item, err := s.queryOne(`
			SELECT `+inventoryColumns+` FROM inventory
			WHERE fabric_type = ? AND color = ? AND width = ?`, fabricType, color, width)
		if item != nil || err != nil {
			return item, err
		}
	}
	return s.queryOne(`
		SELECT `+inventoryColumns+` FROM inventory
		WHERE fabric_type = ? AND color = ?
		ORDER BY quantity DESC LIMIT 1`, fabricType, color)
}

// FindByFabric returns all items of a fabric type.
func (s *InventoryStore) FindByFabric(fabricType string) ([]domain.InventoryItem, error) {
	return s.queryMany(`
		SELECT `+inventoryColumns+` FROM inventory
		WHERE fabric_type = ? ORDER BY color, width`, fabricType)
}

// List returns all stock items.
func (s *InventoryStore) List() ([]domain.InventoryItem, error) {
	return s.queryMany(`SELECT ` + inventoryColumns + ` FROM inventory ORDER BY fabric_type, color, width`)
}

// LowStock returns items at or below their reorder level.
func (s *InventoryStore) LowStock() ([]domain.InventoryItem, error) {
	return s.queryMany(`
		SELECT ` + inventoryColumns + ` FROM inventory
		WHERE reorder_level > 0 AND quantity <= reorder_level
		ORDER BY quantity ASC`)
}

// AdjustQuantity changes an item's stock by delta (negative for sales).
// The resulting quantity is clamped at zero.
func (s *InventoryStore) AdjustQuantity(id string, delta float64) error {
	res, err := s.db.sql.Exec(`
		UPDATE inventory
		SET quantity = MAX(0, quantity + ?), updated_at = ?
		WHERE id = ?`,
		delta, time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("adjusting stock for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory item %s not found", id)
	}
	return nil
}

func (s *InventoryStore) queryOne(query string, args ...any) (*domain.InventoryItem, error) {
	item, err := scanInventoryItem(s.db.sql.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

func (s *InventoryStore) queryMany(query string, args ...any) ([]domain.InventoryItem, error) {
	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanInventoryItem(row rowScanner) (*domain.InventoryItem, error) {
	var (
		item               domain.InventoryItem
		createdAt, updated string
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.FabricType, &item.Color, &item.Width, &item.Grade,
		&item.HSNCode, &item.Quantity, &item.Unit, &item.RatePerUnit, &item.GSTRate,
		&item.ReorderLevel, &item.WastagePercent, &createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}
	item.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	item.UpdatedAt, _ = time.Parse(time.DateTime, updated)
	return &item, nil
}
