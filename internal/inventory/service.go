// Package inventory answers stock questions and applies stock
// movements for fabric variants.
package inventory

import (
	"fmt"
	"math"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
)

// Availability is the answer to "can we fill this order".
type Availability struct {
	Item      *domain.InventoryItem
	Requested float64
	// Effective is the requested quantity plus cutting wastage.
	Effective float64
	Available bool
	Shortage  float64
}

// Service wraps the inventory store with business rules.
type Service struct {
	items *store.InventoryStore
	log   *logging.Logger
}

// New creates an inventory service.
func New(items *store.InventoryStore, log *logging.Logger) *Service {
	return &Service{items: items, log: log.Sub("inventory")}
}

// Check reports whether the requested quantity of a variant is in
// stock. Wastage is added on top of the requested meters, the way a
// cutting table actually consumes a roll.
func (s *Service) Check(fabricType, color string, width int, quantity float64) (*Availability, error) {
	item, err := s.items.FindVariant(fabricType, color, width)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return &Availability{Requested: quantity, Effective: quantity, Shortage: quantity}, nil
	}

	effective := quantity * (1 + item.WastagePercent/100)
	effective = math.Round(effective*100) / 100

	av := &Availability{
		Item:      item,
		Requested: quantity,
		Effective: effective,
		Available: item.Quantity >= effective,
	}
	if !av.Available {
		av.Shortage = math.Round((effective-item.Quantity)*100) / 100
	}
	return av, nil
}

// Reserve deducts stock for a confirmed sale, wastage included.
func (s *Service) Reserve(itemID string, quantity, wastagePercent float64) error {
	effective := quantity * (1 + wastagePercent/100)
	if err := s.items.AdjustQuantity(itemID, -effective); err != nil {
		return fmt.Errorf("reserving stock: %w", err)
	}
	s.log.Debug().Str("item", itemID).Float64("quantity", effective).Msg("stock reserved")
	return nil
}

// Restock adds received goods to an item.
func (s *Service) Restock(itemID string, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive")
	}
	return s.items.AdjustQuantity(itemID, quantity)
}

// LowStock returns items at or below their reorder level.
func (s *Service) LowStock() ([]domain.InventoryItem, error) {
	return s.items.LowStock()
}

// FormatStock renders a stock summary for chat. When a fabric type is
// given only that fabric's variants are listed.
func (s *Service) FormatStock(fabricType string) (string, error) {
	var (
		items []domain.InventoryItem
		err   error
	)
	if fabricType != "" {
		items, err = s.items.FindByFabric(fabricType)
	} else {
		items, err = s.items.List()
	}
	if err != nil {
		return "", err
	}

	if len(items) == 0 {
		if fabricType != "" {
			return fmt.Sprintf("%s ka koi stock nahi mila. 🔍", fabricType), nil
		}
		return "Stock mein abhi kuch nahi hai. 📦", nil
	}

	var b strings.Builder
	b.WriteString("*📦 Stock Report*\n\n")
	for _, item := range items {
		marker := "✅"
		if item.ReorderLevel > 0 && item.Quantity <= item.ReorderLevel {
			marker = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s: %.0f %s @ ₹%.0f\n", marker, item.Name, item.Quantity, item.Unit, item.RatePerUnit)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// FormatLowStock renders the reorder alert message.
func (s *Service) FormatLowStock() (string, error) {
	items, err := s.LowStock()
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "Sab items ka stock theek hai. ✅", nil
	}

	var b strings.Builder
	b.WriteString("*⚠️ Low Stock Alert*\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s: %.0f %s bacha hai (reorder level %.0f)\n",
			item.Name, item.Quantity, item.Unit, item.ReorderLevel)
	}
	b.WriteString("\nJaldi restock karo! 🛒")
	return b.String(), nil
}
