package domain

import "time"

// DefaultCreditLimit is the udhaar ceiling assigned to new customers.
const DefaultCreditLimit = 50000.0

// Customer is a buyer known to the business.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	WhatsAppID  string    `json:"whatsappId,omitempty"`
	Address     string    `json:"address,omitempty"`
	GSTNumber   string    `json:"gstNumber,omitempty"`
	TotalCredit float64   `json:"totalCredit"`
	CreditLimit float64   `json:"creditLimit"`
	IsBulkBuyer bool      `json:"isBulkBuyer,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InventoryItem is a fabric variant held in stock. Quantity is in the
// item's unit, meters unless stated otherwise.
type InventoryItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	FabricType     string    `json:"fabricType"`
	Color          string    `json:"color"`
	Width          int       `json:"width"` // inches
	Grade          string    `json:"grade"`
	HSNCode        string    `json:"hsnCode"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	RatePerUnit    float64   `json:"ratePerUnit"`
	GSTRate        float64   `json:"gstRate"`
	ReorderLevel   float64   `json:"reorderLevel"`
	WastagePercent float64   `json:"wastagePercent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
