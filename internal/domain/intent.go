package domain

// Intent is the closed set of actions the assistant understands.
type Intent string

const (
	IntentGenerateInvoice Intent = "generate_invoice"
	IntentCheckInventory  Intent = "check_inventory"
	IntentCheckUdhaar     Intent = "check_udhaar"
	IntentProcessPayment  Intent = "process_payment"
	IntentSendReminder    Intent = "send_reminder"
	IntentAddCustomer     Intent = "add_customer"
	IntentBulkOrder       Intent = "bulk_order"
	IntentLowStockAlert   Intent = "low_stock_alert"
	IntentGeneralQuery    Intent = "general_query"
	IntentUnknown         Intent = "unknown"
)

// ParseIntent maps a raw intent string onto the closed set.
// Anything outside the set collapses to IntentUnknown.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentGenerateInvoice, IntentCheckInventory, IntentCheckUdhaar,
		IntentProcessPayment, IntentSendReminder, IntentAddCustomer,
		IntentBulkOrder, IntentLowStockAlert, IntentGeneralQuery:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// Entities holds the structured values extracted from a message.
// Every field is optional; extraction populates only what it finds.
type Entities struct {
	Amount        *float64 `json:"amount,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	Unit          string   `json:"unit,omitempty"`
	Color         string   `json:"color,omitempty"`
	FabricType    string   `json:"fabricType,omitempty"`
	CustomerName  string   `json:"customerName,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
}

// Merge overlays newer values onto e. Later extractions win key by key;
// fields absent in next are left untouched (last-write-wins, no array merge).
func (e *Entities) Merge(next Entities) {
	if next.Amount != nil {
		e.Amount = next.Amount
	}
	if next.Quantity != nil {
		e.Quantity = next.Quantity
	}
	if next.Unit != "" {
		e.Unit = next.Unit
	}
	if next.Color != "" {
		e.Color = next.Color
	}
	if next.FabricType != "" {
		e.FabricType = next.FabricType
	}
	if next.CustomerName != "" {
		e.CustomerName = next.CustomerName
	}
	if next.PaymentMethod != "" {
		e.PaymentMethod = next.PaymentMethod
	}
}

// Classification is the outcome of intent classification.
type Classification struct {
	Intent     Intent   `json:"intent"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
}
