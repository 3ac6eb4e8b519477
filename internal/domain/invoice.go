package domain

import "time"

// InvoiceType distinguishes a formal GST invoice from an informal receipt.
type InvoiceType string

const (
	InvoicePucca InvoiceType = "pucca" // GST invoice
	InvoiceKacha InvoiceType = "kacha" // informal receipt
)

// PaymentStatus tracks how much of an invoice has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMethod is how a payment was received.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodUPI          PaymentMethod = "upi"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
)

// InvoiceLineItem is one priced row of an invoice. All monetary fields
// are rounded to two decimals at the line level before aggregation.
type InvoiceLineItem struct {
	ItemID        string  `json:"itemId"`
	Name          string  `json:"name"`
	FabricType    string  `json:"fabricType"`
	Color         string  `json:"color"`
	Width         int     `json:"width"`
	HSNCode       string  `json:"hsnCode"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Rate          float64 `json:"rate"`
	GSTRate       float64 `json:"gstRate"`
	TaxableAmount float64 `json:"taxableAmount"`
	CGSTAmount    float64 `json:"cgstAmount"`
	SGSTAmount    float64 `json:"sgstAmount"`
	IGSTAmount    float64 `json:"igstAmount"`
	TotalAmount   float64 `json:"totalAmount"`
}

// Invoice owns its line items exclusively; totals are sums over
// already-rounded line values.
type Invoice struct {
	ID              string            `json:"id"`
	InvoiceNumber   string            `json:"invoiceNumber"`
	Type            InvoiceType       `json:"type"`
	CustomerID      string            `json:"customerId"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone"`
	CustomerGST     string            `json:"customerGst,omitempty"`
	CustomerAddress string            `json:"customerAddress,omitempty"`
	Items           []InvoiceLineItem `json:"items"`
	Subtotal        float64           `json:"subtotal"`
	TotalCGST       float64           `json:"totalCgst"`
	TotalSGST       float64           `json:"totalSgst"`
	TotalIGST       float64           `json:"totalIgst"`
	GrandTotal      float64           `json:"grandTotal"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	AmountPaid      float64           `json:"amountPaid"`
	BalanceDue      float64           `json:"balanceDue"`
	IsInterState    bool              `json:"isInterState"`
	PlaceOfSupply   string            `json:"placeOfSupply"`
	CreatedAt       time.Time         `json:"createdAt"`
	DueDate         time.Time         `json:"dueDate"`
}
