// Package invoice computes GST-compliant invoices for fabric sales.
package invoice

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// hsnCodes maps fabric type to its tariff classification.
var hsnCodes = map[string]string{
	"silk":      "5007",
	"cotton":    "5208",
	"polyester": "5407",
	"synthetic": "5407",
	"wool":      "5111",
	"linen":     "5309",
}

const defaultHSN = "5007"

// HSNForFabric returns the HSN code for a fabric type.
func HSNForFabric(fabricType string) string {
	if code, ok := hsnCodes[fabricType]; ok {
		return code
	}
	return defaultHSN
}

// NumberFunc returns the next value of the durable invoice counter.
type NumberFunc func() (int64, error)

// Options configures the calculator.
type Options struct {
	BusinessName  string
	NumberPrefix  string
	PlaceOfSupply string
	DueDays       int
}

// LineRequest is one requested invoice row.
type LineRequest struct {
	ItemID     string
	Name       string
	FabricType string
	Color      string
	Width      int
	Quantity   float64
	Unit       string
	Rate       float64
	GSTRate    float64
}

// CreateRequest describes the invoice to build.
type CreateRequest struct {
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	CustomerGST     string
	CustomerAddress string
	Type            domain.InvoiceType
	Items           []LineRequest
	IsInterState    bool
	PlaceOfSupply   string
}

// Calculator builds invoices with derived tax fields.
type Calculator struct {
	opts       Options
	nextNumber NumberFunc
	now        func() time.Time
}

// New creates a calculator. nextNumber must be durable across process
// restarts so invoice numbers never repeat.
func New(opts Options, nextNumber NumberFunc) *Calculator {
	if opts.DueDays == 0 {
		opts.DueDays = 30
	}
	return &Calculator{opts: opts, nextNumber: nextNumber, now: time.Now}
}

// SplitGST splits tax on a taxable amount: inter-state supplies carry
// the full rate as IGST, intra-state supplies split it evenly between
// CGST and SGST. Each component is rounded to two decimals.
func SplitGST(taxableAmount, gstRate float64, interState bool) (cgst, sgst, igst float64) {
	if interState {
		return 0, 0, round2(taxableAmount * gstRate / 100)
	}
	half := round2(taxableAmount * (gstRate / 2) / 100)
	return half, half, 0
}

// Create builds an invoice from the request. Monetary values are
// rounded at the line level before aggregation so totals reproduce
// what standard invoicing software prints.
func (c *Calculator) Create(req CreateRequest) (*domain.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line item")
	}

	seq, err := c.nextNumber()
	if err != nil {
		return nil, fmt.Errorf("allocating invoice number: %w", err)
	}

	now := c.now().UTC()
	number := fmt.Sprintf("%s/%s/%d", c.opts.NumberPrefix, now.Format("20060102"), seq)

	invoiceType := req.Type
	if invoiceType == "" {
		invoiceType = domain.InvoicePucca
	}
	place := req.PlaceOfSupply
	if place == "" {
		place = c.opts.PlaceOfSupply
	}

	var (
		items     []domain.InvoiceLineItem
		subtotal  float64
		totalCGST float64
		totalSGST float64
		totalIGST float64
	)

	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unit := item.Unit
		if unit == "" {
			unit = "meter"
		}
		itemID := item.ItemID
		if itemID == "" {
			itemID = uuid.New().String()
		}

		taxable := round2(quantity * item.Rate)
		cgst, sgst, igst := SplitGST(taxable, item.GSTRate, req.IsInterState)

		items = append(items, domain.InvoiceLineItem{
			ItemID:        itemID,
			Name:          item.Name,
			FabricType:    item.FabricType,
			Color:         item.Color,
			Width:         item.Width,
			HSNCode:       HSNForFabric(item.FabricType),
			Quantity:      quantity,
			Unit:          unit,
			Rate:          item.Rate,
			GSTRate:       item.GSTRate,
			TaxableAmount: taxable,
			CGSTAmount:    cgst,
			SGSTAmount:    sgst,
			IGSTAmount:    igst,
			TotalAmount:   round2(taxable + cgst + sgst + igst),
		})

		subtotal += taxable
		totalCGST += cgst
		totalSGST += sgst
		totalIGST += igst
	}

	grandTotal := round2(subtotal + totalCGST + totalSGST + totalIGST)

	return &domain.Invoice{
		ID:              uuid.New().String(),
		InvoiceNumber:   number,
		Type:            invoiceType,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerGST:     req.CustomerGST,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		Subtotal:        round2(subtotal),
		TotalCGST:       round2(totalCGST),
		TotalSGST:       round2(totalSGST),
		TotalIGST:       round2(totalIGST),
		GrandTotal:      grandTotal,
		PaymentStatus:   domain.PaymentPending,
		BalanceDue:      grandTotal,
		IsInterState:    req.IsInterState,
		PlaceOfSupply:   place,
		CreatedAt:       now,
		DueDate:         now.AddDate(0, 0, c.opts.DueDays),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
