package invoice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

func testCalculator() *Calculator {
	seq := int64(1000)
	return New(Options{
		BusinessName:  "Kapoor Textiles",
		NumberPrefix:  "KT",
		PlaceOfSupply: "Delhi",
		DueDays:       30,
	}, func() (int64, error) {
		seq++
		return seq, nil
	})
}

func TestSplitGSTIntraState(t *testing.T) {
	cgst, sgst, igst := SplitGST(1000, 5.0, false)

	assert.Equal(t, 25.0, cgst)
	assert.Equal(t, 25.0, sgst)
	assert.Equal(t, 0.0, igst)
}

func TestSplitGSTInterState(t *testing.T) {
	cgst, sgst, igst := SplitGST(1000, 5.0, true)

	assert.Equal(t, 0.0, cgst)
	assert.Equal(t, 0.0, sgst)
	assert.Equal(t, 50.0, igst)
}

func TestSplitGSTInvariant(t *testing.T) {
	// intra-state cgst+sgst must equal round(T*R/100, 2) within tolerance
	amounts := []float64{1, 99.99, 1234.56, 10000, 33333.33}
	rates := []float64{5, 12, 18, 28}

	for _, taxable := range amounts {
		for _, rate := range rates {
			cgst, sgst, igst := SplitGST(taxable, rate, false)
			total := math.Round(taxable*rate/100*100) / 100
			assert.InDelta(t, total, cgst+sgst, 0.011, "T=%v R=%v", taxable, rate)
			assert.Zero(t, igst)

			_, _, igst = SplitGST(taxable, rate, true)
			assert.Equal(t, total, igst)
		}
	}
}

func TestCreateInvoice(t *testing.T) {
	calc := testCalculator()

	inv, err := calc.Create(CreateRequest{
		CustomerID:   "cust-1",
		CustomerName: "Ramesh",
		Items: []LineRequest{
			{Name: "Red Silk Fabric", FabricType: "silk", Color: "red", Quantity: 100, Rate: 250, GSTRate: 5.0},
			{Name: "Blue Cotton Fabric", FabricType: "cotton", Color: "blue", Quantity: 50, Rate: 120, GSTRate: 5.0},
		},
	})
	require.NoError(t, err)

	require.Len(t, inv.Items, 2)

	first := inv.Items[0]
	assert.Equal(t, 25000.0, first.TaxableAmount)
	assert.Equal(t, 625.0, first.CGSTAmount)
	assert.Equal(t, 625.0, first.SGSTAmount)
	assert.Equal(t, 0.0, first.IGSTAmount)
	assert.Equal(t, 26250.0, first.TotalAmount)
	assert.Equal(t, "5007", first.HSNCode)

	second := inv.Items[1]
	assert.Equal(t, 6000.0, second.TaxableAmount)
	assert.Equal(t, "5208", second.HSNCode)

	assert.Equal(t, 31000.0, inv.Subtotal)
	assert.Equal(t, 775.0, inv.TotalCGST)
	assert.Equal(t, 775.0, inv.TotalSGST)
	assert.Equal(t, 0.0, inv.TotalIGST)
	assert.Equal(t, 32550.0, inv.GrandTotal)
	assert.Equal(t, inv.GrandTotal, inv.BalanceDue)
	assert.Equal(t, domain.PaymentPending, inv.PaymentStatus)
	assert.Equal(t, domain.InvoicePucca, inv.Type)
	assert.Equal(t, "Delhi", inv.PlaceOfSupply)
	assert.Equal(t, inv.CreatedAt.AddDate(0, 0, 30), inv.DueDate)
}

func TestCreateInterStateInvoice(t *testing.T) {
	calc := testCalculator()

	inv, err := calc.Create(CreateRequest{
		CustomerName: "Gupta Traders",
		IsInterState: true,
		Items: []LineRequest{
			{Name: "Wool Fabric", FabricType: "wool", Quantity: 10, Rate: 500, GSTRate: 12.0},
		},
	})
	require.NoError(t, err)

	item := inv.Items[0]
	assert.Equal(t, 0.0, item.CGSTAmount)
	assert.Equal(t, 0.0, item.SGSTAmount)
	assert.Equal(t, 600.0, item.IGSTAmount)
	assert.Equal(t, 0.0, inv.TotalCGST)
	assert.Equal(t, 600.0, inv.TotalIGST)
	assert.Equal(t, "5111", item.HSNCode)
}

func TestCreateEmptyItems(t *testing.T) {
	calc := testCalculator()
	_, err := calc.Create(CreateRequest{CustomerName: "Ramesh"})
	require.Error(t, err)
}

func TestLineLevelRounding(t *testing.T) {
	calc := testCalculator()

	// 3 lines whose GST rounds at the line level; totals sum the
	// already-rounded values rather than rounding once at the end.
	inv, err := calc.Create(CreateRequest{
		CustomerName: "Ramesh",
		Items: []LineRequest{
			{Name: "A", FabricType: "silk", Quantity: 1, Rate: 33.33, GSTRate: 5.0},
			{Name: "B", FabricType: "silk", Quantity: 1, Rate: 33.33, GSTRate: 5.0},
			{Name: "C", FabricType: "silk", Quantity: 1, Rate: 33.33, GSTRate: 5.0},
		},
	})
	require.NoError(t, err)

	// per line: taxable 33.33, cgst = round(33.33*2.5/100) = 0.83
	for _, item := range inv.Items {
		assert.Equal(t, 0.83, item.CGSTAmount)
	}
	assert.Equal(t, 2.49, inv.TotalCGST)
}

func TestInvoiceNumberSequence(t *testing.T) {
	calc := testCalculator()

	inv1, err := calc.Create(CreateRequest{CustomerName: "A", Items: []LineRequest{{Name: "X", Quantity: 1, Rate: 10, GSTRate: 5}}})
	require.NoError(t, err)
	inv2, err := calc.Create(CreateRequest{CustomerName: "B", Items: []LineRequest{{Name: "Y", Quantity: 1, Rate: 10, GSTRate: 5}}})
	require.NoError(t, err)

	assert.Contains(t, inv1.InvoiceNumber, "KT/")
	assert.Contains(t, inv1.InvoiceNumber, "/1001")
	assert.Contains(t, inv2.InvoiceNumber, "/1002")
	assert.NotEqual(t, inv1.InvoiceNumber, inv2.InvoiceNumber)
}

func TestFormatTextIdempotent(t *testing.T) {
	calc := testCalculator()

	inv, err := calc.Create(CreateRequest{
		CustomerName:  "Ramesh",
		CustomerPhone: "919876543210",
		Items: []LineRequest{
			{Name: "Red Silk Fabric", FabricType: "silk", Color: "red", Quantity: 100, Rate: 250, GSTRate: 5.0},
		},
	})
	require.NoError(t, err)

	first := calc.FormatText(inv)
	second := calc.FormatText(inv)
	assert.Equal(t, first, second, "formatting must be byte-identical")

	assert.Contains(t, first, "Kapoor Textiles")
	assert.Contains(t, first, inv.InvoiceNumber)
	assert.Contains(t, first, "Ramesh")
	assert.Contains(t, first, "GRAND TOTAL: ₹26250")
	assert.Contains(t, first, "PENDING")
}
