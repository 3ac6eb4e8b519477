package invoice

import (
	"fmt"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// FormatText renders an invoice as a chat-friendly message. Output
// depends only on the invoice fields, so formatting the same invoice
// twice is byte-identical.
func (c *Calculator) FormatText(inv *domain.Invoice) string {
	var b strings.Builder
	divider := strings.Repeat("=", 30)

	fmt.Fprintf(&b, "*%s*\n%s\n\n", c.opts.BusinessName, divider)
	fmt.Fprintf(&b, "*Invoice: %s*\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "Date: %s\n\n", inv.CreatedAt.Format("02-01-2006"))
	fmt.Fprintf(&b, "*Customer:* %s\n", inv.CustomerName)
	if inv.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", inv.CustomerPhone)
	}

	b.WriteString("\n*Items:*\n")
	for i, item := range inv.Items {
		fmt.Fprintf(&b, "%d. %s (%s %s)\n", i+1, item.Name, item.Color, item.FabricType)
		fmt.Fprintf(&b, "   %.0f %s @ ₹%.0f = ₹%.0f\n", item.Quantity, item.Unit, item.Rate, item.TotalAmount)
	}

	fmt.Fprintf(&b, "%s\n", divider)
	fmt.Fprintf(&b, "Subtotal: ₹%.0f\n", inv.Subtotal)
	if inv.IsInterState {
		fmt.Fprintf(&b, "GST (IGST): ₹%.0f\n", inv.TotalIGST)
	} else {
		fmt.Fprintf(&b, "GST (CGST+SGST): ₹%.0f\n", inv.TotalCGST+inv.TotalSGST)
	}
	fmt.Fprintf(&b, "%s\n", divider)
	fmt.Fprintf(&b, "*GRAND TOTAL: ₹%.0f*\n\n", inv.GrandTotal)
	fmt.Fprintf(&b, "Payment Status: %s", strings.ToUpper(string(inv.PaymentStatus)))

	return b.String()
}
