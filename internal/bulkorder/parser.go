// Package bulkorder interprets multi-item fabric orders written in
// Hinglish, like "1000m - 400 red silk, 300 blue cotton, 300 green poly".
package bulkorder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/extract"
)

// Item is a single parsed order line. Percentage items carry their
// share and get an absolute Quantity once the order total is known.
type Item struct {
	Quantity     float64 `json:"quantity"` // meters, resolved
	Percentage   float64 `json:"percentage,omitempty"`
	IsPercentage bool    `json:"isPercentage,omitempty"`
	Color        string  `json:"color"`
	FabricType   string  `json:"fabricType"`
	Width        int     `json:"width,omitempty"` // inches
	Grade        string  `json:"grade,omitempty"`
}

// Result is the outcome of parsing one order message.
type Result struct {
	Success       bool    `json:"success"`
	TotalQuantity float64 `json:"totalQuantity"`
	Items         []Item  `json:"items"`
	RawText       string  `json:"rawText"`
}

// totalPatterns are tried in priority order; the first match wins.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:meter|mtr|m)\s*(?:chahiye|total|ka order)`),
	regexp.MustCompile(`total\s*:?\s*(\d+(?:\.\d+)?)\s*(?:meter|mtr|m)?`),
	regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:meter|mtr|m)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:meter|mtr|m)\s*[-–]`),
}

var (
	introRe     = regexp.MustCompile(`^\d+\s*(?:meter|mtr|m)?\s*(?:chahiye|total|ka order)?\s*[-:–]?\s*`)
	splitRe     = regexp.MustCompile(`[,;]|\s+aur\s+|\s+and\s+|\s*\+\s*`)
	percentRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	itemQtyRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:meter|mtr|m)?`)
	defaultWide = 44
)

// Parser parses bulk orders using the shared extraction vocabulary.
type Parser struct{}

// New returns a bulk order parser.
func New() *Parser {
	return &Parser{}
}

// Parse interprets an order message. Success is true when at least one
// item parsed; segments with neither a quantity nor a recognizable
// color/fabric are dropped silently.
func (p *Parser) Parse(text string) Result {
	result := Result{RawText: text}
	lower := strings.ToLower(text)

	result.TotalQuantity = extractTotal(lower)

	var items []Item
	for _, segment := range splitItems(lower) {
		item, ok := parseSegment(segment, result.TotalQuantity)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return result
	}

	// Post-pass: resolve percentage items now that the total is known.
	if result.TotalQuantity > 0 {
		for i := range items {
			if items[i].IsPercentage {
				items[i].Quantity = items[i].Percentage / 100 * result.TotalQuantity
			}
		}
	}

	result.Success = true
	result.Items = items
	return result
}

// extractTotal tries the priority-ordered total patterns.
func extractTotal(lower string) float64 {
	for _, re := range totalPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v
			}
		}
	}
	return 0
}

// splitItems strips the leading total/intro phrase and splits the rest
// on commas, semicolons, and the connectors aur/and/+.
func splitItems(lower string) []string {
	stripped := introRe.ReplaceAllString(lower, "")

	var segments []string
	for _, seg := range splitRe.Split(stripped, -1) {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// parseSegment parses one item like "400 red silk 44\"" or "40% laal resham".
func parseSegment(segment string, total float64) (Item, bool) {
	var item Item

	if m := percentRe.FindStringSubmatch(segment); m != nil {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Item{}, false
		}
		item.IsPercentage = true
		item.Percentage = pct
		if total > 0 {
			item.Quantity = pct / 100 * total
		}
	} else if m := itemQtyRe.FindStringSubmatch(segment); m != nil {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Item{}, false
		}
		item.Quantity = qty
	} else {
		return Item{}, false
	}

	item.Color = extract.LookupColor(segment)
	item.FabricType = extract.LookupFabric(segment)
	item.Width = extract.Width(segment)
	item.Grade = extract.Grade(segment)

	// A segment with neither color nor fabric is unparseable.
	if item.Color == "" && item.FabricType == "" {
		return Item{}, false
	}

	if item.Color == "" {
		item.Color = "white"
	}
	if item.FabricType == "" {
		item.FabricType = "cotton"
	}
	if item.Width == 0 {
		item.Width = defaultWide
	}
	return item, true
}

// FormatConfirmation renders a parsed order as a reply message.
func FormatConfirmation(result Result) string {
	if !result.Success || len(result.Items) == 0 {
		return "Order samajh nahi aaya. Please format mein bhejiye:\n1000m - 400 red silk, 300 blue cotton"
	}

	var b strings.Builder
	divider := strings.Repeat("=", 30)
	fmt.Fprintf(&b, "*Bulk Order Summary*\n%s\n\n", divider)
	fmt.Fprintf(&b, "Total: %.0f meter\n\n*Items:*\n", result.TotalQuantity)

	var sum float64
	for i, item := range result.Items {
		sum += item.Quantity
		fmt.Fprintf(&b, "%d. %s %s", i+1, title(item.Color), title(item.FabricType))
		if item.Width > 0 {
			fmt.Fprintf(&b, " %d\"", item.Width)
		}
		fmt.Fprintf(&b, " - %.0f mtr\n", item.Quantity)
	}

	fmt.Fprintf(&b, "\n%s\nTotal calculated: %.0f meter", divider, sum)
	return b.String()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
