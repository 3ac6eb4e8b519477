// Package extract pulls structured entities out of free-form Hinglish
// text with regexes and fixed bilingual vocabulary tables.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

var (
	// Currency marker before or after the number; commas allowed.
	amountRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|rupees?|rupaiye?)\s*(\d+(?:,\d+)*(?:\.\d+)?)|(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:₹|rs\.?|rupees?|rupaiye?|ka|ki)`)

	// Number immediately followed by a meter-unit token.
	quantityRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:meter|mtr|m(?:eter)?s?)\b`)

	// One or two consecutive capitalized words.
	nameRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)

	widthRe = regexp.MustCompile(`(\d+)\s*(?:"|inch\b|in\b)`)
	// Grade letters only; a bare word after "grade" ("grade cotton")
	// must not match.
	gradeRe = regexp.MustCompile(`(?i)\b([A-Da-d]\+?)\s+grade\b|\bgrade\s*([A-Da-d]\+?)(?:[^A-Za-z+]|$)`)
)

// nameStopwords are capitalized domain words that must never be taken
// as a customer name.
var nameStopwords = map[string]bool{
	"Invoice": true, "Bill": true, "Stock": true, "Payment": true,
	"Meter": true, "Silk": true, "Cotton": true,
}

// Extractor extracts entities from raw message text.
type Extractor struct{}

// New returns an entity extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns all entities found in text. Every field is optional;
// absence is not an error. Only the first match of each pattern is used.
func (e *Extractor) Extract(text string) domain.Entities {
	var ents domain.Entities
	lower := strings.ToLower(text)

	if m := amountRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
			ents.Amount = &v
		}
	}

	if m := quantityRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			ents.Quantity = &v
			ents.Unit = "meter"
		}
	}

	ents.Color = LookupColor(lower)
	ents.FabricType = LookupFabric(lower)
	ents.PaymentMethod = LookupPaymentMethod(lower)
	ents.CustomerName = extractName(text)

	return ents
}

// LookupColor returns the canonical color for the first table entry
// appearing in the lowercased text, or "".
func LookupColor(lower string) string {
	return scanTable(colorTable, lower)
}

// LookupFabric returns the canonical fabric type found in the
// lowercased text, or "".
func LookupFabric(lower string) string {
	return scanTable(fabricTable, lower)
}

// LookupPaymentMethod returns the canonical payment method found in
// the lowercased text, or "".
func LookupPaymentMethod(lower string) string {
	return scanTable(methodTable, lower)
}

// Width returns the fabric width in inches if text mentions one
// (44", 54 inch), else 0.
func Width(text string) int {
	if m := widthRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return 0
}

// Grade returns the fabric grade if mentioned ("grade A", "B+ grade"),
// else "". The grade is canonical uppercase regardless of input case.
func Grade(text string) string {
	if m := gradeRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return strings.ToUpper(m[1])
		}
		return strings.ToUpper(m[2])
	}
	return ""
}

// extractName returns the first capitalized-word sequence that is not
// a domain keyword. No dedup beyond that.
func extractName(text string) string {
	for _, m := range nameRe.FindAllStringSubmatch(text, -1) {
		candidate := m[1]
		if first, _, found := strings.Cut(candidate, " "); found && nameStopwords[first] {
			continue
		}
		if nameStopwords[candidate] {
			continue
		}
		return candidate
	}
	return ""
}
