// Package intent classifies Hinglish messages into business intents.
// The primary path delegates to the external NLU service; a
// deterministic keyword scan takes over whenever that call fails or
// returns something unparseable.
package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/extract"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/nlu"
)

const systemPrompt = `You are an intent classifier for an Indian textile retail business assistant.
Classify the user's message into one of these intents:
- generate_invoice: User wants to create a bill/invoice
- check_inventory: User wants to check stock/inventory
- check_udhaar: User wants to check credit/pending payments
- process_payment: User mentions payment received
- send_reminder: User wants to send payment reminders
- add_customer: User wants to add a new customer
- bulk_order: User mentions a large order with multiple items
- low_stock_alert: User asks about low stock items
- general_query: General questions about business
- unknown: Cannot determine intent

Also extract entities like:
- customer_name: Name of customer mentioned
- amount: Any monetary amount
- quantity: Quantity in meters/pieces
- fabric_type: silk, cotton, polyester, etc.
- color: Any color mentioned
- payment_method: upi, cash, gpay, phonepe, etc.

Respond in JSON format only:
{"intent": "<intent>", "entities": {"key": "value"}, "confidence": 0.0-1.0}`

// codeFenceRe pulls a JSON object out of a markdown code fence.
var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// bulkPatternRe recognizes "Xm - Y ..." order shapes.
var bulkPatternRe = regexp.MustCompile(`\d+\s*(?:meter|mtr|m)\s*(?:chahiye|total|ka order)?\s*[-:]\s*\d+`)

// Fallback keyword lists, each checked in order. Bulk-order cues come
// first: they are more specific and must not lose to invoice cues.
var (
	bulkKeywords      = []string{"meter chahiye", "mtr chahiye", "m chahiye", "bulk order", "total order", "1000m", "500m", "100m"}
	invoiceKeywords   = []string{"invoice", "bill", "bhejo", "banao", "invoice banao", "bill de", "raseed"}
	inventoryKeywords = []string{"stock", "inventory", "kitna hai", "available", "maal", "check karo"}
	udhaarKeywords    = []string{"udhaar", "credit", "pending", "baki", "baaki", "hisaab"}
	paymentKeywords   = []string{"payment", "paid", "bheja", "transfer", "gpay", "phonepe", "upi", "paisa"}
	reminderKeywords  = []string{"reminder", "yaad", "bhulna", "follow up", "overdue"}
)

// Classifier resolves a message to an intent plus extracted entities.
type Classifier struct {
	client    nlu.Client
	extractor *extract.Extractor
	log       *logging.Logger
}

// New creates a classifier. client may be nil, in which case only the
// deterministic fallback runs.
func New(client nlu.Client, extractor *extract.Extractor, log *logging.Logger) *Classifier {
	return &Classifier{
		client:    client,
		extractor: extractor,
		log:       log.Sub("intent"),
	}
}

// Classify never fails: any NLU error or malformed response falls back
// to the keyword scan.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Classification {
	if c.client == nil {
		return c.Fallback(text)
	}

	raw, err := c.client.Complete(ctx, []nlu.ChatMessage{
		{Role: nlu.RoleSystem, Content: systemPrompt},
		{Role: nlu.RoleUser, Content: text},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("NLU classification failed, using fallback")
		return c.Fallback(text)
	}

	result, ok := parseClassification(raw)
	if !ok {
		c.log.Warn().Str("raw", raw).Msg("unparseable classification response, using fallback")
		return c.Fallback(text)
	}
	return result
}

// parseClassification extracts intent/entities/confidence from the
// model's reply. Extra fields are ignored; a missing intent maps to
// unknown.
func parseClassification(raw string) (domain.Classification, bool) {
	content := raw
	if m := codeFenceRe.FindStringSubmatch(raw); m != nil {
		content = m[1]
	}

	var parsed struct {
		Intent     string         `json:"intent"`
		Entities   map[string]any `json:"entities"`
		Confidence float64        `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Classification{}, false
	}

	confidence := parsed.Confidence
	if confidence == 0 {
		confidence = 0.5
	}

	return domain.Classification{
		Intent:     domain.ParseIntent(parsed.Intent),
		Entities:   entitiesFromMap(parsed.Entities),
		Confidence: confidence,
	}, true
}

// entitiesFromMap converts the model's loose entity map into the typed
// struct. Numeric values arrive as numbers or strings.
func entitiesFromMap(m map[string]any) domain.Entities {
	var ents domain.Entities
	for key, val := range m {
		switch key {
		case "amount":
			if f, ok := toFloat(val); ok {
				ents.Amount = &f
			}
		case "quantity":
			if f, ok := toFloat(val); ok {
				ents.Quantity = &f
			}
		case "unit":
			ents.Unit = toString(val)
		case "color":
			ents.Color = toString(val)
		case "fabric_type":
			ents.FabricType = toString(val)
		case "customer_name":
			ents.CustomerName = toString(val)
		case "payment_method":
			ents.PaymentMethod = toString(val)
		}
	}
	return ents
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(x, ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Fallback is the deterministic keyword-priority classification. Same
// input always yields the same result.
func (c *Classifier) Fallback(text string) domain.Classification {
	lower := strings.ToLower(text)
	ents := c.extractor.Extract(text)

	classify := func(intent domain.Intent, confidence float64) domain.Classification {
		return domain.Classification{Intent: intent, Entities: ents, Confidence: confidence}
	}

	if containsAny(lower, bulkKeywords) || bulkPatternRe.MatchString(lower) {
		return classify(domain.IntentBulkOrder, 0.8)
	}
	if containsAny(lower, invoiceKeywords) {
		return classify(domain.IntentGenerateInvoice, 0.7)
	}
	if containsAny(lower, inventoryKeywords) {
		return classify(domain.IntentCheckInventory, 0.7)
	}
	if containsAny(lower, udhaarKeywords) {
		return classify(domain.IntentCheckUdhaar, 0.7)
	}
	if containsAny(lower, paymentKeywords) {
		return classify(domain.IntentProcessPayment, 0.7)
	}
	if containsAny(lower, reminderKeywords) {
		return classify(domain.IntentSendReminder, 0.7)
	}
	return classify(domain.IntentGeneralQuery, 0.5)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
