package orchestrator

import (
	"context"
	"strconv"
	"strings"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

var (
	approveWords = []string{"approve", "haan", "yes", "ok", "theek hai", "bhejo"}
	rejectWords  = []string{"reject", "cancel", "nahi", "no", "rehne do"}
)

// handlePending continues a multi-turn action. A reply that clearly
// starts a different request abandons the pending action and is
// dispatched fresh.
func (o *Orchestrator) handlePending(ctx context.Context, sess *domain.Session, text string) Reply {
	pending := sess.Pending

	switch pending.Step {
	case domain.StepReminderApproval:
		return o.resolveReminderApproval(ctx, sess, text)

	case domain.StepInvoiceNeedCustomer:
		if name := o.slotName(text); name != "" {
			sess.Context.CustomerName = name
			sess.Pending = nil
			return o.handleInvoice(ctx, sess)
		}
		return o.abandonOrReprompt(ctx, sess, text, domain.IntentGenerateInvoice, promptInvoiceCustomer)

	case domain.StepInvoiceNeedAmount:
		ents := o.extractor.Extract(text)
		sess.Context.Merge(ents)
		if sess.Context.Amount == nil && sess.Context.Quantity == nil {
			if v, ok := bareNumber(text); ok {
				sess.Context.Amount = &v
			}
		}
		if sess.Context.Amount != nil || sess.Context.Quantity != nil {
			if sess.Context.CustomerName == "" {
				sess.Context.CustomerName = pending.CustomerName
			}
			sess.Pending = nil
			return o.createInvoice(ctx, sess)
		}
		return o.abandonOrReprompt(ctx, sess, text, domain.IntentGenerateInvoice, promptInvoiceAmount)

	case domain.StepPaymentNeedAmount:
		return o.fillPayment(ctx, sess, text)

	case domain.StepCustomerNeedName:
		if name := o.slotName(text); name != "" {
			sess.Pending = nil
			return o.createCustomer(sess, name)
		}
		return o.abandonOrReprompt(ctx, sess, text, domain.IntentAddCustomer, promptCustomerName)

	default:
		sess.Pending = nil
		return o.dispatch(ctx, sess, text)
	}
}

// resolveReminderApproval handles the approve/reject keywords for a
// parked reminder batch; anything else is treated as a new request.
func (o *Orchestrator) resolveReminderApproval(ctx context.Context, sess *domain.Session, text string) Reply {
	lower := strings.ToLower(strings.TrimSpace(text))
	ids := sess.Pending.HITLRequests

	if matchesWord(lower, approveWords) {
		sess.Pending = nil
		count := 0
		for _, id := range ids {
			req, err := o.ledger.Approve(id)
			if err != nil {
				o.log.Error().Err(err).Str("request", id).Msg("reminder approval failed")
				continue
			}
			if req != nil {
				o.sendReminder(ctx, req)
				count++
			}
		}
		if count == 0 {
			return Reply{Kind: ReplyAnswered, Text: "Reminders pehle hi resolve ho chuke hain."}
		}
		return Reply{Kind: ReplyAnswered, Text: "✅ Reminders approve ho gaye, bhej diye."}
	}

	if matchesWord(lower, rejectWords) {
		sess.Pending = nil
		for _, id := range ids {
			if _, err := o.ledger.Reject(id); err != nil {
				o.log.Error().Err(err).Str("request", id).Msg("reminder rejection failed")
			}
		}
		return Reply{Kind: ReplyAnswered, Text: "Theek hai, reminder nahi bhejenge."}
	}

	sess.Pending = nil
	return o.dispatch(ctx, sess, text)
}

// fillPayment fills whichever payment slot the reply provides.
func (o *Orchestrator) fillPayment(ctx context.Context, sess *domain.Session, text string) Reply {
	pending := sess.Pending
	ents := o.extractor.Extract(text)
	sess.Context.Merge(ents)

	if pending.CustomerID == "" && sess.Context.CustomerName == "" {
		if name := o.slotName(text); name != "" {
			sess.Context.CustomerName = name
		}
	}

	amount := sess.Context.Amount
	if amount == nil {
		if v, ok := bareNumber(text); ok {
			amount = &v
			sess.Context.Amount = amount
		}
	}

	name := sess.Context.CustomerName
	if name == "" {
		name = pending.CustomerName
	}
	if name == "" && pending.CustomerID == "" {
		return o.abandonOrReprompt(ctx, sess, text, domain.IntentProcessPayment, promptPaymentCustomer)
	}

	var (
		customer *domain.Customer
		err      error
	)
	if pending.CustomerID != "" {
		customer, err = o.customers.Get(pending.CustomerID)
	} else {
		customer, err = o.customers.GetByName(name)
	}
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if customer == nil {
		sess.Pending = nil
		return Reply{Kind: ReplyAnswered, Text: name + " naam ka customer nahi mila. 🔍"}
	}

	if amount == nil {
		pending.CustomerID = customer.ID
		pending.CustomerName = customer.Name
		return Reply{Kind: ReplyPrompt, Text: promptPaymentAmount}
	}

	method := domain.PaymentMethod(sess.Context.PaymentMethod)
	if method == "" {
		method = domain.PaymentMethod(pending.PaymentMethod)
	}
	sess.Pending = nil
	return o.recordPayment(sess, customer, *amount, method)
}

// abandonOrReprompt re-classifies an unhelpful slot reply: a different
// strong intent wins, otherwise the user is asked again.
func (o *Orchestrator) abandonOrReprompt(ctx context.Context, sess *domain.Session, text string, current domain.Intent, prompt string) Reply {
	cls := o.classifier.Classify(ctx, text)
	if cls.Intent != current && cls.Intent != domain.IntentGeneralQuery && cls.Intent != domain.IntentUnknown {
		sess.Pending = nil
		return o.dispatch(ctx, sess, text)
	}
	return Reply{Kind: ReplyPrompt, Text: prompt}
}

// slotName interprets a slot reply as a customer name: either the
// extractor found one, or a short digit-free reply is the name itself.
func (o *Orchestrator) slotName(text string) string {
	if name := o.extractor.Extract(text).CustomerName; name != "" {
		return name
	}
	trimmed := strings.TrimSpace(text)
	words := strings.Fields(trimmed)
	if len(words) == 0 || len(words) > 3 {
		return ""
	}
	if strings.ContainsAny(trimmed, "0123456789") {
		return ""
	}
	// a reply that reads as a command is not a name
	if o.classifier.Fallback(trimmed).Intent != domain.IntentGeneralQuery {
		return ""
	}
	return title(trimmed)
}

// bareNumber parses replies like "5000" or "5,000".
func bareNumber(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func matchesWord(lower string, words []string) bool {
	for _, w := range words {
		if lower == w || strings.HasPrefix(lower, w+" ") {
			return true
		}
	}
	return false
}
