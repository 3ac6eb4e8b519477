package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/bulkorder"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/invoice"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/ledger"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/nlu"
)

// dispatch classifies a message and routes it to the intent handler.
func (o *Orchestrator) dispatch(ctx context.Context, sess *domain.Session, text string) Reply {
	cls := o.classifier.Classify(ctx, text)
	sess.CurrentIntent = cls.Intent
	sess.Context.Merge(cls.Entities)

	o.log.Debug().
		Str("endpoint", sess.EndpointID).
		Str("intent", string(cls.Intent)).
		Float64("confidence", cls.Confidence).
		Msg("message classified")

	switch cls.Intent {
	case domain.IntentGenerateInvoice:
		return o.handleInvoice(ctx, sess)
	case domain.IntentBulkOrder:
		return o.handleBulkOrder(sess, text)
	case domain.IntentCheckInventory:
		return o.handleInventory(sess)
	case domain.IntentLowStockAlert:
		return o.handleLowStock()
	case domain.IntentCheckUdhaar:
		return o.handleUdhaar(sess)
	case domain.IntentProcessPayment:
		return o.handlePayment(sess)
	case domain.IntentSendReminder:
		return o.handleReminder(sess)
	case domain.IntentAddCustomer:
		return o.handleAddCustomer(sess)
	default:
		return o.handleGeneral(ctx, text)
	}
}

// handleInvoice creates an invoice once both slots (customer, amount
// or quantity) are known, prompting for whichever is missing.
func (o *Orchestrator) handleInvoice(ctx context.Context, sess *domain.Session) Reply {
	if sess.Context.CustomerName == "" {
		sess.Pending = &domain.PendingAction{Step: domain.StepInvoiceNeedCustomer}
		return Reply{Kind: ReplyPrompt, Text: promptInvoiceCustomer}
	}
	if sess.Context.Amount == nil && sess.Context.Quantity == nil {
		sess.Pending = &domain.PendingAction{
			Step:         domain.StepInvoiceNeedAmount,
			CustomerName: sess.Context.CustomerName,
		}
		return Reply{Kind: ReplyPrompt, Text: promptInvoiceAmount}
	}
	return o.createInvoice(ctx, sess)
}

// createInvoice resolves the customer, prices the line from inventory
// when possible, persists the invoice and books the amount as udhaar.
func (o *Orchestrator) createInvoice(ctx context.Context, sess *domain.Session) Reply {
	customer, err := o.resolveCustomer(sess.Context.CustomerName)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}

	line, reserved := o.buildLine(sess.Context)
	inv, err := o.calculator.Create(invoice.CreateRequest{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		CustomerGST:   customer.GSTNumber,
		Items:         []invoice.LineRequest{line},
	})
	if err != nil {
		o.log.Error().Err(err).Msg("invoice creation failed")
		return Reply{Kind: ReplyError, Text: replyInternalError}
	}
	if err := o.invoices.Insert(inv); err != nil {
		o.log.Error().Err(err).Msg("invoice persist failed")
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if reserved != nil {
		if err := o.inventory.Reserve(reserved.ID, line.Quantity, reserved.WastagePercent); err != nil {
			o.log.Warn().Err(err).Msg("stock reservation failed")
		}
	}

	sess.CustomerID = customer.ID
	sess.Pending = nil
	sess.Context = domain.Entities{}

	result, err := o.ledger.AddCredit(customer.ID, inv.GrandTotal, inv.ID, "invoice "+inv.InvoiceNumber)
	if err != nil {
		o.log.Error().Err(err).Msg("udhaar booking failed")
		return Reply{Kind: ReplyAnswered, Text: o.calculator.FormatText(inv)}
	}

	text := o.calculator.FormatText(inv)
	if result.Gated {
		o.notifyOwner(ctx, result.Request)
		return Reply{
			Kind: ReplyGated,
			Text: text + fmt.Sprintf("\n\n⏳ ₹%.0f ka udhaar bada hai, owner approval ke baad ledger mein add hoga.", inv.GrandTotal),
		}
	}
	return Reply{
		Kind: ReplyAnswered,
		Text: text + fmt.Sprintf("\n\n📒 Udhaar mein ₹%.0f add ho gaya (total baki ₹%.0f).", inv.GrandTotal, result.Applied.BalanceAfter),
	}
}

// buildLine prices one invoice line from the session context. Inventory
// sets the rate when the variant exists; otherwise business defaults
// apply. Returns the matched item for stock reservation, if any.
func (o *Orchestrator) buildLine(ents domain.Entities) (invoice.LineRequest, *domain.InventoryItem) {
	fabric := ents.FabricType
	if fabric == "" {
		fabric = "cotton"
	}
	color := ents.Color

	if ents.Quantity != nil {
		qty := *ents.Quantity
		name := title(strings.TrimSpace(color + " " + fabric + " Fabric"))

		av, err := o.inventory.Check(fabric, color, 0, qty)
		if err == nil && av.Item != nil {
			line := invoice.LineRequest{
				ItemID:     av.Item.ID,
				Name:       av.Item.Name,
				FabricType: av.Item.FabricType,
				Color:      av.Item.Color,
				Width:      av.Item.Width,
				Quantity:   qty,
				Unit:       av.Item.Unit,
				Rate:       av.Item.RatePerUnit,
				GSTRate:    av.Item.GSTRate,
			}
			if av.Available {
				return line, av.Item
			}
			return line, nil
		}
		return invoice.LineRequest{
			Name:       name,
			FabricType: fabric,
			Color:      color,
			Quantity:   qty,
			Rate:       o.opts.DefaultRate,
			GSTRate:    o.opts.DefaultGSTRate,
		}, nil
	}

	// amount only: one line at the quoted amount
	return invoice.LineRequest{
		Name:       title(strings.TrimSpace(color + " " + fabric + " Fabric")),
		FabricType: fabric,
		Color:      color,
		Quantity:   1,
		Unit:       "lot",
		Rate:       *ents.Amount,
		GSTRate:    o.opts.DefaultGSTRate,
	}, nil
}

// resolveCustomer finds a customer by name, creating one with the
// default credit limit when unknown.
func (o *Orchestrator) resolveCustomer(name string) (*domain.Customer, error) {
	customer, err := o.customers.GetByName(name)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	customer = &domain.Customer{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := o.customers.Insert(customer); err != nil {
		return nil, err
	}
	o.log.Info().Str("customer", name).Msg("new customer created")
	return customer, nil
}

// handleBulkOrder parses a multi-item order and checks availability.
func (o *Orchestrator) handleBulkOrder(sess *domain.Session, text string) Reply {
	result := o.parser.Parse(text)
	if !result.Success {
		return Reply{Kind: ReplyPrompt, Text: promptBulkClarify}
	}

	var b strings.Builder
	b.WriteString(bulkorder.FormatConfirmation(result))
	b.WriteString("\n\n*Stock check:*\n")
	for _, item := range result.Items {
		av, err := o.inventory.Check(item.FabricType, item.Color, item.Width, item.Quantity)
		switch {
		case err != nil:
			fmt.Fprintf(&b, "• %s %s: check nahi ho paya\n", item.Color, item.FabricType)
		case av.Available:
			fmt.Fprintf(&b, "✅ %s %s: %.0fm available\n", item.Color, item.FabricType, item.Quantity)
		default:
			fmt.Fprintf(&b, "⚠️ %s %s: %.0fm kam hai\n", item.Color, item.FabricType, av.Shortage)
		}
	}
	b.WriteString("\nConfirm karne ke liye 'invoice banao' likho.")

	sess.CurrentIntent = domain.IntentBulkOrder
	return Reply{Kind: ReplyAnswered, Text: strings.TrimRight(b.String(), "\n")}
}

func (o *Orchestrator) handleInventory(sess *domain.Session) Reply {
	msg, err := o.inventory.FormatStock(sess.Context.FabricType)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	return Reply{Kind: ReplyAnswered, Text: msg}
}

func (o *Orchestrator) handleLowStock() Reply {
	msg, err := o.inventory.FormatLowStock()
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	return Reply{Kind: ReplyAnswered, Text: msg}
}

// handleUdhaar answers per-customer credit status, or a summary across
// all customers with open udhaar when no name was given.
func (o *Orchestrator) handleUdhaar(sess *domain.Session) Reply {
	name := sess.Context.CustomerName
	if name == "" {
		customers, err := o.customers.List()
		if err != nil {
			return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
		}
		var (
			b     strings.Builder
			total float64
			count int
		)
		b.WriteString("*📒 Udhaar Summary*\n\n")
		for _, c := range customers {
			if c.TotalCredit <= 0 {
				continue
			}
			fmt.Fprintf(&b, "• %s: ₹%.0f\n", c.Name, c.TotalCredit)
			total += c.TotalCredit
			count++
		}
		if count == 0 {
			return Reply{Kind: ReplyAnswered, Text: "Kisi ka udhaar baki nahi hai. ✅"}
		}
		fmt.Fprintf(&b, "\nTotal: ₹%.0f (%d customer)", total, count)
		return Reply{Kind: ReplyAnswered, Text: b.String()}
	}

	customer, err := o.customers.GetByName(name)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if customer == nil {
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("%s naam ka customer nahi mila. 🔍", name)}
	}

	_, entries, err := o.ledger.CreditStatus(customer.ID, 5)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	sess.CustomerID = customer.ID
	return Reply{Kind: ReplyAnswered, Text: ledger.FormatCreditStatus(customer, entries)}
}

// handlePayment records a payment once customer and amount are known.
func (o *Orchestrator) handlePayment(sess *domain.Session) Reply {
	name := sess.Context.CustomerName
	method := domain.PaymentMethod(sess.Context.PaymentMethod)

	if name == "" && sess.CustomerID == "" {
		sess.Pending = &domain.PendingAction{Step: domain.StepPaymentNeedAmount, PaymentMethod: string(method)}
		return Reply{Kind: ReplyPrompt, Text: promptPaymentCustomer}
	}

	customer, err := o.paymentCustomer(sess, name)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if customer == nil {
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("%s naam ka customer nahi mila. 🔍", name)}
	}

	if sess.Context.Amount == nil {
		sess.Pending = &domain.PendingAction{
			Step:          domain.StepPaymentNeedAmount,
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			PaymentMethod: string(method),
		}
		return Reply{Kind: ReplyPrompt, Text: promptPaymentAmount}
	}

	return o.recordPayment(sess, customer, *sess.Context.Amount, method)
}

func (o *Orchestrator) paymentCustomer(sess *domain.Session, name string) (*domain.Customer, error) {
	if name != "" {
		return o.customers.GetByName(name)
	}
	return o.customers.Get(sess.CustomerID)
}

func (o *Orchestrator) recordPayment(sess *domain.Session, customer *domain.Customer, amount float64, method domain.PaymentMethod) Reply {
	if method == "" {
		method = domain.MethodUPI
	}
	entry, err := o.ledger.RecordPayment(customer.ID, amount, method, "", "")
	if err != nil {
		o.log.Error().Err(err).Msg("payment record failed")
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}

	sess.CustomerID = customer.ID
	sess.Pending = nil
	sess.Context = domain.Entities{}
	return Reply{
		Kind: ReplyAnswered,
		Text: fmt.Sprintf("✅ %s ka ₹%.0f payment record ho gaya (%s). Baki: ₹%.0f", customer.Name, amount, method, entry.BalanceAfter),
	}
}

// handleReminder scans for overdue customers and parks the reminders
// behind approval.
func (o *Orchestrator) handleReminder(sess *domain.Session) Reply {
	requests, err := o.ledger.RequestReminders()
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if len(requests) == 0 {
		return Reply{Kind: ReplyAnswered, Text: "Koi overdue payment nahi hai. ✅"}
	}

	ids := make([]string, len(requests))
	var b strings.Builder
	b.WriteString("*⏰ Overdue customers:*\n\n")
	for i, req := range requests {
		ids[i] = req.ID
		fmt.Fprintf(&b, "• %s: ₹%.0f (%s)\n", req.CustomerName, req.Amount, req.Notes)
	}
	b.WriteString("\nReminder bhejne ke liye 'approve' likho, cancel ke liye 'reject'.")

	sess.Pending = &domain.PendingAction{Step: domain.StepReminderApproval, HITLRequests: ids}
	return Reply{Kind: ReplyGated, Text: b.String()}
}

// handleAddCustomer registers a new customer with the default limit.
func (o *Orchestrator) handleAddCustomer(sess *domain.Session) Reply {
	name := sess.Context.CustomerName
	if name == "" {
		sess.Pending = &domain.PendingAction{Step: domain.StepCustomerNeedName}
		return Reply{Kind: ReplyPrompt, Text: promptCustomerName}
	}
	return o.createCustomer(sess, name)
}

func (o *Orchestrator) createCustomer(sess *domain.Session, name string) Reply {
	existing, err := o.customers.GetByName(name)
	if err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if existing != nil {
		sess.Pending = nil
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("%s pehle se customer hai (baki ₹%.0f).", existing.Name, existing.TotalCredit)}
	}

	customer := &domain.Customer{ID: uuid.New().String(), Name: name}
	if err := o.customers.Insert(customer); err != nil {
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}

	sess.CustomerID = customer.ID
	sess.Pending = nil
	sess.Context = domain.Entities{}
	return Reply{
		Kind: ReplyAnswered,
		Text: fmt.Sprintf("✅ %s customer add ho gaya. Credit limit: ₹%.0f", customer.Name, customer.CreditLimit),
	}
}

// handleGeneral answers free-form questions through the NLU service,
// falling back to the capability menu.
func (o *Orchestrator) handleGeneral(ctx context.Context, text string) Reply {
	if o.client == nil {
		return Reply{Kind: ReplyAnswered, Text: replyMenu}
	}
	answer, err := o.client.Complete(ctx, []nlu.ChatMessage{
		{Role: nlu.RoleSystem, Content: assistantPrompt},
		{Role: nlu.RoleUser, Content: text},
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		o.log.Warn().Err(err).Msg("general query failed, using menu")
		return Reply{Kind: ReplyAnswered, Text: replyMenu}
	}
	return Reply{Kind: ReplyAnswered, Text: answer}
}

// handleButton resolves approve_/reject_ button presses.
func (o *Orchestrator) handleButton(ctx context.Context, payload string) Reply {
	switch {
	case strings.HasPrefix(payload, "approve_"):
		return o.approveRequest(ctx, strings.TrimPrefix(payload, "approve_"))
	case strings.HasPrefix(payload, "reject_"):
		req, err := o.ledger.Reject(strings.TrimPrefix(payload, "reject_"))
		if err != nil {
			return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
		}
		if req == nil {
			return Reply{Kind: ReplyAnswered, Text: "Ye request pehle hi resolve ho chuki hai."}
		}
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("❌ %s ki request reject ho gayi.", req.CustomerName)}
	default:
		return Reply{Kind: ReplyAnswered, Text: replyMenu}
	}
}

func (o *Orchestrator) approveRequest(ctx context.Context, id string) Reply {
	req, err := o.ledger.Approve(id)
	if err != nil {
		o.log.Error().Err(err).Str("request", id).Msg("approval failed")
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}
	if req == nil {
		return Reply{Kind: ReplyAnswered, Text: "Ye request pehle hi resolve ho chuki hai."}
	}

	switch req.Type {
	case domain.HITLLargeCredit:
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("✅ Approved! %s ke udhaar mein ₹%.0f add ho gaya.", req.CustomerName, req.Amount)}
	case domain.HITLCreditReminder:
		o.sendReminder(ctx, req)
		return Reply{Kind: ReplyAnswered, Text: fmt.Sprintf("✅ %s ko reminder bhej diya.", req.CustomerName)}
	default:
		return Reply{Kind: ReplyAnswered, Text: "✅ Approve ho gaya."}
	}
}

// sendReminder delivers the payment reminder to the customer after the
// owner approved it. Best effort.
func (o *Orchestrator) sendReminder(ctx context.Context, req *domain.HITLRequest) {
	if o.transport == nil {
		return
	}
	customer, err := o.customers.Get(req.CustomerID)
	if err != nil || customer == nil || customer.Phone == "" {
		o.log.Warn().Str("customer", req.CustomerName).Msg("reminder skipped, no phone")
		return
	}
	text := fmt.Sprintf("Namaste %s ji! 🙏\nAapka ₹%.0f ka payment pending hai. Jaldi clear kar dein. Dhanyawad!", customer.Name, req.Amount)
	if err := o.transport.SendText(ctx, customer.Phone, text); err != nil {
		o.log.Warn().Err(err).Msg("reminder send failed")
	}
}
// title uppercases the first letter of each word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
