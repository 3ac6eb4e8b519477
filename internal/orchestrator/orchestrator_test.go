package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/bulkorder"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/extract"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/intent"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/inventory"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/invoice"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/ledger"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/nlu"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
)

const endpoint = "919876543210"

type fixture struct {
	orch      *Orchestrator
	db        *store.DB
	customers *store.CustomerStore
	invoices  *store.InvoiceStore
	inventory *store.InventoryStore
	mock      *transport.Mock
}

func newFixture(t *testing.T, client nlu.Client) *fixture {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := store.Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	customers := store.NewCustomerStore(db)
	invoices := store.NewInvoiceStore(db)
	items := store.NewInventoryStore(db)
	entries := store.NewLedgerStore(db)

	calc := invoice.New(invoice.Options{
		BusinessName:  "Kapoor Textiles",
		NumberPrefix:  "KT",
		PlaceOfSupply: "Delhi",
		DueDays:       30,
	}, func() (int64, error) { return db.NextSequence("invoice") })

	ledgerSvc := ledger.New(ledger.Options{LargeCreditThreshold: 10000, OverdueDays: 30},
		customers, entries, invoices, log)
	inventorySvc := inventory.New(items, log)
	extractor := extract.New()
	mock := transport.NewMock()

	orch := New(Options{
		OwnerPhone:     "917000000000",
		DefaultGSTRate: 5.0,
		DefaultRate:    200,
		IdleMinutes:    30,
	}, Deps{
		Sessions:   store.NewSessionStore(db),
		Customers:  customers,
		Invoices:   invoices,
		Calculator: calc,
		Ledger:     ledgerSvc,
		Inventory:  inventorySvc,
		Classifier: intent.New(client, extractor, log),
		Extractor:  extractor,
		Parser:     bulkorder.New(),
		Client:     client,
		Transport:  mock,
	}, log)

	return &fixture{orch: orch, db: db, customers: customers, invoices: invoices, inventory: items, mock: mock}
}

func (f *fixture) text(t *testing.T, content string) Reply {
	t.Helper()
	return f.orch.ProcessMessage(context.Background(), domain.InboundMessage{
		ID:         uuid.New().String(),
		EndpointID: endpoint,
		Kind:       domain.MessageText,
		Content:    content,
		Timestamp:  time.Now(),
	})
}

func (f *fixture) seedCustomer(t *testing.T, name string, totalCredit float64) *domain.Customer {
	t.Helper()
	c := &domain.Customer{ID: uuid.New().String(), Name: name, Phone: "918800000001", TotalCredit: totalCredit}
	require.NoError(t, f.customers.Insert(c))
	return c
}

func TestInvoice_TwoTurnSlotFilling(t *testing.T) {
	f := newFixture(t, nil)

	// turn 1: intent and customer known, amount missing
	reply := f.text(t, "Ramesh ko invoice banao")
	assert.Equal(t, ReplyPrompt, reply.Kind)
	assert.Contains(t, reply.Text, "Kitne ka")

	// turn 2: the missing slot alone completes the action
	reply = f.text(t, "5000 ka")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Invoice: KT/")
	assert.Contains(t, reply.Text, "Ramesh")

	customer, err := f.customers.GetByName("Ramesh")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.InDelta(t, 5250.0, customer.TotalCredit, 0.01) // 5000 + 5% GST

	invoices, err := f.invoices.ListByCustomer(customer.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
}

func TestInvoice_SingleTurn(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "Ramesh ko 5000 ka invoice banao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "GRAND TOTAL")
	assert.Contains(t, reply.Text, "Udhaar mein")
}

func TestInvoice_LargeAmountGated(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "Ramesh ko 15000 ka invoice banao")
	assert.Equal(t, ReplyGated, reply.Kind)
	assert.Contains(t, reply.Text, "owner approval")

	// owner got the approve/reject buttons
	last := f.mock.Last()
	require.NotNil(t, last)
	assert.Equal(t, "917000000000", last.To)
	require.Len(t, last.Buttons, 2)
	assert.Contains(t, last.Buttons[0].ID, "approve_")

	// balance untouched until approval
	customer, err := f.customers.GetByName("Ramesh")
	require.NoError(t, err)
	assert.Zero(t, customer.TotalCredit)

	// owner taps approve
	requestID := last.Buttons[0].ID[len("approve_"):]
	reply = f.orch.ProcessMessage(context.Background(), domain.InboundMessage{
		EndpointID:    "917000000000",
		Kind:          domain.MessageButton,
		ButtonPayload: "approve_" + requestID,
	})
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Approved")

	customer, err = f.customers.GetByName("Ramesh")
	require.NoError(t, err)
	assert.InDelta(t, 15750.0, customer.TotalCredit, 0.01)
}

func TestInvoice_PricedFromInventory(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.inventory.Insert(&domain.InventoryItem{
		ID: uuid.New().String(), Name: "Red Silk 44", FabricType: "silk", Color: "red",
		Width: 44, Quantity: 500, Unit: "meter", RatePerUnit: 100, GSTRate: 5,
	}))

	reply := f.text(t, "Ramesh ko 50 meter laal resham ka bill banao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Red Silk 44")

	// stock was reserved
	items, err := f.inventory.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 450.0, items[0].Quantity)
}

func TestPayment_SingleTurn(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCustomer(t, "Ramesh", 5000)

	reply := f.text(t, "Ramesh ka 2000 ka payment gpay se aaya")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "₹2000 payment record ho gaya")
	assert.Contains(t, reply.Text, "Baki: ₹3000")
}

func TestPayment_TwoTurn(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCustomer(t, "Ramesh", 5000)

	reply := f.text(t, "payment aaya hai")
	assert.Equal(t, ReplyPrompt, reply.Kind)

	reply = f.text(t, "Ramesh ne 2000 ka payment kiya")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Baki: ₹3000")
}

func TestUdhaar_Status(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCustomer(t, "Suresh", 7000)

	reply := f.text(t, "Suresh ka udhaar batao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Suresh")
	assert.Contains(t, reply.Text, "₹7000")
}

func TestUdhaar_UnknownCustomer(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "Mahesh ka udhaar batao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "nahi mila")
}

func TestUdhaar_Summary(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCustomer(t, "Ramesh", 5000)
	f.seedCustomer(t, "Suresh", 3000)

	reply := f.text(t, "kitna udhaar baki hai")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Total: ₹8000")
}

func TestBulkOrder(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.inventory.Insert(&domain.InventoryItem{
		ID: uuid.New().String(), Name: "Red Silk", FabricType: "silk", Color: "red",
		Width: 44, Quantity: 500, Unit: "meter",
	}))

	reply := f.text(t, "1000m - 400 red silk, 300 blue cotton, 300 green polyester")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Bulk Order")
	assert.Contains(t, reply.Text, "✅ red silk: 400m available")
	assert.Contains(t, reply.Text, "⚠️ blue cotton")
}

func TestReminders_ApproveFlow(t *testing.T) {
	f := newFixture(t, nil)
	c := f.seedCustomer(t, "Ramesh", 5000)

	created := time.Now().UTC().AddDate(0, 0, -60)
	require.NoError(t, f.invoices.Insert(&domain.Invoice{
		ID: uuid.New().String(), InvoiceNumber: "KT/old/1", Type: domain.InvoicePucca,
		CustomerID: c.ID, CustomerName: c.Name,
		Items:    []domain.InvoiceLineItem{{Name: "Fabric", Quantity: 1, Rate: 5000, TaxableAmount: 5000, TotalAmount: 5000}},
		Subtotal: 5000, GrandTotal: 5000, PaymentStatus: domain.PaymentPending, BalanceDue: 5000,
		CreatedAt: created, DueDate: created.AddDate(0, 0, 30),
	}))

	reply := f.text(t, "overdue walo ko yaad dilao")
	assert.Equal(t, ReplyGated, reply.Kind)
	assert.Contains(t, reply.Text, "Ramesh")

	reply = f.text(t, "approve")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "bhej diye")

	// the customer received the reminder text
	last := f.mock.Last()
	require.NotNil(t, last)
	assert.Equal(t, c.Phone, last.To)
	assert.Contains(t, last.Text, "payment pending")
}

func TestReminders_RejectFlow(t *testing.T) {
	f := newFixture(t, nil)
	c := f.seedCustomer(t, "Ramesh", 5000)

	created := time.Now().UTC().AddDate(0, 0, -60)
	require.NoError(t, f.invoices.Insert(&domain.Invoice{
		ID: uuid.New().String(), InvoiceNumber: "KT/old/2", Type: domain.InvoicePucca,
		CustomerID: c.ID, CustomerName: c.Name,
		Items:    []domain.InvoiceLineItem{{Name: "Fabric", Quantity: 1, Rate: 5000, TaxableAmount: 5000, TotalAmount: 5000}},
		Subtotal: 5000, GrandTotal: 5000, PaymentStatus: domain.PaymentPending, BalanceDue: 5000,
		CreatedAt: created, DueDate: created.AddDate(0, 0, 30),
	}))

	f.text(t, "overdue walo ko yaad dilao")
	sent := len(f.mock.Sent)

	reply := f.text(t, "reject")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "nahi bhejenge")
	assert.Len(t, f.mock.Sent, sent) // nothing went out
}

func TestReminders_NoOverdue(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "overdue walo ko yaad dilao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Koi overdue")
}

func TestInventory_StockQuery(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.inventory.Insert(&domain.InventoryItem{
		ID: uuid.New().String(), Name: "Red Silk", FabricType: "silk", Color: "red",
		Quantity: 500, Unit: "meter", RatePerUnit: 250,
	}))

	reply := f.text(t, "stock kitna hai")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Red Silk")
}

func TestGeneralQuery_MenuWithoutNLU(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "namaste ji")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "business assistant")
}

func TestGeneralQuery_NLUAnswer(t *testing.T) {
	client := &nlu.MockClient{
		CompleteFunc: func(_ context.Context, msgs []nlu.ChatMessage) (string, error) {
			// first call is classification, second the free-form answer
			if msgs[0].Content == assistantPrompt {
				return "Dukaan subah 10 baje khulti hai!", nil
			}
			return `{"intent": "general_query", "entities": {}, "confidence": 0.9}`, nil
		},
	}
	f := newFixture(t, client)

	reply := f.text(t, "dukaan kab khulti hai")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "10 baje")
}

func TestAddCustomer_TwoTurn(t *testing.T) {
	client := &nlu.MockClient{
		CompleteFunc: func(_ context.Context, msgs []nlu.ChatMessage) (string, error) {
			return `{"intent": "add_customer", "entities": {}, "confidence": 0.9}`, nil
		},
	}
	f := newFixture(t, client)

	reply := f.text(t, "naya customer add karna hai")
	assert.Equal(t, ReplyPrompt, reply.Kind)
	assert.Contains(t, reply.Text, "naam")

	reply = f.text(t, "Mahesh Gupta")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Mahesh Gupta")
	assert.Contains(t, reply.Text, "₹50000")

	customer, err := f.customers.GetByName("Mahesh Gupta")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, domain.DefaultCreditLimit, customer.CreditLimit)
}

func TestAddCustomer_Duplicate(t *testing.T) {
	client := &nlu.MockClient{
		CompleteFunc: func(_ context.Context, msgs []nlu.ChatMessage) (string, error) {
			return `{"intent": "add_customer", "entities": {"customer_name": "Ramesh"}, "confidence": 0.9}`, nil
		},
	}
	f := newFixture(t, client)
	f.seedCustomer(t, "Ramesh", 1200)

	reply := f.text(t, "Ramesh ko customer banao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "pehle se")
}

func TestVoiceMessage_Transcribed(t *testing.T) {
	client := &nlu.MockClient{
		TranscribeFunc: func(_ context.Context, audio []byte, _ string) (string, error) {
			assert.Equal(t, []byte("ogg-audio"), audio)
			return "stock kitna hai", nil
		},
	}
	f := newFixture(t, client)
	f.mock.Media["media-1"] = []byte("ogg-audio")

	reply := f.orch.ProcessMessage(context.Background(), domain.InboundMessage{
		EndpointID: endpoint,
		Kind:       domain.MessageAudio,
		MediaID:    "media-1",
	})
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Stock")
}

func TestVoiceMessage_TranscriptionFails(t *testing.T) {
	client := &nlu.MockClient{
		TranscribeFunc: func(_ context.Context, _ []byte, _ string) (string, error) {
			return "", assert.AnError
		},
	}
	f := newFixture(t, client)
	f.mock.Media["media-1"] = []byte("ogg-audio")

	reply := f.orch.ProcessMessage(context.Background(), domain.InboundMessage{
		EndpointID: endpoint,
		Kind:       domain.MessageAudio,
		MediaID:    "media-1",
	})
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Voice message samajh nahi aaya")
}

func TestImageMessage_ScreenshotReply(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.orch.ProcessMessage(context.Background(), domain.InboundMessage{
		EndpointID: endpoint,
		Kind:       domain.MessageImage,
		MediaID:    "media-2",
	})
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "screenshot")
}

func TestPendingAbandoned_ByDifferentIntent(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCustomer(t, "Suresh", 4000)

	reply := f.text(t, "Ramesh ko invoice banao")
	assert.Equal(t, ReplyPrompt, reply.Kind)

	// the reply is a totally different request; the pending slot is dropped
	reply = f.text(t, "Suresh ka udhaar batao")
	assert.Equal(t, ReplyAnswered, reply.Kind)
	assert.Contains(t, reply.Text, "Suresh")
	assert.Contains(t, reply.Text, "₹4000")
}

func TestIdleSession_StateDropped(t *testing.T) {
	f := newFixture(t, nil)

	reply := f.text(t, "Ramesh ko invoice banao")
	assert.Equal(t, ReplyPrompt, reply.Kind)

	// fast-forward past the idle window
	f.orch.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	// old pending slot is gone; the amount reads as a fresh message
	// and falls through to the capability menu
	reply = f.text(t, "5000 ka")
	assert.Contains(t, reply.Text, "business assistant")

	// no invoice was ever created, so the customer never materialized
	customer, err := f.customers.GetByName("Ramesh")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestStoreDown_Unavailable(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.db.Close())

	reply := f.text(t, "stock kitna hai")
	assert.Equal(t, ReplyUnavailable, reply.Kind)
	assert.Contains(t, reply.Text, "Database connected nahi hai")
}
