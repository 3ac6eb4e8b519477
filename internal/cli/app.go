package cli

import (
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/bulkorder"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/extract"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/intent"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/inventory"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/invoice"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/ledger"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/nlu"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/orchestrator"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/scheduler"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
)

// app holds the wired service graph behind one message pipeline.
type app struct {
	orch  *orchestrator.Orchestrator
	sched *scheduler.Scheduler
}

// newNLUClient builds the Sarvam client, or nil when no API key is
// configured. The orchestrator degrades to the static menu without it.
func newNLUClient(cfg config.Config) nlu.Client {
	if cfg.Sarvam.APIKey == "" {
		log.Warn().Msg("no Sarvam API key — NLU and voice disabled, using keyword fallback only")
		return nil
	}
	return nlu.NewSarvamClient(nlu.SarvamOptions{
		APIKey:      cfg.Sarvam.APIKey,
		BaseURL:     cfg.Sarvam.BaseURL,
		ChatModel:   cfg.Sarvam.ChatModel,
		SpeechModel: cfg.Sarvam.SpeechModel,
		Timeout:     time.Duration(cfg.Sarvam.TimeoutSeconds) * time.Second,
	}, log)
}

// buildApp wires stores, services, orchestrator and scheduler against
// an open database and a transport.
func buildApp(cfg config.Config, db *store.DB, tr transport.Transport, client nlu.Client) *app {
	customers := store.NewCustomerStore(db)
	invoices := store.NewInvoiceStore(db)
	entries := store.NewLedgerStore(db)
	items := store.NewInventoryStore(db)
	sessions := store.NewSessionStore(db)

	calculator := invoice.New(invoice.Options{
		BusinessName:  cfg.Business.Name,
		NumberPrefix:  cfg.Invoice.NumberPrefix,
		PlaceOfSupply: cfg.Invoice.PlaceOfSupply,
		DueDays:       cfg.Invoice.DueDays,
	}, func() (int64, error) { return db.NextSequence("invoice") })

	ledgerSvc := ledger.New(ledger.Options{
		LargeCreditThreshold: cfg.Ledger.LargeCreditThreshold,
		OverdueDays:          cfg.Ledger.OverdueDays,
	}, customers, entries, invoices, log)

	inventorySvc := inventory.New(items, log)
	extractor := extract.New()
	classifier := intent.New(client, extractor, log)

	orch := orchestrator.New(orchestrator.Options{
		OwnerPhone:     cfg.Business.OwnerPhone,
		DefaultGSTRate: cfg.Invoice.DefaultGSTRate,
		DefaultRate:    cfg.Invoice.DefaultRate,
		IdleMinutes:    cfg.Session.IdleMinutes,
	}, orchestrator.Deps{
		Sessions:   sessions,
		Customers:  customers,
		Invoices:   invoices,
		Calculator: calculator,
		Ledger:     ledgerSvc,
		Inventory:  inventorySvc,
		Classifier: classifier,
		Extractor:  extractor,
		Parser:     bulkorder.New(),
		Client:     client,
		Transport:  tr,
	}, log)

	sched := scheduler.New(cfg.Scheduler, cfg.Business.OwnerPhone,
		customers, invoices, ledgerSvc, inventorySvc, tr, log)

	return &app{orch: orch, sched: sched}
}
