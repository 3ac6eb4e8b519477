// Package scheduler runs the proactive owner alerts on cron
// schedules: daily summary, low stock, and the overdue reminder scan.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/inventory"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/ledger"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
)

// Scheduler owns the cron runner and the alert jobs.
type Scheduler struct {
	cfg       config.SchedulerConfig
	owner     string
	customers *store.CustomerStore
	invoices  *store.InvoiceStore
	ledger    *ledger.Service
	inventory *inventory.Service
	transport transport.Transport
	log       *logging.Logger
	cron      *cron.Cron
	now       func() time.Time
}

// New creates a scheduler. Jobs alert the owner's phone.
func New(cfg config.SchedulerConfig, ownerPhone string, customers *store.CustomerStore, invoices *store.InvoiceStore, ledgerSvc *ledger.Service, inventorySvc *inventory.Service, tr transport.Transport, log *logging.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		owner:     ownerPhone,
		customers: customers,
		invoices:  invoices,
		ledger:    ledgerSvc,
		inventory: inventorySvc,
		transport: tr,
		log:       log.Sub("scheduler"),
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron runner. It returns
// immediately; Stop shuts the runner down.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("scheduler disabled")
		return nil
	}
	if s.owner == "" {
		return fmt.Errorf("scheduler requires an owner phone")
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"daily summary", s.cfg.DailySummaryCron, s.runDailySummary},
		{"low stock", s.cfg.LowStockCron, s.runLowStock},
		{"overdue scan", s.cfg.OverdueCron, s.runOverdueScan},
	}

	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		run := job.run
		name := job.name
		_, err := s.cron.AddFunc(job.spec, func() {
			s.log.Debug().Str("job", name).Msg("job starting")
			run(ctx)
		})
		if err != nil {
			return fmt.Errorf("scheduling %s (%q): %w", job.name, job.spec, err)
		}
		s.log.Info().Str("job", job.name).Str("cron", job.spec).Msg("job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runDailySummary sends yesterday-to-now business numbers to the owner.
func (s *Scheduler) runDailySummary(ctx context.Context) {
	since := s.now().UTC().AddDate(0, 0, -1)

	count, total, err := s.invoices.TotalsSince(since)
	if err != nil {
		s.log.Error().Err(err).Msg("daily summary failed")
		return
	}

	customers, err := s.customers.List()
	if err != nil {
		s.log.Error().Err(err).Msg("daily summary failed")
		return
	}
	var udhaarTotal float64
	for _, c := range customers {
		udhaarTotal += c.TotalCredit
	}

	overdue, err := s.ledger.Overdue()
	if err != nil {
		s.log.Error().Err(err).Msg("daily summary failed")
		return
	}

	var b strings.Builder
	b.WriteString("*📊 Daily Summary*\n\n")
	fmt.Fprintf(&b, "🧾 Invoices (24h): %d (₹%.0f)\n", count, total)
	fmt.Fprintf(&b, "📒 Total udhaar: ₹%.0f\n", udhaarTotal)
	fmt.Fprintf(&b, "⏰ Overdue customers: %d\n", len(overdue))

	s.send(ctx, b.String())
}

// runLowStock alerts the owner when items are at or below reorder
// level. Silent when everything is stocked.
func (s *Scheduler) runLowStock(ctx context.Context) {
	items, err := s.inventory.LowStock()
	if err != nil {
		s.log.Error().Err(err).Msg("low stock scan failed")
		return
	}
	if len(items) == 0 {
		return
	}

	msg, err := s.inventory.FormatLowStock()
	if err != nil {
		s.log.Error().Err(err).Msg("low stock scan failed")
		return
	}
	s.send(ctx, msg)
}

// runOverdueScan creates reminder approval requests for overdue
// customers and asks the owner to approve each. Reminders never reach
// customers without approval.
func (s *Scheduler) runOverdueScan(ctx context.Context) {
	requests, err := s.ledger.RequestReminders()
	if err != nil {
		s.log.Error().Err(err).Msg("overdue scan failed")
		return
	}
	if len(requests) == 0 {
		return
	}

	for _, req := range requests {
		body := fmt.Sprintf("*⏰ Overdue:* %s — ₹%.0f\n%s\n\nReminder bhejein?", req.CustomerName, req.Amount, req.Notes)
		err := s.transport.SendButtons(ctx, s.owner, body, []transport.Button{
			{ID: "approve_" + req.ID, Title: "✅ Bhejo"},
			{ID: "reject_" + req.ID, Title: "❌ Rehne do"},
		})
		if err != nil {
			s.log.Error().Err(err).Str("customer", req.CustomerName).Msg("overdue alert failed")
		}
	}
	s.log.Info().Int("requests", len(requests)).Msg("overdue reminders queued for approval")
}

func (s *Scheduler) send(ctx context.Context, text string) {
	if err := s.transport.SendText(ctx, s.owner, text); err != nil {
		s.log.Error().Err(err).Msg("owner alert failed")
	}
}
