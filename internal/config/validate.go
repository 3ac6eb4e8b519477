package config

import "fmt"

// Validate checks the config for values that would break at runtime.
// It returns all problems found, not just the first.
func Validate(cfg Config) []error {
	var errs []error

	if cfg.Webhook.Port < 1 || cfg.Webhook.Port > 65535 {
		errs = append(errs, &ConfigError{Message: fmt.Sprintf("webhook.port %d out of range", cfg.Webhook.Port)})
	}
	switch cfg.Webhook.Bind {
	case "loopback", "lan":
	default:
		errs = append(errs, &ConfigError{Message: "webhook.bind must be \"loopback\" or \"lan\""})
	}
	if cfg.Ledger.LargeCreditThreshold < 0 {
		errs = append(errs, &ConfigError{Message: "ledger.largeCreditThreshold must not be negative"})
	}
	if cfg.Ledger.OverdueDays < 1 {
		errs = append(errs, &ConfigError{Message: "ledger.overdueDays must be at least 1"})
	}
	if cfg.Invoice.DefaultGSTRate < 0 || cfg.Invoice.DefaultGSTRate > 28 {
		errs = append(errs, &ConfigError{Message: "invoice.defaultGstRate outside GST slab range"})
	}
	if cfg.Scheduler.Enabled && cfg.Business.OwnerPhone == "" {
		errs = append(errs, &ConfigError{Message: "scheduler requires business.ownerPhone for alerts"})
	}

	return errs
}
