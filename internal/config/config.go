package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Business: BusinessConfig{
			Name:      "Kapoor Textiles",
			StateCode: "07",
		},
		Sarvam: SarvamConfig{
			BaseURL:        "https://api.sarvam.ai",
			ChatModel:      "sarvam-m",
			SpeechModel:    "saarika:v2.5",
			TimeoutSeconds: 60,
		},
		WhatsApp: WhatsAppConfig{
			APIVersion: "v18.0",
		},
		Webhook: WebhookConfig{
			Port: 8080,
			Bind: "loopback",
		},
		Session: SessionConfig{
			IdleMinutes: 30,
		},
		Ledger: LedgerConfig{
			LargeCreditThreshold: 10000,
			DefaultCreditLimit:   50000,
			OverdueDays:          30,
		},
		Invoice: InvoiceConfig{
			NumberPrefix:   "KT",
			DefaultGSTRate: 5.0,
			DefaultRate:    200,
			PlaceOfSupply:  "Delhi",
			DueDays:        30,
		},
		Scheduler: SchedulerConfig{
			DailySummaryCron: "30 2 * * *", // 08:00 IST
			LowStockCron:     "30 3 * * *", // 09:00 IST
			OverdueCron:      "30 4 * * *", // 10:00 IST
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
