package config

// Config is the root configuration for the biz agent.
type Config struct {
	Business  BusinessConfig  `yaml:"business,omitempty"`
	Sarvam    SarvamConfig    `yaml:"sarvam,omitempty"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp,omitempty"`
	Webhook   WebhookConfig   `yaml:"webhook,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Session   SessionConfig   `yaml:"session,omitempty"`
	Ledger    LedgerConfig    `yaml:"ledger,omitempty"`
	Invoice   InvoiceConfig   `yaml:"invoice,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// BusinessConfig identifies the shop on invoices and replies.
type BusinessConfig struct {
	Name       string `yaml:"name,omitempty"`
	Address    string `yaml:"address,omitempty"`
	Phone      string `yaml:"phone,omitempty"`
	GSTNumber  string `yaml:"gstNumber,omitempty"`
	StateCode  string `yaml:"stateCode,omitempty"`
	OwnerPhone string `yaml:"ownerPhone,omitempty"` // receives proactive alerts
}

// SarvamConfig configures the external NLU/speech service.
type SarvamConfig struct {
	APIKey         string `yaml:"apiKey,omitempty"`
	BaseURL        string `yaml:"baseUrl,omitempty"`
	ChatModel      string `yaml:"chatModel,omitempty"`
	SpeechModel    string `yaml:"speechModel,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// WhatsAppConfig configures the WhatsApp Cloud API transport.
type WhatsAppConfig struct {
	AccessToken   string `yaml:"accessToken,omitempty"`
	PhoneNumberID string `yaml:"phoneNumberId,omitempty"`
	VerifyToken   string `yaml:"verifyToken,omitempty"`
	APIVersion    string `yaml:"apiVersion,omitempty"`
}

// WebhookConfig controls the inbound HTTP server.
type WebhookConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // "loopback" | "lan"
}

// StoreConfig controls persistence.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file, ":memory:" for tests
}

// SessionConfig defines session behavior.
type SessionConfig struct {
	IdleMinutes int `yaml:"idleMinutes,omitempty"`
}

// LedgerConfig holds the credit business constants.
type LedgerConfig struct {
	LargeCreditThreshold float64 `yaml:"largeCreditThreshold,omitempty"`
	DefaultCreditLimit   float64 `yaml:"defaultCreditLimit,omitempty"`
	OverdueDays          int     `yaml:"overdueDays,omitempty"`
}

// InvoiceConfig holds invoicing defaults.
type InvoiceConfig struct {
	NumberPrefix   string  `yaml:"numberPrefix,omitempty"`
	DefaultGSTRate float64 `yaml:"defaultGstRate,omitempty"`
	DefaultRate    float64 `yaml:"defaultRate,omitempty"` // rupees per meter when no inventory match
	PlaceOfSupply  string  `yaml:"placeOfSupply,omitempty"`
	DueDays        int     `yaml:"dueDays,omitempty"`
}

// SchedulerConfig controls proactive alert jobs. Schedules are
// standard 5-field cron expressions.
type SchedulerConfig struct {
	Enabled          bool   `yaml:"enabled,omitempty"`
	DailySummaryCron string `yaml:"dailySummaryCron,omitempty"`
	LowStockCron     string `yaml:"lowStockCron,omitempty"`
	OverdueCron      string `yaml:"overdueCron,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
