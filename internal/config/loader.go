package config

import (
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Sarvam.APIKey = expandEnvVars(cfg.Sarvam.APIKey)
	cfg.WhatsApp.AccessToken = expandEnvVars(cfg.WhatsApp.AccessToken)
	cfg.WhatsApp.VerifyToken = expandEnvVars(cfg.WhatsApp.VerifyToken)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. A missing file produces defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields that yaml may have cleared.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Business.Name == "" {
		cfg.Business.Name = def.Business.Name
	}
	if cfg.Business.StateCode == "" {
		cfg.Business.StateCode = def.Business.StateCode
	}
	if cfg.Sarvam.BaseURL == "" {
		cfg.Sarvam.BaseURL = def.Sarvam.BaseURL
	}
	if cfg.Sarvam.ChatModel == "" {
		cfg.Sarvam.ChatModel = def.Sarvam.ChatModel
	}
	if cfg.Sarvam.SpeechModel == "" {
		cfg.Sarvam.SpeechModel = def.Sarvam.SpeechModel
	}
	if cfg.Sarvam.TimeoutSeconds == 0 {
		cfg.Sarvam.TimeoutSeconds = def.Sarvam.TimeoutSeconds
	}
	if cfg.WhatsApp.APIVersion == "" {
		cfg.WhatsApp.APIVersion = def.WhatsApp.APIVersion
	}
	if cfg.Webhook.Port == 0 {
		cfg.Webhook.Port = def.Webhook.Port
	}
	if cfg.Webhook.Bind == "" {
		cfg.Webhook.Bind = def.Webhook.Bind
	}
	if cfg.Session.IdleMinutes == 0 {
		cfg.Session.IdleMinutes = def.Session.IdleMinutes
	}
	if cfg.Ledger.LargeCreditThreshold == 0 {
		cfg.Ledger.LargeCreditThreshold = def.Ledger.LargeCreditThreshold
	}
	if cfg.Ledger.DefaultCreditLimit == 0 {
		cfg.Ledger.DefaultCreditLimit = def.Ledger.DefaultCreditLimit
	}
	if cfg.Ledger.OverdueDays == 0 {
		cfg.Ledger.OverdueDays = def.Ledger.OverdueDays
	}
	if cfg.Invoice.NumberPrefix == "" {
		cfg.Invoice.NumberPrefix = def.Invoice.NumberPrefix
	}
	if cfg.Invoice.DefaultGSTRate == 0 {
		cfg.Invoice.DefaultGSTRate = def.Invoice.DefaultGSTRate
	}
	if cfg.Invoice.DefaultRate == 0 {
		cfg.Invoice.DefaultRate = def.Invoice.DefaultRate
	}
	if cfg.Invoice.PlaceOfSupply == "" {
		cfg.Invoice.PlaceOfSupply = def.Invoice.PlaceOfSupply
	}
	if cfg.Invoice.DueDays == 0 {
		cfg.Invoice.DueDays = def.Invoice.DueDays
	}
	if cfg.Scheduler.DailySummaryCron == "" {
		cfg.Scheduler.DailySummaryCron = def.Scheduler.DailySummaryCron
	}
	if cfg.Scheduler.LowStockCron == "" {
		cfg.Scheduler.LowStockCron = def.Scheduler.LowStockCron
	}
	if cfg.Scheduler.OverdueCron == "" {
		cfg.Scheduler.OverdueCron = def.Scheduler.OverdueCron
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides reads BIZAGENT_* environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BIZAGENT_WEBHOOK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Webhook.Port = port
		}
	}
	if v := os.Getenv("BIZAGENT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("BIZAGENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SARVAM_API_KEY"); v != "" {
		cfg.Sarvam.APIKey = v
	}
	if v := os.Getenv("WHATSAPP_ACCESS_TOKEN"); v != "" {
		cfg.WhatsApp.AccessToken = v
	}
	if v := os.Getenv("WHATSAPP_PHONE_NUMBER_ID"); v != "" {
		cfg.WhatsApp.PhoneNumberID = v
	}
	if v := os.Getenv("WHATSAPP_VERIFY_TOKEN"); v != "" {
		cfg.WhatsApp.VerifyToken = v
	}
	if v := os.Getenv("BUSINESS_NAME"); v != "" {
		cfg.Business.Name = v
	}
	if v := os.Getenv("OWNER_PHONE"); v != "" {
		cfg.Business.OwnerPhone = v
	}
}
