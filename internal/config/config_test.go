package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "Kapoor Textiles", cfg.Business.Name)
	assert.Equal(t, "https://api.sarvam.ai", cfg.Sarvam.BaseURL)
	assert.Equal(t, "sarvam-m", cfg.Sarvam.ChatModel)
	assert.Equal(t, 8080, cfg.Webhook.Port)
	assert.Equal(t, float64(10000), cfg.Ledger.LargeCreditThreshold)
	assert.Equal(t, float64(50000), cfg.Ledger.DefaultCreditLimit)
	assert.Equal(t, 30, cfg.Ledger.OverdueDays)
	assert.Equal(t, 5.0, cfg.Invoice.DefaultGSTRate)
	assert.Equal(t, "KT", cfg.Invoice.NumberPrefix)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Webhook.Port, cfg.Webhook.Port)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
business:
  name: Sharma Fabrics
  ownerPhone: "919812345678"
ledger:
  largeCreditThreshold: 25000
webhook:
  port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Sharma Fabrics", cfg.Business.Name)
	assert.Equal(t, float64(25000), cfg.Ledger.LargeCreditThreshold)
	assert.Equal(t, 9000, cfg.Webhook.Port)
	// untouched fields keep defaults
	assert.Equal(t, 30, cfg.Ledger.OverdueDays)
	assert.Equal(t, "sarvam-m", cfg.Sarvam.ChatModel)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}

func TestExpandSensitiveFields(t *testing.T) {
	t.Setenv("TEST_SARVAM_KEY", "sk-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
sarvam:
  apiKey: ${TEST_SARVAM_KEY}
whatsapp:
  accessToken: ${UNSET_VAR_XYZ}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-secret", cfg.Sarvam.APIKey)
	// unset variables are left as-is
	assert.Equal(t, "${UNSET_VAR_XYZ}", cfg.WhatsApp.AccessToken)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BIZAGENT_WEBHOOK_PORT", "7000")
	t.Setenv("SARVAM_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Webhook.Port)
	assert.Equal(t, "env-key", cfg.Sarvam.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(cfg))

	cfg.Webhook.Port = 0
	cfg.Webhook.Bind = "public"
	cfg.Ledger.OverdueDays = 0
	errs := Validate(cfg)
	assert.Len(t, errs, 3)

	cfg = Defaults()
	cfg.Scheduler.Enabled = true
	errs = Validate(cfg)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "ownerPhone")
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("BIZAGENT_HOME", base)

	paths, err := ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, base, paths.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(base, "data", "bizagent.db"), paths.DB)

	require.NoError(t, paths.EnsureDirs())
	info, err := os.Stat(paths.Data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
