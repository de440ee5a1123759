package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicil-dev/cicil/internal/money"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Sari")
	cfg.Profile.Dependents = 2
	cfg.Profile.MissedPayments = 1
	cfg.Profile.HasDefaultHistory = true
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Profile, got.Profile)
	assert.Equal(t, cfg.Currency, got.Currency)
	assert.Equal(t, cfg.Limits, got.Limits)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Sari")

	assert.Equal(t, "Sari", cfg.Profile.Name)
	assert.Zero(t, cfg.Profile.Dependents)
	assert.Equal(t, "Rp", cfg.Currency.Symbol)
	assert.Equal(t, ".", cfg.Currency.Grouping)
	assert.Equal(t, ",", cfg.Currency.Decimal)
	assert.Equal(t, 600, cfg.Limits.MaxTermMonths)
	assert.Equal(t, "1000", cfg.Limits.MaxAnnualRatePercent)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, money.Default, cfg.Format())

	limits := cfg.LoanLimits()
	assert.Equal(t, 600, limits.MaxTermMonths)
	assert.Equal(t, "1000", limits.MaxAnnualRatePercent.String())
	assert.True(t, limits.MaxPrincipal.IsZero())
}

func TestLoanLimits_MaxPrincipal(t *testing.T) {
	cfg := Default("x")
	cfg.Limits.MaxPrincipal = "500000000"
	require.NoError(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "500000000", got.LoanLimits().MaxPrincipal.String())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("profile: [unterminated\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative dependents", func(c *Config) { c.Profile.Dependents = -1 }},
		{"negative missed payments", func(c *Config) { c.Profile.MissedPayments = -2 }},
		{"same separators", func(c *Config) { c.Currency.Grouping = "," }},
		{"long grouping", func(c *Config) { c.Currency.Grouping = ".." }},
		{"empty decimal", func(c *Config) { c.Currency.Decimal = "" }},
		{"too many places", func(c *Config) { c.Currency.Places = 9 }},
		{"negative term cap", func(c *Config) { c.Limits.MaxTermMonths = -1 }},
		{"bad rate cap", func(c *Config) { c.Limits.MaxAnnualRatePercent = "lots" }},
		{"negative rate cap", func(c *Config) { c.Limits.MaxAnnualRatePercent = "-5" }},
		{"bad principal cap", func(c *Config) { c.Limits.MaxPrincipal = "1.000.000" }},
		{"negative principal cap", func(c *Config) { c.Limits.MaxPrincipal = "-1" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("x")
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestFormat_CustomCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yaml := `profile:
  name: Budi
currency:
  symbol: $
  grouping: ","
  decimal: "."
  places: 2
limits:
  max_term_months: 0
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	f := cfg.Format()
	assert.Equal(t, "$ 1,234.50", f.WithSymbol(mustDec(t, "1234.5")))

	limits := cfg.LoanLimits()
	assert.Zero(t, limits.MaxTermMonths)
	assert.True(t, limits.MaxAnnualRatePercent.IsZero())
}

func TestFormat_NoGrouping(t *testing.T) {
	cfg := Default("x")
	cfg.Currency.Grouping = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, rune(0), cfg.Format().Grouping)
}

func TestRiskProfile(t *testing.T) {
	cfg := Default("x")
	cfg.Profile.Dependents = 3
	cfg.Profile.HasDefaultHistory = true

	p := cfg.RiskProfile()
	assert.Equal(t, 3, p.Dependents)
	assert.Zero(t, p.MissedPayments)
	assert.True(t, p.HasDefaultHistory)
}

func TestSaveContents(t *testing.T) {
	cfg := Default("Test Owner")

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Owner")
	assert.Contains(t, contents, "symbol: Rp")
	assert.Contains(t, contents, "max_term_months: 600")
	assert.Contains(t, contents, "level: info")
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
