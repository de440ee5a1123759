package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cicil-dev/cicil/internal/aggregate"
	"github.com/cicil-dev/cicil/internal/amortization"
	"github.com/cicil-dev/cicil/internal/money"
)

// FileName is the config file inside a ledger directory.
const FileName = "cicil.yaml"

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the top-level cicil.yaml configuration.
type Config struct {
	Profile  ProfileConfig  `yaml:"profile"`
	Currency CurrencyConfig `yaml:"currency"`
	Limits   LimitsConfig   `yaml:"limits"`
	Log      LogConfig      `yaml:"log"`
}

// ProfileConfig describes the ledger owner. The counts feed the risk payload.
type ProfileConfig struct {
	Name              string `yaml:"name"`
	Dependents        int    `yaml:"dependents"`
	MissedPayments    int    `yaml:"missed_payments"`
	HasDefaultHistory bool   `yaml:"has_default_history"`
}

// CurrencyConfig controls display formatting. Separators are single
// characters; an empty grouping disables grouping.
type CurrencyConfig struct {
	Symbol   string `yaml:"symbol"`
	Grouping string `yaml:"grouping"`
	Decimal  string `yaml:"decimal"`
	Places   int32  `yaml:"places"`
}

// LimitsConfig caps what-if loan estimates. Zero or empty disables a cap.
type LimitsConfig struct {
	MaxTermMonths        int    `yaml:"max_term_months"`
	MaxAnnualRatePercent string `yaml:"max_annual_rate_percent"`
	MaxPrincipal         string `yaml:"max_principal,omitempty"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads a cicil.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with rupiah formatting and the default loan caps.
func Default(name string) *Config {
	limits := amortization.DefaultLimits()
	return &Config{
		Profile: ProfileConfig{Name: name},
		Currency: CurrencyConfig{
			Symbol:   money.Default.Symbol,
			Grouping: string(money.Default.Grouping),
			Decimal:  string(money.Default.Decimal),
			Places:   money.Default.Places,
		},
		Limits: LimitsConfig{
			MaxTermMonths:        limits.MaxTermMonths,
			MaxAnnualRatePercent: limits.MaxAnnualRatePercent.String(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks field ranges and separator consistency.
func (c *Config) Validate() error {
	if c.Profile.Dependents < 0 {
		return fmt.Errorf("%w: profile.dependents must not be negative", ErrInvalidConfig)
	}
	if c.Profile.MissedPayments < 0 {
		return fmt.Errorf("%w: profile.missed_payments must not be negative", ErrInvalidConfig)
	}

	if c.Currency.Grouping != "" && utf8.RuneCountInString(c.Currency.Grouping) != 1 {
		return fmt.Errorf("%w: currency.grouping must be a single character, got %q", ErrInvalidConfig, c.Currency.Grouping)
	}
	if utf8.RuneCountInString(c.Currency.Decimal) != 1 {
		return fmt.Errorf("%w: currency.decimal must be a single character, got %q", ErrInvalidConfig, c.Currency.Decimal)
	}
	if c.Currency.Grouping == c.Currency.Decimal {
		return fmt.Errorf("%w: currency.grouping and currency.decimal must differ", ErrInvalidConfig)
	}
	if c.Currency.Places < 0 || c.Currency.Places > 8 {
		return fmt.Errorf("%w: currency.places must be between 0 and 8, got %d", ErrInvalidConfig, c.Currency.Places)
	}

	if c.Limits.MaxTermMonths < 0 {
		return fmt.Errorf("%w: limits.max_term_months must not be negative", ErrInvalidConfig)
	}
	for _, lim := range []struct{ name, value string }{
		{"limits.max_annual_rate_percent", c.Limits.MaxAnnualRatePercent},
		{"limits.max_principal", c.Limits.MaxPrincipal},
	} {
		if lim.value == "" {
			continue
		}
		v, err := decimal.NewFromString(lim.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, lim.name, err)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, lim.name)
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// Format returns the display format described by the currency section.
// Call Validate first.
func (c *Config) Format() money.Format {
	f := money.Format{Symbol: c.Currency.Symbol, Places: c.Currency.Places}
	if r, _ := utf8.DecodeRuneInString(c.Currency.Grouping); r != utf8.RuneError {
		f.Grouping = r
	}
	f.Decimal, _ = utf8.DecodeRuneInString(c.Currency.Decimal)
	return f
}

// LoanLimits returns the loan caps. Call Validate first.
func (c *Config) LoanLimits() amortization.Limits {
	l := amortization.Limits{MaxTermMonths: c.Limits.MaxTermMonths}
	if rate, err := decimal.NewFromString(c.Limits.MaxAnnualRatePercent); err == nil {
		l.MaxAnnualRatePercent = rate
	}
	if principal, err := decimal.NewFromString(c.Limits.MaxPrincipal); err == nil {
		l.MaxPrincipal = principal
	}
	return l
}

// RiskProfile returns the profile facts used to build the risk payload.
func (c *Config) RiskProfile() aggregate.Profile {
	return aggregate.Profile{
		Dependents:        c.Profile.Dependents,
		MissedPayments:    c.Profile.MissedPayments,
		HasDefaultHistory: c.Profile.HasDefaultHistory,
	}
}
