package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const envPrefix = "STOREFRONT_"

type Config struct {
	App struct {
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`

		CORSOrigins []string `koanf:"cors_origins"`
	} `koanf:"app"`

	Pricing struct {
		Currency string `koanf:"currency"`
		// Rates stay decimal strings until handed to the calculator.
		DiscountRate string `koanf:"discount_rate"`
		TaxRate      string `koanf:"tax_rate"`
	} `koanf:"pricing"`

	Payment struct {
		PayeeVPA     string `koanf:"payee_vpa"`
		PayeeName    string `koanf:"payee_name"`
		MerchantCode string `koanf:"merchant_code"`
		URL          string `koanf:"url"`
	} `koanf:"payment"`

	Menu struct {
		Path string `koanf:"path"`
	} `koanf:"menu"`

	Postgres struct {
		DSN string `koanf:"dsn"`
	} `koanf:"postgres"`

	Invoice struct {
		Prefix string `koanf:"prefix"`
	} `koanf:"invoice"`
}

var defaults = map[string]any{
	"app.http_addr":         ":8080",
	"app.log_level":         "info",
	"app.log_file":          "./logs/storefront.log",
	"pricing.currency":      "INR",
	"pricing.discount_rate": "0.10",
	"pricing.tax_rate":      "0.05",
	"payment.merchant_code": "0000",
	"menu.path":             "./menu_data.json",
	"invoice.prefix":        "CUSTPIE",
}

// Load layers defaults, the optional yaml file at path and STOREFRONT_
// environment variables, in that order. Nested keys use a double underscore,
// e.g. STOREFRONT_POSTGRES__DSN.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if _, err := currency.ParseISO(c.Pricing.Currency); err != nil {
		return fmt.Errorf("pricing.currency[%s] is not valid: %w", c.Pricing.Currency, err)
	}
	if err := validateRate("pricing.discount_rate", c.Pricing.DiscountRate); err != nil {
		return err
	}
	if err := validateRate("pricing.tax_rate", c.Pricing.TaxRate); err != nil {
		return err
	}
	return nil
}

func validateRate(key, value string) error {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("%s[%s] is not a decimal: %w", key, value, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be within [0, 1]", key)
	}
	return nil
}

func (c Config) Currency() currency.Unit {
	return currency.MustParseISO(c.Pricing.Currency)
}

// DiscountRate and TaxRate panic on a Config that has not passed Validate.
func (c Config) DiscountRate() decimal.Decimal {
	return decimal.RequireFromString(c.Pricing.DiscountRate)
}

func (c Config) TaxRate() decimal.Decimal {
	return decimal.RequireFromString(c.Pricing.TaxRate)
}
