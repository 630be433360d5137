package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "hotel.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultGatewayURL    = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	defaultGatewayLocale = "vn"
	defaultCurrency      = "VND"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	CORS    CORSConfig
	Gateway GatewayConfig
	Invoice InvoiceConfig
}

type AppConfig struct {
	Env  string `validate:"required"`
	Port string `validate:"required,numeric"`
}

type DBConfig struct {
	URL string `validate:"required"`
}

type JWTConfig struct {
	Secret string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

type CORSConfig struct {
	Origins []string
}

// GatewayConfig is handed to the gateway client explicitly. Empty
// credentials are allowed at startup; gateway operations fail instead.
type GatewayConfig struct {
	TmnCode           string
	HashSecret        string
	BaseURL           string `validate:"required,url"`
	ReturnURL         string
	FrontendResultURL string
	Locale            string
	CurrCode          string
}

type InvoiceConfig struct {
	AllowPlaceholderPayment bool
}

// Load reads configuration from the process environment, optionally seeded
// from a .env file in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", defaultPort)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", defaultJWTTTL)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("VNP_BASE_URL", defaultGatewayURL)
	v.SetDefault("VNP_LOCALE", defaultGatewayLocale)
	v.SetDefault("VNP_CURR_CODE", defaultCurrency)
	v.SetDefault("FRONTEND_PAYMENT_RESULT_URL", "http://localhost:3000/payment-result")
	v.SetDefault("INVOICE_ALLOW_PLACEHOLDER_PAYMENT", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("JWT_TTL")))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL value %q: %w", v.GetString("JWT_TTL"), err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
			Port: strings.TrimSpace(v.GetString("APP_PORT")),
		},
		DB: DBConfig{
			URL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		},
		JWT: JWTConfig{
			Secret: strings.TrimSpace(v.GetString("JWT_SECRET")),
			TTL:    ttl,
		},
		CORS: CORSConfig{
			Origins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Gateway: GatewayConfig{
			TmnCode:           strings.TrimSpace(v.GetString("VNP_TMN_CODE")),
			HashSecret:        strings.TrimSpace(v.GetString("VNP_HASH_SECRET")),
			BaseURL:           strings.TrimSpace(v.GetString("VNP_BASE_URL")),
			ReturnURL:         strings.TrimSpace(v.GetString("VNP_RETURN_URL")),
			FrontendResultURL: strings.TrimSpace(v.GetString("FRONTEND_PAYMENT_RESULT_URL")),
			Locale:            v.GetString("VNP_LOCALE"),
			CurrCode:          v.GetString("VNP_CURR_CODE"),
		},
		Invoice: InvoiceConfig{
			AllowPlaceholderPayment: v.GetBool("INVOICE_ALLOW_PLACEHOLDER_PAYMENT"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.IsProdLike() && cfg.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.App.Env == "prod" || c.App.Env == "production" || c.App.Env == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
