package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string

	// DatabasePath is the sqlite file; empty selects the in-memory store.
	DatabasePath string
	InvoiceDir   string

	// SupplierURL is the external fulfillment endpoint the supplier link
	// points at.
	SupplierURL string
	// InitialCapacity is the fixed stock capacity the derived stock query
	// subtracts recorded quantities from.
	InitialCapacity int64

	SMTP    SMTPConfig
	Gateway GatewayConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

type GatewayConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

func Load() Config {
	return Config{
		ServiceName:     getEnv("SERVICE_NAME", "shop-backend"),
		Env:             getEnv("ENV", "dev"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabasePath:    getEnv("DB_PATH", "orders.db"),
		InvoiceDir:      getEnv("INVOICE_DIR", "invoices"),
		SupplierURL:     getEnv("SUPPLIER_URL", "https://supplier.example.com/order"),
		InitialCapacity: getEnvInt64("INITIAL_CAPACITY", 500),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Portable Eye Massager"),
		},
		Gateway: GatewayConfig{
			BaseURL:   getEnv("GATEWAY_URL", "https://api.stripe.com"),
			SecretKey: getEnv("GATEWAY_SECRET_KEY", ""),
			Timeout:   getEnvDuration("GATEWAY_TIMEOUT", 15*time.Second),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
