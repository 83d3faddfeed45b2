package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	PaymentGatewayAddress string
	BrokerURL             string
	JWTSecret             string
	PaymentPollInterval   time.Duration
	WorkerPoolSize        int
	ShutdownTimeout       time.Duration
	MaxOrdersBatch        int
	TaxRate               float64
	DeliveryWindow        time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultPaymentPollInterval = 3 * time.Second
	defaultWorkerPoolSize      = 4
	defaultShutdownTimeout     = 10 * time.Second
	defaultMaxOrdersBatch      = 32
	defaultTaxRate             = 0.10
	defaultDeliveryWindow      = 45 * time.Minute
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		PaymentGatewayAddress: getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		BrokerURL:             getString(lookup, "BROKER_URL", ""),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		PaymentPollInterval:   getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxOrdersBatch:        getInt(lookup, "POLL_BATCH_SIZE", defaultMaxOrdersBatch),
		TaxRate:               getFloat(lookup, "TAX_RATE", defaultTaxRate),
		DeliveryWindow:        getDuration(lookup, "DELIVERY_WINDOW", defaultDeliveryWindow),
	}

	fs := flag.NewFlagSet("entrega", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		deliveryWindowStr  = cfg.DeliveryWindow.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentGatewayAddress, "g", cfg.PaymentGatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.BrokerURL, "broker", cfg.BrokerURL, "AMQP broker URL for order events (optional)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between payment gateway polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per polling batch")
	fs.Float64Var(&cfg.TaxRate, "tax-rate", cfg.TaxRate, "Tax applied to order subtotal")
	fs.StringVar(&deliveryWindowStr, "delivery-window", deliveryWindowStr, "Estimated preparation plus delivery window")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.DeliveryWindow, err = time.ParseDuration(deliveryWindowStr); err != nil {
		return nil, fmt.Errorf("invalid delivery window: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DeliveryWindow <= 0 {
		cfg.DeliveryWindow = defaultDeliveryWindow
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1), got %v", cfg.TaxRate)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentGatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
