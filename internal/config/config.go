package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string

	OrderFee       decimal.Decimal
	DiscountPolicy string
	AdminEmail     string
	AdminPassword  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	NotifyMode          string
	NotifyPollInterval  time.Duration
	NotifyBatchSize     int
	NotifyWorkers       int
	NotifyMaxAttempts   int
	NotifyRatePerSecond float64

	CORSOrigins []string
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultTokenTTL           = 24 * time.Hour
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"
	defaultOrderFee           = "5.00"
	defaultDiscountPolicy     = "allow"
	defaultSMTPPort           = 587
	defaultNotifyMode         = "sync"
	defaultNotifyPollInterval = 5 * time.Second
	defaultNotifyBatchSize    = 32
	defaultNotifyWorkers      = 2
	defaultNotifyMaxAttempts  = 5
	defaultEnvFile            = ".env"
)

// Load parses configuration from an optional .env file, flags and environment variables.
func Load() (*Config, error) {
	if err := loadEnvFile(getString(os.LookupEnv, "ENV_FILE", defaultEnvFile)); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadEnvFile populates missing environment variables from path; a missing file is ignored.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
		DiscountPolicy:      getString(lookup, "DISCOUNT_POLICY", defaultDiscountPolicy),
		AdminEmail:          getString(lookup, "ADMIN_EMAIL", ""),
		AdminPassword:       getString(lookup, "ADMIN_PASSWORD", ""),
		SMTPHost:            getString(lookup, "SMTP_HOST", ""),
		SMTPPort:            getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUsername:        getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword:        getString(lookup, "SMTP_PASSWORD", ""),
		SMTPFrom:            getString(lookup, "SMTP_FROM", ""),
		NotifyMode:          getString(lookup, "NOTIFY_MODE", defaultNotifyMode),
		NotifyPollInterval:  getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		NotifyBatchSize:     getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		NotifyWorkers:       getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyMaxAttempts:   getInt(lookup, "NOTIFY_MAX_ATTEMPTS", defaultNotifyMaxAttempts),
		NotifyRatePerSecond: getFloat(lookup, "NOTIFY_RATE_PER_SECOND", 0),
	}

	fs := flag.NewFlagSet("eurodelivery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		feeStr             = getString(lookup, "ORDER_FEE", defaultOrderFee)
		corsStr            = getString(lookup, "CORS_ORIGINS", "")
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		pollIntervalStr    = cfg.NotifyPollInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&feeStr, "fee", feeStr, "Service fee charged per order")
	fs.StringVar(&cfg.DiscountPolicy, "discount-policy", cfg.DiscountPolicy, "Discount overflow policy: allow, clamp, reject")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Administrator notification address")
	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP server host")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP server port")
	fs.StringVar(&cfg.NotifyMode, "notify-mode", cfg.NotifyMode, "Notification mode: sync, outbox")
	fs.StringVar(&pollIntervalStr, "notify-poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of concurrent notification workers")
	fs.IntVar(&cfg.NotifyBatchSize, "notify-batch", cfg.NotifyBatchSize, "Maximum notifications per polling batch")
	fs.StringVar(&corsStr, "cors-origins", corsStr, "Comma separated list of allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid notify poll interval: %w", err)
	}

	if cfg.OrderFee, err = decimal.NewFromString(strings.TrimSpace(feeStr)); err != nil {
		return nil, fmt.Errorf("invalid order fee: %w", err)
	}
	if cfg.OrderFee.IsNegative() {
		return nil, fmt.Errorf("order fee must not be negative")
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.CORSOrigins = splitList(corsStr)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.DiscountPolicy = strings.ToLower(cfg.DiscountPolicy)
	cfg.NotifyMode = strings.ToLower(cfg.NotifyMode)

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyMaxAttempts <= 0 {
		cfg.NotifyMaxAttempts = defaultNotifyMaxAttempts
	}

	if cfg.NotifyRatePerSecond < 0 {
		cfg.NotifyRatePerSecond = 0
	}

	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = defaultSMTPPort
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.AdminEmail
	}

	switch cfg.DiscountPolicy {
	case "allow", "clamp", "reject":
	default:
		return nil, fmt.Errorf("unknown discount policy %q", cfg.DiscountPolicy)
	}

	switch cfg.NotifyMode {
	case "sync", "outbox":
	default:
		return nil, fmt.Errorf("unknown notify mode %q", cfg.NotifyMode)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("admin email must be provided")
	}

	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host must be provided")
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
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
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

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
