package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	ShutdownTimeout time.Duration
	LogLevel        string

	AuthSecret   string
	AuthStrategy string
	AuthTokenTTL time.Duration
	CookieSecure bool

	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPSecret      string
	MailFrom        string
	MailFromName    string
	NotifyCCAddress string
	MailDropDir     string
	NotifyAsync     bool
	NotifyWorkers   int
	NotifyQueueSize int

	MerchantAddress string
	PaymentURL      string
	PublicBaseURL   string
	CurrencyCode    string

	StagingDir        string
	StagingTTL        time.Duration
	JanitorInterval   time.Duration
	ImageMaxDimension int
	StageSingleUpload bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	PhotoBucket string
	PhotoPrefix string
}

const (
	defaultRunAddress      = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultAuthSecret      = "change-me-in-production"
	defaultAuthStrategy    = "hmac"
	defaultAuthTokenTTL    = 24 * time.Hour
	defaultSMTPPort        = 587
	defaultMailFrom        = "noreply@secondfamilies.org"
	defaultMailFromName    = "Email from Second Family"
	defaultMailDropDir     = "mail-drop"
	defaultNotifyWorkers   = 2
	defaultNotifyQueueSize = 64
	defaultPaymentURL      = "https://www.paypal.com/cgi-bin/webscr"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultCurrencyCode    = "USD"
	defaultStagingDir      = "dimage"
	defaultStagingTTL      = time.Hour
	defaultJanitorInterval = 10 * time.Minute
	defaultImageMaxDim     = 1600
	defaultSessionTTL      = 30 * time.Minute
	defaultPhotoPrefix     = "donations/"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),

		AuthSecret:   getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AuthStrategy: getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		AuthTokenTTL: getDuration(lookup, "AUTH_TOKEN_TTL", defaultAuthTokenTTL),
		CookieSecure: getBool(lookup, "COOKIE_SECURE", false),

		SMTPHost:        getString(lookup, "SMTP_HOST", ""),
		SMTPPort:        getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUser:        getString(lookup, "SMTP_USER", ""),
		SMTPSecret:      getString(lookup, "SMTP_SECRET", ""),
		MailFrom:        getString(lookup, "MAIL_FROM", ""),
		MailFromName:    getString(lookup, "MAIL_FROM_NAME", defaultMailFromName),
		NotifyCCAddress: getString(lookup, "NOTIFY_CC_ADDRESS", ""),
		MailDropDir:     getString(lookup, "MAIL_DROP_DIR", defaultMailDropDir),
		NotifyAsync:     getBool(lookup, "NOTIFY_ASYNC", false),
		NotifyWorkers:   getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize: getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),

		MerchantAddress: getString(lookup, "MERCHANT_ADDRESS", ""),
		PaymentURL:      getString(lookup, "PAYMENT_URL", defaultPaymentURL),
		PublicBaseURL:   getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		CurrencyCode:    getString(lookup, "CURRENCY_CODE", defaultCurrencyCode),

		StagingDir:        getString(lookup, "STAGING_DIR", defaultStagingDir),
		StagingTTL:        getDuration(lookup, "STAGING_TTL", defaultStagingTTL),
		JanitorInterval:   getDuration(lookup, "JANITOR_INTERVAL", defaultJanitorInterval),
		ImageMaxDimension: getInt(lookup, "IMAGE_MAX_DIMENSION", defaultImageMaxDim),
		StageSingleUpload: getBool(lookup, "STAGE_SINGLE_UPLOAD", false),

		RedisAddr:     getString(lookup, "REDIS_ADDR", ""),
		RedisPassword: getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:       getInt(lookup, "REDIS_DB", 0),
		SessionTTL:    getDuration(lookup, "SESSION_TTL", defaultSessionTTL),

		PhotoBucket: getString(lookup, "PHOTO_BUCKET", ""),
		PhotoPrefix: getString(lookup, "PHOTO_PREFIX", defaultPhotoPrefix),
	}

	fs := flag.NewFlagSet("secondfamilies", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		stagingTTLStr      = cfg.StagingTTL.String()
		sessionTTLStr      = cfg.SessionTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Token strategy (hmac, jwt)")
	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP relay host")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP relay port")
	fs.StringVar(&cfg.SMTPUser, "smtp-user", cfg.SMTPUser, "SMTP username")
	fs.StringVar(&cfg.SMTPSecret, "smtp-secret", cfg.SMTPSecret, "SMTP password")
	fs.StringVar(&cfg.MerchantAddress, "merchant-address", cfg.MerchantAddress, "Payment account receiving donations")
	fs.StringVar(&cfg.NotifyCCAddress, "notify-cc-address", cfg.NotifyCCAddress, "Address copied on every notification")
	fs.StringVar(&cfg.PublicBaseURL, "public-base-url", cfg.PublicBaseURL, "Externally visible base URL")
	fs.StringVar(&cfg.StagingDir, "staging-dir", cfg.StagingDir, "Directory for staged photo uploads")
	fs.StringVar(&stagingTTLStr, "staging-ttl", stagingTTLStr, "Age after which staged uploads are swept")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for hand-off sessions")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Lifetime of hand-off session state")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StagingTTL, err = time.ParseDuration(stagingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid staging ttl: %w", err)
	}

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.AuthSecret, err = readSecretFile(lookup, "AUTH_SECRET_FILE", cfg.AuthSecret); err != nil {
		return nil, fmt.Errorf("read auth secret file: %w", err)
	}

	if cfg.SMTPSecret, err = readSecretFile(lookup, "SMTP_SECRET_FILE", cfg.SMTPSecret); err != nil {
		return nil, fmt.Errorf("read smtp secret file: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.AuthTokenTTL <= 0 {
		cfg.AuthTokenTTL = defaultAuthTokenTTL
	}

	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = defaultSMTPPort
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.StagingTTL <= 0 {
		cfg.StagingTTL = defaultStagingTTL
	}

	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = defaultJanitorInterval
	}

	if cfg.ImageMaxDimension < 0 {
		cfg.ImageMaxDimension = 0
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = defaultMailFrom
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.AuthStrategy = strings.ToLower(strings.TrimSpace(cfg.AuthStrategy))

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.MerchantAddress == "" {
		return nil, fmt.Errorf("merchant address must be provided")
	}

	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("auth secret must not be empty")
	}

	return cfg, nil
}

func readSecretFile(lookup envLookup, key, current string) (string, error) {
	path, ok := lookup(key)
	if !ok || path == "" {
		return current, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
