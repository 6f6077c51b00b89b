package mailer

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Config holds the complete dispatcher configuration.
type Config struct {
	// Provider contains delivery provider configuration.
	Provider ProviderConfig

	// Store contains template store configuration.
	Store StoreConfig

	// Retry contains retry policy configuration.
	Retry RetryConfig

	// RateLimit contains rate limiting configuration.
	RateLimit RateLimitConfig

	// DefaultSender is the source address used when a request omits one.
	DefaultSender string

	// Logger receives structured dispatch logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// ProviderConfig contains delivery provider settings.
type ProviderConfig struct {
	// Type specifies the mail provider to use.
	Type ProviderType

	// Settings contains provider-specific settings.
	Settings ProviderSettings

	// Timeout is the per-call deadline for provider operations.
	// Deadline expiry is treated as a transient failure and retried.
	Timeout time.Duration
}

// ProviderType represents the type of mail provider.
type ProviderType string

const (
	// ProviderAWSSES represents Amazon Simple Email Service.
	ProviderAWSSES ProviderType = "aws_ses"

	// ProviderSendGrid represents the SendGrid email service.
	ProviderSendGrid ProviderType = "sendgrid"

	// ProviderMailgun represents the Mailgun email service.
	ProviderMailgun ProviderType = "mailgun"

	// ProviderSMTP represents a generic SMTP server.
	ProviderSMTP ProviderType = "smtp"
)

// String returns the string representation of the provider type.
func (pt ProviderType) String() string {
	return string(pt)
}

// Valid checks if the provider type is supported.
func (pt ProviderType) Valid() bool {
	switch pt {
	case ProviderAWSSES, ProviderSendGrid, ProviderMailgun, ProviderSMTP:
		return true
	default:
		return false
	}
}

// BackendType selects the template storage variant. Selection happens once at
// construction; there is no per-call branching on the backend kind.
type BackendType string

const (
	// BackendMemory keeps custom templates in process memory.
	BackendMemory BackendType = "memory"

	// BackendFilesystem stores one JSON document per template in a directory.
	BackendFilesystem BackendType = "filesystem"

	// BackendS3 stores one JSON object per template in a bucket.
	BackendS3 BackendType = "s3"
)

// Valid checks if the backend type is supported.
func (bt BackendType) Valid() bool {
	switch bt {
	case BackendMemory, BackendFilesystem, BackendS3:
		return true
	default:
		return false
	}
}

// StoreConfig contains template store settings.
type StoreConfig struct {
	// Backend selects the storage variant.
	Backend BackendType

	// Directory is the template directory for the filesystem backend.
	Directory string

	// Bucket, Prefix and Region configure the S3 backend.
	Bucket string
	Prefix string
	Region string

	// Endpoint, AccessKey, SecretKey and PathStyle support S3-compatible stores.
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// RetryConfig contains retry policy configuration.
type RetryConfig struct {
	// Enabled indicates whether retries are enabled.
	Enabled bool

	// MaxRetries is the number of additional provider calls after the first,
	// so a persistently failing provider is called MaxRetries+1 times.
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (should be > 1.0).
	Multiplier float64

	// Jitter indicates whether random jitter should be added to delays.
	Jitter bool
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	// Enabled indicates whether rate limiting is enabled.
	Enabled bool

	// Rate is the number of sends admitted per second.
	Rate int

	// Burst is the bucket capacity.
	Burst int

	// WaitBudget bounds how long one dispatch may wait for a permit.
	WaitBudget time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Prefix:  "templates/",
		},
		Retry: RetryConfig{
			Enabled:      true,
			MaxRetries:   3,
			InitialDelay: 5 * time.Second,
			MaxDelay:     60 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			Rate:       10,
			Burst:      10,
			WaitBudget: 5 * time.Second,
		},
	}
}

// FromEnv builds a configuration from environment variables, loading a .env
// file first when present. Unset variables keep their defaults.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	cfg.DefaultSender = getEnv("DEFAULT_SENDER_EMAIL", cfg.DefaultSender)
	cfg.Provider.Type = ProviderType(getEnv("EMAIL_PROVIDER", string(ProviderAWSSES)))
	cfg.Provider.Settings = ProviderSettings{
		"region":   getEnv("AWS_REGION", "us-east-1"),
		"api_key":  getEnv("SENDGRID_API_KEY", getEnv("MAILGUN_API_KEY", "")),
		"domain":   getEnv("MAILGUN_DOMAIN", ""),
		"host":     getEnv("SMTP_HOST", ""),
		"port":     getEnv("SMTP_PORT", ""),
		"username": getEnv("SMTP_USERNAME", ""),
		"password": getEnv("SMTP_PASSWORD", ""),
	}

	cfg.Retry.MaxRetries = getEnvAsInt("MAX_RETRIES", cfg.Retry.MaxRetries)
	cfg.Retry.InitialDelay = time.Duration(getEnvAsInt("RETRY_DELAY", 5)) * time.Second

	cfg.RateLimit.Rate = getEnvAsInt("RATE_LIMIT", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_BURST", cfg.RateLimit.Rate)

	cfg.Store.Backend = BackendType(getEnv("TEMPLATE_STORAGE", string(BackendMemory)))
	cfg.Store.Directory = getEnv("TEMPLATE_DIR", "")
	cfg.Store.Bucket = getEnv("S3_BUCKET_NAME", "")
	cfg.Store.Prefix = getEnv("S3_TEMPLATE_PREFIX", "templates/")
	cfg.Store.Region = getEnv("AWS_REGION", "us-east-1")

	return cfg
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if !c.Provider.Type.Valid() {
		return core.NewInvalidFieldError("provider.type",
			"invalid or unsupported provider type: "+string(c.Provider.Type))
	}

	if c.Provider.Timeout <= 0 {
		return core.NewInvalidFieldError("provider.timeout", "timeout must be greater than 0")
	}

	if !c.Store.Backend.Valid() {
		return core.NewInvalidFieldError("store.backend",
			"invalid or unsupported backend type: "+string(c.Store.Backend))
	}

	if c.Store.Backend == BackendS3 && c.Store.Bucket == "" {
		return core.NewInvalidFieldError("store.bucket", "bucket name is required for the s3 backend")
	}

	if c.Retry.Enabled {
		if c.Retry.MaxRetries < 0 {
			return core.NewInvalidFieldError("retry.max_retries", "max retries must not be negative")
		}
		if c.Retry.Multiplier <= 1.0 {
			return core.NewInvalidFieldError("retry.multiplier", "multiplier must be greater than 1.0")
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 {
			return core.NewInvalidFieldError("rate_limit.rate", "rate must be greater than 0")
		}
		if c.RateLimit.Burst <= 0 {
			return core.NewInvalidFieldError("rate_limit.burst", "burst must be greater than 0")
		}
	}

	if c.DefaultSender != "" && !ValidEmail(c.DefaultSender) {
		return core.NewInvalidFieldError("default_sender", "invalid email address: "+c.DefaultSender)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
