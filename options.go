package mailer

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the mailer client.
type Option func(*Config)

// WithProvider sets the email provider type and its settings.
func WithProvider(providerType ProviderType, settings ProviderSettings) Option {
	return func(c *Config) {
		c.Provider.Type = providerType
		c.Provider.Settings = settings
	}
}

// WithTimeout sets the provider operation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Provider.Timeout = timeout
	}
}

// WithDefaultSender sets the source address used when a request omits one.
func WithDefaultSender(address string) Option {
	return func(c *Config) {
		c.DefaultSender = address
	}
}

// WithRetry configures retry behavior.
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration, multiplier float64) Option {
	return func(c *Config) {
		c.Retry.Enabled = true
		c.Retry.MaxRetries = maxRetries
		c.Retry.InitialDelay = initialDelay
		c.Retry.MaxDelay = maxDelay
		c.Retry.Multiplier = multiplier
	}
}

// WithJitter enables or disables jitter in retry delays.
func WithJitter(enabled bool) Option {
	return func(c *Config) {
		c.Retry.Jitter = enabled
	}
}

// WithoutRetry disables retry functionality.
func WithoutRetry() Option {
	return func(c *Config) {
		c.Retry.Enabled = false
	}
}

// WithRateLimit configures rate limiting.
func WithRateLimit(rate, burst int, waitBudget time.Duration) Option {
	return func(c *Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.Rate = rate
		c.RateLimit.Burst = burst
		c.RateLimit.WaitBudget = waitBudget
	}
}

// WithoutRateLimit disables rate limiting.
func WithoutRateLimit() Option {
	return func(c *Config) {
		c.RateLimit.Enabled = false
	}
}

// WithLogger sets the structured logger used for dispatch logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMemoryStore keeps custom templates in process memory.
func WithMemoryStore() Option {
	return func(c *Config) {
		c.Store.Backend = BackendMemory
	}
}

// WithFilesystemStore stores custom templates as JSON files under directory.
func WithFilesystemStore(directory string) Option {
	return func(c *Config) {
		c.Store.Backend = BackendFilesystem
		c.Store.Directory = directory
	}
}

// WithS3Store stores custom templates as JSON objects in an S3 bucket.
func WithS3Store(region, bucket, prefix string) Option {
	return func(c *Config) {
		c.Store.Backend = BackendS3
		c.Store.Region = region
		c.Store.Bucket = bucket
		c.Store.Prefix = prefix
	}
}

// WithS3Endpoint points the S3 backend at an S3-compatible endpoint such as
// MinIO. Path-style addressing is enabled since most compatible stores
// require it.
func WithS3Endpoint(endpoint, accessKey, secretKey string) Option {
	return func(c *Config) {
		c.Store.Endpoint = endpoint
		c.Store.AccessKey = accessKey
		c.Store.SecretKey = secretKey
		c.Store.PathStyle = true
	}
}

// WithAWSSES creates an AWS SES provider configuration.
func WithAWSSES(region string) Option {
	return WithProvider(ProviderAWSSES, ProviderSettings{
		"region": region,
	})
}

// WithAWSSESCredentials creates an AWS SES provider configuration with explicit credentials.
func WithAWSSESCredentials(region, accessKey, secretKey string) Option {
	return WithProvider(ProviderAWSSES, ProviderSettings{
		"region":     region,
		"access_key": accessKey,
		"secret_key": secretKey,
	})
}

// WithSendGrid creates a SendGrid provider configuration.
func WithSendGrid(apiKey string) Option {
	return WithProvider(ProviderSendGrid, ProviderSettings{
		"api_key": apiKey,
	})
}

// WithMailgun creates a Mailgun provider configuration.
func WithMailgun(apiKey, domain string) Option {
	return WithProvider(ProviderMailgun, ProviderSettings{
		"api_key": apiKey,
		"domain":  domain,
	})
}

// WithMailgunEU creates a Mailgun provider configuration for EU region.
func WithMailgunEU(apiKey, domain string) Option {
	return WithProvider(ProviderMailgun, ProviderSettings{
		"api_key":  apiKey,
		"domain":   domain,
		"base_url": "https://api.eu.mailgun.net",
	})
}

// WithSMTP creates an SMTP provider configuration.
func WithSMTP(host, port string) Option {
	return WithProvider(ProviderSMTP, ProviderSettings{
		"host": host,
		"port": port,
	})
}

// WithSMTPAuth creates an SMTP provider configuration with authentication.
func WithSMTPAuth(host, port, username, password string) Option {
	return WithProvider(ProviderSMTP, ProviderSettings{
		"host":     host,
		"port":     port,
		"username": username,
		"password": password,
	})
}
