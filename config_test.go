package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		cfg := DefaultConfig()
		cfg.Provider.Type = ProviderSMTP
		return cfg
	}

	t.Run("defaults with a provider are valid", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown provider type", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.Provider.Type = "postal_dove"
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive timeout", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.Provider.Timeout = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown backend type", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.Store.Backend = "tape_archive"
		require.Error(t, cfg.Validate())
	})

	t.Run("s3 backend requires a bucket", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.Store.Backend = BackendS3
		require.Error(t, cfg.Validate())

		cfg.Store.Bucket = "templates"
		require.NoError(t, cfg.Validate())
	})

	t.Run("enabled retry requires a sane multiplier", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.Retry.Multiplier = 1.0
		require.Error(t, cfg.Validate())

		cfg.Retry.Enabled = false
		require.NoError(t, cfg.Validate())
	})

	t.Run("enabled rate limit requires positive rate and burst", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.RateLimit.Rate = 0
		require.Error(t, cfg.Validate())

		cfg.RateLimit.Rate = 5
		cfg.RateLimit.Burst = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("default sender must be a valid address when set", func(t *testing.T) {
		t.Parallel()

		cfg := base()
		cfg.DefaultSender = "not-an-address"
		require.Error(t, cfg.Validate())

		cfg.DefaultSender = "noreply@example.com"
		require.NoError(t, cfg.Validate())
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_SENDER_EMAIL", "sender@example.com")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "SG.test-key")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("RETRY_DELAY", "2")
	t.Setenv("RATE_LIMIT", "20")
	t.Setenv("TEMPLATE_STORAGE", "s3")
	t.Setenv("S3_BUCKET_NAME", "my-templates")
	t.Setenv("S3_TEMPLATE_PREFIX", "tmpl/")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg := FromEnv()

	require.Equal(t, "sender@example.com", cfg.DefaultSender)
	require.Equal(t, ProviderSendGrid, cfg.Provider.Type)
	require.Equal(t, "SG.test-key", cfg.Provider.Settings.Get("api_key"))
	require.Equal(t, 5, cfg.Retry.MaxRetries)
	require.Equal(t, 2*time.Second, cfg.Retry.InitialDelay)
	require.Equal(t, 20, cfg.RateLimit.Rate)
	require.Equal(t, 20, cfg.RateLimit.Burst)
	require.Equal(t, BackendS3, cfg.Store.Backend)
	require.Equal(t, "my-templates", cfg.Store.Bucket)
	require.Equal(t, "tmpl/", cfg.Store.Prefix)
	require.Equal(t, "eu-west-1", cfg.Store.Region)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"DEFAULT_SENDER_EMAIL", "EMAIL_PROVIDER", "MAX_RETRIES", "RETRY_DELAY",
		"RATE_LIMIT", "RATE_BURST", "TEMPLATE_STORAGE", "S3_BUCKET_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	require.Equal(t, ProviderAWSSES, cfg.Provider.Type)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, 3, cfg.Retry.MaxRetries)
	require.Equal(t, 5*time.Second, cfg.Retry.InitialDelay)
	require.Equal(t, 10, cfg.RateLimit.Rate)
}
