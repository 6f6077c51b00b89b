package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shreyas463/OpportunityMailer/internal/core"
	"github.com/shreyas463/OpportunityMailer/internal/providers/mailgun"
	"github.com/shreyas463/OpportunityMailer/internal/providers/sendgrid"
	"github.com/shreyas463/OpportunityMailer/internal/providers/ses"
	"github.com/shreyas463/OpportunityMailer/internal/providers/smtp"
	"github.com/shreyas463/OpportunityMailer/internal/store"
)

// Client implements the Dispatcher interface and drives requests through the
// full dispatch pipeline. All methods are safe for concurrent use.
type Client struct {
	config       Config
	provider     Provider
	templates    *store.Store
	retryManager *RetryManager
	rateLimiter  *RateLimiter
	logger       *slog.Logger
	tracer       trace.Tracer
	mu           sync.RWMutex
	closed       bool
}

// New creates a new dispatch client with the given configuration.
func New(config Config, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&config)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		config: config,
		logger: logger,
		tracer: otel.Tracer("github.com/shreyas463/OpportunityMailer"),
	}

	provider, err := createProvider(config.Provider.Type, config.Provider.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	client.provider = provider

	backend, err := createBackend(config.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create template backend: %w", err)
	}
	client.templates = store.New(store.Builtins(), backend)

	if config.Retry.Enabled {
		client.retryManager = NewRetryManager(config.Retry)
	}

	if config.RateLimit.Enabled {
		client.rateLimiter = NewRateLimiter(config.RateLimit)
	}

	return client, nil
}

// Templates returns the client's template store.
func (c *Client) Templates() TemplateStore {
	return c.templates
}

// DispatchRaw parses a JSON request body and dispatches it. Malformed JSON
// terminates with a validation failure rather than an error.
func (c *Client) DispatchRaw(ctx context.Context, raw []byte) *DispatchResult {
	req, err := ParseSendRequest(raw)
	if err != nil {
		return &DispatchResult{
			Outcome: OutcomeValidationFailed,
			Detail:  err.Error(),
		}
	}
	return c.Dispatch(ctx, req)
}

// Dispatch runs one request through validation, template resolution,
// rendering, rate gating and provider delivery. Exactly one terminal outcome
// is produced per request; the pipeline never re-enters an earlier stage.
func (c *Client) Dispatch(ctx context.Context, req *SendRequest) *DispatchResult {
	ctx, span := c.tracer.Start(ctx, "mailer.Client.Dispatch")
	defer span.End()

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		span.RecordError(ErrClientClosed)
		span.SetStatus(codes.Error, ErrClientClosed.Error())
		return &DispatchResult{
			Outcome: OutcomeProviderFailed,
			Detail:  ErrClientClosed.Error(),
		}
	}
	c.mu.RUnlock()

	span.SetAttributes(
		attribute.String("mailer.to", req.Recipient),
		attribute.String("mailer.template", req.TemplateName),
		attribute.String("mailer.provider", c.provider.Name()),
	)

	// Stage 1: validation. Failures here are terminal and never retried.
	if err := c.validate(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		c.logger.Warn("request rejected",
			slog.String("recipient", req.Recipient),
			slog.String("error", err.Error()))
		return c.finish(span, &DispatchResult{
			Outcome: OutcomeValidationFailed,
			Detail:  err.Error(),
		})
	}

	// Stage 2: template resolution. Backend outages are retried with the
	// same budget as provider sends; a missing template is terminal.
	tmpl, err := c.resolveTemplate(ctx, req.TemplateName)
	if err != nil {
		span.RecordError(err)
		var storeErr *core.StoreError
		if errors.As(err, &storeErr) && storeErr.Kind == core.StoreNotFound {
			span.SetStatus(codes.Error, "template not found")
			return c.finish(span, &DispatchResult{
				Outcome: OutcomeTemplateNotFound,
				Detail:  err.Error(),
			})
		}
		span.SetStatus(codes.Error, "template store unavailable")
		return c.finish(span, &DispatchResult{
			Outcome: OutcomeProviderFailed,
			Detail:  err.Error(),
		})
	}

	// Stage 3: rendering. Unresolved placeholders are advisory only.
	rendered := RenderTemplate(tmpl, req.Subject, req.TemplateData)
	if len(rendered.Unresolved) > 0 {
		span.SetAttributes(attribute.StringSlice("mailer.unresolved", rendered.Unresolved))
		c.logger.Warn("unresolved placeholders in rendered message",
			slog.String("template", tmpl.Name),
			slog.String("recipient", req.Recipient),
			slog.Any("placeholders", rendered.Unresolved))
	}

	if triggers := SpamTriggers(rendered.Subject, rendered.HTMLBody); len(triggers) > 0 {
		c.logger.Warn("message content matches spam trigger words",
			slog.String("template", tmpl.Name),
			slog.Any("triggers", triggers))
	}

	// Stage 4: rate gate. The permit is held before any provider attempt so
	// retries of the same request consume a single permit.
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Acquire(ctx, c.config.RateLimit.WaitBudget); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rate limited")
			c.logger.Warn("send rejected by rate limiter",
				slog.String("recipient", req.Recipient))
			return c.finish(span, &DispatchResult{
				Outcome: OutcomeRateLimited,
				Detail:  err.Error(),
			})
		}
	}

	// Stage 5: provider delivery with retry.
	msg, err := c.buildMessage(req, rendered)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no sender address")
		return c.finish(span, &DispatchResult{
			Outcome: OutcomeValidationFailed,
			Detail:  err.Error(),
		})
	}

	result, attempts, err := c.send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		c.logger.Error("send failed",
			slog.String("recipient", req.Recipient),
			slog.String("template", tmpl.Name),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()))
		return c.finish(span, &DispatchResult{
			Outcome:  OutcomeProviderFailed,
			Detail:   err.Error(),
			Attempts: attempts,
		})
	}

	span.SetAttributes(attribute.String("mailer.message_id", result.MessageID))
	span.SetStatus(codes.Ok, "email sent successfully")
	c.logger.Info("email sent",
		slog.String("recipient", req.Recipient),
		slog.String("template", tmpl.Name),
		slog.String("message_id", result.MessageID),
		slog.Int("attempts", attempts))

	return c.finish(span, &DispatchResult{
		Outcome:   OutcomeSent,
		MessageID: result.MessageID,
		Attempts:  attempts,
	})
}

// Close closes the client. Further dispatches fail with a provider outcome.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) finish(span trace.Span, result *DispatchResult) *DispatchResult {
	span.SetAttributes(attribute.String("mailer.outcome", result.Outcome.String()))
	return result
}

// validate extends request validation with the sender fallback check: the
// request itself may omit the sender only when a default is configured.
func (c *Client) validate(req *SendRequest) error {
	if err := ValidateRequest(req); err != nil {
		return err
	}
	if req.Sender == "" && c.config.DefaultSender == "" {
		return core.NewMissingFieldsError([]string{"sender_email"})
	}
	return nil
}

// resolveTemplate fetches a template, retrying transient backend failures.
func (c *Client) resolveTemplate(ctx context.Context, name string) (*Template, error) {
	var tmpl *Template

	fetch := func() error {
		var err error
		tmpl, err = c.templates.Get(ctx, name)
		return err
	}

	var err error
	if c.retryManager != nil {
		err = c.retryManager.Retry(ctx, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (c *Client) buildMessage(req *SendRequest, rendered *RenderedMessage) (*Message, error) {
	from := req.Sender
	if from == "" {
		from = c.config.DefaultSender
	}
	if from == "" {
		return nil, core.NewMissingFieldsError([]string{"sender_email"})
	}

	return &Message{
		From:     from,
		To:       []string{req.Recipient},
		CC:       req.CC,
		ReplyTo:  req.ReplyTo,
		Subject:  rendered.Subject,
		HTMLBody: rendered.HTMLBody,
		TextBody: htmlToText(rendered.HTMLBody),
	}, nil
}

// send runs the provider call under the retry budget, applying the per-call
// timeout to each attempt. The attempt count reflects calls actually made.
func (c *Client) send(ctx context.Context, msg *Message) (*SendResult, int, error) {
	var result *SendResult
	attempts := 0

	sendFn := func() error {
		attempts++
		callCtx := ctx
		if c.config.Provider.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.config.Provider.Timeout)
			defer cancel()
		}

		start := time.Now()
		var err error
		result, err = c.provider.Send(callCtx, msg)
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.Int64("mailer.provider.duration_ms", time.Since(start).Milliseconds()),
			)
		}
		return err
	}

	var err error
	if c.retryManager != nil {
		err = c.retryManager.Retry(ctx, sendFn)
	} else {
		err = sendFn()
	}

	return result, attempts, err
}

// htmlToText derives a crude plain-text alternative from an HTML body for
// providers that carry both parts.
func htmlToText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// createProvider creates a provider instance based on type and settings.
func createProvider(providerType ProviderType, settings ProviderSettings) (Provider, error) {
	switch providerType {
	case ProviderAWSSES:
		return ses.NewProvider(settings)
	case ProviderSendGrid:
		return sendgrid.NewProvider(settings)
	case ProviderMailgun:
		return mailgun.NewProvider(settings)
	case ProviderSMTP:
		return smtp.NewProvider(settings)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// createBackend creates a template storage backend from configuration.
func createBackend(cfg StoreConfig) (store.Backend, error) {
	switch cfg.Backend {
	case BackendMemory:
		return store.NewMemory(), nil
	case BackendFilesystem:
		return store.NewFilesystem(cfg.Directory)
	case BackendS3:
		return store.NewS3(store.S3Config{
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend)
	}
}
