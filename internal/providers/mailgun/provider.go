// Package mailgun implements the delivery provider for Mailgun.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Provider implements the core.Provider interface for Mailgun.
type Provider struct {
	client mailgun.Mailgun
	config core.ProviderSettings
}

// NewProvider creates a new Mailgun provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewInvalidFieldError("api_key", "Mailgun API key is required")
	}

	domain := settings.Get("domain")
	if domain == "" {
		return nil, core.NewInvalidFieldError("domain", "Mailgun domain is required")
	}

	client := mailgun.NewMailgun(domain, apiKey)

	// Set base URL if provided (for EU customers)
	if baseURL := settings.Get("base_url"); baseURL != "" {
		client.SetAPIBase(baseURL)
	}

	return &Provider{
		client: client,
		config: settings,
	}, nil
}

// Send sends a single message using Mailgun.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if len(msg.To) == 0 {
		return nil, core.NewInvalidFieldError("to", "at least one recipient is required")
	}

	message := p.client.NewMessage(msg.From, msg.Subject, msg.TextBody, msg.To[0])

	for i := 1; i < len(msg.To); i++ {
		if err := message.AddRecipient(msg.To[i]); err != nil {
			return nil, core.NewProviderError("mailgun", "recipient_add_failed",
				fmt.Sprintf("failed to add recipient %s: %v", msg.To[i], err))
		}
	}

	for _, cc := range msg.CC {
		message.AddCC(cc)
	}

	if len(msg.ReplyTo) > 0 {
		message.SetReplyTo(msg.ReplyTo[0])
	}

	if msg.HTMLBody != "" {
		message.SetHtml(msg.HTMLBody)
	}

	_, id, err := p.client.Send(ctx, message)
	if err != nil {
		return nil, classifyMailgunError(err)
	}

	return &core.SendResult{
		MessageID: id,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// classifyMailgunError maps a Mailgun failure onto the retryable/permanent
// taxonomy. Rate limiting and server faults are transient; rejected requests
// are permanent.
func classifyMailgunError(err error) error {
	var ure *mailgun.UnexpectedResponseError
	if errors.As(err, &ure) {
		if ure.Actual == 429 || ure.Actual >= 500 {
			pe := core.NewRetryableProviderError("mailgun", "api_error", string(ure.Data))
			pe.StatusCode = ure.Actual
			return pe
		}
		pe := core.NewProviderError("mailgun", "api_error", string(ure.Data))
		pe.StatusCode = ure.Actual
		return pe
	}

	return core.NewRetryableProviderError("mailgun", "transport_error", err.Error())
}

// ValidateConfig validates the Mailgun provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewInvalidFieldError("api_key", "Mailgun API key is required")
	}
	if p.config.Get("domain") == "" {
		return core.NewInvalidFieldError("domain", "Mailgun domain is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mailgun"
}
