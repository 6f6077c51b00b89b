// Package sendgrid implements the delivery provider for SendGrid.
package sendgrid

import (
	"context"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Provider implements the core.Provider interface for SendGrid.
type Provider struct {
	client *sendgrid.Client
	config core.ProviderSettings
}

// NewProvider creates a new SendGrid provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewInvalidFieldError("api_key", "SendGrid API key is required")
	}

	return &Provider{
		client: sendgrid.NewSendClient(apiKey),
		config: settings,
	}, nil
}

// Send sends a single message using SendGrid.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	if len(msg.To) == 0 {
		return nil, core.NewInvalidFieldError("to", "at least one recipient is required")
	}

	from := mail.NewEmail("", msg.From)
	to := mail.NewEmail("", msg.To[0])
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	personalization := mail.NewPersonalization()
	for _, recipient := range msg.To {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	for _, cc := range msg.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}
	message.Personalizations = []*mail.Personalization{personalization}

	if len(msg.ReplyTo) > 0 {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo[0]))
	}

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, core.NewRetryableProviderError("sendgrid", "transport_error", err.Error())
	}

	// 429 and 5xx are transient; other 4xx responses are permanent rejections.
	if response.StatusCode == 429 || response.StatusCode >= 500 {
		pe := core.NewRetryableProviderError("sendgrid", "api_error", strings.TrimSpace(response.Body))
		pe.StatusCode = response.StatusCode
		return nil, pe
	}
	if response.StatusCode >= 400 {
		pe := core.NewProviderError("sendgrid", "api_error", strings.TrimSpace(response.Body))
		pe.StatusCode = response.StatusCode
		return nil, pe
	}

	messageID := "unknown"
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	return &core.SendResult{
		MessageID: messageID,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewInvalidFieldError("api_key", "SendGrid API key is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "sendgrid"
}
