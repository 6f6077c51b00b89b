// Package smtp implements the delivery provider for generic SMTP servers.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Provider implements the core.Provider interface for SMTP.
type Provider struct {
	config core.ProviderSettings
}

// NewProvider creates a new SMTP provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	host := settings.Get("host")
	if host == "" {
		return nil, core.NewInvalidFieldError("host", "SMTP host is required")
	}

	port := settings.Get("port")
	if port == "" {
		return nil, core.NewInvalidFieldError("port", "SMTP port is required")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return nil, core.NewInvalidFieldError("port", "invalid port number: "+port)
	}

	return &Provider{config: settings}, nil
}

// Send sends a single message over SMTP.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	host := p.config.Get("host")
	port := p.config.Get("port")
	username := p.config.Get("username")
	password := p.config.Get("password")

	addr := host + ":" + port

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	recipients := make([]string, 0, len(msg.To)+len(msg.CC))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.CC...)

	raw := p.buildMessage(msg)

	if err := smtp.SendMail(addr, auth, msg.From, recipients, raw); err != nil {
		return nil, classifySMTPError(err)
	}

	// SMTP doesn't return a message id; synthesize one.
	messageID := fmt.Sprintf("%d@%s", time.Now().UnixNano(), host)

	return &core.SendResult{
		MessageID: messageID,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// classifySMTPError maps an SMTP failure onto the retryable/permanent taxonomy
// using the reply code class: 4xx replies are transient, 5xx permanent.
func classifySMTPError(err error) error {
	text := err.Error()
	if len(text) >= 3 {
		switch text[0] {
		case '4':
			return core.NewRetryableProviderError("smtp", "temporary_failure", text)
		case '5':
			return core.NewProviderError("smtp", "permanent_failure", text)
		}
	}
	return core.NewRetryableProviderError("smtp", "transport_error", text)
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("host") == "" {
		return core.NewInvalidFieldError("host", "SMTP host is required")
	}

	port := p.config.Get("port")
	if port == "" {
		return core.NewInvalidFieldError("port", "SMTP port is required")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return core.NewInvalidFieldError("port", "invalid port number: "+port)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// buildMessage builds the message in RFC 5322 format.
func (p *Provider) buildMessage(msg *core.Message) []byte {
	var b strings.Builder

	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")

	if len(msg.CC) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.CC, ", ") + "\r\n")
	}

	if len(msg.ReplyTo) > 0 {
		b.WriteString("Reply-To: " + strings.Join(msg.ReplyTo, ", ") + "\r\n")
	}

	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
		b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody + "\r\n\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTMLBody + "\r\n\r\n")

		b.WriteString("--" + boundary + "--\r\n")
	} else if msg.HTMLBody != "" {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTMLBody + "\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody + "\r\n")
	}

	return []byte(b.String())
}
