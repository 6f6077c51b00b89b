// Package ses implements the delivery provider for Amazon SES.
package ses

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Provider implements the core.Provider interface for AWS SES.
type Provider struct {
	client *ses.Client
	config core.ProviderSettings
}

// NewProvider creates a new AWS SES provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	region := settings.Get("region")
	if region == "" {
		return nil, core.NewInvalidFieldError("region", "AWS region is required")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, core.NewProviderError("aws_ses", "config_error", "failed to load AWS config: "+err.Error())
	}

	// Override with explicit credentials if provided
	if accessKey := settings.Get("access_key"); accessKey != "" {
		secretKey := settings.Get("secret_key")
		if secretKey == "" {
			return nil, core.NewInvalidFieldError("secret_key", "secret key is required when access key is provided")
		}

		cfg.Credentials = aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
				SessionToken:    settings.Get("session_token"),
			}, nil
		})
	}

	return &Provider{
		client: ses.NewFromConfig(cfg),
		config: settings,
	}, nil
}

// Send sends a single message using AWS SES.
func (p *Provider) Send(ctx context.Context, msg *core.Message) (*core.SendResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(msg.Subject),
			},
			Body: &types.Body{},
		},
	}

	if len(msg.CC) > 0 {
		input.Destination.CcAddresses = msg.CC
	}

	if len(msg.ReplyTo) > 0 {
		input.ReplyToAddresses = msg.ReplyTo
	}

	if msg.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data: aws.String(msg.TextBody),
		}
	}

	if msg.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data: aws.String(msg.HTMLBody),
		}
	}

	if configSet := p.config.Get("configuration_set"); configSet != "" {
		input.ConfigurationSetName = aws.String(configSet)
	}

	output, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return nil, classifySESError(err)
	}

	return &core.SendResult{
		MessageID: aws.ToString(output.MessageId),
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// classifySESError maps an SES failure onto the retryable/permanent taxonomy.
// Throttling and service faults are transient; rejection of the message or
// sender identity is permanent.
func classifySESError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling", "ThrottlingException", "TooManyRequestsException",
			"ServiceUnavailable", "ServiceUnavailableException", "InternalFailure":
			return core.NewRetryableProviderError("aws_ses", apiErr.ErrorCode(), apiErr.ErrorMessage())
		case "MessageRejected", "MailFromDomainNotVerifiedException",
			"ConfigurationSetDoesNotExistException", "AccountSendingPausedException":
			return core.NewProviderError("aws_ses", apiErr.ErrorCode(), apiErr.ErrorMessage())
		default:
			if apiErr.ErrorFault() == smithy.FaultServer {
				return core.NewRetryableProviderError("aws_ses", apiErr.ErrorCode(), apiErr.ErrorMessage())
			}
			return core.NewProviderError("aws_ses", apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}

	// Transport-level failures without an API error code are transient.
	return core.NewRetryableProviderError("aws_ses", "transport_error", err.Error())
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("region") == "" {
		return core.NewInvalidFieldError("region", "AWS region is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "aws_ses"
}
