// Package mailer provides a provider-agnostic dispatch pipeline for
// transactional email built around personalized message templates.
//
// Each send request carries a recipient, a subject and a template name plus
// personalization data. The pipeline validates the request, resolves the
// template from a store of built-in and custom templates, substitutes
// {placeholder} tokens, applies rate limiting and delivers through the
// configured provider with automatic retries for transient failures. Every
// request terminates in exactly one structured outcome.
//
// # Basic Usage
//
//	config := mailer.DefaultConfig()
//	client, err := mailer.New(config,
//		mailer.WithAWSSES("us-east-1"),
//		mailer.WithDefaultSender("noreply@example.com"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	result := client.Dispatch(context.Background(), &mailer.SendRequest{
//		Recipient:    "user@example.com",
//		Subject:      "Application for {position}",
//		TemplateName: "job_application",
//		TemplateData: map[string]any{
//			"name":     "Jordan",
//			"position": "Platform Engineer",
//			"company":  "Example Corp",
//		},
//	})
//	if result.Sent() {
//		log.Println("message id:", result.MessageID)
//	}
//
// # Supported Providers
//
//   - AWS SES
//   - SendGrid
//   - Mailgun
//   - Generic SMTP
//
// # Template Storage
//
// Custom templates live in memory, on the local filesystem or in an S3
// bucket. Built-in templates always win name lookups and cannot be replaced
// or deleted.
//
// # Features
//
//   - Provider-agnostic interface
//   - Placeholder personalization with unresolved-token detection
//   - Automatic retries with exponential backoff
//   - Token-bucket rate limiting
//   - Distributed tracing with OpenTelemetry
//   - Context-aware operations
//   - Thread-safe operations
package mailer
