package mailer

import (
	"context"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Type aliases to re-export core types for the public API.
// This allows users to access types like mailer.Template instead of
// core.Template, maintaining a clean public interface while keeping
// implementation details internal.
type (
	Provider         = core.Provider
	ProviderSettings = core.ProviderSettings
	Template         = core.Template
	SendRequest      = core.SendRequest
	Message          = core.Message
	RenderedMessage  = core.RenderedMessage
	SendResult       = core.SendResult
	DispatchResult   = core.DispatchResult
	Outcome          = core.Outcome
	ValidationError  = core.ValidationError
	StoreError       = core.StoreError
	ProviderError    = core.ProviderError
)

// Outcome constants
const (
	OutcomeSent             = core.OutcomeSent
	OutcomeValidationFailed = core.OutcomeValidationFailed
	OutcomeTemplateNotFound = core.OutcomeTemplateNotFound
	OutcomeProviderFailed   = core.OutcomeProviderFailed
	OutcomeRateLimited      = core.OutcomeRateLimited
)

// Error constructor functions
var (
	NewMissingFieldsError     = core.NewMissingFieldsError
	NewInvalidFieldError      = core.NewInvalidFieldError
	NewMalformedPayloadError  = core.NewMalformedPayloadError
	NewStoreNotFoundError     = core.NewStoreNotFoundError
	NewStoreBackendError      = core.NewStoreBackendError
	NewProviderError          = core.NewProviderError
	NewRetryableProviderError = core.NewRetryableProviderError
	IsRetryable               = core.IsRetryable
)

// Dispatcher runs send requests through the full dispatch pipeline.
type Dispatcher interface {
	// Dispatch runs one request through validation, template resolution,
	// rendering, rate gating and provider delivery. It always returns a
	// terminal result, never a bare error.
	Dispatch(ctx context.Context, req *SendRequest) *DispatchResult

	// DispatchRaw parses a JSON request body and dispatches it.
	DispatchRaw(ctx context.Context, raw []byte) *DispatchResult
}

// TemplateStore manages built-in and custom message templates.
type TemplateStore interface {
	Get(ctx context.Context, name string) (*Template, error)
	Put(ctx context.Context, tmpl *Template) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*Template, error)
	IsBuiltin(name string) bool
}
