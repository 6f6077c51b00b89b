package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider defines the interface for mail delivery providers.
// Implementations handle provider-specific logic for transmitting messages.
type Provider interface {
	// Send transmits a single message using the provider's API and returns
	// the provider-assigned message id.
	Send(ctx context.Context, msg *Message) (*SendResult, error)

	// ValidateConfig validates the provider configuration.
	// Returns an error if the configuration is invalid or incomplete.
	ValidateConfig() error

	// Name returns the provider's name for identification and logging.
	Name() string
}

// ProviderSettings represents configuration settings for mail providers.
type ProviderSettings map[string]string

// Get retrieves a configuration value by key.
func (ps ProviderSettings) Get(key string) string {
	return ps[key]
}

// Set sets a configuration value.
func (ps ProviderSettings) Set(key, value string) {
	ps[key] = value
}

// Template is a named pair of subject and body text carrying {name} placeholders.
type Template struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_content"`
	PlainBody   string `json:"plain_content,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks that the template carries the fields a store requires.
func (t *Template) Validate() error {
	var missing []string
	if strings.TrimSpace(t.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(t.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(t.HTMLBody) == "" {
		missing = append(missing, "html_content")
	}
	if len(missing) > 0 {
		return &StoreError{
			Kind:    StoreInvalidTemplate,
			Name:    t.Name,
			Message: "template missing required fields: " + strings.Join(missing, ", "),
		}
	}
	return nil
}

// SendRequest is the canonical form of one inbound dispatch request.
// It exists only for the duration of a single dispatch and is never persisted.
type SendRequest struct {
	Recipient    string         `json:"recipient_email"`
	Subject      string         `json:"subject"`
	TemplateName string         `json:"template_name"`
	TemplateData map[string]any `json:"template_data,omitempty"`
	Sender       string         `json:"sender_email,omitempty"`
	CC           []string       `json:"cc_emails,omitempty"`
	ReplyTo      []string       `json:"reply_to_emails,omitempty"`
}

// Message is the fully rendered message handed to a Provider.
type Message struct {
	From     string
	To       []string
	CC       []string
	ReplyTo  []string
	Subject  string
	HTMLBody string
	TextBody string
}

// RenderedMessage holds the personalized template output together with any
// placeholder names left unresolved. It is never mutated after construction.
type RenderedMessage struct {
	Subject    string
	HTMLBody   string
	Unresolved []string
}

// Outcome tags the terminal state of one dispatch.
type Outcome string

const (
	// OutcomeSent indicates the provider accepted the message.
	OutcomeSent Outcome = "sent"

	// OutcomeValidationFailed indicates the request never passed validation.
	OutcomeValidationFailed Outcome = "validation_failed"

	// OutcomeTemplateNotFound indicates the named template does not exist.
	OutcomeTemplateNotFound Outcome = "template_not_found"

	// OutcomeProviderFailed indicates the provider (or the template store
	// backend) failed permanently or after the retry budget was exhausted.
	OutcomeProviderFailed Outcome = "provider_failed"

	// OutcomeRateLimited indicates no send permit became available in time.
	OutcomeRateLimited Outcome = "rate_limited"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// DispatchResult is the structured terminal result of one dispatch.
// One instance is produced per SendRequest and is immutable once returned.
type DispatchResult struct {
	// Outcome tags the terminal state.
	Outcome Outcome

	// MessageID is the provider-assigned id, present only when Outcome is Sent.
	MessageID string

	// Detail is a human-readable diagnostic naming the failed stage.
	Detail string

	// Attempts counts the provider calls actually made.
	Attempts int
}

// Sent reports whether the dispatch terminated successfully.
func (r *DispatchResult) Sent() bool {
	return r.Outcome == OutcomeSent
}

// SendResult contains the result of a successful provider call.
type SendResult struct {
	// MessageID is the unique identifier assigned by the provider.
	MessageID string

	// Provider is the name of the provider that sent the message.
	Provider string

	// Timestamp when the message was accepted by the provider.
	Timestamp time.Time
}

// ValidationKind discriminates the validation failure classes.
type ValidationKind int

const (
	// ValidationMissingFields indicates one or more required fields were absent.
	ValidationMissingFields ValidationKind = iota

	// ValidationInvalidField indicates a field failed format validation.
	ValidationInvalidField

	// ValidationMalformedPayload indicates the raw payload was not parseable.
	ValidationMalformedPayload
)

// ValidationError represents a request validation failure.
// Missing lists every absent required field, not just the first.
type ValidationError struct {
	Kind    ValidationKind
	Missing []string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationMissingFields:
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	case ValidationInvalidField:
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Message)
	default:
		return "malformed request payload: " + e.Message
	}
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NewMissingFieldsError creates a validation error listing all absent fields.
func NewMissingFieldsError(fields []string) *ValidationError {
	return &ValidationError{Kind: ValidationMissingFields, Missing: fields}
}

// NewInvalidFieldError creates a validation error for one malformed field.
func NewInvalidFieldError(field, message string) *ValidationError {
	return &ValidationError{Kind: ValidationInvalidField, Field: field, Message: message}
}

// NewMalformedPayloadError creates a validation error for an unparseable payload.
func NewMalformedPayloadError(cause error) *ValidationError {
	return &ValidationError{
		Kind:    ValidationMalformedPayload,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// StoreErrorKind discriminates template store failure classes.
type StoreErrorKind int

const (
	// StoreNotFound indicates the template does not exist.
	StoreNotFound StoreErrorKind = iota

	// StoreNameReserved indicates the name collides with a built-in template.
	StoreNameReserved

	// StoreInvalidTemplate indicates the template failed structural validation.
	StoreInvalidTemplate

	// StoreBackendUnavailable indicates a transient backend failure.
	StoreBackendUnavailable
)

// StoreError represents a template store failure.
type StoreError struct {
	Kind    StoreErrorKind
	Name    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	switch e.Kind {
	case StoreNotFound:
		return fmt.Sprintf("template not found: %s", e.Name)
	case StoreNameReserved:
		return fmt.Sprintf("template name is reserved for a built-in: %s", e.Name)
	case StoreInvalidTemplate:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("invalid template: %s", e.Name)
	default:
		return fmt.Sprintf("template store unavailable: %s", e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Retryable implements RetryableError. Only backend outages are transient.
func (e *StoreError) Retryable() bool {
	return e.Kind == StoreBackendUnavailable
}

// NewStoreNotFoundError creates a StoreError for a missing template.
func NewStoreNotFoundError(name string) *StoreError {
	return &StoreError{Kind: StoreNotFound, Name: name}
}

// NewStoreBackendError creates a retryable StoreError wrapping a backend fault.
func NewStoreBackendError(name string, cause error) *StoreError {
	return &StoreError{
		Kind:    StoreBackendUnavailable,
		Name:    name,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// ProviderError represents an error from a mail provider.
type ProviderError struct {
	// Provider is the name of the provider that generated the error.
	Provider string

	// Code is the provider-specific error code.
	Code string

	// Message is the error message from the provider.
	Message string

	// StatusCode is the HTTP status code (for HTTP-based providers).
	StatusCode int

	// IsRetryable indicates whether the error can be retried.
	IsRetryable bool

	// Cause is the underlying error that caused this provider error.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error [%s] (status: %d): %s",
			e.Provider, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error [%s]: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *ProviderError) Is(target error) bool {
	pe, ok := target.(*ProviderError)
	if !ok {
		return false
	}
	return e.Provider == pe.Provider && e.Code == pe.Code
}

// Retryable implements RetryableError for ProviderError.
func (e *ProviderError) Retryable() bool {
	return e.IsRetryable
}

// RetryableError interface indicates whether an error can be retried.
type RetryableError interface {
	Retryable() bool
}

// NewProviderError creates a new permanent provider error.
func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
	}
}

// NewRetryableProviderError creates a new retryable provider error.
func NewRetryableProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider:    provider,
		Code:        code,
		Message:     message,
		IsRetryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Deadline expiry on an external call is treated as a transient fault
	// eligible for the same retry policy as a provider-reported one.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if re, ok := err.(RetryableError); ok {
		return re.Retryable()
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.IsRetryable
	}

	var se *StoreError
	if errors.As(err, &se) {
		return se.Retryable()
	}

	return false
}
