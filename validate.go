package mailer

import (
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// emailPattern is the address shape accepted everywhere an address appears:
// a local part, an @, a dotted domain, and a TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether addr matches the accepted address format.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// ParseSendRequest decodes a raw JSON payload into a canonical SendRequest.
// An unparseable payload yields a ValidationError of kind MalformedPayload;
// a parseable one is passed through ValidateRequest.
func ParseSendRequest(raw []byte) (*core.SendRequest, error) {
	var req core.SendRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, core.NewMalformedPayloadError(err)
	}
	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateRequest checks a SendRequest structurally and semantically,
// normalizing optional collections to empty values. All missing required
// fields are reported in a single error.
func ValidateRequest(req *core.SendRequest) error {
	var missing []string
	if strings.TrimSpace(req.Recipient) == "" {
		missing = append(missing, "recipient_email")
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(req.TemplateName) == "" {
		missing = append(missing, "template_name")
	}
	if len(missing) > 0 {
		return core.NewMissingFieldsError(missing)
	}

	if !ValidEmail(req.Recipient) {
		return core.NewInvalidFieldError("recipient_email", "invalid email address: "+req.Recipient)
	}
	if req.Sender != "" && !ValidEmail(req.Sender) {
		return core.NewInvalidFieldError("sender_email", "invalid email address: "+req.Sender)
	}
	for _, cc := range req.CC {
		if !ValidEmail(cc) {
			return core.NewInvalidFieldError("cc_emails", "invalid email address: "+cc)
		}
	}
	for _, rt := range req.ReplyTo {
		if !ValidEmail(rt) {
			return core.NewInvalidFieldError("reply_to_emails", "invalid email address: "+rt)
		}
	}

	if req.TemplateData == nil {
		req.TemplateData = map[string]any{}
	}
	if req.CC == nil {
		req.CC = []string{}
	}
	if req.ReplyTo == nil {
		req.ReplyTo = []string{}
	}

	return nil
}
