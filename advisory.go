package mailer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// spamTriggers lists words and phrases commonly flagged by spam filters.
var spamTriggers = []string{
	"free", "guarantee", "no obligation", "no risk", "offer", "urgent",
	"winner", "won", "congratulations", "100%", "act now", "amazing",
	"cash", "discount", "earn money", "eliminate debt", "extra income",
	"fast cash", "for only", "limited time", "money back", "no catch",
	"no experience", "no fees", "opportunity", "promise", "pure profit",
	"risk-free", "satisfaction guaranteed", "no spam",
}

var followUpPattern = regexp.MustCompile(`(?i)^(Re:|Follow.up:|Following up)`)

// SpamTriggers reports trigger words found in the subject or content. Matches
// are whole-word only so "freedom" does not match "free". The result is
// advisory; dispatch never blocks on it.
func SpamTriggers(subject, content string) []string {
	combined := " " + strings.ToLower(subject+" "+content) + " "

	var found []string
	for _, trigger := range spamTriggers {
		if strings.Contains(combined, " "+trigger+" ") {
			found = append(found, trigger)
		}
	}
	return found
}

// NameFromAddress guesses first and last name from an email address local
// part. Both results are empty when the address is invalid; the last name is
// empty when the local part has no separator.
func NameFromAddress(email string) (first, last string) {
	if !ValidEmail(email) {
		return "", ""
	}

	title := cases.Title(language.English)
	local := email[:strings.IndexByte(email, '@')]

	for _, sep := range []string{".", "_", "-"} {
		if strings.Contains(local, sep) {
			parts := strings.SplitN(local, sep, 2)
			return title.String(parts[0]), title.String(parts[1])
		}
	}
	return title.String(local), ""
}

// FollowUpSubject derives a follow-up subject line, leaving subjects that
// already carry a follow-up or reply prefix unchanged.
func FollowUpSubject(original string) string {
	if followUpPattern.MatchString(original) {
		return original
	}
	return "Following up: " + original
}

// SenderProfile describes the sender identity a signature is built from.
type SenderProfile struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	LinkedInURL string

	// SignatureHTML, when set, is used verbatim instead of a generated block.
	SignatureHTML string
}

// Signature builds an HTML signature block for the profile. Empty fields are
// omitted; a custom SignatureHTML wins over generation.
func Signature(profile SenderProfile) string {
	if profile.SignatureHTML != "" {
		return profile.SignatureHTML
	}

	var b strings.Builder
	b.WriteString("<p>Best regards,<br>")
	if profile.FirstName != "" && profile.LastName != "" {
		b.WriteString(profile.FirstName + " " + profile.LastName + "<br>")
	}
	if profile.Email != "" {
		b.WriteString(profile.Email + "<br>")
	}
	if profile.Phone != "" {
		b.WriteString(profile.Phone + "<br>")
	}
	if profile.LinkedInURL != "" {
		b.WriteString("<a href='" + profile.LinkedInURL + "'>LinkedIn Profile</a><br>")
	}
	b.WriteString("</p>")
	return b.String()
}
