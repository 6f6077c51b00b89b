package mailer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// placeholderPattern matches a {name} token. Anything brace-shaped that does
// not match passes through untouched; there is no escaping mechanism.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Render substitutes every {name} token in text with the corresponding value
// from data and returns the rendered text together with the sorted set of
// placeholder names left unresolved. Substitution is a single pass over the
// input, so it is literal and non-recursive: a {token} carried inside a
// substituted value is never expanded and stays literal in the output. Render
// never fails; it is the caller's policy whether unresolved names are a
// warning or a hard error.
func Render(text string, data map[string]any) (string, []string) {
	rendered := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := data[name]; ok {
			return coerceValue(value)
		}
		return match
	})

	seen := make(map[string]struct{})
	var unresolved []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(rendered, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unresolved = append(unresolved, name)
	}
	sort.Strings(unresolved)

	return rendered, unresolved
}

// RenderTemplate personalizes a template's subject and HTML body against data.
// The subject argument overrides the template's own subject when non-blank.
func RenderTemplate(tmpl *core.Template, subject string, data map[string]any) *core.RenderedMessage {
	if strings.TrimSpace(subject) == "" {
		subject = tmpl.Subject
	}

	renderedSubject, unresolvedSubject := Render(subject, data)
	renderedBody, unresolvedBody := Render(tmpl.HTMLBody, data)

	seen := make(map[string]struct{}, len(unresolvedSubject))
	unresolved := append([]string(nil), unresolvedSubject...)
	for _, name := range unresolvedSubject {
		seen[name] = struct{}{}
	}
	for _, name := range unresolvedBody {
		if _, ok := seen[name]; !ok {
			unresolved = append(unresolved, name)
		}
	}
	sort.Strings(unresolved)

	return &core.RenderedMessage{
		Subject:    renderedSubject,
		HTMLBody:   renderedBody,
		Unresolved: unresolved,
	}
}

// coerceValue converts a template data value to its display string.
// Booleans render as true/false and numbers in plain decimal; no locale-aware
// formatting is applied.
func coerceValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
