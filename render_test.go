package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("substitutes every occurrence of a placeholder", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render("Hi {name}, bye {name}", map[string]any{"name": "Ada"})
		require.Equal(t, "Hi Ada, bye Ada", rendered)
		require.Empty(t, unresolved)
	})

	t.Run("reports unresolved placeholders sorted and deduplicated", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render("{z} {a} {z} {a}", nil)
		require.Equal(t, "{z} {a} {z} {a}", rendered)
		require.Equal(t, []string{"a", "z"}, unresolved)
	})

	t.Run("coerces non-string values", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render("{count} {score} {active} {missing_value}", map[string]any{
			"count":         7,
			"score":         99.5,
			"active":        true,
			"missing_value": nil,
		})
		require.Equal(t, "7 99.5 true ", rendered)
		require.Empty(t, unresolved)
	})

	t.Run("substitution is literal and non-recursive", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render("{outer}", map[string]any{"outer": "{inner}"})
		require.Equal(t, "{inner}", rendered)
		require.Equal(t, []string{"inner"}, unresolved)
	})

	t.Run("a token inside a substituted value is never expanded", func(t *testing.T) {
		t.Parallel()

		// Both keys present: single-pass substitution must leave the carried
		// token literal regardless of map iteration order.
		data := map[string]any{"outer": "{inner}", "inner": "LEAK"}
		for i := 0; i < 100; i++ {
			rendered, unresolved := Render("{outer}", data)
			require.Equal(t, "{inner}", rendered)
			require.Equal(t, []string{"inner"}, unresolved)
		}
	})

	t.Run("re-rendering fully rendered output is a no-op", func(t *testing.T) {
		t.Parallel()

		data := map[string]any{"name": "Ada", "company": "Example Corp"}
		first, unresolved := Render("Hi {name} of {company}", data)
		require.Empty(t, unresolved)

		second, unresolved := Render(first, data)
		require.Equal(t, first, second)
		require.Empty(t, unresolved)
	})

	t.Run("ignores brace text that is not a placeholder", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render(`{"json": true} {not valid}`, map[string]any{"name": "x"})
		require.Equal(t, `{"json": true} {not valid}`, rendered)
		require.Empty(t, unresolved)
	})

	t.Run("extra data keys are ignored", func(t *testing.T) {
		t.Parallel()

		rendered, unresolved := Render("plain text", map[string]any{"unused": "v"})
		require.Equal(t, "plain text", rendered)
		require.Empty(t, unresolved)
	})
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	tmpl := &core.Template{
		Name:     "welcome",
		Subject:  "Welcome to {company}",
		HTMLBody: "<p>Hello {name}, welcome to {company}.</p>",
	}

	t.Run("request subject overrides template subject", func(t *testing.T) {
		t.Parallel()

		msg := RenderTemplate(tmpl, "Hello {name}", map[string]any{
			"name":    "Ada",
			"company": "Example Corp",
		})
		require.Equal(t, "Hello Ada", msg.Subject)
		require.Equal(t, "<p>Hello Ada, welcome to Example Corp.</p>", msg.HTMLBody)
		require.Empty(t, msg.Unresolved)
	})

	t.Run("blank subject falls back to the template subject", func(t *testing.T) {
		t.Parallel()

		msg := RenderTemplate(tmpl, "  ", map[string]any{
			"name":    "Ada",
			"company": "Example Corp",
		})
		require.Equal(t, "Welcome to Example Corp", msg.Subject)
	})

	t.Run("merges unresolved names from subject and body", func(t *testing.T) {
		t.Parallel()

		msg := RenderTemplate(tmpl, "For {position}", map[string]any{})
		require.Equal(t, []string{"company", "name", "position"}, msg.Unresolved)
	})
}
