package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpamTriggers(t *testing.T) {
	t.Parallel()

	t.Run("finds triggers across subject and content", func(t *testing.T) {
		t.Parallel()

		found := SpamTriggers("Act now for a free trial", "This urgent offer expires soon")
		require.Contains(t, found, "act now")
		require.Contains(t, found, "free")
		require.Contains(t, found, "urgent")
		require.Contains(t, found, "offer")
	})

	t.Run("matches whole words only", func(t *testing.T) {
		t.Parallel()

		found := SpamTriggers("Freedom of movement", "Cashier positions available")
		require.Empty(t, found)
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		t.Parallel()

		found := SpamTriggers("CONGRATULATIONS you are a WINNER", "")
		require.Contains(t, found, "congratulations")
		require.Contains(t, found, "winner")
	})

	t.Run("clean content yields no triggers", func(t *testing.T) {
		t.Parallel()

		found := SpamTriggers("Application for Platform Engineer", "I am writing to apply for the role.")
		require.Empty(t, found)
	})
}

func TestNameFromAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		first string
		last  string
	}{
		{"jane.doe@example.com", "Jane", "Doe"},
		{"jane_doe@example.com", "Jane", "Doe"},
		{"jane-doe@example.com", "Jane", "Doe"},
		{"jane@example.com", "Jane", ""},
		{"not-an-email", "", ""},
	}

	for _, tc := range tests {
		first, last := NameFromAddress(tc.email)
		require.Equal(t, tc.first, first, tc.email)
		require.Equal(t, tc.last, last, tc.email)
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()

	t.Run("builds a block from the profile fields", func(t *testing.T) {
		t.Parallel()

		sig := Signature(SenderProfile{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane.doe@example.com",
			Phone:       "555-0100",
			LinkedInURL: "https://linkedin.com/in/janedoe",
		})
		require.Equal(t, "<p>Best regards,<br>Jane Doe<br>jane.doe@example.com<br>555-0100<br>"+
			"<a href='https://linkedin.com/in/janedoe'>LinkedIn Profile</a><br></p>", sig)
	})

	t.Run("omits empty fields", func(t *testing.T) {
		t.Parallel()

		sig := Signature(SenderProfile{FirstName: "Jane", Email: "jane@example.com"})
		require.Equal(t, "<p>Best regards,<br>jane@example.com<br></p>", sig)
	})

	t.Run("custom html overrides generation", func(t *testing.T) {
		t.Parallel()

		custom := "<p>-- Jane</p>"
		sig := Signature(SenderProfile{FirstName: "Jane", LastName: "Doe", SignatureHTML: custom})
		require.Equal(t, custom, sig)
	})
}

func TestFollowUpSubject(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Following up: Application for SRE", FollowUpSubject("Application for SRE"))
	require.Equal(t, "Re: Application for SRE", FollowUpSubject("Re: Application for SRE"))
	require.Equal(t, "re: hello", FollowUpSubject("re: hello"))
	require.Equal(t, "Following up on my application", FollowUpSubject("Following up on my application"))
	require.Equal(t, "Follow-up: interview", FollowUpSubject("Follow-up: interview"))
}
