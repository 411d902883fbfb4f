package mail

import (
	"html"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/models"
)

func TestInquiryNotificationEscapesInput(t *testing.T) {
	phone := "+251 94 972 7279"
	msg, err := InquiryNotification(models.Inquiry{
		Name:    "<b>Abebe</b>",
		Email:   "abebe@example.com",
		Phone:   &phone,
		Message: "line one\nline <script>two</script>",
	}, "owner@example.com")
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "abebe@example.com", msg.ReplyTo)
	assert.Equal(t, "New Inquiry from <b>Abebe</b>", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Abebe&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "line one<br>line &lt;script&gt;two&lt;/script&gt;")
	assert.Contains(t, msg.HTML, "&#43;251 94 972 7279")
	assert.Contains(t, html.UnescapeString(msg.HTML), "<strong>Phone:</strong> +251 94 972 7279")
	assert.Contains(t, msg.HTML, "<strong>Project Type:</strong> N/A")
}

func TestPasswordResetContainsLink(t *testing.T) {
	msg, err := PasswordReset("admin@example.com", "https://example.com/reset-password.html?token=abc_-1", "1 hour")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", msg.To)
	assert.Contains(t, msg.HTML, `href="https://example.com/reset-password.html?token=abc_-1"`)
	assert.Contains(t, msg.HTML, "expires in 1 hour")
}
