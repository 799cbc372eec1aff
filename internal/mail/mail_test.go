package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderConfirmation(t *testing.T) {
	m, err := OrderConfirmation("me@meals.test", "trx-42", 19.5)
	require.NoError(t, err)

	assert.Equal(t, "me@meals.test", m.To)
	assert.Contains(t, m.Subject, "Order Confirmation")
	assert.Contains(t, m.Text, "trx-42")
	assert.Contains(t, m.HTML, "<strong>trx-42</strong>")
	assert.Contains(t, m.HTML, "19.50")
}

func TestOrderConfirmation_EscapesTransactionID(t *testing.T) {
	m, err := OrderConfirmation("me@meals.test", "<script>x</script>", 1)
	require.NoError(t, err)
	assert.NotContains(t, m.HTML, "<script>")
	assert.Contains(t, m.HTML, "&lt;script&gt;")
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	require.NoError(t, l.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
	assert.Contains(t, buf.String(), `"msg":"mail_skipped"`)
	assert.Contains(t, buf.String(), `"to":"a@b.c"`)
}
