// Package mail sends transactional email through Mailgun.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type Mailgun struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := m.mg.NewMessage(m.from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if _, _, err := m.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}

// Log records messages instead of sending them. Used when Mailgun is not configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(_ context.Context, msg Message) error {
	l.Logger.Info("mail_skipped", "to", msg.To, "subject", msg.Subject)
	return nil
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<div>
  <h2>Thank you for your order</h2>
  <h4>Your Transaction Id: <strong>{{.TransactionID}}</strong></h4>
  <p>Total paid: {{printf "%.2f" .Amount}}</p>
  <p>We would like to get your feedback about the food.</p>
</div>`))

// OrderConfirmation builds the message sent after a payment is recorded.
func OrderConfirmation(to, transactionID string, amount float64) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		TransactionID string
		Amount        float64
	}{transactionID, amount}
	if err := confirmationHTML.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}
	return Message{
		To:      to,
		Subject: "Magical Meals Order Confirmation",
		Text:    fmt.Sprintf("Thank you for your order. Transaction id: %s", transactionID),
		HTML:    buf.String(),
	}, nil
}
