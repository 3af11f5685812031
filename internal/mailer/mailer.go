// Package mailer turns queued mail messages into e-mails and delivers them over SMTP.
package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

// ErrUnknownType is returned for a mail type without a template.
var ErrUnknownType = errors.New("unsupported mail type")

var subjects = map[string]string{
	domain.MailTypeWelcome:                  "Welcome to Job Board",
	domain.MailTypeApplicationReceived:      "Job Board - New application",
	domain.MailTypeApplicationStatusChanged: "Job Board - Application update",
}

// Sender delivers messages; *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Mailer struct {
	from      string
	templates *template.Template
	sender    Sender
}

// New parses every *.html template in fsys. Templates are looked up by mail type.
func New(from string, fsys fs.FS, sender Sender) (*Mailer, error) {
	tmpl, err := template.ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	for typ := range subjects {
		if tmpl.Lookup(typ+".html") == nil {
			return nil, fmt.Errorf("missing template for %s", typ)
		}
	}

	return &Mailer{
		from:      from,
		templates: tmpl,
		sender:    sender,
	}, nil
}

// Build renders msg into an e-mail ready to send.
func (m *Mailer) Build(msg domain.MailMessage) (*mail.Msg, error) {
	subject, ok := subjects[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}

	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	out.Subject(subject)

	data, err := templateData(msg.Data)
	if err != nil {
		return nil, err
	}
	if err := out.SetBodyHTMLTemplate(m.templates.Lookup(msg.Type+".html"), data); err != nil {
		return nil, fmt.Errorf("render %s: %w", msg.Type, err)
	}

	return out, nil
}

// templateData reshapes data into the JSON object a queued message decodes to, so templates
// only ever see JSON field names.
func templateData(data any) (map[string]any, error) {
	if m, ok := data.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode mail data: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("mail data is not an object: %w", err)
	}
	return out, nil
}

// Handle processes one delivery. Undecodable or unbuildable messages are dropped,
// a failed send is requeued, everything else is acknowledged.
func (m *Mailer) Handle(ctx context.Context, d amqp.Delivery) {
	var msg domain.MailMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.Error("failed to decode mail message", "error", err)
		_ = d.Nack(false, false)
		return
	}

	out, err := m.Build(msg)
	if err != nil {
		slog.Error("failed to build mail", "type", msg.Type, "to", msg.To, "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := m.sender.DialAndSendWithContext(ctx, out); err != nil {
		slog.Error("failed to send mail", "type", msg.Type, "to", msg.To, "error", err)
		_ = d.Nack(false, true)
		return
	}

	slog.Info("mail sent", "type", msg.Type, "to", msg.To)
	_ = d.Ack(false)
}

// Run handles deliveries until ctx is done or the channel closes.
func (m *Mailer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				slog.Warn("delivery channel closed")
				return
			}
			m.Handle(ctx, d)
		}
	}
}
