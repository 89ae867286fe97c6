package channels

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/workintel/workintel/pkg/domain/notify"
)

// EmailAdapter sends notifications over SMTP. Options: host, port, from,
// username, password. Auth is skipped when no username is set, which covers
// local relays.
type EmailAdapter struct {
	config notify.AdapterConfig
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailAdapter(config notify.AdapterConfig) *EmailAdapter {
	return &EmailAdapter{
		config: config,
		send:   smtp.SendMail,
	}
}

func (a *EmailAdapter) Name() string            { return a.config.Name }
func (a *EmailAdapter) Channel() notify.Channel { return notify.ChannelEmail }

func (a *EmailAdapter) Send(ctx context.Context, contact notify.ContactInfo, msg notify.Message) error {
	if contact.Email == "" {
		return fmt.Errorf("contact has no email address")
	}

	host := a.config.Options["host"]
	port := a.config.Options["port"]
	from := a.config.Options["from"]
	if host == "" || from == "" {
		return fmt.Errorf("email adapter requires host and from options")
	}
	if port == "" {
		port = "587"
	}

	var auth smtp.Auth
	if username := a.config.Options["username"]; username != "" {
		auth = smtp.PlainAuth("", username, a.config.Options["password"], host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", contact.Email)
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", strings.ToUpper(string(msg.Severity)), msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	if msg.ActionURL != "" {
		fmt.Fprintf(&b, "\r\n\r\nDetails: %s", msg.ActionURL)
	}
	b.WriteString("\r\n")

	if err := a.send(host+":"+port, auth, from, []string{contact.Email}, []byte(b.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", contact.Email, err)
	}
	return nil
}
