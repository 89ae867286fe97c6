package channels

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/workintel/workintel/pkg/domain/notify"
)

const smsMaxLength = 160

// SMSAdapter posts plain-text messages to an HTTP SMS gateway. The channel
// is reserved for critical notifications, so the payload is a single short
// line with no link.
type SMSAdapter struct {
	config notify.AdapterConfig
	client *http.Client
}

func NewSMSAdapter(config notify.AdapterConfig) *SMSAdapter {
	return &SMSAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *SMSAdapter) Name() string            { return a.config.Name }
func (a *SMSAdapter) Channel() notify.Channel { return notify.ChannelSMS }

func (a *SMSAdapter) Send(ctx context.Context, contact notify.ContactInfo, msg notify.Message) error {
	if contact.Phone == "" {
		return fmt.Errorf("contact has no phone number")
	}
	if a.config.URL == "" {
		return fmt.Errorf("no sms gateway configured")
	}

	text := formatSMSText(msg)

	form := url.Values{}
	form.Set("to", contact.Phone)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if a.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.config.Token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", contact.Phone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// formatSMSText flattens the message to one plain line. Links and markup
// never survive the SMS channel.
func formatSMSText(msg notify.Message) string {
	text := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(msg.Severity)), msg.Subject, msg.Body)
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > smsMaxLength {
		text = text[:smsMaxLength-3] + "..."
	}
	return text
}
