package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/workintel/workintel/pkg/domain/notify"
)

// TeamsAdapter posts a MessageCard to a Microsoft Teams incoming webhook.
// The webhook URL comes from the stakeholder's contact info, falling back to
// the adapter's configured URL.
type TeamsAdapter struct {
	config notify.AdapterConfig
	client *http.Client
}

func NewTeamsAdapter(config notify.AdapterConfig) *TeamsAdapter {
	return &TeamsAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *TeamsAdapter) Name() string            { return a.config.Name }
func (a *TeamsAdapter) Channel() notify.Channel { return notify.ChannelTeams }

func (a *TeamsAdapter) Send(ctx context.Context, contact notify.ContactInfo, msg notify.Message) error {
	url := contact.TeamsWebhook
	if url == "" {
		url = a.config.URL
	}
	if url == "" {
		return fmt.Errorf("no teams webhook configured")
	}

	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "https://schema.org/extensions",
		"title":      msg.Subject,
		"text":       msg.Body,
		"themeColor": severityColor(msg.Severity),
	}
	if msg.ActionURL != "" {
		payload["potentialAction"] = []map[string]interface{}{
			{
				"@type":   "OpenUri",
				"name":    "View details",
				"targets": []map[string]string{{"os": "default", "uri": msg.ActionURL}},
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal teams payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to teams: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("teams returned status %d", resp.StatusCode)
	}

	return nil
}

func severityColor(severity notify.Severity) string {
	switch severity {
	case notify.SeverityCritical:
		return "d93f0b"
	case notify.SeverityHigh:
		return "e99695"
	case notify.SeverityMedium:
		return "fbca04"
	default:
		return "0e8a16"
	}
}
