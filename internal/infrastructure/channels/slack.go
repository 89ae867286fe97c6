// Package channels provides the delivery adapters the notification
// orchestrator fans out to.
package channels

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/workintel/workintel/pkg/domain/notify"
)

// slackClient is the subset of the Slack API the adapter needs.
type slackClient interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackAdapter delivers notifications as direct messages through the Slack
// Web API.
type SlackAdapter struct {
	config notify.AdapterConfig
	api    slackClient
}

func NewSlackAdapter(config notify.AdapterConfig) *SlackAdapter {
	return &SlackAdapter{
		config: config,
		api:    slack.New(config.Token),
	}
}

func (a *SlackAdapter) Name() string            { return a.config.Name }
func (a *SlackAdapter) Channel() notify.Channel { return notify.ChannelSlack }

func (a *SlackAdapter) Send(ctx context.Context, contact notify.ContactInfo, msg notify.Message) error {
	if contact.SlackUserID == "" {
		return fmt.Errorf("contact has no slack user id")
	}

	channel, _, _, err := a.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{contact.SlackUserID},
	})
	if err != nil {
		return fmt.Errorf("open conversation with %s: %w", contact.SlackUserID, err)
	}

	text := formatSlackText(msg)
	if _, _, err := a.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("post message to %s: %w", contact.SlackUserID, err)
	}

	return nil
}

func formatSlackText(msg notify.Message) string {
	text := fmt.Sprintf("%s *%s*\n%s", severityEmoji(msg.Severity), msg.Subject, msg.Body)
	if msg.ActionURL != "" {
		text += fmt.Sprintf("\n<%s|View details>", msg.ActionURL)
	}
	return text
}

func severityEmoji(severity notify.Severity) string {
	switch severity {
	case notify.SeverityCritical:
		return ":rotating_light:"
	case notify.SeverityHigh:
		return ":warning:"
	case notify.SeverityMedium:
		return ":bell:"
	default:
		return ":information_source:"
	}
}
