package notify

import "context"

// Message is the channel-agnostic payload handed to adapters. Each adapter
// enforces its own format constraints (SMS strips URLs and is plain text).
type Message struct {
	Subject   string
	Body      string
	Severity  Severity
	ActionURL string
}

// ChannelAdapter sends a message to one recipient over one channel.
type ChannelAdapter interface {
	Send(ctx context.Context, contact ContactInfo, msg Message) error
	Channel() Channel
	Name() string
}

// AdapterConfig defines configuration for a channel adapter.
type AdapterConfig struct {
	Name    string            `yaml:"name" json:"name"`
	Channel Channel           `yaml:"channel" json:"channel"`
	URL     string            `yaml:"url,omitempty" json:"url,omitempty"`
	Token   string            `yaml:"token,omitempty" json:"token,omitempty"`
	Enabled bool              `yaml:"enabled" json:"enabled"`
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// ChannelConfig holds all configured channel adapters.
type ChannelConfig struct {
	Adapters []AdapterConfig `yaml:"adapters" json:"adapters"`
}
