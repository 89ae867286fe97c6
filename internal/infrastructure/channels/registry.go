package channels

import (
	"fmt"

	"github.com/workintel/workintel/pkg/domain/notify"
)

// NewAdapters creates channel adapters from configuration. Disabled entries
// are skipped.
func NewAdapters(config *notify.ChannelConfig) ([]notify.ChannelAdapter, error) {
	if config == nil {
		return nil, nil
	}

	var adapters []notify.ChannelAdapter
	for _, cfg := range config.Adapters {
		if !cfg.Enabled {
			continue
		}

		adapter, err := createAdapter(cfg)
		if err != nil {
			return nil, fmt.Errorf("create adapter %q: %w", cfg.Name, err)
		}
		adapters = append(adapters, adapter)
	}

	return adapters, nil
}

func createAdapter(cfg notify.AdapterConfig) (notify.ChannelAdapter, error) {
	switch cfg.Channel {
	case notify.ChannelSlack:
		return NewSlackAdapter(cfg), nil
	case notify.ChannelTeams:
		return NewTeamsAdapter(cfg), nil
	case notify.ChannelEmail:
		return NewEmailAdapter(cfg), nil
	case notify.ChannelSMS:
		return NewSMSAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown channel: %s", cfg.Channel)
	}
}
