package notify

// DetermineChannels selects delivery channels for a stakeholder. Preferred
// channels come from the resolved preferences when present; otherwise the
// severity policy's default channel set applies. The fallback is
// deterministic: it never depends on anything but the severity.
//
// SMS is reserved for critical urgency: it is filtered out of the selection
// for every other severity even when explicitly preferred.
func DetermineChannels(stakeholder Stakeholder, severity Severity, prefs *Preferences) []Channel {
	var selected []Channel
	if prefs != nil && len(prefs.Channels) > 0 {
		selected = append([]Channel(nil), prefs.Channels...)
	} else if len(stakeholder.Preferences.Channels) > 0 {
		selected = append([]Channel(nil), stakeholder.Preferences.Channels...)
	} else {
		selected = append([]Channel(nil), PolicyFor(severity).DefaultChannels...)
	}

	out := selected[:0]
	for _, ch := range selected {
		if !ch.IsValid() {
			continue
		}
		if ch == ChannelSMS && severity != SeverityCritical {
			continue
		}
		out = append(out, ch)
	}

	if len(out) == 0 {
		// Never leave a stakeholder unreachable: fall back to the severity
		// defaults minus SMS restrictions.
		for _, ch := range PolicyFor(severity).DefaultChannels {
			if ch == ChannelSMS && severity != SeverityCritical {
				continue
			}
			out = append(out, ch)
		}
	}

	return out
}
