// Package notify models notification preferences, severity policy, and the
// request/result shapes consumed by the notification orchestrator.
package notify

import "time"

// Severity classifies an event driving channel selection and quiet-hours
// bypass.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AllSeverities returns severities from lowest to highest.
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// IsValid returns true for a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelSlack Channel = "slack"
	ChannelTeams Channel = "teams"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// IsValid returns true for a known channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelSlack, ChannelTeams, ChannelEmail, ChannelSMS:
		return true
	default:
		return false
	}
}

// SeverityPolicy is the single severity-to-policy table every dispatch path
// consults. Policy is never re-derived ad hoc per event type.
type SeverityPolicy struct {
	DefaultChannels   []Channel
	BypassesQuietHour bool
	EscalationDelay   time.Duration
}

var severityPolicies = map[Severity]SeverityPolicy{
	SeverityLow: {
		DefaultChannels:   []Channel{ChannelSlack},
		BypassesQuietHour: false,
		EscalationDelay:   0, // low severity never escalates
	},
	SeverityMedium: {
		DefaultChannels:   []Channel{ChannelSlack, ChannelEmail},
		BypassesQuietHour: false,
		EscalationDelay:   4 * time.Hour,
	},
	SeverityHigh: {
		DefaultChannels:   []Channel{ChannelSlack, ChannelEmail},
		BypassesQuietHour: false,
		EscalationDelay:   time.Hour,
	},
	SeverityCritical: {
		DefaultChannels:   []Channel{ChannelSlack, ChannelEmail, ChannelSMS},
		BypassesQuietHour: true,
		EscalationDelay:   15 * time.Minute,
	},
}

// PolicyFor returns the policy for a severity. Unknown severities get the
// medium policy, so a malformed event still reaches someone.
func PolicyFor(severity Severity) SeverityPolicy {
	if p, ok := severityPolicies[severity]; ok {
		return p
	}
	return severityPolicies[SeverityMedium]
}
