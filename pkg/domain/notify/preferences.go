package notify

import "time"

// QuietHours is a configured window during which non-critical notifications
// are suppressed or delayed. The window may wrap past midnight
// (e.g. 22:00-08:00).
type QuietHours struct {
	Start    string `json:"start" yaml:"start"` // "HH:MM"
	End      string `json:"end" yaml:"end"`     // "HH:MM"
	Timezone string `json:"timezone" yaml:"timezone"`
}

// IsZero reports whether quiet hours are unconfigured.
func (q QuietHours) IsZero() bool {
	return q.Start == "" && q.End == ""
}

// Preferences holds per user/team notification settings. Read-only
// snapshots during dispatch; the orchestrator never mutates them.
type Preferences struct {
	OwnerID               string            `json:"owner_id" yaml:"owner_id"`
	Channels              []Channel         `json:"channels,omitempty" yaml:"channels,omitempty"`
	SeverityThresholds    map[Severity]bool `json:"severity_thresholds,omitempty" yaml:"severity_thresholds,omitempty"`
	QuietHours            *QuietHours       `json:"quiet_hours,omitempty" yaml:"quiet_hours,omitempty"`
	EscalationDelayMinute int               `json:"escalation_delay_minutes,omitempty" yaml:"escalation_delay_minutes,omitempty"`
	UpdatedAt             time.Time         `json:"updated_at" yaml:"updated_at"`
}

// DefaultPreferences returns the system defaults applied before a user or
// team has configured anything: every severity enabled, no quiet hours, and
// channel selection deferred to the severity policy table.
func DefaultPreferences(ownerID string) *Preferences {
	thresholds := make(map[Severity]bool, 4)
	for _, s := range AllSeverities() {
		thresholds[s] = true
	}
	return &Preferences{
		OwnerID:            ownerID,
		SeverityThresholds: thresholds,
	}
}

// SeverityEnabled reports whether the owner accepts events of the given
// severity. A severity missing from the map is enabled; only an explicit
// false disables it.
func (p *Preferences) SeverityEnabled(severity Severity) bool {
	if p == nil || p.SeverityThresholds == nil {
		return true
	}
	enabled, ok := p.SeverityThresholds[severity]
	if !ok {
		return true
	}
	return enabled
}

// ResolvePreferences merges an explicit preference record over a
// stakeholder's defaults. Explicit per-user preferences win field by field;
// nil explicit preferences leave the defaults untouched. Pure function over
// snapshots: neither input is mutated.
func ResolvePreferences(defaults, explicit *Preferences) *Preferences {
	if defaults == nil && explicit == nil {
		return DefaultPreferences("")
	}
	if explicit == nil {
		return clonePreferences(defaults)
	}
	if defaults == nil {
		return clonePreferences(explicit)
	}

	merged := clonePreferences(defaults)
	merged.OwnerID = explicit.OwnerID
	if len(explicit.Channels) > 0 {
		merged.Channels = append([]Channel(nil), explicit.Channels...)
	}
	if explicit.SeverityThresholds != nil {
		if merged.SeverityThresholds == nil {
			merged.SeverityThresholds = make(map[Severity]bool, len(explicit.SeverityThresholds))
		}
		for s, enabled := range explicit.SeverityThresholds {
			merged.SeverityThresholds[s] = enabled
		}
	}
	if explicit.QuietHours != nil {
		qh := *explicit.QuietHours
		merged.QuietHours = &qh
	}
	if explicit.EscalationDelayMinute > 0 {
		merged.EscalationDelayMinute = explicit.EscalationDelayMinute
	}
	return merged
}

func clonePreferences(p *Preferences) *Preferences {
	if p == nil {
		return nil
	}
	out := &Preferences{
		OwnerID:               p.OwnerID,
		EscalationDelayMinute: p.EscalationDelayMinute,
		UpdatedAt:             p.UpdatedAt,
	}
	if len(p.Channels) > 0 {
		out.Channels = append([]Channel(nil), p.Channels...)
	}
	if p.SeverityThresholds != nil {
		out.SeverityThresholds = make(map[Severity]bool, len(p.SeverityThresholds))
		for s, enabled := range p.SeverityThresholds {
			out.SeverityThresholds[s] = enabled
		}
	}
	if p.QuietHours != nil {
		qh := *p.QuietHours
		out.QuietHours = &qh
	}
	return out
}
