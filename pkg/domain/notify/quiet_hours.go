package notify

import (
	"fmt"
	"time"
)

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

// IsInQuietHours reports whether now falls within the window
// [start, end), evaluated in the window's configured timezone. Windows that
// wrap past midnight (22:00-08:00) are valid. Unconfigured or malformed
// windows never suppress anything.
func IsInQuietHours(q *QuietHours, now time.Time) bool {
	if q == nil || q.IsZero() {
		return false
	}

	loc := time.UTC
	if q.Timezone != "" {
		parsed, err := time.LoadLocation(q.Timezone)
		if err == nil {
			loc = parsed
		}
	}

	start, err := parseClock(q.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(q.End)
	if err != nil {
		return false
	}
	if start == end {
		return false
	}

	local := now.In(loc)
	minute := local.Hour()*60 + local.Minute()

	if start < end {
		return minute >= start && minute < end
	}
	// Wrapping window: in the window when at/after start OR before end.
	return minute >= start || minute < end
}

// SuppressedByQuietHours applies the severity policy to the quiet-hours
// window: critical notifications bypass quiet hours, everything else is
// delayed while the window is active.
func SuppressedByQuietHours(prefs *Preferences, severity Severity, now time.Time) bool {
	if prefs == nil || prefs.QuietHours == nil {
		return false
	}
	if PolicyFor(severity).BypassesQuietHour {
		return false
	}
	return IsInQuietHours(prefs.QuietHours, now)
}
