package notify_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain/notify"
)

func TestSeverityEnabled(t *testing.T) {
	prefs := &notify.Preferences{
		SeverityThresholds: map[notify.Severity]bool{
			notify.SeverityLow:  false,
			notify.SeverityHigh: true,
		},
	}

	// 1. Explicit false disables.
	if prefs.SeverityEnabled(notify.SeverityLow) {
		t.Error("expected low to be disabled")
	}

	// 2. Explicit true and missing keys are enabled.
	if !prefs.SeverityEnabled(notify.SeverityHigh) {
		t.Error("expected high to be enabled")
	}
	if !prefs.SeverityEnabled(notify.SeverityCritical) {
		t.Error("expected missing severity to default to enabled")
	}

	// 3. Nil preferences and nil maps enable everything.
	var missing *notify.Preferences
	if !missing.SeverityEnabled(notify.SeverityLow) {
		t.Error("expected nil preferences to enable everything")
	}
	if !(&notify.Preferences{}).SeverityEnabled(notify.SeverityLow) {
		t.Error("expected nil threshold map to enable everything")
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := notify.DefaultPreferences("user-1")

	if prefs.OwnerID != "user-1" {
		t.Errorf("OwnerID = %q", prefs.OwnerID)
	}
	for _, s := range notify.AllSeverities() {
		if !prefs.SeverityEnabled(s) {
			t.Errorf("expected %s enabled by default", s)
		}
	}
	if prefs.QuietHours != nil {
		t.Error("expected no default quiet hours")
	}
}

func TestResolvePreferences(t *testing.T) {
	defaults := &notify.Preferences{
		OwnerID:  "team-a",
		Channels: []notify.Channel{notify.ChannelSlack},
		SeverityThresholds: map[notify.Severity]bool{
			notify.SeverityLow:    true,
			notify.SeverityMedium: true,
		},
		EscalationDelayMinute: 60,
	}
	explicit := &notify.Preferences{
		OwnerID:  "user-1",
		Channels: []notify.Channel{notify.ChannelEmail},
		SeverityThresholds: map[notify.Severity]bool{
			notify.SeverityLow: false,
		},
		QuietHours: &notify.QuietHours{Start: "22:00", End: "08:00"},
	}

	merged := notify.ResolvePreferences(defaults, explicit)

	// 1. Explicit fields win.
	if merged.OwnerID != "user-1" {
		t.Errorf("OwnerID = %q", merged.OwnerID)
	}
	if len(merged.Channels) != 1 || merged.Channels[0] != notify.ChannelEmail {
		t.Errorf("Channels = %v", merged.Channels)
	}
	if merged.SeverityEnabled(notify.SeverityLow) {
		t.Error("expected explicit low=false to win")
	}
	if merged.QuietHours == nil || merged.QuietHours.Start != "22:00" {
		t.Errorf("QuietHours = %+v", merged.QuietHours)
	}

	// 2. Unset explicit fields keep the defaults.
	if !merged.SeverityEnabled(notify.SeverityMedium) {
		t.Error("expected medium kept from defaults")
	}
	if merged.EscalationDelayMinute != 60 {
		t.Errorf("EscalationDelayMinute = %d", merged.EscalationDelayMinute)
	}

	// 3. Inputs are untouched.
	if !defaults.SeverityEnabled(notify.SeverityLow) {
		t.Error("merge mutated the defaults")
	}
	if defaults.QuietHours != nil {
		t.Error("merge attached quiet hours to the defaults")
	}
}

func TestResolvePreferencesNilInputs(t *testing.T) {
	explicit := &notify.Preferences{OwnerID: "user-1"}

	if got := notify.ResolvePreferences(nil, explicit); got.OwnerID != "user-1" {
		t.Errorf("nil defaults: OwnerID = %q", got.OwnerID)
	}
	if got := notify.ResolvePreferences(explicit, nil); got.OwnerID != "user-1" {
		t.Errorf("nil explicit: OwnerID = %q", got.OwnerID)
	}
	if got := notify.ResolvePreferences(nil, nil); got == nil {
		t.Error("expected defaults for nil inputs")
	}
}

func TestNewNotificationID(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	id := notify.NewNotificationID(now)
	if !strings.HasPrefix(id, "notif-") {
		t.Errorf("unexpected prefix: %q", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected notif-<timestamp>-<random>, got %q", id)
	}
	if parts[1] != strconv.FormatInt(now.UnixMilli(), 10) {
		t.Errorf("unexpected timestamp segment: %q", parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("expected 8 hex chars, got %q", parts[2])
	}

	if notify.NewNotificationID(now) == id {
		t.Error("expected distinct ids for repeated calls")
	}
}

func TestUrgencyForTrigger(t *testing.T) {
	tests := []struct {
		trigger  notify.TriggerKind
		critical bool
		want     notify.Severity
	}{
		{notify.TriggerDelayedTask, false, notify.SeverityHigh},
		{notify.TriggerDelayedTask, true, notify.SeverityCritical},
		{notify.TriggerQualityCheck, false, notify.SeverityHigh},
		{notify.TriggerQualityCheck, true, notify.SeverityCritical},
		{notify.TriggerProgressMilestone, false, notify.SeverityLow},
		{notify.TriggerProgressMilestone, true, notify.SeverityLow},
		{notify.TriggerStatusChanged, false, notify.SeverityMedium},
		{notify.TriggerKind("unknown"), false, notify.SeverityMedium},
	}

	for _, tt := range tests {
		if got := notify.UrgencyForTrigger(tt.trigger, tt.critical); got != tt.want {
			t.Errorf("UrgencyForTrigger(%s, %v) = %s, want %s", tt.trigger, tt.critical, got, tt.want)
		}
	}
}
