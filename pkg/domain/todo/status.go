package todo

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a todo item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusCompleted  Status = "completed"
)

// validTransitions defines the allowed state transitions and their events.
// Map: currentStatus -> event -> targetStatus
var validTransitions = map[Status]map[string]Status{
	StatusPending: {
		"start": StatusInProgress,
		"block": StatusBlocked,
	},
	StatusInProgress: {
		"complete": StatusCompleted,
		"block":    StatusBlocked,
		"stop":     StatusPending,
	},
	StatusBlocked: {
		"unblock": StatusInProgress,
	},
	// StatusCompleted is terminal.
}

// AllStatuses returns all valid todo statuses.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusBlocked,
		StatusCompleted,
	}
}

// IsValid returns true if the status is a valid todo status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo returns true if a transition from the current status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	transitions, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, t := range transitions {
		if t == target {
			return true
		}
	}
	return false
}

// CanTransitionWith returns true if the given event can trigger a transition from this status.
func (s Status) CanTransitionWith(event string) bool {
	transitions, ok := validTransitions[s]
	if !ok {
		return false
	}

	_, ok = transitions[event]
	return ok
}

// TransitionWith returns the target status for a given event, or an error if not allowed.
func (s Status) TransitionWith(event string) (Status, error) {
	transitions, ok := validTransitions[s]
	if !ok {
		return s, fmt.Errorf("no transitions defined for status: %s", s)
	}

	target, ok := transitions[event]
	if !ok {
		return s, fmt.Errorf("event '%s' not allowed from status '%s'", event, s)
	}

	return target, nil
}

// ValidEvents returns all valid events that can be triggered from this status.
func (s Status) ValidEvents() []string {
	transitions, ok := validTransitions[s]
	if !ok {
		return nil
	}

	var events []string
	for event := range transitions {
		events = append(events, event)
	}
	return events
}

// IsFinal returns true if this is a terminal status (no further transitions).
func (s Status) IsFinal() bool {
	return s == StatusCompleted
}

// IsComplete returns true if the todo item is finished.
func (s Status) IsComplete() bool {
	return s == StatusCompleted
}

// IsBlocked returns true if the todo item is blocked.
func (s Status) IsBlocked() bool {
	return s == StatusBlocked
}

// IsPending returns true if the todo item hasn't started yet.
func (s Status) IsPending() bool {
	return s == StatusPending
}

// DisplayName returns a human-readable display name for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid todo status: %s", s)
	}
	return status, nil
}

// MustParseStatus parses a string into a Status, panicking on error.
func MustParseStatus(s string) Status {
	status, err := ParseStatus(s)
	if err != nil {
		panic(err)
	}
	return status
}

// MarshalJSON implements json.Marshaler interface.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// Accept empty string as pending for backward compatibility
	if str == "" {
		*s = StatusPending
		return nil
	}

	status := Status(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid todo status: %s", str)
	}

	*s = status
	return nil
}
