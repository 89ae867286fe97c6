package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

// ErrInvalidRange is the caller-input error for malformed report ranges.
var ErrInvalidRange = errors.New("invalid report range")

// MaxReportRange bounds how far a single report may span.
const MaxReportRange = 365 * 24 * time.Hour

// Range bounds a progress report.
type Range struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Validate rejects ranges where start >= end or spanning more than 365 days.
func (r Range) Validate() error {
	if !r.StartDate.Before(r.EndDate) {
		return fmt.Errorf("%w: start_date must be before end_date", ErrInvalidRange)
	}
	if r.EndDate.Sub(r.StartDate) > MaxReportRange {
		return fmt.Errorf("%w: range exceeds 365 days", ErrInvalidRange)
	}
	return nil
}

// Contains reports whether t falls within [start, end].
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.StartDate) && !t.After(r.EndDate)
}

// Report is a time-scoped progress view: completed and blocked item lists
// restricted to state changes observed within the range, plus a summary
// scoped to the period.
type Report struct {
	TaskID         string       `json:"task_id"`
	Range          Range        `json:"range"`
	CompletedItems []*todo.Item `json:"completed_items"`
	BlockedItems   []*todo.Item `json:"blocked_items"`
	Summary        *Summary     `json:"summary"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// BuildReport produces the period report. Malformed ranges return
// ErrInvalidRange, the same caller-input error Validate reports.
func BuildReport(taskID string, items []*todo.Item, r Range, now time.Time) (*Report, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		TaskID:      taskID,
		Range:       r,
		GeneratedAt: now,
	}

	var inPeriod []*todo.Item
	for _, item := range items {
		changed := item.StatusChangedAt
		if changed.IsZero() {
			changed = item.UpdatedAt
		}
		if !r.Contains(changed) {
			continue
		}
		inPeriod = append(inPeriod, item)
		switch {
		case item.Status.IsComplete():
			report.CompletedItems = append(report.CompletedItems, item)
		case item.Status.IsBlocked():
			report.BlockedItems = append(report.BlockedItems, item)
		}
	}

	report.Summary = Summarize(taskID, inPeriod, now)
	return report, nil
}
