package todo

import "time"

// BlockerCategory classifies why a todo item cannot progress.
type BlockerCategory string

const (
	BlockerDependency BlockerCategory = "dependency"
	BlockerResource   BlockerCategory = "resource"
	BlockerApproval   BlockerCategory = "approval"
	BlockerTechnical  BlockerCategory = "technical"
	BlockerExternal   BlockerCategory = "external"
)

// IsValid returns true for a known blocker category.
func (c BlockerCategory) IsValid() bool {
	switch c {
	case BlockerDependency, BlockerResource, BlockerApproval, BlockerTechnical, BlockerExternal:
		return true
	default:
		return false
	}
}

// Blocker describes one condition preventing a todo item from progressing.
type Blocker struct {
	TodoID       string          `json:"todo_id"`
	Category     BlockerCategory `json:"category"`
	Description  string          `json:"description"`
	DependencyID string          `json:"dependency_id,omitempty"`
	Since        time.Time       `json:"since,omitempty"`
}

// Duration returns how long the blocker has been active.
func (b Blocker) Duration(now time.Time) time.Duration {
	if b.Since.IsZero() {
		return 0
	}
	return now.Sub(b.Since)
}

// ClassifyBlockers is the single source of truth for "what counts as
// blocked". Both blocker analysis and the status-transition guard go through
// it, so the rule cannot drift between the two call sites.
//
// Dependency-type blockers are deterministic: every dependency edge of item
// that does not resolve to a completed todo in byID produces one blocker.
// A dependency that is missing from byID entirely is treated as unmet.
// For items already in the blocked status, the category recorded at blocking
// time is used; unrecognized or missing categories fall back to technical.
// A recorded dependency category is represented entirely by the edge
// blockers above: once every edge is met it contributes nothing, which is
// what lets dependency blocks clear on their own.
func ClassifyBlockers(item *Item, byID map[string]*Item) []Blocker {
	if item == nil {
		return nil
	}

	var blockers []Blocker

	for _, depID := range item.Dependencies {
		dep, ok := byID[depID]
		if ok && dep.Status.IsComplete() {
			continue
		}
		b := Blocker{
			TodoID:       item.ID,
			Category:     BlockerDependency,
			DependencyID: depID,
			Since:        item.StatusChangedAt,
		}
		if ok {
			b.Description = "waiting on " + depID + " (status: " + dep.Status.String() + ")"
		} else {
			b.Description = "waiting on unknown dependency " + depID
		}
		blockers = append(blockers, b)
	}

	if item.Status.IsBlocked() {
		category := BlockerCategory(item.BlockCategory)
		if !category.IsValid() {
			category = BlockerTechnical
		}
		// Dependency blockers are already accounted for above.
		if category != BlockerDependency {
			blockers = append(blockers, Blocker{
				TodoID:      item.ID,
				Category:    category,
				Description: item.BlockReason,
				Since:       item.BlockedAt,
			})
		}
	}

	return blockers
}

// DependenciesMet reports whether every dependency of item is completed.
// This is the guard used before a todo may enter in_progress.
func DependenciesMet(item *Item, byID map[string]*Item) bool {
	if item == nil {
		return false
	}
	for _, depID := range item.Dependencies {
		dep, ok := byID[depID]
		if !ok || !dep.Status.IsComplete() {
			return false
		}
	}
	return true
}

// FirstUnmetDependency returns the first dependency edge that is not
// completed, for error reporting. ok is false when all dependencies are met.
func FirstUnmetDependency(item *Item, byID map[string]*Item) (depID string, status Status, ok bool) {
	if item == nil {
		return "", "", false
	}
	for _, id := range item.Dependencies {
		dep, found := byID[id]
		if !found {
			return id, "", true
		}
		if !dep.Status.IsComplete() {
			return id, dep.Status, true
		}
	}
	return "", "", false
}
