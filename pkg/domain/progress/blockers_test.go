package progress_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain/progress"
	"github.com/workintel/workintel/pkg/domain/todo"
)

func TestAnalyzeBlockers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	dep := item("dep-open", todo.StatusInProgress)
	waiting := item("waiting", todo.StatusPending)
	waiting.Dependencies = []string{"dep-open"}

	stuck := item("stuck", todo.StatusBlocked)
	stuck.BlockCategory = string(todo.BlockerApproval)
	stuck.BlockReason = "waiting for review"
	stuck.BlockedAt = now.Add(-48 * time.Hour)

	done := item("done", todo.StatusCompleted)
	done.Dependencies = []string{"missing"}

	analysis := progress.AnalyzeBlockers("task-1",
		[]*todo.Item{dep, waiting, stuck, done}, now)

	// 1. One dependency blocker, one approval blocker. Completed items are
	// skipped even with unmet dependency edges.
	if len(analysis.Blockers) != 2 {
		t.Fatalf("expected 2 blockers, got %+v", analysis.Blockers)
	}
	if analysis.ByCategory[todo.BlockerDependency] != 1 ||
		analysis.ByCategory[todo.BlockerApproval] != 1 {
		t.Errorf("ByCategory = %v", analysis.ByCategory)
	}

	// 2. Only blockers with a known start contribute to the average.
	if analysis.AverageBlockingHours != 48 {
		t.Errorf("AverageBlockingHours = %.1f", analysis.AverageBlockingHours)
	}
}

func TestAnalyzeBlockersCleanTask(t *testing.T) {
	items := []*todo.Item{
		item("a", todo.StatusCompleted),
		item("b", todo.StatusInProgress),
	}

	analysis := progress.AnalyzeBlockers("task-1", items, time.Now())

	if len(analysis.Blockers) != 0 {
		t.Errorf("expected no blockers, got %+v", analysis.Blockers)
	}
	if analysis.AverageBlockingHours != 0 {
		t.Errorf("AverageBlockingHours = %.1f", analysis.AverageBlockingHours)
	}
}

func TestClearedBlockers(t *testing.T) {
	// 1. A blocked item whose dependency completed and whose reason was
	// wiped shows up as cleared.
	dep := item("dep", todo.StatusCompleted)
	cleared := item("cleared", todo.StatusBlocked)
	cleared.Dependencies = []string{"dep"}

	// 2. Still-unmet dependencies keep the item blocked.
	openDep := item("open-dep", todo.StatusInProgress)
	held := item("held", todo.StatusBlocked)
	held.Dependencies = []string{"open-dep"}

	// 3. A recorded non-dependency reason keeps the item blocked.
	reasoned := item("reasoned", todo.StatusBlocked)
	reasoned.BlockCategory = string(todo.BlockerResource)
	reasoned.BlockReason = "no environment available"

	// 4. A dependency-category block clears once its dependency completes,
	// even though the auto-block recorded a reason.
	stuck := item("stuck", todo.StatusBlocked)
	stuck.Dependencies = []string{"dep"}
	stuck.BlockCategory = string(todo.BlockerDependency)
	stuck.BlockReason = "waiting on dependency dep"

	// 5. Unblocked items are ignored entirely.
	running := item("running", todo.StatusInProgress)

	got := progress.ClearedBlockers([]*todo.Item{dep, cleared, openDep, held, reasoned, stuck, running})
	if !reflect.DeepEqual(got, []string{"cleared", "stuck"}) {
		t.Errorf("ClearedBlockers = %v", got)
	}
}
