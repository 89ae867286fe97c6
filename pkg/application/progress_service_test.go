package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/progress"
	"github.com/workintel/workintel/pkg/domain/todo"
)

func newProgressFixture() (*ProgressService, *memRepo) {
	repo := newMemRepo()
	svc := NewProgressService(repo, domain.NopAuditLogger{})
	svc.now = testClock()
	return svc, repo
}

func TestTrackProgress(t *testing.T) {
	svc, repo := newProgressFixture()
	seedTodo(t, repo, "t1", todo.StatusCompleted)
	seedTodo(t, repo, "t2", todo.StatusCompleted)
	seedTodo(t, repo, "t3", todo.StatusInProgress)
	seedTodo(t, repo, "t4", todo.StatusBlocked)

	summary, err := svc.TrackProgress(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("TrackProgress: %v", err)
	}
	if summary.Total != 4 || summary.ByStatus[todo.StatusCompleted] != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.CompletionPercentage != 50 {
		t.Errorf("completion = %v, want 50", summary.CompletionPercentage)
	}
	if summary.BlockedTodos != 1 {
		t.Errorf("blocked = %d, want 1", summary.BlockedTodos)
	}
}

func TestIdentifyBlockersAutoBlocks(t *testing.T) {
	svc, repo := newProgressFixture()
	seedTodo(t, repo, "dep", todo.StatusInProgress)
	seedTodo(t, repo, "waiting", todo.StatusPending, "dep")
	seedTodo(t, repo, "free", todo.StatusPending)

	analysis, err := svc.IdentifyBlockers(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("IdentifyBlockers: %v", err)
	}

	// 1. The pending todo with an unmet dependency was flipped to blocked
	// and the change persisted.
	stored, err := repo.GetTodo("waiting")
	if err != nil {
		t.Fatalf("GetTodo: %v", err)
	}
	if stored.Status != todo.StatusBlocked {
		t.Fatalf("status = %q, want blocked", stored.Status)
	}
	if stored.BlockCategory != string(todo.BlockerDependency) {
		t.Errorf("category = %q", stored.BlockCategory)
	}
	if stored.BlockReason != "waiting on dependency dep" {
		t.Errorf("reason = %q", stored.BlockReason)
	}
	if stored.BlockedAt.IsZero() {
		t.Error("BlockedAt not set")
	}

	// 2. The todo without dependencies stays pending.
	free, _ := repo.GetTodo("free")
	if free.Status != todo.StatusPending {
		t.Errorf("free status = %q", free.Status)
	}

	// 3. The analysis reflects the post-sweep state.
	if len(analysis.Blockers) == 0 {
		t.Error("analysis reports no blockers")
	}
	if analysis.ByCategory[todo.BlockerDependency] == 0 {
		t.Errorf("ByCategory = %v", analysis.ByCategory)
	}
}

func TestIdentifyBlockersAutoUnblocks(t *testing.T) {
	svc, repo := newProgressFixture()
	seedTodo(t, repo, "dep", todo.StatusCompleted)
	cleared := seedTodo(t, repo, "stuck", todo.StatusBlocked, "dep")
	cleared.BlockCategory = string(todo.BlockerDependency)
	cleared.BlockReason = "waiting on dependency dep"
	cleared.BlockedAt = time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	if err := repo.SaveTodo(cleared); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}

	if _, err := svc.IdentifyBlockers(context.Background(), "task-1"); err != nil {
		t.Fatalf("IdentifyBlockers: %v", err)
	}

	stored, _ := repo.GetTodo("stuck")
	if stored.Status != todo.StatusInProgress {
		t.Fatalf("status = %q, want in_progress", stored.Status)
	}
	if stored.BlockCategory != "" || stored.BlockReason != "" || !stored.BlockedAt.IsZero() {
		t.Errorf("blocker fields not cleared: %+v", stored)
	}
}

func TestIdentifyBlockersUnblocksAutoBlockedItems(t *testing.T) {
	svc, repo := newProgressFixture()
	seedTodo(t, repo, "dep", todo.StatusInProgress)
	seedTodo(t, repo, "waiting", todo.StatusPending, "dep")

	// First sweep blocks the waiting todo on its open dependency.
	if _, err := svc.IdentifyBlockers(context.Background(), "task-1"); err != nil {
		t.Fatalf("IdentifyBlockers: %v", err)
	}
	blocked, _ := repo.GetTodo("waiting")
	if blocked.Status != todo.StatusBlocked {
		t.Fatalf("status = %q, want blocked", blocked.Status)
	}

	// Once the dependency completes, the next sweep releases the same todo
	// despite the reason it recorded when blocking it.
	dep, _ := repo.GetTodo("dep")
	dep.Status = todo.StatusCompleted
	if err := repo.SaveTodo(dep); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}
	if _, err := svc.IdentifyBlockers(context.Background(), "task-1"); err != nil {
		t.Fatalf("IdentifyBlockers: %v", err)
	}

	stored, _ := repo.GetTodo("waiting")
	if stored.Status != todo.StatusInProgress {
		t.Fatalf("status = %q, want in_progress", stored.Status)
	}
	if stored.BlockReason != "" {
		t.Errorf("reason = %q, want cleared", stored.BlockReason)
	}
}

func TestIdentifyBlockersHoldsRecordedReasons(t *testing.T) {
	svc, repo := newProgressFixture()
	held := seedTodo(t, repo, "approval", todo.StatusBlocked)
	held.BlockCategory = string(todo.BlockerApproval)
	held.BlockReason = "waiting on security signoff"
	if err := repo.SaveTodo(held); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}

	if _, err := svc.IdentifyBlockers(context.Background(), "task-1"); err != nil {
		t.Fatalf("IdentifyBlockers: %v", err)
	}

	// A non-dependency blocker with a recorded reason needs an explicit
	// unblock, not a sweep.
	stored, _ := repo.GetTodo("approval")
	if stored.Status != todo.StatusBlocked {
		t.Errorf("status = %q, want blocked", stored.Status)
	}
}

func TestGenerateProgressReportRejectsInvalidRange(t *testing.T) {
	svc, repo := newProgressFixture()
	repo.listErr = errors.New("storage should not be read")

	now := testClock()()
	_, err := svc.GenerateProgressReport(context.Background(), "task-1", progress.Range{
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})
	if !errors.Is(err, progress.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestGenerateProgressReport(t *testing.T) {
	svc, repo := newProgressFixture()
	now := testClock()()

	inside := seedTodo(t, repo, "t1", todo.StatusCompleted)
	inside.StatusChangedAt = now.Add(-2 * time.Hour)
	if err := repo.SaveTodo(inside); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}
	outside := seedTodo(t, repo, "t2", todo.StatusCompleted)
	outside.StatusChangedAt = now.Add(-80 * time.Hour)
	if err := repo.SaveTodo(outside); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}

	report, err := svc.GenerateProgressReport(context.Background(), "task-1", progress.Range{
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now,
	})
	if err != nil {
		t.Fatalf("GenerateProgressReport: %v", err)
	}
	if len(report.CompletedItems) != 1 || report.CompletedItems[0].ID != "t1" {
		t.Errorf("CompletedItems = %+v", report.CompletedItems)
	}
}

func TestOverdueTodos(t *testing.T) {
	svc, repo := newProgressFixture()
	now := testClock()()

	late := seedTodo(t, repo, "late", todo.StatusInProgress)
	late.DueDate = now.Add(-time.Hour)
	if err := repo.SaveTodo(late); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}
	done := seedTodo(t, repo, "done", todo.StatusCompleted)
	done.DueDate = now.Add(-time.Hour)
	if err := repo.SaveTodo(done); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}
	future := seedTodo(t, repo, "future", todo.StatusPending)
	future.DueDate = now.Add(time.Hour)
	if err := repo.SaveTodo(future); err != nil {
		t.Fatalf("SaveTodo: %v", err)
	}

	overdue, err := svc.OverdueTodos(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("OverdueTodos: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != "late" {
		t.Errorf("overdue = %+v", overdue)
	}
}
