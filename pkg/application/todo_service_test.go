package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/todo"
)

func testClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
}

func newTodoFixture() (*TodoService, *memRepo, *events.EventDispatcher, *eventRecorder) {
	repo := newMemRepo()
	dispatcher := events.NewEventDispatcher()
	recorder := newEventRecorder()
	dispatcher.RegisterWildcard("recorder", recorder.handle)

	svc := NewTodoService(repo, domain.NopAuditLogger{}, dispatcher)
	svc.now = testClock()
	return svc, repo, dispatcher, recorder
}

func seedTodo(t *testing.T, repo *memRepo, id string, status todo.Status, deps ...string) *todo.Item {
	t.Helper()
	item := &todo.Item{
		ID:           id,
		TaskID:       "task-1",
		Title:        "todo " + id,
		Status:       status,
		Dependencies: deps,
	}
	if err := repo.SaveTodo(item); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	return item
}

func TestCreateTodoDefaults(t *testing.T) {
	svc, repo, _, _ := newTodoFixture()

	created, err := svc.CreateTodo(context.Background(), &todo.Item{
		TaskID: "task-1",
		Title:  "write the parser",
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	// 1. Missing fields are defaulted.
	if created.ID == "" {
		t.Error("expected a generated ID")
	}
	if created.Status != todo.StatusPending {
		t.Errorf("Status = %s", created.Status)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.StatusChangedAt) {
		t.Errorf("timestamps not set: %+v", created)
	}

	// 2. The todo is persisted.
	stored, err := repo.GetTodo(created.ID)
	if err != nil {
		t.Fatalf("GetTodo: %v", err)
	}
	if stored.Title != "write the parser" {
		t.Errorf("stored Title = %q", stored.Title)
	}
}

func TestCreateTodoRequiresTaskAndTitle(t *testing.T) {
	svc, _, _, _ := newTodoFixture()

	if _, err := svc.CreateTodo(context.Background(), nil); err == nil {
		t.Error("expected nil item to be rejected")
	}
	if _, err := svc.CreateTodo(context.Background(), &todo.Item{Title: "no task"}); err == nil {
		t.Error("expected missing task id to be rejected")
	}
	if _, err := svc.CreateTodo(context.Background(), &todo.Item{TaskID: "task-1"}); err == nil {
		t.Error("expected missing title to be rejected")
	}
}

func TestTransitionHappyPath(t *testing.T) {
	svc, repo, _, recorder := newTodoFixture()
	seedTodo(t, repo, "todo-1", todo.StatusPending)

	// 1. start
	if err := svc.Transition(context.Background(), "todo-1", "start", "alice", "", "", false); err != nil {
		t.Fatalf("start: %v", err)
	}
	item, _ := repo.GetTodo("todo-1")
	if item.Status != todo.StatusInProgress {
		t.Errorf("after start: %s", item.Status)
	}

	// 2. complete
	if err := svc.Transition(context.Background(), "todo-1", "complete", "alice", "", "", false); err != nil {
		t.Fatalf("complete: %v", err)
	}
	item, _ = repo.GetTodo("todo-1")
	if item.Status != todo.StatusCompleted {
		t.Errorf("after complete: %s", item.Status)
	}

	// 3. Each transition raised an event.
	if got := recorder.count(events.EventTypeTodoTransitioned); got != 2 {
		t.Errorf("transition events = %d", got)
	}
}

func TestTransitionNotFound(t *testing.T) {
	svc, _, _, _ := newTodoFixture()

	err := svc.Transition(context.Background(), "missing", "start", "alice", "", "", false)
	if !errors.Is(err, todo.ErrTodoNotFound) {
		t.Errorf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTransitionTerminalStatus(t *testing.T) {
	svc, repo, _, _ := newTodoFixture()
	seedTodo(t, repo, "todo-1", todo.StatusCompleted)

	err := svc.Transition(context.Background(), "todo-1", "start", "alice", "", "", false)
	if !errors.Is(err, todo.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus, got %v", err)
	}
}

func TestTransitionInvalidEvent(t *testing.T) {
	svc, repo, _, _ := newTodoFixture()
	seedTodo(t, repo, "todo-1", todo.StatusPending)

	err := svc.Transition(context.Background(), "todo-1", "complete", "alice", "", "", false)
	if !errors.Is(err, todo.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	var transitionErr *todo.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %T", err)
	}
	if transitionErr.FromStatus != "pending" || transitionErr.Event != "complete" {
		t.Errorf("unexpected detail: %+v", transitionErr)
	}

	// The stored status is untouched.
	item, _ := repo.GetTodo("todo-1")
	if item.Status != todo.StatusPending {
		t.Errorf("status changed to %s", item.Status)
	}
}

func TestTransitionDependencyGuard(t *testing.T) {
	svc, repo, _, _ := newTodoFixture()
	seedTodo(t, repo, "dep-1", todo.StatusInProgress)
	seedTodo(t, repo, "todo-1", todo.StatusPending, "dep-1")

	// 1. Starting with an open dependency fails with the offending edge.
	err := svc.Transition(context.Background(), "todo-1", "start", "alice", "", "", false)
	if !errors.Is(err, todo.ErrDependenciesNotMet) {
		t.Fatalf("expected ErrDependenciesNotMet, got %v", err)
	}
	var depErr *todo.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected DependencyError, got %T", err)
	}
	if depErr.DependencyID != "dep-1" || depErr.Status != "in_progress" {
		t.Errorf("unexpected detail: %+v", depErr)
	}

	// 2. Completing the dependency unblocks the start.
	if err := svc.Transition(context.Background(), "dep-1", "complete", "alice", "", "", false); err != nil {
		t.Fatalf("complete dep: %v", err)
	}
	if err := svc.Transition(context.Background(), "todo-1", "start", "alice", "", "", false); err != nil {
		t.Fatalf("start after dep completed: %v", err)
	}
}

func TestTransitionAutoBlock(t *testing.T) {
	svc, repo, _, recorder := newTodoFixture()
	seedTodo(t, repo, "dep-1", todo.StatusPending)
	seedTodo(t, repo, "todo-1", todo.StatusPending, "dep-1")

	// A refused start with autoBlock flips the todo to blocked with a
	// dependency classification instead of erroring.
	if err := svc.Transition(context.Background(), "todo-1", "start", "alice", "", "", true); err != nil {
		t.Fatalf("auto-block start: %v", err)
	}

	item, _ := repo.GetTodo("todo-1")
	if item.Status != todo.StatusBlocked {
		t.Errorf("Status = %s", item.Status)
	}
	if item.BlockCategory != string(todo.BlockerDependency) {
		t.Errorf("BlockCategory = %s", item.BlockCategory)
	}
	if item.BlockReason != "waiting on dependency dep-1" {
		t.Errorf("BlockReason = %q", item.BlockReason)
	}
	if recorder.count(events.EventTypeTodoBlocked) != 1 {
		t.Error("expected a TodoBlocked event")
	}
}

func TestTransitionBlockRecordsClassification(t *testing.T) {
	svc, repo, _, _ := newTodoFixture()
	seedTodo(t, repo, "todo-1", todo.StatusInProgress)

	// 1. A valid category is recorded as given.
	err := svc.Transition(context.Background(), "todo-1", "block", "alice",
		"waiting for sign-off", string(todo.BlockerApproval), false)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	item, _ := repo.GetTodo("todo-1")
	if item.BlockCategory != string(todo.BlockerApproval) || item.BlockReason != "waiting for sign-off" {
		t.Errorf("unexpected block detail: %+v", item)
	}
	if item.BlockedAt.IsZero() {
		t.Error("BlockedAt not set")
	}

	// 2. Unblocking wipes the block fields.
	if err := svc.Transition(context.Background(), "todo-1", "unblock", "alice", "", "", false); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	item, _ = repo.GetTodo("todo-1")
	if item.Status != todo.StatusInProgress {
		t.Errorf("Status = %s", item.Status)
	}
	if item.BlockReason != "" || item.BlockCategory != "" || !item.BlockedAt.IsZero() {
		t.Errorf("block fields not cleared: %+v", item)
	}

	// 3. An unrecognized category falls back to technical.
	err = svc.Transition(context.Background(), "todo-1", "block", "alice", "stuck", "weather", false)
	if err != nil {
		t.Fatalf("block with bad category: %v", err)
	}
	item, _ = repo.GetTodo("todo-1")
	if item.BlockCategory != string(todo.BlockerTechnical) {
		t.Errorf("BlockCategory = %s", item.BlockCategory)
	}
}

func TestTransitionEmitsMilestones(t *testing.T) {
	svc, repo, _, recorder := newTodoFixture()
	seedTodo(t, repo, "todo-1", todo.StatusCompleted)
	seedTodo(t, repo, "todo-2", todo.StatusInProgress)

	// Completion moves 50% -> 100%: crossing 75 and 100.
	if err := svc.Transition(context.Background(), "todo-2", "complete", "alice", "", "", false); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if got := recorder.count(events.EventTypeProgressMilestone); got != 2 {
		t.Errorf("milestone events = %d, want 2", got)
	}
}
