package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/issue"
	"github.com/workintel/workintel/pkg/domain/notify"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// memRepo is an in-memory WorkspaceRepository. Reads return copies so a
// caller's mutations only become visible after an explicit save, matching
// the filesystem implementation.
type memRepo struct {
	mu           sync.Mutex
	todos        map[string]todo.Item
	deliverables map[string]map[int]todo.Deliverable
	preferences  map[string]notify.Preferences
	auditEvents  []domain.Event

	saveTodoErr error
	listErr     error
}

func newMemRepo() *memRepo {
	return &memRepo{
		todos:        make(map[string]todo.Item),
		deliverables: make(map[string]map[int]todo.Deliverable),
		preferences:  make(map[string]notify.Preferences),
	}
}

func (r *memRepo) Initialize() error   { return nil }
func (r *memRepo) IsInitialized() bool { return true }

func (r *memRepo) ListTasks() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var tasks []string
	for _, item := range r.todos {
		if !seen[item.TaskID] {
			seen[item.TaskID] = true
			tasks = append(tasks, item.TaskID)
		}
	}
	sort.Strings(tasks)
	return tasks, nil
}

func (r *memRepo) SaveTodo(item *todo.Item) error {
	if r.saveTodoErr != nil {
		return r.saveTodoErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos[item.ID] = *item
	return nil
}

func (r *memRepo) GetTodo(todoID string) (*todo.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.todos[todoID]
	if !ok {
		return nil, fmt.Errorf("load todo %s: %w", todoID, todo.ErrTodoNotFound)
	}
	out := item
	return &out, nil
}

func (r *memRepo) ListTodosByTask(taskID string) ([]*todo.Item, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*todo.Item
	for _, item := range r.todos {
		if item.TaskID == taskID {
			out := item
			items = append(items, &out)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memRepo) SaveDeliverable(d *todo.Deliverable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.deliverables[d.ID]
	if !ok {
		versions = make(map[int]todo.Deliverable)
		r.deliverables[d.ID] = versions
	}
	versions[d.Version] = *d
	return nil
}

func (r *memRepo) GetDeliverable(deliverableID string, version int) (*todo.Deliverable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deliverables[deliverableID][version]
	if !ok {
		return nil, fmt.Errorf("load deliverable %s v%d: %w", deliverableID, version, todo.ErrDeliverableNotFound)
	}
	out := d
	return &out, nil
}

func (r *memRepo) LatestDeliverable(deliverableID string) (*todo.Deliverable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.deliverables[deliverableID]
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("load deliverable %s: %w", deliverableID, todo.ErrDeliverableNotFound)
	}
	latest := 0
	for v := range versions {
		if v > latest {
			latest = v
		}
	}
	out := versions[latest]
	return &out, nil
}

func (r *memRepo) ListDeliverableVersions(deliverableID string) ([]*todo.Deliverable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*todo.Deliverable
	for _, d := range r.deliverables[deliverableID] {
		copied := d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *memRepo) SavePreferences(prefs *notify.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferences[prefs.OwnerID] = *prefs
	return nil
}

func (r *memRepo) LoadPreferences(ownerID string) (*notify.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs, ok := r.preferences[ownerID]
	if !ok {
		return nil, fmt.Errorf("no preferences for %s", ownerID)
	}
	out := prefs
	return &out, nil
}

func (r *memRepo) RecordEvent(event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditEvents = append(r.auditEvents, event)
	return nil
}

func (r *memRepo) LoadEvents() ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.auditEvents))
	copy(out, r.auditEvents)
	return out, nil
}

// memStore is an in-memory NotificationStore.
type memStore struct {
	mu      sync.Mutex
	records []*notify.Record
}

func (s *memStore) RecordAttempt(record *notify.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records = append(s.records, &copied)
	return nil
}

func (s *memStore) Attempts(notificationID string) ([]*notify.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notify.Record
	for _, r := range s.records {
		if r.NotificationID == notificationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeAdapter is a ChannelAdapter with injectable failures.
type fakeAdapter struct {
	mu      sync.Mutex
	channel notify.Channel
	err     error
	sent    []notify.Message
}

func (a *fakeAdapter) Send(ctx context.Context, contact notify.ContactInfo, msg notify.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.sent = append(a.sent, msg)
	return nil
}

func (a *fakeAdapter) Channel() notify.Channel { return a.channel }
func (a *fakeAdapter) Name() string            { return "fake-" + string(a.channel) }

func (a *fakeAdapter) sentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sent)
}

// fakeQueue records enqueued retry work.
type fakeQueue struct {
	mu      sync.Mutex
	entries []*notify.Record
}

func (q *fakeQueue) Enqueue(ctx context.Context, record *notify.Record) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, record)
	return nil
}

// fakeTracker is an issue.Tracker returning sequential IDs. failOn makes
// creation fail for issues scoped to that team.
type fakeTracker struct {
	created []issue.Issue
	failOn  string
}

func (t *fakeTracker) Create(ctx context.Context, is issue.Issue) (*issue.Created, error) {
	if t.failOn != "" && is.TeamID == t.failOn {
		return nil, fmt.Errorf("tracker rejected issue for %s", is.TeamID)
	}
	t.created = append(t.created, is)
	return &issue.Created{
		ID:       fmt.Sprintf("ISS-%d", len(t.created)),
		URL:      fmt.Sprintf("https://tracker.example/ISS-%d", len(t.created)),
		Provider: "fake",
	}, nil
}

func (t *fakeTracker) Provider() string { return "fake" }

// fakeDirectory returns a fixed stakeholder set.
type fakeDirectory struct {
	stakeholders []notify.Stakeholder
	err          error
}

func (d *fakeDirectory) StakeholdersForTask(taskID string) ([]notify.Stakeholder, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.stakeholders, nil
}

// eventRecorder collects dispatched events through a wildcard handler.
type eventRecorder struct {
	mu     sync.Mutex
	events []string
	byType map[string]int
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{byType: make(map[string]int)}
}

func (r *eventRecorder) handle(ctx context.Context, event events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.EventType())
	r.byType[event.EventType()]++
	return nil
}

func (r *eventRecorder) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byType[eventType]
}
