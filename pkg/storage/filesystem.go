// Package storage persists workintel artifacts under the .workintel/
// workspace directory and dispatch history in SQLite.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/notify"
	"github.com/workintel/workintel/pkg/domain/todo"
)

const WorkintelDir = ".workintel"
const TasksDir = "tasks"
const TodosDir = "todos"
const DeliverablesDir = "deliverables"
const PreferencesDir = "preferences"
const StandardsDir = "standards"
const EventsFile = "events.jsonl"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path stays within the .workintel directory and
// prevents traversal. Nested paths are allowed because todos and
// deliverables are grouped in subdirectories.
func (r *FilesystemRepository) ResolvePath(elem ...string) (string, error) {
	if len(elem) == 0 {
		return "", fmt.Errorf("filename cannot be empty")
	}
	for _, e := range elem {
		if e == "" {
			return "", fmt.Errorf("filename cannot be empty")
		}
	}

	baseDir := filepath.Join(r.root, WorkintelDir)
	fullPath := filepath.Join(append([]string{baseDir}, elem...)...)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: %s", filepath.Join(elem...))
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	for _, dir := range []string{"", TasksDir, DeliverablesDir, PreferencesDir, StandardsDir} {
		path := filepath.Join(r.root, WorkintelDir, dir)
		if err := os.MkdirAll(path, 0700); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", path, err)
		}
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, WorkintelDir))
	return err == nil
}

// ListTasks enumerates the task directories under .workintel/tasks.
func (r *FilesystemRepository) ListTasks() ([]string, error) {
	dir := filepath.Join(r.root, WorkintelDir, TasksDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read tasks directory: %w", err)
	}

	tasks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			tasks = append(tasks, entry.Name())
		}
	}
	sort.Strings(tasks)
	return tasks, nil
}

func (r *FilesystemRepository) SaveTodo(item *todo.Item) error {
	if item == nil {
		return fmt.Errorf("todo requires an id and task id")
	}
	if err := domain.ValidateID("task", item.TaskID); err != nil {
		return err
	}
	if err := domain.ValidateID("todo", item.ID); err != nil {
		return err
	}

	path, err := r.ResolvePath(TasksDir, item.TaskID, TodosDir, item.ID+".yaml")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create todos directory: %w", err)
	}

	data, err := yaml.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) GetTodo(todoID string) (*todo.Item, error) {
	tasks, err := r.ListTasks()
	if err != nil {
		return nil, err
	}

	for _, taskID := range tasks {
		path, err := r.ResolvePath(TasksDir, taskID, TodosDir, todoID+".yaml")
		if err != nil {
			return nil, err
		}
		item, err := r.readTodo(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return item, nil
	}

	return nil, fmt.Errorf("todo %s: %w", todoID, todo.ErrTodoNotFound)
}

func (r *FilesystemRepository) ListTodosByTask(taskID string) ([]*todo.Item, error) {
	dir := filepath.Join(r.root, WorkintelDir, TasksDir, taskID, TodosDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*todo.Item{}, nil
		}
		return nil, fmt.Errorf("failed to read todos directory: %w", err)
	}

	items := make([]*todo.Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		item, err := r.readTodo(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *FilesystemRepository) readTodo(path string) (*todo.Item, error) {
	retryer := retry.New[*todo.Item](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*todo.Item, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var item todo.Item
		if err := yaml.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal todo: %w", err)
		}
		return &item, nil
	})
}

// SaveDeliverable writes one version file. Versions are append-only, so an
// existing version file is never overwritten.
func (r *FilesystemRepository) SaveDeliverable(d *todo.Deliverable) error {
	if d == nil || d.Version < 1 {
		return fmt.Errorf("deliverable requires an id and a positive version")
	}
	if err := domain.ValidateID("deliverable", d.ID); err != nil {
		return err
	}

	path, err := r.ResolvePath(DeliverablesDir, d.ID, fmt.Sprintf("v%03d.json", d.Version))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create deliverable directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deliverable: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) GetDeliverable(deliverableID string, version int) (*todo.Deliverable, error) {
	path, err := r.ResolvePath(DeliverablesDir, deliverableID, fmt.Sprintf("v%03d.json", version))
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deliverable %s v%d: %w", deliverableID, version, todo.ErrDeliverableNotFound)
		}
		return nil, fmt.Errorf("failed to read deliverable: %w", err)
	}

	var d todo.Deliverable
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deliverable: %w", err)
	}
	return &d, nil
}

func (r *FilesystemRepository) LatestDeliverable(deliverableID string) (*todo.Deliverable, error) {
	versions, err := r.ListDeliverableVersions(deliverableID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("deliverable %s: %w", deliverableID, todo.ErrDeliverableNotFound)
	}
	return versions[len(versions)-1], nil
}

func (r *FilesystemRepository) ListDeliverableVersions(deliverableID string) ([]*todo.Deliverable, error) {
	dir := filepath.Join(r.root, WorkintelDir, DeliverablesDir, deliverableID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*todo.Deliverable{}, nil
		}
		return nil, fmt.Errorf("failed to read deliverable directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	versions := make([]*todo.Deliverable, 0, len(names))
	for _, name := range names {
		// #nosec G304 -- Directory contents only
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read deliverable version: %w", err)
		}
		var d todo.Deliverable
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deliverable version: %w", err)
		}
		versions = append(versions, &d)
	}

	return versions, nil
}

func (r *FilesystemRepository) SavePreferences(prefs *notify.Preferences) error {
	if prefs == nil || prefs.OwnerID == "" {
		return fmt.Errorf("preferences require an owner id")
	}

	path, err := r.ResolvePath(PreferencesDir, sanitizeOwner(prefs.OwnerID)+".yaml")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadPreferences(ownerID string) (*notify.Preferences, error) {
	path, err := r.ResolvePath(PreferencesDir, sanitizeOwner(ownerID)+".yaml")
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preferences for %s not found", ownerID)
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs notify.Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &prefs, nil
}

// sanitizeOwner makes an owner id usable as a filename.
func sanitizeOwner(ownerID string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "@", "_at_")
	return replacer.Replace(ownerID)
}
