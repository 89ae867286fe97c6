package wiring

import (
	"context"
	"fmt"

	"github.com/workintel/workintel/internal/infrastructure/channels"
	"github.com/workintel/workintel/internal/infrastructure/config"
	"github.com/workintel/workintel/internal/infrastructure/contentcheck"
	"github.com/workintel/workintel/internal/infrastructure/issues"
	"github.com/workintel/workintel/internal/infrastructure/watch"
	"github.com/workintel/workintel/pkg/application"
	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/events"
	"github.com/workintel/workintel/pkg/domain/issue"
	"github.com/workintel/workintel/pkg/domain/quality"
	"github.com/workintel/workintel/pkg/storage"
)

// AppServices exposes the application layer services wired together with a
// workspace.
type AppServices struct {
	Workspace    *Workspace
	Config       *config.Config
	Dispatcher   *events.EventDispatcher
	Engine       *quality.Engine
	Assessment   *application.AssessmentService
	Todo         *application.TodoService
	Progress     *application.ProgressService
	Notification *application.NotificationService
	Issue        *application.IssueService
	Trigger      *application.TriggerService
	Scheduler    *application.Scheduler
	Audit        *application.AuditService
	Store        *storage.SQLiteNotificationStore
	RetryQueue   *channels.RetryQueue
}

// BuildAppServices constructs the service graph for a repo root.
func BuildAppServices(ctx context.Context, root string) (*AppServices, error) {
	workspace := NewWorkspace(root)

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dispatcher := events.NewEventDispatcher()
	dispatcher.ContinueOnError = true

	engine, err := buildEngine(workspace, cfg)
	if err != nil {
		return nil, err
	}

	var store *storage.SQLiteNotificationStore
	if workspace.Repo.IsInitialized() {
		dbPath, err := workspace.NotificationDBPath()
		if err != nil {
			return nil, err
		}
		store, err = storage.OpenNotificationStore(dbPath)
		if err != nil {
			return nil, err
		}
	}

	adapters, err := channels.NewAdapters(&cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("build channel adapters: %w", err)
	}

	notificationSvc := application.NewNotificationService(workspace.Repo, notificationStore(store), adapters, nil, workspace.Audit)
	retryQueue := channels.NewRetryQueue(notificationSvc, notificationStore(store), channels.NewDeadLetterStore(workspace.DeadLetterPath()))
	notificationSvc.SetRetryQueue(retryQueue)

	tracker, err := buildTracker(ctx, cfg)
	if err != nil {
		return nil, err
	}

	triggerSvc := application.NewTriggerService(notificationSvc, cfg, cfg.DashboardURL)
	triggerSvc.RegisterHandlers(dispatcher)

	services := &AppServices{
		Workspace:    workspace,
		Config:       cfg,
		Dispatcher:   dispatcher,
		Engine:       engine,
		Assessment:   application.NewAssessmentService(workspace.Repo, engine, workspace.Audit, dispatcher),
		Todo:         application.NewTodoService(workspace.Repo, workspace.Audit, dispatcher),
		Progress:     application.NewProgressService(workspace.Repo, workspace.Audit),
		Notification: notificationSvc,
		Issue:        application.NewIssueService(tracker, workspace.Audit),
		Trigger:      triggerSvc,
		Scheduler:    application.NewScheduler(workspace.Repo, dispatcher, workspace.Audit),
		Audit:        workspace.Audit,
		Store:        store,
		RetryQueue:   retryQueue,
	}

	return services, nil
}

// Close releases held resources.
func (s *AppServices) Close() error {
	s.RetryQueue.Wait()
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

func buildEngine(workspace *Workspace, cfg *config.Config) (*quality.Engine, error) {
	opts := []quality.Option{}

	overrides, err := watch.LoadStandardsDir(workspace.StandardsDir(), nil)
	if err != nil {
		return nil, fmt.Errorf("load standard overrides: %w", err)
	}
	if len(overrides) > 0 {
		opts = append(opts, quality.WithOverrides(overrides...))
	}

	if cfg.ContentCheck.APIKey != "" {
		provider := contentcheck.NewAnthropicProvider(cfg.ContentCheck.APIKey, cfg.ContentCheck.Model)
		opts = append(opts, quality.WithProvider(contentcheck.NewResilientProvider(provider)))
	}

	return quality.NewEngine(opts...)
}

func buildTracker(ctx context.Context, cfg *config.Config) (issue.Tracker, error) {
	switch cfg.Issues.Provider {
	case "github":
		return issues.NewGitHubTracker(ctx, cfg.Issues.GitHub.Token, cfg.Issues.GitHub.Repo)
	case "jira":
		return issues.NewJiraTracker(cfg.Issues.Jira.Domain, cfg.Issues.Jira.ProjectKey,
			cfg.Issues.Jira.Email, cfg.Issues.Jira.APIToken)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown issue provider: %s", cfg.Issues.Provider)
	}
}

// notificationStore avoids handing a typed nil to interface consumers.
func notificationStore(store *storage.SQLiteNotificationStore) domain.NotificationStore {
	if store == nil {
		return nil
	}
	return store
}
