// Package wiring assembles the application services for a workspace root.
package wiring

import (
	"fmt"
	"path/filepath"

	"github.com/workintel/workintel/pkg/application"
	"github.com/workintel/workintel/pkg/storage"
)

const notificationDBFile = "notifications.db"
const deadLetterFile = "deadletters.jsonl"

// Workspace bundles the repository and audit logger for one workspace root.
type Workspace struct {
	Root  string
	Repo  *storage.FilesystemRepository
	Audit *application.AuditService
}

func NewWorkspace(root string) *Workspace {
	repo := storage.NewFilesystemRepository(root)
	return &Workspace{
		Root:  root,
		Repo:  repo,
		Audit: application.NewAuditService(repo),
	}
}

// NotificationDBPath returns the SQLite file for dispatch history.
func (w *Workspace) NotificationDBPath() (string, error) {
	if !w.Repo.IsInitialized() {
		return "", fmt.Errorf("workspace not initialized, run init first")
	}
	return filepath.Join(w.Root, storage.WorkintelDir, notificationDBFile), nil
}

// DeadLetterPath returns the JSONL file for abandoned deliveries.
func (w *Workspace) DeadLetterPath() string {
	return filepath.Join(w.Root, storage.WorkintelDir, deadLetterFile)
}

// StandardsDir returns the quality standard overrides directory.
func (w *Workspace) StandardsDir() string {
	return filepath.Join(w.Root, storage.WorkintelDir, storage.StandardsDir)
}
