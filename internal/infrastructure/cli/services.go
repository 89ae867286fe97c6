package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/workintel/workintel/internal/infrastructure/wiring"
)

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadServices(ctx context.Context) (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return services, nil
}

func currentActor() string {
	actor := os.Getenv("USER")
	if actor == "" {
		actor = "unknown-human"
	}
	return actor
}
