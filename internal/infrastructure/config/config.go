// Package config loads workspace configuration from .workintel/config.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/workintel/workintel/pkg/domain/notify"
	"github.com/workintel/workintel/pkg/storage"
)

const configFile = "config.yaml"

// Config holds infrastructure settings outside domain policy. Secrets may
// be given inline or through the environment variables named per field.
type Config struct {
	Channels notify.ChannelConfig `yaml:"channels"`

	Issues struct {
		Provider string `yaml:"provider"` // "github" | "jira"
		GitHub   struct {
			Token string `yaml:"token"`
			Repo  string `yaml:"repo"` // owner/name
		} `yaml:"github"`
		Jira struct {
			Domain     string `yaml:"domain"`
			ProjectKey string `yaml:"project_key"`
			Email      string `yaml:"email"`
			APIToken   string `yaml:"api_token"`
		} `yaml:"jira"`
	} `yaml:"issues"`

	ContentCheck struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"content_check"`

	SweepSchedule string `yaml:"sweep_schedule"` // 5-field cron expression
	DashboardAddr string `yaml:"dashboard_addr"`
	DashboardURL  string `yaml:"dashboard_url"`

	Stakeholders map[string][]notify.Stakeholder `yaml:"stakeholders"` // keyed by task id, "*" for all
}

func Load(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(configFile)
	if err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(configFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && c.Issues.GitHub.Token == "" {
		c.Issues.GitHub.Token = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" && c.Issues.Jira.APIToken == "" {
		c.Issues.Jira.APIToken = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.ContentCheck.APIKey == "" {
		c.ContentCheck.APIKey = v
	}
	for i := range c.Channels.Adapters {
		a := &c.Channels.Adapters[i]
		if a.Channel == notify.ChannelSlack && a.Token == "" {
			a.Token = os.Getenv("SLACK_BOT_TOKEN")
		}
	}
}

func (c *Config) applyDefaults() {
	if c.DashboardAddr == "" {
		c.DashboardAddr = ":8410"
	}
}

// StakeholdersForTask returns the stakeholders configured for a task,
// including the wildcard entry.
func (c *Config) StakeholdersForTask(taskID string) ([]notify.Stakeholder, error) {
	var out []notify.Stakeholder
	out = append(out, c.Stakeholders["*"]...)
	out = append(out, c.Stakeholders[taskID]...)
	return out, nil
}
