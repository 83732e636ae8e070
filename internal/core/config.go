// Package core contains the business logic for tskr: the task and project
// services that pair store mutations with event log appends, and the
// configuration manager.
package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/tskr-dev/tskr/pkg/models"
)

// ConfigManager loads and saves the flat JSON application configuration.
// There is no process-wide singleton: the manager is constructed once and
// passed to whatever needs it.
type ConfigManager interface {
	Load() (*models.Config, error)
	Save(cfg *models.Config) error
	SetCurrentProject(project string) error
	AutoTags(keyword string) []string
}

type viperConfigManager struct {
	configDir string
	cached    *models.Config
}

// NewConfigManager creates a ConfigManager reading config.json from
// configDir. When configDir is empty, ~/.config/tskr is used.
func NewConfigManager(configDir string) (ConfigManager, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "tskr")
	}
	return &viperConfigManager{configDir: configDir}, nil
}

// Load reads config.json through Viper. A missing file yields defaults;
// a malformed file is reported but also falls back to defaults so a bad
// config never blocks the CLI.
func (m *viperConfigManager) Load() (*models.Config, error) {
	if m.cached != nil {
		return m.cached, nil
	}

	cfg := models.DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(m.configDir)

	v.SetDefault("default_author", cfg.DefaultAuthor)
	v.SetDefault("current_project", cfg.CurrentProject)
	v.SetDefault("show_tags_in_list", cfg.ShowTagsInList)
	v.SetDefault("show_due_in_list", cfg.ShowDueInList)
	v.SetDefault("max_description_length", cfg.MaxDescription)
	v.SetDefault("default_list_limit", cfg.DefaultListLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file: use defaults.
		m.cached = cfg
		return cfg, nil
	}

	cfg.DefaultAuthor = v.GetString("default_author")
	cfg.CurrentProject = v.GetString("current_project")
	cfg.ShowTagsInList = v.GetBool("show_tags_in_list")
	cfg.ShowDueInList = v.GetBool("show_due_in_list")
	cfg.MaxDescription = v.GetInt("max_description_length")
	cfg.DefaultListLimit = v.GetInt("default_list_limit")

	if v.IsSet("auto_tags") {
		autoTags := map[string][]string{}
		for keyword, tags := range v.GetStringMapStringSlice("auto_tags") {
			autoTags[keyword] = tags
		}
		cfg.AutoTags = autoTags
	}

	m.cached = cfg
	return cfg, nil
}

// Save writes the configuration back as indented JSON.
func (m *viperConfigManager) Save(cfg *models.Config) error {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.configDir, "config.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	m.cached = cfg
	return nil
}

func (m *viperConfigManager) SetCurrentProject(project string) error {
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	cfg.CurrentProject = project
	return m.Save(cfg)
}

func (m *viperConfigManager) AutoTags(keyword string) []string {
	cfg, err := m.Load()
	if err != nil {
		return nil
	}
	return cfg.AutoTags[keyword]
}
