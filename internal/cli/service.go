package cli

import (
	"fmt"
	"os"

	"github.com/tskr-dev/tskr/internal/core"
	"github.com/tskr-dev/tskr/internal/storage"
	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

// openTaskService locates the enclosing project and wires a TaskService
// for it. Commands that need a project context call this and surface
// core.ErrNotInProject when the walk finds nothing.
func openTaskService() (core.TaskService, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	root, ok := taskpath.FindProjectRoot(cwd)
	if !ok {
		return nil, core.ErrNotInProject
	}

	store, err := storage.NewTaskStore(root, nil)
	if err != nil {
		return nil, fmt.Errorf("opening task store: %w", err)
	}
	eventLog := storage.NewEventLog(root, nil)

	limit := 20
	if cfg := loadConfig(); cfg != nil && cfg.DefaultListLimit > 0 {
		limit = cfg.DefaultListLimit
	}
	return core.NewTaskService(store, eventLog, limit), nil
}

// loadConfig returns the application config, or nil when the manager is
// not wired (tests) or loading fails.
func loadConfig() *models.Config {
	if ConfigMgr == nil {
		return nil
	}
	cfg, err := ConfigMgr.Load()
	if err != nil {
		return nil
	}
	return cfg
}

// defaultActor returns the actor recorded in events when none is given
// on the command line.
func defaultActor() string {
	if cfg := loadConfig(); cfg != nil && cfg.DefaultAuthor != "" {
		return cfg.DefaultAuthor
	}
	return "unknown"
}
