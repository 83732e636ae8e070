// Package internal provides the App struct that wires the tskr services
// together and initializes the CLI layer.
package internal

import (
	"github.com/tskr-dev/tskr/internal/cli"
	"github.com/tskr-dev/tskr/internal/core"
)

// App holds the process-wide service dependencies. Task-level services
// are not built here: they bind to whichever project root encloses the
// working directory, so the CLI constructs them per invocation.
type App struct {
	ConfigMgr core.ConfigManager
	Projects  core.ProjectService
}

// NewApp creates and wires the tskr services. The configuration manager
// is an explicit dependency handed to the CLI rather than a package
// global, so tests can substitute their own.
func NewApp() (*App, error) {
	app := &App{}

	configMgr, err := core.NewConfigManager("")
	if err != nil {
		return nil, err
	}
	app.ConfigMgr = configMgr
	app.Projects = core.NewProjectService()

	cli.ConfigMgr = app.ConfigMgr
	cli.Projects = app.Projects

	return app, nil
}
