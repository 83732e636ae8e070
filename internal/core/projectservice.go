package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tskr-dev/tskr/internal/storage"
	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

// ProjectService creates and loads the per-repository project context.
type ProjectService interface {
	// Create initializes the .tskr layout under projectRoot and returns
	// the new project document.
	Create(projectRoot, name, description, projectID string) (*models.Project, error)
	// Load returns the project for projectRoot, or nil when none exists.
	Load(projectRoot string) (*models.Project, error)
}

type projectService struct{}

// NewProjectService creates a ProjectService.
func NewProjectService() ProjectService {
	return projectService{}
}

func (projectService) Load(projectRoot string) (*models.Project, error) {
	return storage.LoadProject(projectRoot)
}

// Create builds the full on-disk layout: project.json, the four status
// directories, a README context template, a seeded event log, and
// gitignore defaults that keep completed and archived tasks out of
// version control.
func (projectService) Create(projectRoot, name, description, projectID string) (*models.Project, error) {
	if projectID == "" {
		projectID = strings.ToLower(strings.ReplaceAll(filepath.Base(projectRoot), " ", "-"))
	}

	project := models.NewProject(projectID, name, description)

	for _, status := range taskpath.ScanOrder {
		if err := os.MkdirAll(taskpath.StatusDir(projectRoot, status), 0o755); err != nil {
			return nil, fmt.Errorf("creating task directories: %w", err)
		}
	}

	if err := storage.SaveProject(projectRoot, project); err != nil {
		return nil, err
	}

	if err := writeReadmeTemplate(projectRoot, name, description); err != nil {
		return nil, err
	}

	eventLog := storage.NewEventLog(projectRoot, nil)
	event := models.NewEvent(models.EventProjectCreated, "", "system", map[string]any{
		"name":       name,
		"project_id": projectID,
	})
	if err := eventLog.Append(event); err != nil {
		return nil, fmt.Errorf("seeding event log: %w", err)
	}

	if err := appendGitignoreDefaults(projectRoot); err != nil {
		return nil, err
	}

	return project, nil
}

func writeReadmeTemplate(projectRoot, name, description string) error {
	path := filepath.Join(taskpath.Dir(projectRoot), "README.md")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := fmt.Sprintf(`# %s

%s

## Project Context

This is a tskr-managed project. Add project-specific context here for LLMs
and collaborators.

## Architecture

Describe your tech stack, key files, and architecture decisions here.

## Conventions

List coding conventions, testing requirements, and other guidelines here.

## Current Focus

Describe what the team is currently working on.
`, name, description)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing README template: %w", err)
	}
	return nil
}

// appendGitignoreDefaults keeps backlog and pending tasks in version
// control but ignores the completed and archived directories.
func appendGitignoreDefaults(projectRoot string) error {
	path := filepath.Join(projectRoot, ".gitignore")

	var content string
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	if strings.Contains(content, ".tskr/") {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += `
# Tskr task management
# Commit backlog and pending tasks, ignore completed and archived
.tskr/tasks/completed/
.tskr/tasks/archived/
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}
