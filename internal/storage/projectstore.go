package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

// LoadProject reads the project document for the given project root.
// Returns nil without error when the document does not exist.
func LoadProject(projectRoot string) (*models.Project, error) {
	data, err := os.ReadFile(taskpath.ProjectPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return &project, nil
}

// SaveProject writes the project document, creating .tskr if needed.
func SaveProject(projectRoot string, project *models.Project) error {
	path := taskpath.ProjectPath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}
