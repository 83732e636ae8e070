// Package taskpath provides the mapping between task statuses and their
// on-disk directories, plus project root discovery. This package exists to
// avoid import cycles between core and storage (both need the layout).
package taskpath

import (
	"os"
	"path/filepath"

	"github.com/tskr-dev/tskr/pkg/models"
)

const (
	// TskrDir is the per-project data directory.
	TskrDir = ".tskr"

	// ProjectFile is the project document inside TskrDir.
	ProjectFile = "project.json"

	// EventsFile is the append-only coordination log inside TskrDir.
	EventsFile = "events.log"

	// TasksDir holds the four status directories.
	TasksDir = "tasks"
)

// ScanOrder is the fixed order in which status directories are searched
// when resolving a task ID. The first match wins; changing this order
// changes which task a short ID resolves to, so it must stay stable.
var ScanOrder = []models.Status{
	models.StatusBacklog,
	models.StatusPending,
	models.StatusCompleted,
	models.StatusArchived,
}

// Dir returns the .tskr directory for a project root.
func Dir(projectRoot string) string {
	return filepath.Join(projectRoot, TskrDir)
}

// ProjectPath returns the path of the project document.
func ProjectPath(projectRoot string) string {
	return filepath.Join(projectRoot, TskrDir, ProjectFile)
}

// EventsPath returns the path of the event log.
func EventsPath(projectRoot string) string {
	return filepath.Join(projectRoot, TskrDir, EventsFile)
}

// StatusDir returns the canonical directory for tasks in the given status.
// StatusDeleted has no directory; callers must not pass it.
func StatusDir(projectRoot string, status models.Status) string {
	return filepath.Join(projectRoot, TskrDir, TasksDir, string(status))
}

// TaskFile returns the file path for a task ID in the given status.
func TaskFile(projectRoot string, status models.Status, taskID string) string {
	return filepath.Join(StatusDir(projectRoot, status), taskID+".json")
}

// FindProjectRoot walks up from start looking for a directory containing
// .tskr/project.json. It returns the project root and true, or "" and
// false when no project encloses start.
func FindProjectRoot(start string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		info, err := os.Stat(filepath.Join(current, TskrDir))
		if err == nil && info.IsDir() {
			if _, err := os.Stat(ProjectPath(current)); err == nil {
				return current, true
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
