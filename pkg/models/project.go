package models

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Project is the per-repository container for tasks. It is stored as a
// single JSON document at .tskr/project.json and is not partitioned by
// status the way tasks are.
type Project struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	CreatedAt     time.Time      `json:"created_at"`
	ModifiedAt    time.Time      `json:"modified_at"`
	Status        ProjectStatus  `json:"status"`
	Collaborators []string       `json:"collaborators"`
	ContextFile   string         `json:"context_file,omitempty"`
	Tags          []string       `json:"tags"`
	Metadata      map[string]any `json:"metadata"`
	DefaultAuthor string         `json:"default_author,omitempty"`
}

// NewProject creates an active project with timestamps set to now.
func NewProject(id, name, description string) *Project {
	now := time.Now()
	return &Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		ModifiedAt:  now,
		Status:      ProjectActive,
		ContextFile: "README.md",
		Metadata:    map[string]any{},
	}
}
