// Package models contains the domain types shared across the tskr system:
// tasks, projects, events, filters, and application configuration.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status represents the current lifecycle state of a task. A task's status
// decides which directory its file lives in; StatusDeleted is logical-only
// and never corresponds to a directory on disk.
type Status string

const (
	StatusBacklog   Status = "backlog"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusBacklog, StatusPending, StatusCompleted, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// Priority represents the urgency level of a task, stored as its short
// wire code. PriorityNone is the empty string and renders as a neutral marker.
type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
	PriorityNone   Priority = ""
)

// ValidPriority reports whether p is one of the known priority codes.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// SortOrder returns the priority rank used for sorting. Lower rank means
// higher priority: High=1, Medium=2, Low=3, None=4.
func (p Priority) SortOrder() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Comment is a single entry in a task's discussion thread.
type Comment struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// FileReference points at a file relevant to a task.
type FileReference struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Annotation is a timestamped free-text note. It predates the structured
// discussion thread and is kept for compatibility with older task files.
type Annotation struct {
	Entry       string `json:"entry"`
	Description string `json:"description"`
}

// Task is the central domain entity: one unit of work, persisted as a
// single JSON file in the directory matching its status.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Due         *time.Time
	Scheduled   *time.Time
	Tags        []string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	CompletedAt *time.Time

	// Project association. A loose reference to a Project ID; existence is
	// not enforced.
	Project string

	// Coordination fields.
	ClaimedBy string
	ClaimedAt *time.Time

	// Relationship fields. Loose references, not validated for existence
	// or cycles.
	ParentTaskID string
	DependsOn    []string

	Discussion         []Comment
	CodeRefs           []FileReference
	AcceptanceCriteria []string
	Metadata           map[string]any

	Annotations []Annotation

	// Urgency is derived. It is recomputed on every load and save and is
	// never authoritative on its own.
	Urgency float64
}

// NewTask creates a task with a fresh random ID in the backlog.
func NewTask(title string) *Task {
	now := time.Now()
	return &Task{
		ID:         uuid.NewString(),
		Title:      title,
		Status:     StatusBacklog,
		Priority:   PriorityNone,
		CreatedAt:  now,
		ModifiedAt: now,
		Metadata:   map[string]any{},
	}
}

// ShortID returns the first eight characters of the task ID, used for
// display and short-id lookup.
func (t *Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// IsClaimed reports whether someone has claimed this task.
func (t *Task) IsClaimed() bool {
	return t.ClaimedBy != ""
}

// IsOverdue reports whether the task's due date has passed. Completed and
// archived tasks are never overdue.
func (t *Task) IsOverdue() bool {
	if t.Due == nil || t.Status == StatusCompleted || t.Status == StatusArchived {
		return false
	}
	return time.Now().After(*t.Due)
}

// CalculateUrgency computes the task's urgency score from its current
// fields and the wall clock, stores it on the task rounded to two decimal
// places, and returns it.
//
// The score is 1.0 plus a priority bonus (H +6, M +3, L +1), a due-date
// bonus for backlog/pending tasks, +0.5 per tag, +0.05 per day of age,
// and -2.0 if the task is claimed. The due-date bonus is +5 plus half a
// point per overdue day when overdue, a flat +4 within one day, 3/days
// within a week, and 1/(days/7) within a month. The 3/days branch grows
// without bound as the one-day boundary is approached from above; that
// discontinuity is intentional and relied on by consumers for stable
// ordering near the boundary.
func (t *Task) CalculateUrgency() float64 {
	now := time.Now()
	urgency := 1.0

	switch t.Priority {
	case PriorityHigh:
		urgency += 6.0
	case PriorityMedium:
		urgency += 3.0
	case PriorityLow:
		urgency += 1.0
	}

	if t.Due != nil && (t.Status == StatusBacklog || t.Status == StatusPending) {
		daysUntilDue := t.Due.Sub(now).Seconds() / 86400

		switch {
		case daysUntilDue < 0:
			urgency += 5.0 + math.Abs(daysUntilDue)*0.5
		case daysUntilDue < 1:
			urgency += 4.0
		case daysUntilDue < 7:
			urgency += 3.0 / daysUntilDue
		case daysUntilDue < 30:
			urgency += 1.0 / (daysUntilDue / 7)
		}
	}

	urgency += float64(len(t.Tags)) * 0.5

	ageDays := now.Sub(t.CreatedAt).Seconds() / 86400
	urgency += ageDays * 0.05

	if t.IsClaimed() {
		urgency -= 2.0
	}

	t.Urgency = math.Round(urgency*100) / 100
	return t.Urgency
}

// MarkComplete transitions the task to completed and stamps the
// completion and modification times.
func (t *Task) MarkComplete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.ModifiedAt = now
}

// Claim records the given actor as working on the task and moves it to
// pending. The entity itself does not guard against double-claims; that
// check belongs to the service layer.
func (t *Task) Claim(actor string) {
	now := time.Now()
	t.ClaimedBy = actor
	t.ClaimedAt = &now
	t.Status = StatusPending
	t.ModifiedAt = now
}

// Unclaim clears the claim and returns the task to the backlog.
func (t *Task) Unclaim() {
	t.ClaimedBy = ""
	t.ClaimedAt = nil
	t.Status = StatusBacklog
	t.ModifiedAt = time.Now()
}

// AddComment appends an entry to the task's discussion thread.
func (t *Task) AddComment(author, content string) {
	now := time.Now()
	t.Discussion = append(t.Discussion, Comment{
		Author:    author,
		Timestamp: now,
		Content:   content,
	})
	t.ModifiedAt = now
}

// AddCodeRef records a file related to this task.
func (t *Task) AddCodeRef(path, description string) {
	t.CodeRefs = append(t.CodeRefs, FileReference{
		Path:        path,
		Description: description,
	})
	t.ModifiedAt = time.Now()
}

// AddAnnotation appends a timestamped free-text note.
func (t *Task) AddAnnotation(text string) {
	now := time.Now()
	t.Annotations = append(t.Annotations, Annotation{
		Entry:       now.Format(time.RFC3339),
		Description: text,
	})
	t.ModifiedAt = now
}
