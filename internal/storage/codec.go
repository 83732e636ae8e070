package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tskr-dev/tskr/pkg/models"
)

// taskDocument is the on-disk shape of a task file: a flat JSON object
// with ISO-8601 timestamp strings (empty string when unset), lowercase
// status names, and short priority codes. The domain model stays in
// time.Time; the translation lives here so the wire format is pinned in
// one place.
type taskDocument struct {
	ID                 string                 `json:"id"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	Status             string                 `json:"status"`
	Priority           string                 `json:"priority"`
	Due                string                 `json:"due"`
	Scheduled          string                 `json:"scheduled"`
	Tags               []string               `json:"tags"`
	CreatedAt          string                 `json:"created_at"`
	ModifiedAt         string                 `json:"modified_at"`
	CompletedAt        string                 `json:"completed_at"`
	Project            string                 `json:"project,omitempty"`
	ClaimedBy          string                 `json:"claimed_by,omitempty"`
	ClaimedAt          string                 `json:"claimed_at"`
	ParentTaskID       string                 `json:"parent_task_id,omitempty"`
	DependsOn          []string               `json:"depends_on"`
	Discussion         []models.Comment       `json:"discussion"`
	CodeRefs           []models.FileReference `json:"code_refs"`
	AcceptanceCriteria []string               `json:"acceptance_criteria"`
	Metadata           map[string]any         `json:"metadata"`
	Annotations        []models.Annotation    `json:"annotations"`
	Urgency            float64                `json:"urgency"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// Accept local-time stamps without an offset, as written by older
	// tskr versions.
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// marshalTask encodes a task into its on-disk JSON document.
func marshalTask(t *models.Task) ([]byte, error) {
	doc := taskDocument{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		Due:                formatTimePtr(t.Due),
		Scheduled:          formatTimePtr(t.Scheduled),
		Tags:               t.Tags,
		CreatedAt:          formatTime(t.CreatedAt),
		ModifiedAt:         formatTime(t.ModifiedAt),
		CompletedAt:        formatTimePtr(t.CompletedAt),
		Project:            t.Project,
		ClaimedBy:          t.ClaimedBy,
		ClaimedAt:          formatTimePtr(t.ClaimedAt),
		ParentTaskID:       t.ParentTaskID,
		DependsOn:          t.DependsOn,
		Discussion:         t.Discussion,
		CodeRefs:           t.CodeRefs,
		AcceptanceCriteria: t.AcceptanceCriteria,
		Metadata:           t.Metadata,
		Annotations:        t.Annotations,
		Urgency:            t.Urgency,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// unmarshalTask decodes an on-disk JSON document into a task.
func unmarshalTask(data []byte) (*models.Task, error) {
	var doc taskDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing task JSON: %w", err)
	}

	status := models.Status(doc.Status)
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", doc.Status)
	}
	priority := models.Priority(doc.Priority)
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q", doc.Priority)
	}

	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	modifiedAt, err := parseTime(doc.ModifiedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing modified_at: %w", err)
	}
	due, err := parseTimePtr(doc.Due)
	if err != nil {
		return nil, fmt.Errorf("parsing due: %w", err)
	}
	scheduled, err := parseTimePtr(doc.Scheduled)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled: %w", err)
	}
	completedAt, err := parseTimePtr(doc.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing completed_at: %w", err)
	}
	claimedAt, err := parseTimePtr(doc.ClaimedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing claimed_at: %w", err)
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &models.Task{
		ID:                 doc.ID,
		Title:              doc.Title,
		Description:        doc.Description,
		Status:             status,
		Priority:           priority,
		Due:                due,
		Scheduled:          scheduled,
		Tags:               doc.Tags,
		CreatedAt:          createdAt,
		ModifiedAt:         modifiedAt,
		CompletedAt:        completedAt,
		Project:            doc.Project,
		ClaimedBy:          doc.ClaimedBy,
		ClaimedAt:          claimedAt,
		ParentTaskID:       doc.ParentTaskID,
		DependsOn:          doc.DependsOn,
		Discussion:         doc.Discussion,
		CodeRefs:           doc.CodeRefs,
		AcceptanceCriteria: doc.AcceptanceCriteria,
		Metadata:           metadata,
		Annotations:        doc.Annotations,
		Urgency:            doc.Urgency,
	}, nil
}
