package models

import "time"

// Event type codes recorded in the coordination log. The set is open:
// readers must tolerate codes they do not recognize.
const (
	EventTaskCreated    = "task_created"
	EventTaskClaimed    = "task_claimed"
	EventTaskUnclaimed  = "task_unclaimed"
	EventTaskCompleted  = "task_completed"
	EventTaskModified   = "task_modified"
	EventTaskDeleted    = "task_deleted"
	EventTaskArchived   = "task_archived"
	EventTaskCommented  = "task_commented"
	EventProjectCreated = "project_created"
)

// Event is one entry in the append-only coordination log. Each event is
// serialized as a single JSON object on its own line in .tskr/events.log.
type Event struct {
	Timestamp time.Time      `json:"ts"`
	EventType string         `json:"event"`
	TaskID    string         `json:"task_id"`
	Actor     string         `json:"actor"`
	Details   map[string]any `json:"details"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType, taskID, actor string, details map[string]any) Event {
	if details == nil {
		details = map[string]any{}
	}
	return Event{
		Timestamp: time.Now(),
		EventType: eventType,
		TaskID:    taskID,
		Actor:     actor,
		Details:   details,
	}
}
