package models

import "time"

// Sort keys accepted by TaskFilter.SortBy.
const (
	SortByUrgency  = "urgency"
	SortByDue      = "due"
	SortByPriority = "priority"
	SortByCreated  = "created"
)

// TaskFilter specifies criteria for querying tasks. All criteria combine
// with AND; the Tags criterion matches when the task carries any of the
// requested tags.
type TaskFilter struct {
	Status        *Status
	Priority      *Priority
	Project       string
	Tags          []string
	DueBefore     *time.Time
	DueAfter      *time.Time
	Search        string
	ClaimedBy     string
	UnclaimedOnly bool
	Limit         int
	SortBy        string
	SortDesc      bool
}

// DefaultFilter returns the filter used when a caller provides none:
// backlog tasks, sorted by descending urgency, capped at limit.
func DefaultFilter(limit int) TaskFilter {
	status := StatusBacklog
	return TaskFilter{
		Status:   &status,
		Limit:    limit,
		SortBy:   SortByUrgency,
		SortDesc: true,
	}
}
