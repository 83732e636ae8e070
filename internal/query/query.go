// Package query implements the storage-independent filter, sort, and
// limit pipeline over an in-memory task collection. Both the file-per-task
// store and the flat-array repository consume it, so the two backends
// cannot drift apart in query semantics.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/tskr-dev/tskr/pkg/models"
)

// Apply filters, sorts, and truncates tasks according to f. The input
// slice is not modified. Predicates combine with AND and run in a fixed
// order: priority, tags, due_before, due_after, search, claimed_by,
// unclaimed_only. The tags predicate matches when the task carries any
// requested tag; search is a case-insensitive substring match over title,
// description, and tags.
//
// The status criterion is not applied here: backends resolve it when
// enumerating (the file store reads only the matching status directory).
func Apply(tasks []models.Task, f models.TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(&t, f) {
			out = append(out, t)
		}
	}

	sortTasks(out, f.SortBy, f.SortDesc)

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Matches reports whether a single task satisfies every non-status
// criterion of the filter.
func Matches(t *models.Task, f models.TaskFilter) bool {
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Project != "" && t.Project != f.Project {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(t.Tags, f.Tags) {
		return false
	}
	if f.DueBefore != nil && (t.Due == nil || t.Due.After(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (t.Due == nil || t.Due.Before(*f.DueAfter)) {
		return false
	}
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	if f.ClaimedBy != "" && t.ClaimedBy != f.ClaimedBy {
		return false
	}
	if f.UnclaimedOnly && t.IsClaimed() {
		return false
	}
	return true
}

func hasAnyTag(taskTags, wanted []string) bool {
	for _, w := range wanted {
		for _, tag := range taskTags {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func matchesSearch(t *models.Task, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// farFuture stands in for a missing due date so undated tasks sort as if
// due infinitely far in the future.
var farFuture = time.Unix(1<<62, 0)

func sortTasks(tasks []models.Task, sortBy string, desc bool) {
	switch sortBy {
	case models.SortByUrgency:
		sort.SliceStable(tasks, func(i, j int) bool {
			if desc {
				return tasks[i].Urgency > tasks[j].Urgency
			}
			return tasks[i].Urgency < tasks[j].Urgency
		})
	case models.SortByDue:
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := dueOrFarFuture(&tasks[i]), dueOrFarFuture(&tasks[j])
			if desc {
				return dj.Before(di)
			}
			return di.Before(dj)
		})
	case models.SortByPriority:
		// Rank 1 is the highest priority, so the direction is inverted
		// relative to the flag: desc=true means ascending rank.
		sort.SliceStable(tasks, func(i, j int) bool {
			ri, rj := tasks[i].Priority.SortOrder(), tasks[j].Priority.SortOrder()
			if desc {
				return ri < rj
			}
			return ri > rj
		})
	case models.SortByCreated:
		sort.SliceStable(tasks, func(i, j int) bool {
			if desc {
				return tasks[j].CreatedAt.Before(tasks[i].CreatedAt)
			}
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	}
}

func dueOrFarFuture(t *models.Task) time.Time {
	if t.Due == nil {
		return farFuture
	}
	return *t.Due
}
