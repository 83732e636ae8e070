package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tskr-dev/tskr/internal/storage"
	"github.com/tskr-dev/tskr/pkg/models"
)

// ErrNotInProject is returned when an operation requires a project
// context and none encloses the working directory.
var ErrNotInProject = errors.New("not in a tskr project (run 'tskr init .' first)")

// ErrTaskClaimed is returned when claiming a task someone already holds.
// It is distinct from not-found: the task exists, the claim is refused.
var ErrTaskClaimed = errors.New("task already claimed")

// ErrTaskNotClaimed is returned when unclaiming a task nobody holds.
var ErrTaskNotClaimed = errors.New("task is not claimed")

// CreateTaskOpts carries the optional fields for task creation.
type CreateTaskOpts struct {
	Description        string
	Priority           models.Priority
	Due                *time.Time
	Scheduled          *time.Time
	Tags               []string
	Project            string
	DependsOn          []string
	AcceptanceCriteria []string
}

// ModifyTaskOpts patches an existing task. Tags replaces the tag list
// wholesale; AddTags and RemoveTags adjust it incrementally.
type ModifyTaskOpts struct {
	Patch      models.TaskPatch
	AddTags    []string
	RemoveTags []string
}

// TaskService is the business-logic layer over the task store and event
// log. Every mutation is paired with exactly one event append; the two
// writes are separate filesystem operations with no cross-file
// transaction, so callers must tolerate one landing without the other
// after a crash.
type TaskService interface {
	Create(title string, opts CreateTaskOpts, actor string) (*models.Task, error)
	Get(idOrPrefix string) (*models.Task, error)
	List(filter *models.TaskFilter) ([]models.Task, error)
	Search(queryText string, limit int) ([]models.Task, error)
	Claim(idOrPrefix, actor string) (*models.Task, error)
	Unclaim(idOrPrefix, actor string) (*models.Task, error)
	Complete(idOrPrefix, actor string) (*models.Task, error)
	Delete(idOrPrefix string, permanent bool, actor string) (bool, error)
	Modify(idOrPrefix string, opts ModifyTaskOpts, actor string) (*models.Task, error)
	Comment(idOrPrefix, content, actor string) (*models.Task, error)
	// Export writes every task in the project as a portable JSON envelope.
	Export(w io.Writer) error
	// Import merges tasks from an export envelope, skipping IDs already
	// present. Returns the number of tasks imported.
	Import(data []byte, actor string) (int, error)
	RecentEvents(limit int) ([]models.Event, error)
	DefaultListLimit() int
}

type taskService struct {
	store     storage.TaskStore
	eventLog  storage.EventLog
	listLimit int
}

// NewTaskService wires a TaskService from its storage dependencies.
// listLimit is the default result cap when a caller lists without a
// filter; zero means 20.
func NewTaskService(store storage.TaskStore, eventLog storage.EventLog, listLimit int) TaskService {
	if listLimit <= 0 {
		listLimit = 20
	}
	return &taskService{store: store, eventLog: eventLog, listLimit: listLimit}
}

func (s *taskService) DefaultListLimit() int {
	return s.listLimit
}

func (s *taskService) Create(title string, opts CreateTaskOpts, actor string) (*models.Task, error) {
	task := models.NewTask(title)
	task.Description = opts.Description
	task.Priority = opts.Priority
	task.Due = opts.Due
	task.Scheduled = opts.Scheduled
	task.Tags = opts.Tags
	task.Project = opts.Project
	task.DependsOn = opts.DependsOn
	task.AcceptanceCriteria = opts.AcceptanceCriteria
	// Creation always lands in the backlog regardless of options.
	task.Status = models.StatusBacklog

	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving task: %w", err)
	}

	s.logEvent(models.EventTaskCreated, task.ID, actor, map[string]any{
		"title":    title,
		"priority": string(opts.Priority),
	})
	return task, nil
}

func (s *taskService) Get(idOrPrefix string) (*models.Task, error) {
	return s.store.Get(idOrPrefix)
}

func (s *taskService) List(filter *models.TaskFilter) ([]models.Task, error) {
	if filter == nil {
		f := models.DefaultFilter(s.listLimit)
		filter = &f
	}
	return s.store.ListFiltered(*filter)
}

func (s *taskService) Search(queryText string, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = s.listLimit
	}
	return s.store.ListFiltered(models.TaskFilter{
		Search:   queryText,
		Limit:    limit,
		SortBy:   models.SortByUrgency,
		SortDesc: true,
	})
}

// Claim performs the double-claim check here in the service rather than
// in the store, matching the single-writer model: it is a check-then-act
// with a window that concurrent processes could race through.
func (s *taskService) Claim(idOrPrefix, actor string) (*models.Task, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return nil, err
	}

	if task.IsClaimed() {
		return nil, fmt.Errorf("%w by %s", ErrTaskClaimed, task.ClaimedBy)
	}

	task.Claim(actor)
	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving claimed task: %w", err)
	}

	s.logEvent(models.EventTaskClaimed, task.ID, actor, map[string]any{"title": task.Title})
	return task, nil
}

func (s *taskService) Unclaim(idOrPrefix, actor string) (*models.Task, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return nil, err
	}

	if !task.IsClaimed() {
		return nil, ErrTaskNotClaimed
	}

	task.Unclaim()
	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving unclaimed task: %w", err)
	}

	s.logEvent(models.EventTaskUnclaimed, task.ID, actor, map[string]any{"title": task.Title})
	return task, nil
}

func (s *taskService) Complete(idOrPrefix, actor string) (*models.Task, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return nil, err
	}

	if task.Status == models.StatusCompleted {
		return task, nil
	}

	task.MarkComplete()
	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving completed task: %w", err)
	}

	s.logEvent(models.EventTaskCompleted, task.ID, actor, map[string]any{"title": task.Title})
	return task, nil
}

func (s *taskService) Delete(idOrPrefix string, permanent bool, actor string) (bool, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return false, err
	}

	ok, err := s.store.Delete(idOrPrefix, permanent)
	if err != nil || !ok {
		return ok, err
	}

	eventType := models.EventTaskArchived
	if permanent {
		eventType = models.EventTaskDeleted
	}
	s.logEvent(eventType, task.ID, actor, map[string]any{
		"title":     task.Title,
		"permanent": permanent,
	})
	return true, nil
}

func (s *taskService) Modify(idOrPrefix string, opts ModifyTaskOpts, actor string) (*models.Task, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return nil, err
	}

	task.Apply(opts.Patch)

	for _, tag := range opts.AddTags {
		if !containsTag(task.Tags, tag) {
			task.Tags = append(task.Tags, tag)
		}
	}
	if len(opts.RemoveTags) > 0 {
		kept := task.Tags[:0]
		for _, tag := range task.Tags {
			if !containsTag(opts.RemoveTags, tag) {
				kept = append(kept, tag)
			}
		}
		task.Tags = kept
	}

	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving modified task: %w", err)
	}

	s.logEvent(models.EventTaskModified, task.ID, actor, map[string]any{"title": task.Title})
	return task, nil
}

func (s *taskService) Comment(idOrPrefix, content, actor string) (*models.Task, error) {
	task, err := s.store.Get(idOrPrefix)
	if err != nil || task == nil {
		return nil, err
	}

	task.AddComment(actor, content)
	if err := s.store.Save(task); err != nil {
		return nil, fmt.Errorf("saving commented task: %w", err)
	}

	s.logEvent(models.EventTaskCommented, task.ID, actor, map[string]any{"title": task.Title})
	return task, nil
}

func (s *taskService) Export(w io.Writer) error {
	tasks, err := s.store.ListAll(nil)
	if err != nil {
		return fmt.Errorf("listing tasks for export: %w", err)
	}
	data, err := storage.MarshalExport(tasks)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func (s *taskService) Import(data []byte, actor string) (int, error) {
	incoming, err := storage.UnmarshalExport(data, nil)
	if err != nil {
		return 0, err
	}

	imported := 0
	for i := range incoming {
		task := incoming[i]
		existing, err := s.store.Get(task.ID)
		if err != nil {
			return imported, err
		}
		if existing != nil {
			continue
		}
		if err := s.store.Save(&task); err != nil {
			return imported, fmt.Errorf("saving imported task %s: %w", task.ID, err)
		}
		s.logEvent(models.EventTaskCreated, task.ID, actor, map[string]any{
			"title":  task.Title,
			"source": "import",
		})
		imported++
	}
	return imported, nil
}

func (s *taskService) RecentEvents(limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.eventLog.ReadAll(limit)
}

func (s *taskService) logEvent(eventType, taskID, actor string, details map[string]any) {
	if actor == "" {
		actor = "unknown"
	}
	event := models.NewEvent(eventType, taskID, actor, details)
	if err := s.eventLog.Append(event); err != nil {
		// The task mutation already landed; a failed log append must not
		// unwind it. Surface the problem and move on.
		fmt.Fprintf(os.Stderr, "Warning: failed to append event: %v\n", err)
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
