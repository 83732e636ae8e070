// Package storage provides the persistence layer for tskr: the
// status-partitioned file-per-task store, the flat-array repository
// variant, the project document, and the append-only event log.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tskr-dev/tskr/internal/query"
	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

// TaskStore defines durable, atomic, status-partitioned persistence for
// one project's tasks.
type TaskStore interface {
	// Get resolves a full or short task ID and returns the hydrated task,
	// or nil when nothing matches.
	Get(idOrPrefix string) (*models.Task, error)
	// Save persists the task into its status directory, moving the file
	// when the status changed since the last save.
	Save(task *models.Task) error
	// Delete removes a task. With permanent=false the task is archived
	// instead. Returns false when no task matched.
	Delete(idOrPrefix string, permanent bool) (bool, error)
	// ListAll enumerates tasks, optionally restricted to one status.
	ListAll(status *models.Status) ([]models.Task, error)
	// ListFiltered enumerates, filters, sorts, and truncates.
	ListFiltered(filter models.TaskFilter) ([]models.Task, error)
}

// indexEntry locates one task file. Entries are ordered by the fixed
// status scan order, then by filename within a directory.
type indexEntry struct {
	id     string
	status models.Status
	path   string
}

type fileTaskStore struct {
	root string
	warn func(format string, args ...any)

	// index caches id -> location, rebuilt lazily after any write.
	index []indexEntry
	stale bool
}

// WarnFunc writes a non-fatal warning. The default writes to stderr.
type WarnFunc func(format string, args ...any)

func stderrWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// NewTaskStore creates a TaskStore rooted at the given project root,
// creating the .tskr/tasks status directories if missing. warn may be nil.
func NewTaskStore(projectRoot string, warn WarnFunc) (TaskStore, error) {
	if warn == nil {
		warn = stderrWarn
	}
	s := &fileTaskStore{root: projectRoot, warn: warn, stale: true}
	for _, status := range taskpath.ScanOrder {
		dir := taskpath.StatusDir(projectRoot, status)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating status directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// rebuildIndex scans the four status directories in the fixed order and
// records every task file. Within a directory, entries are sorted by ID so
// prefix resolution is deterministic regardless of readdir order.
func (s *fileTaskStore) rebuildIndex() error {
	var index []indexEntry
	for _, status := range taskpath.ScanOrder {
		dir := taskpath.StatusDir(s.root, status)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("scanning %s: %w", dir, err)
		}

		var ids []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
		sort.Strings(ids)

		for _, id := range ids {
			index = append(index, indexEntry{
				id:     id,
				status: status,
				path:   taskpath.TaskFile(s.root, status, id),
			})
		}
	}
	s.index = index
	s.stale = false
	return nil
}

// resolve finds the file for a full or short ID. Statuses are scanned in
// the fixed order; within each status an exact match is preferred over a
// prefix match before moving on. Returns nil when nothing matches.
func (s *fileTaskStore) resolve(idOrPrefix string) (*indexEntry, error) {
	if idOrPrefix == "" {
		return nil, nil
	}
	if s.stale {
		if err := s.rebuildIndex(); err != nil {
			return nil, err
		}
	}

	for _, status := range taskpath.ScanOrder {
		var firstPrefix *indexEntry
		for i := range s.index {
			e := &s.index[i]
			if e.status != status {
				continue
			}
			if e.id == idOrPrefix {
				return e, nil
			}
			if firstPrefix == nil && strings.HasPrefix(e.id, idOrPrefix) {
				firstPrefix = e
			}
		}
		if firstPrefix != nil {
			return firstPrefix, nil
		}
	}
	return nil, nil
}

func (s *fileTaskStore) loadTask(path string) (*models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file %s: %w", path, err)
	}
	task, err := unmarshalTask(data)
	if err != nil {
		return nil, fmt.Errorf("loading task from %s: %w", path, err)
	}
	task.CalculateUrgency()
	return task, nil
}

// writeTaskFile serializes the task and writes it with a
// write-to-temp-then-rename so a half-written file is never visible under
// the final name. On failure the temp file is removed and any previous
// file at path is left untouched.
func writeTaskFile(task *models.Task, path string) error {
	data, err := marshalTask(task)
	if err != nil {
		return fmt.Errorf("serializing task %s: %w", task.ID, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming task file into place: %w", err)
	}
	return nil
}

func (s *fileTaskStore) Get(idOrPrefix string) (*models.Task, error) {
	entry, err := s.resolve(idOrPrefix)
	if err != nil || entry == nil {
		return nil, err
	}
	return s.loadTask(entry.path)
}

func (s *fileTaskStore) Save(task *models.Task) error {
	// A file left over in a different status directory means the status
	// changed since the last save; remove it so exactly one file exists.
	existing, err := s.resolve(task.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.status != task.Status {
		if err := os.Remove(existing.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale task file %s: %w", existing.path, err)
		}
	}

	task.ModifiedAt = time.Now()
	task.CalculateUrgency()

	path := taskpath.TaskFile(s.root, task.Status, task.ID)
	if err := writeTaskFile(task, path); err != nil {
		return err
	}
	s.stale = true
	return nil
}

func (s *fileTaskStore) Delete(idOrPrefix string, permanent bool) (bool, error) {
	entry, err := s.resolve(idOrPrefix)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}

	if permanent {
		if err := os.Remove(entry.path); err != nil {
			return false, fmt.Errorf("deleting task file %s: %w", entry.path, err)
		}
		s.stale = true
		return true, nil
	}

	// Soft delete: archive through the normal save path, which moves the
	// file out of its old status directory.
	task, err := s.loadTask(entry.path)
	if err != nil {
		return false, err
	}
	task.Status = models.StatusArchived
	if err := s.Save(task); err != nil {
		return false, err
	}
	return true, nil
}

func (s *fileTaskStore) ListAll(status *models.Status) ([]models.Task, error) {
	statuses := taskpath.ScanOrder
	if status != nil {
		statuses = []models.Status{*status}
	}

	var tasks []models.Task
	for _, st := range statuses {
		dir := taskpath.StatusDir(s.root, st)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			task, err := s.loadTask(filepath.Join(dir, e.Name()))
			if err != nil {
				s.warn("failed to load task from %s: %v", filepath.Join(dir, e.Name()), err)
				continue
			}
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (s *fileTaskStore) ListFiltered(filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.ListAll(filter.Status)
	if err != nil {
		return nil, err
	}
	return query.Apply(tasks, filter), nil
}
