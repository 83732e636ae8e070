package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tskr-dev/tskr/internal/query"
	"github.com/tskr-dev/tskr/pkg/models"
)

// TaskRepository is the whole-file storage variant: every task lives in a
// single JSON array at tasks.json. It predates the status-partitioned
// store and is kept as an alternative backend; both share the export
// envelope and the query pipeline.
type TaskRepository struct {
	dataDir   string
	tasksFile string
	warn      WarnFunc
	cache     []models.Task
	loaded    bool
}

// ExportData is the envelope produced by Export and consumed by Import.
type ExportData struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Tasks      []json.RawMessage `json:"tasks"`
}

// NewTaskRepository creates a repository storing tasks.json under dataDir.
// When dataDir is empty, ~/.local/share/tskr is used. warn may be nil.
func NewTaskRepository(dataDir string, warn WarnFunc) (*TaskRepository, error) {
	if warn == nil {
		warn = stderrWarn
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share", "tskr")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &TaskRepository{
		dataDir:   dataDir,
		tasksFile: filepath.Join(dataDir, "tasks.json"),
		warn:      warn,
	}, nil
}

// loadTasks reads the whole task array. A file that fails to parse is
// backed up under a timestamped name and the repository falls back to an
// empty collection rather than failing.
func (r *TaskRepository) loadTasks() []models.Task {
	data, err := os.ReadFile(r.tasksFile)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warn("failed to read tasks file: %v", err)
		}
		return nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		r.warn("failed to load tasks: %v", err)
		r.backupCorrupt(data)
		return nil
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := unmarshalTask(doc)
		if err != nil {
			r.warn("failed to load task: %v", err)
			continue
		}
		task.CalculateUrgency()
		tasks = append(tasks, *task)
	}
	return tasks
}

func (r *TaskRepository) backupCorrupt(data []byte) {
	backup := filepath.Join(r.dataDir, fmt.Sprintf("tasks.json.backup.%d", time.Now().Unix()))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		r.warn("failed to back up corrupted tasks file: %v", err)
		return
	}
	r.warn("corrupted file backed up to: %s", backup)
}

// saveTasks writes the whole array atomically via temp-then-rename and
// invalidates the cache.
func (r *TaskRepository) saveTasks(tasks []models.Task) error {
	docs := make([]json.RawMessage, 0, len(tasks))
	for i := range tasks {
		doc, err := marshalTask(&tasks[i])
		if err != nil {
			return fmt.Errorf("serializing task %s: %w", tasks[i].ID, err)
		}
		docs = append(docs, doc)
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tasks: %w", err)
	}

	tmpPath := r.tasksFile + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing tasks file: %w", err)
	}
	if err := os.Rename(tmpPath, r.tasksFile); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming tasks file into place: %w", err)
	}

	r.cache = nil
	r.loaded = false
	return nil
}

// GetAll returns a copy of every task, loading from disk on first use.
func (r *TaskRepository) GetAll() []models.Task {
	if !r.loaded {
		r.cache = r.loadTasks()
		r.loaded = true
	}
	out := make([]models.Task, len(r.cache))
	copy(out, r.cache)
	return out
}

// GetByID returns the first task whose ID starts with idOrPrefix, or nil.
func (r *TaskRepository) GetByID(idOrPrefix string) *models.Task {
	if idOrPrefix == "" {
		return nil
	}
	for _, t := range r.GetAll() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			task := t
			return &task
		}
	}
	return nil
}

// GetFiltered returns tasks matching the filter, sorted and truncated by
// the shared query pipeline. Unlike the file store, the status criterion
// is applied here as an ordinary predicate.
func (r *TaskRepository) GetFiltered(filter models.TaskFilter) []models.Task {
	tasks := r.GetAll()
	if filter.Status != nil {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.Status == *filter.Status {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}
	return query.Apply(tasks, filter)
}

// Add appends a new task and persists the collection.
func (r *TaskRepository) Add(task *models.Task) error {
	tasks := r.GetAll()
	task.CalculateUrgency()
	tasks = append(tasks, *task)
	return r.saveTasks(tasks)
}

// Update replaces the stored task with the same ID. Returns false when no
// task matched.
func (r *TaskRepository) Update(task *models.Task) (bool, error) {
	tasks := r.GetAll()
	for i := range tasks {
		if tasks[i].ID == task.ID {
			task.ModifiedAt = time.Now()
			task.CalculateUrgency()
			tasks[i] = *task
			return true, r.saveTasks(tasks)
		}
	}
	return false, nil
}

// Delete permanently removes every task whose ID starts with idOrPrefix.
// Returns false when nothing matched.
func (r *TaskRepository) Delete(idOrPrefix string) (bool, error) {
	tasks := r.GetAll()
	kept := tasks[:0]
	for _, t := range tasks {
		if !strings.HasPrefix(t.ID, idOrPrefix) {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false, nil
	}
	return true, r.saveTasks(kept)
}

// Projects returns the sorted set of project names referenced by live
// (non-deleted) tasks.
func (r *TaskRepository) Projects() []string {
	set := map[string]struct{}{}
	for _, t := range r.GetAll() {
		if t.Project != "" && t.Status != models.StatusDeleted {
			set[t.Project] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Tags returns the sorted set of tags on live tasks.
func (r *TaskRepository) Tags() []string {
	set := map[string]struct{}{}
	for _, t := range r.GetAll() {
		if t.Status == models.StatusDeleted {
			continue
		}
		for _, tag := range t.Tags {
			set[tag] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Export writes every task as a portable JSON envelope.
func (r *TaskRepository) Export(w io.Writer) error {
	data, err := MarshalExport(r.GetAll())
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import merges tasks from an export envelope, skipping IDs already
// present and tasks that fail to parse. Returns the number imported.
func (r *TaskRepository) Import(data []byte) (int, error) {
	incoming, err := UnmarshalExport(data, r.warn)
	if err != nil {
		return 0, err
	}

	tasks := r.GetAll()
	existing := map[string]struct{}{}
	for _, t := range tasks {
		existing[t.ID] = struct{}{}
	}

	imported := 0
	for _, task := range incoming {
		if _, dup := existing[task.ID]; dup {
			continue
		}
		tasks = append(tasks, task)
		existing[task.ID] = struct{}{}
		imported++
	}

	if imported > 0 {
		if err := r.saveTasks(tasks); err != nil {
			return 0, err
		}
	}
	return imported, nil
}

// CleanupDeleted permanently removes logically-deleted tasks whose last
// modification is older than the given number of days. Returns the count
// removed.
func (r *TaskRepository) CleanupDeleted(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	tasks := r.GetAll()
	kept := tasks[:0]
	for _, t := range tasks {
		if t.Status == models.StatusDeleted && t.ModifiedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, t)
	}
	removed := len(tasks) - len(kept)
	if removed > 0 {
		if err := r.saveTasks(kept); err != nil {
			return 0, err
		}
	}
	return removed, nil
}
