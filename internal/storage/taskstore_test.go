package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

func newTestStore(t *testing.T) (TaskStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewTaskStore(root, func(format string, args ...any) {})
	if err != nil {
		t.Fatalf("NewTaskStore: %v", err)
	}
	return store, root
}

func TestTaskStore_SaveAndGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	task := models.NewTask("round trip")
	task.Description = "a description"
	task.Priority = models.PriorityMedium
	task.Tags = []string{"bug", "backend"}
	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task.Due = &due

	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a saved task")
	}
	if got.Title != task.Title || got.Description != task.Description {
		t.Errorf("round trip mismatch: got %q/%q", got.Title, got.Description)
	}
	if got.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want M", got.Priority)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Due == nil || !got.Due.Equal(due) {
		t.Errorf("Due = %v, want %v", got.Due, due)
	}
	if got.Urgency == 0 {
		t.Error("expected urgency recomputed on load")
	}
}

func TestTaskStore_GetByShortID(t *testing.T) {
	store, _ := newTestStore(t)

	task := models.NewTask("short id lookup")
	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(task.ShortID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != task.ID {
		t.Fatalf("short ID %s did not resolve to %s", task.ShortID(), task.ID)
	}
}

func TestTaskStore_GetMissingReturnsNil(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil", got)
	}
}

func TestTaskStore_StatusChangeMovesFile(t *testing.T) {
	store, root := newTestStore(t)

	task := models.NewTask("mover")
	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	oldPath := taskpath.TaskFile(root, models.StatusBacklog, task.ID)
	if _, err := os.Stat(oldPath); err != nil {
		t.Fatalf("expected file in backlog: %v", err)
	}

	task.Status = models.StatusPending
	if err := store.Save(task); err != nil {
		t.Fatalf("Save after status change: %v", err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old backlog file still exists after status change")
	}
	newPath := taskpath.TaskFile(root, models.StatusPending, task.ID)
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("expected file in pending: %v", err)
	}
}

func TestTaskStore_PrefixPrefersEarlierStatus(t *testing.T) {
	store, _ := newTestStore(t)

	// Two tasks whose IDs share a prefix, in different statuses. The
	// status scan order decides which one a short prefix resolves to.
	backlog := models.NewTask("in backlog")
	backlog.ID = "aaaa1111-0000-0000-0000-000000000001"
	if err := store.Save(backlog); err != nil {
		t.Fatalf("Save: %v", err)
	}

	completed := models.NewTask("already done")
	completed.ID = "aaaa2222-0000-0000-0000-000000000002"
	completed.Status = models.StatusCompleted
	if err := store.Save(completed); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get("aaaa")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != backlog.ID {
		t.Fatalf("prefix resolved to %v, want the backlog task", got)
	}
}

func TestTaskStore_ExactMatchBeatsPrefixInSameStatus(t *testing.T) {
	store, _ := newTestStore(t)

	long := models.NewTask("longer id")
	long.ID = "bbbb0000-extra"
	if err := store.Save(long); err != nil {
		t.Fatalf("Save: %v", err)
	}

	exact := models.NewTask("exact id")
	exact.ID = "bbbb0000"
	if err := store.Save(exact); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get("bbbb0000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != exact.ID {
		t.Fatalf("resolved to %v, want the exact match", got)
	}
}

func TestTaskStore_DeleteSoftArchives(t *testing.T) {
	store, root := newTestStore(t)

	task := models.NewTask("to archive")
	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deleted, err := store.Delete(task.ID, false)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete returned false")
	}

	got, err := store.Get(task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Status != models.StatusArchived {
		t.Fatalf("task = %+v, want archived", got)
	}

	oldPath := taskpath.TaskFile(root, models.StatusBacklog, task.ID)
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("backlog file still exists after archive")
	}
}

func TestTaskStore_DeletePermanentRemovesFile(t *testing.T) {
	store, _ := newTestStore(t)

	task := models.NewTask("to remove")
	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deleted, err := store.Delete(task.ID, true)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete returned false")
	}

	got, err := store.Get(task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("task still resolvable after permanent delete: %+v", got)
	}
}

func TestTaskStore_DeleteMissingReturnsFalse(t *testing.T) {
	store, _ := newTestStore(t)

	deleted, err := store.Delete("nope", false)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("Delete reported success for a missing task")
	}
}

func TestTaskStore_ListAllSkipsCorruptFiles(t *testing.T) {
	root := t.TempDir()
	var warnings int
	store, err := NewTaskStore(root, func(format string, args ...any) { warnings++ })
	if err != nil {
		t.Fatalf("NewTaskStore: %v", err)
	}

	good := models.NewTask("good")
	if err := store.Save(good); err != nil {
		t.Fatalf("Save: %v", err)
	}

	corrupt := filepath.Join(taskpath.StatusDir(root, models.StatusBacklog), "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := store.ListAll(nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != good.ID {
		t.Fatalf("tasks = %v, want only the good one", tasks)
	}
	if warnings == 0 {
		t.Error("expected a warning for the corrupt file")
	}
}

func TestTaskStore_ListAllWithStatus(t *testing.T) {
	store, _ := newTestStore(t)

	backlog := models.NewTask("backlog task")
	if err := store.Save(backlog); err != nil {
		t.Fatalf("Save: %v", err)
	}
	pending := models.NewTask("pending task")
	pending.Status = models.StatusPending
	if err := store.Save(pending); err != nil {
		t.Fatalf("Save: %v", err)
	}

	status := models.StatusPending
	tasks, err := store.ListAll(&status)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != pending.ID {
		t.Fatalf("tasks = %v, want only the pending task", tasks)
	}
}

func TestTaskStore_ListFilteredSortsByUrgency(t *testing.T) {
	store, _ := newTestStore(t)

	low := models.NewTask("low")
	if err := store.Save(low); err != nil {
		t.Fatalf("Save: %v", err)
	}
	high := models.NewTask("high")
	high.Priority = models.PriorityHigh
	if err := store.Save(high); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tasks, err := store.ListFiltered(models.TaskFilter{SortBy: models.SortByUrgency, SortDesc: true})
	if err != nil {
		t.Fatalf("ListFiltered: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != high.ID {
		t.Fatalf("tasks = %v, want high first", tasks)
	}
}

func TestTaskStore_NoTempFilesLeftBehind(t *testing.T) {
	store, root := newTestStore(t)

	task := models.NewTask("clean writes")
	if err := store.Save(task); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var stray []string
	filepath.Walk(taskpath.Dir(root), func(path string, info os.FileInfo, err error) error {
		if err == nil && filepath.Ext(path) == ".tmp" {
			stray = append(stray, path)
		}
		return nil
	})
	if len(stray) > 0 {
		t.Errorf("temp files left behind: %v", stray)
	}
}
