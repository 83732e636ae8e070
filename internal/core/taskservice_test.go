package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tskr-dev/tskr/internal/storage"
	"github.com/tskr-dev/tskr/pkg/models"
)

func newTestService(t *testing.T) TaskService {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewTaskStore(root, func(format string, args ...any) {})
	if err != nil {
		t.Fatalf("NewTaskStore: %v", err)
	}
	eventLog := storage.NewEventLog(root, func(format string, args ...any) {})
	return NewTaskService(store, eventLog, 20)
}

func TestService_CreateLandsInBacklog(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.Create("new work", CreateTaskOpts{Priority: models.PriorityHigh}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != models.StatusBacklog {
		t.Errorf("Status = %s, want backlog", task.Status)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("Priority = %q, want H", task.Priority)
	}

	events, err := svc.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 1 || events[0].EventType != models.EventTaskCreated {
		t.Fatalf("events = %v, want one task_created", events)
	}
	if events[0].TaskID != task.ID || events[0].Actor != "alice" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestService_ClaimMovesToPending(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("claimable", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := svc.Claim(created.ShortID(), "bob")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if claimed.Status != models.StatusPending {
		t.Errorf("Status = %s, want pending", claimed.Status)
	}
	if claimed.ClaimedBy != "bob" {
		t.Errorf("ClaimedBy = %q, want bob", claimed.ClaimedBy)
	}
}

func TestService_DoubleClaimRefused(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("contested", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Claim(created.ID, "bob"); err != nil {
		t.Fatalf("first Claim: %v", err)
	}

	_, err = svc.Claim(created.ID, "carol")
	if !errors.Is(err, ErrTaskClaimed) {
		t.Fatalf("second Claim err = %v, want ErrTaskClaimed", err)
	}

	// The original claim survives.
	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClaimedBy != "bob" {
		t.Errorf("ClaimedBy = %q, want bob", got.ClaimedBy)
	}
}

func TestService_UnclaimRequiresClaim(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("free", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Unclaim(created.ID, "alice"); !errors.Is(err, ErrTaskNotClaimed) {
		t.Fatalf("Unclaim err = %v, want ErrTaskNotClaimed", err)
	}
}

func TestService_UnclaimReturnsToBacklog(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("returned", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Claim(created.ID, "bob"); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	released, err := svc.Unclaim(created.ID, "bob")
	if err != nil {
		t.Fatalf("Unclaim: %v", err)
	}
	if released.Status != models.StatusBacklog || released.IsClaimed() {
		t.Errorf("task = %+v, want unclaimed backlog", released)
	}
}

func TestService_CompleteIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("finishable", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.Complete(created.ID, "alice")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if first.Status != models.StatusCompleted || first.CompletedAt == nil {
		t.Fatalf("task = %+v, want completed", first)
	}

	if _, err := svc.Complete(created.ID, "alice"); err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	// Only one completion event: the second call was a no-op.
	events, err := svc.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	var completions int
	for _, ev := range events {
		if ev.EventType == models.EventTaskCompleted {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
}

func TestService_DeleteArchivesByDefault(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("deletable", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := svc.Delete(created.ID, false, "alice")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Fatal("Delete returned false")
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Status != models.StatusArchived {
		t.Fatalf("task = %+v, want archived", got)
	}

	events, err := svc.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	last := events[len(events)-1]
	if last.EventType != models.EventTaskArchived {
		t.Errorf("last event = %s, want task_archived", last.EventType)
	}
}

func TestService_DeletePermanentLogsDeleted(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("gone", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := svc.Delete(created.ID, true, "alice")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Fatal("Delete returned false")
	}

	if got, _ := svc.Get(created.ID); got != nil {
		t.Fatalf("task still present: %+v", got)
	}

	events, err := svc.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	last := events[len(events)-1]
	if last.EventType != models.EventTaskDeleted {
		t.Errorf("last event = %s, want task_deleted", last.EventType)
	}
}

func TestService_ModifyAddAndRemoveTags(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("tagged", CreateTaskOpts{Tags: []string{"old", "keep"}}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "renamed"
	modified, err := svc.Modify(created.ID, ModifyTaskOpts{
		Patch:      models.TaskPatch{Title: &title},
		AddTags:    []string{"new", "keep"},
		RemoveTags: []string{"old"},
	}, "alice")
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}

	if modified.Title != "renamed" {
		t.Errorf("Title = %q, want renamed", modified.Title)
	}
	want := map[string]bool{"keep": true, "new": true}
	if len(modified.Tags) != 2 {
		t.Fatalf("Tags = %v, want [keep new]", modified.Tags)
	}
	for _, tag := range modified.Tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestService_CommentAppendsDiscussion(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create("discussed", CreateTaskOpts{}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	commented, err := svc.Comment(created.ID, "first note", "bob")
	if err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if len(commented.Discussion) != 1 || commented.Discussion[0].Author != "bob" {
		t.Fatalf("Discussion = %v", commented.Discussion)
	}
}

func TestService_SearchFindsByTitle(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create("fix the login flow", CreateTaskOpts{}, "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create("unrelated chore", CreateTaskOpts{}, "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.Search("login", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].Title != "fix the login flow" {
		t.Fatalf("found = %v, want the login task", found)
	}
}

func TestService_ExportImportBetweenProjects(t *testing.T) {
	src := newTestService(t)
	dst := newTestService(t)

	one, err := src.Create("portable one", CreateTaskOpts{Priority: models.PriorityHigh}, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := src.Create("portable two", CreateTaskOpts{Tags: []string{"infra"}}, "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	imported, err := dst.Import(buf.Bytes(), "migrator")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 2 {
		t.Fatalf("imported = %d, want 2", imported)
	}

	got, err := dst.Get(one.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Priority != models.PriorityHigh {
		t.Fatalf("task = %+v, want the high-priority import", got)
	}

	// Re-importing the same envelope is a no-op.
	imported, err = dst.Import(buf.Bytes(), "migrator")
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if imported != 0 {
		t.Fatalf("second import = %d, want 0", imported)
	}
}

func TestService_GetMissingReturnsNil(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Get("absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}
