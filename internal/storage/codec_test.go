package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/tskr-dev/tskr/pkg/models"
)

func TestCodec_RoundTripPreservesFields(t *testing.T) {
	task := models.NewTask("codec check")
	task.Description = "multi\nline"
	task.Priority = models.PriorityLow
	task.Status = models.StatusPending
	task.Tags = []string{"a", "b"}
	task.ClaimedBy = "alice"
	now := time.Now().Truncate(time.Second)
	task.ClaimedAt = &now
	task.AddComment("bob", "note")
	task.AddCodeRef("main.go", "entry point")
	task.Metadata = map[string]any{"source": "import"}

	data, err := marshalTask(task)
	if err != nil {
		t.Fatalf("marshalTask: %v", err)
	}

	got, err := unmarshalTask(data)
	if err != nil {
		t.Fatalf("unmarshalTask: %v", err)
	}

	if got.ID != task.ID || got.Title != task.Title || got.Description != task.Description {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.Status != models.StatusPending || got.Priority != models.PriorityLow {
		t.Errorf("status/priority mismatch: %s/%s", got.Status, got.Priority)
	}
	if got.ClaimedAt == nil || !got.ClaimedAt.Equal(now) {
		t.Errorf("ClaimedAt = %v, want %v", got.ClaimedAt, now)
	}
	if len(got.Discussion) != 1 || len(got.CodeRefs) != 1 {
		t.Errorf("nested collections lost: %+v", got)
	}
	if got.Metadata["source"] != "import" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestCodec_UnsetTimesAreEmptyStrings(t *testing.T) {
	task := models.NewTask("no dates")

	data, err := marshalTask(task)
	if err != nil {
		t.Fatalf("marshalTask: %v", err)
	}
	if !strings.Contains(string(data), `"due": ""`) {
		t.Errorf("unset due not serialized as empty string:\n%s", data)
	}

	got, err := unmarshalTask(data)
	if err != nil {
		t.Fatalf("unmarshalTask: %v", err)
	}
	if got.Due != nil || got.CompletedAt != nil || got.ClaimedAt != nil {
		t.Errorf("expected nil optional times, got %+v", got)
	}
}

func TestCodec_RejectsUnknownStatus(t *testing.T) {
	task := models.NewTask("bad status")
	data, err := marshalTask(task)
	if err != nil {
		t.Fatalf("marshalTask: %v", err)
	}

	broken := strings.Replace(string(data), `"status": "backlog"`, `"status": "limbo"`, 1)
	if _, err := unmarshalTask([]byte(broken)); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestCodec_RejectsUnknownPriority(t *testing.T) {
	task := models.NewTask("bad priority")
	data, err := marshalTask(task)
	if err != nil {
		t.Fatalf("marshalTask: %v", err)
	}

	broken := strings.Replace(string(data), `"priority": ""`, `"priority": "urgent"`, 1)
	if _, err := unmarshalTask([]byte(broken)); err == nil {
		t.Fatal("expected an error for an unknown priority")
	}
}

func TestCodec_AcceptsLocalTimestamps(t *testing.T) {
	// Older files carry local-time stamps without a zone offset.
	doc := `{
  "id": "legacy-1",
  "title": "legacy task",
  "status": "backlog",
  "priority": "M",
  "created_at": "2025-03-01T09:00:00",
  "modified_at": "2025-03-01T09:00:00.123456",
  "due": "",
  "scheduled": "",
  "completed_at": "",
  "claimed_at": ""
}`
	got, err := unmarshalTask([]byte(doc))
	if err != nil {
		t.Fatalf("unmarshalTask: %v", err)
	}
	if got.CreatedAt.Year() != 2025 || got.CreatedAt.Hour() != 9 {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
}

func TestCodec_RejectsMalformedTimestamp(t *testing.T) {
	doc := `{
  "id": "bad-1",
  "title": "bad time",
  "status": "backlog",
  "priority": "",
  "created_at": "last tuesday",
  "modified_at": "2025-03-01T09:00:00Z",
  "due": "", "scheduled": "", "completed_at": "", "claimed_at": ""
}`
	if _, err := unmarshalTask([]byte(doc)); err == nil {
		t.Fatal("expected an error for a malformed created_at")
	}
}
