package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tskr-dev/tskr/internal/taskpath"
	"github.com/tskr-dev/tskr/pkg/models"
)

// EventLog is the append-only coordination ledger. Events are serialized
// one JSON object per line; existing lines are never rewritten.
type EventLog interface {
	Append(event models.Event) error
	// ReadAll returns events in log order. When limit > 0, only the most
	// recent limit events are returned, still in original order.
	ReadAll(limit int) ([]models.Event, error)
}

type fileEventLog struct {
	path string
	warn WarnFunc
}

// NewEventLog creates an EventLog for the project rooted at projectRoot,
// backed by .tskr/events.log. warn may be nil.
func NewEventLog(projectRoot string, warn WarnFunc) EventLog {
	if warn == nil {
		warn = stderrWarn
	}
	return &fileEventLog{path: taskpath.EventsPath(projectRoot), warn: warn}
}

func (l *fileEventLog) Append(event models.Event) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

func (l *fileEventLog) ReadAll(limit int) ([]models.Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	var events []models.Event
	scanner := bufio.NewScanner(f)
	// Events with large detail payloads can exceed the scanner's default
	// 64KB line cap.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event models.Event
		if err := json.Unmarshal(line, &event); err != nil {
			// A corrupt line does not abort the read.
			l.warn("failed to parse event log line: %v", err)
			continue
		}
		if event.Actor == "" {
			event.Actor = "unknown"
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
