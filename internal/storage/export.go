package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tskr-dev/tskr/pkg/models"
)

// exportVersion is written into every envelope. Readers accept any
// version; the field exists so future readers can branch if the shape
// ever changes.
const exportVersion = "2.0.0"

// MarshalExport encodes tasks into the portable export envelope shared
// by both storage backends.
func MarshalExport(tasks []models.Task) ([]byte, error) {
	docs := make([]json.RawMessage, 0, len(tasks))
	for i := range tasks {
		doc, err := marshalTask(&tasks[i])
		if err != nil {
			return nil, fmt.Errorf("serializing task %s: %w", tasks[i].ID, err)
		}
		docs = append(docs, doc)
	}

	env := ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now().Format(time.RFC3339),
		Tasks:      docs,
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalExport decodes an export envelope. Individual tasks that fail
// to parse are skipped with a warning; a missing tasks field is an error.
// warn may be nil.
func UnmarshalExport(data []byte, warn WarnFunc) ([]models.Task, error) {
	if warn == nil {
		warn = stderrWarn
	}

	var env ExportData
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing import data: %w", err)
	}
	if env.Tasks == nil {
		return nil, fmt.Errorf("invalid import data: missing tasks field")
	}

	tasks := make([]models.Task, 0, len(env.Tasks))
	for _, doc := range env.Tasks {
		task, err := unmarshalTask(doc)
		if err != nil {
			warn("failed to import task: %v", err)
			continue
		}
		task.CalculateUrgency()
		tasks = append(tasks, *task)
	}
	return tasks, nil
}
