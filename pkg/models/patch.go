package models

import "time"

// TaskPatch describes an update to a task. Each field is optional: nil
// fields are left untouched, non-nil fields overwrite the task's value.
// This replaces the reflective any-attribute setter of earlier tskr
// versions with an explicit list of the mutable fields.
type TaskPatch struct {
	Title              *string
	Description        *string
	Status             *Status
	Priority           *Priority
	Due                *time.Time
	Scheduled          *time.Time
	Tags               *[]string
	Project            *string
	ParentTaskID       *string
	DependsOn          *[]string
	AcceptanceCriteria *[]string
	Metadata           *map[string]any
}

// Apply copies every provided patch field onto the task. ModifiedAt is
// stamped unconditionally, even when the patch is empty, matching the
// always-touch behavior of the update operation.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Due != nil {
		due := *p.Due
		t.Due = &due
	}
	if p.Scheduled != nil {
		scheduled := *p.Scheduled
		t.Scheduled = &scheduled
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.ParentTaskID != nil {
		t.ParentTaskID = *p.ParentTaskID
	}
	if p.DependsOn != nil {
		t.DependsOn = *p.DependsOn
	}
	if p.AcceptanceCriteria != nil {
		t.AcceptanceCriteria = *p.AcceptanceCriteria
	}
	if p.Metadata != nil {
		t.Metadata = *p.Metadata
	}
	t.ModifiedAt = time.Now()
}
