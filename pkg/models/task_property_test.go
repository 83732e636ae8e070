package models

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func genPriority() *rapid.Generator[Priority] {
	return rapid.SampledFrom([]Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone})
}

func genTask(rt *rapid.T) *Task {
	task := NewTask(rapid.StringMatching(`[a-zA-Z ]{1,40}`).Draw(rt, "title"))
	task.Priority = genPriority().Draw(rt, "priority")
	task.Tags = rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,10}`), 0, 5).Draw(rt, "tags")
	task.CreatedAt = time.Now().Add(-time.Duration(rapid.IntRange(0, 365*24).Draw(rt, "ageHours")) * time.Hour)
	if rapid.Bool().Draw(rt, "hasDue") {
		due := time.Now().Add(time.Duration(rapid.IntRange(-60*24, 60*24).Draw(rt, "dueHours")) * time.Hour)
		task.Due = &due
	}
	return task
}

// Claiming a task always lowers its urgency by exactly 2.0, whatever the
// rest of its fields look like.
func TestProperty_ClaimLowersUrgencyByTwo(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)

		unclaimed := task.CalculateUrgency()
		task.ClaimedBy = rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "actor")
		claimed := task.CalculateUrgency()

		diff := unclaimed - claimed
		if diff < 1.98 || diff > 2.02 {
			t.Fatalf("claim delta = %v, want 2.0 (unclaimed %v, claimed %v)", diff, unclaimed, claimed)
		}
	})
}

// Raising priority never lowers urgency when everything else is fixed.
func TestProperty_UrgencyMonotonicInPriority(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)

		ordered := []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}
		prev := -1.0
		for _, p := range ordered {
			task.Priority = p
			got := task.CalculateUrgency()
			if got < prev-0.01 {
				t.Fatalf("urgency decreased from %v to %v when priority rose to %q", prev, got, p)
			}
			prev = got
		}
	})
}

// Each extra tag is worth exactly half a point.
func TestProperty_TagsAddHalfPointEach(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)

		task.Tags = nil
		base := task.CalculateUrgency()

		n := rapid.IntRange(1, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			task.Tags = append(task.Tags, "tag")
		}
		tagged := task.CalculateUrgency()

		want := float64(n) * 0.5
		diff := tagged - base
		if diff < want-0.02 || diff > want+0.02 {
			t.Fatalf("%d tags added %v, want %v", n, diff, want)
		}
	})
}

// Urgency is always stored rounded to two decimal places and the stored
// value matches the returned one.
func TestProperty_UrgencyStoredRounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := genTask(rt)
		got := task.CalculateUrgency()

		if got != task.Urgency {
			t.Fatalf("returned %v but stored %v", got, task.Urgency)
		}
		if math.Round(got*100)/100 != got {
			t.Fatalf("urgency %v not rounded to two decimals", got)
		}
	})
}
