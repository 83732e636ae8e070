package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/core"
	"github.com/tskr-dev/tskr/internal/dates"
	"github.com/tskr-dev/tskr/pkg/models"
)

var (
	addDescriptionFlag string
	addPriorityFlag    string
	addDueFlag         string
	addScheduledFlag   string
	addTagsFlag        []string
	addProjectFlag     string
	addDependsFlag     []string
	addCriteriaFlag    []string
	addActorFlag       string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task to the backlog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		title := strings.Join(args, " ")

		priority, err := parsePriorityFlag(addPriorityFlag)
		if err != nil {
			return err
		}

		due, err := parseDateFlag("due", addDueFlag)
		if err != nil {
			return err
		}
		scheduled, err := parseDateFlag("scheduled", addScheduledFlag)
		if err != nil {
			return err
		}

		tags := splitTagFlags(addTagsFlag)
		// Auto-tags expand keywords from the config into extra tags.
		if ConfigMgr != nil {
			var expanded []string
			for _, tag := range tags {
				expanded = append(expanded, tag)
				for _, auto := range ConfigMgr.AutoTags(tag) {
					if auto != tag {
						expanded = append(expanded, auto)
					}
				}
			}
			tags = dedupeTags(expanded)
		}

		actor := addActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Create(title, core.CreateTaskOpts{
			Description:        addDescriptionFlag,
			Priority:           priority,
			Due:                due,
			Scheduled:          scheduled,
			Tags:               tags,
			Project:            addProjectFlag,
			DependsOn:          addDependsFlag,
			AcceptanceCriteria: addCriteriaFlag,
		}, actor)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Printf("Created task [%s] %s\n", task.ShortID(), task.Title)
		if task.Due != nil {
			fmt.Printf("  Due: %s\n", task.Due.Format("2006-01-02 15:04"))
		}
		if len(task.Tags) > 0 {
			fmt.Printf("  Tags: %s\n", dates.FormatTags(task.Tags))
		}
		return nil
	},
}

// parsePriorityFlag validates a priority code before it reaches the core.
func parsePriorityFlag(s string) (models.Priority, error) {
	if s == "" {
		return models.PriorityNone, nil
	}
	p := models.Priority(strings.ToUpper(s))
	if p != models.PriorityHigh && p != models.PriorityMedium && p != models.PriorityLow {
		return models.PriorityNone, fmt.Errorf("invalid priority %q: must be H, M, or L", s)
	}
	return p, nil
}

// parseDateFlag turns a natural-language date flag into a timestamp.
func parseDateFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, ok := dates.ParseNatural(s, time.Now())
	if !ok {
		return nil, fmt.Errorf("invalid %s date %q", name, s)
	}
	return &t, nil
}

// splitTagFlags accepts both repeated --tag flags and comma-separated
// values in a single flag.
func splitTagFlags(flags []string) []string {
	var tags []string
	for _, f := range flags {
		tags = append(tags, dates.ParseTags(f)...)
	}
	return tags
}

func dedupeTags(tags []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func init() {
	addCmd.Flags().StringVarP(&addDescriptionFlag, "description", "d", "", "Task description")
	addCmd.Flags().StringVarP(&addPriorityFlag, "priority", "p", "", "Priority (H, M, L)")
	addCmd.Flags().StringVar(&addDueFlag, "due", "", "Due date (natural language, e.g. tomorrow, friday, in 3 days)")
	addCmd.Flags().StringVar(&addScheduledFlag, "scheduled", "", "Scheduled date")
	addCmd.Flags().StringSliceVarP(&addTagsFlag, "tag", "t", nil, "Tags (repeatable or comma-separated)")
	addCmd.Flags().StringVar(&addProjectFlag, "project", "", "Project reference")
	addCmd.Flags().StringSliceVar(&addDependsFlag, "depends-on", nil, "Task IDs this task depends on")
	addCmd.Flags().StringSliceVar(&addCriteriaFlag, "criteria", nil, "Acceptance criteria (repeatable)")
	addCmd.Flags().StringVar(&addActorFlag, "actor", "", "Actor recorded in the event log")
	rootCmd.AddCommand(addCmd)
}
