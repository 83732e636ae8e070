package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/dates"
	"github.com/tskr-dev/tskr/pkg/models"
)

var (
	lsTagsFlag      []string
	lsPriorityFlag  string
	lsUnclaimedFlag bool
	lsClaimedFlag   string
	lsAllFlag       bool
	lsLimitFlag     int
	lsSortFlag      string
	lsAscFlag       bool
	lsSearchFlag    string
)

var lsCmd = &cobra.Command{
	Use:   "ls [status]",
	Short: "List tasks with optional filters",
	Long: `List tasks, by default the backlog sorted by urgency. Pass a status
(backlog, pending, completed, archived) to list that status, or --all
for every status.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		var status *models.Status
		if len(args) == 1 {
			st := models.Status(strings.ToLower(args[0]))
			if !models.ValidStatus(st) || st == models.StatusDeleted {
				return fmt.Errorf("invalid status %q: valid statuses are backlog, pending, completed, archived", args[0])
			}
			status = &st
		} else if !lsAllFlag {
			st := models.StatusBacklog
			status = &st
		}

		var priority *models.Priority
		if lsPriorityFlag != "" {
			p, err := parsePriorityFlag(lsPriorityFlag)
			if err != nil {
				return err
			}
			priority = &p
		}

		sortBy := lsSortFlag
		switch sortBy {
		case models.SortByUrgency, models.SortByDue, models.SortByPriority, models.SortByCreated:
		default:
			return fmt.Errorf("invalid sort key %q: valid keys are urgency, due, priority, created", sortBy)
		}

		limit := lsLimitFlag
		if limit == 0 {
			limit = svc.DefaultListLimit()
		}

		filter := models.TaskFilter{
			Status:        status,
			Priority:      priority,
			Tags:          splitTagFlags(lsTagsFlag),
			Search:        lsSearchFlag,
			ClaimedBy:     lsClaimedFlag,
			UnclaimedOnly: lsUnclaimedFlag,
			Limit:         limit,
			SortBy:        sortBy,
			SortDesc:      !lsAscFlag,
		}

		tasks, err := svc.List(&filter)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		if len(tasks) == 0 {
			if status != nil {
				fmt.Printf("No tasks found in %s status\n", *status)
			} else {
				fmt.Println("No tasks found")
			}
			return nil
		}

		if status != nil {
			fmt.Printf("Tasks in %s (%d)\n\n", *status, len(tasks))
		} else {
			fmt.Printf("All tasks (%d)\n\n", len(tasks))
		}

		cfg := loadConfig()
		now := time.Now()
		for i := range tasks {
			fmt.Println("  " + renderTaskLine(&tasks[i], cfg, now))
		}

		if status != nil && *status == models.StatusBacklog && !lsUnclaimedFlag && lsClaimedFlag == "" {
			fmt.Println()
			fmt.Println(dimStyle.Render("Use 'tskr ls --unclaimed' to see available tasks to claim"))
		}
		return nil
	},
}

// renderTaskLine builds the single-line list entry for a task.
func renderTaskLine(t *models.Task, cfg *models.Config, now time.Time) string {
	parts := []string{
		fmt.Sprintf("%s [%s]", priorityMarker(t.Priority), t.ShortID()),
		titleStyle.Render(t.Title),
	}

	if t.IsClaimed() {
		parts = append(parts, claimStyle.Render(fmt.Sprintf("(claimed by %s)", t.ClaimedBy)))
	}

	if (cfg == nil || cfg.ShowTagsInList) && len(t.Tags) > 0 {
		tagged := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tagged[i] = tagStyle.Render("+" + tag)
		}
		parts = append(parts, strings.Join(tagged, " "))
	}

	if (cfg == nil || cfg.ShowDueInList) && t.Due != nil {
		if t.IsOverdue() {
			parts = append(parts, overdueStyle.Render("overdue "+t.Due.Format("2006-01-02")))
		} else {
			parts = append(parts, dueStyle.Render(fmt.Sprintf("due %s (%s)", t.Due.Format("2006-01-02"), dates.FormatRelative(*t.Due, now))))
		}
	}

	if t.Urgency >= 8.0 {
		parts = append(parts, "urgency:"+urgencyText(t.Urgency))
	}

	return strings.Join(parts, " ")
}

func init() {
	lsCmd.Flags().StringSliceVarP(&lsTagsFlag, "tag", "t", nil, "Filter by tags (any match)")
	lsCmd.Flags().StringVarP(&lsPriorityFlag, "priority", "p", "", "Filter by priority (H, M, L)")
	lsCmd.Flags().BoolVarP(&lsUnclaimedFlag, "unclaimed", "u", false, "Show only unclaimed tasks")
	lsCmd.Flags().StringVar(&lsClaimedFlag, "claimed", "", "Show tasks claimed by the given actor")
	lsCmd.Flags().BoolVarP(&lsAllFlag, "all", "a", false, "Show tasks in every status")
	lsCmd.Flags().IntVarP(&lsLimitFlag, "limit", "l", 0, "Limit number of tasks (default from config)")
	lsCmd.Flags().StringVar(&lsSortFlag, "sort", "urgency", "Sort key (urgency, due, priority, created)")
	lsCmd.Flags().BoolVar(&lsAscFlag, "asc", false, "Sort ascending instead of descending")
	lsCmd.Flags().StringVarP(&lsSearchFlag, "search", "s", "", "Search title, description, and tags")
	rootCmd.AddCommand(lsCmd)
}
