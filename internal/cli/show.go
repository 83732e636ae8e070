package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/dates"
)

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show detailed information about a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		task, err := svc.Get(args[0])
		if err != nil {
			return fmt.Errorf("getting task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task not found: %s", args[0])
		}

		fmt.Println()
		fmt.Println(titleStyle.Render("Task: " + task.Title))
		fmt.Println(dimStyle.Render("ID: " + task.ID))
		fmt.Println()

		fmt.Printf("Status:   %s\n", task.Status)
		fmt.Printf("Priority: %s\n", priorityMarker(task.Priority))

		if task.IsClaimed() {
			fmt.Printf("Claimed by: %s\n", claimStyle.Render(task.ClaimedBy))
			if task.ClaimedAt != nil {
				fmt.Printf("Claimed at: %s\n", task.ClaimedAt.Format("2006-01-02 15:04"))
			}
		}

		if task.Description != "" {
			fmt.Println()
			fmt.Println(titleStyle.Render("Description:"))
			fmt.Println(task.Description)
		}

		if len(task.Tags) > 0 {
			fmt.Println()
			fmt.Printf("Tags: %s\n", tagStyle.Render(dates.FormatTags(task.Tags)))
		}

		if task.Due != nil {
			fmt.Println()
			due := task.Due.Format("2006-01-02 15:04")
			if task.IsOverdue() {
				fmt.Printf("Due: %s %s\n", due, overdueStyle.Render("OVERDUE"))
			} else {
				fmt.Printf("Due: %s (%s)\n", due, dates.FormatRelative(*task.Due, time.Now()))
			}
		}

		if len(task.AcceptanceCriteria) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Acceptance Criteria:"))
			for i, criterion := range task.AcceptanceCriteria {
				fmt.Printf("  %d. %s\n", i+1, criterion)
			}
		}

		if len(task.DependsOn) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Depends on:"))
			for _, dep := range task.DependsOn {
				fmt.Printf("  %s\n", dep)
			}
		}

		if len(task.CodeRefs) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Code References:"))
			for _, ref := range task.CodeRefs {
				if ref.Description != "" {
					fmt.Printf("  %s - %s\n", ref.Path, ref.Description)
				} else {
					fmt.Printf("  %s\n", ref.Path)
				}
			}
		}

		if len(task.Discussion) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Discussion:"))
			for _, comment := range task.Discussion {
				fmt.Printf("  %s (%s):\n", tagStyle.Render(comment.Author), comment.Timestamp.Format("2006-01-02 15:04"))
				fmt.Printf("    %s\n", comment.Content)
			}
		}

		if len(task.Annotations) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Annotations:"))
			for _, a := range task.Annotations {
				fmt.Printf("  %s %s\n", dimStyle.Render(a.Entry), a.Description)
			}
		}

		fmt.Println()
		fmt.Printf("Created:  %s\n", task.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Modified: %s\n", task.ModifiedAt.Format("2006-01-02 15:04"))
		if task.CompletedAt != nil {
			fmt.Printf("Completed: %s\n", task.CompletedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("Urgency:  %s\n", urgencyText(task.Urgency))
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
