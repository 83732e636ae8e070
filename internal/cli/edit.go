package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/core"
	"github.com/tskr-dev/tskr/pkg/models"
)

var (
	editTitleFlag       string
	editDescriptionFlag string
	editPriorityFlag    string
	editDueFlag         string
	editScheduledFlag   string
	editProjectFlag     string
	editAddTagsFlag     []string
	editRemoveTagsFlag  []string
	editActorFlag       string
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit fields of an existing task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		var patch models.TaskPatch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitleFlag
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &editDescriptionFlag
		}
		if cmd.Flags().Changed("priority") {
			priority, err := parsePriorityFlag(editPriorityFlag)
			if err != nil {
				return err
			}
			patch.Priority = &priority
		}
		if cmd.Flags().Changed("due") {
			due, err := parseDateFlag("due", editDueFlag)
			if err != nil {
				return err
			}
			patch.Due = due
		}
		if cmd.Flags().Changed("scheduled") {
			scheduled, err := parseDateFlag("scheduled", editScheduledFlag)
			if err != nil {
				return err
			}
			patch.Scheduled = scheduled
		}
		if cmd.Flags().Changed("project") {
			patch.Project = &editProjectFlag
		}

		actor := editActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Modify(args[0], core.ModifyTaskOpts{
			Patch:      patch,
			AddTags:    splitTagFlags(editAddTagsFlag),
			RemoveTags: splitTagFlags(editRemoveTagsFlag),
		}, actor)
		if err != nil {
			return fmt.Errorf("editing task: %w", err)
		}

		fmt.Printf("Updated %s\n", titleStyle.Render(task.Title))
		fmt.Println(dimStyle.Render("ID: " + task.ShortID()))
		return nil
	},
}

var commentContent string

var commentCmd = &cobra.Command{
	Use:   "comment <task-id> <text>",
	Short: "Add a comment to a task's discussion thread",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		content := args[1]
		for _, extra := range args[2:] {
			content += " " + extra
		}

		actor := editActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Comment(args[0], content, actor)
		if err != nil {
			return fmt.Errorf("commenting on task: %w", err)
		}

		fmt.Printf("Commented on %s\n", titleStyle.Render(task.Title))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editTitleFlag, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescriptionFlag, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editPriorityFlag, "priority", "p", "", "New priority (H, M, L)")
	editCmd.Flags().StringVar(&editDueFlag, "due", "", "New due date (natural language)")
	editCmd.Flags().StringVar(&editScheduledFlag, "scheduled", "", "New scheduled date")
	editCmd.Flags().StringVar(&editProjectFlag, "project", "", "New project reference")
	editCmd.Flags().StringSliceVar(&editAddTagsFlag, "add-tag", nil, "Tags to add")
	editCmd.Flags().StringSliceVar(&editRemoveTagsFlag, "remove-tag", nil, "Tags to remove")
	editCmd.Flags().StringVar(&editActorFlag, "actor", "", "Actor recorded in the event log")
	commentCmd.Flags().StringVar(&editActorFlag, "actor", "", "Comment author (defaults to config author)")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(commentCmd)
}
