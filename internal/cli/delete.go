package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deletePermanentFlag bool
	deleteActorFlag     string
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"rm"},
	Short:   "Archive a task, or remove it entirely with --permanent",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		actor := deleteActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		deleted, err := svc.Delete(args[0], deletePermanentFlag, actor)
		if err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		if !deleted {
			return fmt.Errorf("task not found: %s", args[0])
		}

		if deletePermanentFlag {
			fmt.Println("Task permanently deleted")
		} else {
			fmt.Println("Task archived (use --permanent to remove the file)")
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deletePermanentFlag, "permanent", false, "Remove the task file instead of archiving")
	deleteCmd.Flags().StringVar(&deleteActorFlag, "actor", "", "Actor recorded in the event log")
	rootCmd.AddCommand(deleteCmd)
}
