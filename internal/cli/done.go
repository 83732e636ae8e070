package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneActor string

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		actor := doneActor
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Complete(args[0], actor)
		if err != nil {
			return fmt.Errorf("completing task: %w", err)
		}

		fmt.Printf("Completed %s\n", titleStyle.Render(task.Title))
		fmt.Println(dimStyle.Render("ID: " + task.ShortID()))
		return nil
	},
}

func init() {
	doneCmd.Flags().StringVar(&doneActor, "actor", "", "who completed the task (defaults to config author)")
	rootCmd.AddCommand(doneCmd)
}
