package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var claimActor string

var claimCmd = &cobra.Command{
	Use:   "claim <task-id>",
	Short: "Claim a task so other workers leave it alone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		actor := claimActor
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Claim(args[0], actor)
		if err != nil {
			return fmt.Errorf("claiming task: %w", err)
		}

		fmt.Printf("Claimed %s by %s\n", titleStyle.Render(task.Title), claimStyle.Render(actor))
		fmt.Println(dimStyle.Render("ID: " + task.ShortID()))
		return nil
	},
}

var unclaimCmd = &cobra.Command{
	Use:   "unclaim <task-id>",
	Short: "Release a claimed task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		actor := claimActor
		if actor == "" {
			actor = defaultActor()
		}

		task, err := svc.Unclaim(args[0], actor)
		if err != nil {
			return fmt.Errorf("unclaiming task: %w", err)
		}

		fmt.Printf("Released %s\n", titleStyle.Render(task.Title))
		return nil
	},
}

func init() {
	claimCmd.Flags().StringVar(&claimActor, "actor", "", "who is claiming (defaults to config author)")
	unclaimCmd.Flags().StringVar(&claimActor, "actor", "", "who is releasing (defaults to config author)")
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(unclaimCmd)
}
