package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	tskrmcp "github.com/tskr-dev/tskr/internal/mcp"
)

var mcpActorFlag string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the tskr MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tskr MCP server on stdio",
	Long: `Start the tskr MCP server on stdio transport.

The server exposes task operations as MCP tools that AI coding assistants
can call: get_task, list_tasks, create_task, claim_task, complete_task,
list_events. Mutations go through the same event-logged paths as the CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		actor := mcpActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		srv := tskrmcp.NewServer(svc, actor, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpActorFlag, "actor", "", "Actor recorded for MCP-driven mutations (defaults to config author)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
