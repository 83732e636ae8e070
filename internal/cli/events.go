package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/dates"
)

var eventsLimitFlag int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent activity from the project event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		events, err := svc.RecentEvents(eventsLimitFlag)
		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println(dimStyle.Render("No events recorded yet."))
			return nil
		}

		now := time.Now()
		for _, ev := range events {
			when := dates.FormatRelative(ev.Timestamp, now)
			line := fmt.Sprintf("%-12s %-16s %s", when, ev.EventType, ev.Actor)
			if ev.TaskID != "" {
				line += dimStyle.Render("  " + ev.TaskID[:min(8, len(ev.TaskID))])
			}
			fmt.Println(line)
			if title, ok := ev.Details["title"].(string); ok && title != "" {
				fmt.Println(dimStyle.Render("             " + title))
			}
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimitFlag, "limit", "n", 20, "Maximum number of events to show")
	rootCmd.AddCommand(eventsCmd)
}
