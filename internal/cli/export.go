package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutputFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every task as a portable JSON envelope",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		out := os.Stdout
		if exportOutputFlag != "" {
			f, err := os.Create(exportOutputFlag)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := svc.Export(out); err != nil {
			return fmt.Errorf("exporting tasks: %w", err)
		}
		if exportOutputFlag != "" {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", exportOutputFlag)
		}
		return nil
	},
}

var importActorFlag string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tasks from an export envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openTaskService()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		actor := importActorFlag
		if actor == "" {
			actor = defaultActor()
		}

		imported, err := svc.Import(data, actor)
		if err != nil {
			return fmt.Errorf("importing tasks: %w", err)
		}

		fmt.Printf("Imported %d task(s)\n", imported)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Write to a file instead of stdout")
	importCmd.Flags().StringVar(&importActorFlag, "actor", "", "Actor recorded in the event log")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
