package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initNameFlag        string
	initDescriptionFlag string
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new tskr project",
	Long: `Initialize a tskr project in the given directory (default: current
directory). This creates the .tskr layout with the project document,
status-partitioned task directories, a README context template, and an
event log, and adds gitignore defaults for completed and archived tasks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving directory: %w", err)
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}

		if existing, err := Projects.Load(root); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("project %q already initialized at %s", existing.Name, root)
		}

		name := initNameFlag
		if name == "" {
			name = filepath.Base(root)
		}

		project, err := Projects.Create(root, name, initDescriptionFlag, "")
		if err != nil {
			return fmt.Errorf("initializing project: %w", err)
		}

		fmt.Printf("Initialized project %s (%s)\n", project.Name, project.ID)
		fmt.Printf("  Root: %s\n", root)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initNameFlag, "name", "n", "", "Project name (default: directory name)")
	initCmd.Flags().StringVarP(&initDescriptionFlag, "description", "d", "", "Project description")
	rootCmd.AddCommand(initCmd)
}
