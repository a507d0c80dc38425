package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagewright/burnish/internal/scaffold"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new burnish project",
	Long: `Initialize a new burnish project with a default configuration.

Creates:
  • burnish.yml - Pipeline configuration with documented defaults

Use --force to reinitialize an existing project (WARNING: overwrites existing configuration).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Force reinitialization (removes existing burnish.yml)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing files (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting(); err != nil {
			return err
		}
	}

	if err := scaffold.Initialize(forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess()

	return nil
}
