package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// configPath is a global flag: every command that needs configuration reads
// the same burnish.yml.
var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "burnish",
	Short: "Burnish - Adaptive quality pipeline for generated content",
	Long: `Burnish evaluates machine-generated marketing content against a set of
quality gates, learns from every accept/reject decision, and regenerates
rejected drafts with adjusted parameters until they pass or the attempt
budget runs out.

Evaluation outcomes accumulate in a Redis-backed pattern store, so the
pipeline gets better at steering the generator the more content it sees.`,
	Version: version,
	// If no subcommand is specified, show help instead of silently succeeding
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "burnish.yml", "Path to the burnish configuration file")
}
