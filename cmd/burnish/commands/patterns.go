package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagewright/burnish/internal/config"
	"github.com/pagewright/burnish/internal/printer"
	"github.com/pagewright/burnish/internal/report"
)

var (
	patternsOutputFormat string
	patternsComponent    string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect learned quality patterns",
	Long: `Display what the pipeline has learned per component type: accept/reject
counts, discovered parameter sweet spots with their confidence, and the AI
tendencies most often flagged in rejected content.

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one component type per line

Examples:
  # Show the learned patterns table
  burnish patterns

  # Feed summaries into jq
  burnish patterns --output=jsonl | jq 'select(.rejected > 10)'`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVarP(&patternsOutputFormat, "output", "o", "default", "Output format: default or jsonl")
	patternsCmd.Flags().StringVarP(&patternsComponent, "component", "t", "", "Only show the given component type")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	var outputFormat report.OutputFormat
	switch patternsOutputFormat {
	case "default":
		outputFormat = report.OutputFormatDefault
	case "jsonl":
		outputFormat = report.OutputFormatJSONL
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", patternsOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error(
			"failed to load configuration",
			err.Error(),
			[]string{"Run 'burnish init' to create a burnish.yml", "Pass --config to point at an existing one"},
		)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	summaries, err := report.Summarize(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to summarize pattern store: %w", err)
	}

	if patternsComponent != "" {
		filtered := summaries[:0]
		for _, summary := range summaries {
			if summary.ComponentType == patternsComponent {
				filtered = append(filtered, summary)
			}
		}
		summaries = filtered
	}

	if outputFormat == report.OutputFormatJSONL {
		return report.FormatJSONL(os.Stdout, summaries)
	}

	report.FormatTable(os.Stdout, summaries)
	return nil
}
