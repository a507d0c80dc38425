package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagewright/burnish/internal/config"
	"github.com/pagewright/burnish/internal/engine"
	"github.com/pagewright/burnish/internal/printer"
)

var (
	runSubject   string
	runComponent string
	runContent   string
	runFile      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the quality pipeline for one content item",
	Long: `Run the evaluate/adjust/regenerate loop for a single content item.

The initial draft comes from --content or --file; with neither, the
configured generation service produces the first draft. Each rejected draft
is regenerated with adjusted parameters until it passes all quality gates or
the attempt budget from burnish.yml is exhausted.

Exit code is 0 when the content is accepted, 1 otherwise.

Examples:
  # Evaluate an existing draft
  burnish run --subject acme-turbine --component product_description --file draft.txt

  # Generate and polish from scratch
  burnish run --subject acme-turbine --component tagline`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runSubject, "subject", "s", "", "Subject the content describes (required)")
	runCmd.Flags().StringVarP(&runComponent, "component", "t", "", "Component type, e.g. product_description (required)")
	runCmd.Flags().StringVar(&runContent, "content", "", "Initial draft text (mutually exclusive with --file)")
	runCmd.Flags().StringVar(&runFile, "file", "", "Read the initial draft from a file ('-' for stdin)")
	runCmd.MarkFlagRequired("subject")
	runCmd.MarkFlagRequired("component")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runContent != "" && runFile != "" {
		return printer.Error(
			"conflicting flags",
			"--content and --file both provide the initial draft; use one.",
			nil,
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

	eng, generator, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	body := runContent
	if runFile != "" {
		var data []byte
		if runFile == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(runFile)
		}
		if err != nil {
			return fmt.Errorf("failed to read draft: %w", err)
		}
		body = string(data)
	}

	if strings.TrimSpace(body) == "" {
		printer.Step("Generating initial draft for %s/%s...\n", runSubject, runComponent)
		body, _, err = generator.Generate(ctx, runSubject, runComponent, nil)
		if err != nil {
			return fmt.Errorf("initial generation failed: %w", err)
		}
	}

	result, err := eng.Run(ctx, runSubject, runComponent, body)
	if err != nil {
		return err
	}

	for _, cycle := range result.Cycles {
		printCycle(cycle)
	}

	if !result.Accepted {
		printer.Warning("content rejected after %d attempts (last composite: %.3f, failed gates: %s)\n",
			result.Attempts, result.Final.CompositeScore, strings.Join(result.Final.FailedGates, ", "))
		return printer.Error(
			"quality gates not satisfied",
			"The attempt budget was exhausted before the content passed all gates.",
			[]string{"Raise max_attempts in burnish.yml", "Inspect learned patterns with 'burnish patterns'"},
		)
	}

	printer.Success("accepted after %d attempt(s) with composite score %.3f\n",
		result.Attempts, result.Final.CompositeScore)
	printer.Println()
	printer.Println(result.Final.Artifact.Body)

	return nil
}

// printCycle reports one cycle's gate results, one line per gate.
func printCycle(cycle *engine.CycleResult) {
	printer.Step("draft v%d: composite %.3f\n", cycle.Artifact.Version, cycle.CompositeScore)
	for _, g := range cycle.Gates {
		status := "pass"
		if !g.Passed {
			status = "FAIL"
		}
		printer.Printf("    %-14s %-4s (value %.3f, threshold %.3f)\n", g.Name, status, g.Value, g.Threshold)
	}
	if len(cycle.Adjustments) > 0 {
		printer.Printf("    adjustments: %v\n", map[string]float64(cycle.Adjustments))
	}
}
