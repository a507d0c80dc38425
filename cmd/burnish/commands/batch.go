package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pagewright/burnish/internal/config"
	"github.com/pagewright/burnish/internal/engine"
	"github.com/pagewright/burnish/internal/printer"
)

var batchWorkers int

// batchItem is one line of the JSONL input file.
type batchItem struct {
	Subject       string `json:"subject"`
	ComponentType string `json:"component_type"`
	Content       string `json:"content,omitempty"` // Optional initial draft
}

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Run the quality pipeline over a JSONL file of content items",
	Long: `Process many content items in parallel. FILE is line-delimited JSON, one
item per line:

  {"subject": "acme-turbine", "component_type": "product_description"}
  {"subject": "acme-turbine", "component_type": "tagline", "content": "draft text"}

Items with no "content" field get their first draft from the generation
service. Items are processed by a fixed worker pool (batch.workers in
burnish.yml, overridable with --workers). An item that exhausts its attempt
budget counts as a failure but never stops the rest of the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Worker pool size (overrides batch.workers)")
	rootCmd.AddCommand(batchCmd)
}

// readBatchItems parses the JSONL input file, rejecting malformed lines with
// their line number so the whole file is validated before any work starts.
func readBatchItems(path string) ([]batchItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer file.Close()

	var items []batchItem
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item batchItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}
		if item.Subject == "" || item.ComponentType == "" {
			return nil, fmt.Errorf("line %d: subject and component_type are required", lineNo)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return items, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error(
			"failed to load configuration",
			err.Error(),
			[]string{"Run 'burnish init' to create a burnish.yml", "Pass --config to point at an existing one"},
		)
	}

	items, err := readBatchItems(args[0])
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printer.Warning("batch file contains no items\n")
		return nil
	}

	eng, generator, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	printer.Step("Processing %d items with %d workers...\n", len(items), workers)

	ctx := context.Background()
	queue := make(chan batchItem)

	var mu sync.Mutex
	var accepted, exhausted, failed int

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				outcome := processItem(ctx, eng, generator, item)

				mu.Lock()
				switch outcome {
				case itemAccepted:
					accepted++
				case itemExhausted:
					exhausted++
				case itemFailed:
					failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		queue <- item
	}
	close(queue)
	wg.Wait()

	printer.Println()
	printer.Success("%d accepted\n", accepted)
	if exhausted > 0 {
		printer.Warning("%d exhausted their attempt budget\n", exhausted)
	}
	if failed > 0 {
		printer.Warning("%d failed with errors\n", failed)
	}

	if accepted == 0 {
		return printer.Error(
			"no items accepted",
			fmt.Sprintf("Of %d items, %d exhausted their budget and %d failed outright.", len(items), exhausted, failed),
			[]string{"Check the oracle services are reachable", "Inspect learned patterns with 'burnish patterns'"},
		)
	}

	return nil
}

type itemOutcome int

const (
	itemAccepted itemOutcome = iota
	itemExhausted
	itemFailed
)

// itemGenerator is the slice of the oracle client batch processing needs for
// initial drafts.
type itemGenerator interface {
	Generate(ctx context.Context, subject, componentType string, overrides map[string]float64) (string, map[string]float64, error)
}

// engineRunner is the slice of the engine batch processing needs.
type engineRunner interface {
	Run(ctx context.Context, subject, componentType, body string) (*engine.RunResult, error)
}

// processItem runs one batch item end to end. Errors are reported, never
// propagated: a broken item must not halt the pool.
func processItem(ctx context.Context, eng engineRunner, generator itemGenerator, item batchItem) itemOutcome {
	body := item.Content
	if strings.TrimSpace(body) == "" {
		draft, _, err := generator.Generate(ctx, item.Subject, item.ComponentType, nil)
		if err != nil {
			printer.Warning("%s/%s: initial generation failed: %v\n", item.Subject, item.ComponentType, err)
			return itemFailed
		}
		body = draft
	}

	result, err := eng.Run(ctx, item.Subject, item.ComponentType, body)
	if err != nil {
		printer.Warning("%s/%s: %v\n", item.Subject, item.ComponentType, err)
		return itemFailed
	}

	if !result.Accepted {
		printer.Warning("%s/%s: budget exhausted after %d attempts\n", item.Subject, item.ComponentType, result.Attempts)
		return itemExhausted
	}

	printer.Success("%s/%s: accepted after %d attempt(s)\n", item.Subject, item.ComponentType, result.Attempts)
	return itemAccepted
}
