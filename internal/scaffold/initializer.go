// Package scaffold creates a new burnish project: the burnish.yml
// configuration file with documented defaults.
package scaffold

import (
	"embed"
	"fmt"
	"os"

	"github.com/pagewright/burnish/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// ConfigFileName is the configuration file burnish commands look for.
const ConfigFileName = "burnish.yml"

// Initialize creates the burnish project structure in the current directory.
// If force is true, it will remove an existing burnish.yml first.
func Initialize(force bool) error {
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	content, err := templatesFS.ReadFile("templates/burnish.yml.tmpl")
	if err != nil {
		return fmt.Errorf("failed to read burnish.yml template: %w", err)
	}

	if err := os.WriteFile(ConfigFileName, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFileName, err)
	}

	// The template must produce a config that passes strict validation
	if _, err := config.Load(ConfigFileName); err != nil {
		return fmt.Errorf("created %s is not a valid configuration: %w", ConfigFileName, err)
	}

	return nil
}

// handleForce removes the existing config if --force was specified
func handleForce() error {
	if _, err := os.Stat(ConfigFileName); err == nil {
		fmt.Printf("⚠️  Removing existing %s...\n", ConfigFileName)
		if err := os.Remove(ConfigFileName); err != nil {
			return fmt.Errorf("failed to remove %s: %w", ConfigFileName, err)
		}
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	fmt.Println("\n✅ Successfully initialized burnish project!")
	fmt.Println("\nCreated:")
	fmt.Println("  ✓ burnish.yml")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point the oracles section at your scoring services")
	fmt.Println("  2. Run 'burnish run --subject <name> --component <type>' to process one item")
	fmt.Println("  3. Run 'burnish patterns' to inspect what the pipeline has learned")
}
