package scaffold

import (
	"fmt"
	"os"
)

// CheckExisting checks if burnish.yml already exists in the current
// directory. Returns an error if it does, nil otherwise.
func CheckExisting() error {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return fmt.Errorf("project already initialized\n\nFound existing: %s\n\nUse 'burnish init --force' to reinitialize (this will overwrite existing configuration)", ConfigFileName)
	}

	return nil
}
