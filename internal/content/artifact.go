// Package content defines the content artifact under evaluation and the
// acquisition step that admits it into a cycle.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinBodyLength is the shortest body the pipeline will evaluate. Anything
// shorter cannot be meaningfully scored by the oracles.
const MinBodyLength = 10

// Artifact is the text under evaluation plus the generation parameters that
// produced it. Artifacts are never mutated in place - regeneration always
// produces a new artifact sharing the same LogicalID with an incremented
// version, so the full revision history stays addressable.
type Artifact struct {
	ID            string             `json:"id"`             // UUID - unique identifier for this artifact
	LogicalID     string             `json:"logical_id"`     // UUID - groups regenerations of the same logical content
	Version       int                `json:"version"`        // Incrementing version number (starts at 1)
	Subject       string             `json:"subject"`        // Material/subject the content describes
	ComponentType string             `json:"component_type"` // Page component the content belongs to
	Body          string             `json:"body"`           // The generated text
	Params        map[string]float64 `json:"params"`         // Generation parameters that produced the body
	CreatedAtMs   int64              `json:"created_at_ms"`  // Unix timestamp in milliseconds when the artifact was created
}

// New creates a version-1 artifact for a fresh piece of content.
func New(subject, componentType, body string, params map[string]float64) *Artifact {
	if params == nil {
		params = map[string]float64{}
	}
	return &Artifact{
		ID:            uuid.New().String(),
		LogicalID:     uuid.New().String(),
		Version:       1,
		Subject:       subject,
		ComponentType: componentType,
		Body:          body,
		Params:        params,
		CreatedAtMs:   time.Now().UnixMilli(),
	}
}

// NextVersion creates the successor artifact after regeneration: same logical
// identity, version incremented, new body and parameters.
func (a *Artifact) NextVersion(body string, params map[string]float64) *Artifact {
	if params == nil {
		params = map[string]float64{}
	}
	return &Artifact{
		ID:            uuid.New().String(),
		LogicalID:     a.LogicalID,
		Version:       a.Version + 1,
		Subject:       a.Subject,
		ComponentType: a.ComponentType,
		Body:          body,
		Params:        params,
		CreatedAtMs:   time.Now().UnixMilli(),
	}
}

// Fingerprint returns the hex SHA-256 of the artifact body, used to key
// recorded outcomes to the exact content that was evaluated.
func (a *Artifact) Fingerprint() string {
	sum := sha256.Sum256([]byte(a.Body))
	return hex.EncodeToString(sum[:])
}

// Validate checks the artifact is well-formed enough to evaluate.
// Returns an error if any validation fails.
func (a *Artifact) Validate() error {
	if !isValidUUID(a.ID) {
		return fmt.Errorf("invalid artifact ID: not a valid UUID")
	}

	if !isValidUUID(a.LogicalID) {
		return fmt.Errorf("invalid logical ID: not a valid UUID")
	}

	if a.Version < 1 {
		return fmt.Errorf("invalid version: must be >= 1, got %d", a.Version)
	}

	if a.Subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}

	if a.ComponentType == "" {
		return fmt.Errorf("component type cannot be empty")
	}

	if strings.TrimSpace(a.Body) == "" {
		return fmt.Errorf("content body is empty or whitespace-only")
	}

	if len(a.Body) < MinBodyLength {
		return fmt.Errorf("content body is %d characters, below the %d character minimum", len(a.Body), MinBodyLength)
	}

	return nil
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
