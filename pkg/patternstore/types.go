package patternstore

import (
	"fmt"

	"github.com/google/uuid"
)

// OutcomeRecord captures the result of one evaluation cycle: what was
// generated, with which parameters, and whether the composite gate accepted
// it. Records are immutable once written - the recorder only ever appends.
type OutcomeRecord struct {
	ID            string             `json:"id"`             // UUID - unique identifier for this outcome
	Subject       string             `json:"subject"`        // Material/subject identity the content was generated for
	ComponentType string             `json:"component_type"` // Page component the content belongs to (e.g., "overview", "feature_grid")
	Accepted      bool               `json:"accepted"`       // Composite gate verdict
	Params        map[string]float64 `json:"params"`         // Generation parameters that produced the content
	Authenticity  float64            `json:"authenticity"`   // Human-likeness score, 0-1 scale
	Realism       float64            `json:"realism"`        // Realism/voice score, 0-10 scale
	Composite     float64            `json:"composite"`      // Weighted composite quality score, 0-1 scale
	AITendencies  []string           `json:"ai_tendencies"`  // Tendencies flagged by the realism oracle
	Fingerprint   string             `json:"fingerprint"`    // Hex SHA-256 of the evaluated content body
	CreatedAtMs   int64              `json:"created_at_ms"`  // Unix timestamp in milliseconds when the outcome was recorded
}

// ConfidenceTier classifies how much history backs a sweet-spot range.
// Adjustment strategies only act on high and medium confidence parameters.
type ConfidenceTier string

const (
	// ConfidenceHigh means the parameter has at least 20 accepted samples.
	ConfidenceHigh ConfidenceTier = "high"

	// ConfidenceMedium means the parameter has at least 8 accepted samples.
	ConfidenceMedium ConfidenceTier = "medium"

	// ConfidenceLow means the parameter has too little history to act on.
	ConfidenceLow ConfidenceTier = "low"
)

// Sample-count thresholds for confidence tiers.
const (
	highConfidenceSamples   = 20
	mediumConfidenceSamples = 8
)

// TierForSamples returns the confidence tier for a given accepted-sample count.
func TierForSamples(n int) ConfidenceTier {
	switch {
	case n >= highConfidenceSamples:
		return ConfidenceHigh
	case n >= mediumConfidenceSamples:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// SweetSpot is the empirically best-performing historical range for one
// generation parameter of one component type: the median value among the
// top-quartile accepted outcomes, plus how much history backs it.
type SweetSpot struct {
	Param      string         `json:"param"`      // Generation parameter name
	Median     float64        `json:"median"`     // Median value among top-quartile performers
	Confidence ConfidenceTier `json:"confidence"` // Tier derived from accepted-sample count
	Samples    int            `json:"samples"`    // Total accepted samples for this parameter
}

// Stats holds the accepted/rejected counters for one component type.
type Stats struct {
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

// Validate checks if the OutcomeRecord has valid field values.
// Returns an error if any validation fails.
func (o *OutcomeRecord) Validate() error {
	if !isValidUUID(o.ID) {
		return fmt.Errorf("invalid outcome ID: not a valid UUID")
	}

	if o.Subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}

	if o.ComponentType == "" {
		return fmt.Errorf("component type cannot be empty")
	}

	if o.Authenticity < 0 || o.Authenticity > 1 {
		return fmt.Errorf("authenticity must be on the 0-1 scale, got %v", o.Authenticity)
	}

	if o.Realism < 0 || o.Realism > 10 {
		return fmt.Errorf("realism must be on the 0-10 scale, got %v", o.Realism)
	}

	if o.Composite < 0 || o.Composite > 1 {
		return fmt.Errorf("composite score must be on the 0-1 scale, got %v", o.Composite)
	}

	if o.Fingerprint == "" {
		return fmt.Errorf("fingerprint cannot be empty")
	}

	return nil
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
