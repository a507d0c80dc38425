package content

import (
	"context"
	"fmt"

	"github.com/pagewright/burnish/internal/pipeline"
)

// AcquisitionStep is the first stage of a cycle: it confirms the artifact is
// well-formed and places it into the evaluation context for downstream steps.
// It is a leaf step with no required context keys.
type AcquisitionStep struct {
	artifact *Artifact
}

// NewAcquisitionStep creates the acquisition step for one artifact.
func NewAcquisitionStep(artifact *Artifact) *AcquisitionStep {
	return &AcquisitionStep{artifact: artifact}
}

// Name implements pipeline.Step.
func (s *AcquisitionStep) Name() string { return "content-acquisition" }

// RequiredKeys implements pipeline.Step. Acquisition is a leaf.
func (s *AcquisitionStep) RequiredKeys() []string { return nil }

// Execute validates the artifact and appends it under pipeline.KeyArtifact.
func (s *AcquisitionStep) Execute(_ context.Context, ec *pipeline.Context) error {
	if s.artifact == nil {
		return fmt.Errorf("no artifact to acquire")
	}

	if err := s.artifact.Validate(); err != nil {
		return fmt.Errorf("content failed well-formedness check: %w", err)
	}

	return ec.Set(pipeline.KeyArtifact, s.artifact)
}
