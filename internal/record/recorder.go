// Package record persists evaluation outcomes into the learned-pattern
// store, closing the pipeline's feedback loop. Recording is telemetry: a
// failed write is logged and swallowed so a cycle is never aborted because
// its outcome could not be stored.
package record

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pagewright/burnish/internal/content"
	"github.com/pagewright/burnish/internal/evaluate"
	"github.com/pagewright/burnish/pkg/patternstore"
)

// OutcomeWriter is the write-side of the pattern store. Satisfied by
// *patternstore.Client. The recorder is the only component that holds it -
// every other step sees the store read-only.
type OutcomeWriter interface {
	RecordOutcome(ctx context.Context, o *patternstore.OutcomeRecord) error
}

// Recorder is the sole write path into the learned-pattern store.
type Recorder struct {
	store OutcomeWriter
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store OutcomeWriter) *Recorder {
	return &Recorder{store: store}
}

// Record persists one cycle's outcome: the artifact's identity and
// parameters, the realism detail, the authenticity and composite scores, and
// the accept/reject verdict. Safe to call even when the store is down -
// failures are logged, never raised.
func (r *Recorder) Record(
	ctx context.Context,
	artifact *content.Artifact,
	realism evaluate.RealismResult,
	authenticity float64,
	composite float64,
	accepted bool,
) {
	outcome := &patternstore.OutcomeRecord{
		ID:            uuid.New().String(),
		Subject:       artifact.Subject,
		ComponentType: artifact.ComponentType,
		Accepted:      accepted,
		Params:        artifact.Params,
		Authenticity:  authenticity,
		Realism:       realism.Score,
		Composite:     composite,
		AITendencies:  realism.AITendencies,
		Fingerprint:   artifact.Fingerprint(),
		CreatedAtMs:   time.Now().UnixMilli(),
	}

	if err := r.store.RecordOutcome(ctx, outcome); err != nil {
		log.Printf("[WARN] failed to record outcome for %s/%s: %v",
			artifact.Subject, artifact.ComponentType, err)
	}
}
