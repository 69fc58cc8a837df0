package engine

import (
	"context"
	"time"

	"github.com/auroraml/aurora/core"
)

// AuditEntry is the persistence record written once per pipeline
// chain. It mirrors what an operations database keeps per decision.
type AuditEntry struct {
	// ChainID ties the three stage decisions of one run together.
	ChainID string

	// AgentType identifies the recorder; the pipeline writes as the
	// orchestrator of the full chain.
	AgentType string

	// DecisionType is the reviewed (final) decision kind.
	DecisionType core.DecisionKind

	Reasoning  string
	Confidence float64

	// Approved is true when the Reviewer let the proposal through.
	Approved bool

	// Executed is true when the Actuator ran.
	Executed bool

	// Context is the originating system context.
	Context map[string]any

	// Outcome is the execution result, nil when nothing executed.
	Outcome map[string]any

	Timestamp time.Time
}

// AuditRecorder is the persistence collaborator. Implementations own
// their failure semantics; the pipeline logs and continues when a
// record write fails.
type AuditRecorder interface {
	RecordDecision(ctx context.Context, entry *AuditEntry) error
}
