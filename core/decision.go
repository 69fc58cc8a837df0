package core

import (
	"time"
)

// DecisionKind is the closed set of actions the pipeline can decide on.
type DecisionKind string

const (
	KindRetrain       DecisionKind = "retrain"
	KindFineTune      DecisionKind = "fine_tune"
	KindRoute         DecisionKind = "route"
	KindCache         DecisionKind = "cache"
	KindReplace       DecisionKind = "replace"
	KindScale         DecisionKind = "scale"
	KindAlert         DecisionKind = "alert"
	KindNoAction      DecisionKind = "no_action"
	KindOptimizeModel DecisionKind = "optimize_model"
)

// AgentType identifies which pipeline stage produced a decision.
type AgentType string

const (
	AgentProposer AgentType = "proposer"
	AgentReviewer AgentType = "reviewer"
	AgentActuator AgentType = "actuator"
)

// Decision is the unit of exchange between pipeline stages.
//
// A Decision is immutable once constructed. Stages never modify a
// Decision they receive; they build a new one. NewDecision copies the
// context map so later writes by the caller cannot leak in.
type Decision struct {
	// Kind is the action this decision selects.
	Kind DecisionKind

	// Reasoning is the human-readable justification.
	Reasoning string

	// Confidence expresses certainty in [0,1]. It is a gate input,
	// not a calibrated probability.
	Confidence float64

	// Context carries opaque audit metadata: the inputs that produced
	// the decision, or rejection diagnostics.
	Context map[string]any

	// Plan holds typed execution parameters, nil when the decision
	// recommends nothing.
	Plan Plan

	// CreatedAt is set at construction and never changes.
	CreatedAt time.Time
}

// NewDecision constructs a Decision with no plan attached.
// Confidence is clamped to [0,1].
func NewDecision(kind DecisionKind, reasoning string, confidence float64, context map[string]any) Decision {
	return NewPlannedDecision(kind, reasoning, confidence, context, nil)
}

// NewPlannedDecision constructs a Decision carrying execution
// parameters.
func NewPlannedDecision(kind DecisionKind, reasoning string, confidence float64, context map[string]any, plan Plan) Decision {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	cloned := make(map[string]any, len(context))
	for k, v := range context {
		cloned[k] = v
	}

	return Decision{
		Kind:       kind,
		Reasoning:  reasoning,
		Confidence: confidence,
		Context:    cloned,
		Plan:       plan,
		CreatedAt:  time.Now().UTC(),
	}
}

// ToMap serializes the decision for audit records and memory
// summaries. The plan is flattened into its wire parameters.
func (d Decision) ToMap() map[string]any {
	out := map[string]any{
		"decision_type": string(d.Kind),
		"reasoning":     d.Reasoning,
		"confidence":    d.Confidence,
		"context":       d.Context,
		"timestamp":     d.CreatedAt.Format(time.RFC3339),
	}
	if d.Plan != nil {
		out["recommended_actions"] = d.Plan.Params()
	} else {
		out["recommended_actions"] = map[string]any{}
	}
	return out
}
