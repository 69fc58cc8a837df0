package agent

import (
	"fmt"
	"strings"

	"github.com/auroraml/aurora/core"
)

// RiskLevel grades how dangerous executing a decision would be in the
// current system state.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the Reviewer's risk gate output, kept on the
// resulting decision for audit.
type RiskAssessment struct {
	Level   RiskLevel
	Factors []string
}

func (r RiskAssessment) toMap(kind core.DecisionKind) map[string]any {
	return map[string]any{
		"risk_level":    string(r.Level),
		"factors":       r.Factors,
		"decision_type": string(kind),
	}
}

// DefaultApprovalThreshold is the confidence a proposal must reach to
// pass the first gate.
const DefaultApprovalThreshold = 0.85

// Reviewer evaluates proposed decisions as a safety layer. It is a
// pure function of (proposal, state): no internal state, no side
// effects, so identical inputs always review identically.
type Reviewer struct {
	approvalThreshold float64
}

// NewReviewer creates a Reviewer. A non-positive threshold selects
// the default of 0.85.
func NewReviewer(approvalThreshold float64) *Reviewer {
	if approvalThreshold <= 0 {
		approvalThreshold = DefaultApprovalThreshold
	}
	return &Reviewer{approvalThreshold: approvalThreshold}
}

// Review runs the sequential gates: confidence, risk, resources.
// The first failing gate determines the rejection; passing all three
// approves the proposal with its original kind, confidence, and plan.
func (r *Reviewer) Review(proposed core.Decision, state core.SystemContext) (decision core.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			decision = core.NewDecision(core.KindNoAction,
				fmt.Sprintf("Review failed: %v", rec), 0, nil)
		}
	}()

	if proposed.Kind == "" {
		return core.NewDecision(core.KindNoAction,
			"No decision provided for evaluation", 0, nil)
	}

	// Gate 1: confidence.
	if proposed.Confidence < r.approvalThreshold {
		return core.NewDecision(
			core.KindNoAction,
			fmt.Sprintf("Rejected: Confidence (%.2f%%) below threshold (%.2f%%). Original proposal: %s",
				proposed.Confidence*100, r.approvalThreshold*100, proposed.Kind),
			0.95,
			map[string]any{
				"rejected_decision": proposed.ToMap(),
				"reason":            "low_confidence",
			},
		)
	}

	// Gate 2: risk.
	risk := AssessRisk(proposed.Kind, state.SystemLoad)
	if risk.Level == RiskHigh {
		return core.NewDecision(
			core.KindNoAction,
			fmt.Sprintf("Rejected: High risk detected for %s. Risk factors: %s",
				proposed.Kind, strings.Join(risk.Factors, ", ")),
			0.90,
			map[string]any{
				"rejected_decision": proposed.ToMap(),
				"risk_assessment":   risk.toMap(proposed.Kind),
			},
		)
	}

	// Gate 3: resources.
	if !checkResourceConstraints(proposed.Kind, state.SystemLoad) {
		return core.NewDecision(
			core.KindNoAction,
			fmt.Sprintf("Rejected: System constraints violated for %s. Current system load or resources insufficient.",
				proposed.Kind),
			0.85,
			map[string]any{
				"rejected_decision": proposed.ToMap(),
				"reason":            "system_constraints",
			},
		)
	}

	return core.NewPlannedDecision(
		proposed.Kind,
		fmt.Sprintf("Approved: %s with confidence %.2f%%. Risk level: %s. Original reasoning: %s",
			proposed.Kind, proposed.Confidence*100, risk.Level, truncate(proposed.Reasoning, 100)),
		proposed.Confidence,
		map[string]any{
			"approved_decision": proposed.ToMap(),
			"risk_assessment":   risk.toMap(proposed.Kind),
		},
		proposed.Plan,
	)
}

// IsApproved distinguishes an approval from a rejection. Approving a
// no_action proposal and rejecting a proposal both yield no_action
// decisions, so kind alone cannot tell them apart; approvals carry
// the approved_decision audit payload.
func IsApproved(d core.Decision) bool {
	_, ok := d.Context["approved_decision"]
	return ok
}

// AssessRisk grades a decision kind against the current load.
// Replacement is always high risk; retraining is high under CPU
// pressure and medium under heavy traffic; scaling is medium under
// memory pressure; everything else is low.
func AssessRisk(kind core.DecisionKind, load core.SystemLoad) RiskAssessment {
	risk := RiskAssessment{Level: RiskLow}

	switch kind {
	case core.KindRetrain:
		if load.CPUUsage > 0.8 {
			risk.Factors = append(risk.Factors, "high_cpu_usage")
			risk.Level = RiskHigh
		}
		if load.ActiveRequests > 1000 {
			risk.Factors = append(risk.Factors, "high_traffic")
			if risk.Level == RiskLow {
				risk.Level = RiskMedium
			}
		}

	case core.KindReplace:
		risk.Factors = append(risk.Factors, "model_replacement")
		risk.Level = RiskHigh

	case core.KindScale:
		if load.MemoryUsage > 0.9 {
			risk.Factors = append(risk.Factors, "memory_pressure")
			risk.Level = RiskMedium
		}
	}

	return risk
}

// checkResourceConstraints rejects resource-intensive operations when
// any resource is nearly exhausted.
func checkResourceConstraints(kind core.DecisionKind, load core.SystemLoad) bool {
	if kind != core.KindRetrain && kind != core.KindFineTune {
		return true
	}
	if load.CPUUsage > 0.9 || load.MemoryUsage > 0.9 || load.GPUUsage > 0.9 {
		return false
	}
	return true
}
