package agent_test

import (
	"strings"
	"testing"

	"github.com/auroraml/aurora/agent"
	"github.com/auroraml/aurora/core"
)

func TestReview_ConfidenceGate(t *testing.T) {
	r := agent.NewReviewer(0.85)
	proposed := core.NewDecision(core.KindFineTune, "drift detected", 0.80, nil)

	d := r.Review(proposed, healthyContext())

	if d.Kind != core.KindNoAction {
		t.Errorf("kind = %s, want no_action", d.Kind)
	}
	if d.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", d.Confidence)
	}
	if d.Context["reason"] != "low_confidence" {
		t.Errorf("reason = %v", d.Context["reason"])
	}
	rejected, ok := d.Context["rejected_decision"].(map[string]any)
	if !ok {
		t.Fatalf("rejected_decision missing: %T", d.Context["rejected_decision"])
	}
	if rejected["decision_type"] != "fine_tune" {
		t.Errorf("rejected decision_type = %v", rejected["decision_type"])
	}
	if agent.IsApproved(d) {
		t.Error("rejection must not read as approved")
	}
}

// Confidence exactly at the threshold passes: the gate is strictly
// less-than.
func TestReview_ConfidenceAtThresholdPasses(t *testing.T) {
	r := agent.NewReviewer(0.85)
	proposed := core.NewDecision(core.KindCache, "latency", 0.85, nil)

	d := r.Review(proposed, healthyContext())

	if !agent.IsApproved(d) {
		t.Errorf("confidence 0.85 at threshold 0.85 should pass, got %s: %s", d.Kind, d.Reasoning)
	}
}

func TestReview_RiskGate(t *testing.T) {
	r := agent.NewReviewer(0.85)

	t.Run("replace always high risk", func(t *testing.T) {
		proposed := core.NewDecision(core.KindReplace, "swap model", 0.99, nil)
		d := r.Review(proposed, healthyContext())

		if d.Kind != core.KindNoAction || d.Confidence != 0.90 {
			t.Errorf("got %s/%v, want no_action/0.90", d.Kind, d.Confidence)
		}
		risk, ok := d.Context["risk_assessment"].(map[string]any)
		if !ok {
			t.Fatalf("risk_assessment missing: %T", d.Context["risk_assessment"])
		}
		if risk["risk_level"] != "high" {
			t.Errorf("risk_level = %v", risk["risk_level"])
		}
	})

	t.Run("retrain under cpu pressure", func(t *testing.T) {
		proposed := core.NewDecision(core.KindRetrain, "accuracy drop", 0.95, nil)
		state := core.SystemContext{
			ModelMetrics: core.ModelMetrics{Accuracy: 0.55},
			SystemLoad:   core.SystemLoad{CPUUsage: 0.85},
		}
		d := r.Review(proposed, state)

		if d.Kind != core.KindNoAction {
			t.Errorf("kind = %s, want no_action", d.Kind)
		}
		if !strings.Contains(d.Reasoning, "high_cpu_usage") {
			t.Errorf("reasoning = %q, want cpu factor", d.Reasoning)
		}
	})

	t.Run("retrain under heavy traffic is medium and passes", func(t *testing.T) {
		proposed := core.NewDecision(core.KindRetrain, "accuracy drop", 0.95, nil)
		state := core.SystemContext{
			ModelMetrics: core.ModelMetrics{Accuracy: 0.55},
			SystemLoad:   core.SystemLoad{CPUUsage: 0.5, ActiveRequests: 1500},
		}
		d := r.Review(proposed, state)

		if !agent.IsApproved(d) {
			t.Errorf("medium risk should pass, got %s: %s", d.Kind, d.Reasoning)
		}
	})
}

func TestReview_ResourceGate(t *testing.T) {
	r := agent.NewReviewer(0.85)

	t.Run("fine_tune under gpu exhaustion", func(t *testing.T) {
		proposed := core.NewDecision(core.KindFineTune, "drift", 0.85, nil)
		state := core.SystemContext{
			ModelMetrics: core.ModelMetrics{Accuracy: 0.88},
			SystemLoad:   core.SystemLoad{GPUUsage: 0.95},
		}
		d := r.Review(proposed, state)

		if d.Kind != core.KindNoAction || d.Confidence != 0.85 {
			t.Errorf("got %s/%v, want no_action/0.85", d.Kind, d.Confidence)
		}
		if d.Context["reason"] != "system_constraints" {
			t.Errorf("reason = %v", d.Context["reason"])
		}
	})

	t.Run("cache unaffected by resource exhaustion", func(t *testing.T) {
		proposed := core.NewDecision(core.KindCache, "latency", 0.85, nil)
		state := core.SystemContext{
			ModelMetrics: core.ModelMetrics{Accuracy: 0.92, LatencyMS: 1500},
			SystemLoad:   core.SystemLoad{GPUUsage: 0.95},
		}
		d := r.Review(proposed, state)

		if !agent.IsApproved(d) {
			t.Errorf("cache is not resource gated, got %s: %s", d.Kind, d.Reasoning)
		}
	})
}

func TestReview_ApprovalPreservesProposal(t *testing.T) {
	r := agent.NewReviewer(0.85)
	plan := core.FineTunePlan{Priority: core.PriorityMedium, EstimatedTime: "30-60 minutes"}
	proposed := core.NewPlannedDecision(core.KindFineTune, "drift detected", 0.88, nil, plan)

	d := r.Review(proposed, healthyContext())

	if !agent.IsApproved(d) {
		t.Fatalf("expected approval, got %s: %s", d.Kind, d.Reasoning)
	}
	if d.Kind != core.KindFineTune {
		t.Errorf("kind = %s, want fine_tune", d.Kind)
	}
	if d.Confidence != 0.88 {
		t.Errorf("confidence = %v, want proposal's 0.88", d.Confidence)
	}
	if d.Plan != plan {
		t.Errorf("plan not carried through: %v", d.Plan)
	}
	if _, ok := d.Context["risk_assessment"]; !ok {
		t.Error("approval should carry the risk assessment")
	}
}

func TestReview_EmptyProposal(t *testing.T) {
	r := agent.NewReviewer(0.85)

	d := r.Review(core.Decision{}, healthyContext())

	if d.Kind != core.KindNoAction || d.Confidence != 0 {
		t.Errorf("got %s/%v, want no_action/0", d.Kind, d.Confidence)
	}
}

// The Reviewer is a pure function: same inputs, same verdict.
func TestReview_Deterministic(t *testing.T) {
	r := agent.NewReviewer(0.85)
	proposed := core.NewDecision(core.KindRetrain, "accuracy drop", 0.95, nil)
	state := core.SystemContext{
		ModelMetrics: core.ModelMetrics{Accuracy: 0.55},
		SystemLoad:   core.SystemLoad{CPUUsage: 0.85},
	}

	first := r.Review(proposed, state)
	second := r.Review(proposed, state)

	if first.Kind != second.Kind ||
		first.Confidence != second.Confidence ||
		first.Reasoning != second.Reasoning {
		t.Errorf("verdicts differ: %+v vs %+v", first, second)
	}
}

func TestAssessRisk(t *testing.T) {
	cases := []struct {
		name string
		kind core.DecisionKind
		load core.SystemLoad
		want agent.RiskLevel
	}{
		{"retrain idle", core.KindRetrain, core.SystemLoad{CPUUsage: 0.3}, agent.RiskLow},
		{"retrain busy cpu", core.KindRetrain, core.SystemLoad{CPUUsage: 0.85}, agent.RiskHigh},
		{"retrain cpu at boundary", core.KindRetrain, core.SystemLoad{CPUUsage: 0.8}, agent.RiskLow},
		{"retrain heavy traffic", core.KindRetrain, core.SystemLoad{ActiveRequests: 2000}, agent.RiskMedium},
		{"retrain cpu and traffic", core.KindRetrain, core.SystemLoad{CPUUsage: 0.9, ActiveRequests: 2000}, agent.RiskHigh},
		{"replace", core.KindReplace, core.SystemLoad{}, agent.RiskHigh},
		{"scale memory pressure", core.KindScale, core.SystemLoad{MemoryUsage: 0.95}, agent.RiskMedium},
		{"scale normal", core.KindScale, core.SystemLoad{MemoryUsage: 0.5}, agent.RiskLow},
		{"cache", core.KindCache, core.SystemLoad{CPUUsage: 0.99}, agent.RiskLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := agent.AssessRisk(tc.kind, tc.load)
			if got.Level != tc.want {
				t.Errorf("level = %s, want %s (factors: %v)", got.Level, tc.want, got.Factors)
			}
		})
	}
}
