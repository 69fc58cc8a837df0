package core_test

import (
	"testing"
	"time"

	"github.com/auroraml/aurora/core"
)

func TestNewDecision_ClampsConfidence(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.5, 0},
		{"above one", 1.7, 1},
		{"in range", 0.85, 0.85},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := core.NewDecision(core.KindNoAction, "test", tc.in, nil)
			if d.Confidence != tc.want {
				t.Errorf("confidence = %v, want %v", d.Confidence, tc.want)
			}
		})
	}
}

func TestNewDecision_CopiesContext(t *testing.T) {
	ctx := map[string]any{"reason": "drift"}
	d := core.NewDecision(core.KindFineTune, "test", 0.85, ctx)

	ctx["reason"] = "mutated"

	if d.Context["reason"] != "drift" {
		t.Errorf("decision context mutated through caller's map: %v", d.Context["reason"])
	}
}

func TestNewDecision_SetsCreatedAt(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	d := core.NewDecision(core.KindNoAction, "test", 0.9, nil)
	after := time.Now().UTC().Add(time.Second)

	if d.CreatedAt.Before(before) || d.CreatedAt.After(after) {
		t.Errorf("CreatedAt = %v, want between %v and %v", d.CreatedAt, before, after)
	}
}

func TestDecision_ToMap(t *testing.T) {
	d := core.NewPlannedDecision(
		core.KindCache,
		"high latency",
		0.85,
		map[string]any{"latency_ms": 1500.0},
		core.CachePlan{TTL: 3600 * time.Second},
	)

	m := d.ToMap()

	if m["decision_type"] != "cache" {
		t.Errorf("decision_type = %v", m["decision_type"])
	}
	if m["confidence"] != 0.85 {
		t.Errorf("confidence = %v", m["confidence"])
	}

	actions, ok := m["recommended_actions"].(map[string]any)
	if !ok {
		t.Fatalf("recommended_actions missing or wrong type: %T", m["recommended_actions"])
	}
	if actions["action"] != "enable_cache" {
		t.Errorf("action = %v", actions["action"])
	}
	if actions["cache_ttl"] != 3600 {
		t.Errorf("cache_ttl = %v", actions["cache_ttl"])
	}
}

func TestDecision_ToMap_NoPlan(t *testing.T) {
	d := core.NewDecision(core.KindNoAction, "nominal", 0.9, nil)

	m := d.ToMap()
	actions, ok := m["recommended_actions"].(map[string]any)
	if !ok {
		t.Fatalf("recommended_actions missing: %T", m["recommended_actions"])
	}
	if len(actions) != 0 {
		t.Errorf("expected empty recommended_actions, got %v", actions)
	}
}

func TestPlan_Params(t *testing.T) {
	switchPlan := core.SwitchModelPlan{TargetModel: "baseline_fallback", Priority: core.PriorityCritical}
	params := switchPlan.Params()
	if params["action"] != "switch_model" || params["priority"] != "critical" {
		t.Errorf("switch params = %v", params)
	}

	ftPlan := core.FineTunePlan{Priority: core.PriorityMedium, EstimatedTime: "30-60 minutes"}
	if ftPlan.Params()["action"] != "fine_tune" {
		t.Errorf("fine_tune params = %v", ftPlan.Params())
	}

	monPlan := core.MonitorPlan{JobID: "training-1", NotifyOnCompletion: true}
	if monPlan.Params()["monitor_job"] != "training-1" {
		t.Errorf("monitor params = %v", monPlan.Params())
	}
}

func TestSystemContext_Validate(t *testing.T) {
	var empty core.SystemContext
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty context")
	}

	valid := core.SystemContext{
		ModelMetrics: core.ModelMetrics{Accuracy: 0.95, LatencyMS: 200},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
