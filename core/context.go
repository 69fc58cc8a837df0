package core

import (
	"errors"
)

// ModelMetrics is a snapshot of deployed model performance.
type ModelMetrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1Score   float64
	LatencyMS float64
}

// DataDrift reports statistical deviation from the training-time
// baseline.
type DataDrift struct {
	Detected bool
	Score    float64
}

// SystemLoad is the resource picture the Reviewer gates against.
type SystemLoad struct {
	CPUUsage       float64
	MemoryUsage    float64
	GPUUsage       float64
	ActiveRequests int
}

// SystemContext is the input to one pipeline run. One SystemContext
// feeds exactly one Proposer invocation; the resulting chain of
// decisions plus this context is one audit record.
type SystemContext struct {
	ModelMetrics ModelMetrics
	DataDrift    DataDrift
	SystemLoad   SystemLoad
}

// ErrMissingMetrics marks a context with no model metrics at all.
var ErrMissingMetrics = errors.New("system context has no model metrics")

// Validate reports whether the context carries enough signal to
// analyze. A fully zero metrics block means the caller supplied
// nothing; the Proposer converts this to a no_action decision rather
// than guessing.
func (c SystemContext) Validate() error {
	if c.ModelMetrics == (ModelMetrics{}) {
		return ErrMissingMetrics
	}
	return nil
}

// ToMap serializes the context for audit records.
func (c SystemContext) ToMap() map[string]any {
	return map[string]any{
		"model_metrics": map[string]any{
			"accuracy":   c.ModelMetrics.Accuracy,
			"precision":  c.ModelMetrics.Precision,
			"recall":     c.ModelMetrics.Recall,
			"f1_score":   c.ModelMetrics.F1Score,
			"latency_ms": c.ModelMetrics.LatencyMS,
		},
		"data_drift": map[string]any{
			"detected": c.DataDrift.Detected,
			"score":    c.DataDrift.Score,
		},
		"system_load": map[string]any{
			"cpu_usage":       c.SystemLoad.CPUUsage,
			"memory_usage":    c.SystemLoad.MemoryUsage,
			"gpu_usage":       c.SystemLoad.GPUUsage,
			"active_requests": c.SystemLoad.ActiveRequests,
		},
	}
}
