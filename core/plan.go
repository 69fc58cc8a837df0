package core

import (
	"time"
)

// Priority ranks how urgently a planned action should run.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Plan carries typed execution parameters for a decision kind.
// Each kind that recommends an action has its own variant; anything
// that is only audit metadata belongs in Decision.Context instead.
type Plan interface {
	// Action is the wire identifier of the recommended action.
	Action() string

	// Params returns the wire form used in audit records.
	Params() map[string]any
}

// SwitchModelPlan requests an urgent swap to a fallback model.
// Emitted on the catastrophic accuracy-drop branch.
type SwitchModelPlan struct {
	TargetModel string
	Priority    Priority
}

func (p SwitchModelPlan) Action() string { return "switch_model" }

func (p SwitchModelPlan) Params() map[string]any {
	return map[string]any{
		"action":       p.Action(),
		"target_model": p.TargetModel,
		"priority":     string(p.Priority),
	}
}

// FineTunePlan requests a fine-tuning run against the external
// training service.
type FineTunePlan struct {
	Priority      Priority
	EstimatedTime string
}

func (p FineTunePlan) Action() string { return "fine_tune" }

func (p FineTunePlan) Params() map[string]any {
	return map[string]any{
		"action":         p.Action(),
		"priority":       string(p.Priority),
		"estimated_time": p.EstimatedTime,
	}
}

// CachePlan requests enabling the prediction cache.
type CachePlan struct {
	TTL time.Duration
}

func (p CachePlan) Action() string { return "enable_cache" }

func (p CachePlan) Params() map[string]any {
	return map[string]any{
		"action":    p.Action(),
		"cache_ttl": int(p.TTL.Seconds()),
	}
}

// MonitorPlan points at a submitted external job. Execution results
// attach it so callers can poll the job out-of-band.
type MonitorPlan struct {
	JobID              string
	NotifyOnCompletion bool
}

func (p MonitorPlan) Action() string { return "monitor_job" }

func (p MonitorPlan) Params() map[string]any {
	return map[string]any{
		"action":               p.Action(),
		"monitor_job":          p.JobID,
		"notify_on_completion": p.NotifyOnCompletion,
	}
}
