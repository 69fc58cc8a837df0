package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/auroraml/aurora/cache"
	"github.com/auroraml/aurora/core"
	"github.com/auroraml/aurora/notify"
)

// Handler executes one decision kind against an external system.
// Handlers submit work and return immediately with a "submission
// accepted" result; completion is asynchronous and out of this
// system's visibility. A returned error is converted to a no_action
// decision at the Actuator boundary.
type Handler func(ctx context.Context, approved core.Decision, params map[string]any) (core.Decision, error)

// Actuator dispatches approved decisions to registered handlers and
// appends every invocation to the execution log.
type Actuator struct {
	handlers    map[core.DecisionKind]Handler
	execLog     *ExecutionLog
	notifier    notify.Notifier
	prediction  *cache.PredictionCache
	submitDelay time.Duration
}

// ActuatorOption configures the Actuator.
type ActuatorOption func(*Actuator)

// WithNotifier sets the alert delivery collaborator used by the
// alert handler.
func WithNotifier(n notify.Notifier) ActuatorOption {
	return func(a *Actuator) { a.notifier = n }
}

// WithPredictionCache sets the cache the cache handler enables.
func WithPredictionCache(c *cache.PredictionCache) ActuatorOption {
	return func(a *Actuator) { a.prediction = c }
}

// WithHandler registers or replaces the handler for a kind. New
// decision kinds plug in here without touching the dispatch path.
func WithHandler(kind core.DecisionKind, h Handler) ActuatorOption {
	return func(a *Actuator) { a.handlers[kind] = h }
}

// WithSubmitDelay overrides the simulated external-call latency.
// Tests set this to zero.
func WithSubmitDelay(d time.Duration) ActuatorOption {
	return func(a *Actuator) { a.submitDelay = d }
}

// NewActuator builds an Actuator with the six stock handlers
// (retrain, fine_tune, cache, route, scale, alert) registered.
func NewActuator(execLog *ExecutionLog, opts ...ActuatorOption) *Actuator {
	if execLog == nil {
		execLog = NewExecutionLog()
	}

	a := &Actuator{
		handlers:    make(map[core.DecisionKind]Handler),
		execLog:     execLog,
		submitDelay: 100 * time.Millisecond,
	}

	a.handlers[core.KindRetrain] = a.executeRetrain
	a.handlers[core.KindFineTune] = a.executeFineTune
	a.handlers[core.KindCache] = a.executeCache
	a.handlers[core.KindRoute] = a.executeRoute
	a.handlers[core.KindScale] = a.executeScale
	a.handlers[core.KindAlert] = a.executeAlert

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// History returns the shared execution log.
func (a *Actuator) History() *ExecutionLog {
	return a.execLog
}

// Execute dispatches an approved decision to its handler. Every
// invocation lands in the execution log, and this boundary never
// raises: missing handlers and handler failures come back as
// no_action decisions carrying the diagnostics.
func (a *Actuator) Execute(ctx context.Context, approved core.Decision, params map[string]any) (result core.Decision) {
	defer func() {
		if r := recover(); r != nil {
			result = core.NewDecision(core.KindNoAction,
				fmt.Sprintf("Execution failed: %v", r), 0,
				map[string]any{"error": fmt.Sprint(r), "original_decision": approved.ToMap()})
			a.execLog.Append(ExecutionEntry{Timestamp: time.Now().UTC(), Decision: approved, Result: result})
		}
	}()

	handler, ok := a.handlers[approved.Kind]
	if !ok {
		result = core.NewDecision(core.KindNoAction,
			fmt.Sprintf("No execution handler for %s", approved.Kind), 0,
			map[string]any{"original_decision": approved.ToMap()})
		a.execLog.Append(ExecutionEntry{Timestamp: time.Now().UTC(), Decision: approved, Result: result})
		return result
	}

	result, err := handler(ctx, approved, params)
	if err != nil {
		log.Printf("[ACTUATOR] Execution failed for %s: %v", approved.Kind, err)
		result = core.NewDecision(core.KindNoAction,
			fmt.Sprintf("Execution failed: %v", err), 0,
			map[string]any{"error": err.Error(), "original_decision": approved.ToMap()})
	}

	a.execLog.Append(ExecutionEntry{Timestamp: time.Now().UTC(), Decision: approved, Result: result})
	return result
}

// executeRetrain submits a retraining job to the external training
// service.
func (a *Actuator) executeRetrain(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Submitting retraining job...")

	if err := a.submit(ctx); err != nil {
		return core.Decision{}, err
	}
	jobID := fmt.Sprintf("training-%s", time.Now().UTC().Format("20060102-150405"))

	return core.NewPlannedDecision(
		core.KindRetrain,
		fmt.Sprintf("Submitted retraining job %s. Estimated completion: 2-4 hours. Original reason: %s",
			jobID, truncate(decision.Reasoning, 100)),
		0.95,
		map[string]any{
			"training_job_id": jobID,
			"status":          "submitted",
			"platform":        "training_service",
		},
		core.MonitorPlan{JobID: jobID, NotifyOnCompletion: true},
	), nil
}

// executeFineTune submits a fine-tuning job.
func (a *Actuator) executeFineTune(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Submitting fine-tuning job...")

	if err := a.submit(ctx); err != nil {
		return core.Decision{}, err
	}
	jobID := fmt.Sprintf("tuning-%s", time.Now().UTC().Format("20060102-150405"))

	return core.NewPlannedDecision(
		core.KindFineTune,
		fmt.Sprintf("Submitted fine-tuning job %s. Estimated completion: 30-60 minutes.", jobID),
		0.90,
		map[string]any{
			"tuning_job_id": jobID,
			"status":        "submitted",
		},
		core.MonitorPlan{JobID: jobID},
	), nil
}

// executeCache enables the prediction cache with the TTL from the
// approved plan.
func (a *Actuator) executeCache(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Enabling prediction cache...")

	if err := a.submit(ctx); err != nil {
		return core.Decision{}, err
	}

	ttl := 3600 * time.Second
	if plan, ok := decision.Plan.(core.CachePlan); ok && plan.TTL > 0 {
		ttl = plan.TTL
	}
	if a.prediction != nil {
		a.prediction.Enable(ttl)
	}

	return core.NewDecision(
		core.KindCache,
		fmt.Sprintf("Enabled caching for frequent queries. TTL: %s.", ttl),
		0.95,
		map[string]any{
			"cache_enabled": true,
			"ttl_seconds":   int(ttl.Seconds()),
			"status":        "active",
		},
	), nil
}

// executeRoute updates traffic routing configuration.
func (a *Actuator) executeRoute(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Updating traffic routing...")

	if err := a.submit(ctx); err != nil {
		return core.Decision{}, err
	}

	return core.NewDecision(
		core.KindRoute,
		"Updated routing configuration.",
		0.90,
		map[string]any{
			"routing_updated": true,
			"status":          "active",
		},
	), nil
}

// executeScale requests a scaling operation.
func (a *Actuator) executeScale(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Scaling resources...")

	if err := a.submit(ctx); err != nil {
		return core.Decision{}, err
	}

	return core.NewDecision(
		core.KindScale,
		"Submitted scaling request.",
		0.90,
		map[string]any{
			"scaling_requested": true,
			"status":            "active",
		},
	), nil
}

// executeAlert delivers a notification. Delivery is fire-and-forget:
// a failed send is logged and the handler still reports success.
func (a *Actuator) executeAlert(ctx context.Context, decision core.Decision, params map[string]any) (core.Decision, error) {
	log.Printf("[ACTUATOR] Sending alert notification...")

	if a.notifier != nil {
		alert := notify.Alert{
			Title:    string(decision.Kind),
			Message:  decision.Reasoning,
			Category: "Pipeline Alert",
		}
		if err := a.notifier.Send(ctx, alert); err != nil {
			log.Printf("[ACTUATOR] WARN: alert delivery failed: %v", err)
		}
	}

	return core.NewDecision(
		core.KindAlert,
		"Alert sent.",
		0.95,
		map[string]any{
			"alert_sent": true,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	), nil
}

// submit models the bounded external call. It returns once the
// simulated submission window passes or the context expires, whichever
// comes first; a dead context means the submission never went out.
func (a *Actuator) submit(ctx context.Context) error {
	if a.submitDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(a.submitDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submission interrupted: %w", ctx.Err())
	}
}
