package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/auroraml/aurora/core"
	"github.com/auroraml/aurora/memory"
)

// Retriever is the slice of the memory manager the Proposer needs.
// Retrieval failures surface as empty results, never as errors.
type Retriever interface {
	Search(ctx context.Context, query string, topK int, filter map[string]string) []memory.SearchResult
}

// Advisor turns retrieved similar cases into advisory commentary.
// The note is attached to the decision context for auditors; it never
// changes which rule fires or the confidence emitted. This is the
// extension point where retrieval could one day feed back into rule
// thresholds.
type Advisor interface {
	Advise(ctx context.Context, sysCtx core.SystemContext, cases []memory.SearchResult) (string, error)
}

// NoopAdvisor is the default: retrieval stays advisory-only.
type NoopAdvisor struct{}

func (NoopAdvisor) Advise(ctx context.Context, sysCtx core.SystemContext, cases []memory.SearchResult) (string, error) {
	return "", nil
}

// ProposerConfig tunes the Proposer.
type ProposerConfig struct {
	// DecisionThreshold is reserved for future rule logic. Default 0.70.
	DecisionThreshold float64

	// TopK is how many similar cases to retrieve. Default 5.
	TopK int

	// FallbackModel names the model the switch_model plan targets on
	// the catastrophic accuracy branch.
	FallbackModel string
}

// DefaultProposerConfig returns the stock thresholds.
func DefaultProposerConfig() ProposerConfig {
	return ProposerConfig{
		DecisionThreshold: 0.70,
		TopK:              5,
		FallbackModel:     "baseline_fallback",
	}
}

// Proposer inspects metrics, drift, and retrieved similar cases and
// emits one proposed decision per system context.
type Proposer struct {
	retriever Retriever
	advisor   Advisor
	cfg       ProposerConfig
}

// NewProposer builds a Proposer. retriever may be nil (no memory);
// advisor may be nil (no-op).
func NewProposer(retriever Retriever, advisor Advisor, cfg ProposerConfig) *Proposer {
	if cfg.DecisionThreshold == 0 {
		cfg.DecisionThreshold = 0.70
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	if advisor == nil {
		advisor = NoopAdvisor{}
	}
	return &Proposer{
		retriever: retriever,
		advisor:   advisor,
		cfg:       cfg,
	}
}

// Propose analyzes the context and returns exactly one decision.
// This boundary never panics or errors: any internal failure comes
// back as a no_action decision with the diagnostic in Reasoning.
func (p *Proposer) Propose(ctx context.Context, sysCtx core.SystemContext) (decision core.Decision) {
	defer func() {
		if r := recover(); r != nil {
			decision = core.NewDecision(core.KindNoAction,
				fmt.Sprintf("Analysis failed: %v", r), 0, sysCtx.ToMap())
		}
	}()

	if err := sysCtx.Validate(); err != nil {
		return core.NewDecision(core.KindNoAction,
			fmt.Sprintf("Analysis failed: %v", err), 0, sysCtx.ToMap())
	}

	cases := p.retrieveSimilarCases(ctx, sysCtx)
	audit := p.auditContext(ctx, sysCtx, cases)

	decision = p.applyRules(sysCtx, audit)
	log.Printf("[PROPOSER] Decision: %s (confidence: %.2f) - %s",
		decision.Kind, decision.Confidence, truncate(decision.Reasoning, 100))
	return decision
}

// applyRules is the ordered first-match-wins cascade. Later rules are
// not evaluated once one fires; in particular a catastrophic accuracy
// drop always wins over drift, so severe drift under a broken model
// reports as "accuracy critical".
func (p *Proposer) applyRules(sysCtx core.SystemContext, audit map[string]any) core.Decision {
	metrics := sysCtx.ModelMetrics
	drift := sysCtx.DataDrift

	// 1. Catastrophic performance drop: urgent model swap.
	if metrics.Accuracy < 0.60 {
		ctxMap := mergeContext(audit, map[string]any{"model_metrics": sysCtx.ToMap()["model_metrics"]})
		return core.NewPlannedDecision(
			core.KindOptimizeModel,
			fmt.Sprintf("CRITICAL: Accuracy dropped to %.2f%%. Drift score: %.2f. Environment shift suspected; urgent model swap required.",
				metrics.Accuracy*100, drift.Score),
			0.98,
			ctxMap,
			core.SwitchModelPlan{TargetModel: p.cfg.FallbackModel, Priority: core.PriorityCritical},
		)
	}

	// 2. Moderate drift. Strictly greater than 0.4.
	if drift.Detected && drift.Score > 0.4 {
		ctxMap := mergeContext(audit, map[string]any{
			"data_drift":    sysCtx.ToMap()["data_drift"],
			"model_metrics": sysCtx.ToMap()["model_metrics"],
		})
		return core.NewPlannedDecision(
			core.KindFineTune,
			fmt.Sprintf("Moderate data drift detected (score: %.2f). Fine-tuning recommended to maintain performance.", drift.Score),
			0.85,
			ctxMap,
			core.FineTunePlan{Priority: core.PriorityMedium, EstimatedTime: "30-60 minutes"},
		)
	}

	// 3. Latency pressure.
	if metrics.LatencyMS > 1000 {
		ctxMap := mergeContext(audit, map[string]any{
			"latency_ms":  metrics.LatencyMS,
			"system_load": sysCtx.ToMap()["system_load"],
		})
		return core.NewPlannedDecision(
			core.KindCache,
			fmt.Sprintf("High latency detected (%.0fms). Enabling caching strategy for frequent queries.", metrics.LatencyMS),
			0.85,
			ctxMap,
			core.CachePlan{TTL: 3600 * time.Second},
		)
	}

	// 4. All systems nominal.
	ctxMap := mergeContext(audit, map[string]any{
		"model_metrics": sysCtx.ToMap()["model_metrics"],
		"status":        "healthy",
	})
	return core.NewDecision(
		core.KindNoAction,
		fmt.Sprintf("System operating within normal parameters. Accuracy: %.2f%%, Latency: %.0fms",
			metrics.Accuracy*100, metrics.LatencyMS),
		0.90,
		ctxMap,
	)
}

// retrieveSimilarCases queries memory for past situations resembling
// this context. Memory is advisory: absence or failure yields nil.
func (p *Proposer) retrieveSimilarCases(ctx context.Context, sysCtx core.SystemContext) []memory.SearchResult {
	if p.retriever == nil {
		return nil
	}
	return p.retriever.Search(ctx, buildQuery(sysCtx), p.cfg.TopK, nil)
}

// auditContext assembles the retrieval-derived audit payload attached
// to every proposed decision.
func (p *Proposer) auditContext(ctx context.Context, sysCtx core.SystemContext, cases []memory.SearchResult) map[string]any {
	audit := make(map[string]any)

	if len(cases) > 0 {
		summaries := make([]map[string]any, 0, len(cases))
		for _, c := range cases {
			summaries = append(summaries, map[string]any{
				"id":    c.ID,
				"score": c.Score,
				"text":  truncate(c.Text, 120),
			})
		}
		audit["similar_cases"] = summaries
	}

	note, err := p.advisor.Advise(ctx, sysCtx, cases)
	if err != nil {
		log.Printf("[PROPOSER] WARN: advisor failed: %v", err)
	} else if note != "" {
		audit["advisor_note"] = note
	}

	return audit
}

// buildQuery concatenates symptom phrases for threshold crossings,
// falling back to a generic phrase when everything looks healthy.
func buildQuery(sysCtx core.SystemContext) string {
	var parts []string

	if sysCtx.ModelMetrics.Accuracy < 0.8 {
		parts = append(parts, "low model accuracy")
	}
	if sysCtx.DataDrift.Detected {
		parts = append(parts, "data drift detected")
	}
	if sysCtx.ModelMetrics.LatencyMS > 1000 {
		parts = append(parts, "high latency")
	}

	if len(parts) == 0 {
		return "system optimization"
	}
	return strings.Join(parts, " ")
}

// mergeContext overlays rule-specific fields on the audit payload.
func mergeContext(audit map[string]any, fields map[string]any) map[string]any {
	out := make(map[string]any, len(audit)+len(fields))
	for k, v := range audit {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// truncate shortens text for logs and audit summaries.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
