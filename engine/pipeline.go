// Package engine orchestrates the propose-critique-execute decision
// pipeline. One system context produces one sequential chain through
// the Proposer, Reviewer, and Actuator; the chain's three decisions
// form one audit record and one memory summary.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/auroraml/aurora/agent"
	"github.com/auroraml/aurora/core"
	"github.com/auroraml/aurora/memory"
)

// Result is the well-formed triple every run produces. Callers
// inspect decision kinds; runs never surface stage errors.
type Result struct {
	// ChainID identifies this run across audit and logs.
	ChainID string

	// Proposed is the Proposer's output.
	Proposed core.Decision

	// Reviewed is the approval or rejection.
	Reviewed core.Decision

	// Execution is the Actuator result, nil when the review rejected
	// the proposal.
	Execution *core.Decision

	// Context echoes the input for audit.
	Context core.SystemContext
}

// Pipeline wires the three stages with the shared memory store and
// the persistence collaborator.
type Pipeline struct {
	proposer *agent.Proposer
	reviewer *agent.Reviewer
	actuator *agent.Actuator

	mem   *memory.Manager
	audit AuditRecorder
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithMemory attaches the memory manager used to summarize each
// chain for future retrieval.
func WithMemory(m *memory.Manager) Option {
	return func(p *Pipeline) { p.mem = m }
}

// WithAudit attaches the persistence collaborator called once per
// chain.
func WithAudit(a AuditRecorder) Option {
	return func(p *Pipeline) { p.audit = a }
}

// NewPipeline assembles the pipeline from its three stages.
func NewPipeline(proposer *agent.Proposer, reviewer *agent.Reviewer, actuator *agent.Actuator, opts ...Option) *Pipeline {
	p := &Pipeline{
		proposer: proposer,
		reviewer: reviewer,
		actuator: actuator,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one decision chain. The returned Result is always
// well-formed; the error reports only post-decision bookkeeping
// failures (a lost memory record is a data-integrity issue the
// caller should know about, but the decisions themselves stand).
func (p *Pipeline) Run(ctx context.Context, sysCtx core.SystemContext) (*Result, error) {
	chainID := uuid.New().String()
	log.Printf("[PIPELINE] chain=%s starting analysis", chainID)

	proposed := p.proposer.Propose(ctx, sysCtx)
	reviewed := p.reviewer.Review(proposed, sysCtx)

	result := &Result{
		ChainID:  chainID,
		Proposed: proposed,
		Reviewed: reviewed,
		Context:  sysCtx,
	}

	// Rejections stop here; approvals reach the Actuator even when
	// the approved action is no_action (which then reports "no
	// handler" rather than being silently skipped).
	if agent.IsApproved(reviewed) {
		execution := p.actuator.Execute(ctx, reviewed, nil)
		result.Execution = &execution
	}

	p.recordAudit(ctx, result)

	if err := p.summarize(ctx, result); err != nil {
		return result, fmt.Errorf("summarize chain %s: %w", chainID, err)
	}

	log.Printf("[PIPELINE] chain=%s done: proposed=%s reviewed=%s executed=%t",
		chainID, proposed.Kind, reviewed.Kind, result.Execution != nil)
	return result, nil
}

// recordAudit writes the per-chain persistence record. Failures here
// are owned by the collaborator; the pipeline logs and moves on.
func (p *Pipeline) recordAudit(ctx context.Context, result *Result) {
	if p.audit == nil {
		return
	}

	entry := &AuditEntry{
		ChainID:      result.ChainID,
		AgentType:    "orchestrator",
		DecisionType: result.Reviewed.Kind,
		Reasoning:    result.Reviewed.Reasoning,
		Confidence:   result.Reviewed.Confidence,
		Approved:     agent.IsApproved(result.Reviewed),
		Executed:     result.Execution != nil,
		Context:      result.Context.ToMap(),
		Timestamp:    time.Now().UTC(),
	}
	if result.Execution != nil {
		entry.Outcome = result.Execution.ToMap()
	}

	if err := p.audit.RecordDecision(ctx, entry); err != nil {
		log.Printf("[PIPELINE] WARN: audit record failed for chain %s: %v", result.ChainID, err)
	}
}

// summarize stores the chain outcome in memory so future proposals
// can retrieve it.
func (p *Pipeline) summarize(ctx context.Context, result *Result) error {
	if p.mem == nil {
		return nil
	}

	outcome := map[string]string{
		"approved": fmt.Sprintf("%t", agent.IsApproved(result.Reviewed)),
		"executed": fmt.Sprintf("%t", result.Execution != nil),
		"chain_id": result.ChainID,
	}
	if result.Execution != nil {
		if status, ok := result.Execution.Context["status"].(string); ok {
			outcome["status"] = status
		}
	}

	_, err := p.mem.StoreDecision(ctx, string(result.Reviewed.Kind), result.Reviewed.Reasoning, outcome)
	return err
}
