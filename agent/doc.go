// Package agent implements the three pipeline stages that turn noisy
// operational signals into a vetted, auditable action.
//
// The Proposer applies an ordered heuristic rule cascade to the
// current system context and emits a single proposed decision,
// informed (but never steered) by similar past cases retrieved from
// memory. The Reviewer applies a confidence gate, a kind-specific
// risk assessment, and a resource check, approving or rejecting the
// proposal. The Actuator dispatches approved actions to registered
// handlers that submit work to external systems and records every
// invocation in an append-only execution log.
//
// Each stage is a failure firewall: internal errors never escape as
// panics or returned errors, only as no_action decisions carrying the
// diagnostics. Callers inspect Kind, they never catch.
package agent
