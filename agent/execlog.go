package agent

import (
	"sync"
	"time"

	"github.com/auroraml/aurora/core"
)

// ExecutionEntry records one Actuator invocation, successful or not.
type ExecutionEntry struct {
	Timestamp time.Time
	Decision  core.Decision
	Result    core.Decision
}

// ExecutionLog is the append-only record of everything the Actuator
// was asked to do. Appends are atomic with respect to each other and
// readers only ever see fully-written entries; multiple pipeline
// chains may share one log.
type ExecutionLog struct {
	mu      sync.RWMutex
	entries []ExecutionEntry
}

// NewExecutionLog creates an empty log.
func NewExecutionLog() *ExecutionLog {
	return &ExecutionLog{}
}

// Append adds one entry.
func (l *ExecutionLog) Append(entry ExecutionEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Snapshot returns a copy of the log for inspection.
func (l *ExecutionLog) Snapshot() []ExecutionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ExecutionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded invocations.
func (l *ExecutionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
