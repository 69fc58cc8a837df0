package engine

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/auroraml/aurora/agent"
	"github.com/auroraml/aurora/agent/advisor/claude"
	"github.com/auroraml/aurora/config"
	"github.com/auroraml/aurora/memory"
	"github.com/auroraml/aurora/memory/embedder/mock"
	"github.com/auroraml/aurora/memory/store/chromem"
	"github.com/auroraml/aurora/memory/store/redisvec"
)

// OpenMemory builds the memory manager for the configured backend.
// Backend selection is configuration only; both stores satisfy the
// same contract. A nil embedder selects the deterministic mock (the
// ONNX embedder lives behind a build tag, so callers wanting it pass
// it in).
func OpenMemory(cfg config.MemoryConfig, embedder memory.Embedder) (*memory.Manager, error) {
	if embedder == nil {
		if cfg.Dimensions > 0 {
			embedder = mock.NewWithDimensions(cfg.Dimensions)
		} else {
			embedder = mock.New()
		}
	}

	var store memory.Store
	switch cfg.Backend {
	case "chromem":
		s, err := chromem.New()
		if err != nil {
			return nil, fmt.Errorf("open chromem backend: %w", err)
		}
		store = s
	case "redis":
		s, err := redisvec.New(redisvec.Options{URL: cfg.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}

	return memory.NewManager(store, embedder), nil
}

// NewAdvisor builds the configured advisor. Disabled configuration
// yields the no-op, keeping retrieval advisory with no API calls; the
// Claude advisor reads its API key from the environment.
func NewAdvisor(cfg config.AdvisorConfig) agent.Advisor {
	if !cfg.Enabled {
		return agent.NoopAdvisor{}
	}
	client := anthropic.NewClient()
	return claude.New(&client, cfg.Model)
}
