package engine_test

import (
	"strings"
	"testing"

	"github.com/auroraml/aurora/agent"
	"github.com/auroraml/aurora/agent/advisor/claude"
	"github.com/auroraml/aurora/config"
	"github.com/auroraml/aurora/engine"
)

func TestOpenMemory_Chromem(t *testing.T) {
	cfg := config.Default().Memory

	mem, err := engine.OpenMemory(cfg, nil)
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer mem.Close()

	stats := mem.Stats()
	if stats.Backend != "chromem" {
		t.Errorf("backend = %q, want chromem", stats.Backend)
	}
	if stats.Dimension != cfg.Dimensions {
		t.Errorf("dimension = %d, want %d", stats.Dimension, cfg.Dimensions)
	}
}

func TestOpenMemory_UnknownBackend(t *testing.T) {
	cfg := config.Default().Memory
	cfg.Backend = "pinecone"

	if _, err := engine.OpenMemory(cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenMemory_BadRedisURL(t *testing.T) {
	cfg := config.MemoryConfig{Backend: "redis", RedisURL: "://not-a-url", Dimensions: 384}

	_, err := engine.OpenMemory(cfg, nil)
	if err == nil {
		t.Fatal("expected error for malformed redis url")
	}
	if !strings.Contains(err.Error(), "redis") {
		t.Errorf("err = %v, want redis backend failure", err)
	}
}

func TestNewAdvisor(t *testing.T) {
	if _, ok := engine.NewAdvisor(config.AdvisorConfig{}).(agent.NoopAdvisor); !ok {
		t.Error("disabled config should yield the no-op advisor")
	}

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	advisor := engine.NewAdvisor(config.AdvisorConfig{Enabled: true, Model: "claude-sonnet-4-20250514"})
	if _, ok := advisor.(*claude.Advisor); !ok {
		t.Errorf("enabled config yielded %T, want *claude.Advisor", advisor)
	}
}
