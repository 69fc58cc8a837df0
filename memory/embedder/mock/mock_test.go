package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/auroraml/aurora/memory/embedder/mock"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := mock.New()

	first, err := e.Embed(context.Background(), "high latency detected")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := e.Embed(context.Background(), "high latency detected")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestEmbed_UnitLength(t *testing.T) {
	e := mock.New()

	vec, err := e.Embed(context.Background(), "data drift in production")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 384 {
		t.Fatalf("len = %d, want 384", len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-3 {
		t.Errorf("norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestEmbed_SharedWordsLandCloser(t *testing.T) {
	e := mock.New()
	ctx := context.Background()

	base, _ := e.Embed(ctx, "model accuracy dropped sharply")
	related, _ := e.Embed(ctx, "model accuracy dropped again")
	unrelated, _ := e.Embed(ctx, "cache ttl expired overnight")

	if dot(base, related) <= dot(base, unrelated) {
		t.Errorf("related similarity %v not above unrelated %v",
			dot(base, related), dot(base, unrelated))
	}
}

func TestNewWithDimensions(t *testing.T) {
	e := mock.NewWithDimensions(64)
	if e.Dimensions() != 64 {
		t.Errorf("dimensions = %d, want 64", e.Dimensions())
	}

	vec, err := e.Embed(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 64 {
		t.Errorf("len = %d, want 64", len(vec))
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
