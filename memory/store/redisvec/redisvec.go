// Package redisvec implements the remote memory backend on Redis.
//
// Records are stored as JSON values with their embeddings and indexed
// through a set of ids. Nearest-neighbor search pulls candidate
// vectors and ranks them client-side by cosine distance, which is
// adequate at the record counts this memory accumulates; swapping in
// a server-side vector index is a backend change only, the contract
// stays the same.
package redisvec

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/auroraml/aurora/memory"
)

const (
	recordKeyPrefix = "aurora:mem:"
	idSetKey        = "aurora:mem:ids"
)

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// KeyPrefix overrides the default key namespace, letting multiple
	// deployments share one Redis.
	KeyPrefix string

	// ConnectTimeout bounds connection establishment. Default 5s.
	ConnectTimeout time.Duration
}

// Store is the Redis-backed memory index.
type Store struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// storedRecord is the wire form of a memory record.
type storedRecord struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// New connects to Redis and verifies the connection.
func New(opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = recordKeyPrefix
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Store{client: client, prefix: opts.KeyPrefix, timeout: opts.ConnectTimeout}, nil
}

// Add appends one record. The value write and the id-set insert run
// in one transaction so readers never observe a half-written record.
func (s *Store) Add(ctx context.Context, rec memory.Record) error {
	data, err := json.Marshal(storedRecord{
		ID:        rec.ID,
		Text:      rec.Text,
		Embedding: rec.Embedding,
		Metadata:  rec.Metadata,
		CreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+rec.ID, data, 0)
		pipe.SAdd(ctx, s.idsKey(), rec.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Search ranks all stored records by cosine distance to the query
// embedding and returns the topK best.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]memory.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list record ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.prefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	var results []memory.SearchResult
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // id indexed but value expired or missing
		}

		var rec storedRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		if !matchesFilter(rec.Metadata, filter) {
			continue
		}

		results = append(results, memory.SearchResult{
			ID:       rec.ID,
			Text:     rec.Text,
			Score:    cosineScore(embedding, rec.Embedding),
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of indexed records. The interface carries
// no context, so the call is bounded by the store's own timeout; a
// hung Redis reports zero instead of blocking stats.
func (s *Store) Count() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.client.SCard(ctx, s.idsKey()).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Name identifies this backend in stats.
func (s *Store) Name() string { return "redis" }

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) idsKey() string {
	return s.prefix + "ids"
}

// matchesFilter reports whether metadata satisfies every filter pair.
func matchesFilter(metadata, filter map[string]string) bool {
	for k, want := range filter {
		if metadata[k] != want {
			return false
		}
	}
	return true
}

// cosineScore maps cosine distance to the (0,1] score contract via
// 1/(1+distance).
func cosineScore(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	distance := 1 - similarity
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}
