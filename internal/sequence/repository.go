package sequence

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Sequencer hands out per-partition sequence numbers starting at 1.
type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type Store interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository keeps sequences in the event_sequence table.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// NextSequence atomically increments and returns the next sequence for a partition.
func (r *Repository) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	var seq int64
	err := r.store.QueryRow(ctx, `
		INSERT INTO event_sequence (partition_key, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequence.last_sequence + 1, updated_at = now()
		RETURNING last_sequence
	`, partitionKey).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence for %q: %w", partitionKey, err)
	}
	return seq, nil
}

// Counter is the in-process Sequencer used when no database is configured.
type Counter struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewCounter() *Counter {
	return &Counter{last: make(map[string]int64)}
}

func (c *Counter) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[partitionKey]++
	return c.last[partitionKey], nil
}

var (
	_ Sequencer = (*Repository)(nil)
	_ Sequencer = (*Counter)(nil)
)
