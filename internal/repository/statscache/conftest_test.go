package statscache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/db"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
)

type mockProvider struct {
	stats    interval.Stats
	err      error
	calls    int
	answerAs string // answers for this field instead of the requested one when set
}

func (m *mockProvider) FieldStatistics(_ context.Context, field string) (interval.Stats, error) {
	m.calls++
	if m.err != nil {
		return interval.Stats{}, m.err
	}
	s := m.stats
	s.Field = field
	if m.answerAs != "" {
		s.Field = m.answerAs
	}
	return s, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T, inner *mockProvider) (*CachedStatistics, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	c := New(inner, ms, "test:", time.Minute, nil, zap.NewNop())
	return c, ms
}
