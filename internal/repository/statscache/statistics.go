package statscache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/db"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
)

const entrySize = 16

// Provider is the statistics source being cached.
type Provider interface {
	FieldStatistics(ctx context.Context, field string) (interval.Stats, error)
}

// store is the consumer interface for the statistics cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedStatistics caches field bounds in a key-value store for a fixed TTL.
type CachedStatistics struct {
	inner      Provider
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Provider,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedStatistics {
	return &CachedStatistics{
		inner:      inner,
		store:      s,
		prefix:     prefix + "stats_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// FieldStatistics returns cached bounds or asks the inner provider.
// Errors and answers for another field are passed through uncached.
func (c *CachedStatistics) FieldStatistics(ctx context.Context, field string) (interval.Stats, error) {
	key := c.cacheKey(field)

	if stats, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		stats.Field = field
		return stats, nil
	}

	c.incCache("miss")

	stats, err := c.inner.FieldStatistics(ctx, field)
	if err != nil {
		return interval.Stats{}, fmt.Errorf("field statistics: %w", err)
	}
	if stats.Field != field {
		return stats, nil
	}

	c.putToCache(ctx, key, stats)
	return stats, nil
}

func (c *CachedStatistics) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedStatistics) cacheKey(field string) string {
	h := sha256.Sum256([]byte(field))
	return c.prefix + hex.EncodeToString(h[:8])
}

func (c *CachedStatistics) getFromCache(ctx context.Context, key string) (interval.Stats, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached statistics", zap.String("key", key), zap.Error(err))
		}
		return interval.Stats{}, false
	}
	if len(data) == 0 {
		return interval.Stats{}, false
	}

	stats, err := decodeStats(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached statistics", zap.String("key", key), zap.Error(err))
		return interval.Stats{}, false
	}
	return stats, true
}

func (c *CachedStatistics) putToCache(ctx context.Context, key string, stats interval.Stats) {
	if err := c.store.SetWithTTL(ctx, key, encodeStats(stats), c.ttl); err != nil {
		c.logger.Warn("Failed to cache statistics", zap.String("key", key), zap.Error(err))
	}
}

func encodeStats(s interval.Stats) []byte {
	buf := make([]byte, entrySize)
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(s.Min))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(s.Max))
	return buf
}

func decodeStats(data []byte) (interval.Stats, error) {
	if len(data) != entrySize {
		return interval.Stats{}, fmt.Errorf("invalid statistics cache data: len=%d", len(data))
	}
	return interval.Stats{
		Min: math.Float64frombits(binary.LittleEndian.Uint64(data[0:])),
		Max: math.Float64frombits(binary.LittleEndian.Uint64(data[8:])),
	}, nil
}
