package savedsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/aggspec/internal/db"
	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
)

// store is the consumer interface for snapshot storage (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo keeps the latest published aggregation snapshot of every saved search.
// The stored snapshot is the input specification the next editor loads.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a saved search repository. Keys are prefixed with prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix, now: time.Now}
}

// WithTTL expires snapshots ttl after their last publication. Zero keeps them forever.
func (r *Repo) WithTTL(ttl time.Duration) *Repo {
	r.ttl = ttl
	return r
}

// Publish stores snapshot as the current specification of searchID.
func (r *Repo) Publish(ctx context.Context, searchID string, snapshot []aggregation.Node) error {
	data, err := encodeSnapshot(snapshot, r.now().UnixMilli())
	if err != nil {
		return err
	}

	key := r.key(searchID)
	if r.ttl > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.ttl)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", searchID, err)
	}
	return nil
}

// Load returns the stored specification of searchID or domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context, searchID string) ([]aggregation.Node, error) {
	data, err := r.store.Get(ctx, r.key(searchID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot %s: %w", searchID, err)
	}
	return decodeSnapshot(data)
}

// Delete removes the stored specification of searchID.
func (r *Repo) Delete(ctx context.Context, searchID string) error {
	key := r.key(searchID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check snapshot %s: %w", searchID, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", searchID, err)
	}
	return nil
}

func (r *Repo) key(searchID string) string {
	return r.prefix + "search:" + searchID + ":aggregations"
}
