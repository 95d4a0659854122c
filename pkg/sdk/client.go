package aggspec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/db"
	dbValkey "github.com/kailas-cloud/aggspec/internal/db/valkey"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
	"github.com/kailas-cloud/aggspec/internal/repository/catalog"
	"github.com/kailas-cloud/aggspec/internal/repository/savedsearch"
	"github.com/kailas-cloud/aggspec/internal/repository/statscache"
	"github.com/kailas-cloud/aggspec/internal/transport/elastic"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
	healthuc "github.com/kailas-cloud/aggspec/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "aggspec:"
)

// snapshotStore is the internal interface for stored specifications.
type snapshotStore interface {
	Delete(ctx context.Context, searchID string) error
}

// Client is the aggspec SDK entry point.
type Client struct {
	store     db.Store
	editors   *editoruc.Service
	snapshots snapshotStore
	catalog   *catalog.Catalog
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With a database configured it connects and waits
// for readiness using ctx.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.addrs) > 0 {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("aggspec: database not ready: %w", err)
		}
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
			RESP2:    cfg.driver == "redis",
		})
		if err != nil {
			return nil, fmt.Errorf("aggspec: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("aggspec: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	stats, search, err := buildStatistics(cfg)
	if err != nil {
		return nil, err
	}

	var (
		loader     editoruc.Loader
		publishers fanout
		snapshots  snapshotStore
		dbPinger   healthuc.DBPinger
	)
	if store != nil {
		repo := savedsearch.New(store, cfg.keyPrefix).WithTTL(cfg.ttl)
		loader, snapshots, dbPinger = repo, repo, store
		publishers = append(publishers, repo)

		if stats != nil && cfg.statsCacheTTL > 0 {
			stats = statscache.New(stats, store, cfg.keyPrefix, cfg.statsCacheTTL, nil, zap.NewNop())
		}
	}
	for _, s := range cfg.subscribers {
		publishers = append(publishers, subscriberPublisher(s))
	}

	var publisher editoruc.Publisher
	if len(publishers) > 0 {
		publisher = publishers
	}
	var props editoruc.PropertyCatalog
	if cat != nil {
		props = cat
	}

	editors := editoruc.NewService(loader, publisher, stats, props, nil).
		WithStatisticsTimeout(cfg.statsTimeout)

	return &Client{
		store:     store,
		editors:   editors,
		snapshots: snapshots,
		catalog:   cat,
		healthSvc: healthuc.New(dbPinger, search),
		obs:       obs,
	}, nil
}

func buildCatalog(cfg *clientConfig) (*catalog.Catalog, error) {
	switch {
	case len(cfg.properties) > 0:
		props := make([]property.Property, len(cfg.properties))
		for i, p := range cfg.properties {
			props[i] = propertyToDomain(p)
		}
		c, err := catalog.New(props)
		if err != nil {
			return nil, fmt.Errorf("aggspec: %w", err)
		}
		return c, nil
	case cfg.catalogPath != "":
		c, err := catalog.Load(cfg.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("aggspec: %w", err)
		}
		return c, nil
	}
	return nil, nil
}

func buildStatistics(cfg *clientConfig) (editoruc.StatisticsProvider, healthuc.SearchPinger, error) {
	if cfg.stats != nil {
		return &statsAdapter{inner: cfg.stats}, nil, nil
	}
	if cfg.esURL == "" {
		return nil, nil, nil
	}
	client, err := elastic.NewClient(&elastic.Config{URL: cfg.esURL, Index: cfg.esIndex})
	if err != nil {
		return nil, nil, fmt.Errorf("aggspec: %w", err)
	}
	return elastic.NewStatsProvider(client), client, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity. Always succeeds in memory mode.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Editor returns the editor of a saved search, loading its stored
// specification on first use.
func (c *Client) Editor(ctx context.Context, searchID string) (_ *Editor, err error) {
	start := time.Now()
	defer func() { c.obs.observe("editor.open", start, err) }()

	ed, err := c.editors.Editor(ctx, searchID)
	if err != nil {
		return nil, err
	}
	return &Editor{ed: ed, obs: c.obs}, nil
}

// Delete drops a saved search's editor and its stored specification.
func (c *Client) Delete(ctx context.Context, searchID string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.delete", start, err) }()

	forgotten := c.editors.Forget(searchID)
	if c.snapshots == nil {
		if !forgotten {
			return fmt.Errorf("search %q: %w", searchID, ErrNotFound)
		}
		return nil
	}
	err = c.snapshots.Delete(ctx, searchID)
	if forgotten && errors.Is(err, ErrNotFound) {
		err = nil
	}
	return err
}

// Kinds lists the kinds selectable at the top level, or nested when nested is set.
func (c *Client) Kinds(nested bool) []Kind {
	level := kind.TopLevel
	if nested {
		level = kind.Nested
	}
	ds := c.editors.Kinds(level)
	out := make([]Kind, len(ds))
	for i, d := range ds {
		out[i] = Kind(d.Kind)
	}
	return out
}

// Fields lists the catalog properties the given view's aggregation accepts.
// Without a catalog it returns nil.
func (c *Client) Fields(v EditView) []Property {
	if c.catalog == nil {
		return nil
	}
	allowed := make([]property.DataType, len(v.AllowedDataTypes))
	for i, dt := range v.AllowedDataTypes {
		allowed[i] = property.DataType(dt)
	}
	props := c.catalog.Compatible(allowed, v.OnlySortable)
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = Property{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			DataType:    DataType(p.DataType()),
			Sortable:    p.Sortable(),
		}
	}
	return out
}
