package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
)

// Service keeps one Editor per saved search, hydrated lazily from the Loader.
type Service struct {
	mu      sync.Mutex
	editors map[string]*Editor

	loader       Loader
	publisher    Publisher
	stats        StatisticsProvider
	catalog      PropertyCatalog
	logger       *zap.Logger
	statsTimeout time.Duration
}

// NewService creates the editor service. loader and publisher may be nil for
// in-memory use.
func NewService(
	loader Loader,
	publisher Publisher,
	stats StatisticsProvider,
	catalog PropertyCatalog,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		editors:   make(map[string]*Editor),
		loader:    loader,
		publisher: publisher,
		stats:     stats,
		catalog:   catalog,
		logger:    logger,
	}
}

// WithStatisticsTimeout bounds statistics requests of every editor created afterwards.
func (s *Service) WithStatisticsTimeout(d time.Duration) *Service {
	s.statsTimeout = d
	return s
}

// Editor returns the editor of searchID, loading its stored specification on first use.
// Hydration does not publish.
func (s *Service) Editor(ctx context.Context, searchID string) (*Editor, error) {
	if searchID == "" {
		return nil, fmt.Errorf("search id is required: %w", domain.ErrInvalidParameter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ed, ok := s.editors[searchID]; ok {
		return ed, nil
	}

	var nodes []aggregation.Node
	if s.loader != nil {
		loaded, err := s.loader.Load(ctx, searchID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("load aggregations of %q: %w", searchID, err)
		default:
			nodes = loaded
		}
	}

	tree := aggregation.NewTree(aggregation.NewIDCounter())
	tree.Load(nodes)
	ed := New(searchID, tree, s.stats, s.catalog,
		NewNotifier(searchID, s.publisher, s.logger), s.logger).
		WithStatisticsTimeout(s.statsTimeout)
	s.editors[searchID] = ed

	s.logger.Debug("editor opened",
		zap.String("search_id", searchID),
		zap.Int("aggregations", tree.Len()),
	)
	return ed, nil
}

// Forget drops the in-memory editor of searchID. Open edits are lost.
func (s *Service) Forget(searchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.editors[searchID]; !ok {
		return false
	}
	delete(s.editors, searchID)
	return true
}

// Open reports how many editors are held in memory.
func (s *Service) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors)
}

// Kinds lists the kinds selectable at level, in catalog order.
func (s *Service) Kinds(level kind.Level) []kind.Descriptor {
	return kind.ForLevel(level)
}
