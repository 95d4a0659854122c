package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/metrics"
)

// Notifier publishes a tree snapshot after every mutation, one notification per mutation.
type Notifier struct {
	searchID  string
	publisher Publisher
	logger    *zap.Logger
}

// NewNotifier creates a change notifier. A nil publisher drops notifications.
func NewNotifier(searchID string, publisher Publisher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{searchID: searchID, publisher: publisher, logger: logger}
}

// Notify snapshots tree and hands it to the publisher. Publish failures are
// logged and counted; the mutation that triggered them stands.
func (n *Notifier) Notify(ctx context.Context, tree *aggregation.Tree) []aggregation.Node {
	snapshot := tree.Snapshot()
	if n.publisher == nil {
		return snapshot
	}
	if err := n.publisher.Publish(ctx, n.searchID, snapshot); err != nil {
		metrics.SnapshotsPublishedTotal.WithLabelValues("error").Inc()
		n.logger.Error("publish aggregations snapshot",
			zap.String("search_id", n.searchID),
			zap.Int("aggregations", len(snapshot)),
			zap.Error(err),
		)
		return snapshot
	}
	metrics.SnapshotsPublishedTotal.WithLabelValues("ok").Inc()
	return snapshot
}
