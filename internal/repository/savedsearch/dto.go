package savedsearch

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
)

const rowVersion = 1

// snapshotRow is the stored form of a saved search's aggregation specification.
type snapshotRow struct {
	Version      int                `json:"version"`
	UpdatedAt    int64              `json:"updated_at"`
	Aggregations []aggregation.Node `json:"aggregations"`
}

func encodeSnapshot(nodes []aggregation.Node, updatedAt int64) ([]byte, error) {
	if nodes == nil {
		nodes = []aggregation.Node{}
	}
	data, err := json.Marshal(snapshotRow{Version: rowVersion, UpdatedAt: updatedAt, Aggregations: nodes})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) ([]aggregation.Node, error) {
	var row snapshotRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if row.Version != rowVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", row.Version)
	}
	return row.Aggregations, nil
}
