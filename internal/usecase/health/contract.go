package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SearchPinger checks availability of the cluster that answers field statistics.
type SearchPinger interface {
	Ping(ctx context.Context) error
}
