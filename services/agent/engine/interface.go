package engine

import (
	"context"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
)

// Poller defines the interface for fetching the two source snapshots
type Poller interface {
	// Poll fetches both source documents and extracts the configured JSON paths.
	// A failing source fails the whole pair.
	Poll(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error)

	IsInterfaceNil() bool
}

// Reporter defines the interface for pushing polled snapshots to the validation service
type Reporter interface {
	// Report sends a snapshot pair to the server. Failures are not retried.
	Report(ctx context.Context, snapshot *common.Snapshot) error

	IsInterfaceNil() bool
}
