package testsCommon

import (
	"context"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
)

// PollerStub -
type PollerStub struct {
	PollHandler func(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error)
}

// Poll -
func (stub *PollerStub) Poll(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error) {
	if stub.PollHandler != nil {
		return stub.PollHandler(ctx, github, near)
	}

	return &common.Snapshot{}, nil
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
