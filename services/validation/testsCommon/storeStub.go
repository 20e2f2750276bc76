package testsCommon

import (
	"context"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/common"
	"github.com/elliotBraem/near-protocol-rewards/validator"
)

// StoreStub -
type StoreStub struct {
	SaveSnapshotHandler       func(ctx context.Context, project string, github validator.GitHubMetrics, near validator.NearMetrics, recordedAt int64) error
	GetLatestSnapshotHandler  func(ctx context.Context, project string) (*common.Snapshot, error)
	GetSnapshotHistoryHandler func(ctx context.Context, project string) ([]common.Snapshot, error)
	GetProjectsHandler        func(ctx context.Context) ([]common.ProjectSummary, error)
	DeleteProjectHandler      func(ctx context.Context, project string) error
	CloseHandler              func() error
}

// SaveSnapshot -
func (stub *StoreStub) SaveSnapshot(ctx context.Context, project string, github validator.GitHubMetrics, near validator.NearMetrics, recordedAt int64) error {
	if stub.SaveSnapshotHandler != nil {
		return stub.SaveSnapshotHandler(ctx, project, github, near, recordedAt)
	}

	return nil
}

// GetLatestSnapshot -
func (stub *StoreStub) GetLatestSnapshot(ctx context.Context, project string) (*common.Snapshot, error) {
	if stub.GetLatestSnapshotHandler != nil {
		return stub.GetLatestSnapshotHandler(ctx, project)
	}

	return nil, common.ErrSnapshotNotFound
}

// GetSnapshotHistory -
func (stub *StoreStub) GetSnapshotHistory(ctx context.Context, project string) ([]common.Snapshot, error) {
	if stub.GetSnapshotHistoryHandler != nil {
		return stub.GetSnapshotHistoryHandler(ctx, project)
	}

	return make([]common.Snapshot, 0), nil
}

// GetProjects -
func (stub *StoreStub) GetProjects(ctx context.Context) ([]common.ProjectSummary, error) {
	if stub.GetProjectsHandler != nil {
		return stub.GetProjectsHandler(ctx)
	}

	return make([]common.ProjectSummary, 0), nil
}

// DeleteProject -
func (stub *StoreStub) DeleteProject(ctx context.Context, project string) error {
	if stub.DeleteProjectHandler != nil {
		return stub.DeleteProjectHandler(ctx, project)
	}

	return nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
