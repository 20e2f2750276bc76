package api

import (
	"context"
	"net/http"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/common"
	"github.com/elliotBraem/near-protocol-rewards/validator"
)

// Storage defines the interface for persisting and querying snapshot pairs
type Storage interface {
	// SaveSnapshot stores a pair for the project, trimming the project's history to the configured size
	SaveSnapshot(ctx context.Context, project string, github validator.GitHubMetrics, near validator.NearMetrics, recordedAt int64) error

	// GetLatestSnapshot returns the most recent pair of the project or common.ErrSnapshotNotFound
	GetLatestSnapshot(ctx context.Context, project string) (*common.Snapshot, error)

	// GetSnapshotHistory returns all retained pairs of the project or common.ErrSnapshotNotFound for unknown projects
	GetSnapshotHistory(ctx context.Context, project string) ([]common.Snapshot, error)

	// GetProjects returns a summary of every known project
	GetProjects(ctx context.Context) ([]common.ProjectSummary, error)

	// DeleteProject removes a project and all its snapshots
	DeleteProject(ctx context.Context, project string) error

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}

// Validator defines the cross-source consistency check
type Validator interface {
	Validate(github validator.GitHubMetrics, near validator.NearMetrics) *validator.ValidationResult
	IsInterfaceNil() bool
}

// Recorder defines the component that accounts validation outcomes
type Recorder interface {
	RecordResult(project string, result *validator.ValidationResult)
	Handler() http.Handler
	IsInterfaceNil() bool
}
