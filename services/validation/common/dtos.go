package common

import (
	"errors"

	"github.com/elliotBraem/near-protocol-rewards/validator"
)

// ErrSnapshotNotFound is returned when a project has no stored snapshot
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a stored pair of source records
type Snapshot struct {
	Project    string                  `json:"project"`
	GitHub     validator.GitHubMetrics `json:"github"`
	Near       validator.NearMetrics   `json:"near"`
	RecordedAt int64                   `json:"recordedAt"` // unix seconds, set by the service
}

// ProjectSummary describes the stored snapshots of a project
type ProjectSummary struct {
	Name           string `json:"name"`
	NumSnapshots   int    `json:"numSnapshots"`
	LastRecordedAt int64  `json:"lastRecordedAt"`
}

// ReportPayload represents the incoming JSON body on /api/report
type ReportPayload struct {
	Project string                  `json:"project"`
	GitHub  validator.GitHubMetrics `json:"github"`
	Near    validator.NearMetrics   `json:"near"`
}

// ValidatePayload represents the incoming JSON body on /api/validate
type ValidatePayload struct {
	GitHub validator.GitHubMetrics `json:"github"`
	Near   validator.NearMetrics   `json:"near"`
}
