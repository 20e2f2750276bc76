package common

import "github.com/elliotBraem/near-protocol-rewards/validator"

// Snapshot holds one polled pair of source records
type Snapshot struct {
	GitHub validator.GitHubMetrics
	Near   validator.NearMetrics
}

// ReportPayload is the payload sent to the validation service
type ReportPayload struct {
	Project string                  `json:"project"`
	GitHub  validator.GitHubMetrics `json:"github"`
	Near    validator.NearMetrics   `json:"near"`
}
