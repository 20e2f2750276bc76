package testsCommon

import "github.com/elliotBraem/near-protocol-rewards/validator"

// ValidatorStub -
type ValidatorStub struct {
	ValidateHandler func(github validator.GitHubMetrics, near validator.NearMetrics) *validator.ValidationResult
}

// Validate -
func (stub *ValidatorStub) Validate(github validator.GitHubMetrics, near validator.NearMetrics) *validator.ValidationResult {
	if stub.ValidateHandler != nil {
		return stub.ValidateHandler(github, near)
	}

	return &validator.ValidationResult{
		IsValid:  true,
		Errors:   make([]validator.Issue, 0),
		Warnings: make([]validator.Issue, 0),
		Metadata: make(map[string]string),
	}
}

// IsInterfaceNil -
func (stub *ValidatorStub) IsInterfaceNil() bool {
	return stub == nil
}
