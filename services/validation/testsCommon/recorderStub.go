package testsCommon

import (
	"net/http"

	"github.com/elliotBraem/near-protocol-rewards/validator"
)

// RecorderStub -
type RecorderStub struct {
	RecordResultHandler func(project string, result *validator.ValidationResult)
	HandlerHandler      func() http.Handler
}

// RecordResult -
func (stub *RecorderStub) RecordResult(project string, result *validator.ValidationResult) {
	if stub.RecordResultHandler != nil {
		stub.RecordResultHandler(project, result)
	}
}

// Handler -
func (stub *RecorderStub) Handler() http.Handler {
	if stub.HandlerHandler != nil {
		return stub.HandlerHandler()
	}

	return http.NotFoundHandler()
}

// IsInterfaceNil -
func (stub *RecorderStub) IsInterfaceNil() bool {
	return stub == nil
}
