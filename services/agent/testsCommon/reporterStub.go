package testsCommon

import (
	"context"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
)

// ReporterStub -
type ReporterStub struct {
	ReportHandler func(ctx context.Context, snapshot *common.Snapshot) error
}

// Report -
func (stub *ReporterStub) Report(ctx context.Context, snapshot *common.Snapshot) error {
	if stub.ReportHandler != nil {
		return stub.ReportHandler(ctx, snapshot)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReporterStub) IsInterfaceNil() bool {
	return stub == nil
}
