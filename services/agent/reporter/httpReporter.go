package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("reporter")

var errNilSnapshot = errors.New("nil snapshot")

type httpReporter struct {
	endpoint string
	apiKey   string
	project  string
	client   *http.Client
}

// NewHTTPReporter creates a new reporter that pushes to the configured ReportEndpoint
func NewHTTPReporter(endpoint, apiKey, project string, timeout time.Duration) *httpReporter {
	return &httpReporter{
		endpoint: endpoint,
		apiKey:   apiKey,
		project:  project,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Report sends the snapshot pair of the configured project to the validation service
func (r *httpReporter) Report(ctx context.Context, snapshot *common.Snapshot) error {
	if snapshot == nil {
		return errNilSnapshot
	}

	payload := common.ReportPayload{
		Project: r.project,
		GitHub:  snapshot.GitHub,
		Near:    snapshot.Near,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending report: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server rejected report with status code: %d", resp.StatusCode)
	}

	log.Debug("successfully sent snapshot report", "endpoint", r.endpoint, "project", r.project)

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpReporter) IsInterfaceNil() bool {
	return r == nil
}
