package poller

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("poller")

type httpPoller struct {
	client *http.Client
}

// NewHTTPPoller creates a new HTTP-based poller with a default timeout
func NewHTTPPoller(timeout time.Duration) *httpPoller {
	return &httpPoller{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Poll fetches both source documents concurrently and maps them into a snapshot.
// The pair is only returned when both sources succeed.
func (p *httpPoller) Poll(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error) {
	snapshot := &common.Snapshot{}
	var githubErr, nearErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()

		var body []byte
		body, githubErr = p.fetch(ctx, github.URL)
		if githubErr != nil {
			return
		}
		snapshot.GitHub, githubErr = extractGitHub(body, github)
	}()
	go func() {
		defer wg.Done()

		var body []byte
		body, nearErr = p.fetch(ctx, near.URL)
		if nearErr != nil {
			return
		}
		snapshot.Near, nearErr = extractNear(body, near)
	}()
	wg.Wait()

	if githubErr != nil {
		log.Warn("github source poll failed", "url", github.URL, "error", githubErr)
		return nil, githubErr
	}
	if nearErr != nil {
		log.Warn("near source poll failed", "url", near.URL, "error", nearErr)
		return nil, nearErr
	}

	return snapshot, nil
}

func (p *httpPoller) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
