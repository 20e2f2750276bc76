package poller

import (
	"fmt"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/tidwall/gjson"
)

// an empty path means the field is not collected and stays zero
type fieldReader struct {
	doc gjson.Result
	err error
}

func newFieldReader(body []byte) (*fieldReader, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}

	return &fieldReader{doc: gjson.ParseBytes(body)}, nil
}

func (r *fieldReader) lookup(path string) (gjson.Result, bool) {
	if r.err != nil || len(path) == 0 {
		return gjson.Result{}, false
	}

	res := r.doc.Get(path)
	if !res.Exists() {
		r.err = errPathNotFound(path)
		return gjson.Result{}, false
	}

	return res, true
}

func (r *fieldReader) int64(path string) int64 {
	res, ok := r.lookup(path)
	if !ok {
		return 0
	}

	return res.Int()
}

func (r *fieldReader) int(path string) int {
	return int(r.int64(path))
}

func (r *fieldReader) strings(path string) []string {
	res, ok := r.lookup(path)
	if !ok {
		return nil
	}

	items := res.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}

	return out
}

func extractGitHub(body []byte, cfg config.GitHubSourceConfig) (validator.GitHubMetrics, error) {
	r, err := newFieldReader(body)
	if err != nil {
		return validator.GitHubMetrics{}, err
	}

	metrics := validator.GitHubMetrics{
		CollectionTimestamp: r.int64(cfg.TimestampPath),
		Commits: validator.CommitMetrics{
			Count:   r.int(cfg.CommitsPath),
			Authors: r.strings(cfg.CommitAuthorsPath),
		},
		PullRequests: validator.PullRequestMetrics{
			Merged:  r.int(cfg.MergedPullRequestsPath),
			Authors: r.strings(cfg.PullRequestAuthorsPath),
		},
		Issues: validator.IssueMetrics{
			Closed:       r.int(cfg.ClosedIssuesPath),
			Participants: r.strings(cfg.IssueParticipantsPath),
		},
	}
	if r.err != nil {
		return validator.GitHubMetrics{}, fmt.Errorf("github snapshot: %w", r.err)
	}

	return metrics, nil
}

func extractNear(body []byte, cfg config.NearSourceConfig) (validator.NearMetrics, error) {
	r, err := newFieldReader(body)
	if err != nil {
		return validator.NearMetrics{}, err
	}

	metrics := validator.NearMetrics{
		CollectionTimestamp: r.int64(cfg.TimestampPath),
		Transactions: validator.TransactionMetrics{
			Count:       r.int(cfg.TransactionsPath),
			UniqueUsers: r.strings(cfg.TransactionSendersPath),
		},
		ContractCalls: validator.ContractCallMetrics{
			Count:         r.int(cfg.ContractCallsPath),
			UniqueCallers: r.strings(cfg.ContractCallersPath),
		},
	}
	if r.err != nil {
		return validator.NearMetrics{}, fmt.Errorf("near snapshot: %w", r.err)
	}

	return metrics, nil
}
