package validator

import "fmt"

// CommitMetrics holds the commit counter of a code-activity snapshot
type CommitMetrics struct {
	Count   int      `json:"count"`
	Authors []string `json:"authors"`
}

// PullRequestMetrics holds the merged pull request counter of a code-activity snapshot
type PullRequestMetrics struct {
	Merged  int      `json:"merged"`
	Authors []string `json:"authors"`
}

// IssueMetrics holds the closed issue counter of a code-activity snapshot
type IssueMetrics struct {
	Closed       int      `json:"closed"`
	Participants []string `json:"participants"`
}

// GitHubMetrics is the code-activity snapshot (record A)
type GitHubMetrics struct {
	CollectionTimestamp int64              `json:"collectionTimestamp"`
	Commits             CommitMetrics      `json:"commits"`
	PullRequests        PullRequestMetrics `json:"pullRequests"`
	Issues              IssueMetrics       `json:"issues"`
}

// TransactionMetrics holds the transaction counter of a ledger-activity snapshot
type TransactionMetrics struct {
	Count       int      `json:"count"`
	UniqueUsers []string `json:"uniqueUsers"`
}

// ContractCallMetrics holds the contract call counter of a ledger-activity snapshot
type ContractCallMetrics struct {
	Count         int      `json:"count"`
	UniqueCallers []string `json:"uniqueCallers"`
}

// NearMetrics is the ledger-activity snapshot (record B)
type NearMetrics struct {
	CollectionTimestamp int64               `json:"collectionTimestamp"`
	Transactions        TransactionMetrics  `json:"transactions"`
	ContractCalls       ContractCallMetrics `json:"contractCalls"`
}

// CheckInput rejects records that can not be validated at all. It is independent of Validate:
// a nil error only means the records are well formed, not that they are consistent.
func CheckInput(github GitHubMetrics, near NearMetrics) error {
	err := checkNonNegative("github", map[string]int64{
		"collectionTimestamp": github.CollectionTimestamp,
		"commits.count":       int64(github.Commits.Count),
		"pullRequests.merged": int64(github.PullRequests.Merged),
		"issues.closed":       int64(github.Issues.Closed),
	})
	if err != nil {
		return err
	}

	return checkNonNegative("near", map[string]int64{
		"collectionTimestamp": near.CollectionTimestamp,
		"transactions.count":  int64(near.Transactions.Count),
		"contractCalls.count": int64(near.ContractCalls.Count),
	})
}

func checkNonNegative(source string, fields map[string]int64) error {
	for _, name := range sortedKeys(fields) {
		if fields[name] < 0 {
			return fmt.Errorf("%w: %s %s is negative (%d)", ErrInvalidInput, source, name, fields[name])
		}
	}

	return nil
}
