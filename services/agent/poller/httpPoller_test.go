package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const githubDocument = `{
	"metadata": {"collectionTimestamp": 1700000000000},
	"commits": {"count": 42, "authors": [{"login": "alice"}, {"login": "bob"}]},
	"pullRequests": {"merged": 7, "authors": ["alice"]},
	"issues": {"closed": 3, "participants": ["carol", "alice"]}
}`

const nearDocument = `{
	"metadata": {"collectionTimestamp": 1700000100000},
	"transactions": {"count": 120, "uniqueUsers": ["alice.near", "bob.near"]},
	"contractCalls": {"count": 30, "uniqueCallers": ["bob.near"]}
}`

func jsonServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func githubSource(url string) config.GitHubSourceConfig {
	return config.GitHubSourceConfig{
		URL:                    url,
		TimestampPath:          "metadata.collectionTimestamp",
		CommitsPath:            "commits.count",
		CommitAuthorsPath:      "commits.authors.#.login",
		MergedPullRequestsPath: "pullRequests.merged",
		PullRequestAuthorsPath: "pullRequests.authors",
		ClosedIssuesPath:       "issues.closed",
		IssueParticipantsPath:  "issues.participants",
	}
}

func nearSource(url string) config.NearSourceConfig {
	return config.NearSourceConfig{
		URL:                    url,
		TimestampPath:          "metadata.collectionTimestamp",
		TransactionsPath:       "transactions.count",
		TransactionSendersPath: "transactions.uniqueUsers",
		ContractCallsPath:      "contractCalls.count",
		ContractCallersPath:    "contractCalls.uniqueCallers",
	}
}

func TestHTTPPoller_Poll(t *testing.T) {
	githubServer := jsonServer(githubDocument)
	defer githubServer.Close()

	nearServer := jsonServer(nearDocument)
	defer nearServer.Close()

	missingPathServer := jsonServer(`{"metadata": {}}`)
	defer missingPathServer.Close()

	invalidServer := jsonServer(`not json`)
	defer invalidServer.Close()

	failingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failingServer.Close()

	timeoutServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer timeoutServer.Close()

	// 1s timeout to trip the slow server
	poller := NewHTTPPoller(1 * time.Second)
	require.False(t, poller.IsInterfaceNil())
	ctx := context.Background()

	t.Run("both sources available", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource(githubServer.URL), nearSource(nearServer.URL))
		require.NoError(t, err)

		assert.Equal(t, int64(1700000000000), snapshot.GitHub.CollectionTimestamp)
		assert.Equal(t, 42, snapshot.GitHub.Commits.Count)
		assert.Equal(t, []string{"alice", "bob"}, snapshot.GitHub.Commits.Authors)
		assert.Equal(t, 7, snapshot.GitHub.PullRequests.Merged)
		assert.Equal(t, 3, snapshot.GitHub.Issues.Closed)
		assert.Equal(t, []string{"carol", "alice"}, snapshot.GitHub.Issues.Participants)

		assert.Equal(t, int64(1700000100000), snapshot.Near.CollectionTimestamp)
		assert.Equal(t, 120, snapshot.Near.Transactions.Count)
		assert.Equal(t, []string{"alice.near", "bob.near"}, snapshot.Near.Transactions.UniqueUsers)
		assert.Equal(t, 30, snapshot.Near.ContractCalls.Count)
	})
	t.Run("empty path leaves the field zero", func(t *testing.T) {
		source := githubSource(githubServer.URL)
		source.IssueParticipantsPath = ""
		source.ClosedIssuesPath = ""

		snapshot, err := poller.Poll(ctx, source, nearSource(nearServer.URL))
		require.NoError(t, err)
		assert.Equal(t, 0, snapshot.GitHub.Issues.Closed)
		assert.Nil(t, snapshot.GitHub.Issues.Participants)
	})
	t.Run("missing path should error", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource(githubServer.URL), nearSource(missingPathServer.URL))
		assert.Nil(t, snapshot)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JSON path not found in response: metadata.collectionTimestamp")
	})
	t.Run("invalid JSON should error", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource(invalidServer.URL), nearSource(nearServer.URL))
		assert.Nil(t, snapshot)
		assert.Equal(t, errInvalidJSON, err)
	})
	t.Run("non-2xx should error", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource(failingServer.URL), nearSource(nearServer.URL))
		assert.Nil(t, snapshot)
		assert.Equal(t, errStatusNotOK(http.StatusBadGateway), err)
	})
	t.Run("timeout should error", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource(githubServer.URL), nearSource(timeoutServer.URL))
		assert.Nil(t, snapshot)
		assert.Error(t, err)
	})
	t.Run("connection refused should error", func(t *testing.T) {
		snapshot, err := poller.Poll(ctx, githubSource("http://localhost:59999"), nearSource(nearServer.URL))
		assert.Nil(t, snapshot)
		assert.Error(t, err)
	})
}
