package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInput(t *testing.T) {
	t.Parallel()

	t.Run("zero records are well formed", func(t *testing.T) {
		assert.NoError(t, CheckInput(GitHubMetrics{}, NearMetrics{}))
	})
	t.Run("negative github counter", func(t *testing.T) {
		err := CheckInput(GitHubMetrics{PullRequests: PullRequestMetrics{Merged: -1}}, NearMetrics{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "github pullRequests.merged")
	})
	t.Run("negative near timestamp", func(t *testing.T) {
		err := CheckInput(GitHubMetrics{}, NearMetrics{CollectionTimestamp: -10})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "near collectionTimestamp")
	})
}

func TestRecords_MissingFieldsDecodeToZero(t *testing.T) {
	t.Parallel()

	var github GitHubMetrics
	require.NoError(t, json.Unmarshal([]byte(`{"collectionTimestamp": 5, "commits": {"count": 2}}`), &github))
	assert.Equal(t, int64(5), github.CollectionTimestamp)
	assert.Equal(t, 2, github.Commits.Count)
	assert.Equal(t, 0, github.Issues.Closed)
	assert.Nil(t, github.PullRequests.Authors)
}
