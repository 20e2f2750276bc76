package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/common"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/testsCommon"
	"github.com/stretchr/testify/assert"
)

func TestNewAgentEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil poller should error", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, nil, &testsCommon.ReporterStub{})

		assert.Nil(t, engine)
		assert.True(t, engine.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil poller")
	})
	t.Run("nil reporter should error", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, &testsCommon.PollerStub{}, nil)

		assert.Nil(t, engine)
		assert.True(t, engine.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil reporter")
	})
	t.Run("should work", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, &testsCommon.PollerStub{}, &testsCommon.ReporterStub{})

		assert.NotNil(t, engine)
		assert.False(t, engine.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestAgentEngine_Process(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Name:   "project",
		GitHub: config.GitHubSourceConfig{URL: "github-url"},
		Near:   config.NearSourceConfig{URL: "near-url"},
	}

	t.Run("poll error should not report", func(t *testing.T) {
		t.Parallel()

		reported := false
		poller := &testsCommon.PollerStub{
			PollHandler: func(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error) {
				return nil, errors.New("poll error")
			},
		}
		reporter := &testsCommon.ReporterStub{
			ReportHandler: func(ctx context.Context, snapshot *common.Snapshot) error {
				reported = true
				return nil
			},
		}

		engine, _ := NewAgentEngine(cfg, poller, reporter)
		engine.Process(context.Background())
		assert.False(t, reported)
	})
	t.Run("polled snapshot should be reported", func(t *testing.T) {
		t.Parallel()

		polled := &common.Snapshot{}
		polled.GitHub.CollectionTimestamp = 10
		var receivedGitHubURL, receivedNearURL string
		var reportedSnapshot *common.Snapshot

		poller := &testsCommon.PollerStub{
			PollHandler: func(ctx context.Context, github config.GitHubSourceConfig, near config.NearSourceConfig) (*common.Snapshot, error) {
				receivedGitHubURL = github.URL
				receivedNearURL = near.URL
				return polled, nil
			},
		}
		reporter := &testsCommon.ReporterStub{
			ReportHandler: func(ctx context.Context, snapshot *common.Snapshot) error {
				reportedSnapshot = snapshot
				return errors.New("report error is only logged")
			},
		}

		engine, _ := NewAgentEngine(cfg, poller, reporter)
		engine.Process(context.Background())
		assert.Equal(t, "github-url", receivedGitHubURL)
		assert.Equal(t, "near-url", receivedNearURL)
		assert.Equal(t, polled, reportedSnapshot)
	})
}
