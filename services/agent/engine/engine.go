package engine

import (
	"context"
	"errors"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	pollTimeout   = 30 * time.Second
	reportTimeout = 10 * time.Second
)

var log = logger.GetOrCreate("engine")

// agentEngine orchestrates polling and reporting at configured intervals
type agentEngine struct {
	config   config.Config
	poller   Poller
	reporter Reporter
}

// NewAgentEngine creates a new engine instance
func NewAgentEngine(cfg config.Config, p Poller, r Reporter) (*agentEngine, error) {
	if check.IfNil(p) {
		return nil, errors.New("nil poller")
	}
	if check.IfNil(r) {
		return nil, errors.New("nil reporter")
	}

	return &agentEngine{
		config:   cfg,
		poller:   p,
		reporter: r,
	}, nil
}

// Process polls both sources and, if both answered, sends the pair to the reporter
func (e *agentEngine) Process(ctx context.Context) {
	log.Debug("waking up to poll sources", "project", e.config.Name)

	pollCtx, cancelPoll := context.WithTimeout(ctx, pollTimeout)
	defer cancelPoll()

	snapshot, err := e.poller.Poll(pollCtx, e.config.GitHub, e.config.Near)
	if err != nil {
		log.Warn("failed to poll sources, skipping this round", "project", e.config.Name, "error", err)
		return
	}

	log.Debug("finished polling",
		"github timestamp", snapshot.GitHub.CollectionTimestamp,
		"near timestamp", snapshot.Near.CollectionTimestamp)

	reportCtx, cancelReport := context.WithTimeout(ctx, reportTimeout)
	defer cancelReport()

	err = e.reporter.Report(reportCtx, snapshot)
	if err != nil {
		log.Warn("failed to report snapshot, it will be discarded", "project", e.config.Name, "error", err)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *agentEngine) IsInterfaceNil() bool {
	return e == nil
}
