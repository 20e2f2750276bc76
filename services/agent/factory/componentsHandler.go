package factory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/commonGo"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/config"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/engine"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/poller"
	"github.com/elliotBraem/near-protocol-rewards/services/agent/reporter"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const minQueryInterval = time.Second

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	poller        engine.Poller
	reporter      engine.Reporter
	engine        Engine
	mutCancel     sync.Mutex
	cancel        func()
	queryInterval time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	serviceKeyApi string,
	cfg config.Config,
) (*componentsHandler, error) {
	err := checkConfig(cfg)
	if err != nil {
		return nil, err
	}

	queryInterval := time.Duration(cfg.QueryIntervalInSeconds) * time.Second
	if queryInterval < minQueryInterval {
		queryInterval = minQueryInterval
	}

	poll := poller.NewHTTPPoller(queryInterval)
	rep := reporter.NewHTTPReporter(cfg.ReportEndpoint, serviceKeyApi, cfg.Name, time.Duration(cfg.ReportTimeoutInSeconds)*time.Second)

	eng, err := engine.NewAgentEngine(cfg, poll, rep)
	if err != nil {
		return nil, err
	}

	log.Debug("agent components created", "project", cfg.Name,
		"github source", cfg.GitHub.URL, "near source", cfg.Near.URL, "query interval", queryInterval)

	return &componentsHandler{
		poller:        poll,
		reporter:      rep,
		engine:        eng,
		queryInterval: queryInterval,
	}, nil
}

func checkConfig(cfg config.Config) error {
	if len(cfg.Name) == 0 {
		return errors.New("empty project name")
	}
	if len(cfg.ReportEndpoint) == 0 {
		return errors.New("empty report endpoint")
	}
	if len(cfg.GitHub.URL) == 0 {
		return errors.New("empty GitHub source URL")
	}
	if len(cfg.Near.URL) == 0 {
		return errors.New("empty NEAR source URL")
	}

	return nil
}

// GetPoller returns the poller component
func (ch *componentsHandler) GetPoller() engine.Poller {
	return ch.poller
}

// GetReporter returns the reporter component
func (ch *componentsHandler) GetReporter() engine.Reporter {
	return ch.reporter
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.queryInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel == nil {
		return
	}

	ch.cancel()
	ch.cancel = nil
}
