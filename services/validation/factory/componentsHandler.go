package factory

import (
	"fmt"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/api"
	"github.com/elliotBraem/near-protocol-rewards/services/validation/config"
	"github.com/elliotBraem/near-protocol-rewards/services/validation/metrics"
	"github.com/elliotBraem/near-protocol-rewards/services/validation/storage"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	store     api.Storage
	validator api.Validator
	recorder  api.Recorder
	server    Server
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	sqlitePath string,
	serviceKeyApi string,
	authUsername string,
	authPassword string,
	cfg config.Config,
) (*componentsHandler, error) {
	crossValidator, err := validator.NewCrossSourceValidator(validator.ArgsCrossSourceValidator{
		Overrides: cfg.Thresholds,
	})
	if err != nil {
		return nil, fmt.Errorf("%w while creating the cross-source validator", err)
	}

	thresholds := crossValidator.Thresholds()
	log.Debug("resolved thresholds",
		"max time drift", thresholds.MaxTimeDrift,
		"min activity correlation", thresholds.MinActivityCorrelation,
		"max data age", thresholds.MaxDataAge,
		"max user diff ratio", thresholds.MaxUserDiffRatio)

	store, err := storage.NewSQLiteStorage(sqlitePath, cfg.RetentionSeconds, cfg.HistorySize)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewPrometheusRecorder()

	serverArgs := api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		AuthUsername:   authUsername,
		AuthPassword:   authPassword,
		ListenAddress:  cfg.ListenAddress,
		Storage:        store,
		Validator:      crossValidator,
		Recorder:       recorder,
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:     store,
		validator: crossValidator,
		recorder:  recorder,
		server:    server,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetValidator returns the cross-source validator
func (ch *componentsHandler) GetValidator() api.Validator {
	return ch.validator
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	_ = ch.server.Close()
	_ = ch.store.Close()
}
