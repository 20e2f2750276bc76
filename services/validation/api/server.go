package api

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/common"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	validator      Validator
	recorder       Recorder
	serviceKey     string
	username       string
	password       string
	listenAddr     string
	jwtSecret      []byte
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi  string
	AuthUsername   string
	AuthPassword   string
	ListenAddress  string
	Storage        Storage
	Validator      Validator
	Recorder       Recorder
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if check.IfNil(args.Validator) {
		return nil, errors.New("validator is required")
	}
	if check.IfNil(args.Recorder) {
		return nil, errors.New("recorder is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	// tokens do not survive a restart: the signing secret is salted per process
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	h := hmac.New(sha256.New, []byte(args.ServiceKeyApi))
	h.Write(salt)
	jwtSecret := h.Sum(nil)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		storage:        args.Storage,
		validator:      args.Validator,
		recorder:       args.Recorder,
		serviceKey:     args.ServiceKeyApi,
		username:       args.AuthUsername,
		password:       args.AuthPassword,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
		jwtSecret:      jwtSecret,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(s.recorder.Handler()))

	api := s.router.Group("/api")

	// agent endpoints
	api.POST("/report", s.authAPIKey(), s.handleReport)
	api.POST("/validate", s.authAPIKey(), s.handleValidate)

	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("/")
	protected.Use(s.authJWT())
	{
		protected.GET("/projects", s.handleGetProjects)
		protected.GET("/projects/:name/validation", s.handleGetValidation)
		protected.GET("/projects/:name/history", s.handleGetHistory)
		protected.DELETE("/projects/:name", s.handleDeleteProject)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) handleReport(c *gin.Context) {
	var payload common.ReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	project := strings.TrimSpace(payload.Project)
	if project == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing project"})
		return
	}
	if err := validator.CheckInput(payload.GitHub, payload.Near); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Debug("received report", "sender", c.Request.RemoteAddr, "project", project)

	err := s.storage.SaveSnapshot(c.Request.Context(), project, payload.GitHub, payload.Near, time.Now().Unix())
	if err != nil {
		log.Warn("failed to save snapshot", "project", project, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save snapshot"})
		return
	}

	result := s.validator.Validate(payload.GitHub, payload.Near)
	s.recorder.RecordResult(project, result)
	logResult(project, result)

	c.JSON(http.StatusOK, gin.H{"ok": true, "isValid": result.IsValid})
}

func (s *server) handleValidate(c *gin.Context) {
	var payload common.ValidatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validator.CheckInput(payload.GitHub, payload.Near); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.validator.Validate(payload.GitHub, payload.Near)
	// unnamed pairs are accounted under the ad-hoc project label
	s.recorder.RecordResult("", result)

	c.JSON(http.StatusOK, result)
}

func (s *server) handleGetProjects(c *gin.Context) {
	projects, err := s.storage.GetProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *server) handleGetValidation(c *gin.Context) {
	name := c.Param("name")
	snapshot, err := s.storage.GetLatestSnapshot(c.Request.Context(), name)
	if err != nil {
		s.writeStorageError(c, err)
		return
	}

	result := s.validator.Validate(snapshot.GitHub, snapshot.Near)

	c.JSON(http.StatusOK, gin.H{
		"project":    snapshot.Project,
		"recordedAt": snapshot.RecordedAt,
		"result":     result,
	})
}

func (s *server) handleGetHistory(c *gin.Context) {
	name := c.Param("name")
	history, err := s.storage.GetSnapshotHistory(c.Request.Context(), name)
	if err != nil {
		s.writeStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": name, "snapshots": history})
}

func (s *server) handleDeleteProject(c *gin.Context) {
	name := c.Param("name")
	err := s.storage.DeleteProject(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info("deleted project", "project", name)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) writeStorageError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func logResult(project string, result *validator.ValidationResult) {
	if result.IsValid && len(result.Warnings) == 0 {
		log.Debug("snapshot pair is consistent", "project", project)
		return
	}

	for _, issue := range result.Errors {
		log.Warn("cross-source error", "project", project, "code", issue.Code.String(), "message", issue.Message)
	}
	for _, issue := range result.Warnings {
		log.Info("cross-source warning", "project", project, "code", issue.Code.String(), "message", issue.Message)
	}
}

// IsInterfaceNil returns true if there is no value under the interface
func (s *server) IsInterfaceNil() bool {
	return s == nil
}
