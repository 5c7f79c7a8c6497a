package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AIOP/backend/internal/api/http"
	"github.com/GriffinCanCode/AIOP/backend/internal/api/middleware"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/extensions"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/service"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
	"github.com/GriffinCanCode/AIOP/backend/internal/ws"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	registry   *service.Registry
	extensions *extensions.Manager
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing AIOP backend",
		zap.String("addr", cfg.Address()),
		zap.Bool("legacy_errors", cfg.Storage.LegacyErrors),
	)

	layout, err := paths.NewLayout(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	metrics := monitoring.NewMetrics()

	ops := filesystem.New(OperatorOptions(cfg), logger.Component("filesystem"))
	manager := extensions.NewManager(ops, layout, ExtensionOptions(cfg), logger.Component("extensions"))
	manager.SetRecorder(metrics)
	if err := manager.EnsureRoot(); err != nil {
		return nil, fmt.Errorf("failed to create extensions folder: %w", err)
	}

	registry := service.NewRegistry()
	if err := registerProviders(registry, ops, manager, cfg, logger); err != nil {
		return nil, err
	}
	if err := service.RegisterLegacyCommands(registry); err != nil {
		return nil, fmt.Errorf("failed to register legacy commands: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Server.CORSOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(registry, metrics, logger.Component("api"))
	wsHandler := ws.NewHandler(registry, metrics, logger.Component("ipc"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.ListServices)
	router.POST("/invoke", handlers.Invoke)
	router.POST("/invoke/:command", handlers.InvokeCommand)
	router.POST("/logs", handlers.IngestLogs)
	router.GET("/ipc", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized",
		zap.String("extensions_root", manager.Root()),
		zap.Any("registry", registry.Stats()),
	)

	return &Server{
		router:     router,
		registry:   registry,
		extensions: manager,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
	}, nil
}

// OperatorOptions builds operator options from configuration
func OperatorOptions(cfg *config.Config) filesystem.Options {
	opts := filesystem.DefaultOptions()
	opts.IncludeHidden = cfg.Copy.IncludeHidden
	opts.RespectIgnoreFiles = cfg.Copy.RespectIgnoreFiles
	opts.IgnorePatterns = cfg.Copy.Ignore
	return opts
}

// ExtensionOptions builds extensions manager options from configuration
func ExtensionOptions(cfg *config.Config) extensions.Options {
	return extensions.Options{
		Validate:         cfg.Extensions.Validate,
		Sanitize:         cfg.Extensions.Sanitize,
		DownloadTimeout:  cfg.Extensions.DownloadTimeout,
		DownloadRetries:  cfg.Extensions.DownloadRetries,
		MaxDownloadBytes: cfg.Extensions.MaxDownloadBytes,
	}
}

func registerProviders(registry *service.Registry, ops *filesystem.Operator, manager *extensions.Manager, cfg *config.Config, logger *logging.Logger) error {
	providers := []service.Provider{
		filesystem.NewProvider(ops, cfg.Storage.LegacyErrors, logger.Component("filesystem")),
		extensions.NewProvider(manager, logger.Component("extensions")),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Definition().ID, err)
		}
	}
	return nil
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the command registry
func (s *Server) Registry() *service.Registry {
	return s.registry
}

// Extensions returns the extensions manager
func (s *Server) Extensions() *extensions.Manager {
	return s.extensions
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Address()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// RunContext runs the server until ctx is cancelled, then shuts it down
func (s *Server) RunContext(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Close()
	}
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
	}

	_ = s.logger.Sync()
	return nil
}
