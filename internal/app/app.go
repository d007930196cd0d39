package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gridpulse/internal/config"
	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/exporter"
	"gridpulse/internal/fetch"
	"gridpulse/internal/infrastructure"
	"gridpulse/internal/intensity"
	customMiddleware "gridpulse/internal/middleware"
	"gridpulse/internal/pipeline"
	"gridpulse/internal/services"
	handlers "gridpulse/internal/transport/http"
)

// Application is the composed GridPulse server: configuration, services,
// pipeline, router, and the HTTP server itself.
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	DataService      *services.DataService
	IntensityService *services.IntensityService
	HealthService    *services.HealthService
	PipelineManager  *pipeline.Manager

	errorHandler *apierrors.ErrorHandler
}

// NewApplication builds the application from the environment
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}
	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

// initializeServices wires the service layer and the pipeline
func (a *Application) initializeServices() error {
	a.DataService = services.NewDataService(a.Paths, a.Metrics, a.Logger)
	a.IntensityService = services.NewIntensityService(a.DataService, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(a.DataService, a.Logger)

	downloader := fetch.NewDownloader(a.Config.Fetch.Timeout, a.Logger)
	extractor := intensity.NewExtractor(a.Logger)
	reports := exporter.NewReportExporter(a.Paths)

	manager := pipeline.NewManager(a.Logger)
	manager.RegisterStage(pipeline.NewFetchStage(downloader, a.Config.Fetch.BulkURL, a.Paths))
	manager.RegisterStage(pipeline.NewLoadStage(a.Paths, a.Metrics))
	manager.RegisterStage(pipeline.NewReportStage(extractor, reports, a.Metrics))
	a.PipelineManager = manager

	// load an existing bulk file eagerly so the API is ready without a
	// pipeline run; a missing file just leaves the dataset unavailable
	if _, err := os.Stat(a.Paths.BulkFile); err == nil {
		if err := a.DataService.LoadFromDisk(context.Background()); err != nil {
			a.Logger.Warn("could not load existing bulk file",
				slog.String("path", a.Paths.BulkFile),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// setupRouter configures the chi router and middleware chain
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("create otel middleware: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			corsConfig := customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}
			r.Use(customMiddleware.CORS(corsConfig))
		}

		if a.Config.Security.RateLimit.Enabled {
			limiter := customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger)
			r.Use(limiter.Handler)
		}

		a.setupAPIRoutes(r)
	})

	// metrics scrape endpoint stays outside the instrumented group
	r.Method(http.MethodGet, "/metrics", a.OTelProviders.PrometheusHTTP)

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// setupAPIRoutes mounts the versioned API
func (a *Application) setupAPIRoutes(r chi.Router) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	dataHandler := handlers.NewDataHandler(a.DataService, a.Paths, a.Logger, a.errorHandler)
	intensityHandler := handlers.NewIntensityHandler(a.IntensityService, validation, a.Logger, a.errorHandler)
	pipelineHandler := handlers.NewPipelineHandler(a.PipelineManager, validation, a.Logger, a.errorHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// read endpoints share the server read timeout
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			r.Mount("/data", dataHandler.Routes())
			r.Mount("/series", intensityHandler.Routes())
		})

		// pipeline runs download and parse the full bulk archive
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(pipeline.DefaultStageTimeout, a.Logger))
			r.Use(validation.ValidateRequest)
			r.Mount("/pipeline", a.reloadingPipelineRoutes(pipelineHandler))
		})
	})
}

// reloadingPipelineRoutes wraps the pipeline routes so a completed run
// refreshes the in-memory dataset the query endpoints serve from.
func (a *Application) reloadingPipelineRoutes(h *handlers.PipelineHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			if req.Method == http.MethodPost && ww.Status() < 300 {
				if err := a.DataService.LoadFromDisk(req.Context()); err != nil {
					a.Logger.Error("dataset reload after pipeline run failed",
						slog.String("error", err.Error()))
				}
			}
		})
	})
	r.Mount("/", h.Routes())
	return r
}

// createServer builds the http.Server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start runs the HTTP server until the context is cancelled
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Stop()
	}
}

// Stop shuts the server and telemetry down gracefully
func (a *Application) Stop() error {
	a.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown failed",
			slog.String("error", err.Error()))
		return err
	}

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.Warn("telemetry shutdown failed",
			slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	return nil
}

// Run starts the application and blocks until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Start(ctx)
}
