package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/numlookup/internal"
	"github.com/dukerupert/numlookup/internal/cookie"
	"github.com/dukerupert/numlookup/internal/events"
	"github.com/dukerupert/numlookup/internal/handler"
	"github.com/dukerupert/numlookup/internal/handler/lookup"
	"github.com/dukerupert/numlookup/internal/history"
	lookupclient "github.com/dukerupert/numlookup/internal/lookup"
	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/dukerupert/numlookup/internal/middleware"
	"github.com/dukerupert/numlookup/internal/router"
	"github.com/dukerupert/numlookup/internal/routes"
	"github.com/dukerupert/numlookup/internal/service"
	"github.com/dukerupert/numlookup/internal/session"
	"github.com/dukerupert/numlookup/internal/telemetry"
	"github.com/dukerupert/numlookup/internal/worker"
	"github.com/dukerupert/numlookup/web"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logWriter, logCloser := internal.NewLogWriter(cfg.LogFile)
	if logCloser != nil {
		defer logCloser.Close()
	}
	logger := internal.NewLogger(logWriter, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Lookup API client
	validator := lookupclient.NewClient(lookupclient.Config{
		APIKey:    cfg.Lookup.APIKey,
		BaseURL:   cfg.Lookup.BaseURL,
		Transport: &telemetry.HTTPTransport{},
	}, logger)

	// Session store
	var tasks []worker.Task
	var sessions session.Store
	switch cfg.Session.Store {
	case "redis":
		logger.Info("Connecting to redis...")
		client, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return fmt.Errorf("session store initialization failed: %w", err)
		}
		defer client.Close()
		sessions = session.NewRedisStore(client, cfg.Session.TTL)
		logger.Info("Redis session store ready")
	default:
		mem := session.NewMemoryStore(cfg.Session.TTL)
		sessions = mem
		tasks = append(tasks, worker.SessionSweepTask(mem, logger))
	}

	// History store
	historyStore, closeHistory, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	// Metrics
	metrics := middleware.NewMetrics("numlookup", nil)
	lookupMetrics := telemetry.NewLookupMetrics("numlookup", nil)

	recorder := history.NewRecorder(historyStore, history.Policy{
		PersistFailures: cfg.History.PersistFailures,
	}, history.RecorderConfig{}, logger)
	recorder.OnWrite = lookupMetrics.ObserveHistoryWrite

	// Event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.NATSURL != "" {
		logger.Info("Connecting to NATS...", "url", cfg.Events.NATSURL)
		nc, err := events.NewNATSPublisher(cfg.Events.NATSURL, logger)
		if err != nil {
			// Events are best effort; the page works without them
			logger.Warn("NATS unavailable, lookup events disabled", "error", err)
		} else {
			publisher = nc
		}
	}
	defer publisher.Close()

	// Validation service
	tiles := mapsync.TileLayer{URL: cfg.Map.TileURL, Attribution: cfg.Map.Attribution}
	validationService, err := service.NewValidationService(service.Dependencies{
		Lookup:    validator,
		Sessions:  sessions,
		Recorder:  recorder,
		History:   historyStore,
		Publisher: publisher,
		Metrics:   lookupMetrics,
		Logger:    logger,
	}, service.ValidationConfig{
		Tiles:        tiles,
		HistoryLimit: cfg.History.Limit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize validation service: %w", err)
	}

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer(web.Templates(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	// ==========================================================================
	// Initialize middleware and routes
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig = middleware.DevSecurityHeadersConfig()
	}

	cookies := cookie.NewConfig("", cfg.Env != "dev")

	r := router.New(
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.BrowserSession(cookies, cfg.Session.TTL),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		MetricsHandler: metrics.Handler(),
		Static:         web.Static(),
	})
	routes.RegisterLookupRoutes(r, routes.LookupDeps{
		PageHandler:     lookup.NewPageHandler(validationService, renderer, tiles, cfg.History.Enabled),
		ValidateHandler: lookup.NewValidateHandler(validationService, renderer, tiles, cfg.History.Enabled),
		HistoryHandler:  lookup.NewHistoryHandler(validationService, renderer),
	})
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ValidateHandler: lookup.NewAPIValidateHandler(validationService),
		AllowedOrigins:  cfg.APIAllowedOrigins,
	})

	// ==========================================================================
	// Start server and background workers
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return recorder.Start(gctx)
	})

	if len(tasks) > 0 {
		w := worker.NewWorker(worker.Config{}, logger, tasks...)
		g.Go(func() error {
			return w.Start(gctx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting server", "address", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openHistory returns the history store selected by cfg and a function that
// releases its resources.
func openHistory(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (history.Store, func(), error) {
	if !cfg.History.Enabled {
		return history.NoopStore{}, func() {}, nil
	}
	if cfg.History.DatabaseURL == "" {
		logger.Warn("HISTORY_ENABLED without DATABASE_URL, keeping history in memory")
		return history.NewMemoryStore(0), func() {}, nil
	}

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.History.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.History.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return history.NewPostgresStore(pool), pool.Close, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
