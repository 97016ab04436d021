package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/querygym/querygym-engine/pkg/analysis"
	"github.com/querygym/querygym-engine/pkg/autocomplete"
	"github.com/querygym/querygym-engine/pkg/config"
	"github.com/querygym/querygym-engine/pkg/database"
	"github.com/querygym/querygym-engine/pkg/handlers"
	"github.com/querygym/querygym-engine/pkg/logging"
	"github.com/querygym/querygym-engine/pkg/metrics"
	"github.com/querygym/querygym-engine/pkg/middleware"
	"github.com/querygym/querygym-engine/pkg/schema"
	"github.com/querygym/querygym-engine/pkg/services"
	"github.com/querygym/querygym-engine/pkg/sqlcheck"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("sandbox", logging.SanitizeConnectionString(cfg.Sandbox.ConnectionString())))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to metadata store", zap.Error(err))
	}
	defer db.Close()

	sandboxDB, err := database.NewSandboxConnection(ctx, &cfg.Sandbox)
	if err != nil {
		logger.Fatal("Failed to connect to sandbox", zap.Error(err))
	}
	defer sandboxDB.Close()

	m := metrics.New()

	cache := schema.NewCache(
		schema.NewPostgresDiscoverer(sandboxDB.Pool),
		logger,
		schema.WithRefreshInterval(cfg.Schema.RefreshInterval()),
		schema.WithRefreshTimeout(cfg.Schema.RefreshTimeout()),
	)
	if err := cache.Start(ctx); err != nil {
		// An empty snapshot still serves requests; the refresh loop keeps
		// retrying in the background.
		logger.Warn("Initial schema refresh failed", zap.Error(err))
	}

	validator := sqlcheck.NewValidator(
		sqlcheck.NewRateLimiter(cfg.Validator.RateLimitWindow(), cfg.Validator.RateLimitMaxRequests),
		sqlcheck.WithMaxLength(cfg.Validator.MaxQueryLength),
	)

	executor := services.NewSandboxExecutor(sandboxDB, cfg.Sandbox.MaxResultRows, logger)
	problems := services.NewProblemService(db)
	execution := services.NewExecutionService(validator, executor, analysis.NewAnalyzer(), cache, m, logger)
	engine := autocomplete.NewEngine(cache)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAutocompleteHandler(engine, cache, problems, m, logger).RegisterRoutes(mux)
	handlers.NewExecuteHandler(execution, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", m.Handler())

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting querygym-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, middleware.RequestLogger(logger)(mux)); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
