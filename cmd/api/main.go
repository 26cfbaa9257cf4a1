package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"honeynet-lab/internal/api"
	"honeynet-lab/internal/api/handlers"
	"honeynet-lab/internal/config"
	"honeynet-lab/internal/domain/services/ai"
	"honeynet-lab/internal/domain/services/detection"
	"honeynet-lab/internal/domain/services/dialogue"
	"honeynet-lab/internal/domain/services/extraction"
	"honeynet-lab/internal/domain/services/session"
	grpcserver "honeynet-lab/internal/grpc/honeynet"
	"honeynet-lab/internal/infrastructure/cache"
	"honeynet-lab/internal/infrastructure/database"
	"honeynet-lab/internal/infrastructure/database/repository"
	"honeynet-lab/pkg/logger"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Honeynet Lab")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize optional infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Report archive
	var reports *repository.ReportRepository
	if db != nil {
		reports = repository.NewReportRepository(db.Pool())
		if err := reports.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("report archive unavailable")
			reports = nil
		} else {
			log.Info().Msg("report archive initialized")
		}
	} else {
		log.Warn().Msg("running without database - reports are not archived")
	}

	// Core services
	classifier := detection.NewClassifier(log)
	extractor := extraction.NewExtractor(log)

	oracle, llmClient := buildOracle(cfg.LLM, log)
	engine := dialogue.NewEngine(oracle, nil, cfg.Honeypot.MaxExchanges, log)

	manager := session.NewManager(session.NewMemoryStore(), classifier, extractor, engine, llmClient, log)
	log.Info().
		Int("max_exchanges", cfg.Honeypot.MaxExchanges).
		Bool("llm_enabled", oracle != nil).
		Msg("honeypot engine initialized")

	// Handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Manager:    manager,
		Classifier: classifier,
		Extractor:  extractor,
		Cache:      redisCache,
		DB:         db,
		Reports:    reports,
		Honeypot:   cfg.Honeypot,
		Logger:     log,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start gRPC server (health checks for orchestration)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcSrv := grpc.NewServer()
	grpcserver.RegisterHealthServer(grpcSrv, db, redisCache)

	go func() {
		log.Info().
			Str("addr", grpcListener.Addr().String()).
			Msg("starting gRPC server")
		if err := grpcSrv.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcSrv.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects the optional backends. Both are allowed to
// fail; the engine is fully functional memory-resident.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}

// buildOracle assembles the reply oracle from the configured providers,
// ordered claude then openai, each behind its own quota breaker. Returns
// nil when no provider is configured, which selects template-only replies.
func buildOracle(cfg config.LLMConfig, log *logger.Logger) (ai.ReplyFunc, *ai.LLMClient) {
	if !cfg.Enabled {
		return nil, nil
	}

	backends := []ai.ReplyFunc{}
	var primary *ai.LLMClient

	if cfg.ClaudeAPIKey != "" {
		client := ai.NewLLMClient(ai.LLMConfig{
			Provider:     "claude",
			ClaudeAPIKey: cfg.ClaudeAPIKey,
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			Timeout:      cfg.Timeout,
		}, log)
		backends = append(backends, ai.ReplyOracle(client))
		primary = client
	}
	if cfg.OpenAIAPIKey != "" {
		client := ai.NewLLMClient(ai.LLMConfig{
			Provider:     "openai",
			OpenAIAPIKey: cfg.OpenAIAPIKey,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			Timeout:      cfg.Timeout,
		}, log)
		backends = append(backends, ai.ReplyOracle(client))
		if primary == nil {
			primary = client
		}
	}

	if len(backends) == 0 {
		log.Warn().Msg("llm enabled but no API keys configured, using template replies")
		return nil, nil
	}
	return ai.Fallback(log, backends...), primary
}
