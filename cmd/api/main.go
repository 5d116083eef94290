package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/docnearby/docnearby/internal/api/router"
	"github.com/docnearby/docnearby/internal/appointments"
	appconfig "github.com/docnearby/docnearby/internal/config"
	"github.com/docnearby/docnearby/internal/llm"
	"github.com/docnearby/docnearby/internal/notify"
	"github.com/docnearby/docnearby/internal/providers"
	"github.com/docnearby/docnearby/internal/search"
	"github.com/docnearby/docnearby/internal/triage"
	"github.com/docnearby/docnearby/pkg/logging"
)

func main() {
	// Load .env in local development; ignore when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting docnearby API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provider and appointment stores: Postgres when configured, in-memory
	// otherwise.
	var provRepo providers.Repository = providers.NewInMemoryRepository()
	var apptRepo appointments.Repository = appointments.NewInMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		provRepo = providers.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Language model client; search reranking and triage degrade gracefully
	// without it.
	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmClient = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	searchMetrics := search.NewMetrics(registry)

	// Search pipeline
	var remotes []search.Adapter
	if cfg.GoogleMapsAPIKey != "" {
		remotes = append(remotes, search.NewPlacesAdapter(cfg.GoogleMapsAPIKey, cfg.PlacesBaseURL, cfg.PlacesTimeout))
	}
	for _, site := range cfg.ScrapeSites {
		remotes = append(remotes, search.NewSiteAdapter(site, "", cfg.ScrapeTimeout))
	}
	aggregator := search.NewAggregator(search.NewLocalAdapter(provRepo), remotes, cfg.RemoteFetchWorkers, logger, searchMetrics)
	reranker := search.NewReranker(llmClient, cfg.RerankTimeout, logger, searchMetrics)
	searchHandler := search.NewHandler(aggregator, reranker, cfg.SearchRadiusKm, logger.WithComponent("search"))

	// Triage
	var triageCache *triage.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		triageCache = triage.NewCache(rdb, cfg.TriageCacheTTL, logger)
	}
	analyzer := triage.NewAnalyzer(llmClient, triageCache, cfg.TriageTimeout, logger.WithComponent("triage"))

	// Appointments
	var sender notify.EmailSender = notify.NewStubEmailSender(logger)
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	}
	apptService := appointments.NewService(apptRepo, provRepo, sender, logger.WithComponent("appointments"))

	r := router.New(&router.Config{
		Logger:              logger,
		SearchHandler:       searchHandler,
		ProvidersHandler:    providers.NewHandler(provRepo, logger.WithComponent("providers")),
		TriageHandler:       triage.NewHandler(analyzer, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTSecret:           cfg.JWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
