package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teranga/internal/aml"
	"teranga/internal/attestation"
	attesthandler "teranga/internal/attestation/handler"
	atteststore "teranga/internal/attestation/store"
	"teranga/internal/extraction"
	"teranga/internal/fusion"
	fusionstore "teranga/internal/fusion/store"
	"teranga/internal/pipeline"
	pipelinehandler "teranga/internal/pipeline/handler"
	pipelinemetrics "teranga/internal/pipeline/metrics"
	"teranga/internal/platform/config"
	"teranga/internal/platform/httpserver"
	"teranga/internal/platform/logger"
	"teranga/internal/platform/middleware"
	platformredis "teranga/internal/platform/redis"
	"teranga/internal/regional"
	"teranga/internal/scoring"
	"teranga/pkg/platform/audit"
	auditmem "teranga/pkg/platform/audit/store/memory"
	auditpg "teranga/pkg/platform/audit/store/postgres"
)

// main wires the pipeline dependencies and keeps the server lifecycle
// small. Business logic lives in the internal module packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: postgres when a DSN is configured, in-memory otherwise.
	var (
		evidenceStore    fusion.Store
		attestationStore attestation.Store
		auditStore       audit.Store
	)
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres pool setup failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		evidenceStore = fusionstore.NewPostgresStore(pool)
		attestationStore = atteststore.NewPostgresStore(pool)
		auditStore = auditpg.New(pool)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		evidenceStore = fusionstore.NewInMemoryStore()
		attestationStore = atteststore.NewInMemoryStore()
		auditStore = auditmem.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Regional context provider.
	var regionalClient regional.Client = regional.StaticClient{Fail: true}
	if cfg.RegionalFeedURL != "" {
		regionalClient = regional.NewHTTPClient(cfg.RegionalFeedURL)
	} else {
		log.Warn("no regional feed configured, risk adjustment will default to 0")
	}
	regionalOpts := []regional.Option{
		regional.WithLogger(log),
		regional.WithMetrics(regional.NewMetrics(prometheus.DefaultRegisterer)),
	}
	if cfg.RegionalBaselinePath != "" {
		baseline, err := regional.LoadBaseline(cfg.RegionalBaselinePath)
		if err != nil {
			log.Error("regional baseline load failed", "error", err)
			os.Exit(1)
		}
		regionalOpts = append(regionalOpts, regional.WithBaseline(baseline))
	}
	if redisClient != nil {
		regionalOpts = append(regionalOpts,
			regional.WithSnapshotStore(regional.NewRedisSnapshotStore(redisClient.Client, cfg.RegionalTTL)))
	}
	provider, err := regional.New(regionalClient, cfg.RegionalTTL, regionalOpts...)
	if err != nil {
		log.Error("regional provider setup failed", "error", err)
		os.Exit(1)
	}

	// Screening engine with periodic list refresh.
	var listClient aml.ListClient = aml.StaticListClient{Fail: true}
	if cfg.SanctionsListURL != "" {
		listClient = aml.NewHTTPListClient(cfg.SanctionsListURL)
	} else {
		log.Warn("no sanctions list feed configured, screening will fail closed to REVIEW")
	}
	screener, err := aml.New(aml.DefaultConfig(), listClient, aml.WithLogger(log))
	if err != nil {
		log.Error("screening engine setup failed", "error", err)
		os.Exit(1)
	}
	if err := screener.Refresh(ctx, time.Now().UTC()); err != nil {
		log.Warn("initial sanctions list refresh failed", "error", err)
	}
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go refreshLoop(refreshCtx, screener, cfg.SanctionsRefresh)

	// Scoring policy.
	weights, bands := scoring.DefaultWeights(), scoring.DefaultBands()
	if cfg.ScoringWeightsPath != "" {
		weights, bands, err = scoring.LoadPolicy(cfg.ScoringWeightsPath)
		if err != nil {
			log.Error("scoring policy load failed", "error", err)
			os.Exit(1)
		}
	}
	scorer, err := scoring.New(weights, bands, scoring.WithLogger(log))
	if err != nil {
		log.Error("scoring engine setup failed", "error", err)
		os.Exit(1)
	}

	ledger, err := fusion.New(evidenceStore, fusion.WithLogger(log))
	if err != nil {
		log.Error("evidence ledger setup failed", "error", err)
		os.Exit(1)
	}
	attestSvc, err := attestation.New(attestationStore, []byte(cfg.AttestationKey), attestation.WithLogger(log))
	if err != nil {
		log.Error("attestation service setup failed", "error", err)
		os.Exit(1)
	}

	svc, err := pipeline.New(
		screener,
		extraction.New(extraction.WithLogger(log)),
		ledger,
		attestSvc,
		provider,
		scorer,
		auditStore,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(pipelinemetrics.New(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		log.Error("pipeline setup failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Request)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	pipelinehandler.New(svc, auditStore, log).Register(router)
	attesthandler.New(attestSvc, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting scoring service", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("scoring service stopped")
}

// refreshLoop keeps the sanctions snapshot current. Failures keep the last
// snapshot active; the engine logs and screening fails closed if none ever
// loaded.
func refreshLoop(ctx context.Context, screener *aml.Engine, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = screener.Refresh(ctx, time.Now().UTC())
		}
	}
}
