package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/config"
	"github.com/kailas-cloud/assessrank/internal/db"
	dbRedis "github.com/kailas-cloud/assessrank/internal/db/redis"
	"github.com/kailas-cloud/assessrank/internal/domain"
	logpkg "github.com/kailas-cloud/assessrank/internal/logger"
	"github.com/kailas-cloud/assessrank/internal/metrics"
	catalogrepo "github.com/kailas-cloud/assessrank/internal/repository/catalog"
	"github.com/kailas-cloud/assessrank/internal/repository/rankcache"
	"github.com/kailas-cloud/assessrank/internal/textnorm"
	chiTransport "github.com/kailas-cloud/assessrank/internal/transport/chi"
	healthuc "github.com/kailas-cloud/assessrank/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/assessrank/internal/usecase/recommend"
	"github.com/kailas-cloud/assessrank/internal/vectorspace"
	"github.com/kailas-cloud/assessrank/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting assessrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_file", cfg.Catalog.DataFile),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register ranking metrics explicitly (no init())
	metrics.RegisterRankingMetrics()

	ctx := context.Background()

	recSvc := recommenduc.New(logger, vectorspace.WithNormalizer(textnorm.New(
		textnorm.WithStopWords(cfg.Catalog.StopWordsEnabled()),
		textnorm.WithMinLength(cfg.Catalog.MinLength),
	))).WithRankingConfig(domain.RankingConfig{
		DefaultK: cfg.Ranking.DefaultK,
		MaxK:     cfg.Ranking.MaxK,
		MinScore: cfg.Ranking.MinScore,
	})

	// Pass nil interface (not typed nil pointer!) when the cache is off.
	var pinger healthuc.CachePinger
	if cfg.Cache.Enabled() {
		store := connectCache(ctx, cfg.Cache, logger)
		defer store.Close()

		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		recSvc = recSvc.WithCache(rankcache.New(store, ttl, metrics.RankCacheTotal, logger))
		pinger = store
	}

	items, err := catalogrepo.New(cfg.Catalog.DataFile).List(ctx)
	if err != nil {
		logger.Fatal("Failed to read catalog", zap.String("path", cfg.Catalog.DataFile), zap.Error(err))
	}
	if err := recSvc.Load(ctx, items); err != nil {
		logger.Fatal("Failed to fit catalog", zap.Error(err))
	}

	healthSvc := healthuc.New(recSvc, pinger)

	server := chiTransport.NewServer(recSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// connectCache opens the Redis/Valkey store and waits until it answers.
func connectCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Standalone: cfg.Standalone,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store
}
