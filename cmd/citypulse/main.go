// Package main is the entry point for the CityPulse companion daemon.
// It hosts the local account, session, favorites and biometric link
// store behind an HTTP API for the app shell.
package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/biometric"
	"github.com/prn-tf/citypulse/internal/cache/memory"
	rediscache "github.com/prn-tf/citypulse/internal/cache/redis"
	"github.com/prn-tf/citypulse/internal/catalog"
	"github.com/prn-tf/citypulse/internal/config"
	"github.com/prn-tf/citypulse/internal/handler"
	"github.com/prn-tf/citypulse/internal/platform"
	"github.com/prn-tf/citypulse/internal/repository"
	"github.com/prn-tf/citypulse/internal/repository/kv"
	"github.com/prn-tf/citypulse/internal/securestore"
	"github.com/prn-tf/citypulse/internal/service"
	"github.com/prn-tf/citypulse/internal/storage"
	"github.com/prn-tf/citypulse/internal/storage/postgres"
	"github.com/prn-tf/citypulse/internal/storage/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Starting CityPulse")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Durable key-value storage
	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	// Catalog cache
	var cache repository.Cache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.NewCache(ctx, rediscache.Config{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		memCache := memory.NewCache()
		defer memCache.Stop()
		cache = memCache
	}

	// Sealed biometric link slot
	secure, err := openSecureStore(cfg.SecureStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open secure store")
	}

	// Metrics
	var registry *prometheus.Registry
	var metrics *service.Metrics
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = service.NewMetrics(registry)
	}

	// Services
	users := kv.NewUserRegistry(store, logger)
	sessionService := service.NewSessionService(service.SessionConfig{
		Users:     users,
		Favorites: kv.NewFavoritesRepository(store, logger),
		Snapshots: kv.NewSnapshotStore(store, logger),
		Direction: platform.NewLoggedDirection(logger),
		Restarter: platform.NewExecRestarter(logger),
		Metrics:   metrics,
		Logger:    logger,
	})
	sessionService.Load(ctx)

	biometricService := service.NewBiometricService(secure, users, sessionService, logger)

	var catalogClient *catalog.Client
	if cfg.Catalog.Enabled() {
		catalogClient = catalog.NewClient(catalog.Config{
			BaseURL:  cfg.Catalog.BaseURL,
			APIKey:   cfg.Catalog.APIKey,
			Timeout:  cfg.Catalog.Timeout,
			CacheTTL: cfg.Catalog.CacheTTL,
		}, cache, logger)
	} else {
		logger.Warn().Msg("No catalog API key configured; event endpoints disabled")
	}

	// HTTP server
	sessionHandler := handler.NewSessionHandler(handler.SessionHandlerConfig{
		SessionService:   sessionService,
		BiometricService: biometricService,
		CatalogClient:    catalogClient,
		Prompter:         biometric.StaticPrompter{Outcome: biometric.Outcome(cfg.Biometric.Outcome)},
		Logger:           logger,
	})

	server := &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: handler.NewRouter(handler.RouterConfig{
			SessionHandler: sessionHandler,
			Registry:       registry,
			Logger:         logger,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("HTTP server failed")
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// openStorage opens the configured durable key-value backend.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (storage.KV, error) {
	if cfg.IsEmbedded() {
		return sqlite.New(ctx, sqlite.Config{
			Path:            cfg.Path,
			JournalMode:     cfg.JournalMode,
			BusyTimeout:     cfg.BusyTimeout,
			SynchronousMode: cfg.SynchronousMode,
		}, logger)
	}
	return postgres.New(ctx, postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
	}, logger)
}

// openSecureStore opens the sealed slot, falling back to a process-local
// store when no device secret is configured.
func openSecureStore(cfg config.SecureStoreConfig, logger zerolog.Logger) (securestore.Store, error) {
	if cfg.DeviceSecret == "" {
		logger.Warn().Msg("No device secret configured; biometric link will not survive restarts")
		return securestore.NewMemory(), nil
	}
	return securestore.NewSealedFile(cfg.Path, cfg.DeviceSecret, logger)
}

// setupLogger builds the root logger from logging configuration.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat
	logger := zerolog.New(out)
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Logger()
}
