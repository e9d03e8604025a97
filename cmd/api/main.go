// cmd/api/main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kenyatrends/internal/adapter/events"
	"kenyatrends/internal/adapter/storage"
	"kenyatrends/internal/config"
	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/logger"
	"kenyatrends/internal/metrics"
	"kenyatrends/internal/server"
	analysisService "kenyatrends/internal/service/analysis"
	signalService "kenyatrends/internal/service/signal"
)

// connectTimeout bounds the startup retries for each backing service
const connectTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if err := metrics.Register(reg); err != nil {
			logger.Fatal("Failed to register metrics", zap.Error(err))
		}
		gatherer = reg
	}

	// Initialize dependencies
	store, err := initStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize report store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	bus, err := initBus(ctx, cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer bus.Close()

	var source *signalService.RandomWalk
	if cfg.Analysis.Seed != 0 {
		source = signalService.NewRandomWalkWithRand(rand.New(rand.NewSource(cfg.Analysis.Seed)), time.Now)
	} else {
		source = signalService.NewRandomWalk()
	}

	svc := analysisService.NewService(
		source,
		store,
		bus,
		analysisService.ServiceConfig{
			SimulatedLatency: cfg.Analysis.SimulatedLatency,
			EventsTopic:      cfg.Analysis.EventsTopic,
			MaxRecent:        cfg.Analysis.MaxRecent,
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg, svc, bus, gatherer)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("nats", cfg.NATS.Enabled),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

// initStore builds the report archive selected by storage.driver
func initStore(ctx context.Context, cfg config.Config) (analysis.ReportStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store := storage.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.DriverRedis:
		client, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, cfg.Redis.ReportTTL), nil

	default:
		return storage.NewMemoryStore(cfg.Storage.MemoryCapacity), nil
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := retry(ctx, "postgres", func() error { return db.Ping(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := retry(ctx, "redis", func() error { return client.Ping(ctx).Err() }); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	return client, nil
}

// Initialize event bus, NATS when enabled
func initBus(ctx context.Context, cfg config.NATSConfig) (events.Bus, error) {
	if !cfg.Enabled {
		return events.NewLocalBus(), nil
	}

	var bus *events.NATSBus
	err := retry(ctx, "nats", func() error {
		var err error
		bus, err = events.ConnectNATS(events.NATSConfig{
			URL:            cfg.URL,
			MaxReconnects:  cfg.MaxReconnects,
			ReconnectWait:  cfg.ReconnectWait,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return bus, nil
}

// retry runs op with exponential backoff until it succeeds or connectTimeout elapses
func retry(ctx context.Context, name string, op func() error) error {
	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = connectTimeout

	notify := func(err error, wait time.Duration) {
		logger.Warn("Backing service not ready, retrying",
			zap.String("service", name),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	return backoff.RetryNotify(op, backoff.WithContext(backoffStrategy, ctx), notify)
}
