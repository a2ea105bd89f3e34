// Command apiserver serves the interaction pipeline over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/interactome/internal/application/interaction"
	"github.com/turtacn/interactome/internal/config"
	"github.com/turtacn/interactome/internal/infrastructure/database/redis"
	"github.com/turtacn/interactome/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/interactome/internal/infrastructure/storage/minio"
	"github.com/turtacn/interactome/internal/infrastructure/upstream"
	httpserver "github.com/turtacn/interactome/internal/interfaces/http"
	"github.com/turtacn/interactome/internal/interfaces/http/handlers"
	"github.com/turtacn/interactome/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting interactome API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()))

	// Metrics
	collector := prometheus.NewNoopCollector()
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            cfg.Metrics.Subsystem,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		collector = c
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Upstream, optionally behind the payload cache
	up, err := upstream.NewClient(cfg.Upstream, logger)
	if err != nil {
		return err
	}
	var fetcher interaction.Fetcher = up
	var checkers []handlers.HealthChecker

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rc.Close()
		cache := redis.NewRedisCache(rc, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		fetcher = interaction.NewCachedFetcher(up, cache, cfg.Redis.DefaultTTL, metrics, logger)
		checkers = append(checkers, &redisHealthAdapter{client: rc})
	}

	deps := interaction.ServiceDeps{
		Fetcher: fetcher,
		Locator: up,
		Metrics: metrics,
		Logger:  logger,
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		defer producer.Close()
		deps.Sink = kafka.NewViewerCommandSink(producer, cfg.Kafka.Topic, metrics)
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		defer mc.Close()
		if err := mc.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		deps.Snapshots = minio.NewSnapshotStore(mc)
		checkers = append(checkers, &minioHealthAdapter{client: mc})
	}

	svcCfg := interaction.ServiceConfigFrom(cfg)
	svc := interaction.NewService(svcCfg, deps)

	if configPath != "" {
		err := config.Watch(configPath, func(*config.Config) {
			logger.Warn("configuration file changed; restart to apply")
		}, func(err error) {
			logger.Error("configuration reload rejected", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	// HTTP
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.AllowedOrigins
	logCfg := middleware.DefaultLoggingConfig()
	routerCfg := httpserver.RouterConfig{
		GraphHandler:  handlers.NewGraphHandler(svcCfg.Pipeline, metrics, logger, cfg.Server.MaxBodySize).WithFilterDefaults(svcCfg.Filters),
		ViewHandler:   handlers.NewViewHandler(svc, logger, cfg.Server.MaxBodySize),
		HealthHandler: handlers.NewHealthHandler(version, svc, checkers...),
		CORS:          &cors,
		Logging:       &logCfg,
		Logger:        logger,
		Metrics:       metrics,
	}
	if cfg.Server.RateLimitRPS > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.Server.RateLimitRPS
		rl.Burst = cfg.Server.RateLimitBurst
		routerCfg.RateLimit = &rl
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	srv := httpserver.NewServer(cfg.Server.Addr(), httpserver.NewRouter(routerCfg),
		httpserver.WithReadTimeout(cfg.Server.ReadTimeout),
		httpserver.WithWriteTimeout(cfg.Server.WriteTimeout))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logging.String("addr", srv.Addr()))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server stopped", logging.Int("open_views", svc.ActiveViews()))
	return nil
}

//Personal.AI order the ending
