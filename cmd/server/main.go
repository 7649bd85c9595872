package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jackc/pgx/v5/pgxpool"

	"rollup-blog-service/internal/application/feed"
	content_service "rollup-blog-service/internal/application/service/content"
	post_service "rollup-blog-service/internal/application/service/post"
	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/domain/ports/output/content"
	"rollup-blog-service/internal/domain/ports/output/ledger"
	publication_repository "rollup-blog-service/internal/domain/ports/output/publication"
	"rollup-blog-service/internal/infrastructure/config"
	grpc_server "rollup-blog-service/internal/infrastructure/inbound/grpc"
	http_server "rollup-blog-service/internal/infrastructure/inbound/http"
	metrics_server "rollup-blog-service/internal/infrastructure/inbound/metrics"
	"rollup-blog-service/internal/infrastructure/logger"
	"rollup-blog-service/internal/infrastructure/observability"
	redis_cache "rollup-blog-service/internal/infrastructure/outbound/cache/redis"
	"rollup-blog-service/internal/infrastructure/outbound/content/ipfs"
	content_memory "rollup-blog-service/internal/infrastructure/outbound/content/memory"
	"rollup-blog-service/internal/infrastructure/outbound/ledger/ethereum"
	ledger_memory "rollup-blog-service/internal/infrastructure/outbound/ledger/memory"
	prometheus_metrics "rollup-blog-service/internal/infrastructure/outbound/metrics/prometheus"
	"rollup-blog-service/internal/infrastructure/outbound/repository/postgres"
	publication_memory "rollup-blog-service/internal/infrastructure/outbound/repository/publication/memory"
	publication_postgres "rollup-blog-service/internal/infrastructure/outbound/repository/publication/postgres"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Environment:  cfg.Env,
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SamplerRatio: cfg.Tracing.SamplerRatio,
	})
	if err != nil {
		log.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Failed to shut down tracing", slog.String("error", err.Error()))
		}
	}()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	ledgerClient, closeLedger, err := newLedgerClient(ctx, cfg.Ledger, log, metrics)
	if err != nil {
		log.Error("Failed to create ledger client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLedger()

	store, err := newContentStore(cfg.IPFS, log, metrics)
	if err != nil {
		log.Error("Failed to create content store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()
		bodyCache := redis_cache.NewBodyCache(redisClient, log, cfg.Redis.BodyTTL)
		store = content_service.NewStoreCacheDecorator(store, bodyCache, log, metrics)
	}

	var journal publication_repository.Repository
	if cfg.Database.Enabled {
		dsn := postgres.DSN(cfg.Database)
		if err := postgres.RunMigrations(dsn, cfg.Database.MigrationsPath, log); err != nil {
			log.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
			os.Exit(1)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		journal = publication_postgres.NewPublicationRepository(pool, log, metrics)
	} else {
		log.Info("Database disabled, publications are journaled in memory")
		journal = publication_memory.NewPublicationRepository(log)
	}

	postService := post_service.NewPostService(ledgerClient, store, journal, log, metrics, cfg.IPFS.FetchConcurrency)
	postFeed := feed.New(postService, model.ListOptions{
		AllowPartial:  cfg.Feed.AllowPartial,
		PublishedOnly: cfg.Feed.PublishedOnly,
	}, log, metrics)

	router := http_server.NewRouter(postService, postFeed, log, metrics, cfg.HTTPServer.MaxBodyBytes)
	httpServer := http_server.NewServer(router, cfg.HTTPServer.Address, cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout, cfg.HTTPServer.WriteTimeout, log)

	grpcServer := grpc_server.NewServer(map[string]grpc_server.Dependency{
		"ledger":  ledgerClient,
		"content": store,
	}, cfg.GRPCServer.Address, cfg.GRPCServer.Port, cfg.GRPCServer.HealthCheckInterval, log, metrics)

	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	runCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	go postFeed.Run(runCtx, cfg.Feed.RefreshInterval)
	go grpcServer.Watch(runCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	stopBackground()
	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	log.Info("Server exited")
}

func newLedgerClient(ctx context.Context, cfg config.Ledger, log ports.Logger, metrics ports.MetricsProvider) (ledger.Client, func(), error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("Using in-memory ledger, posts are not persisted")
		return ledger_memory.NewLedger(log), func() {}, nil
	}

	opts := ethereum.Options{
		ContractAddress: cfg.ContractAddress,
		ChainID:         cfg.ChainID,
		PrivateKey:      cfg.PrivateKey,
		ABIPath:         cfg.ABIPath,
		CallTimeout:     cfg.CallTimeout,
	}

	if cfg.RPCURL == "" {
		log.Warn("No ledger RPC endpoint configured, ledger calls will fail")
		client, err := ethereum.NewClient(nil, opts, log, metrics)
		return client, func() {}, err
	}

	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, err
	}
	client, err := ethereum.NewClient(rpc, opts, log, metrics)
	if err != nil {
		rpc.Close()
		return nil, nil, err
	}
	log.Info("Ledger client ready",
		slog.String("rpc_url", cfg.RPCURL),
		slog.String("contract", cfg.ContractAddress),
		slog.Int64("chain_id", cfg.ChainID))
	return client, rpc.Close, nil
}

func newContentStore(cfg config.IPFS, log ports.Logger, metrics ports.MetricsProvider) (content.Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("Using in-memory content store, bodies are not persisted")
		return content_memory.NewStore(log), nil
	}

	store, err := ipfs.NewStore(ipfs.Options{
		APIURL:        cfg.APIURL,
		GatewayURL:    cfg.GatewayURL,
		ProjectID:     cfg.ProjectID,
		ProjectSecret: cfg.ProjectSecret,
		FetchTimeout:  cfg.FetchTimeout,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	}, log, metrics)
	if err != nil {
		return nil, err
	}
	log.Info("Content store ready",
		slog.String("api_url", cfg.APIURL),
		slog.String("gateway_url", cfg.GatewayURL))
	return store, nil
}
