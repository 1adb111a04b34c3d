package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"lowa/internal/audit"
	"lowa/internal/listing/cache"
	"lowa/internal/listing/handler"
	"lowa/internal/listing/service"
	httpapi "lowa/internal/http"
	"lowa/internal/platform/config"
	"lowa/internal/platform/httpserver"
	"lowa/internal/platform/kafka"
	"lowa/internal/platform/logger"
	"lowa/internal/platform/metrics"
	"lowa/internal/platform/middleware"
	redisclient "lowa/internal/platform/redis"
	"lowa/internal/platform/telemetry"
)

const auditBufferSize = 256

// main wires the exchange server: stores, view cache, audit stream and the
// HTTP surface. Business logic lives in internal/listing.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("shutdown tracing", "error", err)
		}
	}()

	m := metrics.New()

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.close()

	readyChecks := map[string]httpapi.ReadyCheck{}
	if stores.db != nil {
		readyChecks["database"] = stores.db.PingContext
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
	}
	if stores.tx != nil && cfg.Server.SubmitAtomic {
		opts = append(opts, service.WithTxRunner(stores.tx))
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		opts = append(opts, service.WithViewCache(cache.NewRedisViewCache(rc.Client, cache.WithTTL(cfg.Redis.ViewTTL))))
		readyChecks["redis"] = rc.Health
	}

	auditStore, closeAudit, err := openAuditStore(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	publisher := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(auditBufferSize), audit.WithLogger(log))
	defer publisher.Close()
	opts = append(opts, service.WithAuditPublisher(publisher))

	trusted, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	svc := service.New(stores.contacts, stores.listings, opts...)
	router := httpapi.NewRouter(httpapi.RouterOptions{
		Logger:         log,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		ReadyChecks:    readyChecks,
		TrustedProxies: trusted,
	}, handler.New(svc, log, cfg.Server.WriteRateLimit))

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lowa exchange", "addr", cfg.Server.Addr, "postgres", stores.db != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openAuditStore produces audit events to Kafka when brokers are configured
// and keeps them in memory otherwise.
func openAuditStore(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, func(), error) {
	client, err := kafka.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("no kafka brokers configured, audit events kept in memory")
		return audit.NewInMemoryStore(), func() {}, nil
	}
	if err := kafka.EnsureTopic(ctx, client, cfg.AuditTopic, cfg.Partitions); err != nil {
		client.Close()
		return nil, nil, err
	}
	return audit.NewKafkaStore(client, cfg.AuditTopic), client.Close, nil
}
