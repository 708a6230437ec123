package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"hrgate/internal/absence/authority"
	absencecache "hrgate/internal/absence/cache"
	absencehandler "hrgate/internal/absence/handler"
	absencemetrics "hrgate/internal/absence/metrics"
	"hrgate/internal/absence/service"
	"hrgate/internal/absence/store"
	"hrgate/internal/directory"
	"hrgate/internal/incidence"
	"hrgate/internal/platform/config"
	"hrgate/internal/platform/httpserver"
	"hrgate/internal/platform/logger"
	"hrgate/internal/platform/metrics"
	"hrgate/internal/platform/redis"
	"hrgate/internal/token"
	"hrgate/internal/transport"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/platform/events/outbox"
	"hrgate/pkg/platform/events/publisher"
	"hrgate/pkg/platform/events/worker"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	resolver := authority.NewResolver()
	if cfg.AuthorityPath != "" {
		authorityCfg, err := authority.LoadConfig(cfg.AuthorityPath)
		if err != nil {
			log.Error("failed to load authority config", "error", err, "path", cfg.AuthorityPath)
			os.Exit(1)
		}
		resolver, err = authority.NewResolverFromConfig(authorityCfg)
		if err != nil {
			log.Error("invalid authority config", "error", err, "path", cfg.AuthorityPath)
			os.Exit(1)
		}
	}

	checks := map[string]transport.HealthCheck{}

	var (
		requests  store.RequestStore
		history   store.HistoryStore
		dir       directory.Store
		catalog   incidence.Store
		records   incidence.RecordStore
		eventSink events.Store
		outboxSrc worker.Outbox
		engineTx  service.StoreTx
	)

	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		if err := db.Ping(); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		requests = store.NewPostgres(db)
		history = store.NewPostgresHistory(db)
		dir = directory.NewPostgres(db)
		pg := incidence.NewPostgres(db)
		catalog = pg
		records = pg
		ob := outbox.NewPostgres(db)
		eventSink = ob
		outboxSrc = ob
		engineTx = store.NewPostgresTx(db)
		checks["postgres"] = db.PingContext
	} else {
		log.Warn("no postgres configured, using in-memory stores")
		requests = store.NewInMemory()
		history = store.NewInMemoryHistory()
		dir = directory.NewInMemory()
		catalog = incidence.NewInMemory()
		records = incidence.NewInMemoryRecords()
		ob := outbox.NewMemory()
		eventSink = ob
		outboxSrc = ob
		engineTx = service.NewShardedTx()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	var counts *absencecache.Counts
	if redisClient != nil {
		defer redisClient.Close()
		counts = absencecache.NewCounts(redisClient.Client, log)
		checks["redis"] = redisClient.Health
	}

	httpMetrics := metrics.New()
	engineMetrics := absencemetrics.New()

	engine := service.New(
		requests,
		history,
		resolver,
		engineTx,
		dir,
		catalog,
		service.WithLogger(log),
		service.WithEventStore(eventSink),
		service.WithMetrics(engineMetrics),
		service.WithCountsCache(counts),
		service.WithIncidenceRecords(records),
	)

	jwtService := token.NewJWTService(cfg.Auth.JWTSigningKey, "hrgate", "hrgate-api")
	h := absencehandler.New(engine, log, httpMetrics, jwtService)
	router := transport.NewRouter(log, checks, h)
	srv := httpserver.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting hrgate", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := publisher.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()

		outboxWorker := worker.NewWorker(outboxSrc, kafka, log, cfg.Kafka.PollInterval, cfg.Kafka.BatchSize)
		group.Go(func() error {
			log.Info("starting outbox worker", "topic", cfg.Kafka.Topic)
			if err := outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("no kafka brokers configured, events stay in the outbox")
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
