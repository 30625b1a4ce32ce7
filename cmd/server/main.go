// Package main runs the staking ledger service: the HTTP operation API,
// a websocket event feed, Prometheus metrics and a scheduled accumulator
// snapshot job.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"solana-staking-ledger/internal/events"
	"solana-staking-ledger/internal/observability"
	"solana-staking-ledger/internal/service"
	"solana-staking-ledger/internal/storage"
	chstore "solana-staking-ledger/internal/storage/clickhouse"
	"solana-staking-ledger/internal/storage/memory"
	"solana-staking-ledger/internal/storage/migrations"
	pgstore "solana-staking-ledger/internal/storage/postgres"
	"solana-staking-ledger/internal/vault"
)

// allStores holds the storage implementations behind the service.
type allStores struct {
	platform  storage.PlatformStore
	projects  storage.ProjectStore
	stakes    storage.StakeStore
	journal   storage.EventJournal
	snapshots storage.SnapshotStore
}

func main() {
	loadEnvFile()

	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP API listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	snapshotSchedule := flag.String("snapshot-schedule", envOr("SNAPSHOT_SCHEDULE", "@every 5m"), "Cron schedule for accumulator snapshots")
	devLog := flag.Bool("dev-log", false, "Human-readable log output")

	flag.Parse()

	logger, err := buildLogger(*devLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("postgres-dsn and clickhouse-dsn are required (use -use-memory for in-memory storage)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatal("create stores", zap.Error(err))
	}
	defer cleanup()

	assets := vault.NewMemoryLedger()
	hub := events.NewHub(logger.Named("events"))
	defer hub.Close()

	svc := service.New(service.Options{
		Platform:    stores.platform,
		Projects:    stores.projects,
		Stakes:      stores.stakes,
		Journal:     stores.journal,
		Snapshots:   stores.snapshots,
		Mover:       assets,
		Broadcaster: hub,
		Logger:      logger.Named("service"),
	})

	// Snapshot job.
	sched := cron.New()
	if _, err := sched.AddFunc(*snapshotSchedule, func() {
		n, err := svc.SnapshotAccumulators(context.Background())
		if err != nil {
			logger.Error("snapshot run failed", zap.Error(err))
			return
		}
		logger.Info("snapshot run completed", zap.Int("projects", n))
	}); err != nil {
		logger.Fatal("invalid snapshot schedule", zap.String("schedule", *snapshotSchedule), zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Metrics endpoint on its own listener.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Info("metrics server listening", zap.String("addr", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	// API server.
	mux := http.NewServeMux()
	handlers := &api{svc: svc, assets: assets, log: logger.Named("api")}
	handlers.routes(mux)
	mux.Handle("GET /ws", hub)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("api server listening", zap.String("addr", *listenAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// createStores wires either in-memory stores or PostgreSQL for records plus
// ClickHouse for the event journal and snapshot timeseries. Migrations run
// on startup.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		return &allStores{
			platform:  memory.NewPlatformStore(),
			projects:  memory.NewProjectStore(),
			stakes:    memory.NewStakeStore(),
			journal:   memory.NewEventJournal(),
			snapshots: memory.NewSnapshotStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		platform:  pgstore.NewPlatformStore(pool),
		projects:  pgstore.NewProjectStore(pool),
		stakes:    pgstore.NewStakeStore(pool),
		journal:   chstore.NewEventJournal(chConn),
		snapshots: chstore.NewSnapshotStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
