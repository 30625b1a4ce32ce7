// Package main generates a staking activity report from stored ledger
// state: REPORT.md plus CSV exports, written to the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"solana-staking-ledger/internal/reporting"
	chstore "solana-staking-ledger/internal/storage/clickhouse"
	"solana-staking-ledger/internal/storage/migrations"
	pgstore "solana-staking-ledger/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (required)")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")
	fromTime := flag.String("from-time", "", "Activity window start (RFC3339, default: beginning)")
	toTime := flag.String("to-time", "", "Activity window end (RFC3339, default: now)")

	flag.Parse()

	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "--postgres-dsn and --clickhouse-dsn are required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start, end, err := parseWindow(*fromTime, *toTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "postgres migrations: %v\n", err)
		os.Exit(1)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to clickhouse: %v\n", err)
		os.Exit(1)
	}
	defer chConn.Close()

	generator := reporting.NewGenerator(
		pgstore.NewPlatformStore(pool),
		pgstore.NewProjectStore(pool),
		pgstore.NewStakeStore(pool),
		chstore.NewEventJournal(chConn),
	)

	report, err := generator.Generate(ctx, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"REPORT.md":    reporting.RenderMarkdown(report),
		"projects.csv": reporting.RenderProjectsCSV(report.Projects),
		"activity.csv": reporting.RenderActivityCSV(report.Activity),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	}

	if len(report.IntegrityErrors) > 0 {
		fmt.Fprintf(os.Stderr, "report generated with %d integrity errors\n", len(report.IntegrityErrors))
		os.Exit(1)
	}
}

func parseWindow(fromTime, toTime string) (int64, int64, error) {
	start, end := int64(0), time.Now().Unix()
	if fromTime != "" {
		t, err := time.Parse(time.RFC3339, fromTime)
		if err != nil {
			return 0, 0, fmt.Errorf("parse from-time: %w", err)
		}
		start = t.Unix()
	}
	if toTime != "" {
		t, err := time.Parse(time.RFC3339, toTime)
		if err != nil {
			return 0, 0, fmt.Errorf("parse to-time: %w", err)
		}
		end = t.Unix()
	}
	return start, end, nil
}
