// Package main audits stored ledger state against the event journal. It
// recomputes per-user stake amounts from journaled events and checks the
// project aggregates, reporting every divergence found.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	chstore "solana-staking-ledger/internal/storage/clickhouse"
	"solana-staking-ledger/internal/storage/migrations"
	pgstore "solana-staking-ledger/internal/storage/postgres"
	"solana-staking-ledger/internal/verification"
)

func main() {
	projectID := flag.String("project-id", "", "Project to audit (default: all projects)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (required)")
	fromTime := flag.String("from-time", "", "Journal window start (RFC3339, default: beginning)")
	toTime := flag.String("to-time", "", "Journal window end (RFC3339, default: now)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "--postgres-dsn and --clickhouse-dsn are required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start, end := int64(0), time.Now().Unix()
	if *fromTime != "" {
		t, err := time.Parse(time.RFC3339, *fromTime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse from-time: %v\n", err)
			os.Exit(2)
		}
		start = t.Unix()
	}
	if *toTime != "" {
		t, err := time.Parse(time.RFC3339, *toTime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse to-time: %v\n", err)
			os.Exit(2)
		}
		end = t.Unix()
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

	projects := pgstore.NewProjectStore(pool)
	stakes := pgstore.NewStakeStore(pool)
	journal := chstore.NewEventJournal(chConn)

	ids := []string{*projectID}
	if *projectID == "" {
		all, err := projects.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list projects: %v\n", err)
			os.Exit(1)
		}
		ids = ids[:0]
		for _, p := range all {
			ids = append(ids, p.ProjectID)
		}
	}

	recordAudit := verification.NewVerifier(projects, stakes, nil)
	replayAudit := verification.NewReplayVerifier(stakes, journal)

	combined := &verification.Report{}
	for _, id := range ids {
		records, err := recordAudit.VerifyProject(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "audit %s: %v\n", id, err)
			os.Exit(1)
		}
		replayed, err := replayAudit.VerifyProject(ctx, id, start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "replay %s: %v\n", id, err)
			os.Exit(1)
		}
		combined.ProjectsChecked++
		combined.StakesChecked += records.StakesChecked
		combined.Divergences = append(combined.Divergences, records.Divergences...)
		combined.Divergences = append(combined.Divergences, replayed.Divergences...)
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(combined, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Printf("\n=== Ledger Audit ===\n")
		fmt.Printf("Projects checked: %d\n", combined.ProjectsChecked)
		fmt.Printf("Stakes checked:   %d\n", combined.StakesChecked)
		if combined.Clean() {
			fmt.Printf("No divergences.\n")
		} else {
			fmt.Printf("Divergences:\n")
			for _, d := range combined.Divergences {
				fmt.Printf("  - %s\n", d)
			}
		}
	}

	if !combined.Clean() {
		os.Exit(1)
	}
}
