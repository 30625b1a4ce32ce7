// Package main runs a scripted ledger scenario from a JSON file and prints
// the outcome. Scenarios carry their own clock, so runs are deterministic.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"solana-staking-ledger/internal/simulation"
)

func main() {
	scenarioPath := flag.String("scenario", "", "Path to scenario JSON file (required)")
	outputJSON := flag.Bool("json", false, "Output result as JSON")
	verbose := flag.Bool("verbose", false, "Log runner progress")

	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "--scenario is required")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open scenario: %v\n", err)
		os.Exit(1)
	}
	sc, err := simulation.ParseScenario(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	result, err := simulation.NewRunner(logger).Run(context.Background(), sc)
	if err != nil && !errors.Is(err, simulation.ErrScenarioFailed) {
		fmt.Fprintf(os.Stderr, "run scenario: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	} else {
		printSummary(result)
	}

	if result.Failed() {
		os.Exit(1)
	}
}

func printSummary(result *simulation.RunResult) {
	fmt.Printf("\n=== Scenario: %s ===\n", result.Scenario)
	fmt.Printf("Steps executed:  %d\n", len(result.Steps))
	fmt.Printf("Events emitted:  %d\n", result.Events)

	for _, p := range result.Projects {
		fmt.Printf("\nProject %s (%s)\n", p.Alias, p.ProjectID)
		fmt.Printf("  Total staked:          %d\n", p.TotalStaked)
		fmt.Printf("  Staking vault balance: %d\n", p.StakingVaultBalance)
		fmt.Printf("  Reward vault balance:  %d\n", p.RewardVaultBalance)
		fmt.Printf("  Rewards claimed:       %d\n", p.TotalRewardsClaimed)
	}

	if result.Failed() {
		fmt.Printf("\nFAILURES:\n")
		for _, f := range result.Failures {
			fmt.Printf("  - %s\n", f)
		}
	} else {
		fmt.Printf("\nAll steps passed.\n")
	}
}
