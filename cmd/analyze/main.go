// Package main runs the experiment analysis engine and writes the
// Markdown report and test results CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fantasy-analytics/internal/config"
	"fantasy-analytics/internal/pipeline"
	"fantasy-analytics/internal/simulation"
	"fantasy-analytics/internal/storage"
	"fantasy-analytics/internal/storage/memory"
	"fantasy-analytics/internal/storage/migrations"
	pgstore "fantasy-analytics/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	defaults := simulation.DefaultParams()
	season := flag.Int("season", defaults.Season, "Season to analyze")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Output directory for the report")
	simulate := flag.Bool("simulate", false, "Generate synthetic data in memory instead of reading Postgres")
	users := flag.Int("users", defaults.Users, "Simulated user count (with --simulate)")
	seed := flag.Int64("seed", defaults.Seed, "RNG seed (with --simulate)")
	flag.Parse()

	cfg.OutputDir = *outputDir

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	var (
		assignmentStore storage.AssignmentStore
		eventStore      storage.EventStore
	)

	if *simulate {
		ms, me := memory.NewAssignmentStore(), memory.NewEventStore()
		assignmentStore, eventStore = ms, me

		params := defaults
		params.Seed = *seed
		params.Users = *users
		params.Season = *season
		runner := simulation.NewRunner(simulation.RunnerOptions{AssignmentStore: ms, EventStore: me})
		if _, _, err := runner.Run(ctx, params); err != nil {
			fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if cfg.PostgresDSN == "" {
			fmt.Fprintln(os.Stderr, "FFA_POSTGRES_DSN is required (use --simulate for in-memory data)")
			os.Exit(1)
		}

		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
			os.Exit(1)
		}

		assignmentStore = pgstore.NewAssignmentStore(pool)
		eventStore = pgstore.NewEventStore(pool)
	}

	fmt.Println("=== Experiment Analysis ===")
	p := pipeline.NewExperimentPipeline(assignmentStore, eventStore, cfg)

	report, written, err := p.Run(ctx, *season)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analysis completed for season %d (weeks %d-%d):\n",
		report.Season, report.WeekStart, report.WeekEnd)
	fmt.Printf("  Users: %d control, %d treatment\n", report.SRM.NControl, report.SRM.NTreatment)
	if report.SRM.Mismatch {
		fmt.Println("  WARNING: sample ratio mismatch detected")
	}
	if stats := report.ClaimRate.Stats; stats != nil {
		fmt.Printf("  Claim rate: %.4f -> %.4f (p=%.4g, significant=%v)\n",
			stats.Control, stats.Treatment, stats.PValue, stats.Significant)
	}
	for _, f := range written {
		fmt.Printf("  - %s\n", f)
	}
}
