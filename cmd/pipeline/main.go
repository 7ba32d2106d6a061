// Package main provides the metrics engine entry point.
// Executes: load facts → weekly metrics → season aggregates → baselines → exports
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
	"fantasy-analytics/internal/storage"
	chstore "fantasy-analytics/internal/storage/clickhouse"
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

	season := flag.Int("season", pipeline.FixtureSeason, "Season to compute metrics for")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Output directory for CSV exports")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with fixture data")
	loadFixtures := flag.Bool("load-fixtures", false, "Load fixture games before running")
	flag.Parse()

	cfg.OutputDir = *outputDir

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	memMode := *useMemory || (cfg.PostgresDSN == "" && cfg.ClickhouseDSN == "")

	var (
		playerStore   storage.PlayerStore
		gameStore     storage.PlayerGameStore
		snapStore     storage.TeamSnapStore
		weeklyStore   storage.WeeklyMetricStore
		seasonStore   storage.SeasonMetricStore
		baselineStore storage.PositionBaselineStore
	)

	if memMode {
		mp := memory.NewPlayerStore()
		mg := memory.NewPlayerGameStore()
		ms := memory.NewTeamSnapStore()
		playerStore, gameStore, snapStore = mp, mg, ms
		weeklyStore = memory.NewWeeklyMetricStore()
		seasonStore = memory.NewSeasonMetricStore()
		baselineStore = memory.NewPositionBaselineStore()

		// Memory mode always needs fixtures, nothing else feeds it.
		if err := pipeline.LoadFixtures(ctx, mp, mg, ms); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
	} else {
		if cfg.PostgresDSN == "" || cfg.ClickhouseDSN == "" {
			fmt.Fprintln(os.Stderr, "FFA_POSTGRES_DSN and FFA_CLICKHOUSE_DSN are required (use --use-memory for in-memory storage)")
			os.Exit(1)
		}

		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Postgres migration error: %v\n", err)
			os.Exit(1)
		}

		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ClickHouse migration error: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		pp := pgstore.NewPlayerStore(pool)
		pg := pgstore.NewPlayerGameStore(pool)
		ts := pgstore.NewTeamSnapStore(pool)
		playerStore, gameStore, snapStore = pp, pg, ts
		weeklyStore = chstore.NewWeeklyMetricStore(conn)
		seasonStore = chstore.NewSeasonMetricStore(conn)
		baselineStore = chstore.NewPositionBaselineStore(conn)

		if *loadFixtures {
			if err := pipeline.LoadFixtures(ctx, pp, pg, ts); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
				os.Exit(1)
			}
		}
	}

	fmt.Println("=== Metrics Pipeline ===")
	p := pipeline.NewMetricsPipeline(playerStore, gameStore, snapStore, weeklyStore, seasonStore, baselineStore, cfg)

	result, err := p.Run(ctx, *season)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed for season %d:\n", result.Season)
	fmt.Printf("  Games loaded:  %d\n", result.GamesLoaded)
	fmt.Printf("  Weekly rows:   %d\n", result.WeeklyRows)
	fmt.Printf("  Season rows:   %d\n", result.SeasonRows)
	fmt.Printf("  Baseline rows: %d\n", result.BaselineRows)
	for _, f := range result.ExportedFiles {
		fmt.Printf("  - %s\n", f)
	}
}
