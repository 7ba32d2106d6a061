// Package main generates a synthetic waiver-nudge experiment dataset
// and persists the assignments and events.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fantasy-analytics/internal/config"
	"fantasy-analytics/internal/simulation"
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
	seed := flag.Int64("seed", defaults.Seed, "RNG seed")
	users := flag.Int("users", defaults.Users, "Number of simulated users")
	season := flag.Int("season", defaults.Season, "Season label for generated rows")
	firstWeek := flag.Int("first-week", defaults.FirstWeek, "First experiment week")
	lastWeek := flag.Int("last-week", defaults.LastWeek, "Last experiment week")
	flag.Parse()

	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "FFA_POSTGRES_DSN is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

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

	params := defaults
	params.Seed = *seed
	params.Users = *users
	params.Season = *season
	params.FirstWeek = *firstWeek
	params.LastWeek = *lastWeek

	runner := simulation.NewRunner(simulation.RunnerOptions{
		AssignmentStore: pgstore.NewAssignmentStore(pool),
		EventStore:      pgstore.NewEventStore(pool),
	})

	assignments, events, err := runner.Run(ctx, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Simulation completed (seed %d):\n", params.Seed)
	fmt.Printf("  Assignments: %d\n", len(assignments))
	fmt.Printf("  Events:      %d\n", len(events))
	fmt.Printf("  Weeks:       %d-%d\n", params.FirstWeek, params.LastWeek)
}
