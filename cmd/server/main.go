// Package main provides the unified analytics service:
// - Metrics pipeline (scheduled): facts → weekly/season metrics → baselines → CSV exports
// - Experiment analysis (scheduled): SRM gate → outcome tests → report files
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fantasy-analytics/internal/config"
	"fantasy-analytics/internal/observability"
	"fantasy-analytics/internal/pipeline"
	"fantasy-analytics/internal/simulation"
	"fantasy-analytics/internal/storage"
	chstore "fantasy-analytics/internal/storage/clickhouse"
	"fantasy-analytics/internal/storage/memory"
	"fantasy-analytics/internal/storage/migrations"
	pgstore "fantasy-analytics/internal/storage/postgres"
)

// Server holds both engines and their schedules.
type Server struct {
	cfg              *config.Config
	season           int
	pipelineInterval time.Duration
	analysisInterval time.Duration

	metricsPipeline    *pipeline.MetricsPipeline
	experimentPipeline *pipeline.ExperimentPipeline
	logger             *log.Logger

	mu              sync.Mutex
	started         time.Time
	lastPipelineRun time.Time
	lastAnalysisRun time.Time
	pipelineRunning bool
	analysisRunning bool
	pipelineRuns    int
	analysisRuns    int
	srmMismatch     bool
}

// allStores holds all storage implementations.
type allStores struct {
	playerStore     storage.PlayerStore
	gameStore       storage.PlayerGameStore
	snapStore       storage.TeamSnapStore
	weeklyStore     storage.WeeklyMetricStore
	seasonStore     storage.SeasonMetricStore
	baselineStore   storage.PositionBaselineStore
	assignmentStore storage.AssignmentStore
	eventStore      storage.EventStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	season := flag.Int("season", pipeline.FixtureSeason, "Season to process")
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	pipelineInterval := flag.Duration("pipeline-interval", 1*time.Hour, "Metrics pipeline run interval")
	analysisInterval := flag.Duration("analysis-interval", 6*time.Hour, "Experiment analysis run interval")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with fixture and simulated data")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	memMode := *useMemory || (cfg.PostgresDSN == "" && cfg.ClickhouseDSN == "")
	if !memMode && (cfg.PostgresDSN == "" || cfg.ClickhouseDSN == "") {
		logger.Fatal("FFA_POSTGRES_DSN and FFA_CLICKHOUSE_DSN are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, memMode)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if memMode {
		if err := seedMemoryStores(ctx, stores, *season); err != nil {
			logger.Fatalf("Failed to seed memory stores: %v", err)
		}
		logger.Println("Seeded in-memory stores with fixtures and simulated experiment data")
	}

	obs := observability.NewMetrics("fantasy_analytics")

	server := &Server{
		cfg:              cfg,
		season:           *season,
		pipelineInterval: *pipelineInterval,
		analysisInterval: *analysisInterval,
		metricsPipeline: pipeline.NewMetricsPipeline(
			stores.playerStore, stores.gameStore, stores.snapStore,
			stores.weeklyStore, stores.seasonStore, stores.baselineStore,
			cfg,
		).WithObservability(obs),
		experimentPipeline: pipeline.NewExperimentPipeline(
			stores.assignmentStore, stores.eventStore, cfg,
		).WithObservability(obs),
		logger:  logger,
		started: time.Now(),
	}

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	go server.startHTTPServer(*addr)

	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, cfg *config.Config, memMode bool) (*allStores, func(), error) {
	if memMode {
		return &allStores{
			playerStore:     memory.NewPlayerStore(),
			gameStore:       memory.NewPlayerGameStore(),
			snapStore:       memory.NewTeamSnapStore(),
			weeklyStore:     memory.NewWeeklyMetricStore(),
			seasonStore:     memory.NewSeasonMetricStore(),
			baselineStore:   memory.NewPositionBaselineStore(),
			assignmentStore: memory.NewAssignmentStore(),
			eventStore:      memory.NewEventStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		// Postgres stores (facts + experiment rows)
		playerStore:     pgstore.NewPlayerStore(pool),
		gameStore:       pgstore.NewPlayerGameStore(pool),
		snapStore:       pgstore.NewTeamSnapStore(pool),
		assignmentStore: pgstore.NewAssignmentStore(pool),
		eventStore:      pgstore.NewEventStore(pool),

		// ClickHouse stores (analytics)
		weeklyStore:   chstore.NewWeeklyMetricStore(conn),
		seasonStore:   chstore.NewSeasonMetricStore(conn),
		baselineStore: chstore.NewPositionBaselineStore(conn),
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// seedMemoryStores loads fixture games and a simulated experiment so
// memory mode has data to process.
func seedMemoryStores(ctx context.Context, stores *allStores, season int) error {
	if err := pipeline.LoadFixtures(ctx, stores.playerStore, stores.gameStore, stores.snapStore); err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	params := simulation.DefaultParams()
	params.Season = season
	runner := simulation.NewRunner(simulation.RunnerOptions{
		AssignmentStore: stores.assignmentStore,
		EventStore:      stores.eventStore,
	})
	if _, _, err := runner.Run(ctx, params); err != nil {
		return fmt.Errorf("simulate experiment: %w", err)
	}
	return nil
}

// Run starts both schedulers and blocks until cancellation or error.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting unified server...")

	errCh := make(chan error, 2)

	go func() {
		if err := s.runPipelineScheduler(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("pipeline scheduler: %w", err)
		}
	}()
	go func() {
		if err := s.runAnalysisScheduler(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("analysis scheduler: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runPipelineScheduler runs the metrics pipeline on schedule.
func (s *Server) runPipelineScheduler(ctx context.Context) error {
	s.logger.Printf("Starting pipeline scheduler (interval: %v)...", s.pipelineInterval)

	s.runPipeline(ctx)

	ticker := time.NewTicker(s.pipelineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.pipelineRunning {
		s.mu.Unlock()
		s.logger.Println("Pipeline already running, skipping...")
		return
	}
	s.pipelineRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pipelineRunning = false
		s.lastPipelineRun = time.Now()
		s.pipelineRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running metrics pipeline...")
	start := time.Now()

	result, err := s.metricsPipeline.Run(ctx, s.season)
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		return
	}

	s.logger.Printf("Pipeline completed in %v: %d games, %d weekly rows, %d season rows, %d baselines",
		time.Since(start), result.GamesLoaded, result.WeeklyRows, result.SeasonRows, result.BaselineRows)
}

// runAnalysisScheduler runs experiment analysis on schedule.
func (s *Server) runAnalysisScheduler(ctx context.Context) error {
	s.logger.Printf("Starting analysis scheduler (interval: %v)...", s.analysisInterval)

	s.runAnalysis(ctx)

	ticker := time.NewTicker(s.analysisInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runAnalysis(ctx)
		}
	}
}

func (s *Server) runAnalysis(ctx context.Context) {
	s.mu.Lock()
	if s.analysisRunning {
		s.mu.Unlock()
		s.logger.Println("Analysis already running, skipping...")
		return
	}
	s.analysisRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.analysisRunning = false
		s.lastAnalysisRun = time.Now()
		s.analysisRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running experiment analysis...")
	start := time.Now()

	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		s.logger.Printf("Failed to create output directory: %v", err)
		return
	}

	report, written, err := s.experimentPipeline.Run(ctx, s.season)
	if err != nil {
		s.logger.Printf("Analysis error: %v", err)
		return
	}

	s.mu.Lock()
	s.srmMismatch = report.SRM.Mismatch
	s.mu.Unlock()

	if report.SRM.Mismatch {
		s.logger.Println("WARNING: sample ratio mismatch detected, results untrustworthy")
	}
	s.logger.Printf("Analysis completed in %v: %d users, %d files written",
		time.Since(start), report.SRM.NControl+report.SRM.NTreatment, len(written))
}

// startHTTPServer starts the HTTP server for health/metrics/status.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status          string    `json:"status"`
	Uptime          string    `json:"uptime"`
	Season          int       `json:"season"`
	LastPipelineRun time.Time `json:"last_pipeline_run,omitempty"`
	LastAnalysisRun time.Time `json:"last_analysis_run,omitempty"`
	PipelineRuns    int       `json:"pipeline_runs"`
	AnalysisRuns    int       `json:"analysis_runs"`
	PipelineRunning bool      `json:"pipeline_running"`
	AnalysisRunning bool      `json:"analysis_running"`
	SRMMismatch     bool      `json:"srm_mismatch"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		Season:          s.season,
		LastPipelineRun: s.lastPipelineRun,
		LastAnalysisRun: s.lastAnalysisRun,
		PipelineRuns:    s.pipelineRuns,
		AnalysisRuns:    s.analysisRuns,
		PipelineRunning: s.pipelineRunning,
		AnalysisRunning: s.analysisRunning,
		SRMMismatch:     s.srmMismatch,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
