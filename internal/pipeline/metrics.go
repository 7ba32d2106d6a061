package pipeline

import (
	"context"
	"fmt"
	"time"

	"fantasy-analytics/internal/config"
	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/metrics"
	"fantasy-analytics/internal/observability"
	"fantasy-analytics/internal/reporting"
	"fantasy-analytics/internal/storage"
)

// MetricsPipeline orchestrates one metrics engine run for a season:
// load facts, derive weekly/season/baseline tables, replace the
// season's stored metrics, and export CSVs.
type MetricsPipeline struct {
	playerStore   storage.PlayerStore
	gameStore     storage.PlayerGameStore
	snapStore     storage.TeamSnapStore
	weeklyStore   storage.WeeklyMetricStore
	seasonStore   storage.SeasonMetricStore
	baselineStore storage.PositionBaselineStore

	cfg       *config.Config
	reportGen *reporting.Generator
	obs       *observability.Metrics
	clock     func() time.Time
}

// NewMetricsPipeline creates a pipeline over the given stores.
func NewMetricsPipeline(
	playerStore storage.PlayerStore,
	gameStore storage.PlayerGameStore,
	snapStore storage.TeamSnapStore,
	weeklyStore storage.WeeklyMetricStore,
	seasonStore storage.SeasonMetricStore,
	baselineStore storage.PositionBaselineStore,
	cfg *config.Config,
) *MetricsPipeline {
	return &MetricsPipeline{
		playerStore:   playerStore,
		gameStore:     gameStore,
		snapStore:     snapStore,
		weeklyStore:   weeklyStore,
		seasonStore:   seasonStore,
		baselineStore: baselineStore,
		cfg:           cfg,
		reportGen:     reporting.NewGenerator(weeklyStore, seasonStore, baselineStore),
		clock:         func() time.Time { return time.Now().UTC() },
	}
}

// WithObservability attaches run counters and timers.
func (p *MetricsPipeline) WithObservability(obs *observability.Metrics) *MetricsPipeline {
	p.obs = obs
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *MetricsPipeline) WithClock(clock func() time.Time) *MetricsPipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Season        int
	GamesLoaded   int
	WeeklyRows    int
	SeasonRows    int
	BaselineRows  int
	ExportedFiles []string
}

// Run executes the metrics engine for a season. An existing run for
// the same season is replaced, so the pipeline can be repeated over
// refreshed facts. Malformed facts, including rows referencing a
// player absent from the players dimension, abort the run with a
// ShapeError.
func (p *MetricsPipeline) Run(ctx context.Context, season int) (*RunResult, error) {
	started := p.clock()

	records, err := p.gameStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load player games: %w", err)
	}

	players, err := p.playerStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	known := make(map[string]bool, len(players))
	for _, pl := range players {
		known[pl.PlayerID] = true
	}
	for _, r := range records {
		if !known[r.PlayerID] {
			return nil, domain.NewShapeError("player_game_stats",
				fmt.Sprintf("player=%s week=%d", r.PlayerID, r.Week), "unknown player")
		}
	}

	teamSnaps, err := p.snapStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load team snaps: %w", err)
	}

	weekly, err := metrics.ComputeWeeklyMetrics(records, teamSnaps, p.cfg.RollingWindow)
	if err != nil {
		return nil, err
	}

	seasonMetrics := metrics.ComputeSeasonMetrics(weekly, p.cfg.BoomThresholdPPR, p.cfg.BustThresholdPPR)
	baselines := metrics.ComputeBaselines(weekly, p.cfg.StartablePool)

	// Replace this season's derived tables
	if err := p.weeklyStore.DeleteBySeason(ctx, season); err != nil {
		return nil, fmt.Errorf("clear weekly metrics: %w", err)
	}
	if err := p.weeklyStore.InsertBulk(ctx, weekly); err != nil {
		return nil, fmt.Errorf("store weekly metrics: %w", err)
	}

	if err := p.seasonStore.DeleteBySeason(ctx, season); err != nil {
		return nil, fmt.Errorf("clear season metrics: %w", err)
	}
	if err := p.seasonStore.InsertBulk(ctx, seasonMetrics); err != nil {
		return nil, fmt.Errorf("store season metrics: %w", err)
	}

	if err := p.baselineStore.DeleteBySeason(ctx, season); err != nil {
		return nil, fmt.Errorf("clear baselines: %w", err)
	}
	if err := p.baselineStore.InsertBulk(ctx, baselines); err != nil {
		return nil, fmt.Errorf("store baselines: %w", err)
	}

	var exported []string
	if p.cfg.OutputDir != "" {
		exported, err = p.reportGen.WriteMetricExports(ctx, season, p.cfg.OutputDir)
		if err != nil {
			return nil, err
		}
	}

	if p.obs != nil {
		p.obs.RecordPipelineRun(len(records), p.clock().Sub(started))
	}

	return &RunResult{
		Season:        season,
		GamesLoaded:   len(records),
		WeeklyRows:    len(weekly),
		SeasonRows:    len(seasonMetrics),
		BaselineRows:  len(baselines),
		ExportedFiles: exported,
	}, nil
}
