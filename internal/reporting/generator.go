package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// Output file names.
const (
	WeeklyMetricsFile    = "weekly_metrics.csv"
	SeasonMetricsFile    = "season_metrics.csv"
	BaselinesFile        = "position_baselines.csv"
	ExperimentReportFile = "experiment_report.md"
	ExperimentTestsFile  = "experiment_tests.csv"
)

// Generator writes metric exports and experiment reports to disk.
type Generator struct {
	weeklyStore   storage.WeeklyMetricStore
	seasonStore   storage.SeasonMetricStore
	baselineStore storage.PositionBaselineStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	weeklyStore storage.WeeklyMetricStore,
	seasonStore storage.SeasonMetricStore,
	baselineStore storage.PositionBaselineStore,
) *Generator {
	return &Generator{
		weeklyStore:   weeklyStore,
		seasonStore:   seasonStore,
		baselineStore: baselineStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WriteMetricExports loads a season's metric tables and writes the
// three CSV exports into outputDir. Returns the written paths.
func (g *Generator) WriteMetricExports(ctx context.Context, season int, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	weekly, err := g.weeklyStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load weekly metrics: %w", err)
	}

	seasonMetrics, err := g.seasonStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load season metrics: %w", err)
	}

	baselines, err := g.baselineStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{WeeklyMetricsFile, RenderWeeklyCSV(weekly)},
		{SeasonMetricsFile, RenderSeasonCSV(seasonMetrics)},
		{BaselinesFile, RenderBaselineCSV(baselines)},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(outputDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	return written, nil
}

// WriteExperimentReport writes the Markdown report and the per-metric
// CSV into outputDir. Returns the written paths.
func (g *Generator) WriteExperimentReport(report *domain.ExperimentReport, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	md := RenderExperimentMarkdown(report, g.now())
	mdPath := filepath.Join(outputDir, ExperimentReportFile)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ExperimentReportFile, err)
	}

	results := []*domain.TestResult{
		&report.ClaimRate,
		&report.ClaimsPerUser,
		&report.LineupRate,
		&report.Retention,
	}
	csvPath := filepath.Join(outputDir, ExperimentTestsFile)
	if err := os.WriteFile(csvPath, []byte(RenderTestResultsCSV(results)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ExperimentTestsFile, err)
	}

	return []string{mdPath, csvPath}, nil
}
