package pipeline

import (
	"context"
	"time"

	"fantasy-analytics/internal/config"
	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/experiment"
	"fantasy-analytics/internal/observability"
	"fantasy-analytics/internal/reporting"
	"fantasy-analytics/internal/storage"
)

// ExperimentPipeline runs the experiment analysis engine and writes
// its report files.
type ExperimentPipeline struct {
	analyzer  *experiment.Analyzer
	reportGen *reporting.Generator
	outputDir string
	obs       *observability.Metrics
	clock     func() time.Time
}

// NewExperimentPipeline creates an analysis pipeline over the given stores.
func NewExperimentPipeline(
	assignmentStore storage.AssignmentStore,
	eventStore storage.EventStore,
	cfg *config.Config,
) *ExperimentPipeline {
	opts := experiment.Options{
		Alpha:                cfg.Alpha,
		SRMAlpha:             cfg.SRMAlpha,
		TargetPower:          cfg.TargetPower,
		MinSegmentSize:       cfg.MinSegmentSize,
		ExpectedControlShare: cfg.ExpectedControlShare,
	}
	return &ExperimentPipeline{
		analyzer:  experiment.NewAnalyzer(assignmentStore, eventStore, opts),
		reportGen: reporting.NewGenerator(nil, nil, nil),
		outputDir: cfg.OutputDir,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithObservability attaches run counters and timers.
func (p *ExperimentPipeline) WithObservability(obs *observability.Metrics) *ExperimentPipeline {
	p.obs = obs
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *ExperimentPipeline) WithClock(clock func() time.Time) *ExperimentPipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// Run analyzes a season's experiment data and, when an output
// directory is configured, writes the Markdown report and CSV.
func (p *ExperimentPipeline) Run(ctx context.Context, season int) (*domain.ExperimentReport, []string, error) {
	started := p.clock()

	report, err := p.analyzer.Run(ctx, season)
	if err != nil {
		return nil, nil, err
	}

	var written []string
	if p.outputDir != "" {
		written, err = p.reportGen.WriteExperimentReport(report, p.outputDir)
		if err != nil {
			return nil, nil, err
		}
	}

	if p.obs != nil {
		p.obs.RecordAnalysisRun(report.SRM.NControl+report.SRM.NTreatment, p.clock().Sub(started))
		if report.SRM.Mismatch {
			p.obs.SRMFailures.Inc()
		}
		if len(written) > 0 {
			p.obs.ReportsGenerated.Inc()
		}
	}

	return report, written, nil
}
