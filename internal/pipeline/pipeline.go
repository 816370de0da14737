package pipeline

// End-to-end report run: load -> clean -> derive -> ten charts -> extras.
// Input and data errors abort before any chart; everything after that is isolated.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"boxoffice-report/internal/clients_api/telegram"
	"boxoffice-report/internal/features/charts"
	"boxoffice-report/internal/features/summary"
	"boxoffice-report/internal/infra/exec"
	"boxoffice-report/internal/infra/fs"
	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/movies"

	"go.uber.org/zap"
)

// ErrChartsFailed is returned when at least one chart could not be produced.
var ErrChartsFailed = errors.New("some charts failed")

const viewerTimeout = 10 * time.Second

// Publisher delivers finished charts. *telegram.Publisher satisfies it.
type Publisher interface {
	PublishAll(ctx context.Context, photos []telegram.Photo) (int, error)
}

// Options describes one run.
type Options struct {
	Input     string
	OutputDir string
	Style     charts.Style
	Overview  bool
	Summary   bool
	Show      bool
	Publisher Publisher // nil disables publishing
	Reports   []charts.Report
}

// Result is what a run produced.
type Result struct {
	Stats    movies.CleanStats
	Outcomes []charts.Outcome
	Overview string // path, empty when not written
	Summary  string
	Sent     int
}

// Run executes the whole report. The returned Result is non-nil whenever the
// data was loaded, even if some charts failed.
func Run(ctx context.Context, opts Options, out io.Writer) (*Result, error) {
	start := time.Now()
	runID := logging.GenerateRunID()
	logging.LogInfo("Report run started",
		zap.String("run_id", runID),
		zap.String("input", opts.Input),
		zap.String("output_dir", opts.OutputDir))

	if err := fs.EnsureOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}

	table, stats, err := prepare(opts.Input)
	if err != nil {
		return nil, err
	}
	result := &Result{Stats: stats}

	reports := opts.Reports
	if reports == nil {
		reports = charts.Catalog()
	}
	runner := &charts.Runner{OutputDir: opts.OutputDir, Out: out, Style: opts.Style}
	result.Outcomes = runner.Run(ctx, table, reports)

	if opts.Summary {
		path := fs.OutputPath(opts.OutputDir, summary.File)
		if err := summary.Write(table, path); err != nil {
			logging.LogError("Failed to write summary workbook", zap.Error(err))
		} else {
			result.Summary = path
			logging.LogSuccess("Summary workbook written", zap.String("filename", path))
		}
	}

	if opts.Overview {
		path := fs.OutputPath(opts.OutputDir, charts.OverviewFile)
		if err := charts.DrawOverview(opts.Style, result.Outcomes, path); err != nil {
			logging.LogError("Failed to draw overview", zap.Error(err))
		} else {
			result.Overview = path
			logging.LogSuccess("Overview written", zap.String("filename", path))
		}
	}

	if opts.Show {
		showAll(ctx, result.Outcomes)
	}

	if opts.Publisher != nil {
		sent, err := opts.Publisher.PublishAll(ctx, photos(result.Outcomes))
		result.Sent = sent
		if err != nil {
			logging.LogError("Publishing finished with errors", zap.Int("sent", sent), zap.Error(err))
		}
	}

	failed := charts.Failed(result.Outcomes)
	logging.LogInfo("Report run finished",
		zap.String("run_id", runID),
		zap.Int("charts", len(result.Outcomes)-len(failed)),
		zap.Int("failed", len(failed)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	if len(failed) > 0 {
		names := make([]string, len(failed))
		for i, o := range failed {
			names[i] = o.Report.Name
		}
		return result, fmt.Errorf("%w: %d of %d (%v)", ErrChartsFailed, len(failed), len(result.Outcomes), names)
	}
	return result, nil
}

// prepare loads, cleans and enriches the input once for every chart.
func prepare(input string) (*movies.Table, movies.CleanStats, error) {
	raw, err := movies.Load(input)
	if err != nil {
		return nil, movies.CleanStats{}, err
	}
	base, stats, err := movies.Clean(raw)
	if err != nil {
		return nil, stats, err
	}
	if stats.UnparsableDates > 0 {
		logging.LogWarn("Release dates could not be parsed; records kept without a month",
			zap.Int("count", stats.UnparsableDates))
	}
	if stats.MissingAmounts > 0 {
		logging.LogWarn("Monetary cells were empty", zap.Int("count", stats.MissingAmounts))
	}
	logging.LogInfo("Records loaded", zap.Int("rows", stats.Rows))
	return movies.Derive(base), stats, nil
}

func showAll(ctx context.Context, outcomes []charts.Outcome) {
	for _, o := range outcomes {
		if !o.OK() || ctx.Err() != nil {
			continue
		}
		if output, err := exec.OpenImage(ctx, o.Path, viewerTimeout); err != nil {
			logging.LogWarn("Failed to open chart in viewer",
				zap.String("filename", o.Path),
				zap.String("output", string(output)),
				zap.Error(err))
		}
	}
}

func photos(outcomes []charts.Outcome) []telegram.Photo {
	var list []telegram.Photo
	for _, o := range outcomes {
		if o.OK() {
			list = append(list, telegram.Photo{Path: o.Path, Caption: o.Report.Caption})
		}
	}
	return list
}
