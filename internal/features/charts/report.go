package charts

// Report descriptors and the runner that renders them one by one.
// Each chart is isolated: a failure is logged and recorded, and the next chart still runs.

import (
	"context"
	"fmt"
	"io"
	"time"

	"boxoffice-report/internal/infra/fs"
	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/movies"

	"go.uber.org/zap"
)

// RenderFunc draws one figure from the table into path.
type RenderFunc func(style Style, t *movies.Table, path string) error

// Report describes one business question and the figure that answers it.
type Report struct {
	Name    string
	Caption string
	File    string
	Render  RenderFunc
}

// Style carries rendering settings shared by every chart.
type Style struct {
	DPI      int
	FontPath string // optional TTF for gg-drawn figures; embedded Liberation Sans otherwise
}

// DefaultStyle renders at 96 dpi with the embedded font.
func DefaultStyle() Style {
	return Style{DPI: 96}
}

// Outcome is the result of one report.
type Outcome struct {
	Report   Report
	Path     string
	Size     int64
	Duration time.Duration
	Err      error
}

// OK reports whether the chart was written.
func (o Outcome) OK() bool { return o.Err == nil }

// Runner renders reports into OutputDir and prints captions to Out.
type Runner struct {
	OutputDir string
	Out       io.Writer
	Style     Style
}

// Run renders every report in order. It stops early only when ctx is done;
// the remaining reports are then marked with the context error.
func (r *Runner) Run(ctx context.Context, t *movies.Table, reports []Report) []Outcome {
	outcomes := make([]Outcome, 0, len(reports))
	for _, rep := range reports {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Report: rep, Err: err})
			continue
		}
		outcomes = append(outcomes, r.runOne(t, rep))
	}
	return outcomes
}

func (r *Runner) runOne(t *movies.Table, rep Report) (out Outcome) {
	start := time.Now()
	out = Outcome{Report: rep, Path: fs.OutputPath(r.OutputDir, rep.File)}

	fmt.Fprintf(r.Out, "%s\n\n", rep.Caption)

	defer func() {
		if p := recover(); p != nil {
			out.Err = fmt.Errorf("chart %s panicked: %v", rep.Name, p)
		}
		out.Duration = time.Since(start)
		if out.Err != nil {
			logging.LogError("Chart failed",
				zap.String("chart", rep.Name),
				zap.Int64("duration_ms", out.Duration.Milliseconds()),
				zap.Error(out.Err))
			return
		}
		logging.LogSuccess("Chart generated: "+rep.File,
			zap.String("chart", rep.Name),
			zap.String("filename", out.Path),
			zap.Int64("fileSize", out.Size),
			zap.Int64("duration_ms", out.Duration.Milliseconds()))
	}()

	if err := rep.Render(r.Style, t, out.Path); err != nil {
		out.Err = fmt.Errorf("failed to render %s: %w", rep.Name, err)
		return out
	}

	size, err := fs.VerifyImage(out.Path)
	if err != nil {
		out.Err = err
		return out
	}
	out.Size = size
	return out
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
