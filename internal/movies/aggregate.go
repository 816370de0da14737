package movies

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoGroups is returned when a grouping leaves nothing to plot.
	ErrNoGroups = errors.New("aggregation produced no groups")
	// ErrNoPoints is returned when a point-wise chart has no finite points.
	ErrNoPoints = errors.New("no finite data points")
)

// GroupStat is the mean of one group.
type GroupStat struct {
	Label   string
	Mean    float64
	Count   int // finite values that went into Mean
	Dropped int // non-finite values left out
}

// Group holds the finite values of one group, in record order.
type Group struct {
	Label   string
	Values  []float64
	Dropped int
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GroupValues partitions the metric by key. Non-finite values are counted but
// not kept; groups with no finite value are omitted. Groups come back sorted
// by label. dropped totals the non-finite values of every group, omitted ones
// included.
func GroupValues(t *Table, key Key, metric Metric) (groups []Group, dropped int) {
	index := make(map[string]*Group)
	for _, r := range t.records {
		label, ok := key(r)
		if !ok {
			continue
		}
		g, seen := index[label]
		if !seen {
			g = &Group{Label: label}
			index[label] = g
		}
		v := metric(r)
		if !isFinite(v) {
			g.Dropped++
			dropped++
			continue
		}
		g.Values = append(g.Values, v)
	}

	groups = make([]Group, 0, len(index))
	for _, g := range index {
		if len(g.Values) > 0 {
			groups = append(groups, *g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	return groups, dropped
}

// MeanBy averages the metric per group and ranks groups by mean, highest
// first. Equal means are ordered by label. dropped is the same total as
// GroupValues reports and is set even when no group survives.
func MeanBy(t *Table, key Key, metric Metric) ([]GroupStat, int, error) {
	groups, dropped := GroupValues(t, key, metric)
	if len(groups) == 0 {
		return nil, dropped, ErrNoGroups
	}

	out := make([]GroupStat, len(groups))
	for i, g := range groups {
		out[i] = GroupStat{
			Label:   g.Label,
			Mean:    stat.Mean(g.Values, nil),
			Count:   len(g.Values),
			Dropped: g.Dropped,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Label < out[j].Label
	})
	return out, dropped, nil
}

// Points pairs two metrics record by record, keeping input order and skipping
// pairs where either side is non-finite.
func Points(t *Table, x, y Metric) (xs, ys []float64, dropped int) {
	for _, r := range t.records {
		xv, yv := x(r), y(r)
		if !isFinite(xv) || !isFinite(yv) {
			dropped++
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	return xs, ys, dropped
}

// Correlation returns the Pearson matrix of the metrics over pairwise finite
// records. A pair with fewer than two points or no variance is NaN.
func Correlation(t *Table, metrics []Metric) [][]float64 {
	n := len(metrics)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			xs, ys, _ := Points(t, metrics[i], metrics[j])
			r := math.NaN()
			if len(xs) >= 2 && hasSpread(xs) && hasSpread(ys) {
				r = stat.Correlation(xs, ys, nil)
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

// LinearFit is an ordinary least squares line y = Intercept + Slope*x.
type LinearFit struct {
	Intercept float64
	Slope     float64
	MinX      float64
	MaxX      float64
}

// At evaluates the line.
func (f LinearFit) At(x float64) float64 { return f.Intercept + f.Slope*x }

// FitLine regresses ys on xs.
func FitLine(xs, ys []float64) (LinearFit, error) {
	if len(xs) < 2 {
		return LinearFit{}, fmt.Errorf("need at least 2 points for a regression line, have %d: %w", len(xs), ErrNoPoints)
	}
	if !hasSpread(xs) {
		return LinearFit{}, fmt.Errorf("regression needs more than one distinct x value")
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return LinearFit{Intercept: alpha, Slope: beta, MinX: floats.Min(xs), MaxX: floats.Max(xs)}, nil
}

func hasSpread(v []float64) bool {
	return floats.Max(v) > floats.Min(v)
}

// Labels returns the distinct group labels of key, sorted.
func Labels(t *Table, key Key) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.records {
		if label, ok := key(r); ok && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}
