package charts

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"boxoffice-report/internal/movies"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable() *movies.Table {
	return movies.Derive(movies.NewTable([]movies.MovieRecord{
		{Title: "A", Genre: "action", ReleaseDate: day(2019, time.July, 4), Gross: 900e6, Net: 450e6, Budget: 200e6},
		{Title: "B", Genre: "action", ReleaseDate: day(2018, time.May, 1), Gross: 300e6, Net: 140e6, Budget: 160e6},
		{Title: "C", Genre: "comedy", ReleaseDate: day(2020, time.July, 15), Gross: 120e6, Net: 60e6, Budget: 30e6},
		{Title: "D", Genre: "comedy", Gross: 80e6, Net: 35e6, Budget: 40e6},
		{Title: "E", Genre: "drama", ReleaseDate: day(2017, time.December, 20), Gross: 50e6, Net: 22e6, Budget: 15e6},
		{Title: "F", Genre: "drama", ReleaseDate: day(2016, time.May, 6), Gross: 10e6, Net: 4e6, Budget: 0},
		{Title: "G", Genre: "science fiction", ReleaseDate: day(2015, time.December, 18), Gross: 2e9, Net: 900e6, Budget: 245e6},
	}))
}

func TestCatalogOrderAndFiles(t *testing.T) {
	reports := Catalog()
	require.Len(t, reports, 10)

	seen := make(map[string]bool)
	for i, r := range reports {
		assert.True(t, strings.HasPrefix(r.Caption, strconv.Itoa(i+1)+". "), r.Caption)
		assert.Equal(t, r.Name+".png", r.File)
		assert.False(t, seen[r.File], "duplicate file %s", r.File)
		seen[r.File] = true
		assert.NotNil(t, r.Render)
	}
}

func TestRunnerRendersAllCharts(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	runner := &Runner{OutputDir: dir, Out: &out, Style: DefaultStyle()}

	outcomes := runner.Run(context.Background(), sampleTable(), Catalog())
	require.Len(t, outcomes, 10)
	for _, o := range outcomes {
		require.NoError(t, o.Err, o.Report.Name)
		info, err := os.Stat(filepath.Join(dir, o.Report.File))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.Equal(t, info.Size(), o.Size)
	}
	assert.Empty(t, Failed(outcomes))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "1. What is the most profitable movie genre overall?", lines[0])
	assert.Equal(t, "10. How does the release date impact the overall profit margin for movies?", lines[9])
}

func TestRunnerIsDeterministic(t *testing.T) {
	render := func() (map[string][]byte, string) {
		dir := t.TempDir()
		var out bytes.Buffer
		runner := &Runner{OutputDir: dir, Out: &out, Style: DefaultStyle()}
		runner.Run(context.Background(), sampleTable(), Catalog())
		files := make(map[string][]byte)
		for _, r := range Catalog() {
			data, err := os.ReadFile(filepath.Join(dir, r.File))
			require.NoError(t, err)
			files[r.File] = data
		}
		return files, out.String()
	}

	first, captions1 := render()
	second, captions2 := render()
	assert.Equal(t, captions1, captions2)
	for name, data := range first {
		assert.True(t, bytes.Equal(data, second[name]), "%s differs between runs", name)
	}
}

func TestRunnerIsolatesFailures(t *testing.T) {
	// no release dates at all: the three month charts have nothing to group
	undated := movies.Derive(movies.NewTable([]movies.MovieRecord{
		{Genre: "action", Gross: 100, Net: 60, Budget: 40},
		{Genre: "comedy", Gross: 50, Net: 20, Budget: 30},
		{Genre: "comedy", Gross: 70, Net: 45, Budget: 25},
	}))

	runner := &Runner{OutputDir: t.TempDir(), Out: &bytes.Buffer{}, Style: DefaultStyle()}
	outcomes := runner.Run(context.Background(), undated, Catalog())

	var failed []string
	for _, o := range Failed(outcomes) {
		failed = append(failed, o.Report.Name)
		assert.True(t, errors.Is(o.Err, movies.ErrNoGroups), "%s: %v", o.Report.Name, o.Err)
	}
	assert.Equal(t, []string{"release_month_profit", "genre_vs_month", "release_date_vs_profit_margin"}, failed)
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	reports := []Report{
		{Name: "boom", Caption: "1. boom?", File: "boom.png", Render: func(Style, *movies.Table, string) error {
			panic("nil map")
		}},
		Catalog()[0],
	}

	runner := &Runner{OutputDir: t.TempDir(), Out: &bytes.Buffer{}, Style: DefaultStyle()}
	outcomes := runner.Run(context.Background(), sampleTable(), reports)

	require.Len(t, outcomes, 2)
	assert.ErrorContains(t, outcomes[0].Err, "panicked")
	assert.NoError(t, outcomes[1].Err)
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{OutputDir: t.TempDir(), Out: &bytes.Buffer{}, Style: DefaultStyle()}
	outcomes := runner.Run(ctx, sampleTable(), Catalog())
	require.Len(t, outcomes, 10)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestDrawOverview(t *testing.T) {
	dir := t.TempDir()
	runner := &Runner{OutputDir: dir, Out: &bytes.Buffer{}, Style: DefaultStyle()}
	outcomes := runner.Run(context.Background(), sampleTable(), Catalog()[:3])

	path := filepath.Join(dir, OverviewFile)
	require.NoError(t, DrawOverview(DefaultStyle(), outcomes, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, DrawOverview(DefaultStyle(), []Outcome{{Err: errors.New("x")}}, path))
}
