package movies

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a monetary cell is not a number once the
// currency decoration is stripped.
var ErrInvalidAmount = errors.New("invalid monetary value")

var currencyStripper = strings.NewReplacer("$", "", ",", "", " ", "")

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// missingMarkers are the cell texts read as "no value", as spreadsheet and
// pandas exports write them.
var missingMarkers = map[string]bool{
	"": true, "NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"NA": true, "N/A": true, "n/a": true, "<NA>": true, "#N/A": true, "#NA": true,
	"NULL": true, "null": true, "None": true,
}

// IsMissing reports whether a text cell holds no value.
func IsMissing(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// CleanAmount turns "$1,234.50" into 1234.50. Blank cells and missing markers
// such as "NaN" or "NA" come back as NaN. Already-clean numbers pass through
// unchanged.
func CleanAmount(s string) (float64, error) {
	clean := currencyStripper.Replace(strings.TrimSpace(s))
	if IsMissing(clean) {
		return math.NaN(), nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	f, _ := d.Float64()
	return f, nil
}

// ParseReleaseDate parses the date column. ok is false for anything unparsable.
func ParseReleaseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// CleanStats counts per-field problems that were tolerated.
type CleanStats struct {
	Rows            int
	UnparsableDates int
	MissingAmounts  int
}

// Clean converts the raw cells into records. A bad date nulls that field; a bad
// monetary cell fails the whole table.
func Clean(raw *RawTable) (*Table, CleanStats, error) {
	stats := CleanStats{Rows: raw.Rows()}
	records := make([]MovieRecord, raw.Rows())

	for i := range records {
		r := MovieRecord{Genre: strings.TrimSpace(raw.Genre[i])}
		if IsMissing(r.Genre) {
			r.Genre = "" // ungrouped, see ByGenre
		}
		if raw.Title != nil {
			r.Title = strings.TrimSpace(raw.Title[i])
		}

		amounts := []struct {
			column string
			cell   string
			dst    *float64
		}{
			{ColumnGross, raw.Gross[i], &r.Gross},
			{ColumnNet, raw.Net[i], &r.Net},
			{ColumnBudget, raw.Budget[i], &r.Budget},
		}
		for _, a := range amounts {
			v, err := CleanAmount(a.cell)
			if err != nil {
				// header is line 1, so data row i sits on line i+2
				return nil, stats, fmt.Errorf("line %d, column %q: %w", i+2, a.column, err)
			}
			if math.IsNaN(v) {
				stats.MissingAmounts++
			}
			*a.dst = v
		}

		if d, ok := ParseReleaseDate(raw.ReleaseDate[i]); ok {
			r.ReleaseDate = d
		} else {
			stats.UnparsableDates++
		}

		records[i] = r
	}

	return &Table{records: records}, stats, nil
}
