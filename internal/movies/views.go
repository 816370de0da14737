package movies

import (
	"time"
)

// Metric reads one numeric value off a record.
type Metric func(MovieRecord) float64

var (
	GrossOf  Metric = func(r MovieRecord) float64 { return r.Gross }
	NetOf    Metric = func(r MovieRecord) float64 { return r.Net }
	BudgetOf Metric = func(r MovieRecord) float64 { return r.Budget }
	ProfitOf Metric = func(r MovieRecord) float64 { return r.Profit }
	MarginOf Metric = func(r MovieRecord) float64 { return r.Margin }
)

// Key assigns a record to a group. ok is false when the record has no group
// for this dimension and must be left out.
type Key func(MovieRecord) (label string, ok bool)

// ByGenre groups on the raw genre text; blank genres are dropped.
func ByGenre(r MovieRecord) (string, bool) {
	return r.Genre, r.Genre != ""
}

// ByReleaseMonth groups on the English month name of the release date.
func ByReleaseMonth(r MovieRecord) (string, bool) {
	m, ok := ReleaseMonth(r)
	if !ok {
		return "", false
	}
	return m.String(), true
}

// ByBreakEven groups into "True" and "False" on profit > 0.
func ByBreakEven(r MovieRecord) (string, bool) {
	if BreakEven(r) {
		return "True", true
	}
	return "False", true
}

// ReleaseMonth extracts the calendar month; records without a date have none.
func ReleaseMonth(r MovieRecord) (time.Month, bool) {
	if !r.HasReleaseDate() {
		return 0, false
	}
	return r.ReleaseDate.Month(), true
}

// MonthLabel gives the label used on month axes, e.g. "July".
func MonthLabel(m time.Month) string {
	return m.String()
}

// BreakEven reports profit > 0.
func BreakEven(r MovieRecord) bool {
	return r.Profit > 0
}
