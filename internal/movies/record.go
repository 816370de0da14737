package movies

// Movie record and the read-only table the report works from.
// A table is built once by Clean, enriched once by Derive, and only read afterwards.

import (
	"time"
)

// Column names expected in the input header. Matching is exact.
const (
	ColumnTitle       = "title"
	ColumnGenre       = "genre"
	ColumnReleaseDate = "release date"
	ColumnGross       = "box office gross"
	ColumnNet         = "box office net"
	ColumnBudget      = "budget"
)

// RequiredColumns lists the header names the loader insists on, in file order.
var RequiredColumns = []string{ColumnGenre, ColumnReleaseDate, ColumnGross, ColumnNet, ColumnBudget}

// MovieRecord is one row of the input after cleaning.
type MovieRecord struct {
	Title       string
	Genre       string
	ReleaseDate time.Time // zero when the source text could not be parsed
	Gross       float64   // NaN when the cell was blank
	Net         float64
	Budget      float64

	Profit float64 // Net - Budget, set by Derive
	Margin float64 // Profit / Budget * 100, non-finite when Budget is 0
}

// HasReleaseDate reports whether the date column parsed.
func (r MovieRecord) HasReleaseDate() bool {
	return !r.ReleaseDate.IsZero()
}

// Table is an ordered, read-only set of records.
type Table struct {
	records []MovieRecord
	derived bool
}

// NewTable copies records into a table.
func NewTable(records []MovieRecord) *Table {
	cp := make([]MovieRecord, len(records))
	copy(cp, records)
	return &Table{records: cp}
}

func (t *Table) Len() int { return len(t.records) }

// Derived reports whether profit and margin have been computed.
func (t *Table) Derived() bool { return t.derived }

// Records returns a copy in input order.
func (t *Table) Records() []MovieRecord {
	cp := make([]MovieRecord, len(t.records))
	copy(cp, t.records)
	return cp
}

// At returns the i-th record by value.
func (t *Table) At(i int) MovieRecord { return t.records[i] }

// Filter returns a new table with the records keep accepts, order preserved.
func (t *Table) Filter(keep func(MovieRecord) bool) *Table {
	out := &Table{derived: t.derived}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}
