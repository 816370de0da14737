package movies

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrNoRecords is returned for a file with a valid header and no data rows.
	ErrNoRecords = errors.New("input has no data rows")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// RawTable holds the text cells of the columns the report uses.
type RawTable struct {
	Title       []string // nil when the file has no title column
	Genre       []string
	ReleaseDate []string
	Gross       []string
	Net         []string
	Budget      []string
}

// Rows returns the number of data rows.
func (r *RawTable) Rows() int { return len(r.Genre) }

// Load reads a comma-delimited file with a header row. Every column is read as
// text; typing and missing-value handling happen in Clean. Header names must
// match exactly; a leading UTF-8 BOM is ignored.
func Load(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if err := checkHeader(data, path); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	raw := &RawTable{
		Genre:       df.Col(ColumnGenre).Records(),
		ReleaseDate: df.Col(ColumnReleaseDate).Records(),
		Gross:       df.Col(ColumnGross).Records(),
		Net:         df.Col(ColumnNet).Records(),
		Budget:      df.Col(ColumnBudget).Records(),
	}
	if present[ColumnTitle] {
		raw.Title = df.Col(ColumnTitle).Records()
	}
	return raw, nil
}

// checkHeader validates the header row and that at least one data row follows,
// before the frame is built: gota cannot load a header-only file.
func checkHeader(data []byte, path string) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return fmt.Errorf("%w: %s is empty", ErrNoRecords, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range RequiredColumns {
		if !present[name] {
			return fmt.Errorf("%w: %q in %s", ErrMissingColumn, name, path)
		}
	}

	if _, err := r.Read(); err == io.EOF {
		return fmt.Errorf("%w: %s", ErrNoRecords, path)
	}
	return nil
}
