package summary

// Summary workbook with the aggregates behind the bar charts and the cleaned records.

import (
	"fmt"
	"math"

	"boxoffice-report/internal/movies"

	"github.com/Rhymond/go-money"
	"github.com/xuri/excelize/v2"
)

// File is the workbook name written into the output directory.
const File = "summary.xlsx"

const (
	sheetGenres  = "Genres"
	sheetMonths  = "Months"
	sheetRecords = "Records"
)

// Write saves the workbook to path, replacing any previous one.
func Write(t *movies.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetGenres); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetMonths, sheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	if err := writeGroups(f, sheetGenres, "Genre", t, movies.ByGenre); err != nil {
		return err
	}
	if err := writeGroups(f, sheetMonths, "Release Month", t, movies.ByReleaseMonth); err != nil {
		return err
	}
	if err := writeRecords(f, t); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeGroups lists mean profit and mean margin per group, ranked by profit.
func writeGroups(f *excelize.File, sheet, dimension string, t *movies.Table, key movies.Key) error {
	header := []interface{}{dimension, "Movies", "Average Profit", "Average Profit (USD)", "Average Profit Margin (%)", "Excluded Margins"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	profits, _, err := movies.MeanBy(t, key, movies.ProfitOf)
	if err != nil {
		// an empty dimension still gets its header row
		return nil
	}
	margins := make(map[string]movies.GroupStat)
	if stats, _, err := movies.MeanBy(t, key, movies.MarginOf); err == nil {
		for _, s := range stats {
			margins[s.Label] = s
		}
	}

	for i, p := range profits {
		margin, excluded := interface{}(""), 0
		if m, ok := margins[p.Label]; ok {
			margin = m.Mean
			excluded = m.Dropped
		}
		row := []interface{}{p.Label, p.Count, p.Mean, DisplayUSD(p.Mean), margin, excluded}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func writeRecords(f *excelize.File, t *movies.Table) error {
	header := []interface{}{"title", "genre", "release date", "box office gross", "box office net", "budget", "profit", "profit margin (%)", "break even"}
	if err := f.SetSheetRow(sheetRecords, "A1", &header); err != nil {
		return fmt.Errorf("failed to write records header: %w", err)
	}

	for i, r := range t.Records() {
		date := ""
		if r.HasReleaseDate() {
			date = r.ReleaseDate.Format("2006-01-02")
		}
		row := []interface{}{
			r.Title, r.Genre, date,
			cellValue(r.Gross), cellValue(r.Net), cellValue(r.Budget),
			cellValue(r.Profit), cellValue(r.Margin),
			movies.BreakEven(r),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetRecords, cell, &row); err != nil {
			return fmt.Errorf("failed to write record row %d: %w", i+2, err)
		}
	}
	return nil
}

// cellValue leaves non-finite numbers blank; xlsx has no NaN or Inf.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}

// DisplayUSD formats an amount as "$1,234.50".
func DisplayUSD(amount float64) string {
	return money.New(int64(math.Round(amount*100)), money.USD).Display()
}
