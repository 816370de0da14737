package charts

import (
	"fmt"
	"image/color"
	"math"

	"boxoffice-report/internal/infra/fs"
	logging "boxoffice-report/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// OverviewFile is the contact sheet written next to the charts.
const OverviewFile = "overview.png"

const (
	overviewColumns   = 2
	overviewCellW     = 900.0
	overviewCellH     = 560.0
	overviewCaptionH  = 70.0
	overviewPadding   = 30.0
	overviewHeaderH   = 90.0
	overviewFontSize  = 11.0
	overviewTitleSize = 20.0
)

// DrawOverview tiles every chart that was written into one PNG, each with its
// caption underneath. Failed charts are skipped.
func DrawOverview(style Style, outcomes []Outcome, path string) error {
	var done []Outcome
	for _, o := range outcomes {
		if o.OK() {
			done = append(done, o)
		}
	}
	if len(done) == 0 {
		return fmt.Errorf("no charts to put on the overview")
	}

	// the sheet is sized in pixels; fonts are sized for 72 dpi
	sheet := Style{DPI: 72, FontPath: style.FontPath}

	rows := int(math.Ceil(float64(len(done)) / overviewColumns))
	width := int(overviewColumns*(overviewCellW+overviewPadding) + overviewPadding)
	height := int(overviewHeaderH + float64(rows)*(overviewCellH+overviewCaptionH+overviewPadding))

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	if err := useFont(dc, sheet, overviewTitleSize); err != nil {
		return err
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored("Box Office Report", float64(width)/2, overviewHeaderH/2, 0.5, 0.5)

	if err := useFont(dc, sheet, overviewFontSize*1.4); err != nil {
		return err
	}

	for i, o := range done {
		col := i % overviewColumns
		row := i / overviewColumns
		x := overviewPadding + float64(col)*(overviewCellW+overviewPadding)
		y := overviewHeaderH + float64(row)*(overviewCellH+overviewCaptionH+overviewPadding)

		img, err := gg.LoadImage(o.Path)
		if err != nil {
			logging.LogWarn("Failed to load chart for overview", zap.String("path", o.Path), zap.Error(err))
			continue
		}

		scale := math.Min(overviewCellW/float64(img.Bounds().Dx()), overviewCellH/float64(img.Bounds().Dy()))
		newWidth := float64(img.Bounds().Dx()) * scale
		newHeight := float64(img.Bounds().Dy()) * scale

		scaledCtx := gg.NewContext(int(newWidth), int(newHeight))
		scaledCtx.Scale(scale, scale)
		scaledCtx.DrawImage(img, 0, 0)

		offsetX := x + (overviewCellW-newWidth)/2
		dc.DrawImage(scaledCtx.Image(), int(offsetX), int(y))

		dc.SetColor(color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
		dc.DrawStringWrapped(o.Report.Caption, x+overviewCellW/2, y+overviewCellH+10, 0.5, 0, overviewCellW, 1.3, gg.AlignCenter)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save overview: %w", err)
	}
	if _, err := fs.VerifyImage(path); err != nil {
		return err
	}
	return nil
}
