package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	heatmapWidthIn  = 10.0
	heatmapHeightIn = 8.0

	heatmapLeft   = 0.22 // share of width reserved for row labels
	heatmapRight  = 0.16 // colour bar
	heatmapTop    = 0.11 // title
	heatmapBottom = 0.14 // column labels

	annotationFontSize = 12.0
	colorBarSteps      = 200
)

type heatmapSpec struct {
	title  string
	labels []string
	values [][]float64 // square, len(labels) x len(labels)
}

// drawHeatmap renders an annotated matrix with a diverging colour bar on [-1, 1].
func drawHeatmap(style Style, spec heatmapSpec, path string) error {
	n := len(spec.labels)
	if n == 0 || len(spec.values) != n {
		return fmt.Errorf("heatmap needs a square matrix, have %d labels and %d rows", n, len(spec.values))
	}

	width := int(heatmapWidthIn * float64(style.DPI))
	height := int(heatmapHeightIn * float64(style.DPI))
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	w, h := float64(width), float64(height)
	gridLeft := w * heatmapLeft
	gridTop := h * heatmapTop
	gridSize := math.Min(w*(1-heatmapLeft-heatmapRight), h*(1-heatmapTop-heatmapBottom))
	cell := gridSize / float64(n)

	if err := useFont(dc, style, titleFontSize); err != nil {
		return err
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(spec.title, w/2, gridTop/2, 0.5, 0.5)

	if err := useFont(dc, style, annotationFontSize); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := spec.values[i][j]
			x := gridLeft + float64(j)*cell
			y := gridTop + float64(i)*cell

			dc.SetColor(coolwarm(v))
			dc.DrawRectangle(x, y, cell, cell)
			dc.Fill()

			dc.SetColor(color.White)
			dc.SetLineWidth(2)
			dc.DrawRectangle(x, y, cell, cell)
			dc.Stroke()

			text := "nan"
			if !math.IsNaN(v) {
				text = fmt.Sprintf("%.2f", v)
			}
			dc.SetColor(annotationColor(v))
			dc.DrawStringAnchored(text, x+cell/2, y+cell/2, 0.5, 0.35)
		}
	}

	dc.SetColor(color.Black)
	for i, label := range spec.labels {
		// rows on the left, columns underneath
		dc.DrawStringAnchored(label, gridLeft-10, gridTop+(float64(i)+0.5)*cell, 1, 0.35)
		dc.DrawStringAnchored(label, gridLeft+(float64(i)+0.5)*cell, gridTop+gridSize+10, 0.5, 1)
	}

	drawColorBar(dc, gridLeft+gridSize+w*0.04, gridTop, w*0.03, gridSize)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

func annotationColor(v float64) color.Color {
	if !math.IsNaN(v) && math.Abs(v) > 0.6 {
		return color.White
	}
	return color.Black
}

// drawColorBar paints +1 at the top down to -1 at the bottom with five labelled ticks.
func drawColorBar(dc *gg.Context, x, y, barWidth, barHeight float64) {
	step := barHeight / colorBarSteps
	for i := 0; i < colorBarSteps; i++ {
		v := 1 - 2*(float64(i)+0.5)/colorBarSteps
		dc.SetColor(coolwarm(v))
		dc.DrawRectangle(x, y+float64(i)*step, barWidth, step+1)
		dc.Fill()
	}

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	for _, v := range []float64{1, 0.5, 0, -0.5, -1} {
		ty := y + (1-v)/2*barHeight
		dc.DrawLine(x+barWidth, ty, x+barWidth+6, ty)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", v), x+barWidth+10, ty, 0, 0.35)
	}
}
