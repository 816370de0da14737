package charts

import (
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

var (
	embeddedOnce sync.Once
	embeddedFont *truetype.Font
	embeddedErr  error
)

// fontFace returns a face of the given point size at the style's resolution.
// A configured TTF wins; otherwise the Liberation Sans bundled with gonum/plot
// is used so output does not depend on the machine's fonts.
func fontFace(style Style, points float64) (font.Face, error) {
	px := points * float64(style.DPI) / 72

	if style.FontPath != "" {
		face, err := gg.LoadFontFace(style.FontPath, px)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", style.FontPath, err)
		}
		return face, nil
	}

	embeddedOnce.Do(func() {
		embeddedFont, embeddedErr = truetype.Parse(liberationsansregular.TTF)
	})
	if embeddedErr != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", embeddedErr)
	}
	return truetype.NewFace(embeddedFont, &truetype.Options{Size: px}), nil
}

// useFont switches dc to a face of the given size.
func useFont(dc *gg.Context, style Style, points float64) error {
	face, err := fontFace(style, points)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	return nil
}
