package charts

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatUSD shortens an amount for tick labels: 1.5B, 250M, 12K, -3.2M.
func FormatUSD(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	switch {
	case value >= 1e9:
		return sign + trimDecimal(value/1e9) + "B"
	case value >= 1e6:
		return sign + trimDecimal(value/1e6) + "M"
	case value >= 1e3:
		return sign + trimDecimal(value/1e3) + "K"
	}
	rounded := math.Round(value)
	if rounded == 0 {
		return "0"
	}
	return sign + fmt.Sprintf("%.0f", rounded)
}

func trimDecimal(v float64) string {
	formatted := fmt.Sprintf("%.1f", v)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}

// TitleLabel title-cases a genre for axis labels: "science fiction" -> "Science Fiction".
func TitleLabel(s string) string {
	return cases.Title(language.English).String(s)
}
