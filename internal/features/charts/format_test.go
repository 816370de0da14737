package charts

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1.5K"},
		{250e6, "250M"},
		{1.26e9, "1.3B"},
		{2e9, "2B"},
		{-3.2e6, "-3.2M"},
		{-0.4, "0"},
		{0.4, "0"},
		{-12.6, "-13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.in), "%v", tt.in)
	}
}

func TestTitleLabel(t *testing.T) {
	assert.Equal(t, "Action", TitleLabel("action"))
	assert.Equal(t, "Science Fiction", TitleLabel("science fiction"))
}

func TestCoolwarm(t *testing.T) {
	assert.Equal(t, coolBlue, coolwarm(-1))
	assert.Equal(t, warmRed, coolwarm(1))
	assert.Equal(t, neutral, coolwarm(0))
	assert.Equal(t, warmRed, coolwarm(3), "values are clamped")
	assert.Equal(t, missingGrey, coolwarm(math.NaN()))
}

func TestGradient(t *testing.T) {
	g := gradient(blueDark, blueLight, 3)
	assert.Len(t, g, 3)
	assert.Equal(t, color.Color(blueDark), g[0])
	assert.Equal(t, color.Color(blueLight), g[2])
	assert.Len(t, gradient(blueDark, blueLight, 1), 1)
}

func TestMoneyTicks(t *testing.T) {
	for _, tick := range (moneyTicks{}).Ticks(0, 3e9) {
		if tick.Label == "" {
			continue
		}
		assert.NotContains(t, tick.Label, "e+")
		assert.Equal(t, FormatUSD(tick.Value), tick.Label)
	}
}
