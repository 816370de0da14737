package movies

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitAndMargin(t *testing.T) {
	assert.Equal(t, 50.0, Profit(150, 100))
	assert.Equal(t, -50.0, Profit(150, 200))
	assert.Equal(t, 50.0, Margin(50, 100))
	assert.Equal(t, -25.0, Margin(-50, 200))
}

func TestMarginWithZeroBudget(t *testing.T) {
	assert.True(t, math.IsInf(Margin(10, 0), 1))
	assert.True(t, math.IsInf(Margin(-10, 0), -1))
	assert.True(t, math.IsNaN(Margin(0, 0)))
}

func TestDeriveLeavesInputUntouched(t *testing.T) {
	base := NewTable([]MovieRecord{
		{Genre: "Action", Budget: 100, Net: 150},
		{Genre: "Comedy", Budget: 200, Net: 150},
		{Genre: "Action", Budget: 50, Net: 100},
	})

	enriched := Derive(base)

	assert.False(t, base.Derived())
	assert.True(t, enriched.Derived())
	assert.Equal(t, 0.0, base.At(0).Profit)

	var profits []float64
	for _, r := range enriched.Records() {
		profits = append(profits, r.Profit)
	}
	assert.Equal(t, []float64{50, -50, 50}, profits)
	assert.Equal(t, -25.0, enriched.At(1).Margin)
}
