package movies

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,234.50", 1234.50},
		{"1234.5", 1234.5},
		{"$187,436,818.00", 187436818},
		{" $ 42 ", 42},
		{"-$1,000", -1000},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanAmountIsIdempotent(t *testing.T) {
	first, err := CleanAmount("$1,234.50")
	require.NoError(t, err)
	second, err := CleanAmount("1234.5")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCleanAmountMissingAndInvalid(t *testing.T) {
	for _, blank := range []string{"", "  ", "NaN", "$", "NA", "n/a", "NULL"} {
		v, err := CleanAmount(blank)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v), "%q should be missing", blank)
	}

	_, err := CleanAmount("$12 million")
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestParseReleaseDate(t *testing.T) {
	want := time.Date(2020, time.July, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2020-07-15", "2020/07/15", "07/15/2020", "7/15/2020", "July 15, 2020", "Jul 15, 2020", "15 July 2020"} {
		got, ok := ParseReleaseDate(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	_, ok := ParseReleaseDate("sometime in summer")
	assert.False(t, ok)
	_, ok = ParseReleaseDate("")
	assert.False(t, ok)
}

func TestCleanToleratesBadDates(t *testing.T) {
	raw := &RawTable{
		Genre:       []string{"action", "comedy"},
		ReleaseDate: []string{"2020-07-15", "??"},
		Gross:       []string{"$10", "$20"},
		Net:         []string{"$5", ""},
		Budget:      []string{"$1", "$2"},
	}

	table, stats, err := Clean(raw)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.True(t, table.At(0).HasReleaseDate())
	assert.False(t, table.At(1).HasReleaseDate())
	assert.Equal(t, 1, stats.UnparsableDates)
	assert.Equal(t, 1, stats.MissingAmounts)
	assert.True(t, math.IsNaN(table.At(1).Net))
}

func TestCleanFailsOnBadAmount(t *testing.T) {
	raw := &RawTable{
		Genre:       []string{"action", "drama"},
		ReleaseDate: []string{"2020-07-15", "2020-07-16"},
		Gross:       []string{"$10", "$20"},
		Net:         []string{"$5", "$6"},
		Budget:      []string{"$1", "lots"},
	}

	_, _, err := Clean(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Contains(t, err.Error(), `line 3, column "budget"`)
}

func TestCleanDropsMissingGenre(t *testing.T) {
	raw := &RawTable{
		Genre:       []string{"NA", "drama", " NaN "},
		ReleaseDate: []string{"2020-07-15", "2020-07-16", "2020-07-17"},
		Gross:       []string{"$10", "$20", "$30"},
		Net:         []string{"$5", "$6", "$7"},
		Budget:      []string{"$1", "$2", "$3"},
	}

	table, _, err := Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, "", table.At(0).Genre)
	assert.Equal(t, "", table.At(2).Genre)

	stats, _, err := MeanBy(Derive(table), ByGenre, ProfitOf)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "drama", stats[0].Label)
}
