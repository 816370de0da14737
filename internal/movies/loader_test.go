package movies

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `title,genre,release date,box office gross,box office net,budget
Heat,action,1995-12-15,"$187,436,818.00","$67,436,818.00","$60,000,000.00"
Clue,comedy,not a date,"$14,643,997","$9,000,000","$15,000,000"
`)

	raw, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, raw.Rows())
	assert.Equal(t, []string{"Heat", "Clue"}, raw.Title)
	assert.Equal(t, []string{"action", "comedy"}, raw.Genre)
	assert.Equal(t, "$187,436,818.00", raw.Gross[0])
	assert.Equal(t, "not a date", raw.ReleaseDate[1])
}

func TestLoadWithoutTitleColumn(t *testing.T) {
	path := writeCSV(t, "genre,release date,box office gross,box office net,budget\ndrama,2001-01-01,$1,$1,$1\n")

	raw, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, raw.Title)
	assert.Equal(t, 1, raw.Rows())
}

func TestLoadMissingColumn(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no budget", "genre,release date,box office gross,box office net\ndrama,2001-01-01,$1,$1\n"},
		{"case differs", "Genre,release date,box office gross,box office net,budget\ndrama,2001-01-01,$1,$1,$1\n"},
		{"spacing differs", "genre,release_date,box office gross,box office net,budget\ndrama,2001-01-01,$1,$1,$1\n"},
		{"header only", "Genre,release date,box office gross,box office net,budget\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := Load(path)
			assert.True(t, errors.Is(err, ErrMissingColumn), "got %v", err)
		})
	}
}

func TestLoadWithoutRecords(t *testing.T) {
	for name, content := range map[string]string{
		"header only": "genre,release date,box office gross,box office net,budget\n",
		"empty file":  "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCSV(t, content))
			assert.True(t, errors.Is(err, ErrNoRecords), "got %v", err)
			assert.False(t, errors.Is(err, ErrMissingColumn))
		})
	}
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	path := writeCSV(t, "\ufeffgenre,release date,box office gross,box office net,budget\ndrama,2001-01-01,$1,$2,$3\n")

	raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama"}, raw.Genre)
	assert.Equal(t, []string{"$3"}, raw.Budget)
}

func TestLoadKeepsMissingMarkersAsText(t *testing.T) {
	path := writeCSV(t, "title,genre,release date,box office gross,box office net,budget\nNA,NA,2001-01-01,$1,NA,$3\n")

	raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NA"}, raw.Title)
	assert.Equal(t, []string{"NA"}, raw.Genre)
	assert.Equal(t, []string{"NA"}, raw.Net)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
