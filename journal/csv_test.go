package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, CSVHeader, rows[0])
}

func TestWriteCSVRows(t *testing.T) {
	t.Parallel()

	recs := sampleRecords()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	want := []string{
		"01HS0000000000000000000001",
		recs[0].Time().Format(time.RFC3339),
		"5m",
		"1h",
		"deepzone dc",
		"Long",
		"1.085000",
		"1.087500",
		"2.000000",
		"WIN",
		"yes",
		"patient entry",
		"- good structure",
	}
	assert.Equal(t, want, rows[1])
	assert.Equal(t, "no", rows[2][10])
	assert.Equal(t, "BE", rows[3][9])
}

func TestWriteCSVMultilineNotes(t *testing.T) {
	t.Parallel()

	r := sampleRecords()[0]
	r.Notes = "line one\nline, two"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Record{r}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "line one\nline, two", rows[1][11])
}
