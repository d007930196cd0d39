package exporter

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpulse/internal/intensity"
)

func sampleTable(rows int) *intensity.GenerationTable {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	index := make([]time.Time, rows)
	values := make([][]float64, rows)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Hour)
		values[i] = make([]float64, intensity.NumFuels)
		values[i][intensity.FuelWind] = 55
		values[i][intensity.FuelNuclear] = 100
	}
	return &intensity.GenerationTable{
		Authority: "CISO",
		Index:     index,
		Values:    values,
	}
}

func readReport(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimPrefix(string(content), "\xEF\xBB\xBF")
}

func TestExportGenerationTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generation.csv")

	e := NewReportExporter(nil)
	require.NoError(t, e.ExportGenerationTable(sampleTable(2), path))

	body := readReport(t, path)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "timestamp,WND,SUN,WAT,OIL,NG,COL,NUC,OTH", lines[0])
	assert.Equal(t, "2020-01-01T00:00:00Z,55.00,0.00,0.00,0.00,0.00,0.00,100.00,0.00", lines[1])
	assert.Equal(t, "2020-01-01T01:00:00Z,55.00,0.00,0.00,0.00,0.00,0.00,100.00,0.00", lines[2])
}

func TestExportSeries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intensity.csv")

	series := &intensity.Series{
		Name:  intensity.SeriesName,
		Index: []time.Time{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC)},
		Values: []float64{
			12,
			math.NaN(),
		},
	}

	e := NewReportExporter(nil)
	require.NoError(t, e.ExportSeries(series, path))

	body := readReport(t, path)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "timestamp,carbon_intensity", lines[0])
	assert.Equal(t, "2020-01-01T00:00:00Z,12.00", lines[1])
	// zero-generation hour renders as an empty field
	assert.Equal(t, "2020-01-01T01:00:00Z,", lines[2])
}

func TestExportGenerationTableStreaming(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generation_stream.csv")

	e := NewReportExporter(nil)
	require.NoError(t, e.ExportGenerationTableStreaming(sampleTable(48), path))

	body := readReport(t, path)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Len(t, lines, 49)
	assert.Equal(t, "timestamp,WND,SUN,WAT,OIL,NG,COL,NUC,OTH", lines[0])
}

func TestReportFileNames(t *testing.T) {
	assert.Equal(t, "generation_CISO_2020-01-01_2020-01-31.csv",
		GenerationFileName("CISO", "2020-01-01", "2020-01-31"))
	assert.Equal(t, "intensity_BPAT_2019-06-01_2019-06-30.csv",
		IntensityFileName("BPAT", "2019-06-01", "2019-06-30"))
}
