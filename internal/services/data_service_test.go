package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpulse/internal/config"
	apierrors "gridpulse/internal/errors"
)

// bulkLine renders one JSON line of hourly generation for a series.
func bulkLine(seriesID string, start time.Time, hours int, value float64) string {
	var pairs []string
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		pairs = append(pairs, fmt.Sprintf(`["%s",%g]`, ts.Format("20060102T15Z"), value))
	}
	return fmt.Sprintf(`{"series_id":%q,"data":[%s]}`, seriesID, strings.Join(pairs, ","))
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		EBADir:        filepath.Join(base, "data", "eba"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
		BulkFile:      filepath.Join(base, "data", "eba", "EBA.txt"),
	}
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func writeBulkFile(t *testing.T, paths *config.Paths, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(paths.BulkFile, []byte(content), 0644))
}

func loadedDataService(t *testing.T) *DataService {
	t.Helper()
	paths := testPaths(t)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBulkFile(t, paths,
		bulkLine("EBA.CISO-ALL.NG.NUC.H", start, 48, 100),
		bulkLine("EBA.CISO-ALL.NG.WND.H", start, 48, 50),
		bulkLine("EBA.BPAT-ALL.NG.WAT.H", start, 48, 200),
	)

	ds := NewDataService(paths, nil, nil)
	require.NoError(t, ds.LoadFromDisk(context.Background()))
	return ds
}

func TestDataServiceUnloaded(t *testing.T) {
	ds := NewDataService(testPaths(t), nil, nil)

	_, err := ds.Dataset()
	assert.ErrorIs(t, err, apierrors.ErrDatasetUnavailable)

	loaded, _ := ds.Loaded()
	assert.False(t, loaded)

	_, err = ds.Authorities(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrDatasetUnavailable)

	assert.False(t, ds.HasAuthority("CISO"))
}

func TestDataServiceLoadFromDisk(t *testing.T) {
	ds := loadedDataService(t)

	loaded, at := ds.Loaded()
	assert.True(t, loaded)
	assert.WithinDuration(t, time.Now(), at, time.Minute)

	authorities, err := ds.Authorities(context.Background())
	require.NoError(t, err)
	assert.Contains(t, authorities, "CISO")
	assert.Contains(t, authorities, "BPAT")

	assert.True(t, ds.HasAuthority("CISO"))
	assert.False(t, ds.HasAuthority("ERCO"))
}

func TestDataServiceLoadFromDiskMissingFile(t *testing.T) {
	ds := NewDataService(testPaths(t), nil, nil)

	err := ds.LoadFromDisk(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load bulk dataset")
}

func TestDataServiceGetReports(t *testing.T) {
	paths := testPaths(t)
	ds := NewDataService(paths, nil, nil)

	reports, err := ds.GetReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)

	older := filepath.Join(paths.ReportsDir, "intensity_CISO_2020-01-01_2020-01-02.csv")
	newer := filepath.Join(paths.ReportsDir, "generation_CISO_2020-01-01_2020-01-02.csv")
	require.NoError(t, os.WriteFile(older, []byte("timestamp\n"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("timestamp\n"), 0644))
	require.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))
	// non-CSV files are not reports
	require.NoError(t, os.WriteFile(filepath.Join(paths.ReportsDir, "notes.txt"), []byte("x"), 0644))

	reports, err = ds.GetReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "generation_CISO_2020-01-01_2020-01-02.csv", reports[0].Name)
	assert.Equal(t, "intensity_CISO_2020-01-01_2020-01-02.csv", reports[1].Name)
	assert.Greater(t, reports[0].Size, int64(0))
}

func TestJSONFloatMarshal(t *testing.T) {
	out, err := json.Marshal([]JSONFloat{1.5, JSONFloat(math.NaN()), 0})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,0]", string(out))
}
