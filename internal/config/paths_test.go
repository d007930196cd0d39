package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "eba"), paths.EBADir)
	assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(paths.EBADir, BulkFileName), paths.BulkFile)
}

func TestPathsHelpers(t *testing.T) {
	paths := &Paths{
		LogsDir:    "/tmp/gp/logs",
		ReportsDir: "/tmp/gp/data/reports",
	}

	assert.Equal(t, filepath.Join("/tmp/gp/logs", "web.log"), paths.GetLogPath("web.log"))
	assert.Equal(t, filepath.Join("/tmp/gp/data/reports", "out.csv"), paths.GetReportPath("out.csv"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		DataDir:    filepath.Join(base, "data"),
		EBADir:     filepath.Join(base, "data", "eba"),
		ReportsDir: filepath.Join(base, "data", "reports"),
		LogsDir:    filepath.Join(base, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.DataDir)
	assert.DirExists(t, paths.EBADir)
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)
}
