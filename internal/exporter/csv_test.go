package exporter

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w := NewCSVWriter(nil)
	err := w.WriteSimpleCSV(path, []string{"timestamp", "value"}, [][]string{
		{"2020-01-01T00:00:00Z", "123.40"},
		{"2020-01-01T01:00:00Z", "98.00"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM prefix for Excel
	require.True(t, len(content) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])

	body := string(content[3:])
	assert.Contains(t, body, "timestamp,value\n")
	assert.Contains(t, body, "2020-01-01T00:00:00Z,123.40\n")
}

func TestWriteCSVWithoutBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w := NewCSVWriter(nil)
	err := w.WriteCSV(path, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))
}

func TestAppendToCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	w := NewCSVWriter(nil)
	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	}))
	require.NoError(t, w.AppendToCSV(path, [][]string{{"2"}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", string(content))
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.csv")

	w := NewCSVWriter(nil)
	err := w.WriteCSV(path, WriteOptions{Records: [][]string{{"x"}}})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.csv")

	w := NewCSVWriter(nil)
	stream, err := w.CreateStreamWriter(path, []string{"timestamp", "WND"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"2020-01-01T00:00:00Z", "55.00"}))
	require.NoError(t, stream.WriteRecord([]string{"2020-01-01T01:00:00Z", "60.00"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,WND\n2020-01-01T00:00:00Z,55.00\n2020-01-01T01:00:00Z,60.00\n", string(content))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"two decimals", 13.4, "13.40"},
		{"zero", 0, "0.00"},
		{"pads whole numbers", 7.5, "7.50"},
		{"nan renders empty", math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.value))
		})
	}
}
