package logger

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatchLog(t *testing.T, dir string, lines string) {
	t.Helper()
	reader := NewLogReader(dir)
	path := reader.GetLogPath(CategoryBatch, time.Now())
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
}

func TestReadLogs_ParsesJSONEntries(t *testing.T) {
	dir := t.TempDir()
	writeBatchLog(t, dir,
		`{"ts":"2025-08-25T10:00:00Z","level":"info","msg":"Batch download started","items":3}`+"\n"+
			`{"ts":"2025-08-25T10:00:05Z","level":"warn","msg":"Media item failed"}`+"\n")

	entries, err := NewLogReader(dir).ReadLogs(CategoryBatch, time.Now(), 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Batch download started", entries[0].Message)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "batch", entries[0].Category)
	assert.Equal(t, float64(3), entries[0].Fields["items"])
	assert.Equal(t, "warn", entries[1].Level)
}

func TestReadLogs_LimitKeepsTail(t *testing.T) {
	dir := t.TempDir()
	writeBatchLog(t, dir,
		`{"ts":"1","level":"info","msg":"first"}`+"\n"+
			`{"ts":"2","level":"info","msg":"second"}`+"\n"+
			`{"ts":"3","level":"info","msg":"third"}`+"\n")

	entries, err := NewLogReader(dir).ReadLogs(CategoryBatch, time.Now(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "third", entries[1].Message)
}

func TestReadLogs_MissingFileYieldsEmpty(t *testing.T) {
	entries, err := NewLogReader(t.TempDir()).ReadLogs(CategoryError, time.Now(), 100)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadLogs_NonJSONLineBecomesPlainEntry(t *testing.T) {
	dir := t.TempDir()
	writeBatchLog(t, dir, "[2025-08-25 10:00:00] $ metadata-extractor --json timeline someuser\n")

	entries, err := NewLogReader(dir).ReadLogs(CategoryBatch, time.Now(), 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "metadata-extractor")
	assert.Equal(t, "info", entries[0].Level)
}

func TestSearchLogs_FiltersByMessage(t *testing.T) {
	dir := t.TempDir()
	writeBatchLog(t, dir,
		`{"ts":"1","level":"info","msg":"Batch download started"}`+"\n"+
			`{"ts":"2","level":"warn","msg":"Media item failed"}`+"\n"+
			`{"ts":"3","level":"info","msg":"Batch download finished"}`+"\n")

	entries, err := NewLogReader(dir).SearchLogs(CategoryBatch, time.Now(), "FAILED", 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Media item failed", entries[0].Message)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryApp))
	assert.True(t, ValidCategory(CategoryBatch))
	assert.True(t, ValidCategory(CategoryExtract))
	assert.True(t, ValidCategory(CategoryWeb))
	assert.True(t, ValidCategory(CategoryError))
	assert.False(t, ValidCategory(LogCategory("queue")))
}
