package iostore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mfofanah/dhistat/schema"
)

func newTestStore(t *testing.T) *ResultsStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "results.db")
	store, err := NewResultsStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*ResultsStoreImpl)
}

func TestResultsStoreRunLifecycle(t *testing.T) {
	store := newTestStore(t)

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, "facility.csv")
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunStatusRunning, runs[0].Status)
	assert.Equal(t, "facility.csv", runs[0].InputFile)
	assert.True(t, runs[0].EndTime.IsZero())

	end := start.Add(2 * time.Second)
	require.NoError(t, store.EndRun(runID, end, 100, 97))

	runs, err = store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, schema.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 100, runs[0].TotalRows)
	assert.Equal(t, 97, runs[0].ResolvedRows)
	assert.True(t, runs[0].EndTime.Equal(end))
}

func TestResultsStoreListRunsOrder(t *testing.T) {
	store := newTestStore(t)

	first, err := store.BeginRun(time.Now(), "a.csv")
	require.NoError(t, err)
	second, err := store.BeginRun(time.Now(), "b.csv")
	require.NoError(t, err)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestResultsStoreLevelValues(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.BeginRun(time.Now(), "facility.csv")
	require.NoError(t, err)

	values := []schema.LevelValue{
		{Level: "adm1", GroupKeys: `{"adm1":"Western","month":1,"year":2015}`, Metric: "confirmed", Value: 12},
		{Level: "adm1", GroupKeys: `{"adm1":"Western","month":1,"year":2015}`, Metric: "tested", Value: 40},
		{Level: "adm2", GroupKeys: `{"adm1":"Western","adm2":"Urban","month":1,"year":2015}`, Metric: "confirmed", Value: 7},
	}
	require.NoError(t, store.RecordLevelValues(runID, values))

	stored, err := store.ListLevelValues(runID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, v := range stored {
		assert.Equal(t, runID, v.RunID)
	}

	// Values of another run stay invisible
	other, err := store.BeginRun(time.Now(), "other.csv")
	require.NoError(t, err)
	stored, err = store.ListLevelValues(other)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestResultsStoreRecordLevelValuesEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordLevelValues(1, nil))
}

func TestResultsStoreStatusAndClear(t *testing.T) {
	store := newTestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.Zero(t, status.RunCount)
	assert.Zero(t, status.ValueCount)

	runID, err := store.BeginRun(time.Now(), "facility.csv")
	require.NoError(t, err)
	require.NoError(t, store.RecordLevelValues(runID, []schema.LevelValue{
		{Level: "adm1", GroupKeys: `{"adm1":"Western"}`, Metric: "confirmed", Value: 1},
	}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.RunCount)
	assert.Equal(t, 1, status.ValueCount)
	assert.False(t, status.LastRun.IsZero())

	require.NoError(t, store.Clear())

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.RunCount)
	assert.Zero(t, status.ValueCount)
}

func TestNewResultsStoreUnsupportedBackend(t *testing.T) {
	_, err := NewResultsStore(schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestMigrateResultsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	// Up to latest, then all the way down
	require.NoError(t, MigrateResults(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateResults(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrateResultsNoneBackend(t *testing.T) {
	err := MigrateResults(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrationFilesPerBackend(t *testing.T) {
	backends := []schema.DatabaseBackend{
		schema.SQLiteBackend,
		schema.MySQLBackend,
		schema.PostgreSQLBackend,
	}

	// Every backend ships the same migration versions in its own dialect.
	var reference []string
	for _, backend := range backends {
		dir, err := migrationsDir(backend)
		require.NoError(t, err)

		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		require.NotEmpty(t, names, "backend %s", backend)

		if reference == nil {
			reference = names
			continue
		}
		assert.Equal(t, reference, names, "backend %s", backend)
	}

	_, err := migrationsDir(schema.NoneBackend)
	assert.Error(t, err)
}

func TestMockResultsStore(t *testing.T) {
	store := &MockResultsStore{}
	store.On("BeginRun", mock.Anything, "in.csv").Return(int64(7), nil)
	store.On("Close").Return(nil)

	runID, err := store.BeginRun(time.Now(), "in.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(7), runID)
	require.NoError(t, store.Close())
	store.AssertExpectations(t)
}
