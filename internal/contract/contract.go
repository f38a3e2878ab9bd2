// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/mfofanah/dhistat/schema"
)

// ResultsStore defines the interface for persisting pipeline runs and their
// aggregated values. This allows the storage layer to be mocked for testing.
type ResultsStore interface {
	// BeginRun creates a new run record and returns its unique ID.
	BeginRun(startTime time.Time, inputFile string) (int64, error)

	// EndRun updates the run record with completion data.
	EndRun(runID int64, endTime time.Time, totalRows, resolvedRows int) error

	// RecordLevelValues stores aggregated values for one level of a run.
	RecordLevelValues(runID int64, values []schema.LevelValue) error

	// ListRuns returns all recorded runs, newest first.
	ListRuns() ([]schema.RunRecord, error)

	// ListLevelValues returns the stored values for one run.
	ListLevelValues(runID int64) ([]schema.LevelValue, error)

	// GetStatus returns status information about the results store.
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all stored runs and values.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for accessing the results store.
// A nil store from the manager means persistence is disabled.
type StoreManager interface {
	GetResultsStore() ResultsStore
}
