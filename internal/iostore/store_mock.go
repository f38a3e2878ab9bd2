package iostore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetResultsStore implements the StoreManager interface.
func (m *MockStoreManager) GetResultsStore() contract.ResultsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ResultsStore)
	return store
}

// MockResultsStore is a mock implementation of ResultsStore for testing.
type MockResultsStore struct {
	mock.Mock
}

var _ contract.ResultsStore = &MockResultsStore{} // Compile-time check

// BeginRun implements the ResultsStore interface.
func (m *MockResultsStore) BeginRun(startTime time.Time, inputFile string) (int64, error) {
	args := m.Called(startTime, inputFile)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the ResultsStore interface.
func (m *MockResultsStore) EndRun(runID int64, endTime time.Time, totalRows, resolvedRows int) error {
	args := m.Called(runID, endTime, totalRows, resolvedRows)
	return args.Error(0)
}

// RecordLevelValues implements the ResultsStore interface.
func (m *MockResultsStore) RecordLevelValues(runID int64, values []schema.LevelValue) error {
	args := m.Called(runID, values)
	return args.Error(0)
}

// ListRuns implements the ResultsStore interface.
func (m *MockResultsStore) ListRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// ListLevelValues implements the ResultsStore interface.
func (m *MockResultsStore) ListLevelValues(runID int64) ([]schema.LevelValue, error) {
	args := m.Called(runID)
	values, _ := args.Get(0).([]schema.LevelValue)
	return values, args.Error(1)
}

// GetStatus implements the ResultsStore interface.
func (m *MockResultsStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the ResultsStore interface.
func (m *MockResultsStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the ResultsStore interface.
func (m *MockResultsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
