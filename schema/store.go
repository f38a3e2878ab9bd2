package schema

import "time"

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	ID           int64
	StartTime    time.Time
	EndTime      time.Time
	InputFile    string
	TotalRows    int
	ResolvedRows int
	Status       string
}

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
)

// LevelValue is one aggregated metric value in long format: the grouping key
// tuple is serialized as a JSON object so every level fits one table.
type LevelValue struct {
	RunID     int64
	Level     string
	GroupKeys string // JSON object, key column name -> value
	Metric    string
	Value     float64
}

// StoreStatus summarizes the results store contents.
type StoreStatus struct {
	Backend    DatabaseBackend
	Location   string
	RunCount   int
	ValueCount int
	LastRun    time.Time
}
