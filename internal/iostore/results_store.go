package iostore

import (
	"database/sql"
	"fmt"
	"time"

	// Database drivers registered for the supported backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/schema"
)

// Table names for results tracking.
const (
	runsTable        = "dhistat_runs"
	levelValuesTable = "dhistat_level_values"
)

// ResultsStoreImpl implements the ResultsStore interface.
type ResultsStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	location   string
	driverName string
}

var _ contract.ResultsStore = &ResultsStoreImpl{} // Compile-time check

// NewResultsStore creates a new ResultsStore with the specified backend.
func NewResultsStore(backend schema.DatabaseBackend, connStr string) (contract.ResultsStore, error) {
	var db *sql.DB
	var err error
	var driverName, location string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		location = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		location = connStr
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		location = connStr
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createResultsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results tables: %w", err)
	}

	return &ResultsStoreImpl{
		db:         db,
		backend:    backend,
		location:   location,
		driverName: driverName,
	}, nil
}

// createResultsTables creates the results tracking tables.
func createResultsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{levelValuesTable, getCreateLevelValuesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for dhistat_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				input_file VARCHAR(512) NOT NULL,
				total_rows INT NOT NULL DEFAULT 0,
				resolved_rows INT NOT NULL DEFAULT 0,
				status VARCHAR(20) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				input_file TEXT NOT NULL,
				total_rows INT NOT NULL DEFAULT 0,
				resolved_rows INT NOT NULL DEFAULT 0,
				status TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				input_file TEXT NOT NULL,
				total_rows INTEGER NOT NULL DEFAULT 0,
				resolved_rows INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateLevelValuesQuery returns the CREATE TABLE query for dhistat_level_values.
func getCreateLevelValuesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(levelValuesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				level VARCHAR(20) NOT NULL,
				group_keys TEXT NOT NULL,
				metric VARCHAR(100) NOT NULL,
				value DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				level TEXT NOT NULL,
				group_keys TEXT NOT NULL,
				metric TEXT NOT NULL,
				value DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				level TEXT NOT NULL,
				group_keys TEXT NOT NULL,
				metric TEXT NOT NULL,
				value REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// quoteTableName quotes a table identifier for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// BeginRun creates a new run record and returns its unique ID.
func (rs *ResultsStoreImpl) BeginRun(startTime time.Time, inputFile string) (int64, error) {
	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, input_file, status) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, inputFile, schema.RunStatusRunning).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, input_file, status) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), inputFile, schema.RunStatusRunning)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run record with completion data.
func (rs *ResultsStoreImpl) EndRun(runID int64, endTime time.Time, totalRows, resolvedRows int) error {
	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_rows = $2, resolved_rows = $3, status = $4 WHERE run_id = $5`, quotedTableName)
		args = []any{endTime, totalRows, resolvedRows, schema.RunStatusCompleted, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_rows = ?, resolved_rows = ?, status = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), totalRows, resolvedRows, schema.RunStatusCompleted, runID}
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

// RecordLevelValues stores aggregated values for one level of a run inside a
// single transaction.
func (rs *ResultsStoreImpl) RecordLevelValues(runID int64, values []schema.LevelValue) error {
	if len(values) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(levelValuesTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, level, group_keys, metric, value) VALUES ($1, $2, $3, $4, $5)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, level, group_keys, metric, value) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, v := range values {
		if _, err := tx.Exec(query, runID, v.Level, v.GroupKeys, v.Metric, v.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert level value: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit level values: %w", err)
	}
	return nil
}

// ListRuns returns all recorded runs, newest first.
func (rs *ResultsStoreImpl) ListRuns() ([]schema.RunRecord, error) {
	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, input_file, total_rows, resolved_rows, status FROM %s ORDER BY run_id DESC`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&record.ID, &startStr, &endStr, &record.InputFile, &record.TotalRows, &record.ResolvedRows, &record.Status); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			record.StartTime, err = time.Parse(time.RFC3339Nano, startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				record.EndTime, err = time.Parse(time.RFC3339Nano, *endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
			}
		default: // MySQL and PostgreSQL store native datetimes
			var end sql.NullTime
			if err := rows.Scan(&record.ID, &record.StartTime, &end, &record.InputFile, &record.TotalRows, &record.ResolvedRows, &record.Status); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if end.Valid {
				record.EndTime = end.Time
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// ListLevelValues returns the stored values for one run.
func (rs *ResultsStoreImpl) ListLevelValues(runID int64) ([]schema.LevelValue, error) {
	quotedTableName := quoteTableName(levelValuesTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, level, group_keys, metric, value FROM %s WHERE run_id = $1 ORDER BY level, group_keys, metric`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, level, group_keys, metric, value FROM %s WHERE run_id = ? ORDER BY level, group_keys, metric`, quotedTableName)
	}

	rows, err := rs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query level values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LevelValue
	for rows.Next() {
		var v schema.LevelValue
		if err := rows.Scan(&v.RunID, &v.Level, &v.GroupKeys, &v.Metric, &v.Value); err != nil {
			return nil, fmt.Errorf("failed to scan level value: %w", err)
		}
		results = append(results, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating level values: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the results store.
func (rs *ResultsStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:  rs.backend,
		Location: rs.location,
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.RunCount); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}

	valuesQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(levelValuesTable, rs.backend))
	if err := rs.db.QueryRow(valuesQuery).Scan(&status.ValueCount); err != nil {
		return status, fmt.Errorf("failed to count level values: %w", err)
	}

	if status.RunCount > 0 {
		lastRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastStr string
			if err := row.Scan(&lastStr); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			last, err := time.Parse(time.RFC3339Nano, lastStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRun = last
		default:
			if err := row.Scan(&status.LastRun); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
		}
	}

	return status, nil
}

// Clear removes all stored runs and values.
func (rs *ResultsStoreImpl) Clear() error {
	for _, table := range []string{levelValuesTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultsStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
