package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	runsTable       = "trendscope_runs"
	migrationsTable = "trendscope_schema_migrations"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// driverFor returns the database/sql driver name and DSN for a backend.
// MySQL DSNs always get parseTime so DATETIME columns scan into time.Time.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = GetRunDBFilePath()
		}
		return "sqlite", connStr, nil
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return "", "", fmt.Errorf("invalid MySQL connection string: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	case schema.PostgreSQLBackend:
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings the database for a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewRunStore creates a RunStore with the specified backend and brings its schema up to date.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateLatest(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}
	return &RunStoreImpl{db: db, backend: backend}, nil
}

// placeholders returns n bind placeholders for the backend, starting at 1.
func (rs *RunStoreImpl) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if rs.backend == schema.PostgreSQLBackend {
			out[i] = "$" + strconv.Itoa(i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	p := rs.placeholders(2)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (%s, %s) RETURNING run_id`, quotedTableName, p[0], p[1])
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (%s, %s)`, quotedTableName, p[0], p[1])
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data and the computed summary.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, dataDir string, summary schema.Summary) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	p := rs.placeholders(11)

	row := rs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, p[0]), runID)
	startTime, err := scanTime(row, rs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	years := make([]string, len(summary.Years))
	for i, y := range summary.Years {
		years[i] = strconv.Itoa(y)
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, data_dir = %s, years = %s,
		primary_rows = %s, secondary_rows = %s, primary_mean = %s, secondary_mean = %s,
		primary_max = %s, correlation = %s WHERE run_id = %s`,
		quotedTableName, p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7], p[8], p[9], p[10])
	args := []any{
		formatTime(endTime, rs.backend), durationMs, dataDir, strings.Join(years, ","),
		summary.PrimaryRows, summary.SecondaryRows,
		summary.PrimaryMean.Ptr(), summary.SecondaryMean.Ptr(),
		summary.PrimaryMax.Ptr(), summary.Correlation.Ptr(),
		runID,
	}
	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	status.TableSizes[runsTable] = int64(status.TotalRuns)
	if status.TotalRuns == 0 {
		return status, nil
	}

	row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName))
	if err := row.Scan(&status.LastRunID); err != nil {
		return status, fmt.Errorf("failed to get last run id: %w", err)
	}

	var err error
	row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName))
	if status.LastRunTime, err = scanTime(row, rs.backend); err != nil {
		return status, fmt.Errorf("failed to get last run time: %w", err)
	}
	row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedTableName))
	if status.OldestRunTime, err = scanTime(row, rs.backend); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	row = rs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(primary_rows + secondary_rows), 0) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalRowsAnalyzed); err != nil {
		return status, fmt.Errorf("failed to get total rows analyzed: %w", err)
	}
	return status, nil
}

// GetAllRuns retrieves all runs from the store, oldest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, data_dir, years,
		primary_rows, secondary_rows, primary_mean, secondary_mean, primary_max, correlation, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var (
			record                     schema.RunRecord
			startRaw, endRaw           any
			duration                   sql.NullInt32
			primaryMean, secondaryMean sql.NullFloat64
			primaryMax, correlation    sql.NullFloat64
			configParams               sql.NullString
		)
		if err := rows.Scan(&record.RunID, &startRaw, &endRaw, &duration, &record.DataDir, &record.Years,
			&record.PrimaryRows, &record.SecondaryRows, &primaryMean, &secondaryMean, &primaryMax, &correlation, &configParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if record.StartTime, err = parseTimeValue(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time of run %d: %w", record.RunID, err)
		}
		if endRaw != nil {
			end, err := parseTimeValue(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time of run %d: %w", record.RunID, err)
			}
			record.EndTime = &end
		}
		if duration.Valid {
			record.RunDurationMs = &duration.Int32
		}
		record.PrimaryMean = nullFloatPtr(primaryMean)
		record.SecondaryMean = nullFloatPtr(secondaryMean)
		record.PrimaryMax = nullFloatPtr(primaryMax)
		record.Correlation = nullFloatPtr(correlation)
		if configParams.Valid {
			record.ConfigParams = &configParams.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return records, nil
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// scanTime reads a single time column, which SQLite stores as RFC 3339 text.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// parseTimeValue converts a scanned time column of any backend.
func parseTimeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

// formatTime converts a time to the column representation of the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
