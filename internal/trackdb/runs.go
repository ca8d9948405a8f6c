package trackdb

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

// Source kinds recorded with each run.
const (
	KindRoi  = "roi"
	KindFlat = "flat"
	KindRows = "rows"
)

// Run describes one archived conversion.
type Run struct {
	RunID       string
	SourcePath  string
	SourceKind  string
	Destination string
	RecordCount int
	TrackCount  int
	CreatedAtNs int64
}

// NewRun builds a Run from a finished conversion.
func NewRun(kind string, res *traco.Result) *Run {
	return &Run{
		SourcePath:  res.Source,
		SourceKind:  kind,
		Destination: res.Destination,
		RecordCount: res.Records,
		TrackCount:  res.Tracks,
	}
}

// SaveRun stores run and its table in one transaction. If run.RunID is
// empty a new UUID is generated; counts are taken from table.
func (db *DB) SaveRun(run *Run, table traco.RecordTable) error {
	if run.SourceKind == "" {
		return fmt.Errorf("save run: source kind is required")
	}
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = db.now().UnixNano()
	}
	run.RecordCount = len(table)
	run.TrackCount = len(table.Tracks())

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO traco_runs (
			run_id, source_path, source_kind, destination,
			record_count, track_count, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID,
		nullString(run.SourcePath),
		run.SourceKind,
		nullString(run.Destination),
		run.RecordCount,
		run.TrackCount,
		run.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO traco_positions (run_id, row_index, t, hexbug, x, y)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare position insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range table {
		if _, err := stmt.Exec(run.RunID, i, r.Time, r.ObjectID, nullFloat64(r.X), nullFloat64(r.Y)); err != nil {
			return fmt.Errorf("insert position %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (db *DB) now() time.Time {
	if db.Clock == nil {
		return time.Now()
	}
	return db.Clock.Now()
}

// ListRuns returns all runs, newest first.
func (db *DB) ListRuns() ([]*Run, error) {
	rows, err := db.Query(`
		SELECT run_id, source_path, source_kind, destination,
		       record_count, track_count, created_at_ns
		FROM traco_runs
		ORDER BY created_at_ns DESC, run_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var sourcePath, destination sql.NullString
		if err := rows.Scan(
			&run.RunID,
			&sourcePath,
			&run.SourceKind,
			&destination,
			&run.RecordCount,
			&run.TrackCount,
			&run.CreatedAtNs,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.SourcePath = sourcePath.String
		run.Destination = destination.String
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Positions returns the stored table of a run in its original row order.
func (db *DB) Positions(runID string) (traco.RecordTable, error) {
	var exists bool
	if err := db.QueryRow(`SELECT COUNT(*) > 0 FROM traco_runs WHERE run_id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	rows, err := db.Query(`
		SELECT t, hexbug, x, y
		FROM traco_positions
		WHERE run_id = ?
		ORDER BY row_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	table := traco.RecordTable{}
	for rows.Next() {
		var r traco.PositionRecord
		var x, y sql.NullFloat64
		if err := rows.Scan(&r.Time, &r.ObjectID, &x, &y); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		r.X = floatOrNaN(x)
		r.Y = floatOrNaN(y)
		table = append(table, r)
	}
	return table, rows.Err()
}

// DeleteRun removes a run and its positions.
func (db *DB) DeleteRun(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM traco_positions WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM traco_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return tx.Commit()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullFloat64 stores NaN as NULL; SQLite has no NaN.
func nullFloat64(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
