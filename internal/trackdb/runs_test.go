package trackdb

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarzamTP/TRACO-HexBug/internal/timeutil"
	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tracks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTable() traco.RecordTable {
	return traco.ToSortedTable([]traco.PositionRecord{
		{Time: 1, ObjectID: 0, X: 583.1608765154604, Y: 97.44827299511995},
		{Time: 0, ObjectID: 1, X: 822.7252539996302, Y: 92.57577718188634},
		{Time: 0, ObjectID: 0, X: 609.1475208527264, Y: 177.84445391353734},
	})
}

func TestOpen_Migrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracks.db")
	db, err := Open(path)
	require.NoError(t, err)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, db.Close())

	// Reopening an up-to-date archive is a no-op.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	table := sampleTable()
	run := &Run{SourcePath: "traco_example.traco", SourceKind: KindRoi, Destination: "example1.csv"}
	require.NoError(t, db.SaveRun(run, table))

	assert.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.CreatedAtNs)
	assert.Equal(t, 3, run.RecordCount)
	assert.Equal(t, 2, run.TrackCount)

	got, err := db.Positions(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(table, got); diff != "" {
		t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
	}

	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	if diff := cmp.Diff(run, runs[0]); diff != "" {
		t.Errorf("ListRuns() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRun_EmptyTableAndNaN(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	empty := &Run{SourceKind: KindRows}
	require.NoError(t, db.SaveRun(empty, traco.RecordTable{}))
	got, err := db.Positions(empty.RunID)
	require.NoError(t, err)
	assert.Empty(t, got)

	withGap := &Run{SourceKind: KindFlat, SourcePath: "rows.json"}
	require.NoError(t, db.SaveRun(withGap, traco.RecordTable{{Time: 0, ObjectID: 3, X: math.NaN(), Y: 4}}))
	got, err = db.Positions(withGap.RunID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].X))
	assert.Equal(t, 4.0, got[0].Y)
}

func TestSaveRun_RequiresKind(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	assert.Error(t, db.SaveRun(&Run{}, nil))
}

func TestListRuns_NewestFirst(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	db.Clock = clock

	older := &Run{SourceKind: KindRoi}
	require.NoError(t, db.SaveRun(older, nil))
	clock.Advance(time.Second)
	newer := &Run{SourceKind: KindRoi}
	require.NoError(t, db.SaveRun(newer, nil))

	assert.Equal(t, start.UnixNano(), older.CreatedAtNs)
	assert.Equal(t, start.Add(time.Second).UnixNano(), newer.CreatedAtNs)

	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.RunID, runs[0].RunID)
	assert.Equal(t, older.RunID, runs[1].RunID)
}

func TestDeleteRun(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	run := &Run{SourceKind: KindRoi}
	require.NoError(t, db.SaveRun(run, sampleTable()))
	require.NoError(t, db.DeleteRun(run.RunID))

	_, err := db.Positions(run.RunID)
	assert.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM traco_positions`).Scan(&n))
	assert.Zero(t, n)

	assert.Error(t, db.DeleteRun(run.RunID))
}

func TestNewRun(t *testing.T) {
	t.Parallel()

	res := &traco.Result{Source: "a.traco", Destination: "a.csv", Records: 3, Tracks: 2}
	run := NewRun(KindRoi, res)
	assert.Equal(t, &Run{SourcePath: "a.traco", SourceKind: KindRoi, Destination: "a.csv", RecordCount: 3, TrackCount: 2}, run)
}
