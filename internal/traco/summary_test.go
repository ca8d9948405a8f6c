package traco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	// Deliberately unsorted.
	table := RecordTable{
		{Time: 5, ObjectID: 1, X: 7, Y: 8},
		{Time: 1, ObjectID: 0, X: 3, Y: 4},
		{Time: 0, ObjectID: 0, X: 0, Y: 0},
	}

	got := Summarize(table)
	require.Len(t, got, 2)

	s := got[0]
	assert.Equal(t, 0, s.ObjectID)
	assert.Equal(t, 2, s.Frames)
	assert.Equal(t, 0, s.FirstTime)
	assert.Equal(t, 1, s.LastTime)
	assert.InDelta(t, 1.5, s.MeanX, 1e-12)
	assert.InDelta(t, 2.0, s.MeanY, 1e-12)
	assert.InDelta(t, math.Sqrt(4.5), s.StdX, 1e-12)
	assert.InDelta(t, math.Sqrt(8), s.StdY, 1e-12)
	assert.InDelta(t, 5.0, s.PathLength, 1e-12)

	s = got[1]
	assert.Equal(t, 1, s.ObjectID)
	assert.Equal(t, 1, s.Frames)
	assert.Equal(t, 5, s.FirstTime)
	assert.Equal(t, 5, s.LastTime)
	assert.Equal(t, 7.0, s.MeanX)
	assert.Equal(t, 8.0, s.MeanY)
	assert.Zero(t, s.StdX)
	assert.Zero(t, s.PathLength)
}

func TestSummarize_PathFollowsTime(t *testing.T) {
	t.Parallel()

	// A square walked in frame order: 4 steps of 1.
	table := ToSortedTable([]PositionRecord{
		{Time: 3, ObjectID: 2, X: 0, Y: 1},
		{Time: 0, ObjectID: 2, X: 0, Y: 0},
		{Time: 2, ObjectID: 2, X: 1, Y: 1},
		{Time: 4, ObjectID: 2, X: 0, Y: 0},
		{Time: 1, ObjectID: 2, X: 1, Y: 0},
	})
	got := Summarize(table)
	require.Len(t, got, 1)
	assert.InDelta(t, 4.0, got[0].PathLength, 1e-12)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Summarize(nil))
}
