package traco

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrackSummary holds descriptive statistics for one hexbug's track.
type TrackSummary struct {
	ObjectID   int
	Frames     int
	FirstTime  int
	LastTime   int
	MeanX      float64
	MeanY      float64
	StdX       float64 // sample standard deviation; 0 for single-frame tracks
	StdY       float64
	PathLength float64 // sum of distances between consecutive records
}

// Summarize computes one TrackSummary per hexbug, ordered by ObjectID.
// Tracks are walked in (ObjectID, Time) order regardless of table order.
func Summarize(table RecordTable) []TrackSummary {
	if !table.IsSorted() {
		table = ToSortedTable(table)
	}

	tracks := table.Tracks()
	out := make([]TrackSummary, 0, len(tracks))
	for _, tr := range tracks {
		n := len(tr.Records)
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i, r := range tr.Records {
			xs[i], ys[i] = r.X, r.Y
		}

		s := TrackSummary{
			ObjectID:  tr.ObjectID,
			Frames:    n,
			FirstTime: tr.Records[0].Time,
			LastTime:  tr.Records[n-1].Time,
		}
		if n == 1 {
			s.MeanX, s.MeanY = xs[0], ys[0]
		} else {
			s.MeanX, s.StdX = stat.MeanStdDev(xs, nil)
			s.MeanY, s.StdY = stat.MeanStdDev(ys, nil)
		}
		for i := 1; i < n; i++ {
			s.PathLength += floats.Distance(
				[]float64{xs[i], ys[i]},
				[]float64{xs[i-1], ys[i-1]},
				2,
			)
		}
		out = append(out, s)
	}
	return out
}
