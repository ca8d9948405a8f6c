package traco

// PositionRecord is one tracked object's position at one frame.
type PositionRecord struct {
	Time     int     // frame index ("t")
	ObjectID int     // hexbug identifier ("hexbug")
	X        float64 // image x coordinate
	Y        float64 // image y coordinate
}

// less orders records by object, then frame.
func (r PositionRecord) less(o PositionRecord) bool {
	if r.ObjectID != o.ObjectID {
		return r.ObjectID < o.ObjectID
	}
	return r.Time < o.Time
}

// RecordTable is an ordered sequence of records ready for serialisation.
// Tables built by ToSortedTable are ordered by (ObjectID, Time).
type RecordTable []PositionRecord

// Track is the run of records belonging to one hexbug.
type Track struct {
	ObjectID int
	Records  RecordTable
}

// IsSorted reports whether the table is ordered by (ObjectID, Time).
func (t RecordTable) IsSorted() bool {
	for i := 1; i < len(t); i++ {
		if t[i].less(t[i-1]) {
			return false
		}
	}
	return true
}

// Tracks groups the table by ObjectID in order of first appearance. Records
// keep their table order within each track.
func (t RecordTable) Tracks() []Track {
	index := make(map[int]int)
	var tracks []Track
	for _, r := range t {
		i, ok := index[r.ObjectID]
		if !ok {
			i = len(tracks)
			index[r.ObjectID] = i
			tracks = append(tracks, Track{ObjectID: r.ObjectID})
		}
		tracks[i].Records = append(tracks[i].Records, r)
	}
	return tracks
}
