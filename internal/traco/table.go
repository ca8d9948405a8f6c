package traco

import "sort"

// ToSortedTable returns a new table holding records ordered by ObjectID and
// then Time. The sort is stable, so records sharing both keys keep their
// input order. records is not modified.
func ToSortedTable(records []PositionRecord) RecordTable {
	table := make(RecordTable, len(records))
	copy(table, records)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].less(table[j])
	})
	return table
}
