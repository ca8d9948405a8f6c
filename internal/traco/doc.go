// Package traco converts TRACO region-of-interest annotations and flat
// position rows into the sorted per-hexbug CSV table consumed by the
// analysis tools.
//
// Every conversion is the same three steps:
//
//	source  ->  []PositionRecord  ->  ToSortedTable  ->  CSVWriter
//
// Parsers never touch the output, so a malformed source leaves any existing
// destination file as it was.
package traco
