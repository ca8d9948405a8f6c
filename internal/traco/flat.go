package traco

import (
	"encoding/json"
	"fmt"

	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
)

// ParseFlatArray converts rows of [time, objectId, x, y] into records,
// keeping row order. Time and objectId must hold integral values.
func ParseFlatArray(rows [][]float64) ([]PositionRecord, error) {
	records := make([]PositionRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, &ParseError{Unit: "row", Index: i,
				Reason: fmt.Sprintf("has %d element(s), need exactly 4", len(row))}
		}
		t, err := floatToInt(row[0])
		if err != nil {
			return nil, &ParseError{Unit: "row", Index: i, Field: "t", Reason: "not an integer", Err: err}
		}
		id, err := floatToInt(row[1])
		if err != nil {
			return nil, &ParseError{Unit: "row", Index: i, Field: "hexbug", Reason: "not an integer", Err: err}
		}
		records = append(records, PositionRecord{Time: t, ObjectID: id, X: row[2], Y: row[3]})
	}
	return records, nil
}

// ParseFlatJSON parses a JSON array of [time, objectId, x, y] arrays.
func ParseFlatJSON(raw []byte) ([]PositionRecord, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &ParseError{Index: -1, Reason: "document is not an array of arrays", Err: err}
	}

	values := make([][]float64, len(rows))
	for i, row := range rows {
		values[i] = make([]float64, len(row))
		for k, cell := range row {
			n, err := decodeNumber(cell)
			if err != nil {
				return nil, &ParseError{Unit: "row", Index: i,
					Reason: fmt.Sprintf("element %d is not a number", k), Err: err}
			}
			if values[i][k], err = n.Float64(); err != nil {
				return nil, &ParseError{Unit: "row", Index: i,
					Reason: fmt.Sprintf("element %d out of range", k), Err: err}
			}
		}
	}
	return ParseFlatArray(values)
}

// ReadFlatFile reads and parses a JSON file of flat rows.
func ReadFlatFile(fsys fsutil.FileSystem, path string) ([]PositionRecord, error) {
	raw, err := readSource(fsys, path)
	if err != nil {
		return nil, err
	}
	records, err := ParseFlatJSON(raw)
	return records, withSource(err, path)
}
