package traco

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
)

// DefaultRoiKey is the top-level key of a TRACO document holding its ROIs.
const DefaultRoiKey = "rois"

// ParseRoiDocument parses a TRACO document and returns one record per ROI
// entry, in document order: z becomes Time, id becomes ObjectID and
// pos[0], pos[1] become X, Y.
func ParseRoiDocument(raw []byte) ([]PositionRecord, error) {
	return ParseRoiDocumentKey(raw, DefaultRoiKey)
}

// ParseRoiDocumentKey is ParseRoiDocument for documents that keep their ROIs
// under a key other than "rois".
func ParseRoiDocumentKey(raw []byte, key string) ([]PositionRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Index: -1, Reason: "document is not a JSON object", Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Index: -1, Reason: "document is null"}
	}

	rawRois, ok := doc[key]
	if !ok {
		return nil, &ParseError{Index: -1, Field: key, Reason: "missing key"}
	}
	if bytes.Equal(bytes.TrimSpace(rawRois), []byte("null")) {
		return nil, &ParseError{Index: -1, Field: key, Reason: "value is null"}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawRois, &entries); err != nil {
		return nil, &ParseError{Index: -1, Field: key, Reason: "value is not an array", Err: err}
	}

	records := make([]PositionRecord, 0, len(entries))
	for i, entry := range entries {
		rec, err := parseRoiEntry(i, entry)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRoiEntry(i int, raw json.RawMessage) (PositionRecord, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
		return PositionRecord{}, &ParseError{Unit: "roi", Index: i, Reason: "entry is not an object", Err: err}
	}

	t, err := roiInt(entry, i, "z")
	if err != nil {
		return PositionRecord{}, err
	}
	id, err := roiInt(entry, i, "id")
	if err != nil {
		return PositionRecord{}, err
	}
	x, y, err := roiPos(entry, i)
	if err != nil {
		return PositionRecord{}, err
	}
	return PositionRecord{Time: t, ObjectID: id, X: x, Y: y}, nil
}

func roiInt(entry map[string]json.RawMessage, i int, field string) (int, error) {
	raw, ok := entry[field]
	if !ok {
		return 0, &ParseError{Unit: "roi", Index: i, Field: field, Reason: "missing field"}
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return 0, &ParseError{Unit: "roi", Index: i, Field: field, Reason: "not a number", Err: err}
	}
	v, err := numberToInt(n)
	if err != nil {
		return 0, &ParseError{Unit: "roi", Index: i, Field: field, Reason: "not an integer", Err: err}
	}
	return v, nil
}

func roiPos(entry map[string]json.RawMessage, i int) (float64, float64, error) {
	raw, ok := entry["pos"]
	if !ok {
		return 0, 0, &ParseError{Unit: "roi", Index: i, Field: "pos", Reason: "missing field"}
	}
	var pos []json.RawMessage
	if err := json.Unmarshal(raw, &pos); err != nil || pos == nil {
		return 0, 0, &ParseError{Unit: "roi", Index: i, Field: "pos", Reason: "not an array", Err: err}
	}
	if len(pos) < 2 {
		return 0, 0, &ParseError{Unit: "roi", Index: i, Field: "pos",
			Reason: fmt.Sprintf("has %d element(s), need 2", len(pos))}
	}

	var xy [2]float64
	for k := range xy {
		n, err := decodeNumber(pos[k])
		if err != nil {
			return 0, 0, &ParseError{Unit: "roi", Index: i, Field: "pos",
				Reason: fmt.Sprintf("element %d is not a number", k), Err: err}
		}
		if xy[k], err = n.Float64(); err != nil {
			return 0, 0, &ParseError{Unit: "roi", Index: i, Field: "pos",
				Reason: fmt.Sprintf("element %d out of range", k), Err: err}
		}
	}
	return xy[0], xy[1], nil
}

// ReadRoiFile reads and parses the TRACO document at path. An empty key
// means DefaultRoiKey.
func ReadRoiFile(fsys fsutil.FileSystem, path, key string) ([]PositionRecord, error) {
	if key == "" {
		key = DefaultRoiKey
	}
	raw, err := readSource(fsys, path)
	if err != nil {
		return nil, err
	}
	records, err := ParseRoiDocumentKey(raw, key)
	return records, withSource(err, path)
}

func readSource(fsys fsutil.FileSystem, path string) ([]byte, error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	raw, err := fsys.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return raw, nil
}
