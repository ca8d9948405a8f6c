package traco

import (
	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
	"github.com/FarzamTP/TRACO-HexBug/internal/monitoring"
)

// Converter runs parse -> sort -> write conversions against one filesystem.
// It holds no state between calls.
type Converter struct {
	FS     fsutil.FileSystem
	RoiKey string
	Writer *CSVWriter
}

// NewConverter returns a Converter using fsys for both reading and writing.
// A nil fsys means the OS filesystem.
func NewConverter(fsys fsutil.FileSystem) *Converter {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	w := NewCSVWriter()
	w.FS = fsys
	return &Converter{FS: fsys, RoiKey: DefaultRoiKey, Writer: w}
}

// Result describes a finished conversion.
type Result struct {
	Source      string // source path, empty for in-memory rows
	Destination string
	Records     int
	Tracks      int
	Table       RecordTable
}

// ConvertRoiFile converts the TRACO document at src into a CSV at dst using
// the OS filesystem.
func ConvertRoiFile(src, dst string) (*Result, error) {
	return NewConverter(nil).ConvertRoiFile(src, dst)
}

// ConvertRows converts in-memory [time, objectId, x, y] rows into a CSV at
// dst using the OS filesystem.
func ConvertRows(rows [][]float64, dst string) (*Result, error) {
	return NewConverter(nil).ConvertRows(rows, dst)
}

// ConvertRoiFile reads src as a TRACO document and writes the sorted table
// to dst. dst is not touched when src cannot be read or parsed.
func (c *Converter) ConvertRoiFile(src, dst string) (*Result, error) {
	monitoring.Logf("Opening file: %s", src)
	records, err := ReadRoiFile(c.FS, src, c.RoiKey)
	if err != nil {
		return nil, err
	}
	return c.save(records, src, dst)
}

// ConvertFlatFile reads src as a JSON array of flat rows and writes the
// sorted table to dst.
func (c *Converter) ConvertFlatFile(src, dst string) (*Result, error) {
	monitoring.Logf("Opening file: %s", src)
	records, err := ReadFlatFile(c.FS, src)
	if err != nil {
		return nil, err
	}
	return c.save(records, src, dst)
}

// ConvertRows converts in-memory flat rows and writes the sorted table to dst.
func (c *Converter) ConvertRows(rows [][]float64, dst string) (*Result, error) {
	records, err := ParseFlatArray(rows)
	if err != nil {
		return nil, err
	}
	return c.save(records, "", dst)
}

func (c *Converter) save(records []PositionRecord, src, dst string) (*Result, error) {
	table := ToSortedTable(records)

	w := c.Writer
	if w == nil {
		w = NewCSVWriter()
		w.FS = c.FS
	}

	monitoring.Logf("Saving %d records to %s", len(table), dst)
	if err := w.WriteFile(table, dst); err != nil {
		return nil, err
	}
	monitoring.Logf("Done")

	return &Result{
		Source:      src,
		Destination: dst,
		Records:     len(table),
		Tracks:      len(table.Tracks()),
		Table:       table,
	}, nil
}
