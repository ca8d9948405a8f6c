package traco

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
)

// Columns names the four data columns of the exported table.
type Columns struct {
	Time   string
	Object string
	X      string
	Y      string
}

// DefaultColumns returns the t, hexbug, x, y header the analysis tools read.
func DefaultColumns() Columns {
	return Columns{Time: "t", Object: "hexbug", X: "x", Y: "y"}
}

func (c Columns) names() []string {
	return []string{c.Time, c.Object, c.X, c.Y}
}

// CSVWriter serialises a RecordTable. With IndexColumn set, each row starts
// with its 0-based position under an unnamed header cell, matching the
// layout of the files the downstream tools were built against.
type CSVWriter struct {
	FS          fsutil.FileSystem
	Columns     Columns
	IndexColumn bool
}

// NewCSVWriter returns a writer on the OS filesystem with the default
// columns and the index column enabled.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{
		FS:          fsutil.OSFileSystem{},
		Columns:     DefaultColumns(),
		IndexColumn: true,
	}
}

// WriteCSV writes table to destinationPath with the default layout,
// creating or truncating the file.
func WriteCSV(table RecordTable, destinationPath string) error {
	return NewCSVWriter().WriteFile(table, destinationPath)
}

// Header returns the header row.
func (w *CSVWriter) Header() []string {
	header := w.Columns.names()
	if w.IndexColumn {
		header = append([]string{""}, header...)
	}
	return header
}

// Write writes the header and one row per record to out.
func (w *CSVWriter) Write(out io.Writer, table RecordTable) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(w.Header()); err != nil {
		return err
	}

	xs := formatCoordinates(table, func(r PositionRecord) float64 { return r.X })
	ys := formatCoordinates(table, func(r PositionRecord) float64 { return r.Y })

	row := make([]string, 0, 5)
	for i, r := range table {
		row = row[:0]
		if w.IndexColumn {
			row = append(row, strconv.Itoa(i))
		}
		row = append(row, strconv.Itoa(r.Time), strconv.Itoa(r.ObjectID), xs[i], ys[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates or truncates path and writes table to it. The file is
// closed on every path; a failure part way leaves a truncated file.
func (w *CSVWriter) WriteFile(table RecordTable, path string) (err error) {
	fsys := w.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	f, err := fsys.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := w.Write(f, table); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// formatCoordinates renders one coordinate column. A column holding only
// integral values prints as integers; otherwise every value uses the
// shortest round-trip float form.
func formatCoordinates(table RecordTable, get func(PositionRecord) float64) []string {
	integral := true
	for _, r := range table {
		v := get(r)
		if math.IsInf(v, 0) || v != math.Trunc(v) {
			integral = false
			break
		}
	}

	out := make([]string, len(table))
	for i, r := range table {
		v := get(r)
		if integral {
			if v == 0 {
				v = 0 // drop the sign of -0
			}
			out[i] = strconv.FormatFloat(v, 'f', 0, 64)
		} else {
			out[i] = formatFloat(v)
		}
	}
	return out
}

// formatFloat prints v in shortest round-trip form, always with a decimal
// point or exponent: 2 -> "2.0", 1.5 -> "1.5", 1e-05 -> "1e-05".
// NaN is written as an empty cell.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); v == 0 || (abs >= 1e-4 && abs < 1e16) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(v, 'e', -1, 64)
}

// ReadCSV reads a table written by CSVWriter, with or without the index
// column. Column names are not checked, only their count.
func ReadCSV(fsys fsutil.FileSystem, path string) (RecordTable, error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	table, err := readCSV(f)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		pe.Source = path
		return nil, pe
	}
	return table, nil
}

func readCSV(in io.Reader) (RecordTable, error) {
	r := csv.NewReader(in)
	header, err := r.Read()
	if err == io.EOF {
		return nil, &ParseError{Index: -1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvError(err)
	}

	offset := 0
	switch len(header) {
	case 4:
	case 5:
		offset = 1
	default:
		return nil, &ParseError{Index: -1, Reason: fmt.Sprintf("header has %d columns, need 4 or 5", len(header))}
	}

	table := RecordTable{}
	for i := 0; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, csvError(err)
		}
		rec, err := parseCSVRow(row[offset:])
		if err != nil {
			return nil, &ParseError{Unit: "row", Index: i, Reason: "invalid value", Err: err}
		}
		table = append(table, rec)
	}
}

// csvError keeps structural CSV problems (wrong field counts, bad quoting)
// as parse errors and everything else as I/O.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Unit: "row", Index: pe.Line - 2, Reason: "malformed CSV", Err: err}
	}
	return err
}

func parseCSVRow(cells []string) (PositionRecord, error) {
	t, err := strconv.Atoi(cells[0])
	if err != nil {
		return PositionRecord{}, err
	}
	id, err := strconv.Atoi(cells[1])
	if err != nil {
		return PositionRecord{}, err
	}
	x, err := parseCell(cells[2])
	if err != nil {
		return PositionRecord{}, err
	}
	y, err := parseCell(cells[3])
	if err != nil {
		return PositionRecord{}, err
	}
	return PositionRecord{Time: t, ObjectID: id, X: x, Y: y}, nil
}

func parseCell(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
