// Package render draws hexbug trajectories from a converted table, as a
// static image (gonum/plot) or an interactive HTML page (go-echarts).
package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

// Default image size for WritePlot.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// NewTrajectoryPlot builds a plot with one line per hexbug through its
// positions in frame order. The y axis points down, as in image coordinates.
// Positions with a missing coordinate are skipped.
func NewTrajectoryPlot(table traco.RecordTable, title string) (*plot.Plot, error) {
	if !table.IsSorted() {
		table = traco.ToSortedTable(table)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	for i, tr := range table.Tracks() {
		pts := make(plotter.XYs, 0, len(tr.Records))
		for _, r := range tr.Records {
			if math.IsNaN(r.X) || math.IsNaN(r.Y) {
				continue
			}
			pts = append(pts, plotter.XY{X: r.X, Y: r.Y})
		}
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("hexbug %d: %w", tr.ObjectID, err)
		}
		c := plotutil.Color(i)
		line.Color = c
		line.Width = vg.Points(1)
		points.Color = c
		points.Radius = vg.Points(1.5)

		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("hexbug %d", tr.ObjectID), line, points)
	}
	return p, nil
}

// WritePlot renders the trajectories of table to path. The image format is
// taken from the extension (.png, .svg, .pdf, ...).
func WritePlot(table traco.RecordTable, path string, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	p, err := NewTrajectoryPlot(table, "HexBug trajectories")
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
