package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
)

// WriteHTML writes a standalone HTML page with an interactive scatter of
// table, one series per hexbug. Each point carries its frame index.
func WriteHTML(w io.Writer, table traco.RecordTable, title string) error {
	return NewTrajectoryChart(table, title).Render(w)
}

// NewTrajectoryChart builds the scatter chart rendered by WriteHTML.
func NewTrajectoryChart(table traco.RecordTable, title string) *charts.Scatter {
	if !table.IsSorted() {
		table = traco.ToSortedTable(table)
	}
	tracks := table.Tracks()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("hexbugs=%d positions=%d", len(tracks), len(table))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (px)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (px)", NameLocation: "middle", NameGap: 30}),
	)

	for _, tr := range tracks {
		data := make([]opts.ScatterData, 0, len(tr.Records))
		for _, r := range tr.Records {
			if math.IsNaN(r.X) || math.IsNaN(r.Y) {
				continue
			}
			data = append(data, opts.ScatterData{Value: []interface{}{r.X, r.Y, r.Time}})
		}
		scatter.AddSeries(fmt.Sprintf("hexbug %d", tr.ObjectID), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}
	return scatter
}
