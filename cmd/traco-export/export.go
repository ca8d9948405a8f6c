package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/FarzamTP/TRACO-HexBug/internal/config"
	"github.com/FarzamTP/TRACO-HexBug/internal/monitoring"
	"github.com/FarzamTP/TRACO-HexBug/internal/render"
	"github.com/FarzamTP/TRACO-HexBug/internal/security"
	"github.com/FarzamTP/TRACO-HexBug/internal/traco"
	"github.com/FarzamTP/TRACO-HexBug/internal/trackdb"
	"github.com/FarzamTP/TRACO-HexBug/internal/watch"
)

type options struct {
	TracoPath  string
	RowsPath   string
	OutPath    string
	OutDir     string
	ConfigPath string
	NoIndex    bool
	DBPath     string
	PlotPath   string
	HTMLPath   string
	Summary    bool
	Watch      bool
	LogLevel   string
	LogFormat  string
}

func (o options) validate() error {
	if (o.TracoPath == "") == (o.RowsPath == "") {
		return errors.New("exactly one of -traco or -rows is required")
	}
	if o.OutDir != "" {
		if o.TracoPath == "" {
			return errors.New("-outdir needs -traco")
		}
		if o.OutPath != "" || o.PlotPath != "" || o.HTMLPath != "" || o.Watch {
			return errors.New("-out, -plot, -html and -watch take a single source, not -outdir")
		}
	}
	return nil
}

// loadConfig layers the config file, the environment and the flags, in
// increasing precedence.
func loadConfig(o options) (*config.ExportConfig, error) {
	cfg := config.EmptyExportConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadExportConfig(o.ConfigPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if o.NoIndex {
		noIndex := false
		cfg.IndexColumn = &noIndex
	}
	if o.LogLevel != "" {
		cfg.LogLevel = &o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = &o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// exporter runs conversions and the optional outputs that follow them.
type exporter struct {
	opts   options
	conv   *traco.Converter
	db     *trackdb.DB
	stdout io.Writer
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	if err := o.validate(); err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if err := monitoring.Configure(cfg.GetLogLevel(), cfg.GetLogFormat()); err != nil {
		return err
	}

	e := &exporter{opts: o, conv: cfg.NewConverter(nil), stdout: stdout}
	if o.DBPath != "" {
		if e.db, err = trackdb.Open(o.DBPath); err != nil {
			return err
		}
		defer e.db.Close()
	}

	if o.OutDir != "" {
		return e.batch()
	}

	src, kind := o.TracoPath, trackdb.KindRoi
	if o.RowsPath != "" {
		src, kind = o.RowsPath, trackdb.KindFlat
	}
	dst := o.OutPath
	if dst == "" {
		dst = security.OutputFilename(src, ".csv")
	}

	if err := e.convert(src, dst, kind); err != nil {
		if !o.Watch {
			return err
		}
		monitoring.Logf("Conversion failed: %v", err)
	}
	if !o.Watch {
		return nil
	}
	return watch.New().Run(ctx, src, func(context.Context) error {
		return e.convert(src, dst, kind)
	})
}

// batch converts every *.traco file directly inside -traco into -outdir.
func (e *exporter) batch() error {
	sources, err := filepath.Glob(filepath.Join(e.opts.TracoPath, "*.traco"))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .traco files in %s", e.opts.TracoPath)
	}
	sort.Strings(sources)

	if err := os.MkdirAll(e.opts.OutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var failed int
	for _, src := range sources {
		dst := filepath.Join(e.opts.OutDir, security.OutputFilename(src, ".csv"))
		if err := security.ValidatePathWithinDirectory(dst, e.opts.OutDir); err != nil {
			return err
		}
		if err := e.convert(src, dst, trackdb.KindRoi); err != nil {
			monitoring.Logf("Skipping %s: %v", src, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to convert", failed, len(sources))
	}
	return nil
}

func (e *exporter) convert(src, dst, kind string) error {
	var res *traco.Result
	var err error
	switch kind {
	case trackdb.KindFlat:
		res, err = e.conv.ConvertFlatFile(src, dst)
	default:
		res, err = e.conv.ConvertRoiFile(src, dst)
	}
	if err != nil {
		return err
	}
	return e.after(kind, res)
}

func (e *exporter) after(kind string, res *traco.Result) error {
	if e.db != nil {
		run := trackdb.NewRun(kind, res)
		if err := e.db.SaveRun(run, res.Table); err != nil {
			return err
		}
		monitoring.Logf("Archived run %s", run.RunID)
	}
	if e.opts.PlotPath != "" {
		if err := render.WritePlot(res.Table, e.opts.PlotPath, 0, 0); err != nil {
			return err
		}
	}
	if e.opts.HTMLPath != "" {
		if err := writeHTML(e.opts.HTMLPath, res); err != nil {
			return err
		}
	}
	if e.opts.Summary {
		return printSummary(e.stdout, res)
	}
	return nil
}

func writeHTML(path string, res *traco.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	title := "HexBug trajectories"
	if res.Source != "" {
		title += " - " + filepath.Base(res.Source)
	}
	return render.WriteHTML(f, res.Table, title)
}

func printSummary(out io.Writer, res *traco.Result) error {
	fmt.Fprintf(out, "%s: %d records, %d hexbugs\n", res.Destination, res.Records, res.Tracks)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "hexbug\tframes\tfirst\tlast\tmean x\tmean y\tstd x\tstd y\tpath")
	for _, s := range traco.Summarize(res.Table) {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			s.ObjectID, s.Frames, s.FirstTime, s.LastTime,
			s.MeanX, s.MeanY, s.StdX, s.StdY, s.PathLength)
	}
	return tw.Flush()
}
