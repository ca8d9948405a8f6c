package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/FarzamTP/TRACO-HexBug/internal/version"
)

var (
	tracoPath   = flag.String("traco", "", "TRACO annotation file, or a directory of them with -outdir")
	rowsPath    = flag.String("rows", "", "JSON file holding an array of [t, hexbug, x, y] rows")
	outPath     = flag.String("out", "", "output CSV path (default: <source name>.csv)")
	outDir      = flag.String("outdir", "", "batch mode: convert every *.traco in -traco into this directory")
	configPath  = flag.String("config", "", "path to a JSON export config")
	noIndex     = flag.Bool("no-index", false, "omit the leading index column")
	dbPath      = flag.String("db", "", "archive each converted table in this SQLite file")
	plotPath    = flag.String("plot", "", "write a trajectory image (.png, .svg, .pdf)")
	htmlPath    = flag.String("html", "", "write an interactive trajectory page")
	showSummary = flag.Bool("summary", false, "print per-hexbug statistics")
	watchMode   = flag.Bool("watch", false, "re-run the conversion whenever the source changes")
	logLevel    = flag.String("log-level", "", "log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "", "log format: text or json")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("traco-export"))
		return
	}

	opts := options{
		TracoPath:  *tracoPath,
		RowsPath:   *rowsPath,
		OutPath:    *outPath,
		OutDir:     *outDir,
		ConfigPath: *configPath,
		NoIndex:    *noIndex,
		DBPath:     *dbPath,
		PlotPath:   *plotPath,
		HTMLPath:   *htmlPath,
		Summary:    *showSummary,
		Watch:      *watchMode,
		LogLevel:   *logLevel,
		LogFormat:  *logFormat,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("traco-export: %v", err)
	}
}
