// Command muon_shower summarizes the muons of an air shower simulation file.
// It prints particle and muon counts and saves the muon energy and position
// distributions as a PNG image and a ROOT file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tonnysoyyo/showerplot"
	"github.com/tonnysoyyo/showerplot/config"
	"github.com/tonnysoyyo/showerplot/corsika"
	"github.com/tonnysoyyo/showerplot/metrics"
	"github.com/tonnysoyyo/showerplot/muon"
	"github.com/tonnysoyyo/showerplot/proiofile"
	"github.com/tonnysoyyo/showerplot/report"
	"github.com/tonnysoyyo/showerplot/shower"
)

func printUsage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprint(fs.Output(), `Usage: `+fs.Name()+` [options] <shower file>

Reads a CORSIKA particle file (or a proio file ending in .proio) and writes
the muon energy and position histograms.

options:
`,
		)
		fs.PrintDefaults()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process: it returns the exit code.
func run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = printUsage(fs)

	var configs showerplot.StringArrayFlags
	fs.Var(&configs, "config", "YAML config `file` (repeatable, later files win)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		fmt.Fprintln(stderr, "Invalid arguments")
		return 1
	}

	cfg, err := config.Load(ctx, configs.Array...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.ProfileDir != "" {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(cfg.ProfileDir),
			profile.NoShutdownHook,
			profile.Quiet,
		).Stop()
	}

	path := fs.Arg(0)
	src, err := openSource(cfg, path)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open file: %s\n", path)
		logger.Debug("open failed", zap.String("path", path), zap.Error(err))
		return 1
	}
	defer src.Close()
	report.PrintOpening(stdout, path)

	if err := summarize(ctx, cfg, logger, path, src, stdout); err != nil {
		logger.Error("muon summary failed", zap.String("path", path), zap.Error(err))
		return 1
	}
	return 0
}

func summarize(ctx context.Context, cfg *config.Config, logger *zap.Logger, path string, src shower.Source, stdout io.Writer) error {
	recorder := metrics.NewRecorder()
	analyzer := muon.New(
		muon.WithBins(cfg.EnergyBins, cfg.PositionBins),
		muon.WithBuffering(cfg.BufferMuons),
		muon.WithLogger(logger),
		muon.WithObserver(recorder),
	)

	res, err := analyzer.Run(ctx, src)
	if err != nil {
		return err
	}
	report.PrintSummary(stdout, res.Summary)
	recorder.RecordSummary(res.Summary)

	opts := report.PlotOptions{Width: cfg.PlotWidth, Height: cfg.PlotHeight, DPI: cfg.PlotDPI}
	if err := report.SavePlot(cfg.PlotFile, res.Histograms, opts); err != nil {
		return err
	}
	if err := report.SaveROOT(cfg.ROOTFile, res.Histograms); err != nil {
		return err
	}
	report.PrintSaved(stdout, cfg.PlotFile, cfg.ROOTFile)

	if cfg.SummaryFile != "" {
		s := report.NewSummary(path, res)
		s.PlotFile = cfg.PlotFile
		s.ROOTFile = cfg.ROOTFile
		if err := report.WriteSummary(cfg.SummaryFile, s); err != nil {
			return err
		}
		logger.Debug("summary written", zap.String("file", cfg.SummaryFile))
	}
	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Debug("metrics written", zap.String("file", cfg.MetricsFile))
	}
	return nil
}

// openSource picks the reader from cfg.Format, or from the file extension
// when the format is "auto".
func openSource(cfg *config.Config, path string) (shower.Source, error) {
	format := cfg.Format
	if format == config.FormatAuto {
		format = config.FormatCORSIKA
		if strings.EqualFold(filepath.Ext(path), ".proio") {
			format = config.FormatProio
		}
	}

	if format == config.FormatProio {
		src, err := proiofile.Open(path, cfg.ProioTag)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	src, err := corsika.Open(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// newLogger logs to w at the configured level, with the development encoder
// when debugging.
func newLogger(cfg *config.Config, w io.Writer) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if level == zapcore.DebugLevel {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core), nil
}
