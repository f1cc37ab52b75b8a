package muon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tonnysoyyo/showerplot/shower"
)

// Pass names reported to a PassObserver.
const (
	PassRanges = "ranges"
	PassFill   = "fill"
)

// PassObserver is told about every completed pass over a source.
type PassObserver interface {
	ObservePass(pass string, events, particles int, elapsed time.Duration)
}

// Analyzer runs the two-pass muon analysis.
type Analyzer struct {
	energyBins   int
	positionBins int
	buffered     bool
	logger       *zap.Logger
	observer     PassObserver
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBins sets the number of energy bins and of bins per position axis.
func WithBins(energy, position int) Option {
	return func(a *Analyzer) {
		a.energyBins = energy
		a.positionBins = position
	}
}

// WithBuffering keeps the muons of the first pass in memory and fills the
// histograms from them instead of reading the source a second time.
func WithBuffering(enabled bool) Option {
	return func(a *Analyzer) { a.buffered = enabled }
}

// WithLogger sets the logger for pass progress. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithObserver reports every completed pass to o.
func WithObserver(o PassObserver) Option {
	return func(a *Analyzer) { a.observer = o }
}

// New returns an Analyzer with DefaultBins on every axis.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		energyBins:   DefaultBins,
		positionBins: DefaultBins,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of Analyzer.Run.
type Result struct {
	Ranges     Ranges
	Histograms *Histograms
	Summary    Summary
}

// Run analyzes src. Events are read from the first one until the source
// reports ErrEventNotFound, once to find the ranges and once more to fill the
// histograms.
func (a *Analyzer) Run(ctx context.Context, src shower.Source) (*Result, error) {
	if a.energyBins < 1 || a.positionBins < 1 {
		return nil, fmt.Errorf("muon: invalid bin counts %d, %d", a.energyBins, a.positionBins)
	}

	var samples []Sample
	var keep func(Sample)
	if a.buffered {
		keep = func(m Sample) { samples = append(samples, m) }
	}

	start := time.Now()
	scan, events, err := scanRanges(ctx, src, keep)
	if err != nil {
		return nil, fmt.Errorf("scanning ranges: %w", err)
	}
	a.observe(PassRanges, events, scan.particles, time.Since(start))

	ranges := scan.ranges()
	if scan.muons == 0 {
		a.logger.Info("no muons found, using fallback ranges",
			zap.Int("events", events),
			zap.Int("particles", scan.particles),
		)
	}
	a.logger.Debug("muon ranges",
		zap.Float64("energy_min", ranges.Energy.Min),
		zap.Float64("energy_max", ranges.Energy.Max),
		zap.Float64("x_min", ranges.X.Min),
		zap.Float64("x_max", ranges.X.Max),
		zap.Float64("y_min", ranges.Y.Min),
		zap.Float64("y_max", ranges.Y.Max),
	)

	hists := NewHistograms(ranges, a.energyBins, a.positionBins)

	var summary Summary
	start = time.Now()
	if a.buffered {
		acc := &accumulator{hists: hists}
		for _, m := range samples {
			acc.muon(m)
		}
		acc.summary.Events = events
		acc.summary.TotalParticles = scan.particles
		summary = acc.finish()
	} else {
		summary, err = Accumulate(ctx, src, hists)
		if err != nil {
			return nil, fmt.Errorf("filling histograms: %w", err)
		}
		a.observe(PassFill, summary.Events, summary.TotalParticles, time.Since(start))
	}

	return &Result{Ranges: ranges, Histograms: hists, Summary: summary}, nil
}

func (a *Analyzer) observe(pass string, events, particles int, elapsed time.Duration) {
	a.logger.Debug("pass complete",
		zap.String("pass", pass),
		zap.Int("events", events),
		zap.Int("particles", particles),
		zap.Duration("elapsed", elapsed),
	)
	if a.observer != nil {
		a.observer.ObservePass(pass, events, particles, elapsed)
	}
}
