// Package muon selects muons from shower files and summarizes them: it finds
// the extent of their energy and position distributions in a first pass over
// the events, then fills fixed-range histograms in a second pass.
package muon

import (
	"context"
	"math"

	"github.com/tonnysoyyo/showerplot/shower"
)

// PDG codes of the selected species.
const (
	PDGMuon     = 13
	PDGAntimuon = -13
)

// IsMuon reports whether pdg is a muon or an antimuon.
func IsMuon(pdg int) bool { return pdg == PDGMuon || pdg == PDGAntimuon }

// Sample is a selected muon, its kinetic energy converted to GeV.
type Sample struct {
	Energy float64 // GeV
	X, Y   float64 // cm
}

// selectMuon returns the muon sample of p, if p is a muon.
func selectMuon(p shower.Particle, perGeV float64) (Sample, bool) {
	if !IsMuon(p.PDGCode) {
		return Sample{}, false
	}
	return Sample{Energy: p.KineticEnergy / perGeV, X: p.X, Y: p.Y}, true
}

// Range is a closed interval.
type Range struct {
	Min, Max float64
}

func (r Range) Width() float64 { return r.Max - r.Min }

// Ranges used when the source holds no muon at all.
var (
	FallbackEnergyRange   = Range{Min: 0, Max: 1}
	FallbackPositionRange = Range{Min: -1000, Max: 1000}
)

// Ranges bounds the muon energies and positions of a source.
type Ranges struct {
	Energy Range
	X, Y   Range
}

type extrema struct {
	min, max float64
}

func newExtrema() extrema { return extrema{min: math.Inf(1), max: math.Inf(-1)} }

func (e *extrema) add(v float64) {
	if v < e.min {
		e.min = v
	}
	if v > e.max {
		e.max = v
	}
}

func (e extrema) rangeOr(fallback Range) Range {
	if math.IsInf(e.min, 1) {
		return fallback
	}
	return Range{Min: e.min, Max: e.max}
}

// rangeScan accumulates the first pass.
type rangeScan struct {
	energy, x, y extrema
	muons        int
	particles    int
}

func newRangeScan() *rangeScan {
	return &rangeScan{energy: newExtrema(), x: newExtrema(), y: newExtrema()}
}

func (s *rangeScan) add(m Sample) {
	s.energy.add(m.Energy)
	s.x.add(m.X)
	s.y.add(m.Y)
	s.muons++
}

func (s *rangeScan) ranges() Ranges {
	return Ranges{
		Energy: s.energy.rangeOr(FallbackEnergyRange),
		X:      s.x.rangeOr(FallbackPositionRange),
		Y:      s.y.rangeOr(FallbackPositionRange),
	}
}

// ScanRanges reads every event of src once and returns the extent of the
// muon energies (GeV) and positions. Axes without any muon get the fallback
// ranges.
func ScanRanges(ctx context.Context, src shower.Source) (Ranges, error) {
	scan, _, err := scanRanges(ctx, src, nil)
	if err != nil {
		return Ranges{}, err
	}
	return scan.ranges(), nil
}

// scanRanges runs the first pass. keep, if not nil, receives every sample.
func scanRanges(ctx context.Context, src shower.Source, keep func(Sample)) (*rangeScan, int, error) {
	scan := newRangeScan()
	perGeV := src.EnergyPerGeV()
	events, err := shower.Walk(ctx, src, func(p shower.Particle) {
		scan.particles++
		m, ok := selectMuon(p, perGeV)
		if !ok {
			return
		}
		scan.add(m)
		if keep != nil {
			keep(m)
		}
	})
	return scan, events, err
}
