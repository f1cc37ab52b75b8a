package muon

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// Histogram names and labels, as stored in output files.
const (
	EnergyHistName    = "hMuonEnergy"
	EnergyHistTitle   = "Muon Kinetic Energy Distribution"
	EnergyAxisLabel   = "Energy (GeV)"
	CountsAxisLabel   = "Counts"
	PositionHistName  = "hMuonPosition"
	PositionHistTitle = "Muon Position Distribution"
	XAxisLabel        = "X (cm)"
	YAxisLabel        = "Y (cm)"
)

// DefaultBins is the number of bins per histogram axis.
const DefaultBins = 100

// widenFraction sets the half width of an axis built from a single value,
// relative to that value (or to 1 for values below 1).
const widenFraction = 0.01

// Axis returns r as a histogram axis. A zero-width range around v becomes
// [v-d, v+d] with d = max(|v|, 1) * 1%.
func (r Range) Axis() Range {
	if r.Max > r.Min {
		return r
	}
	d := math.Max(math.Abs(r.Min), 1) * widenFraction
	return Range{Min: r.Min - d, Max: r.Max + d}
}

// Histograms holds the muon energy and position distributions.
//
// Bins are half-open, [lo, hi), except the last bin of each axis which also
// holds the axis maximum.
type Histograms struct {
	Energy   *hbook.H1D
	Position *hbook.H2D

	energyAxis, xAxis, yAxis Range
	energyBins, positionBins int
}

// NewHistograms returns empty histograms spanning r, with energyBins bins on
// the energy axis and positionBins bins on each position axis.
func NewHistograms(r Ranges, energyBins, positionBins int) *Histograms {
	h := &Histograms{
		energyAxis:   r.Energy.Axis(),
		xAxis:        r.X.Axis(),
		yAxis:        r.Y.Axis(),
		energyBins:   energyBins,
		positionBins: positionBins,
	}

	h.Energy = hbook.NewH1D(energyBins, h.energyAxis.Min, h.energyAxis.Max)
	h.Energy.Annotation()["name"] = EnergyHistName
	h.Energy.Annotation()["title"] = EnergyHistTitle

	h.Position = hbook.NewH2D(
		positionBins, h.xAxis.Min, h.xAxis.Max,
		positionBins, h.yAxis.Min, h.yAxis.Max,
	)
	h.Position.Annotation()["name"] = PositionHistName
	h.Position.Annotation()["title"] = PositionHistTitle
	return h
}

// Fill records one muon in both histograms.
func (h *Histograms) Fill(m Sample) {
	h.Energy.Fill(closeLastBin(h.energyAxis, h.energyBins, m.Energy), 1)
	h.Position.Fill(
		closeLastBin(h.xAxis, h.positionBins, m.X),
		closeLastBin(h.yAxis, h.positionBins, m.Y),
		1,
	)
}

// closeLastBin moves a value sitting exactly on the axis maximum to the
// centre of the last bin.
func closeLastBin(axis Range, bins int, v float64) float64 {
	if v != axis.Max {
		return v
	}
	return axis.Max - 0.5*axis.Width()/float64(bins)
}

// EnergyAxis and PositionAxes return the histogram axes, after widening.
func (h *Histograms) EnergyAxis() Range          { return h.energyAxis }
func (h *Histograms) PositionAxes() (x, y Range) { return h.xAxis, h.yAxis }

// Entries returns the number of fills of the energy and position histograms.
func (h *Histograms) Entries() (energy, position int64) {
	return h.Energy.Entries(), h.Position.Entries()
}

// Binned returns the number of fills that landed inside the histogram axes.
func (h *Histograms) Binned() (energy, position int64) {
	for i := range h.Energy.Binning.Bins {
		energy += h.Energy.Binning.Bins[i].Entries()
	}
	for i := range h.Position.Binning.Bins {
		position += h.Position.Binning.Bins[i].Entries()
	}
	return energy, position
}
