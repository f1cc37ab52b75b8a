package muon

import (
	"context"

	"github.com/tonnysoyyo/showerplot/shower"
)

// Summary holds the scalar results of a run.
type Summary struct {
	Events          int
	TotalParticles  int
	MuonCount       int
	MuonEnergySum   float64 // GeV
	EnergyEntries   int64
	PositionEntries int64
}

type accumulator struct {
	hists   *Histograms
	summary Summary
}

func (a *accumulator) particle(p shower.Particle, perGeV float64) {
	a.summary.TotalParticles++
	if m, ok := selectMuon(p, perGeV); ok {
		a.muon(m)
	}
}

func (a *accumulator) muon(m Sample) {
	a.hists.Fill(m)
	a.summary.MuonEnergySum += m.Energy
	a.summary.MuonCount++
}

func (a *accumulator) finish() Summary {
	a.summary.EnergyEntries, a.summary.PositionEntries = a.hists.Entries()
	return a.summary
}

// Accumulate reads every event of src and fills h with its muons. All
// particles are counted, muons or not.
func Accumulate(ctx context.Context, src shower.Source, h *Histograms) (Summary, error) {
	acc := &accumulator{hists: h}
	perGeV := src.EnergyPerGeV()
	events, err := shower.Walk(ctx, src, func(p shower.Particle) {
		acc.particle(p, perGeV)
	})
	if err != nil {
		return Summary{}, err
	}
	acc.summary.Events = events
	return acc.finish(), nil
}
