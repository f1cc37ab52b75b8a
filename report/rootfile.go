package report

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"

	"github.com/tonnysoyyo/showerplot/muon"
)

// SaveROOT writes both histograms of h to a new ROOT file at path, under
// muon.EnergyHistName and muon.PositionHistName.
func SaveROOT(path string, h *muon.Histograms) error {
	f, err := groot.Create(path)
	if err != nil {
		return fmt.Errorf("creating ROOT file: %w", err)
	}

	energy := rhist.NewH1DFrom(h.Energy)
	setAxisTitle(energy.XAxis(), muon.EnergyAxisLabel)
	position := rhist.NewH2DFrom(h.Position)
	setAxisTitle(position.XAxis(), muon.XAxisLabel)
	setAxisTitle(position.YAxis(), muon.YAxisLabel)

	if err = f.Put(muon.EnergyHistName, energy); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", muon.EnergyHistName, err)
	}
	if err = f.Put(muon.PositionHistName, position); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", muon.PositionHistName, err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("closing ROOT file: %w", err)
	}
	return nil
}

// setAxisTitle labels ax. The counts axis of a TH1D is not reachable through
// rhist and stays untitled.
func setAxisTitle(ax rhist.Axis, title string) {
	if named, ok := ax.(interface{ SetTitle(string) }); ok {
		named.SetTitle(title)
	}
}

// LoadROOT reads back the histograms written by SaveROOT.
func LoadROOT(path string) (*hbook.H1D, *hbook.H2D, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening ROOT file: %w", err)
	}
	defer f.Close()

	obj, err := f.Get(muon.EnergyHistName)
	if err != nil {
		return nil, nil, err
	}
	h1, ok := obj.(rhist.H1)
	if !ok {
		return nil, nil, fmt.Errorf("report: %s is a %T, not a 1D histogram", muon.EnergyHistName, obj)
	}

	obj, err = f.Get(muon.PositionHistName)
	if err != nil {
		return nil, nil, err
	}
	h2, ok := obj.(rhist.H2)
	if !ok {
		return nil, nil, fmt.Errorf("report: %s is a %T, not a 2D histogram", muon.PositionHistName, obj)
	}

	return rootcnv.H1D(h1), rootcnv.H2D(h2), nil
}
