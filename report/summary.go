package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tonnysoyyo/showerplot/muon"
)

// Summary is the machine-readable record of one run.
type Summary struct {
	Input           string       `yaml:"input"`
	Events          int          `yaml:"events"`
	TotalParticles  int          `yaml:"total_particles"`
	Muons           int          `yaml:"muons"`
	MuonEnergyGeV   float64      `yaml:"muon_energy_gev"`
	EnergyEntries   int64        `yaml:"energy_entries"`
	PositionEntries int64        `yaml:"position_entries"`
	Ranges          SummaryRange `yaml:"ranges"`
	PlotFile        string       `yaml:"plot_file,omitempty"`
	ROOTFile        string       `yaml:"root_file,omitempty"`
}

// SummaryRange holds the observed muon ranges as [min, max], before any
// widening.
type SummaryRange struct {
	Energy []float64 `yaml:"energy_gev,flow"`
	X      []float64 `yaml:"x_cm,flow"`
	Y      []float64 `yaml:"y_cm,flow"`
}

// NewSummary collects the figures of res.
func NewSummary(input string, res *muon.Result) Summary {
	s := res.Summary
	r := res.Ranges
	return Summary{
		Input:           input,
		Events:          s.Events,
		TotalParticles:  s.TotalParticles,
		Muons:           s.MuonCount,
		MuonEnergyGeV:   s.MuonEnergySum,
		EnergyEntries:   s.EnergyEntries,
		PositionEntries: s.PositionEntries,
		Ranges: SummaryRange{
			Energy: []float64{r.Energy.Min, r.Energy.Max},
			X:      []float64{r.X.Min, r.X.Max},
			Y:      []float64{r.Y.Min, r.Y.Max},
		},
	}
}

// WriteSummary writes s as YAML to path.
func WriteSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err = enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err = enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encoding summary: %w", err)
	}
	return f.Close()
}

// ReadSummary parses a file written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err = yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding summary: %w", err)
	}
	return s, nil
}
