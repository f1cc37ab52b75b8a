package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tonnysoyyo/showerplot/muon"
)

// PrintOpening announces the input file.
func PrintOpening(w io.Writer, path string) {
	fmt.Fprintf(w, "Opening %s\n", path)
}

// PrintSummary writes the particle and muon counts of s, one per line.
func PrintSummary(w io.Writer, s muon.Summary) {
	fmt.Fprintf(w, "Total Particles: %d\n", s.TotalParticles)
	fmt.Fprintf(w, "Muons: %d\n", s.MuonCount)
	fmt.Fprintf(w, "Total Muon Energy: %s GeV\n", FormatEnergy(s.MuonEnergySum))
	fmt.Fprintf(w, "Muon Energy Histogram Entries: %d\n", s.EnergyEntries)
	fmt.Fprintf(w, "Muon Position Histogram Entries: %d\n", s.PositionEntries)
}

// PrintSaved names the written artifacts.
func PrintSaved(w io.Writer, plotFile, rootFile string) {
	fmt.Fprintf(w, "Plots saved as '%s' and '%s'\n", plotFile, rootFile)
}

// FormatEnergy formats v with six significant digits.
func FormatEnergy(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
