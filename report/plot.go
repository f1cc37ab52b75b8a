// Package report renders muon histograms to images and ROOT files and
// prints run summaries.
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tonnysoyyo/showerplot"
	"github.com/tonnysoyyo/showerplot/muon"
)

// PlotOptions sets the size of the rendered image.
type PlotOptions struct {
	Width, Height int // pixels
	DPI           int
}

// DefaultPlotOptions renders 1200x600 pixels.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 1200, Height: 600, DPI: 96}
}

const (
	colorBarRoom  = 70 * vg.Length(1)
	colorBarWidth = 50 * vg.Length(1)
	paletteSize   = 1000
)

// SavePlot writes h as a PNG image to path: the energy distribution on a
// logarithmic count axis on the left, the position heat map on the right.
func SavePlot(path string, h *muon.Histograms, opts PlotOptions) error {
	img, err := Render(h, opts)
	if err != nil {
		return err
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("writing plot file: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("closing plot file: %w", err)
	}
	return nil
}

// Render draws both panels of h on a new canvas.
func Render(h *muon.Histograms, opts PlotOptions) (*vgimg.Canvas, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.DPI <= 0 {
		return nil, fmt.Errorf("report: invalid plot size %dx%d at %d dpi", opts.Width, opts.Height, opts.DPI)
	}

	width := vg.Length(opts.Width) / vg.Length(opts.DPI) * vg.Inch
	height := vg.Length(opts.Height) / vg.Length(opts.DPI) * vg.Inch
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(img)

	energyPlot(h.Energy).Draw(draw.Crop(dc, 0, -width/2, 0, 0))

	heatMap, colorBar := positionPlots(h.Position)
	heatMap.Draw(draw.Crop(dc, width/2, -colorBarRoom, 0, 0))
	colorBar.Draw(draw.Crop(dc, width-colorBarWidth, 0, 0, 0))
	return img, nil
}

func energyPlot(hist *hbook.H1D) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = muon.EnergyHistTitle
	p.X.Label.Text = muon.EnergyAxisLabel
	p.Y.Label.Text = muon.CountsAxisLabel
	p.X.Tick.Marker = showerplot.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = showerplot.LogTicks{}
	p.Y.Scale = showerplot.LogScale{}

	h := hplot.NewH1D(hist)
	h.FillColor = nil
	h.LineStyle.Color = color.RGBA{B: 255, A: 255}
	h.Infos.Style = hplot.HInfoSummary
	p.Add(h)

	// Empty bins sit at the floor of the log axis.
	p.Y.Min = showerplot.DefaultLogFloor
	p.Y.Max = math.Max(2*maxBin1D(hist), 1)
	return p
}

func positionPlots(hist *hbook.H2D) (heatMapPlot, colorBarPlot *hplot.Plot) {
	maxCount := math.Max(maxBin2D(hist), 1)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(showerplot.DefaultLogFloor)
	colorMap.SetMax(maxCount)
	pal := colorMap.Palette(paletteSize)

	heatMap := plotter.NewHeatMap(hist.GridXYZ(), pal)
	heatMap.Min = showerplot.DefaultLogFloor
	heatMap.Max = maxCount
	heatMap.Underflow = color.White

	heatMapPlot = hplot.New()
	heatMapPlot.Title.Text = muon.PositionHistTitle
	heatMapPlot.X.Label.Text = muon.XAxisLabel
	heatMapPlot.Y.Label.Text = muon.YAxisLabel
	heatMapPlot.X.Tick.Marker = showerplot.PreciseTicks{NSuggestedTicks: 5}
	heatMapPlot.Y.Tick.Marker = showerplot.PreciseTicks{NSuggestedTicks: 5}
	heatMapPlot.Add(heatMap)

	colorBarPlot = hplot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	colorBarPlot.Add(colorBar)
	colorBarPlot.HideX()
	colorBarPlot.Y.Padding = 0
	return heatMapPlot, colorBarPlot
}

func maxBin1D(h *hbook.H1D) float64 {
	max := 0.0
	for i := range h.Binning.Bins {
		max = math.Max(max, h.Binning.Bins[i].SumW())
	}
	return max
}

func maxBin2D(h *hbook.H2D) float64 {
	max := 0.0
	for i := range h.Binning.Bins {
		max = math.Max(max, h.Binning.Bins[i].SumW())
	}
	return max
}
