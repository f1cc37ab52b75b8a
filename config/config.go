// Package config defines the settings of a showerplot run and how they are
// loaded.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Input formats.
const (
	FormatAuto    = "auto"
	FormatCORSIKA = "corsika"
	FormatProio   = "proio"
)

// Config contains the settings of a run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Format selects the input reader. "auto" picks proio for files ending
	// in .proio and CORSIKA otherwise.
	Format string `koanf:"format"`

	// ProioTag is the entry tag holding particles in proio files.
	ProioTag string `koanf:"proio_tag"`

	EnergyBins   int `koanf:"energy_bins"`
	PositionBins int `koanf:"position_bins"`

	// BufferMuons keeps the muons of the range scan in memory so that the
	// input is read only once.
	BufferMuons bool `koanf:"buffer_muons"`

	PlotFile   string `koanf:"plot_file"`
	ROOTFile   string `koanf:"root_file"`
	PlotWidth  int    `koanf:"plot_width"`
	PlotHeight int    `koanf:"plot_height"`
	PlotDPI    int    `koanf:"plot_dpi"`

	// Optional outputs, skipped when empty.
	SummaryFile string `koanf:"summary_file"`
	MetricsFile string `koanf:"metrics_file"`
	ProfileDir  string `koanf:"profile_dir"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Format:       FormatAuto,
		ProioTag:     "Particle",
		EnergyBins:   100,
		PositionBins: 100,
		PlotFile:     "shower_plot_GeV.png",
		ROOTFile:     "shower_data_GeV.root",
		PlotWidth:    1200,
		PlotHeight:   600,
		PlotDPI:      96,
	}
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	switch c.Format {
	case FormatAuto, FormatCORSIKA, FormatProio:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	for _, v := range []struct {
		key   string
		value int
	}{
		{"energy_bins", c.EnergyBins},
		{"position_bins", c.PositionBins},
		{"plot_width", c.PlotWidth},
		{"plot_height", c.PlotHeight},
		{"plot_dpi", c.PlotDPI},
	} {
		if v.value < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, v.key, v.value)
		}
	}

	if c.PlotFile == "" || c.ROOTFile == "" {
		return fmt.Errorf("%w: plot_file and root_file must not be empty", ErrInvalidConfig)
	}
	return nil
}
