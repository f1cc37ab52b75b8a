package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnysoyyo/showerplot/corsika"
	"github.com/tonnysoyyo/showerplot/report"
)

func writeCORSIKA(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "DAT000001")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := corsika.NewWriter(f, 1)
	require.NoError(t, w.WriteEvent(corsika.EventHeader{EventNumber: 1, PrimaryCode: 14, PrimaryEnergy: 1e5}, []corsika.Record{
		{Code: 6, Pz: 5, X: 10, Y: 20},
		{Code: 5, Pz: 3, X: -5, Y: 0},
		{Code: 3, Pz: 100},
	}))
	require.NoError(t, w.WriteEvent(corsika.EventHeader{EventNumber: 2, PrimaryCode: 14, PrimaryEnergy: 1e5}, []corsika.Record{
		{Code: 1, Pz: 1},
	}))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()

	content := "plot_file: " + filepath.Join(dir, "plot.png") + "\n" +
		"root_file: " + filepath.Join(dir, "data.root") + "\n" + extra
	path := filepath.Join(dir, "showerplot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeCORSIKA(t, dir)
	cfg := writeConfig(t, dir,
		"summary_file: "+filepath.Join(dir, "summary.yaml")+"\n"+
			"metrics_file: "+filepath.Join(dir, "showerplot.prom")+"\n",
	)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "muon_shower", []string{"-config", cfg, input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Opening "+input, lines[0])
	assert.Equal(t, "Total Particles: 4", lines[1])
	assert.Equal(t, "Muons: 2", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Total Muon Energy: "))
	assert.True(t, strings.HasSuffix(lines[3], " GeV"))
	assert.Equal(t, "Muon Energy Histogram Entries: 2", lines[4])
	assert.Equal(t, "Muon Position Histogram Entries: 2", lines[5])
	assert.Equal(t, "Plots saved as '"+filepath.Join(dir, "plot.png")+"' and '"+filepath.Join(dir, "data.root")+"'", lines[6])

	energy, position, err := report.LoadROOT(filepath.Join(dir, "data.root"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), energy.Entries())
	assert.Equal(t, int64(2), position.Entries())

	info, err := os.Stat(filepath.Join(dir, "plot.png"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	s, err := report.ReadSummary(filepath.Join(dir, "summary.yaml"))
	require.NoError(t, err)
	assert.Equal(t, input, s.Input)
	assert.Equal(t, 2, s.Events)
	assert.Equal(t, 2, s.Muons)

	prom, err := os.ReadFile(filepath.Join(dir, "showerplot.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `showerplot_events_read_total{pass="fill"} 2`)
}

func TestRun_Buffered(t *testing.T) {
	dir := t.TempDir()
	input := writeCORSIKA(t, dir)
	cfg := writeConfig(t, dir, "buffer_muons: true\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "muon_shower", []string{"-config", cfg, input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Muons: 2\n")
}

func TestRun_Proio(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "showers.proio")

	writer, err := proio.Create(input)
	require.NoError(t, err)
	f32 := func(v float32) *float32 { return &v }
	f64 := func(v float64) *float64 { return &v }
	pdg := int32(13)
	event := proio.NewEvent()
	event.AddEntry("Particle", &eic.Particle{
		Pdg:    &pdg,
		P:      &eic.XYZF{X: f32(0), Y: f32(0), Z: f32(2)},
		Mass:   f32(0),
		Vertex: &eic.XYZTD{X: f64(1), Y: f64(2), Z: f64(0), T: f64(0)},
	})
	require.NoError(t, writer.Push(event))
	require.NoError(t, writer.Close())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "muon_shower", []string{"-config", writeConfig(t, dir, ""), input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Total Muon Energy: 2 GeV\n")
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"a", "b"}} {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), "muon_shower", args, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Usage: muon_shower [options] <shower file>")
		assert.Empty(t, stdout.String())
	}
}

func TestRun_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "muon_shower", []string{"-config", writeConfig(t, dir, ""), input}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Failed to open file: "+input)
	assert.Empty(t, stdout.String())

	_, err := os.Stat(filepath.Join(dir, "plot.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeCORSIKA(t, dir)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), "muon_shower", []string{"-config", writeConfig(t, dir, "energy_bins: 0\n"), input}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "energy_bins must be positive")
}
