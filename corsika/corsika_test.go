package corsika

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonnysoyyo/showerplot/shower"
)

func writeRun(t *testing.T, events ...[]Record) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := NewWriter(&buf, 7)
	for i, particles := range events {
		hdr := EventHeader{EventNumber: i + 1, PrimaryCode: 14, PrimaryEnergy: 1e5}
		require.NoError(t, w.WriteEvent(hdr, particles))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, evt shower.Event) []shower.Particle {
	t.Helper()

	var out []shower.Particle
	s := evt.Particles()
	for s.Next() {
		out = append(out, s.Particle())
	}
	require.NoError(t, s.Err())
	return out
}

func sampleRun(t *testing.T) []byte {
	photons := make([]Record, 45)
	for i := range photons {
		photons[i] = Record{Code: 1, Pz: 0.5, X: float64(i)}
	}

	return writeRun(t,
		[]Record{
			{Code: 5, Pz: 10, X: 100, Y: -50},
			{Code: 3, Pz: 1, X: 1, Y: 2},
			{Code: codeCherenkovBunch, Pz: 1},
			{Code: 6, Px: 3, Py: 4, X: -20.5, Y: 7.25},
		},
		append(photons, Record{Code: 6, Pz: 2, X: 3, Y: 4}),
	)
}

func TestFile_Events(t *testing.T) {
	f, err := NewFile(bytes.NewReader(sampleRun(t)))
	require.NoError(t, err)
	assert.False(t, f.Thinned())
	assert.Equal(t, shower.GeV, f.EnergyPerGeV())

	evt, err := f.FindEvent(1)
	require.NoError(t, err)
	assert.Equal(t, 1, evt.Number())
	assert.Equal(t, 14, evt.(*Event).Header.PrimaryCode)
	assert.Equal(t, 1e5, evt.(*Event).Header.PrimaryEnergy)

	particles := readAll(t, evt)
	require.Len(t, particles, 3)
	assert.Equal(t, -13, particles[0].PDGCode)
	assert.Equal(t, 100.0, particles[0].X)
	assert.Equal(t, -50.0, particles[0].Y)
	assert.Equal(t, 11, particles[1].PDGCode)
	assert.Equal(t, 13, particles[2].PDGCode)
	assert.Equal(t, -20.5, particles[2].X)
	assert.Equal(t, 7.25, particles[2].Y)

	evt, err = f.FindEvent(2)
	require.NoError(t, err)
	particles = readAll(t, evt)
	require.Len(t, particles, 46)
	assert.Equal(t, 22, particles[0].PDGCode)
	assert.Equal(t, 44.0, particles[44].X)
	assert.Equal(t, 13, particles[45].PDGCode)

	_, err = f.FindEvent(3)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)
	_, err = f.FindEvent(0)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)
}

func TestFile_KineticEnergy(t *testing.T) {
	f, err := NewFile(bytes.NewReader(sampleRun(t)))
	require.NoError(t, err)
	evt, err := f.FindEvent(1)
	require.NoError(t, err)
	particles := readAll(t, evt)

	assert.InEpsilon(t, shower.KineticEnergy(100, muonMass)*shower.GeV, particles[0].KineticEnergy, 1e-9)
	assert.InEpsilon(t, shower.KineticEnergy(25, muonMass)*shower.GeV, particles[2].KineticEnergy, 1e-9)
	assert.InEpsilon(t, 10-muonMass, particles[0].KineticEnergy/shower.GeV, 1e-3)
}

func TestFile_RandomAccess(t *testing.T) {
	f, err := NewFile(bytes.NewReader(sampleRun(t)))
	require.NoError(t, err)

	evt, err := f.FindEvent(2)
	require.NoError(t, err)
	assert.Len(t, readAll(t, evt), 46)

	evt, err = f.FindEvent(1)
	require.NoError(t, err)
	assert.Len(t, readAll(t, evt), 3)

	// Re-reading the same event restarts its stream.
	assert.Len(t, readAll(t, evt), 3)
}

func TestFile_RecordBoundaries(t *testing.T) {
	var events [][]Record
	for i := 0; i < 12; i++ {
		particles := make([]Record, 40)
		for j := range particles {
			particles[j] = Record{Code: 6, Pz: float64(i + 1), X: float64(j)}
		}
		events = append(events, particles)
	}
	data := writeRun(t, events...)
	assert.Zero(t, len(data)%(subBlocksPerRecord*wordsStandard*wordSize+8))

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	for n := 1; n <= 12; n++ {
		evt, err := f.FindEvent(n)
		require.NoError(t, err)
		assert.Equal(t, n, evt.(*Event).Header.EventNumber)

		particles := readAll(t, evt)
		require.Len(t, particles, 40)
		assert.Equal(t, 39.0, particles[39].X)
	}
	_, err = f.FindEvent(13)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)
}

func TestFile_Unframed(t *testing.T) {
	framed := sampleRun(t)
	recSize := subBlocksPerRecord * wordsStandard * wordSize
	var data []byte
	for off := 0; off < len(framed); off += recSize + 8 {
		data = append(data, framed[off+4:off+4+recSize]...)
	}

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	evt, err := f.FindEvent(2)
	require.NoError(t, err)
	assert.Len(t, readAll(t, evt), 46)
}

func particleBlock(codes ...int) block {
	b := newBlock("")
	for i, code := range codes {
		base := i * wordsStandard / particlesPerBlock
		b.put(base, float64(code*1000+1))
		b.put(base+3, 1)
	}
	return b
}

func TestFile_SkippedRecords(t *testing.T) {
	evth := func(n int) block {
		b := newBlock(tagEventHeader)
		b.put(1, float64(n))
		return b
	}

	var data []byte
	for _, b := range []block{
		newBlock(tagRunHeader),
		evth(1),
		newBlock(tagLongitudinal),
		particleBlock(6, codeCherenkovBunch, 75, 76, 85, 86, 95, 96, 3),
		newBlock(tagLongitudinal),
		particleBlock(5),
		newBlock(tagEventEnd),
		evth(2),
		particleBlock(95, 1),
		newBlock(tagLongitudinal),
		newBlock(tagEventEnd),
		newBlock(tagRunEnd),
	} {
		data = append(data, b...)
	}

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)

	evt, err := f.FindEvent(1)
	require.NoError(t, err)
	var codes []int
	for _, p := range readAll(t, evt) {
		codes = append(codes, p.PDGCode)
	}
	assert.Equal(t, []int{13, 11, -13}, codes)

	evt, err = f.FindEvent(2)
	require.NoError(t, err)
	particles := readAll(t, evt)
	require.Len(t, particles, 1)
	assert.Equal(t, 22, particles[0].PDGCode)

	_, err = f.FindEvent(3)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)

	total := 0
	events, err := shower.Walk(context.Background(), f, func(shower.Particle) { total++ })
	require.NoError(t, err)
	assert.Equal(t, 2, events)
	assert.Equal(t, 4, total)
}

func TestNewFile_Thinned(t *testing.T) {
	recSize := subBlocksPerRecord * wordsThinned * wordSize
	data := make([]byte, recSize+8)
	binary.LittleEndian.PutUint32(data, uint32(recSize))
	copy(data[4:], tagRunHeader)
	copy(data[4+wordsThinned*wordSize:], tagRunEnd)
	binary.LittleEndian.PutUint32(data[recSize+4:], uint32(recSize))

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, f.Thinned())

	_, err = f.FindEvent(1)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)
}

func TestNewFile_BadFormat(t *testing.T) {
	_, err := NewFile(bytes.NewReader([]byte("definitely not a shower file")))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = NewFile(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestOpen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "DAT000001")
	require.NoError(t, os.WriteFile(name, sampleRun(t), 0o644))

	f, err := Open(name)
	require.NoError(t, err)
	defer f.Close()

	evt, err := f.FindEvent(1)
	require.NoError(t, err)
	assert.Len(t, readAll(t, evt), 3)

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWriter_EmptyRun(t *testing.T) {
	data := writeRun(t)

	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.FindEvent(1)
	assert.ErrorIs(t, err, shower.ErrEventNotFound)
}

func TestPDG(t *testing.T) {
	assert.Equal(t, -13, PDG(5))
	assert.Equal(t, 13, PDG(6))
	assert.Equal(t, 2212, PDG(14))
	assert.Equal(t, 1000260560, PDG(5626))
	assert.Equal(t, 0, PDG(4))

	assert.Equal(t, muonMass, Mass(6))
	assert.InDelta(t, 56*amu, Mass(5626), 1e-12)
	assert.Zero(t, Mass(1))
}
