package corsika

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Record is a particle as stored in a particle sub-block.
type Record struct {
	Code       int     // CORSIKA particle code
	Px, Py, Pz float64 // GeV/c
	X, Y       float64 // cm
	T          float64 // ns
}

// Writer writes standard (unthinned) CORSIKA particle files with Fortran
// record framing.
type Writer struct {
	w      io.Writer
	run    int
	events int
	rec    []byte
	blocks int
	err    error
	closed bool
}

// NewWriter returns a Writer writing a single run to w. The run header is
// written with the first event or on Close.
func NewWriter(w io.Writer, run int) *Writer {
	return &Writer{
		w:   w,
		run: run,
		rec: make([]byte, 0, subBlocksPerRecord*wordsStandard*wordSize),
	}
}

// WriteEvent appends an event with the given header and particles.
func (w *Writer) WriteEvent(hdr EventHeader, particles []Record) error {
	if w.closed {
		return errors.New("corsika: write to closed writer")
	}
	w.writeRunHeader()
	w.events++
	if hdr.EventNumber == 0 {
		hdr.EventNumber = w.events
	}

	evth := newBlock(tagEventHeader)
	evth.put(1, float64(hdr.EventNumber))
	evth.put(2, float64(hdr.PrimaryCode))
	evth.put(3, hdr.PrimaryEnergy)
	evth.put(10, hdr.Zenith)
	evth.put(11, hdr.Azimuth)
	w.writeBlock(evth)

	for len(particles) > 0 {
		n := len(particles)
		if n > particlesPerBlock {
			n = particlesPerBlock
		}
		blk := newBlock("")
		for i, p := range particles[:n] {
			base := i * wordsStandard / particlesPerBlock
			blk.put(base, float64(p.Code*1000+1))
			blk.put(base+1, p.Px)
			blk.put(base+2, p.Py)
			blk.put(base+3, p.Pz)
			blk.put(base+4, p.X)
			blk.put(base+5, p.Y)
			blk.put(base+6, p.T)
		}
		w.writeBlock(blk)
		particles = particles[n:]
	}

	evte := newBlock(tagEventEnd)
	evte.put(1, float64(hdr.EventNumber))
	w.writeBlock(evte)
	return w.err
}

// Close writes the run trailer and pads the last record. It does not close
// the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.writeRunHeader()
	trailer := newBlock(tagRunEnd)
	trailer.put(1, float64(w.run))
	trailer.put(2, float64(w.events))
	w.writeBlock(trailer)
	for w.blocks != 0 && w.err == nil {
		w.writeBlock(newBlock(""))
	}
	w.closed = true
	return w.err
}

func (w *Writer) writeRunHeader() {
	if w.events > 0 || w.blocks > 0 || w.closed {
		return
	}
	runh := newBlock(tagRunHeader)
	runh.put(1, float64(w.run))
	w.writeBlock(runh)
}

func (w *Writer) writeBlock(b block) {
	if w.err != nil {
		return
	}
	w.rec = append(w.rec, b...)
	w.blocks++
	if w.blocks < subBlocksPerRecord {
		return
	}

	var marker [wordSize]byte
	binary.LittleEndian.PutUint32(marker[:], uint32(len(w.rec)))
	for _, chunk := range [][]byte{marker[:], w.rec, marker[:]} {
		if _, err := w.w.Write(chunk); err != nil {
			w.err = err
			return
		}
	}
	w.rec = w.rec[:0]
	w.blocks = 0
}

func newBlock(tag string) block {
	b := make(block, wordsStandard*wordSize)
	copy(b, tag)
	return b
}

func (b block) put(i int, v float64) {
	binary.LittleEndian.PutUint32(b[i*wordSize:], math.Float32bits(float32(v)))
}
