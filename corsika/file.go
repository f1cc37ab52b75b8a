// Package corsika reads and writes CORSIKA particle output (DAT) files.
//
// A DAT file is a sequence of 273-word sub-blocks (312 words for thinned
// runs) of little-endian float32 values, grouped by 21 into Fortran
// records framed with 4-byte length markers. Sub-blocks are either headers
// tagged RUNH, EVTH, LONG, EVTE and RUNE, or particle data holding 39
// particle records each.
package corsika

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tonnysoyyo/showerplot/shower"
)

// ErrFormat is returned when a file is not a CORSIKA particle file.
var ErrFormat = errors.New("corsika: unrecognized file format")

const (
	wordSize           = 4
	subBlocksPerRecord = 21
	particlesPerBlock  = 39

	wordsStandard = 273
	wordsThinned  = 312
)

const (
	tagRunHeader    = "RUNH"
	tagRunEnd       = "RUNE"
	tagEventHeader  = "EVTH"
	tagEventEnd     = "EVTE"
	tagLongitudinal = "LONG"
)

type layout struct {
	words  int  // words per sub-block
	framed bool // Fortran record markers around every 21 sub-blocks
}

func (l layout) blockSize() int64 { return int64(l.words) * wordSize }

func (l layout) particleWords() int { return l.words / particlesPerBlock }

func (l layout) offset(block int64) int64 {
	if !l.framed {
		return block * l.blockSize()
	}
	rec, i := block/subBlocksPerRecord, block%subBlocksPerRecord
	return rec*(subBlocksPerRecord*l.blockSize()+2*wordSize) + wordSize + i*l.blockSize()
}

// File is an open CORSIKA particle file. It implements shower.Source.
type File struct {
	r      io.ReaderAt
	closer io.Closer
	layout layout

	events []int64 // EVTH sub-block of every event found so far
	next   int64   // first sub-block not yet scanned for headers
	done   bool    // end of run reached while scanning
}

// Open opens the named file for reading.
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	file, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	file.closer = f
	return file, nil
}

// NewFile reads a CORSIKA file from r, detecting its record layout.
func NewFile(r io.ReaderAt) (*File, error) {
	l, err := detectLayout(r)
	if err != nil {
		return nil, err
	}

	f := &File{r: r, layout: l}
	blk, err := f.readBlock(0)
	if err != nil || blk.tag() != tagRunHeader {
		return nil, ErrFormat
	}
	f.next = 1
	return f, nil
}

func detectLayout(r io.ReaderAt) (layout, error) {
	var head [wordSize]byte
	if _, err := r.ReadAt(head[:], 0); err != nil {
		return layout{}, ErrFormat
	}

	switch binary.LittleEndian.Uint32(head[:]) {
	case subBlocksPerRecord * wordsStandard * wordSize:
		return layout{words: wordsStandard, framed: true}, nil
	case subBlocksPerRecord * wordsThinned * wordSize:
		return layout{words: wordsThinned, framed: true}, nil
	}

	if string(head[:]) != tagRunHeader {
		return layout{}, ErrFormat
	}
	// Unframed: the first event header follows the run header directly.
	for _, words := range []int{wordsStandard, wordsThinned} {
		if _, err := r.ReadAt(head[:], int64(words)*wordSize); err == nil && string(head[:]) == tagEventHeader {
			return layout{words: words}, nil
		}
	}
	return layout{words: wordsStandard}, nil
}

// Thinned reports whether the file holds thinned (weighted) particles.
func (f *File) Thinned() bool { return f.layout.words == wordsThinned }

// EnergyPerGeV reports the energy unit of the particles: electronvolts.
func (f *File) EnergyPerGeV() float64 { return shower.GeV }

func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// FindEvent returns the n-th event of the file. Events already located are
// found without rescanning.
func (f *File) FindEvent(n int) (shower.Event, error) {
	if n < 1 {
		return nil, shower.ErrEventNotFound
	}
	for len(f.events) < n && !f.done {
		if err := f.scan(); err != nil {
			return nil, err
		}
	}
	if n > len(f.events) {
		return nil, shower.ErrEventNotFound
	}

	start := f.events[n-1]
	blk, err := f.readBlock(start)
	if err != nil {
		return nil, fmt.Errorf("corsika: reading event header: %w", err)
	}
	return &Event{file: f, number: n, start: start, Header: blk.eventHeader()}, nil
}

// scan reads the next unscanned sub-block and records event headers.
func (f *File) scan() error {
	blk, err := f.readBlock(f.next)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		f.done = true
		return nil
	}
	if err != nil {
		return err
	}

	switch blk.tag() {
	case tagEventHeader:
		f.events = append(f.events, f.next)
	case tagRunEnd:
		f.done = true
	}
	f.next++
	return nil
}

// skipTo marks the sub-blocks before block as scanned.
func (f *File) skipTo(block int64) {
	if block > f.next {
		f.next = block
	}
}

func (f *File) readBlock(i int64) (block, error) {
	b := make(block, f.layout.blockSize())
	if _, err := f.r.ReadAt(b, f.layout.offset(i)); err != nil {
		return nil, err
	}
	return b, nil
}

type block []byte

func (b block) tag() string { return string(b[:wordSize]) }

func (b block) word(i int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*wordSize:])))
}

// EventHeader holds the leading fields of an EVTH sub-block.
type EventHeader struct {
	EventNumber   int
	PrimaryCode   int     // CORSIKA code of the primary
	PrimaryEnergy float64 // GeV
	Zenith        float64 // rad
	Azimuth       float64 // rad
}

func (b block) eventHeader() EventHeader {
	return EventHeader{
		EventNumber:   int(b.word(1)),
		PrimaryCode:   int(b.word(2)),
		PrimaryEnergy: b.word(3),
		Zenith:        b.word(10),
		Azimuth:       b.word(11),
	}
}

// Event is one shower of a CORSIKA file.
type Event struct {
	Header EventHeader

	file   *File
	number int
	start  int64
}

func (e *Event) Number() int { return e.number }

func (e *Event) Particles() shower.ParticleStream {
	return &particleStream{file: e.file, block: e.start + 1}
}

type particleStream struct {
	file  *File
	block int64 // next sub-block to load
	buf   block
	slot  int
	cur   shower.Particle
	err   error
	done  bool
}

func (s *particleStream) Next() bool {
	for !s.done {
		if s.buf == nil && !s.load() {
			return false
		}
		for s.slot < particlesPerBlock {
			p, ok := s.decode(s.slot)
			s.slot++
			if ok {
				s.cur = p
				return true
			}
		}
		s.buf = nil
	}
	return false
}

// load reads the next particle sub-block, skipping longitudinal tables.
func (s *particleStream) load() bool {
	for {
		blk, err := s.file.readBlock(s.block)
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			s.done = true
			return false
		case err != nil:
			s.err = fmt.Errorf("corsika: reading sub-block %d: %w", s.block, err)
			s.done = true
			return false
		}

		switch blk.tag() {
		case tagEventEnd:
			s.file.skipTo(s.block + 1)
			s.done = true
			return false
		case tagEventHeader, tagRunEnd, tagRunHeader:
			s.file.skipTo(s.block)
			s.done = true
			return false
		case tagLongitudinal:
			s.block++
			continue
		}

		s.buf = blk
		s.slot = 0
		s.block++
		return true
	}
}

func (s *particleStream) decode(slot int) (shower.Particle, bool) {
	base := slot * s.file.layout.particleWords()
	code := int(s.buf.word(base)) / 1000
	if skipped(code) {
		return shower.Particle{}, false
	}

	px, py, pz := s.buf.word(base+1), s.buf.word(base+2), s.buf.word(base+3)
	return shower.Particle{
		PDGCode:       PDG(code),
		KineticEnergy: shower.KineticEnergy(px*px+py*py+pz*pz, Mass(code)) * shower.GeV,
		X:             s.buf.word(base+4) * shower.Centimeter,
		Y:             s.buf.word(base+5) * shower.Centimeter,
	}, true
}

func (s *particleStream) Particle() shower.Particle { return s.cur }

func (s *particleStream) Err() error { return s.err }
