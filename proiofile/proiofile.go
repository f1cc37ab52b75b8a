// Package proiofile exposes the eic.Particle entries of proio event files as
// a shower.Source.
package proiofile

import (
	"errors"
	"io"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"

	"github.com/tonnysoyyo/showerplot/shower"
)

// DefaultTag is the entry tag holding the particles of an event.
const DefaultTag = "Particle"

// Source reads particles tagged with Tag from a proio file. Momenta and
// masses are in GeV, vertex positions in cm.
type Source struct {
	Tag string

	reader *proio.Reader
	read   int // events consumed from reader
}

// Open opens a proio file for reading.
func Open(filename, tag string) (*Source, error) {
	reader, err := proio.Open(filename)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		tag = DefaultTag
	}
	return &Source{Tag: tag, reader: reader}, nil
}

func (s *Source) EnergyPerGeV() float64 { return 1 }

// FindEvent returns the n-th event. Looking up an event at or before the
// last one read rewinds the file.
func (s *Source) FindEvent(n int) (shower.Event, error) {
	if n < 1 {
		return nil, shower.ErrEventNotFound
	}
	if n <= s.read {
		if err := s.reader.SeekToStart(); err != nil {
			return nil, err
		}
		s.read = 0
	}

	var event *proio.Event
	for s.read < n {
		var err error
		event, err = s.reader.Next()
		if errors.Is(err, io.EOF) || (err == nil && event == nil) {
			return nil, shower.ErrEventNotFound
		}
		if err != nil {
			return nil, err
		}
		s.read++
	}
	return &Event{number: n, particles: s.particles(event)}, nil
}

func (s *Source) particles(event *proio.Event) []shower.Particle {
	var particles []shower.Particle
	for _, id := range event.TaggedEntries(s.Tag) {
		part, ok := event.GetEntry(id).(*eic.Particle)
		if !ok {
			continue
		}

		px := float64(part.GetP().GetX())
		py := float64(part.GetP().GetY())
		pz := float64(part.GetP().GetZ())
		mass := float64(part.GetMass())
		p2 := px*px + py*py + pz*pz

		particles = append(particles, shower.Particle{
			PDGCode:       int(part.GetPdg()),
			KineticEnergy: shower.KineticEnergy(p2, mass),
			X:             part.GetVertex().GetX(),
			Y:             part.GetVertex().GetY(),
		})
	}
	return particles
}

func (s *Source) Close() error {
	s.reader.Close()
	return nil
}

// Event holds the decoded particles of one proio event.
type Event struct {
	number    int
	particles []shower.Particle
}

func (e *Event) Number() int { return e.number }

func (e *Event) Particles() shower.ParticleStream {
	return shower.NewSliceStream(e.particles)
}
