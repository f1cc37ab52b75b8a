// Package shower defines the event-source contract shared by the shower file
// readers: a 1-indexed sequence of events, each yielding a forward-only stream
// of particle records.
package shower

import (
	"errors"
	"math"
)

// ErrEventNotFound is returned by Source.FindEvent when the requested event
// lies past the end of the file. It ends a pass over the source.
var ErrEventNotFound = errors.New("shower: event not found")

// Energy and length units. Sources report values in their native unit and
// expose the conversion through Source.EnergyPerGeV.
const (
	ElectronVolt = 1.0
	GeV          = 1e9 * ElectronVolt

	Centimeter = 1.0
)

// Particle is one particle record of an event.
type Particle struct {
	PDGCode       int     // PDG species code
	KineticEnergy float64 // source native energy unit
	X, Y          float64 // position at the observation level, in cm
}

// ParticleStream iterates the particles of a single event.
//
//	for s.Next() {
//		p := s.Particle()
//		...
//	}
//	if err := s.Err(); err != nil { ... }
type ParticleStream interface {
	// Next advances to the next particle and reports whether there is one.
	Next() bool
	// Particle returns the record Next advanced to.
	Particle() Particle
	// Err returns the first error met by the stream, if any.
	Err() error
}

// Event is one simulated shower.
type Event interface {
	// Number is the 1-based position of the event in its source.
	Number() int
	// Particles returns a new stream positioned before the first particle.
	Particles() ParticleStream
}

// Source gives indexed access to the events of a shower file.
type Source interface {
	// FindEvent returns the n-th event (1-based), or ErrEventNotFound.
	FindEvent(n int) (Event, error)
	// EnergyPerGeV is the size of one GeV in the source's energy unit.
	EnergyPerGeV() float64
	Close() error
}

// KineticEnergy returns sqrt(p²+m²)-m for a particle with squared momentum
// p2 and mass m, in a form that keeps precision for momenta far below the
// mass.
func KineticEnergy(p2, m float64) float64 {
	if p2 == 0 {
		return 0
	}
	return p2 / (math.Sqrt(p2+m*m) + m)
}
