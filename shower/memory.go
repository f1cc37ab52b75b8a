package shower

// Memory is a Source backed by in-memory particle slices, one per event.
type Memory struct {
	Events [][]Particle
	// Unit is returned by EnergyPerGeV. Zero means electronvolts.
	Unit float64
}

// NewMemory returns a Memory source holding the given events with energies
// expressed in units of unit.
func NewMemory(unit float64, events ...[]Particle) *Memory {
	return &Memory{Events: events, Unit: unit}
}

func (m *Memory) FindEvent(n int) (Event, error) {
	if n < 1 || n > len(m.Events) {
		return nil, ErrEventNotFound
	}
	return &memoryEvent{number: n, particles: m.Events[n-1]}, nil
}

func (m *Memory) EnergyPerGeV() float64 {
	if m.Unit == 0 {
		return GeV
	}
	return m.Unit
}

func (m *Memory) Close() error { return nil }

type memoryEvent struct {
	number    int
	particles []Particle
}

func (e *memoryEvent) Number() int { return e.number }

func (e *memoryEvent) Particles() ParticleStream {
	return NewSliceStream(e.particles)
}

// SliceStream is a ParticleStream over a slice.
type SliceStream struct {
	particles []Particle
	pos       int
}

// NewSliceStream returns a stream yielding particles in order.
func NewSliceStream(particles []Particle) *SliceStream {
	return &SliceStream{particles: particles, pos: -1}
}

func (s *SliceStream) Next() bool {
	if s.pos+1 >= len(s.particles) {
		s.pos = len(s.particles)
		return false
	}
	s.pos++
	return true
}

func (s *SliceStream) Particle() Particle { return s.particles[s.pos] }

func (s *SliceStream) Err() error { return nil }
