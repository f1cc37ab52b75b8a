package shower

import (
	"context"
	"errors"
	"fmt"
)

// Walk replays src from its first event and calls fn for each particle, in
// file order. The pass ends at the first ErrEventNotFound. Walk returns the
// number of events visited.
func Walk(ctx context.Context, src Source, fn func(Particle)) (int, error) {
	n := 1
	for ; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}

		evt, err := src.FindEvent(n)
		if errors.Is(err, ErrEventNotFound) {
			break
		}
		if err != nil {
			return n - 1, fmt.Errorf("event %d: %w", n, err)
		}

		particles := evt.Particles()
		for particles.Next() {
			fn(particles.Particle())
		}
		if err := particles.Err(); err != nil {
			return n, fmt.Errorf("event %d: %w", n, err)
		}
	}
	return n - 1, nil
}
