package showerplot

import (
	"math"

	"gonum.org/v1/plot"
)

// DefaultLogFloor is the smallest value shown on a logarithmic count axis:
// half an entry, so that empty bins stay below every filled one.
const DefaultLogFloor = 0.5

// LogScale is a logarithmic plot.Normalizer. Unlike plot.LogScale it does
// not panic on non-positive values; they are clamped to Floor.
type LogScale struct {
	Floor float64
}

func (s LogScale) Normalize(min, max, x float64) float64 {
	floor := logFloor(s.Floor)
	min = math.Max(min, floor)
	max = math.Max(max, floor)
	x = math.Max(x, floor)
	if max <= min {
		return 0
	}

	logMin := math.Log(min)
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

// LogTicks labels the powers of ten between min and max and puts minor
// ticks on their multiples. Values below Floor are ignored.
type LogTicks struct {
	Floor float64
}

func (t LogTicks) Ticks(min, max float64) []plot.Tick {
	floor := logFloor(t.Floor)
	min = math.Max(min, floor)
	max = math.Max(max, floor)
	if max <= min {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min, -1)}}
	}

	var ticks []plot.Tick
	labelled := 0
	for e := math.Floor(math.Log10(min)); e <= math.Ceil(math.Log10(max)); e++ {
		decade := math.Pow(10, e)
		for m := 1.0; m < 10; m++ {
			v := m * decade
			if v < min || v > max {
				continue
			}
			tick := plot.Tick{Value: v}
			if m == 1 {
				tick.Label = formatFloatTick(v, -1)
				labelled++
			}
			ticks = append(ticks, tick)
		}
	}

	// Less than a decade: label what there is.
	if labelled == 0 {
		for i := range ticks {
			ticks[i].Label = formatFloatTick(ticks[i].Value, 3)
		}
	}
	return ticks
}

func logFloor(floor float64) float64 {
	if floor > 0 {
		return floor
	}
	return DefaultLogFloor
}
