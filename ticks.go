package showerplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places about NSuggestedTicks labelled ticks on round values,
// with unlabelled minor ticks between them.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}

	if !(max > min) || math.IsInf(max-min, 0) {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min, -1)}}
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	var ticks []plot.Tick
	prec := labelPrecision(majorDelta)
	for val := math.Floor(min/majorDelta) * majorDelta; val <= max; val += majorDelta {
		if val < min {
			continue
		}
		v := round(val, prec)
		ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v, -1)})
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}

	nMajor := len(ticks)
	for val := math.Floor(min/minorDelta) * minorDelta; val <= max; val += minorDelta {
		if val < min || hasTick(ticks[:nMajor], round(val, prec)) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: val})
	}
	return ticks
}

// labelPrecision is the number of decimals kept on major tick values: one
// more than majorDelta needs.
func labelPrecision(majorDelta float64) int {
	prec := 1 - int(math.Floor(math.Log10(majorDelta)))
	if prec < 0 {
		return 0
	}
	return prec
}

func hasTick(ticks []plot.Tick, v float64) bool {
	for _, t := range ticks {
		if t.Value == v {
			return true
		}
	}
	return false
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}

	if x == 0 {
		return 0
	}

	return x / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
