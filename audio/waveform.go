package audio

import "math"

const twoPi = 2 * math.Pi

// Waveform identifies one of the four oscillator shapes. The ordinal order
// is significant: the morph position selects adjacent pairs by it.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Saw
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	}
	return "unknown"
}

// Sample returns the amplitude of w at the given phase angle in radians.
// All shapes have period 2pi and are defined for any angle, negative phase
// included. Sine, square and triangle stay within [-1, 1]; saw ramps over
// [-2, 2). Out-of-range kinds saturate to the nearest shape.
func (w Waveform) Sample(phase float64) float64 {
	switch {
	case w <= Sine:
		return math.Sin(phase)
	case w == Square:
		// hard transition at each zero-crossing of the sine reference
		if math.Sin(phase) >= 0 {
			return 1
		}
		return -1
	case w == Triangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	default:
		return (2 / math.Pi) * (floorMod(phase, twoPi) - math.Pi)
	}
}

// floorMod wraps x into [0, y). math.Mod truncates toward zero, which would
// invert the saw ramp for negative phase.
func floorMod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m < 0 {
		m += y
	}
	return m
}
