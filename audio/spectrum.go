package audio

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// Spectrum returns the magnitude spectrum of samples: the first half of the
// FFT, DC at index 0, one bin per sampleRate/len(samples) Hz. A Hann window
// is applied first. The sample count must be a power of two.
func Spectrum(samples []float64) ([]float64, error) {
	n := len(samples)
	if n < 4 || n&(n-1) != 0 {
		return nil, fmt.Errorf("spectrum: sample count must be a power of two, got %d", n)
	}
	f, err := fft.New(n)
	if err != nil {
		return nil, err
	}
	buf := make([]complex128, n)
	for i, s := range samples {
		w := (1 - math.Cos(twoPi*float64(i)/float64(n))) / 2
		buf[i] = complex(s*w, 0)
	}
	buf = f.Transform(buf)
	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = cmplx.Abs(buf[i])
	}
	return mags, nil
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of the sample's spectrum.
func DominantFrequency(samples []float64, sampleRate float64) (float64, error) {
	mags, err := Spectrum(samples)
	if err != nil {
		return 0, err
	}
	var bin int
	var max float64
	for i := 1; i < len(mags); i++ {
		if mags[i] > max {
			bin, max = i, mags[i]
		}
	}
	return float64(bin) * sampleRate / float64(len(samples)), nil
}
