package audio

import (
	"math"
	"sync/atomic"
)

// Voice is a monophonic oscillator that morphs between the four waveforms.
// NoteOn, NoteOff and SetMorphPosition may be called from a control
// goroutine while RenderBlock runs on the audio goroutine: the shared fields
// are atomic, loaded once per block, and the render loop itself performs no
// atomic operations, no allocation and no locks.
type Voice struct {
	sampleRate float64
	level      float64

	phase      atomicFloat64
	phaseDelta atomicFloat64 // radians per sample; zero means the note is off
	morph      atomic.Value  // morphState
}

// morphState is an immutable snapshot of the blend selection, stored as one
// value so a render block never sees a torn pair.
type morphState struct {
	a, b  Waveform
	blend float64
}

// NewVoice returns a silent voice. The sample rate must be the rate at which
// RenderBlock will be driven; level scales every rendered sample and is
// fixed for the life of the voice.
func NewVoice(sampleRate, level float64) *Voice {
	v := &Voice{sampleRate: sampleRate, level: level}
	v.morph.Store(morphState{a: Sine, b: Square})
	return v
}

// NoteOn restarts the voice at the pitch of the given MIDI note, clamped to
// 0-127. Calling it on a sounding voice retunes and rephases it, which is
// how voice stealing works. The velocity argument is accepted but does not
// affect amplitude; loudness is governed solely by the voice level.
func (v *Voice) NoteOn(note int, velocity float64) {
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}
	freq := midiToFreq(note)
	v.phase.Store(0)
	v.phaseDelta.Store(freq * twoPi / v.sampleRate)
}

// NoteOff silences the voice immediately. There is no release envelope; the
// next rendered block contributes nothing.
func (v *Voice) NoteOff() {
	v.phaseDelta.Store(0)
}

// Active reports whether a note is sounding.
func (v *Voice) Active() bool {
	return v.phaseDelta.Load() != 0
}

// SetMorphPosition selects the pair of adjacent waveforms to blend. The
// integer part of position picks the first waveform of the pair, the
// fractional part is the blend weight toward the second. Positions at or
// beyond the last waveform blend saw with itself; stray out-of-range values
// saturate.
func (v *Voice) SetMorphPosition(position float64) {
	f := math.Floor(position)
	// clamp before converting; float to int conversion is unspecified for
	// values outside the int range
	sel := f
	if sel < 0 {
		sel = 0
	}
	if sel > float64(Saw) {
		sel = float64(Saw)
	}
	blend := position - f
	if math.IsNaN(blend) {
		blend = 0
	}
	a := Waveform(int(sel))
	b := clampWaveform(a + 1)
	v.morph.Store(morphState{a: a, b: b, blend: blend})
}

// Morph returns the waveform pair currently being blended and the weight of
// the second.
func (v *Voice) Morph() (a, b Waveform, blend float64) {
	m := v.morph.Load().(morphState)
	return m.a, m.b, m.blend
}

// RenderBlock adds numSamples samples into every channel of out, starting at
// startSample. out is indexed [channel][frame] and is assumed pre-silenced
// by the caller; the voice only ever accumulates on top of it. When no note
// is sounding the call leaves out untouched.
func (v *Voice) RenderBlock(out [][]float64, startSample, numSamples int) {
	delta := v.phaseDelta.Load()
	if delta == 0 {
		return
	}
	m := v.morph.Load().(morphState)
	phase := v.phase.Load()
	for i := 0; i < numSamples; i++ {
		a := m.a.Sample(phase)
		b := m.b.Sample(phase)
		sample := (a*(1-m.blend) + b*m.blend) * v.level
		for c := range out {
			out[c][startSample+i] += sample
		}
		phase += delta
	}
	// phase grows unbounded; the waveforms are periodic for any magnitude
	v.phase.Store(phase)
}

func clampWaveform(w Waveform) Waveform {
	if w < Sine {
		return Sine
	}
	if w > Saw {
		return Saw
	}
	return w
}

func midiToFreq(note int) float64 {
	f := math.Pow(2, float64((note-69))/12.0) * 440
	return f
}

// atomicFloat64 holds a float64 as raw bits so the control goroutine can
// store while the audio goroutine loads.
type atomicFloat64 struct{ bits atomic.Uint64 }

func (f *atomicFloat64) Load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat64) Store(v float64) { f.bits.Store(math.Float64bits(v)) }
