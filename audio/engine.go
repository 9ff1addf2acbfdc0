package audio

import (
	"log"
	"math"
	"sync/atomic"
)

// blockSize is the granularity at which queued events are applied inside
// Process. 16 frames gives about 0.35ms accuracy at 44.1kHz.
const blockSize = 16

const (
	PropMorph = "morph"
	PropLevel = "level"
)

// Engine hosts a single morphing voice. Note events arrive through a
// lock-free queue and are applied at sub-block boundaries on the audio
// goroutine; the morph and level controls live in the property registry.
type Engine struct {
	*Props
	voice      *Voice
	events     *eventBuffer
	buf        [][]float64
	channels   int
	sampleRate float64
	morph      *atomic.Value
	level      *atomic.Value
}

// NewEngine registers the engine's properties on props and returns an engine
// rendering channels channels at sampleRate. blockFrames sizes the internal
// mix buffer; Process grows it when handed a larger block.
func NewEngine(props *Props, sampleRate float64, channels, blockFrames int) *Engine {
	return &Engine{
		Props:      props,
		voice:      NewVoice(sampleRate, 1.0),
		events:     newEventBuffer(64),
		buf:        newBuffer(channels, blockFrames),
		channels:   channels,
		sampleRate: sampleRate,
		morph:      props.MustRegister(PropMorph, setMorph, 0.0),
		level:      props.MustRegister(PropLevel, setLevel, 0.0),
	}
}

// Voice returns the engine's voice.
func (e *Engine) Voice() *Voice { return e.voice }

// NoteOn queues a note start. Safe to call while the engine is rendering;
// the event takes effect at the next sub-block boundary. If the queue is
// full the event is dropped.
func (e *Engine) NoteOn(note int, velocity float64) {
	if !e.events.push(event{kind: eventNoteOn, note: note, velocity: velocity}) {
		log.Printf("engine: event queue full, note on dropped")
	}
}

// NoteOff queues the note release. If the queue is full the event is
// dropped.
func (e *Engine) NoteOff() {
	if !e.events.push(event{kind: eventNoteOff}) {
		log.Printf("engine: event queue full, note off dropped")
	}
}

// Set updates a property. Morph changes are applied to the voice here, on
// the calling goroutine, so the audio goroutine only ever loads.
func (e *Engine) Set(key string, value interface{}) error {
	if err := e.Props.Set(key, value); err != nil {
		return err
	}
	if key == PropMorph {
		e.voice.SetMorphPosition(e.morph.Load().(float64))
	}
	return nil
}

// Process renders one block into out, adding on top of whatever is already
// there. out is indexed [channel][frame] and must have the engine's channel
// count; all channels must share the same length.
func (e *Engine) Process(out [][]float64) {
	frames := len(out[0])
	if len(e.buf[0]) < frames {
		e.buf = newBuffer(e.channels, frames)
	}
	for n := 0; n < frames; n += blockSize {
		end := n + blockSize
		if end > frames {
			end = frames
		}
		e.events.iter(end, func(ev event) {
			switch ev.kind {
			case eventNoteOn:
				e.voice.NoteOn(ev.note, ev.velocity)
			case eventNoteOff:
				e.voice.NoteOff()
			}
		})
		e.voice.RenderBlock(e.buf, n, end-n)
	}
	db := e.level.Load().(float64)
	gain := math.Pow(10, db/20.0)
	for c := range out {
		for n := 0; n < frames; n++ {
			out[c][n] += gain * e.buf[c][n]
			e.buf[c][n] = 0
		}
	}
}

func newBuffer(channels, frames int) [][]float64 {
	buf := make([][]float64, channels)
	for c := range buf {
		buf[c] = make([]float64, frames)
	}
	return buf
}
