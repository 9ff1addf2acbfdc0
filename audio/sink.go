package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// Source renders one block of audio, adding into the given buffer.
type Source interface {
	Process([][]float64)
}

// Sink pulls blocks from a source and writes them to w as interleaved
// little-endian float32 samples. A blocking writer, such as a fifo feeding
// an external player, paces the render loop at real time.
type Sink struct {
	w       io.Writer
	source  Source
	buf     [][]float64
	out     []byte
	stopped atomic.Bool
}

func NewSink(w io.Writer, source Source, channels, blockFrames int) *Sink {
	return &Sink{
		w:      w,
		source: source,
		buf:    newBuffer(channels, blockFrames),
		out:    make([]byte, 4*channels*blockFrames),
	}
}

// Run renders blocks until Stop is called or the writer fails.
func (s *Sink) Run() error {
	channels := len(s.buf)
	frames := len(s.buf[0])
	for !s.stopped.Load() {
		for c := range s.buf {
			for n := range s.buf[c] {
				s.buf[c][n] = 0.
			}
		}
		s.source.Process(s.buf)
		for n := 0; n < frames; n++ {
			for c := 0; c < channels; c++ {
				bits := math.Float32bits(float32(clip(s.buf[c][n])))
				binary.LittleEndian.PutUint32(s.out[4*(n*channels+c):], bits)
			}
		}
		if _, err := s.w.Write(s.out); err != nil {
			return err
		}
	}
	return nil
}

// Stop ends the Run loop after the block in flight.
func (s *Sink) Stop() {
	s.stopped.Store(true)
}

// clip hard-limits a sample to [-1, 1]. The saw shape is hotter than unity,
// so the mix can exceed full scale before conversion.
func clip(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
