package audio

import (
	"fmt"
	"io"

	"github.com/youpy/go-wav"
)

const bounceBlock = 512

// Bounce renders frames frames from the engine and writes them to w as a
// 16-bit PCM WAV stream. The engine keeps its state across the call, so a
// sounding note keeps sounding and successive bounces are contiguous audio.
// Only mono and stereo engines can be bounced; the WAV sample layout is
// two-valued.
func Bounce(w io.Writer, e *Engine, frames int) error {
	channels := e.channels
	if channels < 1 || channels > 2 {
		return fmt.Errorf("bounce: cannot write %d channels to wav", channels)
	}
	writer := wav.NewWriter(w, uint32(frames), uint16(channels), uint32(e.sampleRate), 16)
	buf := newBuffer(channels, bounceBlock)
	block := make([][]float64, channels)
	samples := make([]wav.Sample, bounceBlock)
	for done := 0; done < frames; {
		n := bounceBlock
		if frames-done < n {
			n = frames - done
		}
		for c := range buf {
			block[c] = buf[c][:n]
			for i := range block[c] {
				block[c][i] = 0
			}
		}
		e.Process(block)
		for i := 0; i < n; i++ {
			var s wav.Sample
			s.Values[0] = int(clip(block[0][i]) * 32767)
			if channels == 2 {
				s.Values[1] = int(clip(block[1][i]) * 32767)
			}
			samples[i] = s
		}
		if err := writer.WriteSamples(samples[:n]); err != nil {
			return err
		}
		done += n
	}
	return nil
}
