package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mgnooj/MorphingOscillatorDemo/audio"
	"github.com/mgnooj/MorphingOscillatorDemo/script"
	"github.com/youpy/go-wav"
)

type command struct {
	name  string
	help  string
	run   func(*env, []script.Node) error
	arity int // -n means len(args) must be >= n
}

var commands []command

// populated in init to avoid an initialization cycle: helpCommand reads commands.
func init() {
	commands = []command{
		{"on", "on <note> [velocity] - start a note (midi 0-127)", onCommand, -1},
		{"off", "off - release the note", offCommand, 0},
		{"morph", "morph <position> - set the morph position (0-3)", morphCommand, 1},
		{"level", "level <db> - set the output level (-40 - 10)", levelCommand, 1},
		{"preset", "preset <name> - apply a preset", presetCommand, 1},
		{"presets", "presets - list the presets", presetsCommand, 0},
		{"state", "state - show the voice state", stateCommand, 0},
		{"render", "render <file> <seconds> [note] - bounce to a wav file", renderCommand, -2},
		{"sleep", "sleep <seconds> - pause, for timed scripts", sleepCommand, 1},
		{"help", "help - list commands", helpCommand, 0},
	}
}

func onCommand(env *env, args []script.Node) error {
	var note int
	if err := readArgs(args[:1], &note); err != nil {
		return err
	}
	velocity := 1.0
	if len(args) > 1 {
		if err := readArgs(args[1:], &velocity); err != nil {
			return err
		}
	}
	if note < 0 || note > 127 {
		return fmt.Errorf("note is out of range 0-127: %v", note)
	}
	if velocity < 0 || velocity > 1 {
		return fmt.Errorf("velocity is out of range 0-1: %v", velocity)
	}
	env.engine.NoteOn(note, velocity)
	return nil
}

func offCommand(env *env, args []script.Node) error {
	env.engine.NoteOff()
	return nil
}

func morphCommand(env *env, args []script.Node) error {
	var position float64
	if err := readArgs(args, &position); err != nil {
		return err
	}
	return env.engine.Set(audio.PropMorph, position)
}

func levelCommand(env *env, args []script.Node) error {
	var db float64
	if err := readArgs(args, &db); err != nil {
		return err
	}
	return env.engine.Set(audio.PropLevel, db)
}

func presetCommand(env *env, args []script.Node) error {
	var name string
	if err := readArgs(args, &name); err != nil {
		return err
	}
	return audio.LoadPreset(name, env.engine)
}

func presetsCommand(env *env, args []script.Node) error {
	for _, name := range audio.Presets() {
		fmt.Fprintln(env.out, name)
	}
	return nil
}

func stateCommand(env *env, args []script.Node) error {
	voice := env.engine.Voice()
	note := "silent"
	if voice.Active() {
		note = "sounding"
	}
	morph, err := env.engine.Get(audio.PropMorph)
	if err != nil {
		return err
	}
	level, err := env.engine.Get(audio.PropLevel)
	if err != nil {
		return err
	}
	a, b, blend := voice.Morph()
	fmt.Fprintf(env.out, "note:  %s\n", note)
	fmt.Fprintf(env.out, "morph: %v (%s -> %s, blend %.2f)\n", morph, a, b, blend)
	fmt.Fprintf(env.out, "level: %v dB\n", level)
	fmt.Fprintf(env.out, "rate:  %v Hz\n", env.rate)
	return nil
}

func renderCommand(env *env, args []script.Node) error {
	if env.sink != nil {
		return errors.New("cannot render while streaming")
	}
	var file string
	var seconds float64
	if err := readArgs(args[:2], &file, &seconds); err != nil {
		return err
	}
	// validate before queueing: a rejected command must not leave a note behind
	if seconds <= 0 || seconds > 600 {
		return fmt.Errorf("duration is out of range 0-600s: %v", seconds)
	}
	if len(args) > 2 {
		var note int
		if err := readArgs(args[2:], &note); err != nil {
			return err
		}
		if note < 0 || note > 127 {
			return fmt.Errorf("note is out of range 0-127: %v", note)
		}
		env.engine.NoteOn(note, 1)
	}
	frames := int(seconds * env.rate)
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := audio.Bounce(f, env.engine, frames); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "wrote %s (%.2fs)", file, seconds)
	if freq, err := dominantFreq(file, env.rate); err == nil && freq > 0 {
		fmt.Fprintf(env.out, ", fundamental %.1f Hz", freq)
	}
	fmt.Fprintln(env.out)
	return nil
}

// dominantFreq reads back a bounced file and estimates its fundamental from
// the first channel. Returns 0 for files too short to analyze.
func dominantFreq(file string, rate float64) (float64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	const maxSamples = 1 << 15
	var samples []float64
	r := wav.NewReader(f)
	for len(samples) < maxSamples {
		chunk, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		for _, sample := range chunk {
			samples = append(samples, r.FloatValue(sample, 0))
		}
	}
	n := 1
	for n*2 <= len(samples) && n*2 <= maxSamples {
		n *= 2
	}
	if n < 256 {
		return 0, nil
	}
	return audio.DominantFrequency(samples[:n], rate)
}

func sleepCommand(env *env, args []script.Node) error {
	var seconds float64
	if err := readArgs(args, &seconds); err != nil {
		return err
	}
	if seconds < 0 || seconds > 600 {
		return fmt.Errorf("duration is out of range 0-600s: %v", seconds)
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}

func helpCommand(env *env, args []script.Node) error {
	for _, cmd := range commands {
		fmt.Fprintln(env.out, cmd.help)
	}
	return nil
}

func readArgs(args []script.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("wrong number of arguments")
	}
	for n, arg := range args {
		switch p := slots[n].(type) {
		case *string:
			s, ok := arg.(script.Identifier)
			if !ok {
				return fmt.Errorf("argument error: expected a name")
			}
			*p = string(s)
		case *float64:
			num, ok := arg.(script.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = float64(num)
		case *int:
			num, ok := arg.(script.Number)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = int(num)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
