package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgnooj/MorphingOscillatorDemo/audio"
)

func testEnv() (*env, *bytes.Buffer) {
	var out bytes.Buffer
	engine := audio.NewEngine(audio.NewProps(), 44100, 2, 512)
	return &env{engine: engine, rate: 44100, out: &out}, &out
}

func process(e *env) [][]float64 {
	buf := make([][]float64, 2)
	for c := range buf {
		buf[c] = make([]float64, 512)
	}
	e.engine.Process(buf)
	return buf
}

func silent(buf [][]float64) bool {
	for c := range buf {
		for _, s := range buf[c] {
			if s != 0 {
				return false
			}
		}
	}
	return true
}

func TestEvalUnknownCommand(t *testing.T) {
	env, _ := testEnv()
	err := env.eval("wobble 3")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("want unknown command error, got %v", err)
	}
}

func TestEvalBlankLines(t *testing.T) {
	env, _ := testEnv()
	for _, line := range []string{"", "   ", "# comment"} {
		if err := env.eval(line); err != nil {
			t.Errorf("%q: %v", line, err)
		}
	}
}

func TestEvalArity(t *testing.T) {
	env, _ := testEnv()
	lines := []string{"morph", "morph 1 2", "on", "off 3", "render out.wav", "level"}
	for _, line := range lines {
		err := env.eval(line)
		if err == nil || !strings.Contains(err.Error(), "wrong number of arguments") {
			t.Errorf("%q: want arity error, got %v", line, err)
		}
	}
}

func TestOnOffCommands(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("on 69"); err != nil {
		t.Fatal(err)
	}
	if silent(process(env)) {
		t.Fatal("engine silent after on")
	}
	if err := env.eval("off"); err != nil {
		t.Fatal(err)
	}
	if !silent(process(env)) {
		t.Fatal("engine sounding after off")
	}
}

func TestOnCommandValidation(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("on 200"); err == nil {
		t.Error("expected error for note above range")
	}
	if err := env.eval("on 60 2"); err == nil {
		t.Error("expected error for velocity above range")
	}
	if err := env.eval("on highC"); err == nil {
		t.Error("expected error for non numeric note")
	}
}

func TestMorphCommand(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("morph 1.5"); err != nil {
		t.Fatal(err)
	}
	val, err := env.engine.Get(audio.PropMorph)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 1.5, val.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if a, b, _ := env.engine.Voice().Morph(); a != audio.Square || b != audio.Triangle {
		t.Errorf("voice pair: got %s/%s", a, b)
	}
	if err := env.eval("morph 3.5"); err == nil {
		t.Error("expected error for morph above range")
	}
}

func TestLevelCommand(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("level -6"); err != nil {
		t.Fatal(err)
	}
	val, err := env.engine.Get(audio.PropLevel)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := -6.0, val.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := env.eval("level 99"); err == nil {
		t.Error("expected error for level above range")
	}
}

func TestPresetCommands(t *testing.T) {
	env, out := testEnv()
	if err := env.eval("preset razor"); err != nil {
		t.Fatal(err)
	}
	val, err := env.engine.Get(audio.PropMorph)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 3.0, val.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := env.eval("preset nosuch"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if err := env.eval("presets"); err != nil {
		t.Fatal(err)
	}
	for _, name := range audio.Presets() {
		if !strings.Contains(out.String(), name) {
			t.Errorf("presets output missing %s", name)
		}
	}
}

func TestStateCommand(t *testing.T) {
	env, out := testEnv()
	if err := env.eval("state"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	wants := []string{
		"note:  silent",
		"morph: 0 (sine -> square, blend 0.00)",
		"level: 0 dB",
		"rate:  44100 Hz",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("state output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := env.eval("on 69"); err != nil {
		t.Fatal(err)
	}
	process(env)
	if err := env.eval("state"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "note:  sounding") {
		t.Errorf("state output missing sounding note:\n%s", out.String())
	}
}

func TestRenderCommand(t *testing.T) {
	env, out := testEnv()
	file := filepath.Join(t.TempDir(), "out.wav")
	if err := env.eval("render " + file + " 0.2 69"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	// 0.2s of 16-bit stereo plus the header
	if info.Size() < 8820*4 {
		t.Errorf("file too small: %d bytes", info.Size())
	}
	got := out.String()
	if !strings.Contains(got, "wrote "+file) {
		t.Errorf("missing confirmation: %q", got)
	}
	if !strings.Contains(got, "fundamental 441") {
		t.Errorf("missing fundamental estimate: %q", got)
	}
}

func TestRenderCommandValidation(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("render /tmp/zero.wav 0"); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := env.eval("render 2 2"); err == nil {
		t.Error("expected error for numeric file name")
	}
}

func TestRenderRejectedLeavesNoNote(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("render /tmp/zero.wav 0 69"); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if !silent(process(env)) {
		t.Error("rejected render left a note queued")
	}
}

func TestRenderWhileStreaming(t *testing.T) {
	env, _ := testEnv()
	env.sink = audio.NewSink(io.Discard, env.engine, 2, 64)
	err := env.eval("render /tmp/x.wav 1")
	if err == nil || !strings.Contains(err.Error(), "streaming") {
		t.Errorf("want streaming error, got %v", err)
	}
}

func TestSleepCommand(t *testing.T) {
	env, _ := testEnv()
	if err := env.eval("sleep 0"); err != nil {
		t.Fatal(err)
	}
	if err := env.eval("sleep 700"); err == nil {
		t.Error("expected error for long sleep")
	}
	if err := env.eval("sleep -1"); err == nil {
		t.Error("expected error for negative sleep")
	}
}

func TestHelpCommand(t *testing.T) {
	env, out := testEnv()
	if err := env.eval("help"); err != nil {
		t.Fatal(err)
	}
	for _, cmd := range commands {
		if !strings.Contains(out.String(), cmd.name) {
			t.Errorf("help missing %s", cmd.name)
		}
	}
}
