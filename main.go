package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mgnooj/MorphingOscillatorDemo/audio"
)

func main() {
	var (
		rate     = flag.Float64("rate", 44100, "sample rate in Hz")
		channels = flag.Int("channels", 2, "output channels (wav bounces need 1 or 2)")
		block    = flag.Int("block", 512, "frames per render block")
		stream   = flag.String("stream", "", "write raw float32 PCM to this file or fifo")
		run      = flag.String("run", "", "run commands from this file before the prompt")
	)
	flag.Parse()

	if *rate <= 0 || *channels < 1 || *block < 1 {
		log.Fatal("rate, channels and block must be positive")
	}

	engine := audio.NewEngine(audio.NewProps(), *rate, *channels, *block)
	env := &env{
		engine: engine,
		rate:   *rate,
		out:    os.Stdout,
	}

	if *stream != "" {
		f, err := os.OpenFile(*stream, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		sink := audio.NewSink(f, engine, *channels, *block)
		env.sink = sink
		defer sink.Stop()
		go func() {
			if err := sink.Run(); err != nil {
				log.Printf("stream: %v", err)
			}
		}()
	}

	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := env.eval(line); err != nil {
				log.Fatal(err)
			}
		}
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
