package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbegin/modulecore/internal/audio"
	"github.com/cbegin/modulecore/internal/core"
	_ "github.com/cbegin/modulecore/internal/modules"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		workers    = flag.Int("workers", 2, "number of cooperative worker goroutines")
		ringDepth  = flag.Int("ring-depth", core.DefaultRingDepth, "output ring depth, in quanta")
		freq       = flag.Float64("freq", 220, "oscillator base frequency, Hz")
		vibratoHz  = flag.Float64("vibrato-rate", 5, "vibrato LFO rate, Hz")
		vibratoAmt = flag.Float64("vibrato-depth", 4, "vibrato LFO depth, Hz")
		duration   = flag.Duration("duration", 10*time.Second, "how long to play before exiting")
	)
	flag.Parse()

	e := core.NewEngine(*workers, *ringDepth, *sampleRate)

	osc, err := e.CreateModule("oscillator")
	if err != nil {
		log.Fatal(err)
	}
	lfo, err := e.CreateModule("lfo")
	if err != nil {
		log.Fatal(err)
	}
	gain, err := e.CreateModule("gain")
	if err != nil {
		log.Fatal(err)
	}
	sink, err := e.CreateModule("audio_output")
	if err != nil {
		log.Fatal(err)
	}
	if err := e.MarkAudioOutput(sink); err != nil {
		log.Fatal(err)
	}

	if _, err := e.ConnectToParameter(lfo, 0, osc, 0 /* Frequency */); err != nil {
		log.Fatal(err)
	}
	if _, err := e.ConnectToInput(osc, 0, gain, 0); err != nil {
		log.Fatal(err)
	}
	if _, err := e.ConnectToInput(gain, 0, sink, 0); err != nil {
		log.Fatal(err)
	}
	if _, err := e.ConnectToInput(gain, 0, sink, 1); err != nil {
		log.Fatal(err)
	}

	if err := e.SetParameterValue(osc, 0, float32(*freq)); err != nil {
		log.Fatal(err)
	}
	if err := e.SetParameterValue(osc, 1, 1); err != nil {
		log.Fatal(err)
	}
	if err := e.SetParameterValue(lfo, 0, float32(*vibratoHz)); err != nil {
		log.Fatal(err)
	}
	if err := e.SetParameterValue(lfo, 1, float32(*vibratoAmt)); err != nil {
		log.Fatal(err)
	}
	if err := e.SetParameterValue(gain, 0, 0.4); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group := e.InitWorkers(ctx)

	source := audio.NewRingSource(e.Ring())
	player, err := audio.NewPlayer(*sampleRate, source)
	if err != nil {
		log.Fatal(err)
	}
	player.Play()

	fmt.Printf("synthd: playing %.1fHz (vibrato %.1fHz/%.1fHz) for %s, %d workers, ring depth %d\n",
		*freq, *vibratoHz, *vibratoAmt, *duration, *workers, *ringDepth)

	select {
	case <-time.After(*duration):
	case <-ctx.Done():
	}

	if err := player.Stop(); err != nil {
		log.Printf("synthd: stopping player: %v", err)
	}
	stop()
	if err := group.Wait(); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
