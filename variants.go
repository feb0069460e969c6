package main

import (
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"feedbackfx/frame"
	"feedbackfx/params"
	"feedbackfx/softfx"
)

// variant describes one demo: how many layers its buffers carry and which
// parameters its panel edits.
type variant struct {
	name     string
	layers   int
	bindings func() []params.Binding
}

var variants = []variant{
	{name: "inc-color", layers: 1, bindings: params.IncColor},
	{name: "fire", layers: 2, bindings: params.Fire},
	{name: "image", layers: 1, bindings: params.Image},
}

func lookupVariant(name string) (variant, error) {
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.name == name {
			return v, nil
		}
		names = append(names, v.name)
	}
	return variant{}, fmt.Errorf("unknown variant %q (want %s)", name, strings.Join(names, ", "))
}

// frameLoop is the part of frame.Driver the game uses, independent of the
// buffer type of the backend.
type frameLoop interface {
	Tick(now time.Time, screen *ebiten.Image) error
	Resize(surfaceWidth, surfaceHeight int) (bool, error)
	Refit() (bool, error)
	BufferSize() (int, int)
	State() frame.State
}

type loopConfig struct {
	variant variant
	backend string
	source  frame.Source
	picture image.Image
	workers int

	surfaceWidth, surfaceHeight int
}

// newLoop builds the driver for a backend. The returned function releases
// the buffers and any device resources.
func newLoop(cfg loopConfig) (frameLoop, func(), error) {
	switch cfg.backend {
	case "kage":
		return newKageLoop(cfg)
	case "cpu":
		return newSoftLoop(cfg, softStage(cfg), func() {})
	case "opencl":
		if cfg.variant.name == "image" {
			log.Printf("image variant has no OpenCL kernel; drawing it on the CPU")
			return newSoftLoop(cfg, softStage(cfg), func() {})
		}
		stage, err := newOpenCLStage(cfg.variant.name)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenCL initialization failed: %w", err)
		}
		log.Printf("OpenCL stage enabled (device: %s)", stage.DeviceName())
		return newSoftLoop(cfg, stage, stage.Close)
	}
	return nil, nil, fmt.Errorf("unknown backend %q (want kage, cpu or opencl)", cfg.backend)
}

func softStage(cfg loopConfig) frame.Simulation[*softfx.Frame] {
	pool := softfx.NewPool(cfg.workers)
	log.Printf("cpu stage using %d row bands", pool.Workers())
	switch cfg.variant.name {
	case "inc-color":
		return &softfx.IncColor{Pool: pool}
	case "fire":
		return &softfx.Fire{Pool: pool}
	}
	return &softfx.Image{Pool: pool, Src: cfg.picture}
}

// newSoftLoop drives host memory frames and uploads the display layer to
// the screen every tick.
func newSoftLoop(cfg loopConfig, sim frame.Simulation[*softfx.Frame], release func()) (frameLoop, func(), error) {
	d, err := frame.New(frame.Config[*softfx.Frame, *ebiten.Image]{
		Alloc:         softfx.Allocator(cfg.variant.layers),
		Sim:           sim,
		Presenter:     &uploadPresenter{},
		Source:        cfg.source,
		SurfaceWidth:  cfg.surfaceWidth,
		SurfaceHeight: cfg.surfaceHeight,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return d, func() {
		d.Close()
		release()
	}, nil
}
