// Package frame drives the two-pass feedback loop: a simulation pass into
// the write buffer of a ping-pong pair, a presentation pass from that same
// buffer, then a swap.
package frame

import (
	"errors"
	"fmt"
	"time"

	"feedbackfx/clock"
	"feedbackfx/params"
	"feedbackfx/pingpong"
)

// Inputs are the per-tick values handed to a simulation stage.
type Inputs struct {
	// Time is the accumulated simulation time in seconds.
	Time float64
	// Dt is the simulated time step in seconds; zero while paused.
	Dt     float64
	Frame  uint64
	Params params.Values
}

// Simulation computes the next state into dst from the previous state in
// src. Implementations keep no state between calls.
type Simulation[B any] interface {
	Step(dst, src B, in Inputs) error
}

// Presenter draws a buffer onto the output surface.
type Presenter[B, S any] interface {
	Present(surface S, src B, v params.Values) error
}

// Source supplies the parameter snapshot for a tick.
type Source interface {
	Snapshot() params.Values
}

// State of the driver.
type State int

const (
	Initialized State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Driver runs one simulation and one presentation pass per tick.
type Driver[B, S any] struct {
	pair    *pingpong.Pair[B]
	sim     Simulation[B]
	present Presenter[B, S]
	source  Source

	clock   clock.Clock
	state   State
	frames  uint64
	surface [2]int
}

// Config collects the collaborators of a Driver.
type Config[B, S any] struct {
	Alloc     pingpong.Allocator[B]
	Sim       Simulation[B]
	Presenter Presenter[B, S]
	Source    Source
	// SurfaceWidth and SurfaceHeight size the initial buffers together
	// with the Resolution of the first snapshot.
	SurfaceWidth, SurfaceHeight int
}

// New allocates the buffer pair and returns an Initialized driver.
func New[B, S any](cfg Config[B, S]) (*Driver[B, S], error) {
	if cfg.Sim == nil || cfg.Presenter == nil || cfg.Source == nil {
		return nil, errors.New("frame: simulation, presenter and source are required")
	}
	v := cfg.Source.Snapshot()
	w, h := BufferSize(cfg.SurfaceWidth, cfg.SurfaceHeight, v.Resolution)
	pair, err := pingpong.New(cfg.Alloc, w, h)
	if err != nil {
		return nil, fmt.Errorf("allocating feedback buffers: %w", err)
	}
	return &Driver[B, S]{
		pair:    pair,
		sim:     cfg.Sim,
		present: cfg.Presenter,
		source:  cfg.Source,
		surface: [2]int{cfg.SurfaceWidth, cfg.SurfaceHeight},
	}, nil
}

// Tick advances the loop by one frame. A failing stage aborts the tick
// before the swap so the pair keeps its last good state.
func (d *Driver[B, S]) Tick(now time.Time, surface S) error {
	v := d.source.Snapshot()
	if v.Running {
		d.state = Running
	} else {
		d.state = Paused
	}
	dt := d.clock.Advance(now, v.Running)
	in := Inputs{
		Time:   d.clock.Elapsed().Seconds(),
		Dt:     dt.Seconds(),
		Frame:  d.frames,
		Params: v,
	}
	if err := d.sim.Step(d.pair.Write(), d.pair.Read(), in); err != nil {
		return fmt.Errorf("simulation pass (frame %d): %w", d.frames, err)
	}
	if err := d.present.Present(surface, d.pair.Write(), v); err != nil {
		return fmt.Errorf("presentation pass (frame %d): %w", d.frames, err)
	}
	d.pair.Swap()
	d.frames++
	return nil
}

// Resize reacts to a new surface size. The buffers are reallocated, and the
// simulation state lost, only when the derived buffer size changes.
func (d *Driver[B, S]) Resize(surfaceWidth, surfaceHeight int) (bool, error) {
	d.surface = [2]int{surfaceWidth, surfaceHeight}
	return d.Refit()
}

// Refit recomputes the buffer size from the last surface size and the
// current resolution parameter.
func (d *Driver[B, S]) Refit() (bool, error) {
	w, h := BufferSize(d.surface[0], d.surface[1], d.source.Snapshot().Resolution)
	if w == d.pair.Width() && h == d.pair.Height() {
		return false, nil
	}
	if err := d.pair.Resize(w, h); err != nil {
		return false, err
	}
	return true, nil
}

// State returns the state observed at the last tick.
func (d *Driver[B, S]) State() State { return d.state }

// Frames returns the number of completed ticks.
func (d *Driver[B, S]) Frames() uint64 { return d.frames }

// Elapsed returns the accumulated simulation time.
func (d *Driver[B, S]) Elapsed() time.Duration { return d.clock.Elapsed() }

// BufferSize returns the width and height of the buffers.
func (d *Driver[B, S]) BufferSize() (int, int) { return d.pair.Width(), d.pair.Height() }

// Pair exposes the buffer pair, mainly for inspection.
func (d *Driver[B, S]) Pair() *pingpong.Pair[B] { return d.pair }

// Close releases the buffers.
func (d *Driver[B, S]) Close() { d.pair.Dispose() }

// BufferSize derives buffer dimensions from a surface size and a resolution
// percentage. The percentage is clamped to [1,100] and both results are at
// least 1.
func BufferSize(surfaceWidth, surfaceHeight, pct int) (int, int) {
	pct = params.ClampResolution(pct)
	w := surfaceWidth * pct / 100
	h := surfaceHeight * pct / 100
	return max(w, 1), max(h, 1)
}
