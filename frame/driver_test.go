package frame

import (
	"errors"
	"testing"
	"time"

	"feedbackfx/params"
)

// layered is a stand-in buffer that remembers which allocation it came from.
type layered struct {
	id    int
	w, h  int
	value float64
}

type allocator struct{ n int }

func (a *allocator) alloc(w, h int) (*layered, error) {
	a.n++
	return &layered{id: a.n, w: w, h: h}, nil
}

// accumulate adds dt to the stored value, so paused ticks are identities.
type accumulate struct {
	calls []stepCall
	fail  error
}

type stepCall struct {
	dst, src int
	in       Inputs
}

func (s *accumulate) Step(dst, src *layered, in Inputs) error {
	s.calls = append(s.calls, stepCall{dst: dst.id, src: src.id, in: in})
	if s.fail != nil {
		return s.fail
	}
	dst.value = src.value + in.Dt
	return nil
}

type presented struct {
	id    int
	value float64
}

type recorder struct {
	shown []presented
}

func (r *recorder) Present(_ struct{}, src *layered, _ params.Values) error {
	r.shown = append(r.shown, presented{src.id, src.value})
	return nil
}

type staticSource struct{ v params.Values }

func (s *staticSource) Snapshot() params.Values { return s.v }

func newTestDriver(t *testing.T, v params.Values, sw, sh int) (*Driver[*layered, struct{}], *accumulate, *recorder, *staticSource) {
	t.Helper()
	a := &allocator{}
	sim := &accumulate{}
	rec := &recorder{}
	src := &staticSource{v: v}
	d, err := New(Config[*layered, struct{}]{
		Alloc:         a.alloc,
		Sim:           sim,
		Presenter:     rec,
		Source:        src,
		SurfaceWidth:  sw,
		SurfaceHeight: sh,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, sim, rec, src
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBufferSize(t *testing.T) {
	tests := []struct {
		sw, sh, pct  int
		wantW, wantH int
	}{
		{800, 600, 50, 400, 300},
		{800, 600, 100, 800, 600},
		{800, 600, 1, 8, 6},
		{801, 601, 50, 400, 300},
		{800, 600, 0, 8, 6},
		{800, 600, 150, 800, 600},
		{50, 10, 1, 1, 1},
		{0, 0, 50, 1, 1},
		{-20, 7, 50, 1, 3},
	}
	for _, tc := range tests {
		w, h := BufferSize(tc.sw, tc.sh, tc.pct)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("BufferSize(%d, %d, %d) = %dx%d, want %dx%d", tc.sw, tc.sh, tc.pct, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestTickOrdering(t *testing.T) {
	d, sim, rec, _ := newTestDriver(t, params.Defaults(), 800, 600)
	for i := 0; i < 6; i++ {
		writeBefore := d.Pair().Write().id
		readBefore := d.Pair().Read().id
		if err := d.Tick(t0.Add(time.Duration(i)*16*time.Millisecond), struct{}{}); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		call := sim.calls[i]
		if call.dst != writeBefore || call.src != readBefore {
			t.Errorf("tick %d: step wrote %d from %d, want %d from %d", i, call.dst, call.src, writeBefore, readBefore)
		}
		if rec.shown[i].id != writeBefore {
			t.Errorf("tick %d: presented buffer %d, want just-written %d", i, rec.shown[i].id, writeBefore)
		}
		if d.Pair().Read().id != writeBefore {
			t.Errorf("tick %d: written buffer is not next tick's read source", i)
		}
		if call.in.Frame != uint64(i) {
			t.Errorf("tick %d: Frame = %d", i, call.in.Frame)
		}
	}
	if d.Frames() != 6 {
		t.Errorf("Frames() = %d, want 6", d.Frames())
	}
}

func TestStateMachine(t *testing.T) {
	v := params.Defaults()
	d, _, _, src := newTestDriver(t, v, 100, 100)
	if d.State() != Initialized {
		t.Fatalf("State() = %v, want initialized", d.State())
	}
	tick := func(i int) {
		if err := d.Tick(t0.Add(time.Duration(i)*time.Second), struct{}{}); err != nil {
			t.Fatal(err)
		}
	}
	tick(0)
	if d.State() != Running {
		t.Errorf("after first tick State() = %v, want running", d.State())
	}
	src.v.Running = false
	tick(1)
	if d.State() != Paused {
		t.Errorf("State() = %v, want paused", d.State())
	}
	src.v.Running = true
	tick(2)
	if d.State() != Running {
		t.Errorf("State() = %v, want running", d.State())
	}
}

func TestPauseScenario(t *testing.T) {
	v := params.Defaults()
	v.Resolution = 50
	d, sim, rec, src := newTestDriver(t, v, 800, 600)
	if w, h := d.BufferSize(); w != 400 || h != 300 {
		t.Fatalf("buffer size = %dx%d, want 400x300", w, h)
	}

	now := t0
	step := func() {
		if err := d.Tick(now, struct{}{}); err != nil {
			t.Fatal(err)
		}
		now = now.Add(100 * time.Millisecond)
	}
	for i := 0; i < 4; i++ {
		step()
	}
	frozen := d.Elapsed()
	if frozen != 300*time.Millisecond {
		t.Fatalf("Elapsed() = %v, want 300ms", frozen)
	}
	shownBefore := rec.shown[len(rec.shown)-1].value

	src.v.Running = false
	for i := 0; i < 5; i++ {
		step()
		if d.Elapsed() != frozen {
			t.Errorf("paused tick %d: Elapsed() = %v, want %v", i, d.Elapsed(), frozen)
		}
		last := sim.calls[len(sim.calls)-1]
		if last.in.Dt != 0 {
			t.Errorf("paused tick %d: Dt = %v, want 0", i, last.in.Dt)
		}
		if got := rec.shown[len(rec.shown)-1].value; got != shownBefore {
			t.Errorf("paused tick %d: displayed %v, want frozen %v", i, got, shownBefore)
		}
	}
	if len(rec.shown) != 9 {
		t.Errorf("presentation skipped while paused: %d frames shown", len(rec.shown))
	}

	src.v.Running = true
	step()
	if d.Elapsed() <= frozen {
		t.Errorf("Elapsed() after resume = %v, want > %v", d.Elapsed(), frozen)
	}
	if d.Elapsed() != frozen+100*time.Millisecond {
		t.Errorf("Elapsed() = %v, want resumed from %v", d.Elapsed(), frozen)
	}
}

func TestResize(t *testing.T) {
	d, _, _, src := newTestDriver(t, params.Defaults(), 800, 600)
	for i := 0; i < 3; i++ {
		if err := d.Tick(t0.Add(time.Duration(i)*time.Second), struct{}{}); err != nil {
			t.Fatal(err)
		}
	}
	old := d.Pair().Read()

	changed, err := d.Resize(801, 601)
	if err != nil || changed {
		t.Errorf("Resize to same buffer size: changed=%v err=%v", changed, err)
	}
	if d.Pair().Read() != old {
		t.Errorf("unchanged size reallocated buffers")
	}

	changed, err = d.Resize(1000, 500)
	if err != nil || !changed {
		t.Fatalf("Resize: changed=%v err=%v", changed, err)
	}
	if w, h := d.BufferSize(); w != 500 || h != 250 {
		t.Errorf("buffer size = %dx%d, want 500x250", w, h)
	}
	if d.Pair().Read().value != 0 {
		t.Errorf("resize kept simulation state")
	}

	src.v.Resolution = 10
	if changed, err := d.Refit(); err != nil || !changed {
		t.Fatalf("Refit: changed=%v err=%v", changed, err)
	}
	if w, h := d.BufferSize(); w != 100 || h != 50 {
		t.Errorf("buffer size = %dx%d, want 100x50", w, h)
	}
}

func TestFailedStepDoesNotSwap(t *testing.T) {
	d, sim, rec, _ := newTestDriver(t, params.Defaults(), 10, 10)
	sim.fail = errors.New("device lost")
	read := d.Pair().ReadIndex()
	err := d.Tick(t0, struct{}{})
	if !errors.Is(err, sim.fail) {
		t.Fatalf("Tick error = %v, want wrapped device lost", err)
	}
	if d.Pair().ReadIndex() != read || d.Frames() != 0 {
		t.Errorf("failed tick swapped buffers")
	}
	if len(rec.shown) != 0 {
		t.Errorf("failed step was presented")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	a := &allocator{}
	if _, err := New(Config[*layered, struct{}]{Alloc: a.alloc}); err == nil {
		t.Errorf("New without stages succeeded")
	}
}
