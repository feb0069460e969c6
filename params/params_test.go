package params

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClampResolution(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{250, 100},
	}
	for _, tc := range tests {
		if got := ClampResolution(tc.in); got != tc.want {
			t.Errorf("ClampResolution(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSetByName(t *testing.T) {
	p := NewPanel(Defaults(), Fire())
	tests := []struct {
		assign string
		check  func(v Values) bool
	}{
		{"diffusion=0.25", func(v Values) bool { return v.Diffusion == 0.25 }},
		{"diffusion=99", func(v Values) bool { return v.Diffusion == 4 }},
		{"resolution=75 %", func(v Values) bool { return v.Resolution == 75 }},
		{"resolution=0", func(v Values) bool { return v.Resolution == 1 }},
		{"running=off", func(v Values) bool { return !v.Running }},
		{"smooth=on", func(v Values) bool { return v.Smooth }},
		{"frequency=1,2,3", func(v Values) bool { return v.PaletteFreq == mgl32.Vec3{1, 2, 3} }},
		{"dissipation-min=0.05", func(v Values) bool { return v.DissipationMinimum == 0.05 }},
		{"transparent=0.2:0.6", func(v Values) bool { return v.TransparentRange == Range{Min: 0.2, Max: 0.6} }},
		{"background=#ff000080", func(v Values) bool {
			return v.Background[0] == 1 && v.Background[1] == 0 && v.Background[3] == float32(0x80)/255
		}},
		{"background=0,0.5,1,1", func(v Values) bool { return v.Background == mgl32.Vec4{0, 0.5, 1, 1} }},
		{"source-rows=4", func(v Values) bool { return v.SourceRows == 4 }},
	}
	for _, tc := range tests {
		if err := p.Apply(tc.assign); err != nil {
			t.Errorf("Apply(%q): %v", tc.assign, err)
			continue
		}
		if !tc.check(p.Snapshot()) {
			t.Errorf("Apply(%q) produced %+v", tc.assign, p.Snapshot())
		}
	}
}

func TestSetErrors(t *testing.T) {
	p := NewPanel(Defaults(), IncColor())
	if err := p.Apply("nonsense=1"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("unknown name: err = %v", err)
	}
	if err := p.Apply("rate"); !errors.Is(err, ErrBadValue) {
		t.Errorf("missing '=': err = %v", err)
	}
	if err := p.Apply("rate=1,2"); !errors.Is(err, ErrBadValue) {
		t.Errorf("short vector: err = %v", err)
	}
	if err := p.Apply("running=maybe"); !errors.Is(err, ErrBadValue) {
		t.Errorf("bad bool: err = %v", err)
	}
	// Fire bindings are not part of inc-color.
	if err := p.Apply("diffusion=1"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("foreign binding: err = %v", err)
	}
}

func TestRangeRejectsInverted(t *testing.T) {
	p := NewPanel(Defaults(), Fire())
	if err := p.Set("transparent", "0.8,0.2"); !errors.Is(err, ErrBadValue) {
		t.Errorf("inverted range: err = %v", err)
	}
}

func TestRangeNudgeKeepsOrder(t *testing.T) {
	v := Defaults()
	v.TransparentRange = Range{Min: 0.4, Max: 0.5}
	b := MinMax("transparent", "Transparent", 0, 1, 0.1, func(v *Values) *Range { return &v.TransparentRange })
	b.Nudge(&v, 0, 5)
	if v.TransparentRange.Min != 0.5 {
		t.Errorf("Min = %v, want clamped to Max 0.5", v.TransparentRange.Min)
	}
	b.Nudge(&v, 1, -5)
	if v.TransparentRange.Max != v.TransparentRange.Min {
		t.Errorf("Max = %v, want clamped to Min %v", v.TransparentRange.Max, v.TransparentRange.Min)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	p := NewPanel(Defaults(), IncColor())
	snap := p.Snapshot()
	if err := p.Set("rate", "3,3,3"); err != nil {
		t.Fatal(err)
	}
	if snap.ColorRate == p.Snapshot().ColorRate {
		t.Errorf("snapshot shares storage with the panel")
	}
}

func TestSelectAndNudge(t *testing.T) {
	p := NewPanel(Defaults(), Common())
	name, comp := p.Selected()
	if name != NameResolution || comp != 0 {
		t.Fatalf("initial selection = %s.%d", name, comp)
	}
	p.Nudge(10)
	if got := p.Snapshot().Resolution; got != 60 {
		t.Errorf("Resolution after nudge = %d, want 60", got)
	}

	// resolution, fullscreen, smooth, fps, running, background.r
	p.Select(5)
	name, comp = p.Selected()
	if name != NameBackground || comp != 0 {
		t.Fatalf("selection = %s.%d, want background.0", name, comp)
	}
	p.Nudge(-100)
	if got := p.Snapshot().Background[0]; got != 0 {
		t.Errorf("background red = %v, want 0", got)
	}

	p.Select(-5)
	if name, _ := p.Selected(); name != NameResolution {
		t.Errorf("wrap-around selection = %s", name)
	}
	p.Select(-1)
	if name, comp := p.Selected(); name != NameBackground || comp != 3 {
		t.Errorf("backwards wrap = %s.%d, want background.3", name, comp)
	}
}

func TestToggleAndOnChange(t *testing.T) {
	p := NewPanel(Defaults(), Common())
	var seen []string
	p.OnChange(func(name string) { seen = append(seen, name) })
	if err := p.Toggle(NameRunning); err != nil {
		t.Fatal(err)
	}
	if p.Snapshot().Running {
		t.Errorf("Running still set after toggle")
	}
	if err := p.Toggle(NameResolution); !errors.Is(err, ErrBadValue) {
		t.Errorf("toggling an int: err = %v", err)
	}
	if err := p.Set(NameResolution, "20"); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != NameRunning || seen[1] != NameResolution {
		t.Errorf("change notifications = %v", seen)
	}
}

func TestLines(t *testing.T) {
	p := NewPanel(Defaults(), Common())
	lines := p.Lines()
	// title + resolution, fullscreen, smooth, fps, running + 4 background channels
	if len(lines) != 10 {
		t.Fatalf("len(Lines()) = %d, want 10: %q", len(lines), lines)
	}
	if lines[1][:2] != "> " {
		t.Errorf("selected row not marked: %q", lines[1])
	}
	p.SetExpanded(false)
	if len(p.Lines()) != 1 {
		t.Errorf("collapsed panel shows %d lines", len(p.Lines()))
	}
}
