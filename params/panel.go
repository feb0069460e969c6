package params

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type row struct {
	binding Binding
	comp    int
}

// Panel edits a Values structure through a list of bindings. The selection
// walks individual components so vectors and colors are edited per channel.
type Panel struct {
	values   Values
	bindings []Binding
	byName   map[string]Binding
	rows     []row
	selected int
	expanded bool
	onChange func(name string)
}

// NewPanel creates a panel over a copy of initial.
func NewPanel(initial Values, bindings []Binding) *Panel {
	p := &Panel{
		values:   initial,
		bindings: bindings,
		byName:   make(map[string]Binding, len(bindings)),
		expanded: true,
	}
	for _, b := range bindings {
		p.byName[b.Name()] = b
		for c := 0; c < b.Components(); c++ {
			p.rows = append(p.rows, row{binding: b, comp: c})
		}
	}
	return p
}

// OnChange registers a callback invoked with the binding name after every edit.
func (p *Panel) OnChange(fn func(name string)) { p.onChange = fn }

// Snapshot returns a copy of the current values.
func (p *Panel) Snapshot() Values { return p.values }

// Bindings returns the bindings in display order.
func (p *Panel) Bindings() []Binding { return p.bindings }

// Set assigns a named parameter from text.
func (p *Panel) Set(name, text string) error {
	b, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if err := b.Parse(&p.values, text); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	p.changed(name)
	return nil
}

// Apply parses a "name=value" assignment.
func (p *Panel) Apply(assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("%w: %q is not name=value", ErrBadValue, assignment)
	}
	return p.Set(strings.TrimSpace(name), value)
}

// Toggle flips a boolean parameter.
func (p *Panel) Toggle(name string) error {
	b, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if b.Kind() != KindBool {
		return fmt.Errorf("%w: %s is a %v, not a bool", ErrBadValue, name, b.Kind())
	}
	b.Nudge(&p.values, 0, 1)
	p.changed(name)
	return nil
}

// Select moves the selection by delta rows, wrapping around.
func (p *Panel) Select(delta int) {
	n := len(p.rows)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// Selected returns the name and component of the selected row.
func (p *Panel) Selected() (string, int) {
	if len(p.rows) == 0 {
		return "", 0
	}
	r := p.rows[p.selected]
	return r.binding.Name(), r.comp
}

// Nudge adjusts the selected component by steps increments.
func (p *Panel) Nudge(steps float64) {
	if len(p.rows) == 0 || steps == 0 {
		return
	}
	r := p.rows[p.selected]
	r.binding.Nudge(&p.values, r.comp, steps)
	p.changed(r.binding.Name())
}

// Expanded reports whether the panel body is shown.
func (p *Panel) Expanded() bool { return p.expanded }

// SetExpanded shows or collapses the panel body.
func (p *Panel) SetExpanded(v bool) { p.expanded = v }

// Lines renders the panel as text, one row per component.
func (p *Panel) Lines() []string {
	lines := []string{"Parameters"}
	if !p.expanded {
		return lines
	}
	for i, r := range p.rows {
		marker := "  "
		if i == p.selected {
			marker = "> "
		}
		label := r.binding.Label()
		if r.binding.Components() > 1 {
			label += "." + componentName(r.binding.Kind(), r.comp)
		}
		lines = append(lines, fmt.Sprintf("%s%-16s %s", marker, label, r.binding.Format(&p.values, r.comp)))
	}
	return lines
}

func (p *Panel) changed(name string) {
	if p.onChange != nil {
		p.onChange(name)
	}
}

func componentName(k Kind, comp int) string {
	switch k {
	case KindColor:
		return string("rgba"[comp])
	case KindRange:
		if comp == 0 {
			return "min"
		}
		return "max"
	}
	return string("xyz"[comp])
}

// Names of the bindings shared across variants.
const (
	NameResolution = "resolution"
	NameFullScreen = "fullscreen"
	NameSmooth     = "smooth"
	NameShowFPS    = "fps"
	NameRunning    = "running"
	NameBackground = "background"
)

// Common returns the display bindings every variant carries.
func Common() []Binding {
	return []Binding{
		Int(NameResolution, "Resolution", MinResolution, MaxResolution, 1, " %", func(v *Values) *int { return &v.Resolution }),
		Bool(NameFullScreen, "Full screen", func(v *Values) *bool { return &v.FullScreen }),
		Bool(NameSmooth, "Smooth", func(v *Values) *bool { return &v.Smooth }),
		Bool(NameShowFPS, "Display FPS", func(v *Values) *bool { return &v.ShowFPS }),
		Bool(NameRunning, "Running", func(v *Values) *bool { return &v.Running }),
		Color(NameBackground, "Background", func(v *Values) *mgl32.Vec4 { return &v.Background }),
	}
}

// IncColor returns the bindings of the incrementing color demo.
func IncColor() []Binding {
	return append(Common(),
		Vec3("rate", "Color rate", 0, 4, 0.05, func(v *Values) *mgl32.Vec3 { return &v.ColorRate }),
	)
}

// Fire returns the bindings of the fire simulation demo.
func Fire() []Binding {
	return append(Common(),
		Float("diffusion", "Diffusion", 0, 4, 0.05, func(v *Values) *float32 { return &v.Diffusion }),
		Float("force", "Vertical force", 0, 20, 0.25, func(v *Values) *float32 { return &v.VerticalForce }),
		Float("cooling", "Cooling", 0, 5, 0.05, func(v *Values) *float32 { return &v.Cooling }),
		Float("dissipation-min", "Dissipation min", 0, 0.1, 0.001, func(v *Values) *float32 { return &v.DissipationMinimum }),
		Int("source-rows", "Source rows", 1, 32, 1, "", func(v *Values) *int { return &v.SourceRows }),
		Float("source", "Source strength", 0, 40, 0.5, func(v *Values) *float32 { return &v.SourceStrength }),
		Vec3("luminosity", "Luminosity", 0, 1, 0.02, func(v *Values) *mgl32.Vec3 { return &v.PaletteLuminosity }),
		Vec3("contrast", "Contrast", 0, 1, 0.02, func(v *Values) *mgl32.Vec3 { return &v.PaletteContrast }),
		Vec3("frequency", "Frequency", 0, 100, 0.1, func(v *Values) *mgl32.Vec3 { return &v.PaletteFreq }),
		Vec3("phase", "Phase", 0, 1, 0.02, func(v *Values) *mgl32.Vec3 { return &v.PalettePhase }),
		MinMax("transparent", "Transparent range", 0, 1, 0.01, func(v *Values) *Range { return &v.TransparentRange }),
	)
}

// Image returns the bindings of the static image demo.
func Image() []Binding {
	return Common()
}
