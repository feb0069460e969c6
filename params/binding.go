package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrBadValue     = errors.New("bad parameter value")
)

// Kind is the declared type of a binding.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindVec3
	KindRange
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVec3:
		return "vec3"
	case KindRange:
		return "range"
	case KindColor:
		return "color"
	}
	return "unknown"
}

// Binding exposes one named field of Values to the panel.
type Binding interface {
	Name() string
	Label() string
	Kind() Kind
	// Components is the number of independently editable scalars.
	Components() int
	Format(v *Values, comp int) string
	// Nudge moves one component by steps increments, clamped to bounds.
	Nudge(v *Values, comp int, steps float64)
	// Parse assigns the binding from its text form.
	Parse(v *Values, text string) error
}

type meta struct {
	name, label string
}

func (m meta) Name() string  { return m.name }
func (m meta) Label() string { return m.label }

type floatBinding struct {
	meta
	min, max, step float32
	field          func(*Values) *float32
}

// Float binds a bounded float field.
func Float(name, label string, min, max, step float32, field func(*Values) *float32) Binding {
	return &floatBinding{meta{name, label}, min, max, step, field}
}

func (b *floatBinding) Kind() Kind      { return KindFloat }
func (b *floatBinding) Components() int { return 1 }

func (b *floatBinding) Format(v *Values, _ int) string {
	return strconv.FormatFloat(float64(*b.field(v)), 'f', 3, 32)
}

func (b *floatBinding) Nudge(v *Values, _ int, steps float64) {
	p := b.field(v)
	*p = clamp(*p+float32(steps)*b.step, b.min, b.max)
}

func (b *floatBinding) Parse(v *Values, text string) error {
	f, err := parseFloat(text)
	if err != nil {
		return err
	}
	*b.field(v) = clamp(f, b.min, b.max)
	return nil
}

type intBinding struct {
	meta
	min, max, step int
	suffix         string
	field          func(*Values) *int
}

// Int binds a bounded integer field. suffix is appended when formatting.
func Int(name, label string, min, max, step int, suffix string, field func(*Values) *int) Binding {
	return &intBinding{meta{name, label}, min, max, step, suffix, field}
}

func (b *intBinding) Kind() Kind      { return KindInt }
func (b *intBinding) Components() int { return 1 }

func (b *intBinding) Format(v *Values, _ int) string {
	return strconv.Itoa(*b.field(v)) + b.suffix
}

func (b *intBinding) Nudge(v *Values, _ int, steps float64) {
	p := b.field(v)
	*p = clamp(*p+int(steps)*b.step, b.min, b.max)
}

func (b *intBinding) Parse(v *Values, text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), b.suffix)))
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrBadValue, text)
	}
	*b.field(v) = clamp(n, b.min, b.max)
	return nil
}

type boolBinding struct {
	meta
	field func(*Values) *bool
}

// Bool binds a boolean field. Any nudge toggles it.
func Bool(name, label string, field func(*Values) *bool) Binding {
	return &boolBinding{meta{name, label}, field}
}

func (b *boolBinding) Kind() Kind      { return KindBool }
func (b *boolBinding) Components() int { return 1 }

func (b *boolBinding) Format(v *Values, _ int) string {
	if *b.field(v) {
		return "on"
	}
	return "off"
}

func (b *boolBinding) Nudge(v *Values, _ int, steps float64) {
	if steps != 0 {
		p := b.field(v)
		*p = !*p
	}
}

func (b *boolBinding) Parse(v *Values, text string) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "on", "yes":
		*b.field(v) = true
	case "0", "false", "off", "no":
		*b.field(v) = false
	default:
		return fmt.Errorf("%w: %q is not a boolean", ErrBadValue, text)
	}
	return nil
}

type vecBinding struct {
	meta
	kind           Kind
	min, max, step float32
	field          func(*Values) []float32
}

// Vec3 binds a 3-vector whose components share bounds.
func Vec3(name, label string, min, max, step float32, field func(*Values) *mgl32.Vec3) Binding {
	return &vecBinding{meta{name, label}, KindVec3, min, max, step, func(v *Values) []float32 {
		return field(v)[:]
	}}
}

// Color binds an RGBA color with components in [0,1].
func Color(name, label string, field func(*Values) *mgl32.Vec4) Binding {
	return &vecBinding{meta{name, label}, KindColor, 0, 1, 1.0 / 32, func(v *Values) []float32 {
		return field(v)[:]
	}}
}

func (b *vecBinding) Kind() Kind { return b.kind }

func (b *vecBinding) Components() int {
	if b.kind == KindColor {
		return 4
	}
	return 3
}

func (b *vecBinding) Format(v *Values, comp int) string {
	c := b.field(v)
	if comp < 0 || comp >= len(c) {
		return ""
	}
	return strconv.FormatFloat(float64(c[comp]), 'f', 3, 32)
}

func (b *vecBinding) Nudge(v *Values, comp int, steps float64) {
	c := b.field(v)
	if comp < 0 || comp >= len(c) {
		return
	}
	c[comp] = clamp(c[comp]+float32(steps)*b.step, b.min, b.max)
}

func (b *vecBinding) Parse(v *Values, text string) error {
	c := b.field(v)
	var parsed []float32
	var err error
	if b.kind == KindColor && strings.HasPrefix(strings.TrimSpace(text), "#") {
		parsed, err = parseHexColor(text)
	} else {
		parsed, err = parseList(text, len(c))
	}
	if err != nil {
		return err
	}
	for i := range c {
		c[i] = clamp(parsed[i], b.min, b.max)
	}
	return nil
}

type rangeBinding struct {
	meta
	min, max, step float32
	field          func(*Values) *Range
}

// MinMax binds a Range. Editing one bound never pushes it past the other.
func MinMax(name, label string, min, max, step float32, field func(*Values) *Range) Binding {
	return &rangeBinding{meta{name, label}, min, max, step, field}
}

func (b *rangeBinding) Kind() Kind      { return KindRange }
func (b *rangeBinding) Components() int { return 2 }

func (b *rangeBinding) Format(v *Values, comp int) string {
	r := b.field(v)
	val := r.Min
	if comp == 1 {
		val = r.Max
	}
	return strconv.FormatFloat(float64(val), 'f', 3, 32)
}

func (b *rangeBinding) Nudge(v *Values, comp int, steps float64) {
	r := b.field(v)
	d := float32(steps) * b.step
	if comp == 0 {
		r.Min = clamp(r.Min+d, b.min, r.Max)
	} else {
		r.Max = clamp(r.Max+d, r.Min, b.max)
	}
}

func (b *rangeBinding) Parse(v *Values, text string) error {
	parsed, err := parseList(strings.ReplaceAll(text, ":", ","), 2)
	if err != nil {
		return err
	}
	lo := clamp(parsed[0], b.min, b.max)
	hi := clamp(parsed[1], b.min, b.max)
	if lo > hi {
		return fmt.Errorf("%w: range %q has min above max", ErrBadValue, text)
	}
	*b.field(v) = Range{Min: lo, Max: hi}
	return nil
}

func parseFloat(text string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadValue, text)
	}
	return float32(f), nil
}

func parseList(text string, n int) ([]float32, error) {
	parts := strings.Split(text, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %q needs %d comma separated numbers", ErrBadValue, text, n)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := parseFloat(p)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseHexColor(text string) ([]float32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("%w: %q is not #rrggbb or #rrggbbaa", ErrBadValue, text)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a hex color", ErrBadValue, text)
	}
	out := make([]float32, 4)
	for i := range out {
		shift := uint(24 - 8*i)
		out[i] = float32((n>>shift)&0xff) / 255
	}
	return out, nil
}
