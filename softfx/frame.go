// Package softfx computes the feedback stages on the CPU.
//
// It mirrors the Kage shaders pixel for pixel: every output pixel depends
// only on the source frame and the inputs, so rows are split into bands and
// processed in parallel.
package softfx

import "fmt"

// Frame is a multi-layer float surface. Each layer holds straight (not
// premultiplied) RGBA values laid out row by row.
type Frame struct {
	Width, Height int
	Layers        [][]float32
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height, layers int) *Frame {
	f := &Frame{Width: width, Height: height, Layers: make([][]float32, layers)}
	for i := range f.Layers {
		f.Layers[i] = make([]float32, width*height*4)
	}
	return f
}

// Allocator returns a pingpong allocator for frames with the given layer count.
func Allocator(layers int) func(width, height int) (*Frame, error) {
	return func(width, height int) (*Frame, error) {
		if layers < 1 {
			return nil, fmt.Errorf("softfx: frame needs at least one layer, got %d", layers)
		}
		return NewFrame(width, height, layers), nil
	}
}

// Display returns the layer shown on screen.
func (f *Frame) Display() []float32 { return f.Layers[len(f.Layers)-1] }

// At returns the RGBA value of layer l at (x, y).
func (f *Frame) At(l, x, y int) [4]float32 {
	i := (y*f.Width + x) * 4
	p := f.Layers[l]
	return [4]float32{p[i], p[i+1], p[i+2], p[i+3]}
}

// Set writes the RGBA value of layer l at (x, y).
func (f *Frame) Set(l, x, y int, c [4]float32) {
	i := (y*f.Width + x) * 4
	copy(f.Layers[l][i:i+4], c[:])
}

// Fill sets every pixel of layer l to c.
func (f *Frame) Fill(l int, c [4]float32) {
	p := f.Layers[l]
	for i := 0; i < len(p); i += 4 {
		copy(p[i:i+4], c[:])
	}
}

// Equal reports whether two frames have identical shape and contents.
func (f *Frame) Equal(o *Frame) bool {
	if f.Width != o.Width || f.Height != o.Height || len(f.Layers) != len(o.Layers) {
		return false
	}
	for l := range f.Layers {
		a, b := f.Layers[l], o.Layers[l]
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

func (f *Frame) checkShape(o *Frame, layers int) error {
	if f.Width != o.Width || f.Height != o.Height {
		return fmt.Errorf("softfx: frame size mismatch %dx%d vs %dx%d", f.Width, f.Height, o.Width, o.Height)
	}
	if len(f.Layers) < layers || len(o.Layers) < layers {
		return fmt.Errorf("softfx: stage needs %d layers, frames have %d and %d", layers, len(f.Layers), len(o.Layers))
	}
	return nil
}
