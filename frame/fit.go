package frame

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Placement positions a buffer on a surface: scale it uniformly, then
// translate it by Offset (in surface pixels).
type Placement struct {
	Scale  float32
	Offset mgl32.Vec2
}

// Matrix returns the placement as a 3x3 affine transform from buffer pixels
// to surface pixels.
func (p Placement) Matrix() mgl32.Mat3 {
	return mgl32.Translate2D(p.Offset[0], p.Offset[1]).Mul3(mgl32.Scale2D(p.Scale, p.Scale))
}

// Apply maps a buffer pixel coordinate to the surface.
func (p Placement) Apply(x, y float32) (float32, float32) {
	return x*p.Scale + p.Offset[0], y*p.Scale + p.Offset[1]
}

// Fit centres a bufW x bufH buffer on a surfW x surfH surface. With stretch
// the buffer is scaled by the smaller of the two axis ratios so its aspect
// ratio is preserved whatever the surface shape; without it the buffer is
// drawn at one surface pixel per buffer pixel.
func Fit(surfW, surfH, bufW, bufH int, stretch bool) Placement {
	if bufW <= 0 || bufH <= 0 || surfW <= 0 || surfH <= 0 {
		return Placement{Scale: 1}
	}
	scale := float32(1)
	if stretch {
		sx := float32(surfW) / float32(bufW)
		sy := float32(surfH) / float32(bufH)
		scale = math32.Min(sx, sy)
	}
	w := float32(bufW) * scale
	h := float32(bufH) * scale
	return Placement{
		Scale: scale,
		Offset: mgl32.Vec2{
			math32.Floor((float32(surfW) - w) / 2),
			math32.Floor((float32(surfH) - h) / 2),
		},
	}
}
