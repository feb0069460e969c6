// Package params owns the tunable values of a demo.
//
// The panel writes into a single Values structure; the frame driver takes a
// copy once per tick. Both run on the ebiten goroutine, so there is exactly
// one writer and one reader and no locking.
package params

import "github.com/go-gl/mathgl/mgl32"

const (
	MinResolution = 1
	MaxResolution = 100
)

// Range is an ordered pair of bounds. Min never exceeds Max.
type Range struct {
	Min, Max float32
}

// Span returns Max-Min.
func (r Range) Span() float32 { return r.Max - r.Min }

// Values is the flat set of parameters passed to every simulation step.
type Values struct {
	// Resolution is the buffer size as a percentage of the surface.
	Resolution int
	// FullScreen stretches the buffer over the surface.
	FullScreen bool
	// Smooth draws the buffer with bilinear instead of nearest filtering.
	Smooth     bool
	ShowFPS    bool
	Running    bool

	// ColorRate is the per-second increment of each channel in inc-color.
	ColorRate mgl32.Vec3

	Diffusion     float32
	VerticalForce float32
	Cooling       float32
	// DissipationMinimum is the least heat a hot pixel loses per second.
	DissipationMinimum float32
	SourceRows         int
	SourceStrength     float32

	// The fire palette is a + b*cos(2*pi*(c*heat + d)) per channel.
	PaletteLuminosity mgl32.Vec3
	PaletteContrast   mgl32.Vec3
	PaletteFreq       mgl32.Vec3
	PalettePhase      mgl32.Vec3
	// TransparentRange is the heat window over which alpha ramps from 0 to 1.
	TransparentRange Range

	// Background is the RGBA color transparent pixels are composited over.
	Background mgl32.Vec4
}

// Defaults returns the starting values used by every variant.
func Defaults() Values {
	return Values{
		Resolution:     50,
		FullScreen:     true,
		ShowFPS:        false,
		Running:        true,
		ColorRate:      mgl32.Vec3{0.5, 0.7, 0.9},
		Diffusion:          1.2,
		VerticalForce:      6,
		Cooling:            0.6,
		DissipationMinimum: 0.01,
		SourceRows:         3,
		SourceStrength:     8,
		PaletteLuminosity:  mgl32.Vec3{1, 1, 0.1},
		PaletteContrast:    mgl32.Vec3{1, 1, 1},
		PaletteFreq:        mgl32.Vec3{2, 0.5, 0.5},
		PalettePhase:       mgl32.Vec3{0.5, 0.5, 0.5},
		TransparentRange:   Range{Min: 0.02, Max: 0.25},
		Background:         mgl32.Vec4{0, 0, 0, 1},
	}
}

// ClampResolution limits a resolution percentage to [MinResolution, MaxResolution].
func ClampResolution(pct int) int {
	return clamp(pct, MinResolution, MaxResolution)
}

// Number covers the scalar kinds a binding can edit.
type Number interface {
	~int | ~float32 | ~float64
}

func clamp[N Number](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
