package softfx

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"feedbackfx/frame"
	"feedbackfx/params"
)

// MaxFireStep bounds the fire time step so the explicit diffusion update
// stays stable at low frame rates.
const MaxFireStep = 1.0 / 20

// IncColor advances every channel of a single-layer frame by dt × rate and
// wraps it into [0, 1).
type IncColor struct {
	Pool *Pool
}

func (s *IncColor) Step(dst, src *Frame, in frame.Inputs) error {
	if err := dst.checkShape(src, 1); err != nil {
		return err
	}
	dt := float32(in.Dt)
	rate := in.Params.ColorRate
	inc := [3]float32{dt * rate[0], dt * rate[1], dt * rate[2]}
	out, prev := dst.Layers[0], src.Layers[0]
	w := dst.Width
	return s.Pool.Run(dst.Height, func(y0, y1 int) error {
		for i := y0 * w * 4; i < y1*w*4; i += 4 {
			out[i] = wrap(prev[i] + inc[0])
			out[i+1] = wrap(prev[i+1] + inc[1])
			out[i+2] = wrap(prev[i+2] + inc[2])
			out[i+3] = 1
		}
		return nil
	})
}

// wrap returns the fractional part of v, leaving values already in [0, 1)
// untouched.
func wrap(v float32) float32 {
	if v >= 0 && v < 1 {
		return v
	}
	return v - math32.Floor(v)
}

// Fire runs the two-layer fire simulation. Layer 0 holds the heat
// coefficient in its red channel; layer 1 holds the palette color derived
// from it.
type Fire struct {
	Pool *Pool
}

func (s *Fire) Step(dst, src *Frame, in frame.Inputs) error {
	if err := dst.checkShape(src, 2); err != nil {
		return err
	}
	v := in.Params
	dt := math32.Min(float32(in.Dt), MaxFireStep)
	w, h := dst.Width, dst.Height
	heatIn, heatOut, colorOut := src.Layers[0], dst.Layers[0], dst.Layers[1]
	sourceTop := h - max(v.SourceRows, 0)
	tick := FlickerTick(in.Time)

	return s.Pool.Run(h, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			up := max(y-1, 0)
			down := min(y+1, h-1)
			for x := 0; x < w; x++ {
				left := max(x-1, 0)
				right := min(x+1, w-1)
				c := heatIn[(y*w+x)*4]
				below := heatIn[(down*w+x)*4]
				lap := heatIn[(y*w+left)*4] + heatIn[(y*w+right)*4] + heatIn[(up*w+x)*4] + below - 4*c
				next := c + dt*(v.Diffusion*lap+v.VerticalForce*(below-c)-dissipation(c, v))
				if y >= sourceTop {
					next += dt * v.SourceStrength * (flicker(float32(x), tick) - c)
				}
				next = clamp01(next)

				i := (y*w + x) * 4
				heatOut[i] = next
				heatOut[i+1] = 0
				heatOut[i+2] = 0
				heatOut[i+3] = 1
				r, g, b, a := Palette(next, v)
				colorOut[i] = r
				colorOut[i+1] = g
				colorOut[i+2] = b
				colorOut[i+3] = a
			}
		}
		return nil
	})
}

// dissipation is the heat lost per second by a pixel holding heat c:
// proportional to c, but never less than the configured minimum while any
// heat is left.
func dissipation(c float32, v params.Values) float32 {
	if c <= 0 {
		return 0
	}
	return math32.Max(v.Cooling*c, v.DissipationMinimum)
}

// FlickerRate is how many times per second the fuel pattern changes.
const FlickerRate = 15

// FlickerTick returns the fuel pattern index at simulation time t.
func FlickerTick(t float64) float32 {
	return math32.Floor(float32(t) * FlickerRate)
}

// flicker returns a deterministic pseudo-random fuel level in [0, 1) for a
// column at a given flicker tick.
func flicker(x, tick float32) float32 {
	n := math32.Sin(x*12.9898+tick*78.233) * 43758.5453
	return n - math32.Floor(n)
}

// Palette maps a heat value to a straight-alpha color with the cosine
// palette a + b*cos(2*pi*(c*heat + d)). Alpha ramps smoothly from 0 to 1
// across the transparent range.
func Palette(heat float32, v params.Values) (r, g, b, a float32) {
	t := clamp01(heat)
	var rgb [3]float32
	for i := range rgb {
		rgb[i] = clamp01(v.PaletteLuminosity[i] + v.PaletteContrast[i]*math32.Cos(2*math32.Pi*(v.PaletteFreq[i]*t+v.PalettePhase[i])))
	}
	return rgb[0], rgb[1], rgb[2], smoothstep(v.TransparentRange, t)
}

// smoothstep is the Hermite ramp over r. An empty range is a hard step at
// r.Max.
func smoothstep(r params.Range, x float32) float32 {
	if r.Span() <= 0 {
		if x >= r.Max {
			return 1
		}
		return 0
	}
	t := clamp01((x - r.Min) / r.Span())
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Image draws a static picture into the frame on every step. The picture
// is scaled uniformly and centred, so its aspect ratio survives any buffer
// shape; uncovered pixels are transparent. It carries no state, so pausing
// has no visible effect beyond freezing time.
type Image struct {
	Pool *Pool
	Src  image.Image
}

func (s *Image) Step(dst, _ *Frame, _ frame.Inputs) error {
	b := s.Src.Bounds()
	w, h := dst.Width, dst.Height
	pl := frame.Fit(w, h, b.Dx(), b.Dy(), true)
	out := dst.Display()
	return s.Pool.Run(h, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			py := int(math32.Floor((float32(y) + 0.5 - pl.Offset[1]) / pl.Scale))
			for x := 0; x < w; x++ {
				px := int(math32.Floor((float32(x) + 0.5 - pl.Offset[0]) / pl.Scale))
				i := (y*w + x) * 4
				if px < 0 || py < 0 || px >= b.Dx() || py >= b.Dy() {
					copy(out[i:i+4], []float32{0, 0, 0, 0})
					continue
				}
				c := color.NRGBAModel.Convert(s.Src.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
				out[i] = float32(c.R) / 255
				out[i+1] = float32(c.G) / 255
				out[i+2] = float32(c.B) / 255
				out[i+3] = float32(c.A) / 255
			}
		}
		return nil
	})
}
