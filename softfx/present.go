package softfx

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"

	"feedbackfx/frame"
	"feedbackfx/params"
)

// Presenter composites the display layer of a frame onto an RGBA surface.
// The surface is cleared to the background color and the layer is drawn
// over it with source-over blending, so transparent pixels show the
// background. Scaling is nearest-neighbour unless Smooth is set.
type Presenter struct {
	staging *image.NRGBA
}

func (p *Presenter) Present(surface *image.RGBA, src *Frame, v params.Values) error {
	img := p.Snapshot(src)
	b := surface.Bounds()
	xdraw.Draw(surface, b, image.NewUniform(ToColor(v.Background)), image.Point{}, xdraw.Src)

	pl := frame.Fit(b.Dx(), b.Dy(), src.Width, src.Height, v.FullScreen)
	x0, y0 := pl.Apply(0, 0)
	x1, y1 := pl.Apply(float32(src.Width), float32(src.Height))
	dr := image.Rect(int(x0), int(y0), round(x1), round(y1)).Add(b.Min)
	scaler(v).Scale(surface, dr, img, img.Bounds(), xdraw.Over, nil)
	return nil
}

// scaler returns the interpolator the Smooth parameter selects.
func scaler(v params.Values) xdraw.Scaler {
	if v.Smooth {
		return xdraw.ApproxBiLinear
	}
	return xdraw.NearestNeighbor
}

// Snapshot converts the display layer of src into 8-bit straight alpha
// pixels. The returned image is reused by the next call.
func (p *Presenter) Snapshot(src *Frame) *image.NRGBA {
	r := image.Rect(0, 0, src.Width, src.Height)
	if p.staging == nil || p.staging.Rect != r {
		p.staging = image.NewNRGBA(r)
	}
	layer := src.Display()
	pix := p.staging.Pix
	for i, c := range layer {
		pix[i] = to8(c)
	}
	return p.staging
}

// PremultipliedBytes converts the display layer of src into premultiplied
// RGBA bytes, the layout ebiten's WritePixels expects. dst is reused when
// large enough.
func PremultipliedBytes(dst []byte, src *Frame) []byte {
	layer := src.Display()
	if cap(dst) < len(layer) {
		dst = make([]byte, len(layer))
	}
	dst = dst[:len(layer)]
	for i := 0; i < len(layer); i += 4 {
		a := clamp01(layer[i+3])
		dst[i] = to8(layer[i] * a)
		dst[i+1] = to8(layer[i+1] * a)
		dst[i+2] = to8(layer[i+2] * a)
		dst[i+3] = to8(a)
	}
	return dst
}

// ToColor converts an RGBA parameter vector to a Go color.
func ToColor(c mgl32.Vec4) color.NRGBA {
	return color.NRGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3])}
}

func to8(v float32) uint8 {
	return uint8(math32.Floor(clamp01(v)*255 + 0.5))
}

func round(v float32) int {
	return int(math32.Floor(v + 0.5))
}
