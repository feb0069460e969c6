package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"feedbackfx/frame"
	"feedbackfx/params"
	"feedbackfx/softfx"
)

// gpuPresenter shows the display layer of a GPU frame.
type gpuPresenter struct{}

func (gpuPresenter) Present(screen *ebiten.Image, src *gpuFrame, v params.Values) error {
	drawLayer(screen, src.display(), v)
	return nil
}

// uploadPresenter copies the display layer of a host frame into a staging
// image and shows that.
type uploadPresenter struct {
	staging *ebiten.Image
	pix     []byte
}

func (p *uploadPresenter) Present(screen *ebiten.Image, src *softfx.Frame, v params.Values) error {
	if p.staging != nil {
		if b := p.staging.Bounds(); b.Dx() != src.Width || b.Dy() != src.Height {
			p.staging.Deallocate()
			p.staging = nil
		}
	}
	if p.staging == nil {
		p.staging = ebiten.NewImage(src.Width, src.Height)
	}
	p.pix = softfx.PremultipliedBytes(p.pix, src)
	p.staging.WritePixels(p.pix)
	drawLayer(screen, p.staging, v)
	return nil
}

// drawLayer clears the screen to the background color and blends layer
// over it with the placement frame.Fit picks.
func drawLayer(screen, layer *ebiten.Image, v params.Values) {
	screen.Fill(softfx.ToColor(v.Background))
	sb, lb := screen.Bounds(), layer.Bounds()
	pl := frame.Fit(sb.Dx(), sb.Dy(), lb.Dx(), lb.Dy(), v.FullScreen)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	if v.Smooth {
		op.Filter = ebiten.FilterLinear
	}
	op.GeoM = geoM(pl.Matrix())
	screen.DrawImage(layer, op)
}

// geoM converts an affine 3x3 matrix into ebiten's 2x3 form.
func geoM(m mgl32.Mat3) ebiten.GeoM {
	var g ebiten.GeoM
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			g.SetElement(i, j, float64(m.At(i, j)))
		}
	}
	return g
}
