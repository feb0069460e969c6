package main

import (
	"embed"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"

	"feedbackfx/frame"
	"feedbackfx/pingpong"
	"feedbackfx/softfx"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// gpuFrame is one feedback buffer held in GPU images, one per layer.
type gpuFrame struct {
	layers []*ebiten.Image
}

func (f *gpuFrame) display() *ebiten.Image { return f.layers[len(f.layers)-1] }

// Dispose releases the layer images.
func (f *gpuFrame) Dispose() {
	for _, l := range f.layers {
		l.Deallocate()
	}
}

func gpuAllocator(layers int) pingpong.Allocator[*gpuFrame] {
	return func(width, height int) (*gpuFrame, error) {
		if layers < 1 {
			return nil, fmt.Errorf("gpu frame needs at least one layer, got %d", layers)
		}
		f := &gpuFrame{layers: make([]*ebiten.Image, layers)}
		for i := range f.layers {
			f.layers[i] = ebiten.NewImageWithOptions(image.Rect(0, 0, width, height), &ebiten.NewImageOptions{
				Unmanaged: true,
			})
		}
		return f, nil
	}
}

func compileShader(name string) (*ebiten.Shader, error) {
	src, err := shaderFS.ReadFile("shaders/" + name + ".kage")
	if err != nil {
		return nil, fmt.Errorf("reading shader %s: %w", name, err)
	}
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compiling shader %s: %w", name, err)
	}
	return s, nil
}

// kageStage is a simulation pass run by Kage shaders.
type kageStage interface {
	frame.Simulation[*gpuFrame]
	Deallocate()
}

func newKageStage(cfg loopConfig) (kageStage, error) {
	switch cfg.variant.name {
	case "inc-color":
		s, err := compileShader("inc_color")
		if err != nil {
			return nil, err
		}
		return &kageIncColor{shader: s}, nil
	case "fire":
		heat, err := compileShader("fire_heat")
		if err != nil {
			return nil, err
		}
		palette, err := compileShader("fire_palette")
		if err != nil {
			heat.Deallocate()
			return nil, err
		}
		return &kageFire{heat: heat, palette: palette}, nil
	case "image":
		return &kageImage{picture: ebiten.NewImageFromImage(cfg.picture)}, nil
	}
	return nil, fmt.Errorf("no shaders for variant %q", cfg.variant.name)
}

func newKageLoop(cfg loopConfig) (frameLoop, func(), error) {
	sim, err := newKageStage(cfg)
	if err != nil {
		return nil, nil, err
	}
	d, err := frame.New(frame.Config[*gpuFrame, *ebiten.Image]{
		Alloc:         gpuAllocator(cfg.variant.layers),
		Sim:           sim,
		Presenter:     gpuPresenter{},
		Source:        cfg.source,
		SurfaceWidth:  cfg.surfaceWidth,
		SurfaceHeight: cfg.surfaceHeight,
	})
	if err != nil {
		sim.Deallocate()
		return nil, nil, err
	}
	return d, func() {
		d.Close()
		sim.Deallocate()
	}, nil
}

// drawShader runs a full-buffer shader pass from src into dst. The result
// replaces dst rather than blending with it.
func drawShader(dst *ebiten.Image, shader *ebiten.Shader, src *ebiten.Image, uniforms map[string]any) {
	b := dst.Bounds()
	op := &ebiten.DrawRectShaderOptions{
		Uniforms: uniforms,
		Blend:    ebiten.BlendCopy,
	}
	op.Images[0] = src
	dst.DrawRectShader(b.Dx(), b.Dy(), shader, op)
}

type kageIncColor struct {
	shader *ebiten.Shader
}

func (s *kageIncColor) Step(dst, src *gpuFrame, in frame.Inputs) error {
	rate := in.Params.ColorRate
	drawShader(dst.layers[0], s.shader, src.layers[0], map[string]any{
		"Dt":   float32(in.Dt),
		"Rate": rate[:],
	})
	return nil
}

func (s *kageIncColor) Deallocate() { s.shader.Deallocate() }

// kageFire runs the fire in two passes since a Kage shader has a single
// render target: the heat pass updates layer 0 and the palette pass colors
// layer 1 from the heat just written.
type kageFire struct {
	heat, palette *ebiten.Shader
}

func (s *kageFire) Step(dst, src *gpuFrame, in frame.Inputs) error {
	if len(dst.layers) < 2 || len(src.layers) < 2 {
		return fmt.Errorf("fire needs two layers, frames have %d and %d", len(dst.layers), len(src.layers))
	}
	v := in.Params
	drawShader(dst.layers[0], s.heat, src.layers[0], map[string]any{
		"Dt":             math32.Min(float32(in.Dt), softfx.MaxFireStep),
		"Tick":           softfx.FlickerTick(in.Time),
		"Diffusion":      v.Diffusion,
		"Force":          v.VerticalForce,
		"Cooling":        v.Cooling,
		"DissipationMin": v.DissipationMinimum,
		"SourceRows":     float32(v.SourceRows),
		"Source":         v.SourceStrength,
	})
	lum, con, freq, phase := v.PaletteLuminosity, v.PaletteContrast, v.PaletteFreq, v.PalettePhase
	drawShader(dst.layers[1], s.palette, dst.layers[0], map[string]any{
		"Luminosity":     lum[:],
		"Contrast":       con[:],
		"Frequency":      freq[:],
		"Phase":          phase[:],
		"TransparentMin": v.TransparentRange.Min,
		"TransparentMax": v.TransparentRange.Max,
	})
	return nil
}

func (s *kageFire) Deallocate() {
	s.heat.Deallocate()
	s.palette.Deallocate()
}

// kageImage draws the picture into the buffer every tick, scaled uniformly
// and centred; the uncovered margin stays transparent.
type kageImage struct {
	picture *ebiten.Image
}

func (s *kageImage) Step(dst, _ *gpuFrame, _ frame.Inputs) error {
	out := dst.display()
	db, pb := out.Bounds(), s.picture.Bounds()
	out.Clear()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest, Blend: ebiten.BlendCopy}
	op.GeoM = geoM(frame.Fit(db.Dx(), db.Dy(), pb.Dx(), pb.Dy(), true).Matrix())
	out.DrawImage(s.picture, op)
	return nil
}

func (s *kageImage) Deallocate() { s.picture.Deallocate() }
