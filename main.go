package main

import (
	"flag"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"feedbackfx/assets"
	"feedbackfx/params"
)

func main() {
	flag.Parse()

	prof, err := startProfiles(*cpuProfileFlag, *memProfileFlag)
	if err != nil {
		log.Fatalf("profiling: %v", err)
	}

	v, err := lookupVariant(*variantFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	panel := params.NewPanel(initialValues(), v.bindings())
	for _, s := range paramOverrides {
		if err := panel.Apply(s); err != nil {
			log.Fatalf("-set %s: %v", s, err)
		}
	}

	var picture image.Image
	if v.name == "image" {
		if picture, err = loadPicture(*imageFlag); err != nil {
			log.Fatalf("loading image: %v", err)
		}
	}

	loop, closeLoop, err := newLoop(loopConfig{
		variant:       v,
		backend:       *backendFlag,
		source:        panel,
		picture:       picture,
		workers:       *workersFlag,
		surfaceWidth:  windowWidth,
		surfaceHeight: windowHeight,
	})
	if err != nil {
		log.Fatalf("starting %s on %s backend: %v", v.name, *backendFlag, err)
	}
	bw, bh := loop.BufferSize()
	log.Printf("%s on %s backend, buffers %dx%d", v.name, *backendFlag, bw, bh)

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(windowTitle + " - " + v.name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err = ebiten.RunGame(newGame(panel, loop))
	closeLoop()
	if perr := prof.stop(); perr != nil {
		log.Printf("profiling: %v", perr)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// initialValues seeds the panel from the defaults and the display flags.
func initialValues() params.Values {
	v := params.Defaults()
	v.Resolution = params.ClampResolution(*resolutionFlag)
	v.FullScreen = *fullScreenFlag
	v.Smooth = *smoothFlag
	v.ShowFPS = *showFPSFlag
	v.Running = !*pausedFlag
	return v
}

func loadPicture(path string) (image.Image, error) {
	if path == "" {
		log.Printf("no -image given; drawing a checkerboard")
		return assets.Checkerboard(checkerboardSize, checkerboardSize, checkerboardCell), nil
	}
	img, format, err := assets.LoadImage(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	log.Printf("loaded %s image %s (%dx%d)", format, path, b.Dx(), b.Dy())
	return img, nil
}
