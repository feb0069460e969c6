package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"feedbackfx/params"
)

// Game adapts the frame loop to ebiten. Panel edits happen in Update and
// the loop ticks in Draw, so an edit is seen by the next tick.
type Game struct {
	panel *params.Panel
	loop  frameLoop

	outsideW, outsideH int
	refit              bool
	err                error
}

// newGame wires the panel to the loop: resolution edits resize the buffers.
func newGame(panel *params.Panel, loop frameLoop) *Game {
	g := &Game{panel: panel, loop: loop}
	panel.OnChange(func(name string) {
		if name == params.NameResolution {
			g.refit = true
		}
	})
	return g
}

// Update handles input and reports any error raised while drawing.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	g.handlePanelInput()
	if g.refit {
		g.refit = false
		changed, err := g.loop.Refit()
		if err != nil {
			return fmt.Errorf("resizing buffers: %w", err)
		}
		if changed {
			g.logBufferSize("resolution changed")
		}
	}
	return nil
}

// Draw runs one tick of the frame loop onto the screen, then the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	if err := g.loop.Tick(time.Now(), screen); err != nil {
		g.err = err
		return
	}
	g.drawOverlay(screen)
}

// Layout uses the window size as the screen size and resizes the buffers
// when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		changed, err := g.loop.Resize(outsideWidth, outsideHeight)
		if err != nil && g.err == nil {
			g.err = fmt.Errorf("resizing buffers: %w", err)
		} else if changed {
			g.logBufferSize(fmt.Sprintf("window %dx%d", outsideWidth, outsideHeight))
		}
	}
	return outsideWidth, outsideHeight
}

func (g *Game) logBufferSize(reason string) {
	w, h := g.loop.BufferSize()
	log.Printf("%s: buffers now %dx%d", reason, w, h)
}
