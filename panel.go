package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"feedbackfx/params"
)

const panelHelp = "up/down select  left/right adjust (shift x10)  space run  tab hide  f fps"

// keyRepeated reports a press on the first tick of a key and then at a
// steady rate while it stays down.
func keyRepeated(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatEvery == 0
}

// handlePanelInput maps the keyboard onto the parameter panel.
func (g *Game) handlePanelInput() {
	p := g.panel
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		p.SetExpanded(!p.Expanded())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.toggle(params.NameRunning)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.toggle(params.NameShowFPS)
	}
	if !p.Expanded() {
		return
	}
	if keyRepeated(ebiten.KeyArrowUp) {
		p.Select(-1)
	}
	if keyRepeated(ebiten.KeyArrowDown) {
		p.Select(1)
	}
	steps := 1.0
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		steps = fastNudgeFactor
	}
	if keyRepeated(ebiten.KeyArrowLeft) {
		p.Nudge(-steps)
	}
	if keyRepeated(ebiten.KeyArrowRight) {
		p.Nudge(steps)
	}
}

func (g *Game) toggle(name string) {
	if err := g.panel.Toggle(name); err != nil {
		log.Printf("toggle %s: %v", name, err)
	}
}

// drawOverlay prints the panel and, when enabled, the FPS line.
func (g *Game) drawOverlay(screen *ebiten.Image) {
	y := panelY
	for _, line := range g.panel.Lines() {
		ebitenutil.DebugPrintAt(screen, line, panelX, y)
		y += debugLineHeight
	}
	if g.panel.Expanded() {
		ebitenutil.DebugPrintAt(screen, panelHelp, panelX, y)
	}
	if g.panel.Snapshot().ShowFPS {
		bw, bh := g.loop.BufferSize()
		msg := fmt.Sprintf("FPS: %.1f  buffer %dx%d  %s", ebiten.ActualFPS(), bw, bh, g.loop.State())
		ebitenutil.DebugPrintAt(screen, msg, panelX, screen.Bounds().Dy()-panelY-debugLineHeight)
	}
}
