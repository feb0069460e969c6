package main

// Window, panel and input constants. Simulation tunables live in the
// params package so they can be edited at run time.
const (
	windowWidth, windowHeight = 960, 540
	windowTitle               = "feedbackfx"

	panelX, panelY   = 8, 8
	debugLineHeight  = 16
	fastNudgeFactor  = 10
	keyRepeatDelay   = 18
	keyRepeatEvery   = 3
	checkerboardSize = 256
	checkerboardCell = 32
)
