package main

import (
	"flag"

	"feedbackfx/params"
)

// Command-line flags. Parameter panel values given here only seed the
// panel; everything except the variant and backend can be changed live.
var (
	// variantFlag picks the demo.
	variantFlag = flag.String("variant", "fire", "demo to run: inc-color, fire or image")

	// backendFlag picks where the simulation pass runs.
	backendFlag = flag.String("backend", "kage", "simulation backend: kage (GPU shaders), cpu, or opencl (needs -tags opencl)")

	resolutionFlag = flag.Int("resolution", params.Defaults().Resolution, "buffer resolution as a percentage of the window size (1-100)")

	// fullScreenFlag scales the buffer up to fill the window instead of
	// drawing it at one pixel per buffer texel.
	fullScreenFlag = flag.Bool("full-screen", params.Defaults().FullScreen, "stretch the buffer to fill the window, keeping its aspect ratio")

	smoothFlag = flag.Bool("smooth", false, "filter linearly when scaling the buffer instead of nearest-neighbour")

	showFPSFlag = flag.Bool("show-fps", false, "show the FPS overlay")

	pausedFlag = flag.Bool("paused", false, "start with the simulation paused")

	// imageFlag is only used by the image variant.
	imageFlag = flag.String("image", "", "picture for the image variant; a checkerboard is drawn when empty")

	workersFlag = flag.Int("workers", 0, "row bands for the cpu backend (0 = one per CPU)")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")

	// memProfileFlag takes one heap snapshot on exit.
	memProfileFlag = flag.String("memprofile", "", "write a heap profile to this file on exit")

	// paramOverrides collects -set assignments in command-line order.
	paramOverrides []string
)

func init() {
	flag.Func("set", "override a panel parameter, name=value (repeatable)", func(s string) error {
		paramOverrides = append(paramOverrides, s)
		return nil
	})
}
