package softfx

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool splits a frame into horizontal bands and runs them concurrently.
// Run returns only once every band has finished.
type Pool struct {
	workers int
}

// NewPool creates a pool. workers < 1 selects runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the number of concurrent bands.
func (p *Pool) Workers() int { return p.workers }

// Run calls fn for contiguous row ranges [y0, y1) covering [0, height)
// and returns the first error any band reported.
func (p *Pool) Run(height int, fn func(y0, y1 int) error) error {
	if height <= 0 {
		return nil
	}
	bands := min(p.workers, height)
	if bands <= 1 {
		return fn(0, height)
	}
	rowsPer := (height + bands - 1) / bands
	var g errgroup.Group
	for y0 := 0; y0 < height; y0 += rowsPer {
		y1 := min(y0+rowsPer, height)
		g.Go(func() error {
			return fn(y0, y1)
		})
	}
	return g.Wait()
}
