// Package pingpong holds the two off-screen buffers of a feedback pass.
//
// One buffer is the read source (last frame's output) and the other is the
// write target (this frame's output). Roles are derived from a single index
// into a fixed two-element array, so the pair can never hand out the same
// buffer for both roles.
package pingpong

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a buffer dimension is not positive.
var ErrInvalidSize = errors.New("pingpong: buffer dimensions must be positive")

// Allocator creates one buffer of the given shape.
type Allocator[B any] func(width, height int) (B, error)

// Disposer is implemented by buffers that hold resources which must be
// released when the pair replaces them.
type Disposer interface {
	Dispose()
}

// Pair owns two equally sized buffers with alternating roles.
type Pair[B any] struct {
	slots  [2]B
	read   int
	width  int
	height int
	swaps  uint64
	alloc  Allocator[B]
}

// New allocates both buffers of a pair.
func New[B any](alloc Allocator[B], width, height int) (*Pair[B], error) {
	if alloc == nil {
		return nil, errors.New("pingpong: nil allocator")
	}
	p := &Pair[B]{alloc: alloc}
	if err := p.Resize(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

// Read returns the buffer holding last frame's output.
func (p *Pair[B]) Read() B { return p.slots[p.read] }

// Write returns the buffer the current frame renders into.
func (p *Pair[B]) Write() B { return p.slots[1-p.read] }

// ReadIndex reports which slot currently holds the read role.
func (p *Pair[B]) ReadIndex() int { return p.read }

// WriteIndex reports which slot currently holds the write role.
func (p *Pair[B]) WriteIndex() int { return 1 - p.read }

// Swap exchanges the roles of the two buffers without touching pixel data.
func (p *Pair[B]) Swap() {
	p.read = 1 - p.read
	p.swaps++
}

// Swaps returns the number of swaps since the pair was created.
func (p *Pair[B]) Swaps() uint64 { return p.swaps }

// Width returns the width shared by both buffers.
func (p *Pair[B]) Width() int { return p.width }

// Height returns the height shared by both buffers.
func (p *Pair[B]) Height() int { return p.height }

// Resize replaces both buffers with freshly allocated ones. Prior contents
// are discarded. If either allocation fails the existing buffers are kept.
func (p *Pair[B]) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	var fresh [2]B
	for i := range fresh {
		b, err := p.alloc(width, height)
		if err != nil {
			if i == 1 {
				dispose(fresh[0])
			}
			return fmt.Errorf("allocating buffer %d (%dx%d): %w", i, width, height, err)
		}
		fresh[i] = b
	}
	old := p.slots
	hadBuffers := p.width > 0
	p.slots = fresh
	p.read = 0
	p.width, p.height = width, height
	if hadBuffers {
		dispose(old[0])
		dispose(old[1])
	}
	return nil
}

// Dispose releases both buffers. The pair must not be used afterwards.
func (p *Pair[B]) Dispose() {
	if p.width == 0 {
		return
	}
	dispose(p.slots[0])
	dispose(p.slots[1])
	var zero [2]B
	p.slots = zero
	p.width, p.height = 0, 0
}

func dispose(b any) {
	if d, ok := b.(Disposer); ok {
		d.Dispose()
	}
}
