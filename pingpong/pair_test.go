package pingpong

import (
	"errors"
	"testing"
)

type testBuffer struct {
	id       int
	w, h     int
	disposed bool
}

func (b *testBuffer) Dispose() { b.disposed = true }

type counter struct {
	next    int
	failAt  int
	created []*testBuffer
}

func (c *counter) alloc(w, h int) (*testBuffer, error) {
	c.next++
	if c.failAt != 0 && c.next == c.failAt {
		return nil, errors.New("out of memory")
	}
	b := &testBuffer{id: c.next, w: w, h: h}
	c.created = append(c.created, b)
	return b, nil
}

func TestNewAllocatesTwoDistinctBuffers(t *testing.T) {
	c := &counter{}
	p, err := New(c.alloc, 4, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Read() == p.Write() {
		t.Fatalf("read and write alias the same buffer")
	}
	if p.Width() != 4 || p.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", p.Width(), p.Height())
	}
	if len(c.created) != 2 {
		t.Errorf("allocated %d buffers, want 2", len(c.created))
	}
}

func TestSwapInvariant(t *testing.T) {
	c := &counter{}
	p, err := New(c.alloc, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for n := 0; n < 10; n++ {
		written := p.Write()
		read := p.Read()
		if written == read {
			t.Fatalf("tick %d: roles aliased", n)
		}
		if p.ReadIndex()+p.WriteIndex() != 1 {
			t.Fatalf("tick %d: indices %d/%d", n, p.ReadIndex(), p.WriteIndex())
		}
		p.Swap()
		if p.Read() != written {
			t.Fatalf("tick %d: buffer written is not read next tick", n)
		}
		if p.Write() != read {
			t.Fatalf("tick %d: previous read buffer is not the next write target", n)
		}
	}
	if p.Swaps() != 10 {
		t.Errorf("Swaps() = %d, want 10", p.Swaps())
	}
	if len(c.created) != 2 {
		t.Errorf("swap allocated buffers: %d created", len(c.created))
	}
}

func TestResizeReplacesAndDisposes(t *testing.T) {
	c := &counter{}
	p, err := New(c.alloc, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Swap()
	oldA, oldB := c.created[0], c.created[1]
	if err := p.Resize(8, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if !oldA.disposed || !oldB.disposed {
		t.Errorf("old buffers not disposed: %v %v", oldA.disposed, oldB.disposed)
	}
	if p.Read().w != 8 || p.Write().h != 6 {
		t.Errorf("new buffers have wrong shape")
	}
	if p.ReadIndex() != 0 {
		t.Errorf("ReadIndex after resize = %d, want 0", p.ReadIndex())
	}
	if p.Read() == p.Write() {
		t.Errorf("roles aliased after resize")
	}
}

func TestResizeRejectsNonPositive(t *testing.T) {
	c := &counter{}
	p, err := New(c.alloc, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, tc := range []struct{ w, h int }{{0, 1}, {1, 0}, {-3, 4}} {
		if err := p.Resize(tc.w, tc.h); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Resize(%d, %d) = %v, want ErrInvalidSize", tc.w, tc.h, err)
		}
	}
	if p.Width() != 2 || p.Height() != 2 {
		t.Errorf("failed resize changed size to %dx%d", p.Width(), p.Height())
	}
}

func TestResizeFailureKeepsOldBuffers(t *testing.T) {
	c := &counter{failAt: 4}
	p, err := New(c.alloc, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	read, write := p.Read(), p.Write()
	if err := p.Resize(5, 5); err == nil {
		t.Fatalf("Resize succeeded, want allocation error")
	}
	if p.Read() != read || p.Write() != write {
		t.Errorf("failed resize replaced buffers")
	}
	if read.disposed || write.disposed {
		t.Errorf("failed resize disposed live buffers")
	}
	if !c.created[2].disposed {
		t.Errorf("partially allocated buffer leaked")
	}
}

func TestNewRejectsNilAllocator(t *testing.T) {
	if _, err := New[*testBuffer](nil, 1, 1); err == nil {
		t.Errorf("New with nil allocator succeeded")
	}
}
