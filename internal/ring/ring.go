package ring

import "fmt"

// DefaultCap is the receive buffer size used by the DMA ingestion path.
const DefaultCap = 1024

// Buffer is a fixed-capacity circular byte buffer addressed modulo its
// capacity. The capacity must be a power of two so that wrap-around reduces
// to a single mask; New enforces this at construction.
//
// The buffer has one writer (the ingestion path) and one reader (the
// decoder). There is no internal locking: callers must only decode a region
// after the sentence in it is fully written and before the writer laps it.
type Buffer struct {
	data []byte
	mask int
}

func New(capacity int) (*Buffer, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ring: capacity %d is not a power of two", capacity)
	}
	return &Buffer{data: make([]byte, capacity), mask: capacity - 1}, nil
}

// MustNew is New for capacities known good at the call site.
func MustNew(capacity int) *Buffer {
	b, err := New(capacity)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Buffer) Cap() int { return len(b.data) }

// Mask returns capacity-1, usable as an index mask.
func (b *Buffer) Mask() int { return b.mask }

// At reads the byte at index i modulo capacity. The mask keeps every access
// in bounds; the caller is still responsible for i denoting real data.
func (b *Buffer) At(i int) byte { return b.data[i&b.mask] }

// Set writes the byte at index i modulo capacity.
func (b *Buffer) Set(i int, v byte) { b.data[i&b.mask] = v }

// AtChecked is the pedantic accessor for tests and fuzzing: unlike At it
// rejects negative indices instead of masking them into range.
func (b *Buffer) AtChecked(i int) (byte, error) {
	if i < 0 {
		return 0, fmt.Errorf("ring: negative index %d", i)
	}
	return b.data[i%len(b.data)], nil
}

// CopyIn writes p starting at index start, wrapping as needed. Used by the
// ingestion path and by tests to place sentences at arbitrary rotations.
func (b *Buffer) CopyIn(start int, p []byte) {
	for n, c := range p {
		b.data[(start+n)&b.mask] = c
	}
}

// CopyOut linearizes n bytes starting at index start into a fresh slice.
// This allocates and is intended for the slow verification path and tests,
// not for decoding.
func (b *Buffer) CopyOut(start, n int) []byte {
	out := make([]byte, n)
	for k := range out {
		out[k] = b.data[(start+k)&b.mask]
	}
	return out
}
