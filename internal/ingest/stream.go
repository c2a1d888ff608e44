// Package ingest feeds serial bytes into the circular receive buffer the
// way the DMA peripheral on the target hardware does, and detects sentence
// boundaries for the decoder.
package ingest

import (
	"context"
	"io"

	"ggafeed/internal/ring"
)

// SentenceFunc receives the start index of a just-completed sentence and a
// snapshot of the remaining-transfer counter taken at its terminating LF.
// The sentence is fully present in the ring when the callback runs and stays
// valid until the writer laps it.
type SentenceFunc func(begin int, remaining uint16)

// Stream writes incoming bytes into the ring while maintaining a 16-bit
// down-counting remaining-transfer counter, mirroring a circular DMA
// transfer: the counter holds, modulo the ring capacity, how many slots are
// left before the write cursor wraps.
//
// Stream is not safe for concurrent use; it models a single hardware writer.
type Stream struct {
	buf       *ring.Buffer
	remaining uint16
	write     int
	begin     int
	onSent    SentenceFunc
}

func NewStream(buf *ring.Buffer, onSentence SentenceFunc) *Stream {
	// remaining starts at 0, which is capacity modulo capacity: a full
	// transfer still pending.
	return &Stream{buf: buf, onSent: onSentence}
}

// Remaining returns the current counter snapshot.
func (s *Stream) Remaining() uint16 { return s.remaining }

// Feed writes p into the ring byte by byte, decrementing the counter as the
// hardware would, and fires the sentence callback once per LF terminator.
func (s *Stream) Feed(p []byte) {
	mask := s.buf.Mask()
	for _, c := range p {
		s.buf.Set(s.write, c)
		s.write = (s.write + 1) & mask
		s.remaining = (s.remaining - 1) & uint16(mask)
		if c == '\n' {
			if s.onSent != nil {
				s.onSent(s.begin, s.remaining)
			}
			s.begin = s.write
		}
	}
}

// Run copies r into the stream until r is exhausted or ctx is done. Reads
// are chunked; sentence callbacks fire from inside Feed on the caller's
// goroutine.
func Run(ctx context.Context, r io.Reader, s *Stream) error {
	chunk := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(chunk)
		if n > 0 {
			s.Feed(chunk[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
