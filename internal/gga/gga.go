// Package gga decodes GNSS position data from NMEA 0183 GGA sentences in
// place inside a circular receive buffer.
//
// These functions are the hot path of the feed: they run once per received
// sentence, never allocate, never copy the sentence out of the ring, and do
// not validate the checksum or the full NMEA grammar. The caller guarantees
// that a complete, well-formed sentence is present at the given index;
// feeding anything else yields garbage, not an error.
package gga

import "ggafeed/internal/ring"

// RecordLen is the size of the packed position record.
const RecordLen = 10

// Record is the packed position block produced by Extract.
//
// Layout (multi-byte integers big-endian):
//
//	0-3: latitude, the 9 digits of DDMM.MMMMM (decimal point dropped)
//	     scaled by 10, as an unsigned 32-bit integer
//	4-7: longitude, the 10 digits of DDDMM.MMMMM (decimal point dropped)
//	     as an unsigned 32-bit integer
//	8:   hemisphere flags (bit 1 = North, bit 0 = East)
//	9:   HDOP in tenths, clamped to 255
type Record [RecordLen]byte

const (
	hemiNorth = 0x02
	hemiEast  = 0x01
)

// RawLat returns the packed latitude digits (big-endian bytes 0-3).
func (r *Record) RawLat() uint32 {
	return uint32(r[0])<<24 | uint32(r[1])<<16 | uint32(r[2])<<8 | uint32(r[3])
}

// RawLon returns the packed longitude digits (big-endian bytes 4-7).
func (r *Record) RawLon() uint32 {
	return uint32(r[4])<<24 | uint32(r[5])<<16 | uint32(r[6])<<8 | uint32(r[7])
}

func (r *Record) North() bool { return r[8]&hemiNorth != 0 }
func (r *Record) East() bool  { return r[8]&hemiEast != 0 }

// HDOPTenths returns HDOP scaled by 10, clamped to 255. Fractional precision
// beyond the tenths digit was discarded at extraction.
func (r *Record) HDOPTenths() uint8 { return r[9] }

// IsGGA reports whether the sentence starting at begin is a GGA sentence.
//
// Only the three bytes at begin+3..begin+5 are inspected, matching the
// "$ttGGA" prefix for any two-letter talker id tt. The '$' and the talker id
// are not verified; no standard sentence type collides with this check.
func IsGGA(b *ring.Buffer, begin int) bool {
	return b.At(begin+3) == 'G' && b.At(begin+4) == 'G' && b.At(begin+5) == 'A'
}

// SentenceLength converts a snapshot of the DMA remaining-transfer counter
// into the byte length of the sentence that just completed at begin.
//
// The counter counts down the slots left in the current circular transfer,
// so the write cursor sits at cap-remaining (mod cap) and the length is the
// forward distance from begin to that cursor. The branch avoids an explicit
// modulo. Only correct while fewer than cap bytes have elapsed since begin;
// the caller's framing must guarantee the writer never laps a sentence.
func SentenceLength(b *ring.Buffer, remaining uint16, begin int) int {
	c := b.Cap()
	r := int(remaining)
	if begin+r < c {
		return c - r - begin
	}
	return (c - begin) + (c - r)
}

// Field offsets from the leading '$'. The sentence is fixed width through
// the HDOP field for the receivers this feed targets: a 10-character time
// (hhmmss.sss), a 10-character latitude (DDMM.MMMMM), an 11-character
// longitude (DDDMM.MMMMM), single-character hemispheres, a 1-character fix
// quality and a 2-character satellite count.
const (
	offTime    = 7
	offLat     = 18
	offLatHemi = 29
	offLon     = 31
	offLonHemi = 43
	offHDOP    = 50
)

// Digit positions relative to the sentence start; the embedded decimal
// point is skipped rather than read.
var (
	latDigits = [9]int{18, 19, 20, 21, 23, 24, 25, 26, 27}
	lonDigits = [10]int{31, 32, 33, 34, 35, 37, 38, 39, 40, 41}
)

var pow10 = [10]uint32{1000000000, 100000000, 10000000, 1000000, 100000, 10000, 1000, 100, 10, 1}

// Extract decodes the GGA sentence starting at begin into rec.
//
// It returns false, with rec left entirely untouched, when the time field or
// the latitude field is empty (the receiver has no fix). Otherwise it
// populates all ten bytes of rec and returns true. The sentence must be a
// complete GGA sentence; Extract performs no bounds or grammar checks beyond
// the two empty-field tests.
func Extract(b *ring.Buffer, begin int, rec *Record) bool {
	if b.At(begin+offTime) == ',' {
		// Empty time field, no fix yet.
		return false
	}
	if b.At(begin+offLat) == ',' {
		// Time but no latitude, still no fix.
		return false
	}

	var lat uint32
	for k, off := range latDigits {
		lat += uint32(b.At(begin+off)-'0') * pow10[k]
	}
	rec[0] = byte(lat >> 24)
	rec[1] = byte(lat >> 16)
	rec[2] = byte(lat >> 8)
	rec[3] = byte(lat)

	var lon uint32
	for k, off := range lonDigits {
		lon += uint32(b.At(begin+off)-'0') * pow10[k]
	}
	rec[4] = byte(lon >> 24)
	rec[5] = byte(lon >> 16)
	rec[6] = byte(lon >> 8)
	rec[7] = byte(lon)

	var hemi byte
	if b.At(begin+offLatHemi) == 'N' {
		hemi |= hemiNorth
	}
	if b.At(begin+offLonHemi) == 'E' {
		hemi |= hemiEast
	}
	rec[8] = hemi

	rec[9] = extractHDOP(b, begin+offHDOP)
	return true
}

// extractHDOP reads the HDOP field at index i as tenths. The integer part is
// one or two digits, told apart by where the decimal point falls; anything
// past the first fractional digit is discarded.
func extractHDOP(b *ring.Buffer, i int) byte {
	if b.At(i+1) == '.' {
		// D.D: tenths always fit a byte.
		return (b.At(i)-'0')*10 + (b.At(i+2) - '0')
	}
	// DD.D, clamped to the byte range.
	v := int(b.At(i)-'0')*100 + int(b.At(i+1)-'0')*10 + int(b.At(i+3)-'0')
	if v > 255 {
		v = 255
	}
	return byte(v)
}
