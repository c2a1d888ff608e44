// Package verify cross-checks the fast fixed-offset decoder against a full
// NMEA parser.
//
// The fast path skips the checksum and most of the grammar on purpose; this
// package exists so a deployment can spot-check (and the test suite can
// hammer) its output against an independent implementation. It is never on
// the per-sentence hot path unless explicitly enabled.
package verify

import (
	"fmt"
	"math"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"ggafeed/internal/gga"
)

// positionTolDeg bounds the reconstruction error of going packed digits ->
// decimal degrees; five decimal digits of minutes resolve ~2e-7 degrees.
const positionTolDeg = 1e-6

// Record re-parses sentence with the full grammar (checksum included) and
// compares the independently derived values against rec. A nil error means
// the fast decoder and the reference parser agree.
func Record(sentence []byte, rec *gga.Record) error {
	s, err := nmea.Parse(strings.TrimSpace(string(sentence)))
	if err != nil {
		return fmt.Errorf("verify: reference parse: %w", err)
	}
	g, ok := s.(nmea.GGA)
	if !ok {
		return fmt.Errorf("verify: not a GGA sentence: %s", s.DataType())
	}

	lat := packedToDegrees(rec.RawLat()/10, rec.North())
	if math.Abs(lat-g.Latitude) > positionTolDeg {
		return fmt.Errorf("verify: latitude mismatch: fast=%.7f reference=%.7f", lat, g.Latitude)
	}

	lon := packedToDegrees(rec.RawLon(), rec.East())
	if math.Abs(lon-g.Longitude) > positionTolDeg {
		return fmt.Errorf("verify: longitude mismatch: fast=%.7f reference=%.7f", lon, g.Longitude)
	}

	wantHDOP := int(math.Floor(g.HDOP*10 + 1e-6))
	if wantHDOP > 255 {
		wantHDOP = 255
	}
	if int(rec.HDOPTenths()) != wantHDOP {
		return fmt.Errorf("verify: hdop mismatch: fast=%d reference=%d", rec.HDOPTenths(), wantHDOP)
	}
	return nil
}

// packedToDegrees converts concatenated degree+minute digits (D..DMMMMMMM,
// five decimal digits of minutes) to signed decimal degrees.
func packedToDegrees(digits uint32, positive bool) float64 {
	deg := float64(digits / 10000000)
	minutes := float64(digits%10000000) / 100000
	v := deg + minutes/60
	if !positive {
		v = -v
	}
	return v
}
