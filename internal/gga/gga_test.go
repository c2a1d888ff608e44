package gga

import (
	"math/rand"
	"testing"

	"ggafeed/internal/ring"
)

const (
	ggaNoTimeNoFix = "$GNGGA,,,,,,0,00,25.5,,,,,,*64\r\n"
	ggaTimeNoFix   = "$GNGGA,051154.000,,,,,0,00,25.5,,,,,,*7E\r\n"
)

// Real capture vectors with the expected packed record for each.
var ggaFixVectors = []struct {
	name     string
	sentence string
	want     Record
}{
	{
		name:     "SouthEastSingleDigitHDOP",
		sentence: "$GNGGA,051200.993,2734.21973,S,15303.08927,E,1,07,2.8,103.4,M,41.1,M,,*59\r\n",
		want:     Record{162, 248, 225, 210, 91, 54, 169, 63, 1, 28},
	},
	{
		name:     "SouthEastSubOneHDOP",
		sentence: "$GNGGA,051337.000,2734.22815,S,15303.09174,E,1,15,0.9,84.6,M,41.1,M,,*6E\r\n",
		want:     Record{162, 249, 2, 182, 91, 54, 170, 54, 1, 9},
	},
	{
		name:     "NorthWestTwoFractionDigits",
		sentence: "$GPGGA,181501.000,3944.50086,N,10459.16654,W,1,03,2.10,84.6,M,41.1,M,,*6E\r\n",
		want:     Record{235, 28, 78, 124, 62, 87, 107, 238, 2, 21},
	},
	{
		name:     "NorthEastLeadingZeroLongitude",
		sentence: "$GPGGA,181501.000,3944.50086,N,00459.16654,E,1,03,9.50,84.6,M,41.1,M,,*6E\r\n",
		want:     Record{235, 28, 78, 124, 2, 188, 161, 238, 3, 95},
	},
	{
		name:     "SouthWestSaturatedHDOP",
		sentence: "$GNGGA,181501.000,3615.12012,S,06357.25158,W,1,03,39.9,84.6,M,41.1,M,,*6E\r\n",
		want:     Record{215, 122, 90, 248, 37, 228, 101, 102, 0, 255},
	},
}

func TestIsGGA_AllRotations(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	sentence := []byte(ggaFixVectors[0].sentence)
	for i := 0; i < buf.Cap(); i++ {
		buf.CopyIn(i, sentence)
		if !IsGGA(buf, i) {
			t.Fatalf("IsGGA at %d = false, want true", i)
		}
		if IsGGA(buf, (i-1)&buf.Mask()) {
			t.Fatalf("IsGGA at %d-1 = true, want false", i)
		}
		if IsGGA(buf, (i+1)&buf.Mask()) {
			t.Fatalf("IsGGA at %d+1 = true, want false", i)
		}
	}
}

func TestIsGGA_OtherSentenceTypes(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	for _, s := range []string{
		"$GNRMC,051200.993,A,2734.21973,S,15303.08927,E,0.1,0.0,060124,,,A*55\r\n",
		"$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39\r\n",
		"$GPGSV,2,1,08,01,40,083,46*7F\r\n",
	} {
		buf.CopyIn(0, []byte(s))
		if IsGGA(buf, 0) {
			t.Fatalf("IsGGA(%q) = true, want false", s[:6])
		}
	}
}

// Simulates the down-counting transfer counter through many sentences and
// checks that the computed length reproduces the chosen one at every step,
// including across wrap-around.
func TestSentenceLength_RoundTrip(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	rng := rand.New(rand.NewSource(1))

	var remaining uint16
	begin := 0
	for i := 0; i < 200000; i++ {
		n := rng.Intn(82) + 1
		remaining = (remaining - uint16(n)) & uint16(buf.Mask())
		got := SentenceLength(buf, remaining, begin)
		if got != n {
			t.Fatalf("step %d: SentenceLength(%d, %d) = %d, want %d", i, remaining, begin, got, n)
		}
		begin = (begin + got) & buf.Mask()
	}
}

func TestSentenceLength_ExactBoundary(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	// Sentence ends exactly at the wrap point: counter reads 0.
	if got := SentenceLength(buf, 0, 1000); got != 24 {
		t.Fatalf("SentenceLength(0, 1000) = %d, want 24", got)
	}
	// Sentence written right at the start of a fresh transfer.
	if got := SentenceLength(buf, 1014, 0); got != 10 {
		t.Fatalf("SentenceLength(1014, 0) = %d, want 10", got)
	}
}

func TestExtract_NoTime_LeavesRecordUntouched(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	for i := 0; i < buf.Cap(); i++ {
		buf.CopyIn(i, []byte(ggaNoTimeNoFix))
		rec := Record{0xA5, 0xA5, 0xA5, 0xA5, 0xA5, 0xA5, 0xA5, 0xA5, 0xA5, 0xA5}
		if Extract(buf, i, &rec) {
			t.Fatalf("Extract at %d = true, want false", i)
		}
		for k, b := range rec {
			if b != 0xA5 {
				t.Fatalf("rec[%d] = %#02x after no-fix at %d, want untouched", k, b, i)
			}
		}
	}
}

func TestExtract_TimeButNoLatitude_NoFix(t *testing.T) {
	buf := ring.MustNew(ring.DefaultCap)
	for i := 0; i < buf.Cap(); i++ {
		buf.CopyIn(i, []byte(ggaTimeNoFix))
		var rec Record
		if Extract(buf, i, &rec) {
			t.Fatalf("Extract at %d = true, want false", i)
		}
		if rec != (Record{}) {
			t.Fatalf("rec = %v after no-fix at %d, want untouched", rec, i)
		}
	}
}

func TestExtract_GoldenVectors_AllRotations(t *testing.T) {
	for _, tc := range ggaFixVectors {
		t.Run(tc.name, func(t *testing.T) {
			buf := ring.MustNew(ring.DefaultCap)
			for i := 0; i < buf.Cap(); i++ {
				buf.CopyIn(i, []byte(tc.sentence))
				var rec Record
				if !Extract(buf, i, &rec) {
					t.Fatalf("Extract at %d = false, want true", i)
				}
				if rec != tc.want {
					t.Fatalf("Extract at %d = %v, want %v", i, rec, tc.want)
				}
			}
		})
	}
}

func TestExtract_HemisphereBits(t *testing.T) {
	base := []byte(ggaFixVectors[0].sentence)
	cases := []struct {
		lat, lon byte
		want     byte
	}{
		{'N', 'E', 0x03},
		{'N', 'W', 0x02},
		{'S', 'E', 0x01},
		{'S', 'W', 0x00},
	}
	buf := ring.MustNew(ring.DefaultCap)
	for _, tc := range cases {
		s := append([]byte(nil), base...)
		s[offLatHemi] = tc.lat
		s[offLonHemi] = tc.lon
		buf.CopyIn(0, s)
		var rec Record
		if !Extract(buf, 0, &rec) {
			t.Fatalf("%c/%c: Extract = false, want true", tc.lat, tc.lon)
		}
		if rec[8] != tc.want {
			t.Fatalf("%c/%c: flags = %#02x, want %#02x", tc.lat, tc.lon, rec[8], tc.want)
		}
	}
}

func TestExtract_HDOPDigitBranch(t *testing.T) {
	cases := []struct {
		hdop string
		want byte
	}{
		{"0.9", 9},
		{"2.8", 28},
		{"9.9", 99},
		{"2.10", 21},  // second fractional digit discarded
		{"9.50", 95},
		{"10.0", 100},
		{"25.5", 255}, // exactly at the clamp boundary
		{"26.0", 255},
		{"39.9", 255},
		{"99.9", 255},
	}
	buf := ring.MustNew(ring.DefaultCap)
	for _, tc := range cases {
		s := "$GNGGA,051200.993,2734.21973,S,15303.08927,E,1,07," + tc.hdop + ",103.4,M,41.1,M,,*00\r\n"
		buf.CopyIn(0, []byte(s))
		var rec Record
		if !Extract(buf, 0, &rec) {
			t.Fatalf("hdop %q: Extract = false, want true", tc.hdop)
		}
		if rec[9] != tc.want {
			t.Fatalf("hdop %q: got %d, want %d", tc.hdop, rec[9], tc.want)
		}
	}
}

func TestRecordAccessors(t *testing.T) {
	rec := ggaFixVectors[0].want // 2734.21973 S, 15303.08927 E
	if got := rec.RawLat(); got != 2734219730 {
		t.Fatalf("RawLat() = %d, want 2734219730", got)
	}
	if got := rec.RawLon(); got != 1530308927 {
		t.Fatalf("RawLon() = %d, want 1530308927", got)
	}
	if rec.North() {
		t.Fatalf("North() = true for southern fix")
	}
	if !rec.East() {
		t.Fatalf("East() = false for eastern fix")
	}
	if got := rec.HDOPTenths(); got != 28 {
		t.Fatalf("HDOPTenths() = %d, want 28", got)
	}
}
