package pdfa

import (
	"fmt"
	"strings"

	"github.com/wudi/pdfakit/ir/raw"
)

// Level represents a PDF/A conformance level shared by the checker and the enforcer.
type Level int

const (
	PDFA1A Level = iota
	PDFA1B
	PDFA2A
	PDFA2B
	PDFA2U
	PDFA3A
	PDFA3B
	PDFA3U
	PDFA4
	PDFA4E
	PDFA4F
)

// Levels lists every supported level in ascending order.
var Levels = []Level{PDFA1A, PDFA1B, PDFA2A, PDFA2B, PDFA2U, PDFA3A, PDFA3B, PDFA3U, PDFA4, PDFA4E, PDFA4F}

func (l Level) String() string {
	if l.Part() == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("PDF/A-%d%s", l.Part(), strings.ToLower(l.Conformance()))
}

// Part returns the ISO 19005 part number, or 0 for an unknown level.
func (l Level) Part() int {
	switch l {
	case PDFA1A, PDFA1B:
		return 1
	case PDFA2A, PDFA2B, PDFA2U:
		return 2
	case PDFA3A, PDFA3B, PDFA3U:
		return 3
	case PDFA4, PDFA4E, PDFA4F:
		return 4
	}
	return 0
}

// Conformance returns the conformance letter as written in pdfaid:conformance.
// Plain PDF/A-4 has none.
func (l Level) Conformance() string {
	switch l {
	case PDFA1A, PDFA2A, PDFA3A:
		return "A"
	case PDFA1B, PDFA2B, PDFA3B:
		return "B"
	case PDFA2U, PDFA3U:
		return "U"
	case PDFA4E:
		return "E"
	case PDFA4F:
		return "F"
	}
	return ""
}

// ParseLevel accepts forms such as "2b", "PDF/A-2B", "pdfa-3u" or "4".
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "PDF/A")
	v = strings.TrimPrefix(v, "PDFA")
	v = strings.TrimPrefix(v, "-")
	for _, l := range Levels {
		if v == fmt.Sprintf("%d%s", l.Part(), l.Conformance()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("pdfa: unknown conformance level %q", s)
}

// IsLevelA1 returns true if the level is PDF/A-1.
func (l Level) IsLevelA1() bool { return l.Part() == 1 }

// IsLevelA2 returns true if the level is PDF/A-2.
func (l Level) IsLevelA2() bool { return l.Part() == 2 }

// IsLevelA3 returns true if the level is PDF/A-3.
func (l Level) IsLevelA3() bool { return l.Part() == 3 }

// IsLevelA4 returns true if the level is PDF/A-4.
func (l Level) IsLevelA4() bool { return l.Part() == 4 }

// AllowsTransparency returns true if the level allows transparency (A-2+).
func (l Level) AllowsTransparency() bool { return !l.IsLevelA1() }

// AllowsLayers returns true if the level allows optional content (A-2+).
func (l Level) AllowsLayers() bool { return !l.IsLevelA1() }

// AllowsAttachment returns true if the level allows embedded files.
// A-1: No. A-2: PDF/A payloads only. A-3 and A-4: yes.
func (l Level) AllowsAttachment() bool { return !l.IsLevelA1() }

// AllowsArbitraryAttachment returns true if embedded files may have any format.
func (l Level) AllowsArbitraryAttachment() bool { return l.Part() >= 3 }

// RequiresTagging reports whether the level needs a logical structure (level A).
func (l Level) RequiresTagging() bool { return l.Conformance() == "A" }

// RequiresUnicode reports whether every font needs a Unicode mapping.
func (l Level) RequiresUnicode() bool {
	switch l.Conformance() {
	case "A", "U":
		return true
	}
	return l.IsLevelA4()
}

// MaxVersion returns the newest PDF version the level allows.
func (l Level) MaxVersion() raw.Version {
	switch l.Part() {
	case 1:
		return raw.V14
	case 2, 3:
		return raw.V17
	}
	return raw.V20
}

// MaxICCVersion returns the newest ICC major version allowed for embedded profiles.
func (l Level) MaxICCVersion() int {
	if l.IsLevelA1() {
		return 2
	}
	return 4
}

// Limits holds implementation limits. Zero means unchecked.
type Limits struct {
	MaxStringLen int
	MaxNameLen   int
	MaxInt       int64
	MinInt       int64
	MaxReal      float64
	MaxArrayLen  int
	MaxDictLen   int
	MaxIndirect  int
	MaxQDepth    int
	MaxDeviceN   int
	MaxCID       int
	MinPageSize  float64
	MaxPageSize  float64
}

// Limits returns the implementation limits of the level's part. PDF/A-4
// defers to PDF 2.0 and carries none.
func (l Level) Limits() Limits {
	switch l.Part() {
	case 1:
		return Limits{
			MaxStringLen: 65535,
			MaxNameLen:   127,
			MaxInt:       2147483647,
			MinInt:       -2147483648,
			MaxReal:      32767,
			MaxArrayLen:  8191,
			MaxDictLen:   4095,
			MaxIndirect:  8388607,
			MaxQDepth:    28,
			MaxDeviceN:   8,
			MaxCID:       65535,
			MinPageSize:  3,
			MaxPageSize:  14400,
		}
	case 2, 3:
		return Limits{
			MaxStringLen: 32767,
			MaxNameLen:   127,
			MaxInt:       2147483647,
			MinInt:       -2147483648,
			MaxReal:      3.403e38,
			MaxIndirect:  8388607,
			MaxQDepth:    28,
			MaxDeviceN:   32,
			MaxCID:       65535,
			MinPageSize:  3,
			MaxPageSize:  14400,
		}
	}
	return Limits{}
}
