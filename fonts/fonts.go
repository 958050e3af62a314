// Package fonts inspects embedded font programs: table presence, cmap
// subtables, glyph advances and the glyph set of Type 1 and CFF programs.
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-text/typesetting/font/opentype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// Kind identifies the format of a font program.
type Kind int

const (
	KindUnknown Kind = iota
	KindTrueType
	KindOpenType
	KindCFF
	KindType1
)

func (k Kind) String() string {
	switch k {
	case KindTrueType:
		return "TrueType"
	case KindOpenType:
		return "OpenType"
	case KindCFF:
		return "CFF"
	case KindType1:
		return "Type1"
	}
	return "unknown"
}

// ErrEmptyProgram is returned for a zero-length font stream.
var ErrEmptyProgram = errors.New("fonts: empty font program")

// CmapSubtable identifies one encoding record of the cmap table.
type CmapSubtable struct {
	PlatformID uint16
	EncodingID uint16
	Format     uint16
}

// Program is an inspected embedded font program.
type Program struct {
	Kind   Kind
	Cmaps  []CmapSubtable
	Glyphs []string // glyph names, Type 1 and CFF only

	sfnt   *sfnt.Font
	loader *opentype.Loader
}

// Inspect parses a font program stored under fileType (FontFile, FontFile2
// or FontFile3) with the given FontFile3 subtype.
func Inspect(data []byte, fileType, subtype string) (*Program, error) {
	if len(data) == 0 {
		return nil, ErrEmptyProgram
	}
	switch {
	case fileType == "FontFile":
		glyphs, err := Type1Glyphs(data)
		if err != nil {
			return nil, err
		}
		return &Program{Kind: KindType1, Glyphs: glyphs}, nil
	case fileType == "FontFile3" && subtype != "OpenType":
		cff, err := ParseCFF(data)
		if err != nil {
			return nil, err
		}
		return &Program{Kind: KindCFF, Glyphs: cff.GlyphNames()}, nil
	}
	return inspectSFNT(data)
}

func inspectSFNT(data []byte) (*Program, error) {
	ld, err := opentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: load sfnt: %w", err)
	}
	p := &Program{Kind: KindTrueType, loader: ld}
	if ld.HasTable(opentype.NewTag('C', 'F', 'F', ' ')) {
		p.Kind = KindOpenType
	}
	if cmap, err := ld.RawTable(opentype.NewTag('c', 'm', 'a', 'p')); err == nil {
		p.Cmaps = parseCmapRecords(cmap)
	}
	if f, err := sfnt.Parse(data); err == nil {
		p.sfnt = f
	}
	return p, nil
}

// HasTable reports whether an sfnt program carries the named table.
func (p *Program) HasTable(tag string) bool {
	if p.loader == nil || len(tag) != 4 {
		return false
	}
	return p.loader.HasTable(opentype.NewTag(tag[0], tag[1], tag[2], tag[3]))
}

// HasCmap reports whether a cmap subtable for platform/encoding exists.
func (p *Program) HasCmap(platform, encoding uint16) bool {
	for _, c := range p.Cmaps {
		if c.PlatformID == platform && c.EncodingID == encoding {
			return true
		}
	}
	return false
}

// HasGlyph reports whether a Type 1 or CFF program defines the glyph.
func (p *Program) HasGlyph(name string) bool {
	for _, g := range p.Glyphs {
		if g == name {
			return true
		}
	}
	return false
}

func parseCmapRecords(t []byte) []CmapSubtable {
	if len(t) < 4 {
		return nil
	}
	n := int(be16(t[2:]))
	var out []CmapSubtable
	for i := 0; i < n; i++ {
		rec := 4 + i*8
		if rec+8 > len(t) {
			break
		}
		sub := CmapSubtable{PlatformID: be16(t[rec:]), EncodingID: be16(t[rec+2:])}
		off := int(be32(t[rec+4:]))
		if off+2 <= len(t) {
			sub.Format = be16(t[off:])
		}
		out = append(out, sub)
	}
	return out
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// GlyphForCode maps a simple-font character code to a glyph index. Symbolic
// fonts go through the (3,0) cmap at 0xF000+code or the raw code; others
// decode the code with WinAnsi or MacRoman.
func (p *Program) GlyphForCode(code int, symbolic bool, encoding string) (sfnt.GlyphIndex, bool) {
	if p.sfnt == nil || code < 0 || code > 255 {
		return 0, false
	}
	var buf sfnt.Buffer
	if symbolic {
		for _, r := range []rune{rune(0xF000 + code), rune(code)} {
			if gid, err := p.sfnt.GlyphIndex(&buf, r); err == nil && gid != 0 {
				return gid, true
			}
		}
		return 0, false
	}
	cm := charmap.Windows1252
	if encoding == "MacRomanEncoding" {
		cm = charmap.Macintosh
	}
	r := cm.DecodeByte(byte(code))
	gid, err := p.sfnt.GlyphIndex(&buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return gid, true
}

// AdvanceWidth returns the advance of gid in glyph space units (1/1000 em).
func (p *Program) AdvanceWidth(gid sfnt.GlyphIndex) (float64, error) {
	if p.sfnt == nil {
		return 0, fmt.Errorf("fonts: %s program has no hmtx access", p.Kind)
	}
	upem := p.sfnt.UnitsPerEm()
	if upem == 0 {
		return 0, errors.New("fonts: unitsPerEm is zero")
	}
	var buf sfnt.Buffer
	adv, err := p.sfnt.GlyphAdvance(&buf, gid, fixed.Int26_6(upem)<<6, xfont.HintingNone)
	if err != nil {
		return 0, err
	}
	return float64(adv) * 1000 / (64 * float64(upem)), nil
}

// WidthMismatch describes a Widths entry that disagrees with the program.
type WidthMismatch struct {
	Code     int
	Declared int
	Actual   float64
}

// CheckWidths compares declared widths with the glyph advances of the
// program. Codes without a glyph are skipped; differences up to one unit
// are tolerated.
func (p *Program) CheckWidths(widths map[int]int, symbolic bool, encoding string) []WidthMismatch {
	var out []WidthMismatch
	for code, w := range widths {
		gid, ok := p.GlyphForCode(code, symbolic, encoding)
		if !ok {
			continue
		}
		actual, err := p.AdvanceWidth(gid)
		if err != nil {
			continue
		}
		if math.Abs(actual-float64(w)) > 1 {
			out = append(out, WidthMismatch{Code: code, Declared: w, Actual: actual})
		}
	}
	return out
}
