package pdfa

import (
	"strings"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/fonts"
	"github.com/wudi/pdfakit/ir/semantic"
)

var standardEncodings = map[string]bool{
	"MacRomanEncoding": true,
	"WinAnsiEncoding":  true,
	"StandardEncoding": true,
}

var adobeOrderings = map[string]bool{
	"GB1":    true,
	"CNS1":   true,
	"Japan1": true,
	"Korea1": true,
}

func (c *Checker) checkFont(ctx compliance.Context, f *semantic.Font, loc string, depth int) {
	if f == nil || !c.once(f) || !c.once(refKey{"font", f.OriginalRef}) {
		return
	}
	switch f.Subtype {
	case "Type3":
		inner := f.Resources
		c.checkResourcesDepth(ctx, inner, loc, depth+1)
		for _, glyph := range sortedKeys(f.CharProcs) {
			if c.stopped() {
				return
			}
			c.checkContent(ctx, semantic.ContentStream{RawBytes: f.CharProcs[glyph]}, inner, loc+" glyph "+glyph)
		}
	case "Type0":
		c.checkCompositeFont(f, loc)
	default:
		c.checkSimpleFont(f, loc)
	}
	if c.level.RequiresUnicode() && len(f.ToUnicodeCMap) == 0 && !hasImplicitUnicode(f) {
		c.violate(CodeMissingToUnicode, loc, fontName(f))
	}
}

func fontName(f *semantic.Font) string {
	if f.BaseFont != "" {
		return f.BaseFont
	}
	return f.Subtype
}

// isSubset reports whether the base font carries a subset tag like ABCDEF+.
func isSubset(name string) bool {
	tag, _, ok := strings.Cut(name, "+")
	if !ok || len(tag) != 6 {
		return false
	}
	for _, r := range tag {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// fontEncoding returns the base encoding name of a simple font.
func fontEncoding(f *semantic.Font) string {
	if f.Encoding != "" {
		return f.Encoding
	}
	if f.EncodingDict != nil {
		return f.EncodingDict.BaseEncoding
	}
	return ""
}

func isFontEmbedded(f *semantic.Font) bool {
	if f.Subtype == "Type3" {
		return true
	}
	desc := f.Descriptor
	if f.Subtype == "Type0" {
		if f.DescendantFont == nil {
			return false
		}
		desc = f.DescendantFont.Descriptor
	}
	return desc != nil && len(desc.FontFile) > 0
}

func (c *Checker) inspect(desc *semantic.FontDescriptor, name, loc string) *fonts.Program {
	p, err := fonts.Inspect(desc.FontFile, desc.FontFileType, desc.FontFileSubtype)
	if err != nil {
		c.violate(CodeInvalidFontProgram, loc, name, err.Error())
		return nil
	}
	return p
}

func (c *Checker) checkSimpleFont(f *semantic.Font, loc string) {
	name := fontName(f)
	if !isFontEmbedded(f) {
		c.violate(CodeFontNotEmbedded, loc, name)
		return
	}
	desc := f.Descriptor
	prog := c.inspect(desc, name, loc)

	switch f.Subtype {
	case "Type1", "MMType1", "":
		if desc.CharSet == "" {
			if c.level.IsLevelA1() && isSubset(f.BaseFont) {
				c.violate(CodeMissingCharSet, loc, name)
			}
			return
		}
		if prog == nil || len(prog.Glyphs) == 0 {
			return
		}
		listed := make(map[string]bool)
		for _, g := range strings.Split(desc.CharSet, "/") {
			if g = strings.TrimSpace(g); g != "" {
				listed[g] = true
			}
		}
		for _, g := range prog.Glyphs {
			if g != ".notdef" && !listed[g] {
				c.violate(CodeCharSetIncomplete, loc, name)
				return
			}
		}
	case "TrueType":
		c.checkTrueType(f, prog, loc)
	}
}

func (c *Checker) checkTrueType(f *semantic.Font, prog *fonts.Program, loc string) {
	name := fontName(f)
	symbolic := f.IsSymbolic()
	enc := fontEncoding(f)
	if symbolic {
		if f.Encoding != "" || f.EncodingDict != nil {
			c.violate(CodeSymbolicEncoding, loc, name)
		}
	} else if enc != "MacRomanEncoding" && enc != "WinAnsiEncoding" {
		c.violate(CodeNonSymbolicEncoding, loc, name)
	}
	if prog == nil {
		return
	}
	switch {
	case !prog.HasTable("cmap"):
		c.violate(CodeFontCmap, loc, name)
	case symbolic:
		if len(prog.Cmaps) != 1 && !prog.HasCmap(3, 0) {
			c.violate(CodeFontCmap, loc, name)
		}
	default:
		if !prog.HasCmap(3, 1) && !prog.HasCmap(1, 0) {
			c.violate(CodeFontCmap, loc, name)
		}
	}
	if len(f.Widths) == 0 {
		return
	}
	if bad := prog.CheckWidths(f.Widths, symbolic, enc); len(bad) > 0 {
		m := bad[0]
		for _, w := range bad[1:] {
			if w.Code < m.Code {
				m = w
			}
		}
		c.violate(CodeFontWidths, loc, m.Code, name, m.Declared, m.Actual)
	}
}

func (c *Checker) checkCompositeFont(f *semantic.Font, loc string) {
	name := fontName(f)
	if !isFontEmbedded(f) {
		c.violate(CodeFontNotEmbedded, loc, name)
		return
	}
	df := f.DescendantFont
	if df.Subtype == "CIDFontType2" && df.CIDToGIDMapName == "" && len(df.CIDToGIDMap) == 0 {
		c.violate(CodeMissingCIDToGIDMap, loc, name)
	}
	if limit := c.level.Limits().MaxCID; limit > 0 {
		for cid := range df.W {
			if cid > limit {
				c.violate(CodeCIDTooLarge, loc, cid, limit)
				break
			}
		}
	}
	c.inspect(df.Descriptor, name, loc)
}

// hasImplicitUnicode reports whether text in f maps to Unicode without a
// ToUnicode CMap: simple fonts with a standard encoding and no
// differences, and CID fonts with an Adobe character collection.
func hasImplicitUnicode(f *semantic.Font) bool {
	switch f.Subtype {
	case "Type0":
		if f.DescendantFont == nil {
			return false
		}
		csi := f.DescendantFont.CIDSystemInfo
		return csi.Registry == "Adobe" && adobeOrderings[csi.Ordering]
	case "Type3":
		return false
	}
	if f.EncodingDict != nil && len(f.EncodingDict.Differences) > 0 {
		return false
	}
	enc := fontEncoding(f)
	if enc == "" {
		return !f.IsSymbolic()
	}
	return standardEncodings[enc]
}
