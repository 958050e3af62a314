package pdfa_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/fonts"
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/xmp"
)

// ruleDocument is a one page document with an identifier, an sRGB output
// intent and an embedded TrueType font.
func ruleDocument() *semantic.Document {
	return &semantic.Document{
		Trailer:       raw.Trailer{ID: [][]byte{{1, 2}, {1, 2}}},
		OutputIntents: []semantic.OutputIntent{srgbIntent()},
		Pages: []*semantic.Page{{
			MediaBox: semantic.Rectangle{URX: 595, URY: 842},
			Resources: &semantic.Resources{
				Fonts: map[string]*semantic.Font{"F1": embeddedFont()},
			},
		}},
	}
}

func resources(d *semantic.Document) *semantic.Resources { return d.Pages[0].Resources }

func annotate(d *semantic.Document, a semantic.Annotation) {
	d.Pages[0].Annotations = append(d.Pages[0].Annotations, a)
}

func note(flags int, hasFlags bool) *semantic.TextAnnotation {
	return &semantic.TextAnnotation{BaseAnnotation: semantic.BaseAnnotation{
		Subtype:  "Text",
		Contents: "note",
		Flags:    flags,
		HasFlags: hasFlags,
	}}
}

func formXObject() *semantic.XObject { return &semantic.XObject{Subtype: "Form"} }

// type1Program builds an eexec encrypted Type 1 program defining glyphs.
func type1Program(glyphs ...string) []byte {
	var priv bytes.Buffer
	priv.WriteString("abcd")
	priv.WriteString("dup /Private 8 dict dup begin\n/CharStrings ")
	priv.WriteString("3 dict dup begin\n")
	for _, g := range glyphs {
		priv.WriteString("/" + g + " 4 RD ")
		priv.Write([]byte{1, 2, 3, 4})
		priv.WriteString(" ND\n")
	}
	priv.WriteString("end\nmark currentfile closefile\n")

	var pfa bytes.Buffer
	pfa.WriteString("%!PS-AdobeFont-1.0: Test 001.000\n/FontName /Test def\ncurrentfile eexec\n")
	pfa.Write(fonts.Encrypt(priv.Bytes(), 55665))
	return pfa.Bytes()
}

func type1Font(name, charSet string) *semantic.Font {
	return &semantic.Font{
		Subtype:  "Type1",
		BaseFont: name,
		Encoding: "WinAnsiEncoding",
		Descriptor: &semantic.FontDescriptor{
			Flags:        semantic.FontFlagNonsymbolic,
			CharSet:      charSet,
			FontFile:     type1Program("a", "b"),
			FontFileType: "FontFile",
		},
	}
}

func symbolicFont(encoding string) *semantic.Font {
	f := embeddedFont()
	f.Encoding = encoding
	f.Descriptor.Flags = semantic.FontFlagSymbolic
	return f
}

func cidFont() *semantic.Font {
	return &semantic.Font{
		Subtype:  "Type0",
		BaseFont: "GoRegular",
		Encoding: "Identity-H",
		DescendantFont: &semantic.CIDFont{
			Subtype:         "CIDFontType2",
			BaseFont:        "GoRegular",
			CIDSystemInfo:   semantic.CIDSystemInfo{Registry: "Adobe", Ordering: "Identity"},
			CIDToGIDMapName: "Identity",
			Descriptor: &semantic.FontDescriptor{
				Flags:        semantic.FontFlagSymbolic,
				FontFile:     goregular.TTF,
				FontFileType: "FontFile2",
			},
		},
		ToUnicodeCMap: []byte("/CIDInit /ProcSet findresource begin"),
	}
}

func iccVersion(major byte) []byte {
	p := append([]byte(nil), cmm.SRGBProfile()...)
	p[8] = major
	return p
}

func metadata(m *xmp.Metadata) *semantic.XMPMetadata {
	return &semantic.XMPMetadata{Raw: m.Marshal()}
}

func TestRuleCodes(t *testing.T) {
	goTo := semantic.GoToAction{}
	nop := func(*semantic.Document) {}

	cases := []struct {
		code string
		bad  func(d *semantic.Document)
		// good is a near miss that must stay clean at the failing levels.
		good   func(d *semantic.Document)
		fails  []pdfa.Level
		passes []pdfa.Level
	}{
		// File structure
		{
			code:  "TRL001",
			bad:   func(d *semantic.Document) { d.Trailer.ID = nil },
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA4},
		},
		{
			code:   "VER002",
			bad:    func(d *semantic.Document) { d.Catalog = &semantic.Catalog{Version: "1.7"} },
			fails:  []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA4},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},

		// Implementation limits
		{
			code:   "LIM002",
			bad:    func(d *semantic.Document) { d.Stats = &raw.Stats{MaxNameLen: 200} },
			fails:  []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA4},
		},
		{
			code:   "LIM004",
			bad:    func(d *semantic.Document) { d.Stats = &raw.Stats{MaxReal: 40000} },
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code:   "LIM006",
			bad:    func(d *semantic.Document) { d.Stats = &raw.Stats{MaxDictLen: 5000} },
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code: "LIM008",
			bad: func(d *semantic.Document) {
				resources(d).ColorSpaces = map[string]semantic.ColorSpace{
					"CS1": &semantic.DeviceNColorSpace{Names: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code: "LIM010",
			bad: func(d *semantic.Document) {
				f := cidFont()
				f.DescendantFont.W = map[int]int{70000: 500}
				resources(d).Fonts["F1"] = f
			},
			fails:  []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA4},
		},

		// Pages
		{
			code:  "PAG002",
			bad:   func(d *semantic.Document) { d.Pages[0].HasPresSteps = true },
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA4},
		},

		// Metadata
		{
			code: "MET002",
			bad: func(d *semantic.Document) {
				d.Metadata = metadata(&xmp.Metadata{Part: 1, Conformance: "B"})
				d.Metadata.Filters = []string{"FlateDecode"}
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code:  "MET003",
			bad:   func(d *semantic.Document) { d.Metadata = &semantic.XMPMetadata{Raw: []byte("not an xmp packet")} },
			good:  func(d *semantic.Document) { d.Metadata = metadata(&xmp.Metadata{Part: 2, Conformance: "B"}) },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "MET009",
			bad:   func(d *semantic.Document) { d.Metadata = metadata(&xmp.Metadata{Title: "Untitled"}) },
			good:  func(d *semantic.Document) { d.Metadata = metadata(&xmp.Metadata{Part: 2, Title: "Untitled"}) },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA4},
		},

		// Signatures
		{
			code: "SIG005",
			bad: func(d *semantic.Document) {
				d.Signatures = []*semantic.Signature{{
					SubFilter: "ETSI.RFC3161",
					Contents:  []byte("garbage"),
					ByteRange: []int64{0, 100, 116, 40},
				}}
			},
			fails:  []pdfa.Level{pdfa.PDFA4},
			passes: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},

		// Catalog and forms
		{
			code:  "CAT001",
			bad:   func(d *semantic.Document) { d.Catalog = &semantic.Catalog{HasAlternatePresentations: true} },
			good:  func(d *semantic.Document) { d.Catalog = &semantic.Catalog{} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "CAT002",
			bad:   func(d *semantic.Document) { d.Catalog = &semantic.Catalog{JavaScriptNames: []string{"init"}} },
			good:  func(d *semantic.Document) { d.Catalog = &semantic.Catalog{} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "CAT003",
			bad:   func(d *semantic.Document) { d.Catalog = &semantic.Catalog{NeedsRendering: true} },
			good:  func(d *semantic.Document) { d.Catalog = &semantic.Catalog{} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:   "CAT004",
			bad:    func(d *semantic.Document) { d.Catalog = &semantic.Catalog{HasRequirements: true} },
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code:  "FRM001",
			bad:   func(d *semantic.Document) { d.AcroForm = &semantic.AcroForm{NeedAppearances: true} },
			good:  func(d *semantic.Document) { d.AcroForm = &semantic.AcroForm{} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "FRM002",
			bad:   func(d *semantic.Document) { d.AcroForm = &semantic.AcroForm{HasXFA: true} },
			good:  func(d *semantic.Document) { d.AcroForm = &semantic.AcroForm{} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},

		// Actions
		{
			code: "ACT004",
			bad: func(d *semantic.Document) {
				d.Catalog = &semantic.Catalog{AdditionalActions: map[string]semantic.Action{"WC": goTo}}
			},
			good:  func(d *semantic.Document) { d.Catalog = &semantic.Catalog{OpenAction: goTo} },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:   "ACT005",
			bad:    func(d *semantic.Document) { d.Pages[0].AdditionalActions = map[string]semantic.Action{"O": goTo} },
			fails:  []pdfa.Level{pdfa.PDFA2B, pdfa.PDFA4},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "ACT006",
			bad: func(d *semantic.Document) {
				d.AcroForm = &semantic.AcroForm{Fields: []*semantic.FormField{{
					Name: "amount", FieldType: "Tx",
					AdditionalActions: map[string]semantic.Action{"K": goTo},
				}}}
			},
			good: func(d *semantic.Document) {
				d.AcroForm = &semantic.AcroForm{Fields: []*semantic.FormField{{Name: "amount", FieldType: "Tx", Action: goTo}}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},

		// Colour spaces
		{
			code: "CLR004",
			bad: func(d *semantic.Document) {
				resources(d).ColorSpaces = map[string]semantic.ColorSpace{
					"CS1": &semantic.ICCBasedColorSpace{N: 4, Profile: cmm.SRGBProfile()},
				}
			},
			good: func(d *semantic.Document) {
				resources(d).ColorSpaces = map[string]semantic.ColorSpace{
					"CS1": &semantic.ICCBasedColorSpace{N: 3, Profile: cmm.SRGBProfile()},
				}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "CLR005",
			bad: func(d *semantic.Document) {
				resources(d).ColorSpaces = map[string]semantic.ColorSpace{
					"CS1": &semantic.SeparationColorSpace{Name: "Spot", Alternate: semantic.DeviceColorSpace{Name: "DeviceRGB"}},
					"CS2": &semantic.SeparationColorSpace{Name: "Spot", Alternate: semantic.DeviceColorSpace{Name: "DeviceGray"}},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "CLR006",
			bad: func(d *semantic.Document) {
				resources(d).ColorSpaces = map[string]semantic.ColorSpace{
					"CS1": &semantic.ICCBasedColorSpace{N: 3, Profile: iccVersion(4)},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},

		// Transparency
		{
			code: "TRN002",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{
					"Im1": {Subtype: "Image", Width: 1, Height: 1, SMask: &semantic.XObject{Subtype: "Image"}},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code: "TRN003",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{
					"Fm1": {Subtype: "Form", Group: &semantic.TransparencyGroup{S: "Transparency"}},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code: "TRN004",
			bad: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {BlendMode: "Dissolve"}}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B, pdfa.PDFA4},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code:   "TRN006",
			bad:    func(d *semantic.Document) { d.Pages[0].Group = &semantic.TransparencyGroup{S: "Transparency"} },
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},

		// Graphics state
		{
			code: "GST001",
			bad: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {Transfer: "Identity"}}
			},
			good: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "GST002",
			bad: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {Transfer2: "Identity"}}
			},
			good: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {Transfer2: "Default"}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "GST003",
			bad: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {Halftone: &semantic.Halftone{Type: 6}}}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "GST004",
			bad: func(d *semantic.Document) {
				resources(d).ExtGStates = map[string]semantic.ExtGState{"GS1": {Halftone: &semantic.Halftone{Type: 1, Name: "Screen"}}}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},

		// XObjects
		{
			code: "XOB001",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"X1": {Subtype: "PS"}}
			},
			good: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"X1": {Subtype: "Form"}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "XOB002",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"X1": {Subtype: "Form", HasRef: true}}
			},
			good: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"X1": {Subtype: "Form"}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "XOB003",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"Im1": {Subtype: "Image", HasOPI: true}}
			},
			good: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"Im1": {Subtype: "Image"}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "XOB004",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"Im1": {Subtype: "Image", HasAlternates: true}}
			},
			good: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{"Im1": {Subtype: "Image"}}
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "XOB007",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{
					"Im1": {Subtype: "Image", Filters: []string{"JPXDecode"}, BitsPerComponent: 40},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "XOB008",
			bad: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{
					"Im1": {Subtype: "Image", Filters: []string{"JPXDecode"}, Data: []byte("jp2 codestream")},
				}
			},
			good: func(d *semantic.Document) {
				resources(d).XObjects = map[string]semantic.XObject{
					"Im1": {Subtype: "Image", Filters: []string{"JPXDecode"}, Data: []byte("jp2h colr codestream")},
				}
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},

		// Fonts
		{
			code:   "FNT002",
			bad:    func(d *semantic.Document) { resources(d).Fonts["F1"] = type1Font("ABCDEF+Test", "") },
			good:   func(d *semantic.Document) { resources(d).Fonts["F1"] = type1Font("Test", "") },
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code:  "FNT003",
			bad:   func(d *semantic.Document) { resources(d).Fonts["F1"] = type1Font("ABCDEF+Test", "/a") },
			good:  func(d *semantic.Document) { resources(d).Fonts["F1"] = type1Font("ABCDEF+Test", "/a/b") },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "FNT004",
			bad: func(d *semantic.Document) {
				f := cidFont()
				f.DescendantFont.CIDToGIDMapName = ""
				resources(d).Fonts["F1"] = f
			},
			good:  func(d *semantic.Document) { resources(d).Fonts["F1"] = cidFont() },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "FNT005",
			bad: func(d *semantic.Document) {
				f := embeddedFont()
				f.Encoding = "StandardEncoding"
				resources(d).Fonts["F1"] = f
			},
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "FNT006",
			bad:   func(d *semantic.Document) { resources(d).Fonts["F1"] = symbolicFont("WinAnsiEncoding") },
			good:  func(d *semantic.Document) { resources(d).Fonts["F1"] = symbolicFont("") },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			// Go Regular carries three cmap subtables and no (3,0) one.
			code:  "FNT007",
			bad:   func(d *semantic.Document) { resources(d).Fonts["F1"] = symbolicFont("") },
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "FNT008",
			bad:   func(d *semantic.Document) { resources(d).Fonts["F1"].Widths = map[int]int{'A': 9999} },
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "FNT009",
			bad: func(d *semantic.Document) {
				resources(d).Fonts["F1"] = &semantic.Font{Subtype: "Type3", BaseFont: "Glyphs"}
			},
			fails:  []pdfa.Level{pdfa.PDFA1A, pdfa.PDFA2U},
			passes: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "FNT010",
			bad:   func(d *semantic.Document) { resources(d).Fonts["F1"].Descriptor.FontFile = []byte("not a font") },
			good:  nop,
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},

		// Annotations
		{
			code:  "ANN002",
			bad:   func(d *semantic.Document) { annotate(d, note(0, false)) },
			good:  func(d *semantic.Document) { annotate(d, note(semantic.AnnotFlagPrint, true)) },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code:  "ANN003",
			bad:   func(d *semantic.Document) { annotate(d, note(0, true)) },
			good:  func(d *semantic.Document) { annotate(d, note(semantic.AnnotFlagPrint, true)) },
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "ANN004",
			bad: func(d *semantic.Document) {
				annotate(d, note(semantic.AnnotFlagPrint|semantic.AnnotFlagToggleNoView, true))
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "ANN005",
			bad: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				ca := 0.5
				a.CA = &ca
				annotate(d, a)
			},
			fails:  []pdfa.Level{pdfa.PDFA1B},
			passes: []pdfa.Level{pdfa.PDFA2B},
		},
		{
			code: "ANN006",
			bad: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				a.Appearance = &semantic.AppearanceDict{
					N: &semantic.AppearanceEntry{Stream: formXObject()},
					D: &semantic.AppearanceEntry{Stream: formXObject()},
				}
				annotate(d, a)
			},
			good: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				a.Appearance = &semantic.AppearanceDict{N: &semantic.AppearanceEntry{Stream: formXObject()}}
				annotate(d, a)
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "ANN007",
			bad: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				a.RectVal = semantic.Rectangle{URX: 10, URY: 10}
				annotate(d, a)
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "ANN008",
			bad: func(d *semantic.Document) {
				annotate(d, &semantic.WidgetAnnotation{
					BaseAnnotation: semantic.BaseAnnotation{
						Subtype: "Widget", Flags: semantic.AnnotFlagPrint, HasFlags: true,
						Appearance: &semantic.AppearanceDict{N: &semantic.AppearanceEntry{Stream: formXObject()}},
					},
					Field: &semantic.FormField{Name: "agree", FieldType: "Btn"},
				})
			},
			good: func(d *semantic.Document) {
				annotate(d, &semantic.WidgetAnnotation{
					BaseAnnotation: semantic.BaseAnnotation{
						Subtype: "Widget", Flags: semantic.AnnotFlagPrint, HasFlags: true,
						Appearance: &semantic.AppearanceDict{N: &semantic.AppearanceEntry{
							States: map[string]*semantic.XObject{"Off": formXObject(), "Yes": formXObject()},
						}},
					},
					Field: &semantic.FormField{Name: "agree", FieldType: "Btn"},
				})
			},
			fails: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
		{
			code: "ANN009",
			bad: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				a.AdditionalActions = map[string]semantic.Action{"E": goTo}
				annotate(d, a)
			},
			fails:  []pdfa.Level{pdfa.PDFA2B},
			passes: []pdfa.Level{pdfa.PDFA1B},
		},
		{
			code: "ANN010",
			bad: func(d *semantic.Document) {
				a := note(semantic.AnnotFlagPrint, true)
				a.Contents = ""
				annotate(d, a)
			},
			good:   func(d *semantic.Document) { annotate(d, note(semantic.AnnotFlagPrint, true)) },
			fails:  []pdfa.Level{pdfa.PDFA1A, pdfa.PDFA2A},
			passes: []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B},
		},
	}

	ctx := context.Background()
	raised := func(t *testing.T, code string, mutate func(*semantic.Document), level pdfa.Level) bool {
		t.Helper()
		doc := ruleDocument()
		mutate(doc)
		rep, err := pdfa.NewChecker(level).CheckDocument(ctx, doc)
		require.NoError(t, err)
		return rep.Has(code)
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			require.NotEmpty(t, tc.fails)
			require.True(t, tc.good != nil || len(tc.passes) > 0, "a clean counterpart is required")
			for _, level := range tc.fails {
				assert.True(t, raised(t, tc.code, tc.bad, level), "%s should be raised at %s", tc.code, level)
				if tc.good != nil {
					assert.False(t, raised(t, tc.code, tc.good, level), "%s raised for the clean variant at %s", tc.code, level)
				}
			}
			for _, level := range tc.passes {
				assert.False(t, raised(t, tc.code, tc.bad, level), "%s should not be raised at %s", tc.code, level)
			}
		})
	}
}
