package semantic

import (
	"github.com/wudi/pdfakit/ir/raw"
)

// Document is the semantic representation of a PDF.
type Document struct {
	Pages           []*Page
	Catalog         *Catalog
	Info            *DocumentInfo
	Metadata        *XMPMetadata
	Lang            string
	Marked          bool
	StructTree      *StructureTree
	AcroForm        *AcroForm
	OCProperties    *OCProperties
	OutputIntents   []OutputIntent
	EmbeddedFiles   []EmbeddedFile // /Names /EmbeddedFiles
	AssociatedFiles []EmbeddedFile // catalog /AF
	Signatures      []*Signature
	Trailer         raw.Trailer
	Stats           *raw.Stats // nil when the document was built in memory
	OwnerPassword   string
	UserPassword    string
	Permissions     raw.Permissions
	Encrypted       bool
	OriginalRef     raw.ObjectRef
	Dirty           bool
}

// Catalog holds the catalog entries that are not modelled elsewhere.
type Catalog struct {
	AdditionalActions         map[string]Action // /AA
	OpenAction                Action
	NeedsRendering            bool
	HasRequirements           bool
	HasAlternatePresentations bool
	JavaScriptNames           []string // /Names /JavaScript
	Version                   string   // /Version
	OriginalRef               raw.ObjectRef
	Dirty                     bool
}

// Page models a single PDF page.
type Page struct {
	Index             int
	MediaBox          Rectangle
	CropBox           Rectangle
	TrimBox           Rectangle
	BleedBox          Rectangle
	ArtBox            Rectangle
	Rotate            int // degrees: 0/90/180/270
	UserUnit          float64
	Resources         *Resources
	Contents          []ContentStream
	Annotations       []Annotation
	Group             *TransparencyGroup // /Group
	AdditionalActions map[string]Action  // /AA
	HasPresSteps      bool
	Trans             *Transition
	OriginalRef       raw.ObjectRef
	Dirty             bool
}

// Boxes returns the page boundaries that are set, keyed by name.
func (p *Page) Boxes() map[string]Rectangle {
	out := map[string]Rectangle{"MediaBox": p.MediaBox}
	for name, r := range map[string]Rectangle{
		"CropBox":  p.CropBox,
		"TrimBox":  p.TrimBox,
		"BleedBox": p.BleedBox,
		"ArtBox":   p.ArtBox,
	} {
		if !r.IsZero() {
			out[name] = r
		}
	}
	return out
}

// Transition describes the visual transition when moving to the page.
type Transition struct {
	Style    string   // /S
	Duration *float64 // /D
}

// ContentStream is a sequence of operations on a page or form.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation represents a PDF operator and operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

type DictOperand struct{ Values map[string]Operand }

func (DictOperand) operand()     {}
func (DictOperand) Type() string { return "dict" }

type BoolOperand struct{ Value bool }

func (BoolOperand) operand()     {}
func (BoolOperand) Type() string { return "boolean" }

type NullOperand struct{}

func (NullOperand) operand()     {}
func (NullOperand) Type() string { return "null" }

type InlineImageOperand struct {
	Image DictOperand
	Data  []byte
}

func (InlineImageOperand) operand()     {}
func (InlineImageOperand) Type() string { return "inline_image" }

// Resources holds per-page resources with optional inheritance.
type Resources struct {
	Fonts       map[string]*Font
	ExtGStates  map[string]ExtGState
	ColorSpaces map[string]ColorSpace
	XObjects    map[string]XObject
	Patterns    map[string]Pattern
	Shadings    map[string]Shading
	Properties  map[string]PropertyList
	OriginalRef raw.ObjectRef
	Dirty       bool
}

// DefaultColorSpace returns the DefaultGray, DefaultRGB or DefaultCMYK
// override for the given device family, or nil.
func (r *Resources) DefaultColorSpace(device string) ColorSpace {
	if r == nil || r.ColorSpaces == nil {
		return nil
	}
	switch device {
	case "DeviceGray":
		return r.ColorSpaces["DefaultGray"]
	case "DeviceRGB":
		return r.ColorSpaces["DefaultRGB"]
	case "DeviceCMYK":
		return r.ColorSpaces["DefaultCMYK"]
	}
	return nil
}

// Font represents a font resource.
type Font struct {
	Subtype        string // Type1 (default), MMType1, TrueType, Type0, Type3
	BaseFont       string
	Encoding       string
	EncodingDict   *EncodingDict // For custom encodings
	ToUnicodeCMap  []byte        // ToUnicode CMap stream
	FirstChar      int
	Widths         map[int]int // character code -> width
	CIDSystemInfo  *CIDSystemInfo
	DescendantFont *CIDFont
	Descriptor     *FontDescriptor
	// Type 3 specific fields
	CharProcs   map[string][]byte
	FontMatrix  []float64
	Resources   *Resources
	FontBBox    Rectangle
	OriginalRef raw.ObjectRef
	Dirty       bool
}

// IsSymbolic reports whether the descriptor flags mark the font symbolic.
func (f *Font) IsSymbolic() bool {
	return f.Descriptor != nil && f.Descriptor.Flags&FontFlagSymbolic != 0
}

// Font descriptor flag bits.
const (
	FontFlagSymbolic    = 1 << 2
	FontFlagNonsymbolic = 1 << 5
)

// EncodingDict represents a custom encoding dictionary.
type EncodingDict struct {
	BaseEncoding string
	Differences  []EncodingDifference
}

// EncodingDifference represents a difference in encoding.
type EncodingDifference struct {
	Code int
	Name string
}

// ExtGState captures graphics state parameters relevant to rendering.
type ExtGState struct {
	LineWidth       *float64
	StrokeAlpha     *float64
	FillAlpha       *float64
	BlendMode       string // /BM
	AlphaSource     *bool  // /AIS
	TextKnockout    *bool  // /TK
	Overprint       *bool  // /OP
	OverprintFill   *bool  // /op
	OverprintMode   *int   // /OPM
	SoftMask        *SoftMaskDict
	Transfer        string // /TR, "" when absent; "Identity" or "Function"
	Transfer2       string // /TR2
	Halftone        *Halftone
	RenderingIntent string // /RI
	OriginalRef     raw.ObjectRef
	Dirty           bool
}

// Halftone describes the /HT entry of a graphics state.
type Halftone struct {
	Type int    // /HalftoneType
	Name string // /HalftoneName
}

// SoftMaskDict represents a soft-mask dictionary used in ExtGState.
type SoftMaskDict struct {
	Subtype       string    // /S (Alpha, Luminosity)
	Group         *XObject  // /G
	BackdropColor []float64 // /BC
	Transfer      string    // /TR
}

// TransparencyGroup describes a group attributes dictionary.
type TransparencyGroup struct {
	S        string     // /S, normally Transparency
	CS       ColorSpace // /CS
	Isolated bool       // /I
	Knockout bool       // /K
}

// IsTransparency reports whether the group is a transparency group.
func (g *TransparencyGroup) IsTransparency() bool {
	return g != nil && (g.S == "" || g.S == "Transparency")
}

// ColorSpace references a named colorspace.
type ColorSpace interface {
	ColorSpaceName() string
}

type DeviceColorSpace struct {
	Name string
}

func (cs DeviceColorSpace) ColorSpaceName() string { return cs.Name }

// CIEBasedColorSpace covers CalGray, CalRGB and Lab.
type CIEBasedColorSpace struct {
	Family     string
	WhitePoint []float64
}

func (cs *CIEBasedColorSpace) ColorSpaceName() string { return cs.Family }

// ICCBasedColorSpace represents an ICC-based color space.
type ICCBasedColorSpace struct {
	N           int
	Profile     []byte
	Alternate   ColorSpace
	Range       []float64
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (cs *ICCBasedColorSpace) ColorSpaceName() string { return "ICCBased" }

// SeparationColorSpace represents a Separation color space.
type SeparationColorSpace struct {
	Name          string
	Alternate     ColorSpace
	TintTransform Function
	OriginalRef   raw.ObjectRef
	Dirty         bool
}

func (cs *SeparationColorSpace) ColorSpaceName() string { return "Separation" }

// DeviceNColorSpace represents a DeviceN color space.
type DeviceNColorSpace struct {
	Names         []string
	Alternate     ColorSpace
	TintTransform Function
	Attributes    *DeviceNAttributes
	OriginalRef   raw.ObjectRef
	Dirty         bool
}

func (cs *DeviceNColorSpace) ColorSpaceName() string { return "DeviceN" }

type DeviceNAttributes struct {
	Subtype   string
	Colorants map[string]*SeparationColorSpace
}

// IndexedColorSpace represents an Indexed color space.
type IndexedColorSpace struct {
	Base        ColorSpace
	Hival       int
	Lookup      []byte
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (cs *IndexedColorSpace) ColorSpaceName() string { return "Indexed" }

// PatternColorSpace represents the Pattern color space.
type PatternColorSpace struct {
	Underlying ColorSpace // Optional, for uncolored patterns
}

func (cs *PatternColorSpace) ColorSpaceName() string { return "Pattern" }

// XObject describes an image, form or other external object.
type XObject struct {
	Subtype          string // Image, Form, PS
	Subtype2         string // /Subtype2 on forms, PS marks PostScript
	Width            int
	Height           int
	ColorSpace       ColorSpace
	BitsPerComponent int
	ImageMask        bool
	Data             []byte
	Filters          []string
	BBox             Rectangle
	Matrix           []float64
	Resources        *Resources
	Contents         *ContentStream // Form XObjects
	Interpolate      bool
	Intent           string
	SMask            *XObject
	SMaskInData      int
	Group            *TransparencyGroup
	HasOPI           bool
	HasAlternates    bool
	HasRef           bool // reference XObject
	AssociatedFiles  []EmbeddedFile
	OriginalRef      raw.ObjectRef
	Dirty            bool
}

// Image is an alias for XObject for image convenience APIs.
type Image = XObject

// Pattern represents a PDF pattern.
type Pattern interface {
	PatternType() int
	Reference() raw.ObjectRef
	SetReference(raw.ObjectRef)
}

type BasePattern struct {
	Type        int
	Matrix      []float64
	Ref         raw.ObjectRef
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (p *BasePattern) PatternType() int             { return p.Type }
func (p *BasePattern) Reference() raw.ObjectRef     { return p.Ref }
func (p *BasePattern) SetReference(r raw.ObjectRef) { p.Ref = r }

// TilingPattern (Type 1)
type TilingPattern struct {
	BasePattern
	PaintType  int
	TilingType int
	BBox       Rectangle
	XStep      float64
	YStep      float64
	Resources  *Resources
	Content    []byte
}

// ShadingPattern (Type 2)
type ShadingPattern struct {
	BasePattern
	Shading   Shading
	ExtGState *ExtGState
}

// Shading is the interface for all shading types.
type Shading interface {
	ShadingType() int
	ShadingColorSpace() ColorSpace
	Reference() raw.ObjectRef
	SetReference(raw.ObjectRef)
}

// BaseShading provides common fields for shadings.
type BaseShading struct {
	Type        int
	ColorSpace  ColorSpace
	BBox        Rectangle
	AntiAlias   bool
	Ref         raw.ObjectRef
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (s *BaseShading) ShadingType() int              { return s.Type }
func (s *BaseShading) ShadingColorSpace() ColorSpace { return s.ColorSpace }
func (s *BaseShading) Reference() raw.ObjectRef      { return s.Ref }
func (s *BaseShading) SetReference(r raw.ObjectRef)  { s.Ref = r }

// FunctionShading represents function-based shadings (Type 1, 2, 3).
type FunctionShading struct {
	BaseShading
	Coords   []float64
	Domain   []float64
	Function []Function
	Extend   []bool
}

// MeshShading represents mesh-based shadings (Type 4, 5, 6, 7).
type MeshShading struct {
	BaseShading
	BitsPerCoordinate int
	BitsPerComponent  int
	BitsPerFlag       int
	Decode            []float64
	Function          Function
	Stream            []byte
}

// Rectangle represents a PDF rectangle.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the absolute horizontal extent.
func (r Rectangle) Width() float64 {
	if r.URX < r.LLX {
		return r.LLX - r.URX
	}
	return r.URX - r.LLX
}

// Height returns the absolute vertical extent.
func (r Rectangle) Height() float64 {
	if r.URY < r.LLY {
		return r.LLY - r.URY
	}
	return r.URY - r.LLY
}

// IsZero reports whether all coordinates are zero.
func (r Rectangle) IsZero() bool { return r == Rectangle{} }

// CIDSystemInfo describes the registry/ordering of a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// CIDFont describes a descendant font for Type0 fonts.
type CIDFont struct {
	Subtype         string // CIDFontType0 or CIDFontType2
	BaseFont        string
	CIDSystemInfo   CIDSystemInfo
	DW              int
	W               map[int]int
	CIDToGIDMap     []byte
	CIDToGIDMapName string
	Descriptor      *FontDescriptor
}

// FontDescriptor carries metrics and font file embedding details.
type FontDescriptor struct {
	FontName        string
	Flags           int
	ItalicAngle     float64
	Ascent          float64
	Descent         float64
	CapHeight       float64
	StemV           int
	FontBBox        [4]float64
	CharSet         string // /CharSet (Type1 subsets)
	CIDSet          []byte
	FontFile        []byte
	FontFileType    string // FontFile, FontFile2 or FontFile3
	FontFileSubtype string // Subtype of a FontFile3 stream (Type1C, CIDFontType0C, OpenType)
}

// EmbeddedFile models a file specification with an embedded stream.
type EmbeddedFile struct {
	Name         string // key in the name tree
	FileName     string // /F
	UnicodeName  string // /UF
	Description  string
	Relationship string // /AFRelationship
	Subtype      string // MIME type of the embedded stream
	Data         []byte
	Params       *EmbeddedFileParams
	OriginalRef  raw.ObjectRef
	Dirty        bool
}

// EmbeddedFileParams mirrors the /Params dictionary of an embedded file stream.
type EmbeddedFileParams struct {
	Size         int
	CreationDate string
	ModDate      string
	CheckSum     []byte
}

// DocumentInfo models /Info dictionary values.
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
	Trapped      string // "True", "False", or "Unknown"
	Keywords     []string
	Custom       map[string]string
	OriginalRef  raw.ObjectRef
	Dirty        bool
}

// Keys returns the names of the entries that are set.
func (i *DocumentInfo) Keys() []string {
	var keys []string
	add := func(name, v string) {
		if v != "" {
			keys = append(keys, name)
		}
	}
	add("Title", i.Title)
	add("Author", i.Author)
	add("Subject", i.Subject)
	add("Creator", i.Creator)
	add("Producer", i.Producer)
	add("CreationDate", i.CreationDate)
	add("ModDate", i.ModDate)
	add("Trapped", i.Trapped)
	if len(i.Keywords) > 0 {
		keys = append(keys, "Keywords")
	}
	for k := range i.Custom {
		keys = append(keys, k)
	}
	return keys
}

// XMPMetadata holds the catalog metadata stream.
type XMPMetadata struct {
	Raw         []byte
	Filters     []string
	OriginalRef raw.ObjectRef
	Dirty       bool
}

// OutputIntent models color output intent metadata.
type OutputIntent struct {
	S                         string
	OutputConditionIdentifier string
	Info                      string
	DestOutputProfile         []byte
	OriginalRef               raw.ObjectRef
	Dirty                     bool
}

// Signature represents a digital signature dictionary (Type /Sig).
type Signature struct {
	FieldName   string
	Filter      string
	SubFilter   string
	Contents    []byte
	Cert        []byte
	ByteRange   []int64
	Reference   []SigRef
	Name        string
	M           string
	Location    string
	Reason      string
	ContactInfo string
	OriginalRef raw.ObjectRef
	Dirty       bool
}

// SigRef represents a signature reference dictionary.
type SigRef struct {
	TransformMethod string
	DigestMethod    string
}

// Function represents a PDF function.
type Function interface {
	FunctionType() int
	FunctionDomain() []float64
	FunctionRange() []float64
	Reference() raw.ObjectRef
	SetReference(raw.ObjectRef)
}

type BaseFunction struct {
	Type        int
	Domain      []float64
	Range       []float64
	Ref         raw.ObjectRef
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (f *BaseFunction) FunctionType() int            { return f.Type }
func (f *BaseFunction) FunctionDomain() []float64    { return f.Domain }
func (f *BaseFunction) FunctionRange() []float64     { return f.Range }
func (f *BaseFunction) Reference() raw.ObjectRef     { return f.Ref }
func (f *BaseFunction) SetReference(r raw.ObjectRef) { f.Ref = r }

// SampledFunction (Type 0)
type SampledFunction struct {
	BaseFunction
	Size          []int
	BitsPerSample int
	Samples       []byte
}

// ExponentialFunction (Type 2)
type ExponentialFunction struct {
	BaseFunction
	C0 []float64
	C1 []float64
	N  float64
}

// StitchingFunction (Type 3)
type StitchingFunction struct {
	BaseFunction
	Functions []Function
	Bounds    []float64
	Encode    []float64
}

// PostScriptFunction (Type 4)
type PostScriptFunction struct {
	BaseFunction
	Code []byte
}

// PropertyList is a marker interface for objects that can be in the Properties resource dictionary.
type PropertyList interface {
	PropertyListType() string
	Reference() raw.ObjectRef
	SetReference(raw.ObjectRef)
}

type BasePropertyList struct {
	Ref         raw.ObjectRef
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (p *BasePropertyList) Reference() raw.ObjectRef     { return p.Ref }
func (p *BasePropertyList) SetReference(r raw.ObjectRef) { p.Ref = r }

// OptionalContentGroup (OCG)
type OptionalContentGroup struct {
	BasePropertyList
	Name   string
	Intent []string
}

func (g *OptionalContentGroup) PropertyListType() string { return "OCG" }

// OptionalContentMembership (OCMD)
type OptionalContentMembership struct {
	BasePropertyList
	OCGs   []*OptionalContentGroup
	Policy string
}

func (m *OptionalContentMembership) PropertyListType() string { return "OCMD" }

// OCProperties mirrors the catalog /OCProperties dictionary.
type OCProperties struct {
	OCGs    []*OptionalContentGroup
	D       *OCConfig
	Configs []*OCConfig
}

// OCConfig is an optional content configuration dictionary.
type OCConfig struct {
	Name  string
	HasAS bool
	Order []*OptionalContentGroup // flattened /Order
}
