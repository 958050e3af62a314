package semantic

import "github.com/wudi/pdfakit/ir/raw"

// AcroForm represents form-level information.
type AcroForm struct {
	NeedAppearances  bool
	XFA              []byte // XML Data Stream
	HasXFA           bool
	SigFlags         int
	Fields           []*FormField
	DefaultResources *Resources
	OriginalRef      raw.ObjectRef
	Dirty            bool
}

// FormField is a node of the interactive form field tree.
type FormField struct {
	Name              string // partial name /T
	FieldType         string // /FT: Btn, Tx, Ch, Sig
	Flags             int    // /Ff
	Value             string
	Action            Action            // /A on merged field/widget dictionaries
	AdditionalActions map[string]Action // /AA
	Kids              []*FormField
	OriginalRef       raw.ObjectRef
	Dirty             bool
}

// Walk visits f and all its descendants.
func (f *FormField) Walk(fn func(*FormField)) {
	if f == nil {
		return
	}
	fn(f)
	for _, k := range f.Kids {
		k.Walk(fn)
	}
}

// StructureTree is the root of the logical structure.
type StructureTree struct {
	K           []*StructureElement
	RoleMap     map[string]string
	OriginalRef raw.ObjectRef
	Dirty       bool
}

// StructureElement represents a node in the structure tree.
type StructureElement struct {
	S          string // structure type, e.g. P, H1, Figure
	K          []*StructureElement
	Alt        string
	ActualText string
	Lang       string
}
