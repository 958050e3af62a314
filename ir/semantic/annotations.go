package semantic

import "github.com/wudi/pdfakit/ir/raw"

// Annotation flag bits (/F).
const (
	AnnotFlagInvisible      = 1 << 0
	AnnotFlagHidden         = 1 << 1
	AnnotFlagPrint          = 1 << 2
	AnnotFlagNoZoom         = 1 << 3
	AnnotFlagNoRotate       = 1 << 4
	AnnotFlagNoView         = 1 << 5
	AnnotFlagReadOnly       = 1 << 6
	AnnotFlagLocked         = 1 << 7
	AnnotFlagToggleNoView   = 1 << 8
	AnnotFlagLockedContents = 1 << 9
)

// Annotation represents a page annotation.
type Annotation interface {
	Type() string
	Rect() Rectangle
	SetRect(Rectangle)
	Reference() raw.ObjectRef
	SetReference(raw.ObjectRef)
	Base() *BaseAnnotation
}

// AppearanceDict is the /AP dictionary of an annotation.
type AppearanceDict struct {
	N *AppearanceEntry
	R *AppearanceEntry
	D *AppearanceEntry
}

// AppearanceEntry is either a single appearance stream or a map of states.
type AppearanceEntry struct {
	Stream *XObject
	States map[string]*XObject
}

// IsSubDictionary reports whether the entry maps appearance states to streams.
func (e *AppearanceEntry) IsSubDictionary() bool { return e != nil && e.States != nil }

// BaseAnnotation provides common fields for annotations.
type BaseAnnotation struct {
	Subtype           string
	RectVal           Rectangle
	Contents          string
	Appearance        *AppearanceDict
	Flags             int
	HasFlags          bool
	Border            []float64
	Color             []float64
	CA                *float64
	AppearanceState   string
	AdditionalActions map[string]Action
	AssociatedFiles   []EmbeddedFile
	Ref               raw.ObjectRef
	OriginalRef       raw.ObjectRef
	Dirty             bool
}

func (a *BaseAnnotation) Type() string                 { return a.Subtype }
func (a *BaseAnnotation) Rect() Rectangle              { return a.RectVal }
func (a *BaseAnnotation) SetRect(r Rectangle)          { a.RectVal = r }
func (a *BaseAnnotation) Reference() raw.ObjectRef     { return a.Ref }
func (a *BaseAnnotation) SetReference(r raw.ObjectRef) { a.Ref = r }
func (a *BaseAnnotation) Base() *BaseAnnotation        { return a }

// SetFlags replaces the /F value and marks it present.
func (a *BaseAnnotation) SetFlags(f int) {
	a.Flags = f
	a.HasFlags = true
}

// LinkAnnotation represents a link annotation.
type LinkAnnotation struct {
	BaseAnnotation
	URI    string
	Action Action
}

// WidgetAnnotation represents a form widget annotation.
type WidgetAnnotation struct {
	BaseAnnotation
	Field  *FormField
	Action Action
}

// TextAnnotation represents a sticky note annotation.
type TextAnnotation struct {
	BaseAnnotation
	Open bool
	Icon string
}

// HighlightAnnotation represents a highlight annotation.
type HighlightAnnotation struct {
	BaseAnnotation
	QuadPoints []float64
}

// FreeTextAnnotation represents a free text annotation.
type FreeTextAnnotation struct {
	BaseAnnotation
	DA string
	Q  int
}

// LineAnnotation represents a line annotation.
type LineAnnotation struct {
	BaseAnnotation
	L  []float64
	LE []string
	IC []float64
}

// SquareAnnotation represents a square annotation.
type SquareAnnotation struct {
	BaseAnnotation
	IC []float64
	RD []float64
}

// CircleAnnotation represents a circle annotation.
type CircleAnnotation struct {
	BaseAnnotation
	IC []float64
	RD []float64
}

// StampAnnotation represents a stamp annotation.
type StampAnnotation struct {
	BaseAnnotation
	Name string
}

// InkAnnotation represents a freehand "scribble" annotation.
type InkAnnotation struct {
	BaseAnnotation
	InkList [][]float64
}

// FileAttachmentAnnotation represents a file attachment annotation.
type FileAttachmentAnnotation struct {
	BaseAnnotation
	File EmbeddedFile
	Name string
}

// PopupAnnotation represents a popup annotation.
type PopupAnnotation struct {
	BaseAnnotation
	Parent Annotation
	Open   bool
}

// SoundAnnotation represents a sound annotation.
type SoundAnnotation struct {
	BaseAnnotation
	Sound EmbeddedFile
}

// MovieAnnotation represents a movie annotation.
type MovieAnnotation struct {
	BaseAnnotation
	Title string
}

// ScreenAnnotation represents a screen annotation.
type ScreenAnnotation struct {
	BaseAnnotation
	Title  string
	Action Action
}

// ThreeDAnnotation represents a 3D annotation.
type ThreeDAnnotation struct {
	BaseAnnotation
	View string
}

// GenericAnnotation represents an annotation not covered by specific types.
type GenericAnnotation struct {
	BaseAnnotation
	IC []float64
}

// InteriorColor returns the /IC array of an annotation, if its type has one.
func InteriorColor(a Annotation) []float64 {
	switch v := a.(type) {
	case *LineAnnotation:
		return v.IC
	case *SquareAnnotation:
		return v.IC
	case *CircleAnnotation:
		return v.IC
	case *GenericAnnotation:
		return v.IC
	}
	return nil
}

// AnnotationAction returns the /A action of an annotation, if any.
func AnnotationAction(a Annotation) Action {
	switch v := a.(type) {
	case *LinkAnnotation:
		return v.Action
	case *WidgetAnnotation:
		return v.Action
	case *ScreenAnnotation:
		return v.Action
	}
	return nil
}
