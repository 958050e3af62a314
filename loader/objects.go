package loader

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
)

// maxDepth bounds recursion through resources, forms and name trees.
const maxDepth = 32

// builder converts pdfcpu objects into the semantic model. Shared indirect
// objects map to one semantic value so checkers see them once.
type builder struct {
	pdf *model.Context
	log observability.Logger

	fonts       map[int]*semantic.Font
	colorSpaces map[int]semantic.ColorSpace
	functions   map[int]semantic.Function
	resources   map[int]*semantic.Resources
	xobjects    map[int]*semantic.XObject
	ocgs        map[int]*semantic.OptionalContentGroup
	fields      map[int]*semantic.FormField
	annots      map[int]semantic.Annotation
	pageIndex   map[int]int
	visiting    map[int]bool // actions under construction
}

func newBuilder(pdf *model.Context, log observability.Logger) *builder {
	return &builder{
		pdf:         pdf,
		log:         log,
		fonts:       make(map[int]*semantic.Font),
		colorSpaces: make(map[int]semantic.ColorSpace),
		functions:   make(map[int]semantic.Function),
		resources:   make(map[int]*semantic.Resources),
		xobjects:    make(map[int]*semantic.XObject),
		ocgs:        make(map[int]*semantic.OptionalContentGroup),
		fields:      make(map[int]*semantic.FormField),
		annots:      make(map[int]semantic.Annotation),
		pageIndex:   make(map[int]int),
		visiting:    make(map[int]bool),
	}
}

func refOf(o types.Object) raw.ObjectRef {
	switch v := o.(type) {
	case types.IndirectRef:
		return raw.ObjectRef{Num: int(v.ObjectNumber), Gen: int(v.GenerationNumber)}
	case *types.IndirectRef:
		if v != nil {
			return raw.ObjectRef{Num: int(v.ObjectNumber), Gen: int(v.GenerationNumber)}
		}
	}
	return raw.ObjectRef{}
}

func (b *builder) deref(o types.Object) types.Object {
	if o == nil {
		return nil
	}
	v, err := b.pdf.Dereference(o)
	if err != nil {
		b.log.Debug("dereference failed", observability.String("ref", refOf(o).String()), observability.Error("error", err))
		return nil
	}
	return v
}

func (b *builder) dict(o types.Object) types.Dict {
	switch v := b.deref(o).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	case *types.StreamDict:
		if v != nil {
			return v.Dict
		}
	}
	return nil
}

func (b *builder) stream(o types.Object) *types.StreamDict {
	switch v := b.deref(o).(type) {
	case types.StreamDict:
		return &v
	case *types.StreamDict:
		return v
	}
	return nil
}

// content returns the decoded data of a stream, or its raw bytes when a
// filter cannot be decoded.
func (b *builder) content(sd *types.StreamDict) []byte {
	if sd == nil {
		return nil
	}
	if sd.Content != nil {
		return sd.Content
	}
	if err := sd.Decode(); err != nil {
		b.log.Debug("stream not decoded", observability.Error("error", err))
		return sd.Raw
	}
	return sd.Content
}

func (b *builder) streamContent(o types.Object) []byte {
	return b.content(b.stream(o))
}

func filterNames(sd *types.StreamDict) []string {
	if sd == nil {
		return nil
	}
	var out []string
	for _, f := range sd.FilterPipeline {
		out = append(out, f.Name)
	}
	if len(out) == 0 {
		switch v := sd.Dict["Filter"].(type) {
		case types.Name:
			out = append(out, string(v))
		case types.Array:
			for _, f := range v {
				if n, ok := f.(types.Name); ok {
					out = append(out, string(n))
				}
			}
		}
	}
	return out
}

// name returns a name object with #xx escapes resolved. A malformed
// escape leaves the name as written.
func (b *builder) name(o types.Object) string {
	n, ok := b.deref(o).(types.Name)
	if !ok {
		return ""
	}
	s, err := types.DecodeName(n.Value())
	if err != nil {
		return n.Value()
	}
	return s
}

func (b *builder) number(o types.Object) (float64, bool) {
	switch v := b.deref(o).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (b *builder) integer(o types.Object) (int, bool) {
	f, ok := b.number(o)
	return int(f), ok
}

func (b *builder) boolean(o types.Object) bool {
	v, ok := b.deref(o).(types.Boolean)
	return ok && bool(v)
}

func (b *builder) array(o types.Object) types.Array {
	if a, ok := b.deref(o).(types.Array); ok {
		return a
	}
	return nil
}

func (b *builder) numbers(o types.Object) []float64 {
	var out []float64
	for _, e := range b.array(o) {
		if f, ok := b.number(e); ok {
			out = append(out, f)
		}
	}
	return out
}

func (b *builder) rect(o types.Object) semantic.Rectangle {
	n := b.numbers(o)
	if len(n) != 4 {
		return semantic.Rectangle{}
	}
	return semantic.Rectangle{LLX: n[0], LLY: n[1], URX: n[2], URY: n[3]}
}

// bytesOf returns the bytes of a string object.
func (b *builder) bytesOf(o types.Object) []byte {
	var (
		p   []byte
		err error
	)
	switch v := b.deref(o).(type) {
	case types.StringLiteral:
		p, err = types.Unescape(v.Value())
	case types.HexLiteral:
		p, err = v.Bytes()
	default:
		return nil
	}
	if err != nil {
		b.log.Debug("string not decoded", observability.Error("error", err))
		return nil
	}
	return p
}

// text returns a text string object decoded to UTF-8.
func (b *builder) text(o types.Object) string {
	v := b.deref(o)
	if v == nil {
		return ""
	}
	s, err := types.StringOrHexLiteral(v)
	if err != nil || s == nil {
		return ""
	}
	return *s
}

// walkNameTree calls fn for every leaf of a name tree.
func (b *builder) walkNameTree(o types.Object, fn func(key string, val types.Object), depth int) {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return
	}
	names := b.array(d["Names"])
	for i := 0; i+1 < len(names); i += 2 {
		fn(string(b.bytesOf(names[i])), names[i+1])
	}
	for _, kid := range b.array(d["Kids"]) {
		b.walkNameTree(kid, fn, depth+1)
	}
}
