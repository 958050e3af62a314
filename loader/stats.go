package loader

import (
	"maps"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/raw"
)

// stats walks every object in the cross-reference table and records the
// extremes the implementation limit rules look at. Objects are visited in
// object number order so the reported locations are stable.
func (b *builder) stats() *raw.Stats {
	s := &raw.Stats{}
	for _, num := range slices.Sorted(maps.Keys(b.pdf.Table)) {
		e := b.pdf.Table[num]
		if num == 0 || e == nil || e.Free || e.Object == nil {
			continue
		}
		ref := raw.ObjectRef{Num: num}
		if e.Generation != nil {
			ref.Gen = *e.Generation
		}
		b.observe(s, e.Object, ref, 0)
	}
	return s
}

func (b *builder) observe(s *raw.Stats, o types.Object, ref raw.ObjectRef, depth int) {
	if depth > maxDepth {
		return
	}
	switch v := o.(type) {
	case types.Integer:
		s.ObserveInt(int64(v))
	case types.Float:
		s.ObserveReal(float64(v))
	case types.Name:
		s.ObserveName(b.name(v), ref)
	case types.StringLiteral, types.HexLiteral:
		s.ObserveString(len(b.bytesOf(v)), ref)
	case types.Array:
		s.ObserveArray(len(v))
		for _, e := range v {
			b.observe(s, e, ref, depth+1)
		}
	case types.Dict:
		s.ObserveDict(len(v))
		for k, e := range v {
			s.ObserveName(k, ref)
			b.observe(s, e, ref, depth+1)
		}
	case types.StreamDict:
		b.observe(s, v.Dict, ref, depth+1)
	case *types.StreamDict:
		if v != nil {
			b.observe(s, v.Dict, ref, depth+1)
		}
	}
}
