package loader

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/semantic"
)

func (b *builder) resourceDict(o types.Object, depth int) *semantic.Resources {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if ref.Num > 0 {
		if res, ok := b.resources[ref.Num]; ok {
			return res
		}
	}
	res := &semantic.Resources{OriginalRef: ref}
	if ref.Num > 0 {
		b.resources[ref.Num] = res
	}

	if cs := b.dict(d["ColorSpace"]); len(cs) > 0 {
		res.ColorSpaces = make(map[string]semantic.ColorSpace, len(cs))
		for k, v := range cs {
			if space := b.colorSpace(v, 0); space != nil {
				res.ColorSpaces[k] = space
			}
		}
	}
	if gs := b.dict(d["ExtGState"]); len(gs) > 0 {
		res.ExtGStates = make(map[string]semantic.ExtGState, len(gs))
		for k, v := range gs {
			if b.dict(v) != nil {
				res.ExtGStates[k] = b.extGState(v, depth)
			}
		}
	}
	if fonts := b.dict(d["Font"]); len(fonts) > 0 {
		res.Fonts = make(map[string]*semantic.Font, len(fonts))
		for k, v := range fonts {
			if f := b.font(v, depth); f != nil {
				res.Fonts[k] = f
			}
		}
	}
	if xos := b.dict(d["XObject"]); len(xos) > 0 {
		res.XObjects = make(map[string]semantic.XObject, len(xos))
		for k, v := range xos {
			if xo := b.xobject(v, depth); xo != nil {
				res.XObjects[k] = *xo
			}
		}
	}
	if sh := b.dict(d["Shading"]); len(sh) > 0 {
		res.Shadings = make(map[string]semantic.Shading, len(sh))
		for k, v := range sh {
			if s := b.shading(v); s != nil {
				res.Shadings[k] = s
			}
		}
	}
	if pats := b.dict(d["Pattern"]); len(pats) > 0 {
		res.Patterns = make(map[string]semantic.Pattern, len(pats))
		for k, v := range pats {
			if p := b.pattern(v, depth); p != nil {
				res.Patterns[k] = p
			}
		}
	}
	if props := b.dict(d["Properties"]); len(props) > 0 {
		res.Properties = make(map[string]semantic.PropertyList, len(props))
		for k, v := range props {
			if p := b.propertyList(v); p != nil {
				res.Properties[k] = p
			}
		}
	}
	return res
}

func (b *builder) propertyList(o types.Object) semantic.PropertyList {
	d := b.dict(o)
	switch b.name(d["Type"]) {
	case "OCG":
		return b.ocg(o)
	case "OCMD":
		m := &semantic.OptionalContentMembership{Policy: b.name(d["P"])}
		m.Ref, m.OriginalRef = refOf(o), refOf(o)
		if b.dict(d["OCGs"]) != nil {
			m.OCGs = append(m.OCGs, b.ocg(d["OCGs"]))
		}
		for _, g := range b.array(d["OCGs"]) {
			m.OCGs = append(m.OCGs, b.ocg(g))
		}
		return m
	}
	return nil
}

func (b *builder) ocg(o types.Object) *semantic.OptionalContentGroup {
	ref := refOf(o)
	if g, ok := b.ocgs[ref.Num]; ok && ref.Num > 0 {
		return g
	}
	d := b.dict(o)
	g := &semantic.OptionalContentGroup{Name: b.text(d["Name"])}
	g.Ref, g.OriginalRef = ref, ref
	for _, in := range b.array(d["Intent"]) {
		g.Intent = append(g.Intent, b.name(in))
	}
	if n := b.name(d["Intent"]); n != "" {
		g.Intent = append(g.Intent, n)
	}
	if ref.Num > 0 {
		b.ocgs[ref.Num] = g
	}
	return g
}

func (b *builder) extGState(o types.Object, depth int) semantic.ExtGState {
	d := b.dict(o)
	gs := semantic.ExtGState{
		BlendMode:       b.name(d["BM"]),
		RenderingIntent: b.name(d["RI"]),
		OriginalRef:     refOf(o),
	}
	if v, ok := b.number(d["CA"]); ok {
		gs.StrokeAlpha = &v
	}
	if v, ok := b.number(d["ca"]); ok {
		gs.FillAlpha = &v
	}
	if gs.BlendMode == "" {
		if modes := b.array(d["BM"]); len(modes) > 0 {
			gs.BlendMode = b.name(modes[0])
		}
	}
	if _, ok := d["TR"]; ok {
		gs.Transfer = transferName(b.name(d["TR"]))
	}
	if _, ok := d["TR2"]; ok {
		gs.Transfer2 = transferName(b.name(d["TR2"]))
	}
	if ht := b.dict(d["HT"]); ht != nil {
		t, _ := b.integer(ht["HalftoneType"])
		gs.Halftone = &semantic.Halftone{Type: t, Name: b.text(ht["HalftoneName"])}
	}
	if sm := b.dict(d["SMask"]); sm != nil {
		gs.SoftMask = &semantic.SoftMaskDict{
			Subtype:       b.name(sm["S"]),
			Group:         b.xobject(sm["G"], depth+1),
			BackdropColor: b.numbers(sm["BC"]),
			Transfer:      b.name(sm["TR"]),
		}
	}
	return gs
}

// transferName reduces a transfer entry to Identity, Default or Function.
func transferName(name string) string {
	if name != "" {
		return name
	}
	return "Function"
}

func (b *builder) group(o types.Object) *semantic.TransparencyGroup {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	return &semantic.TransparencyGroup{
		S:        b.name(d["S"]),
		CS:       b.colorSpace(d["CS"], 0),
		Isolated: b.boolean(d["I"]),
		Knockout: b.boolean(d["K"]),
	}
}

func (b *builder) xobject(o types.Object, depth int) *semantic.XObject {
	sd := b.stream(o)
	if sd == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if xo, ok := b.xobjects[ref.Num]; ok && ref.Num > 0 {
		return xo
	}
	d := sd.Dict
	xo := &semantic.XObject{
		Subtype:       b.name(d["Subtype"]),
		Subtype2:      b.name(d["Subtype2"]),
		Filters:       filterNames(sd),
		Intent:        b.name(d["Intent"]),
		Interpolate:   b.boolean(d["Interpolate"]),
		ImageMask:     b.boolean(d["ImageMask"]),
		HasOPI:        d["OPI"] != nil,
		HasAlternates: d["Alternates"] != nil,
		HasRef:        d["Ref"] != nil,
		BBox:          b.rect(d["BBox"]),
		Matrix:        b.numbers(d["Matrix"]),
		OriginalRef:   ref,
	}
	if ref.Num > 0 {
		b.xobjects[ref.Num] = xo
	}
	xo.Width, _ = b.integer(d["Width"])
	xo.Height, _ = b.integer(d["Height"])
	xo.BitsPerComponent, _ = b.integer(d["BitsPerComponent"])
	xo.SMaskInData, _ = b.integer(d["SMaskInData"])
	xo.Group = b.group(d["Group"])
	for _, af := range b.array(d["AF"]) {
		xo.AssociatedFiles = append(xo.AssociatedFiles, b.fileSpec(af, ""))
	}

	switch xo.Subtype {
	case "Image":
		xo.ColorSpace = b.colorSpace(d["ColorSpace"], 0)
		xo.Data = sd.Raw
		if d["SMask"] != nil {
			xo.SMask = b.xobject(d["SMask"], depth+1)
		}
	case "Form":
		xo.Resources = b.resourceDict(d["Resources"], depth+1)
		xo.Contents = &semantic.ContentStream{RawBytes: b.content(sd)}
	}
	return xo
}

func (b *builder) shading(o types.Object) semantic.Shading {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	base := semantic.BaseShading{
		ColorSpace:  b.colorSpace(d["ColorSpace"], 0),
		BBox:        b.rect(d["BBox"]),
		AntiAlias:   b.boolean(d["AntiAlias"]),
		Ref:         refOf(o),
		OriginalRef: refOf(o),
	}
	base.Type, _ = b.integer(d["ShadingType"])
	if base.Type >= 4 {
		m := &semantic.MeshShading{BaseShading: base, Decode: b.numbers(d["Decode"])}
		m.BitsPerCoordinate, _ = b.integer(d["BitsPerCoordinate"])
		m.BitsPerComponent, _ = b.integer(d["BitsPerComponent"])
		m.BitsPerFlag, _ = b.integer(d["BitsPerFlag"])
		m.Function = b.function(d["Function"], 0)
		return m
	}
	s := &semantic.FunctionShading{
		BaseShading: base,
		Coords:      b.numbers(d["Coords"]),
		Domain:      b.numbers(d["Domain"]),
	}
	if fns := b.array(d["Function"]); fns != nil {
		for _, f := range fns {
			s.Function = append(s.Function, b.function(f, 0))
		}
	} else if f := b.function(d["Function"], 0); f != nil {
		s.Function = []semantic.Function{f}
	}
	return s
}

func (b *builder) pattern(o types.Object, depth int) semantic.Pattern {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	base := semantic.BasePattern{Matrix: b.numbers(d["Matrix"]), Ref: refOf(o), OriginalRef: refOf(o)}
	base.Type, _ = b.integer(d["PatternType"])
	if base.Type == 2 {
		p := &semantic.ShadingPattern{BasePattern: base, Shading: b.shading(d["Shading"])}
		if b.dict(d["ExtGState"]) != nil {
			gs := b.extGState(d["ExtGState"], depth)
			p.ExtGState = &gs
		}
		return p
	}
	p := &semantic.TilingPattern{
		BasePattern: base,
		BBox:        b.rect(d["BBox"]),
		Resources:   b.resourceDict(d["Resources"], depth+1),
		Content:     b.streamContent(o),
	}
	p.PaintType, _ = b.integer(d["PaintType"])
	p.TilingType, _ = b.integer(d["TilingType"])
	p.XStep, _ = b.number(d["XStep"])
	p.YStep, _ = b.number(d["YStep"])
	return p
}

func (b *builder) function(o types.Object, depth int) semantic.Function {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if f, ok := b.functions[ref.Num]; ok && ref.Num > 0 {
		return f
	}
	base := semantic.BaseFunction{Domain: b.numbers(d["Domain"]), Range: b.numbers(d["Range"]), Ref: ref, OriginalRef: ref}
	base.Type, _ = b.integer(d["FunctionType"])
	var f semantic.Function
	switch base.Type {
	case 0:
		s := &semantic.SampledFunction{BaseFunction: base, Samples: b.streamContent(o)}
		for _, n := range b.numbers(d["Size"]) {
			s.Size = append(s.Size, int(n))
		}
		s.BitsPerSample, _ = b.integer(d["BitsPerSample"])
		f = s
	case 2:
		e := &semantic.ExponentialFunction{BaseFunction: base, C0: b.numbers(d["C0"]), C1: b.numbers(d["C1"])}
		e.N, _ = b.number(d["N"])
		f = e
	case 3:
		s := &semantic.StitchingFunction{BaseFunction: base, Bounds: b.numbers(d["Bounds"]), Encode: b.numbers(d["Encode"])}
		for _, sub := range b.array(d["Functions"]) {
			s.Functions = append(s.Functions, b.function(sub, depth+1))
		}
		f = s
	case 4:
		f = &semantic.PostScriptFunction{BaseFunction: base, Code: b.streamContent(o)}
	default:
		return nil
	}
	if ref.Num > 0 {
		b.functions[ref.Num] = f
	}
	return f
}
