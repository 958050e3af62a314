package loader

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/semantic"
)

func (b *builder) annotation(o types.Object, depth int) semantic.Annotation {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if a, ok := b.annots[ref.Num]; ok && ref.Num > 0 {
		return a
	}
	base := semantic.BaseAnnotation{
		Subtype:           b.name(d["Subtype"]),
		RectVal:           b.rect(d["Rect"]),
		Contents:          b.text(d["Contents"]),
		Appearance:        b.appearance(d["AP"]),
		HasFlags:          d["F"] != nil,
		Border:            b.numbers(d["Border"]),
		Color:             b.numbers(d["C"]),
		AppearanceState:   b.name(d["AS"]),
		AdditionalActions: b.actions(d["AA"], 0),
		Ref:               ref,
		OriginalRef:       ref,
	}
	base.Flags, _ = b.integer(d["F"])
	if v, ok := b.number(d["CA"]); ok {
		base.CA = &v
	}
	for _, af := range b.array(d["AF"]) {
		base.AssociatedFiles = append(base.AssociatedFiles, b.fileSpec(af, ""))
	}

	var a semantic.Annotation
	switch base.Subtype {
	case "Link":
		l := &semantic.LinkAnnotation{BaseAnnotation: base, Action: b.action(d["A"], 0)}
		if u, ok := l.Action.(semantic.URIAction); ok {
			l.URI = u.URI
		}
		a = l
	case "Widget":
		w := &semantic.WidgetAnnotation{BaseAnnotation: base, Action: b.action(d["A"], 0)}
		w.Field = b.fields[ref.Num]
		if w.Field == nil {
			w.Field = b.fields[refOf(d["Parent"]).Num]
		}
		a = w
	case "Text":
		a = &semantic.TextAnnotation{BaseAnnotation: base, Open: b.boolean(d["Open"]), Icon: b.name(d["Name"])}
	case "Highlight":
		a = &semantic.HighlightAnnotation{BaseAnnotation: base, QuadPoints: b.numbers(d["QuadPoints"])}
	case "FreeText":
		ft := &semantic.FreeTextAnnotation{BaseAnnotation: base, DA: b.text(d["DA"])}
		ft.Q, _ = b.integer(d["Q"])
		a = ft
	case "Line":
		l := &semantic.LineAnnotation{BaseAnnotation: base, L: b.numbers(d["L"]), IC: b.numbers(d["IC"])}
		for _, le := range b.array(d["LE"]) {
			l.LE = append(l.LE, b.name(le))
		}
		a = l
	case "Square":
		a = &semantic.SquareAnnotation{BaseAnnotation: base, IC: b.numbers(d["IC"]), RD: b.numbers(d["RD"])}
	case "Circle":
		a = &semantic.CircleAnnotation{BaseAnnotation: base, IC: b.numbers(d["IC"]), RD: b.numbers(d["RD"])}
	case "Stamp":
		a = &semantic.StampAnnotation{BaseAnnotation: base, Name: b.name(d["Name"])}
	case "Ink":
		ink := &semantic.InkAnnotation{BaseAnnotation: base}
		for _, path := range b.array(d["InkList"]) {
			ink.InkList = append(ink.InkList, b.numbers(path))
		}
		a = ink
	case "FileAttachment":
		a = &semantic.FileAttachmentAnnotation{BaseAnnotation: base, File: b.fileSpec(d["FS"], ""), Name: b.name(d["Name"])}
	case "Popup":
		p := &semantic.PopupAnnotation{BaseAnnotation: base, Open: b.boolean(d["Open"])}
		if ref.Num > 0 {
			b.annots[ref.Num] = p
		}
		if d["Parent"] != nil {
			p.Parent = b.annotation(d["Parent"], depth+1)
		}
		return p
	case "Sound":
		a = &semantic.SoundAnnotation{BaseAnnotation: base, Sound: semantic.EmbeddedFile{Data: b.streamContent(d["Sound"])}}
	case "Movie":
		a = &semantic.MovieAnnotation{BaseAnnotation: base, Title: b.text(d["T"])}
	case "Screen":
		a = &semantic.ScreenAnnotation{BaseAnnotation: base, Title: b.text(d["T"]), Action: b.action(d["A"], 0)}
	case "3D":
		a = &semantic.ThreeDAnnotation{BaseAnnotation: base, View: b.name(d["3DV"])}
	default:
		a = &semantic.GenericAnnotation{BaseAnnotation: base, IC: b.numbers(d["IC"])}
	}
	if ref.Num > 0 {
		b.annots[ref.Num] = a
	}
	return a
}

func (b *builder) appearance(o types.Object) *semantic.AppearanceDict {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	return &semantic.AppearanceDict{
		N: b.appearanceEntry(d["N"]),
		R: b.appearanceEntry(d["R"]),
		D: b.appearanceEntry(d["D"]),
	}
}

func (b *builder) appearanceEntry(o types.Object) *semantic.AppearanceEntry {
	if o == nil {
		return nil
	}
	if sd := b.stream(o); sd != nil {
		return &semantic.AppearanceEntry{Stream: b.xobject(o, 1)}
	}
	d := b.dict(o)
	if d == nil {
		return nil
	}
	e := &semantic.AppearanceEntry{States: make(map[string]*semantic.XObject, len(d))}
	for state, v := range d {
		e.States[state] = b.xobject(v, 1)
	}
	return e
}

// actions builds an additional-actions dictionary.
func (b *builder) actions(o types.Object, depth int) map[string]semantic.Action {
	d := b.dict(o)
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]semantic.Action, len(d))
	for trigger, v := range d {
		if a := b.action(v, depth); a != nil {
			out[trigger] = a
		}
	}
	return out
}

func (b *builder) action(o types.Object, depth int) semantic.Action {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if ref.Num > 0 {
		if b.visiting[ref.Num] {
			return nil
		}
		b.visiting[ref.Num] = true
		defer delete(b.visiting, ref.Num)
	}

	base := semantic.ActionBase{OriginalRef: ref}
	if next := b.array(d["Next"]); next != nil {
		for _, n := range next {
			if a := b.action(n, depth+1); a != nil {
				base.Next = append(base.Next, a)
			}
		}
	} else if a := b.action(d["Next"], depth+1); a != nil {
		base.Next = []semantic.Action{a}
	}

	switch s := b.name(d["S"]); s {
	case "URI":
		return semantic.URIAction{ActionBase: base, URI: string(b.bytesOf(d["URI"]))}
	case "GoTo":
		return semantic.GoToAction{ActionBase: base, PageIndex: b.destPage(b.array(d["D"]))}
	case "GoToR":
		return semantic.GoToRAction{ActionBase: base, File: b.fileName(d["F"]), DestName: b.destName(d["D"])}
	case "GoToE":
		return semantic.GoToEAction{ActionBase: base, DestName: b.destName(d["D"])}
	case "JavaScript":
		js := b.text(d["JS"])
		if js == "" {
			js = string(b.streamContent(d["JS"]))
		}
		return semantic.JavaScriptAction{ActionBase: base, JS: js}
	case "Named":
		return semantic.NamedAction{ActionBase: base, Name: b.name(d["N"])}
	case "Launch":
		return semantic.LaunchAction{ActionBase: base, File: b.fileName(d["F"])}
	case "SubmitForm":
		sf := semantic.SubmitFormAction{ActionBase: base, URL: b.fileName(d["F"])}
		sf.Flags, _ = b.integer(d["Flags"])
		return sf
	case "ResetForm":
		rf := semantic.ResetFormAction{ActionBase: base}
		for _, f := range b.array(d["Fields"]) {
			if fd := b.dict(f); fd != nil {
				rf.Fields = append(rf.Fields, b.text(fd["T"]))
			} else {
				rf.Fields = append(rf.Fields, b.text(f))
			}
		}
		return rf
	case "ImportData":
		return semantic.ImportDataAction{ActionBase: base, File: b.fileName(d["F"])}
	case "Hide":
		h := semantic.HideAction{ActionBase: base, TargetName: b.text(d["T"]), Hide: true}
		if d["H"] != nil {
			h.Hide = b.boolean(d["H"])
		}
		return h
	case "Sound":
		return semantic.SoundAction{ActionBase: base}
	case "Movie":
		return semantic.MovieAction{ActionBase: base, Title: b.text(d["T"])}
	case "Thread":
		return semantic.ThreadAction{ActionBase: base}
	default:
		return semantic.GenericAction{ActionBase: base, S: s}
	}
}

// fileName returns the name a file specification string or dictionary
// points at.
func (b *builder) fileName(o types.Object) string {
	if d := b.dict(o); d != nil {
		if uf := b.text(d["UF"]); uf != "" {
			return uf
		}
		return b.text(d["F"])
	}
	return b.text(o)
}

func (b *builder) destName(o types.Object) string {
	if n := b.name(o); n != "" {
		return n
	}
	return b.text(o)
}
