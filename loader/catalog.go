package loader

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
)

func (b *builder) catalog(cat types.Dict) *semantic.Catalog {
	c := &semantic.Catalog{
		AdditionalActions: b.actions(cat["AA"], 0),
		NeedsRendering:    b.boolean(cat["NeedsRendering"]),
		HasRequirements:   cat["Requirements"] != nil,
		Version:           b.name(cat["Version"]),
		OriginalRef:       refOf(b.pdf.Root),
	}
	if dest := b.array(cat["OpenAction"]); dest != nil {
		c.OpenAction = semantic.GoToAction{PageIndex: b.destPage(dest)}
	} else {
		c.OpenAction = b.action(cat["OpenAction"], 0)
	}
	if names := b.dict(cat["Names"]); names != nil {
		c.HasAlternatePresentations = names["AlternatePresentations"] != nil
		b.walkNameTree(names["JavaScript"], func(key string, _ types.Object) {
			c.JavaScriptNames = append(c.JavaScriptNames, key)
		}, 0)
	}
	return c
}

func (b *builder) metadata(o types.Object) *semantic.XMPMetadata {
	sd := b.stream(o)
	if sd == nil {
		return nil
	}
	return &semantic.XMPMetadata{Raw: b.content(sd), Filters: filterNames(sd), OriginalRef: refOf(o)}
}

func (b *builder) outputIntents(o types.Object) []semantic.OutputIntent {
	var out []semantic.OutputIntent
	for _, e := range b.array(o) {
		d := b.dict(e)
		if d == nil {
			continue
		}
		out = append(out, semantic.OutputIntent{
			S:                         b.name(d["S"]),
			OutputConditionIdentifier: b.text(d["OutputConditionIdentifier"]),
			Info:                      b.text(d["Info"]),
			DestOutputProfile:         b.streamContent(d["DestOutputProfile"]),
			OriginalRef:               refOf(e),
		})
	}
	return out
}

func (b *builder) fileSpec(o types.Object, name string) semantic.EmbeddedFile {
	ef := semantic.EmbeddedFile{Name: name, OriginalRef: refOf(o)}
	d := b.dict(o)
	if d == nil {
		ef.FileName = b.text(o)
		return ef
	}
	ef.FileName = b.text(d["F"])
	ef.UnicodeName = b.text(d["UF"])
	ef.Description = b.text(d["Desc"])
	ef.Relationship = b.name(d["AFRelationship"])
	files := b.dict(d["EF"])
	if files == nil {
		return ef
	}
	stream := files["F"]
	if stream == nil {
		stream = files["UF"]
	}
	sd := b.stream(stream)
	if sd == nil {
		return ef
	}
	ef.Data = b.content(sd)
	ef.Subtype = b.name(sd.Dict["Subtype"])
	if p := b.dict(sd.Dict["Params"]); p != nil {
		ef.Params = &semantic.EmbeddedFileParams{
			CreationDate: b.text(p["CreationDate"]),
			ModDate:      b.text(p["ModDate"]),
			CheckSum:     b.bytesOf(p["CheckSum"]),
		}
		ef.Params.Size, _ = b.integer(p["Size"])
	}
	return ef
}

func (b *builder) ocProperties(o types.Object) *semantic.OCProperties {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	p := &semantic.OCProperties{D: b.ocConfig(d["D"])}
	for _, g := range b.array(d["OCGs"]) {
		if b.dict(g) != nil {
			p.OCGs = append(p.OCGs, b.ocg(g))
		}
	}
	for _, c := range b.array(d["Configs"]) {
		if cfg := b.ocConfig(c); cfg != nil {
			p.Configs = append(p.Configs, cfg)
		}
	}
	return p
}

func (b *builder) ocConfig(o types.Object) *semantic.OCConfig {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	cfg := &semantic.OCConfig{Name: b.text(d["Name"]), HasAS: d["AS"] != nil}
	b.flattenOrder(b.array(d["Order"]), &cfg.Order, 0)
	return cfg
}

// flattenOrder collects the groups of a nested /Order array; labels are
// skipped.
func (b *builder) flattenOrder(order types.Array, out *[]*semantic.OptionalContentGroup, depth int) {
	if depth > maxDepth {
		return
	}
	for _, e := range order {
		if nested := b.array(e); nested != nil {
			b.flattenOrder(nested, out, depth+1)
			continue
		}
		if b.dict(e) != nil {
			*out = append(*out, b.ocg(e))
		}
	}
}

func (b *builder) structTree(o types.Object) *semantic.StructureTree {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	t := &semantic.StructureTree{OriginalRef: refOf(o)}
	if rm := b.dict(d["RoleMap"]); len(rm) > 0 {
		t.RoleMap = make(map[string]string, len(rm))
		for k, v := range rm {
			t.RoleMap[k] = b.name(v)
		}
	}
	t.K = b.structKids(d["K"], map[int]bool{}, 0)
	return t
}

func (b *builder) structKids(o types.Object, seen map[int]bool, depth int) []*semantic.StructureElement {
	if depth > maxDepth {
		return nil
	}
	kids := b.array(o)
	if kids == nil {
		kids = types.Array{o}
	}
	var out []*semantic.StructureElement
	for _, k := range kids {
		d := b.dict(k)
		if d == nil || d["S"] == nil {
			continue
		}
		if ref := refOf(k); ref.Num > 0 {
			if seen[ref.Num] {
				continue
			}
			seen[ref.Num] = true
		}
		out = append(out, &semantic.StructureElement{
			S:          b.name(d["S"]),
			Alt:        b.text(d["Alt"]),
			ActualText: b.text(d["ActualText"]),
			Lang:       b.text(d["Lang"]),
			K:          b.structKids(d["K"], seen, depth+1),
		})
	}
	return out
}

func (b *builder) acroForm(o types.Object) (*semantic.AcroForm, []*semantic.Signature) {
	d := b.dict(o)
	if d == nil {
		return nil, nil
	}
	form := &semantic.AcroForm{
		NeedAppearances:  b.boolean(d["NeedAppearances"]),
		HasXFA:           d["XFA"] != nil,
		DefaultResources: b.resourceDict(d["DR"], 0),
		OriginalRef:      refOf(o),
	}
	form.SigFlags, _ = b.integer(d["SigFlags"])
	if parts := b.array(d["XFA"]); parts != nil {
		for i := 1; i < len(parts); i += 2 {
			form.XFA = append(form.XFA, b.streamContent(parts[i])...)
		}
	} else {
		form.XFA = b.streamContent(d["XFA"])
	}
	var sigs []*semantic.Signature
	for _, f := range b.array(d["Fields"]) {
		if field := b.field(f, "", "", &sigs, 0); field != nil {
			form.Fields = append(form.Fields, field)
		}
	}
	return form, sigs
}

// field builds a node of the field tree. Kids without a partial name are
// widgets of their parent and map to it.
func (b *builder) field(o types.Object, parent, inheritedType string, sigs *[]*semantic.Signature, depth int) *semantic.FormField {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if f, ok := b.fields[ref.Num]; ok && ref.Num > 0 {
		return f
	}
	ft := b.name(d["FT"])
	if ft == "" {
		ft = inheritedType
	}
	f := &semantic.FormField{
		Name:              b.text(d["T"]),
		FieldType:         ft,
		Action:            b.action(d["A"], 0),
		AdditionalActions: b.actions(d["AA"], 0),
		OriginalRef:       ref,
	}
	f.Flags, _ = b.integer(d["Ff"])
	if ref.Num > 0 {
		b.fields[ref.Num] = f
	}
	if n := b.name(d["V"]); n != "" {
		f.Value = n
	} else {
		f.Value = b.text(d["V"])
	}
	full := f.Name
	if parent != "" {
		full = parent + "." + f.Name
	}
	if ft == "Sig" && b.dict(d["V"]) != nil {
		*sigs = append(*sigs, b.signature(d["V"], full))
	}
	for _, kid := range b.array(d["Kids"]) {
		kd := b.dict(kid)
		if kd == nil {
			continue
		}
		if kd["T"] == nil {
			if kr := refOf(kid); kr.Num > 0 {
				b.fields[kr.Num] = f
			}
			continue
		}
		if child := b.field(kid, full, ft, sigs, depth+1); child != nil {
			f.Kids = append(f.Kids, child)
		}
	}
	return f
}

func (b *builder) signature(o types.Object, field string) *semantic.Signature {
	d := b.dict(o)
	sig := &semantic.Signature{
		FieldName:   field,
		Filter:      b.name(d["Filter"]),
		SubFilter:   b.name(d["SubFilter"]),
		Contents:    b.bytesOf(d["Contents"]),
		Name:        b.text(d["Name"]),
		M:           b.text(d["M"]),
		Location:    b.text(d["Location"]),
		Reason:      b.text(d["Reason"]),
		ContactInfo: b.text(d["ContactInfo"]),
		OriginalRef: refOf(o),
	}
	if certs := b.array(d["Cert"]); len(certs) > 0 {
		sig.Cert = b.bytesOf(certs[0])
	} else {
		sig.Cert = b.bytesOf(d["Cert"])
	}
	for _, n := range b.numbers(d["ByteRange"]) {
		sig.ByteRange = append(sig.ByteRange, int64(n))
	}
	for _, r := range b.array(d["Reference"]) {
		if rd := b.dict(r); rd != nil {
			sig.Reference = append(sig.Reference, semantic.SigRef{
				TransformMethod: b.name(rd["TransformMethod"]),
				DigestMethod:    b.name(rd["DigestMethod"]),
			})
		}
	}
	return sig
}

func (b *builder) info() *semantic.DocumentInfo {
	if b.pdf.Info == nil {
		return nil
	}
	d := b.dict(*b.pdf.Info)
	if d == nil {
		return nil
	}
	info := &semantic.DocumentInfo{OriginalRef: refOf(*b.pdf.Info)}
	for k, v := range d {
		value := b.text(v)
		if value == "" {
			value = b.name(v)
		}
		switch k {
		case "Title":
			info.Title = value
		case "Author":
			info.Author = value
		case "Subject":
			info.Subject = value
		case "Creator":
			info.Creator = value
		case "Producer":
			info.Producer = value
		case "CreationDate":
			info.CreationDate = value
		case "ModDate":
			info.ModDate = value
		case "Trapped":
			info.Trapped = value
		case "Keywords":
			info.Keywords = splitKeywords(value)
		default:
			if info.Custom == nil {
				info.Custom = make(map[string]string)
			}
			info.Custom[k] = value
		}
	}
	return info
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func (b *builder) trailer() raw.Trailer {
	t := raw.Trailer{HasEncrypt: b.pdf.Encrypt != nil}
	for _, id := range b.pdf.ID {
		t.ID = append(t.ID, b.bytesOf(id))
	}
	if b.pdf.Size != nil {
		t.Size = *b.pdf.Size
	}
	return t
}
