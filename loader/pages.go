package loader

import (
	"context"
	"errors"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
)

// pageNode is a leaf of the page tree with its inherited attributes.
type pageNode struct {
	dict      types.Dict
	ref       raw.ObjectRef
	resources types.Object
	mediaBox  types.Object
	cropBox   types.Object
	rotate    types.Object
}

func (b *builder) document(ctx context.Context) (*semantic.Document, error) {
	cat, err := b.pdf.Catalog()
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errors.New("missing catalog")
	}

	var nodes []pageNode
	b.collectPages(cat["Pages"], pageNode{}, map[int]bool{}, &nodes, 0)
	for i, n := range nodes {
		if n.ref.Num > 0 {
			b.pageIndex[n.ref.Num] = i
		}
	}

	doc := &semantic.Document{
		Catalog:       b.catalog(cat),
		Lang:          b.text(cat["Lang"]),
		Metadata:      b.metadata(cat["Metadata"]),
		StructTree:    b.structTree(cat["StructTreeRoot"]),
		OCProperties:  b.ocProperties(cat["OCProperties"]),
		OutputIntents: b.outputIntents(cat["OutputIntents"]),
		Info:          b.info(),
		Trailer:       b.trailer(),
		Encrypted:     b.pdf.Encrypt != nil,
		OriginalRef:   refOf(b.pdf.Root),
	}
	if mi := b.dict(cat["MarkInfo"]); mi != nil {
		doc.Marked = b.boolean(mi["Marked"])
	}
	doc.AcroForm, doc.Signatures = b.acroForm(cat["AcroForm"])
	if names := b.dict(cat["Names"]); names != nil {
		b.walkNameTree(names["EmbeddedFiles"], func(key string, val types.Object) {
			doc.EmbeddedFiles = append(doc.EmbeddedFiles, b.fileSpec(val, key))
		}, 0)
	}
	for _, af := range b.array(cat["AF"]) {
		doc.AssociatedFiles = append(doc.AssociatedFiles, b.fileSpec(af, ""))
	}

	for i, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, b.page(i, n))
	}
	doc.Stats = b.stats()
	b.log.Debug("semantic model built",
		observability.Int("fonts", len(b.fonts)),
		observability.Int("xobjects", len(b.xobjects)),
		observability.Int("annotations", len(b.annots)))
	return doc, nil
}

// collectPages walks the page tree depth first, carrying the inheritable
// attributes down to each leaf.
func (b *builder) collectPages(o types.Object, inh pageNode, seen map[int]bool, out *[]pageNode, depth int) {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return
	}
	ref := refOf(o)
	if ref.Num > 0 {
		if seen[ref.Num] {
			b.log.Warn("page tree cycle", observability.String("ref", ref.String()))
			return
		}
		seen[ref.Num] = true
	}
	if v, ok := d["Resources"]; ok {
		inh.resources = v
	}
	if v, ok := d["MediaBox"]; ok {
		inh.mediaBox = v
	}
	if v, ok := d["CropBox"]; ok {
		inh.cropBox = v
	}
	if v, ok := d["Rotate"]; ok {
		inh.rotate = v
	}
	kids, hasKids := d["Kids"]
	if b.name(d["Type"]) == "Page" || !hasKids {
		inh.dict, inh.ref = d, ref
		*out = append(*out, inh)
		return
	}
	for _, kid := range b.array(kids) {
		b.collectPages(kid, inh, seen, out, depth+1)
	}
}

func (b *builder) page(i int, n pageNode) *semantic.Page {
	d := n.dict
	p := &semantic.Page{
		Index:             i,
		MediaBox:          b.rect(n.mediaBox),
		CropBox:           b.rect(n.cropBox),
		TrimBox:           b.rect(d["TrimBox"]),
		BleedBox:          b.rect(d["BleedBox"]),
		ArtBox:            b.rect(d["ArtBox"]),
		Resources:         b.resourceDict(n.resources, 0),
		Group:             b.group(d["Group"]),
		AdditionalActions: b.actions(d["AA"], 0),
		HasPresSteps:      d["PresSteps"] != nil,
		OriginalRef:       n.ref,
	}
	p.Rotate, _ = b.integer(n.rotate)
	if u, ok := b.number(d["UserUnit"]); ok {
		p.UserUnit = u
	}
	if contents := b.array(d["Contents"]); contents != nil {
		for _, c := range contents {
			if sd := b.stream(c); sd != nil {
				p.Contents = append(p.Contents, semantic.ContentStream{RawBytes: b.content(sd)})
			}
		}
	} else if sd := b.stream(d["Contents"]); sd != nil {
		p.Contents = append(p.Contents, semantic.ContentStream{RawBytes: b.content(sd)})
	}
	if td := b.dict(d["Trans"]); td != nil {
		p.Trans = &semantic.Transition{Style: b.name(td["S"])}
		if v, ok := b.number(td["D"]); ok {
			p.Trans.Duration = &v
		}
	}
	for _, a := range b.array(d["Annots"]) {
		if an := b.annotation(a, 0); an != nil {
			p.Annotations = append(p.Annotations, an)
		}
	}
	return p
}

// destPage resolves the page of an explicit destination array, or -1.
func (b *builder) destPage(dest types.Array) int {
	if len(dest) == 0 {
		return -1
	}
	if ref := refOf(dest[0]); ref.Num > 0 {
		if i, ok := b.pageIndex[ref.Num]; ok {
			return i
		}
		return -1
	}
	if i, ok := b.integer(dest[0]); ok {
		return i
	}
	return -1
}
