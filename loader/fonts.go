package loader

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfakit/ir/semantic"
)

func (b *builder) colorSpace(o types.Object, depth int) semantic.ColorSpace {
	if o == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if cs, ok := b.colorSpaces[ref.Num]; ok && ref.Num > 0 {
		return cs
	}
	var cs semantic.ColorSpace
	switch v := b.deref(o).(type) {
	case types.Name:
		cs = familyColorSpace(string(v))
	case types.Array:
		cs = b.colorSpaceArray(v, depth)
	}
	if cs != nil && ref.Num > 0 {
		b.colorSpaces[ref.Num] = cs
	}
	return cs
}

func familyColorSpace(name string) semantic.ColorSpace {
	switch name {
	case "DeviceGray", "G":
		return semantic.DeviceColorSpace{Name: "DeviceGray"}
	case "DeviceRGB", "RGB":
		return semantic.DeviceColorSpace{Name: "DeviceRGB"}
	case "DeviceCMYK", "CMYK":
		return semantic.DeviceColorSpace{Name: "DeviceCMYK"}
	case "Pattern":
		return &semantic.PatternColorSpace{}
	case "CalGray", "CalRGB", "Lab":
		return &semantic.CIEBasedColorSpace{Family: name}
	}
	return nil
}

func (b *builder) colorSpaceArray(a types.Array, depth int) semantic.ColorSpace {
	if len(a) == 0 {
		return nil
	}
	family := b.name(a[0])
	arg := func(i int) types.Object {
		if i < len(a) {
			return a[i]
		}
		return nil
	}
	switch family {
	case "ICCBased":
		sd := b.stream(arg(1))
		if sd == nil {
			return nil
		}
		cs := &semantic.ICCBasedColorSpace{
			Profile:     b.content(sd),
			Alternate:   b.colorSpace(sd.Dict["Alternate"], depth+1),
			Range:       b.numbers(sd.Dict["Range"]),
			OriginalRef: refOf(arg(1)),
		}
		cs.N, _ = b.integer(sd.Dict["N"])
		return cs
	case "Separation":
		return &semantic.SeparationColorSpace{
			Name:          b.name(arg(1)),
			Alternate:     b.colorSpace(arg(2), depth+1),
			TintTransform: b.function(arg(3), 0),
		}
	case "DeviceN":
		cs := &semantic.DeviceNColorSpace{
			Alternate:     b.colorSpace(arg(2), depth+1),
			TintTransform: b.function(arg(3), 0),
		}
		for _, n := range b.array(arg(1)) {
			cs.Names = append(cs.Names, b.name(n))
		}
		if attrs := b.dict(arg(4)); attrs != nil {
			cs.Attributes = &semantic.DeviceNAttributes{Subtype: b.name(attrs["Subtype"])}
			if colorants := b.dict(attrs["Colorants"]); len(colorants) > 0 {
				cs.Attributes.Colorants = make(map[string]*semantic.SeparationColorSpace, len(colorants))
				for k, v := range colorants {
					if sep, ok := b.colorSpace(v, depth+1).(*semantic.SeparationColorSpace); ok {
						cs.Attributes.Colorants[k] = sep
					}
				}
			}
		}
		return cs
	case "Indexed", "I":
		cs := &semantic.IndexedColorSpace{Base: b.colorSpace(arg(1), depth+1)}
		cs.Hival, _ = b.integer(arg(2))
		if sd := b.stream(arg(3)); sd != nil {
			cs.Lookup = b.content(sd)
		} else {
			cs.Lookup = b.bytesOf(arg(3))
		}
		return cs
	case "Pattern":
		return &semantic.PatternColorSpace{Underlying: b.colorSpace(arg(1), depth+1)}
	case "CalGray", "CalRGB", "Lab":
		cs := &semantic.CIEBasedColorSpace{Family: family}
		if d := b.dict(arg(1)); d != nil {
			cs.WhitePoint = b.numbers(d["WhitePoint"])
		}
		return cs
	}
	return familyColorSpace(family)
}

func (b *builder) font(o types.Object, depth int) *semantic.Font {
	d := b.dict(o)
	if d == nil || depth > maxDepth {
		return nil
	}
	ref := refOf(o)
	if f, ok := b.fonts[ref.Num]; ok && ref.Num > 0 {
		return f
	}
	f := &semantic.Font{
		Subtype:       b.name(d["Subtype"]),
		BaseFont:      b.name(d["BaseFont"]),
		ToUnicodeCMap: b.streamContent(d["ToUnicode"]),
		FontMatrix:    b.numbers(d["FontMatrix"]),
		FontBBox:      b.rect(d["FontBBox"]),
		OriginalRef:   ref,
	}
	if ref.Num > 0 {
		b.fonts[ref.Num] = f
	}
	if enc := b.name(d["Encoding"]); enc != "" {
		f.Encoding = enc
	} else if ed := b.dict(d["Encoding"]); ed != nil {
		f.EncodingDict = &semantic.EncodingDict{BaseEncoding: b.name(ed["BaseEncoding"])}
		code := 0
		for _, e := range b.array(ed["Differences"]) {
			if n, ok := b.integer(e); ok {
				code = n
				continue
			}
			if name := b.name(e); name != "" {
				f.EncodingDict.Differences = append(f.EncodingDict.Differences, semantic.EncodingDifference{Code: code, Name: name})
				code++
			}
		}
	}
	f.FirstChar, _ = b.integer(d["FirstChar"])
	if widths := b.numbers(d["Widths"]); len(widths) > 0 {
		f.Widths = make(map[int]int, len(widths))
		for i, w := range widths {
			f.Widths[f.FirstChar+i] = int(w + 0.5)
		}
	}
	f.Descriptor = b.descriptor(d["FontDescriptor"])

	switch f.Subtype {
	case "Type3":
		f.Resources = b.resourceDict(d["Resources"], depth+1)
		if procs := b.dict(d["CharProcs"]); len(procs) > 0 {
			f.CharProcs = make(map[string][]byte, len(procs))
			for k, v := range procs {
				f.CharProcs[k] = b.streamContent(v)
			}
		}
	case "Type0":
		if desc := b.array(d["DescendantFonts"]); len(desc) > 0 {
			f.DescendantFont = b.cidFont(desc[0])
		}
	}
	return f
}

func (b *builder) cidFont(o types.Object) *semantic.CIDFont {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	cf := &semantic.CIDFont{
		Subtype:    b.name(d["Subtype"]),
		BaseFont:   b.name(d["BaseFont"]),
		Descriptor: b.descriptor(d["FontDescriptor"]),
	}
	if csi := b.dict(d["CIDSystemInfo"]); csi != nil {
		cf.CIDSystemInfo = semantic.CIDSystemInfo{
			Registry: b.text(csi["Registry"]),
			Ordering: b.text(csi["Ordering"]),
		}
		cf.CIDSystemInfo.Supplement, _ = b.integer(csi["Supplement"])
	}
	cf.DW, _ = b.integer(d["DW"])
	if name := b.name(d["CIDToGIDMap"]); name != "" {
		cf.CIDToGIDMapName = name
	} else if d["CIDToGIDMap"] != nil {
		cf.CIDToGIDMap = b.streamContent(d["CIDToGIDMap"])
	}
	cf.W = b.cidWidths(b.array(d["W"]))
	return cf
}

// cidWidths expands a W array of "c [w1 w2 ...]" and "cfirst clast w"
// entries.
func (b *builder) cidWidths(w types.Array) map[int]int {
	if len(w) == 0 {
		return nil
	}
	out := make(map[int]int)
	const maxRange = 1 << 16
	for i := 0; i < len(w); {
		first, ok := b.integer(w[i])
		if !ok || i+1 >= len(w) {
			break
		}
		if list := b.array(w[i+1]); list != nil {
			for k, v := range b.numbers(list) {
				out[first+k] = int(v + 0.5)
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			break
		}
		last, _ := b.integer(w[i+1])
		width, _ := b.number(w[i+2])
		if last-first <= maxRange {
			for c := first; c <= last; c++ {
				out[c] = int(width + 0.5)
			}
		}
		i += 3
	}
	return out
}

func (b *builder) descriptor(o types.Object) *semantic.FontDescriptor {
	d := b.dict(o)
	if d == nil {
		return nil
	}
	fd := &semantic.FontDescriptor{
		FontName: b.name(d["FontName"]),
		CharSet:  b.text(d["CharSet"]),
		CIDSet:   b.streamContent(d["CIDSet"]),
	}
	fd.Flags, _ = b.integer(d["Flags"])
	fd.ItalicAngle, _ = b.number(d["ItalicAngle"])
	fd.Ascent, _ = b.number(d["Ascent"])
	fd.Descent, _ = b.number(d["Descent"])
	fd.CapHeight, _ = b.number(d["CapHeight"])
	fd.StemV, _ = b.integer(d["StemV"])
	if bbox := b.numbers(d["FontBBox"]); len(bbox) == 4 {
		copy(fd.FontBBox[:], bbox)
	}
	for _, key := range []string{"FontFile", "FontFile2", "FontFile3"} {
		sd := b.stream(d[key])
		if sd == nil {
			continue
		}
		fd.FontFile = b.content(sd)
		fd.FontFileType = key
		fd.FontFileSubtype = b.name(sd.Dict["Subtype"])
		break
	}
	return fd
}
