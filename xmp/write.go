package xmp

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const (
	packetBegin = "<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n"
	packetEnd   = "<?xpacket end=\"w\"?>"
)

// Marshal serialises m as an XMP packet with one rdf:Description per schema.
func (m *Metadata) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(packetBegin)
	b.WriteString(`<x:xmpmeta xmlns:x="` + NSXMPMeta + `">` + "\n")
	b.WriteString(`<rdf:RDF xmlns:rdf="` + NSRDF + `">` + "\n")

	if m.Part > 0 {
		b.WriteString(`<rdf:Description rdf:about="" xmlns:pdfaid="` + NSPDFAID + `">` + "\n")
		simple(&b, "pdfaid:part", strconv.Itoa(m.Part))
		simple(&b, "pdfaid:conformance", m.Conformance)
		simple(&b, "pdfaid:rev", m.Rev)
		simple(&b, "pdfaid:amd", m.Amd)
		b.WriteString("</rdf:Description>\n")
	}

	if m.Title != "" || len(m.Creators) > 0 || m.Description != "" {
		b.WriteString(`<rdf:Description rdf:about="" xmlns:dc="` + NSDC + `">` + "\n")
		b.WriteString("<dc:format>application/pdf</dc:format>\n")
		alt(&b, "dc:title", m.Title)
		if len(m.Creators) > 0 {
			b.WriteString("<dc:creator><rdf:Seq>")
			for _, c := range m.Creators {
				b.WriteString("<rdf:li>")
				escape(&b, c)
				b.WriteString("</rdf:li>")
			}
			b.WriteString("</rdf:Seq></dc:creator>\n")
		}
		alt(&b, "dc:description", m.Description)
		b.WriteString("</rdf:Description>\n")
	}

	if m.Keywords != "" || m.Producer != "" {
		b.WriteString(`<rdf:Description rdf:about="" xmlns:pdf="` + NSPDF + `">` + "\n")
		simple(&b, "pdf:Keywords", m.Keywords)
		simple(&b, "pdf:Producer", m.Producer)
		b.WriteString("</rdf:Description>\n")
	}

	if m.CreatorTool != "" || m.CreateDate != "" || m.ModifyDate != "" {
		b.WriteString(`<rdf:Description rdf:about="" xmlns:xmp="` + NSXMP + `">` + "\n")
		simple(&b, "xmp:CreatorTool", m.CreatorTool)
		simple(&b, "xmp:CreateDate", m.CreateDate)
		simple(&b, "xmp:ModifyDate", m.ModifyDate)
		b.WriteString("</rdf:Description>\n")
	}

	b.WriteString("</rdf:RDF>\n</x:xmpmeta>\n")
	b.WriteString(packetEnd)
	return b.Bytes()
}

func simple(b *bytes.Buffer, tag, v string) {
	if v == "" {
		return
	}
	b.WriteString("<" + tag + ">")
	escape(b, v)
	b.WriteString("</" + tag + ">\n")
}

func alt(b *bytes.Buffer, tag, v string) {
	if v == "" {
		return
	}
	b.WriteString("<" + tag + `><rdf:Alt><rdf:li xml:lang="x-default">`)
	escape(b, v)
	b.WriteString("</rdf:li></rdf:Alt></" + tag + ">\n")
}

func escape(b *bytes.Buffer, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
