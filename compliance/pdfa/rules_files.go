package pdfa

import (
	"bytes"

	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/security"
	"github.com/wudi/pdfakit/xmp"
)

func (c *Checker) checkEmbeddedFiles(doc *semantic.Document) {
	if c.level == PDFA4F && len(doc.EmbeddedFiles) == 0 {
		c.violate(CodeNoEmbeddedFile, catalogLoc)
	}
	for i := range doc.EmbeddedFiles {
		ef := &doc.EmbeddedFiles[i]
		c.checkEmbeddedFile(ef, "embedded file "+fileName(ef))
	}
	for i := range doc.AssociatedFiles {
		ef := &doc.AssociatedFiles[i]
		c.checkEmbeddedFile(ef, "associated file "+fileName(ef))
	}
}

func fileName(ef *semantic.EmbeddedFile) string {
	switch {
	case ef.UnicodeName != "":
		return ef.UnicodeName
	case ef.FileName != "":
		return ef.FileName
	}
	return ef.Name
}

func (c *Checker) checkEmbeddedFile(ef *semantic.EmbeddedFile, loc string) {
	if ef == nil || !c.once(refKey{"file", ef.OriginalRef}) {
		return
	}
	if !c.level.AllowsAttachment() {
		c.violate(CodeEmbeddedFile, loc)
		return
	}
	name := fileName(ef)
	if ef.FileName == "" || ef.UnicodeName == "" {
		c.violate(CodeFileSpecNames, loc, name)
	}
	if !c.level.AllowsArbitraryAttachment() {
		part, err := c.opts.payload(ef.Data)
		if err != nil || part < 1 || part > 2 {
			c.violate(CodeNonPDFAPayload, loc, name)
		}
		return
	}
	if ef.Relationship == "" {
		c.violate(CodeAFRelationship, loc, name)
	}
	if ef.Subtype == "" {
		c.violate(CodeEmbeddedFileSubtype, loc, name)
	}
	if ef.Params == nil || ef.Params.ModDate == "" {
		c.violate(CodeEmbeddedFileModDate, loc, name)
	}
	if ef.Params != nil && len(ef.Params.CheckSum) > 0 && len(ef.Data) > 0 {
		if sum := md5Sum(ef.Data); sum != nil && !bytes.Equal(sum, ef.Params.CheckSum) {
			c.violate(CodeEmbeddedFileChecksum, loc, name)
		}
	}
}

// md5Sum returns the MD5 digest of data, the CheckSum algorithm of
// embedded file parameters.
func md5Sum(data []byte) []byte {
	d, err := security.NewDigest("MD5")
	if err != nil {
		return nil
	}
	return d.DoFinalWith(data)
}

// XMPPayloadInspector detects PDF/A payloads by scanning a PDF for an
// unfiltered XMP packet declaring pdfaid:part. It returns 0 for anything
// else.
func XMPPayloadInspector(data []byte) (int, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF-")) {
		return 0, nil
	}
	const open, closing = "<x:xmpmeta", "</x:xmpmeta>"
	rest := data
	for {
		i := bytes.Index(rest, []byte(open))
		if i < 0 {
			return 0, nil
		}
		rest = rest[i:]
		j := bytes.Index(rest, []byte(closing))
		if j < 0 {
			return 0, nil
		}
		packet := rest[:j+len(closing)]
		rest = rest[j+len(closing):]
		m, err := xmp.Parse(packet)
		if err != nil {
			continue
		}
		if m.Part > 0 {
			return m.Part, nil
		}
	}
}
