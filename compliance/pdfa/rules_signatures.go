package pdfa

import (
	"fmt"

	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/security"
)

const subFilterRFC3161 = "ETSI.RFC3161"

func (c *Checker) allowedSubFilters() map[string]bool {
	out := map[string]bool{"adbe.pkcs7.detached": true, "ETSI.CAdES.detached": true}
	if c.level.IsLevelA4() {
		out[subFilterRFC3161] = true
	}
	return out
}

func (c *Checker) checkSignatures(doc *semantic.Document) {
	if c.level.IsLevelA1() {
		return
	}
	allowed := c.allowedSubFilters()
	var (
		lastLoc string
		lastEnd int64 = -1
	)
	for i, sig := range doc.Signatures {
		if sig == nil || !c.once(sig) {
			continue
		}
		loc := fmt.Sprintf("signature %d", i+1)
		if sig.FieldName != "" {
			loc = "signature " + sig.FieldName
		}
		if !allowed[sig.SubFilter] {
			c.violate(CodeSignatureSubFilter, loc, sig.SubFilter)
		}
		if c.checkByteRange(doc, sig, loc) {
			if end := sig.ByteRange[2] + sig.ByteRange[3]; end > lastEnd {
				lastEnd, lastLoc = end, loc
			}
		}
		if sig.SubFilter == subFilterRFC3161 {
			if _, err := security.ParseTimestampToken(sig.Contents); err != nil {
				c.violate(CodeTimestampToken, loc, err.Error())
			}
			continue
		}
		cms, err := security.ParseContainer(sig.Contents)
		if err != nil {
			c.violate(CodeSignatureContents, loc, err.Error())
			continue
		}
		if cms.SignerCount != 1 {
			c.violate(CodeSignatureSigners, loc, cms.SignerCount)
			continue
		}
		if _, err := cms.SignerCertificate(); err != nil {
			c.violate(CodeSignatureCert, loc)
		}
	}
	// The furthest reaching range shall end at the end of the file.
	if size := doc.Trailer.FileSize; size > 0 && lastEnd >= 0 && lastEnd != size {
		c.violate(CodeByteRange, lastLoc)
	}
}

// checkByteRange requires [0 a b c] where the gap a..b is exactly the hex
// encoded Contents string and b+c does not pass the end of the file. It
// reports whether the range is well formed.
func (c *Checker) checkByteRange(doc *semantic.Document, sig *semantic.Signature, loc string) bool {
	br := sig.ByteRange
	if len(br) != 4 || br[0] != 0 || br[1] <= 0 || br[2] < br[1] || br[3] < 0 {
		c.violate(CodeByteRange, loc)
		return false
	}
	if n := len(sig.Contents); n > 0 && br[2]-br[1] != int64(2*n+2) {
		c.violate(CodeByteRange, loc)
		return false
	}
	if size := doc.Trailer.FileSize; size > 0 && br[2]+br[3] > size {
		c.violate(CodeByteRange, loc)
		return false
	}
	return true
}
