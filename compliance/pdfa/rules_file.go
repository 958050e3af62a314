package pdfa

import (
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
)

const trailerLoc = "trailer"

func (c *Checker) checkFile(doc *semantic.Document) {
	if doc.Encrypted || doc.Trailer.HasEncrypt {
		c.violate(CodeEncrypted, trailerLoc)
	}
	if len(doc.Trailer.ID) == 0 {
		c.violate(CodeMissingID, trailerLoc)
	}
	limit := c.level.MaxVersion()
	if v := doc.Trailer.Version; !v.IsZero() && !c.versionAllowed(v) {
		c.violate(CodeHeaderVersion, "header", v.String(), limit.String())
	}
	if doc.Catalog != nil && doc.Catalog.Version != "" {
		v, err := raw.ParseVersion(doc.Catalog.Version)
		if err != nil || !c.versionAllowed(v) {
			c.violate(CodeCatalogVersion, catalogLoc, doc.Catalog.Version, limit.String())
		}
	}
}

// versionAllowed applies the header rule: parts 1 to 3 cap the version,
// part 4 requires 2.x.
func (c *Checker) versionAllowed(v raw.Version) bool {
	if c.level.IsLevelA4() {
		return v.Major == 2
	}
	return v.Compare(c.level.MaxVersion()) <= 0
}

func (c *Checker) checkLimits(doc *semantic.Document) {
	lim := c.level.Limits()
	if lim.MaxIndirect > 0 && doc.Trailer.Size > lim.MaxIndirect+1 {
		c.violate(CodeTooManyObjects, trailerLoc, doc.Trailer.Size-1)
	}
	s := doc.Stats
	if s == nil {
		return
	}
	if lim.MaxStringLen > 0 && s.MaxStringLen > lim.MaxStringLen {
		c.violate(CodeStringTooLong, "object "+s.StringLocation.String(), s.MaxStringLen)
	}
	if lim.MaxNameLen > 0 && s.MaxNameLen > lim.MaxNameLen {
		c.violate(CodeNameTooLong, "object "+s.NameLocation.String(), s.MaxNameLen)
	}
	if lim.MaxInt != 0 {
		if s.MaxInt > lim.MaxInt {
			c.violate(CodeIntOutOfRange, "", s.MaxInt)
		}
		if s.MinInt < lim.MinInt {
			c.violate(CodeIntOutOfRange, "", s.MinInt)
		}
	}
	if lim.MaxReal > 0 && s.MaxReal > lim.MaxReal {
		c.violate(CodeRealOutOfRange, "", s.MaxReal)
	}
	if lim.MaxArrayLen > 0 && s.MaxArrayLen > lim.MaxArrayLen {
		c.violate(CodeArrayTooLarge, "", s.MaxArrayLen)
	}
	if lim.MaxDictLen > 0 && s.MaxDictLen > lim.MaxDictLen {
		c.violate(CodeDictTooLarge, "", s.MaxDictLen)
	}
}
