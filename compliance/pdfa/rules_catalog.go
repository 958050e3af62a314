package pdfa

import (
	"sort"
	"strings"

	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/xmp"
)

const (
	catalogLoc  = "catalog"
	acroFormLoc = "AcroForm"
	metadataLoc = "metadata"
	infoLoc     = "info"
)

func (c *Checker) checkCatalog(doc *semantic.Document) {
	if cat := doc.Catalog; cat != nil {
		if len(cat.AdditionalActions) > 0 {
			c.violate(CodeCatalogActions, catalogLoc)
		}
		c.checkAction(cat.OpenAction, catalogLoc+" OpenAction")
		if cat.HasAlternatePresentations {
			c.violate(CodeAlternatePresentations, catalogLoc)
		}
		if len(cat.JavaScriptNames) > 0 {
			c.violate(CodeJavaScriptNames, catalogLoc)
		}
		if cat.NeedsRendering {
			c.violate(CodeNeedsRendering, catalogLoc)
		}
		if cat.HasRequirements && c.level.IsLevelA1() {
			c.violate(CodeRequirements, catalogLoc)
		}
	}
	if c.level.RequiresTagging() {
		if !doc.Marked {
			c.violate(CodeNotMarked, catalogLoc)
		}
		if doc.StructTree == nil {
			c.violate(CodeNoStructTree, catalogLoc)
		}
		if strings.TrimSpace(doc.Lang) == "" {
			c.violate(CodeNoLang, catalogLoc)
		}
	}
}

func (c *Checker) checkForms(doc *semantic.Document) {
	form := doc.AcroForm
	if form == nil {
		return
	}
	if form.NeedAppearances {
		c.violate(CodeNeedAppearances, acroFormLoc)
	}
	if form.HasXFA || len(form.XFA) > 0 {
		c.violate(CodeXFA, acroFormLoc)
	}
	for _, root := range form.Fields {
		root.Walk(func(f *semantic.FormField) {
			loc := "field " + f.Name
			if len(f.AdditionalActions) > 0 {
				c.violate(CodeFieldActions, loc)
			}
			c.checkAction(f.Action, loc)
		})
	}
}

func (c *Checker) checkOptionalContent(doc *semantic.Document) {
	oc := doc.OCProperties
	if oc == nil {
		return
	}
	if !c.level.AllowsLayers() {
		c.violate(CodeOptionalContent, catalogLoc)
		return
	}
	configs := oc.Configs
	if oc.D != nil {
		configs = append([]*semantic.OCConfig{oc.D}, configs...)
	}
	names := make(map[string]bool)
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		loc := "optional content configuration " + cfg.Name
		if cfg.Name == "" {
			c.violate(CodeOCConfigName, loc)
		} else if names[cfg.Name] {
			c.violate(CodeOCConfigNameUnique, loc, cfg.Name)
		}
		names[cfg.Name] = true
		if cfg.HasAS {
			c.violate(CodeOCConfigAS, loc)
		}
		ordered := make(map[*semantic.OptionalContentGroup]bool, len(cfg.Order))
		for _, g := range cfg.Order {
			ordered[g] = true
		}
		for _, g := range oc.OCGs {
			if g != nil && !ordered[g] {
				c.violate(CodeOCConfigOrder, loc, g.Name)
				break
			}
		}
	}
}

func (c *Checker) checkMetadata(doc *semantic.Document) {
	md := doc.Metadata
	if md == nil || len(md.Raw) == 0 {
		c.violate(CodeMissingMetadata, catalogLoc)
		return
	}
	if c.level.IsLevelA1() && len(md.Filters) > 0 {
		c.violate(CodeFilteredMetadata, metadataLoc)
	}
	m, err := xmp.Parse(md.Raw)
	if err != nil {
		c.violate(CodeInvalidMetadata, metadataLoc, err.Error())
		return
	}
	if !m.HasPart() {
		c.violate(CodeMissingPart, metadataLoc)
	} else if m.Part != c.level.Part() {
		c.violate(CodePartMismatch, metadataLoc, m.Part, c.level.Part())
	}
	if !strings.EqualFold(strings.TrimSpace(m.Conformance), c.level.Conformance()) {
		c.violate(CodeConformanceMismatch, metadataLoc, m.Conformance, c.level.Conformance())
	}
	if c.level.IsLevelA4() {
		if m.Rev == "" {
			c.violate(CodeMissingRev, metadataLoc)
		}
		if doc.Info != nil {
			var extra []string
			for _, k := range doc.Info.Keys() {
				if k != "ModDate" {
					extra = append(extra, k)
				}
			}
			if len(extra) > 0 {
				sort.Strings(extra)
				c.violate(CodeInfoEntries, infoLoc, strings.Join(extra, ", "))
			}
		}
		return
	}
	if doc.Info != nil {
		for _, key := range infoMismatches(doc.Info, m) {
			c.violate(CodeInfoMismatch, infoLoc, key)
		}
	}
}

// infoMismatches returns the Info keys whose values differ from their XMP
// equivalents.
func infoMismatches(info *semantic.DocumentInfo, m *xmp.Metadata) []string {
	var out []string
	text := func(key, infoVal, xmpVal string) {
		if infoVal != "" && infoVal != xmpVal {
			out = append(out, key)
		}
	}
	text("Title", info.Title, m.Title)
	if info.Author != "" {
		joined := strings.Join(m.Creators, ", ")
		if len(m.Creators) == 0 || (m.Creators[0] != info.Author && joined != info.Author) {
			out = append(out, "Author")
		}
	}
	text("Subject", info.Subject, m.Description)
	text("Keywords", strings.Join(info.Keywords, ", "), m.Keywords)
	text("Creator", info.Creator, m.CreatorTool)
	text("Producer", info.Producer, m.Producer)
	date := func(key, infoVal, xmpVal string) {
		if infoVal == "" {
			return
		}
		it, err := xmp.ParsePDFDate(infoVal)
		if err != nil {
			return
		}
		xt, err := xmp.ParseDate(xmpVal)
		if err != nil || !it.Equal(xt) {
			out = append(out, key)
		}
	}
	date("CreationDate", info.CreationDate, m.CreateDate)
	date("ModDate", info.ModDate, m.ModifyDate)
	return out
}
