// Package pdfua checks the accessibility requirements of PDF/UA-1 that can
// be decided from the document model: tagging, title, language, embedded
// fonts and alternate descriptions.
package pdfua

import (
	"errors"
	"fmt"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
	"github.com/wudi/pdfakit/xmp"
)

type Level int

const (
	PDFUA1 Level = iota
)

func (l Level) String() string {
	switch l {
	case PDFUA1:
		return "PDF/UA-1"
	default:
		return "Unknown"
	}
}

// Violation codes.
const (
	CodeNotMarked       = "UA001"
	CodeNoStructTree    = "UA002"
	CodeNoTitle         = "UA003"
	CodeNoLang          = "UA004"
	CodeFontNotEmbedded = "UA005"
	CodeFigureAlt       = "UA006"
	CodeAnnotationAlt   = "UA007"
)

type Enforcer interface {
	compliance.Validator
	Enforce(ctx compliance.Context, doc *semantic.Document, level Level) error
}

// Option configures an Enforcer.
type Option func(*enforcerImpl)

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(e *enforcerImpl) {
		if l != nil {
			e.log = l
		}
	}
}

type enforcerImpl struct {
	log observability.Logger
}

func NewEnforcer(opts ...Option) Enforcer {
	e := &enforcerImpl{log: observability.NopLogger{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Enforce marks tagged documents and fills a missing title and language.
// A structure tree cannot be synthesised, so untagged documents stay
// non-conforming.
func (e *enforcerImpl) Enforce(ctx compliance.Context, doc *semantic.Document, level Level) error {
	if doc == nil {
		return errors.New("pdfua: nil document")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.StructTree != nil {
		doc.Marked = true
	}
	if doc.Info == nil {
		doc.Info = &semantic.DocumentInfo{}
	}
	if doc.Info.Title == "" {
		doc.Info.Title = metadataTitle(doc)
	}
	if doc.Info.Title == "" {
		doc.Info.Title = "Untitled"
	}
	if doc.Lang == "" {
		doc.Lang = "en"
	}
	doc.Dirty = true
	e.log.Info("pdfua enforced", observability.String("level", level.String()))
	return nil
}

func (e *enforcerImpl) Validate(ctx compliance.Context, doc *semantic.Document) (*compliance.Report, error) {
	if doc == nil {
		return nil, errors.New("pdfua: nil document")
	}
	report := &compliance.Report{Compliant: true, Standard: PDFUA1.String()}
	add := func(code, desc, loc string) {
		report.Add(compliance.Violation{Code: code, Description: desc, Location: loc})
	}

	if !doc.Marked {
		add(CodeNotMarked, "Document must be marked (MarkInfo dictionary with Marked=true)", "catalog")
	}
	if doc.StructTree == nil {
		add(CodeNoStructTree, "Document must be tagged (StructTreeRoot missing)", "catalog")
	}
	if (doc.Info == nil || doc.Info.Title == "") && metadataTitle(doc) == "" {
		add(CodeNoTitle, "Document title is required", "metadata")
	}
	if doc.Lang == "" {
		add(CodeNoLang, "Document language is required", "catalog")
	}

	seen := make(map[*semantic.Font]bool)
	for i, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.Resources != nil {
			for name, font := range p.Resources.Fonts {
				if font == nil || seen[font] {
					continue
				}
				seen[font] = true
				if !isFontEmbedded(font) {
					add(CodeFontNotEmbedded, "Font must be embedded: "+font.BaseFont, fmt.Sprintf("page %d font %s", i+1, name))
				}
			}
		}
		for j, a := range p.Annotations {
			if a == nil {
				continue
			}
			switch a.Type() {
			case "Widget", "Popup", "Link", "PrinterMark":
				continue
			}
			if a.Base().Contents == "" {
				add(CodeAnnotationAlt, a.Type()+" annotation has no Contents description", fmt.Sprintf("page %d annotation %d", i+1, j+1))
			}
		}
	}

	if doc.StructTree != nil {
		checkStructure(doc.StructTree.K, doc.StructTree.RoleMap, add)
	}
	e.log.Debug("pdfua validated", observability.Int("violations", len(report.Violations)))
	return report, nil
}

func checkStructure(elements []*semantic.StructureElement, roles map[string]string, add func(code, desc, loc string)) {
	for _, elem := range elements {
		if elem == nil {
			continue
		}
		s := elem.S
		if mapped, ok := roles[s]; ok {
			s = mapped
		}
		if s == "Figure" && elem.Alt == "" && elem.ActualText == "" {
			add(CodeFigureAlt, "Figure missing alternative text", "structure element "+elem.S)
		}
		checkStructure(elem.K, roles, add)
	}
}

func metadataTitle(doc *semantic.Document) string {
	if doc.Metadata == nil {
		return ""
	}
	m, err := xmp.Parse(doc.Metadata.Raw)
	if err != nil {
		return ""
	}
	return m.Title
}

func isFontEmbedded(f *semantic.Font) bool {
	if f.Subtype == "Type3" {
		return true
	}
	if f.Descriptor != nil && len(f.Descriptor.FontFile) > 0 {
		return true
	}
	d := f.DescendantFont
	return f.Subtype == "Type0" && d != nil && d.Descriptor != nil && len(d.Descriptor.FontFile) > 0
}
