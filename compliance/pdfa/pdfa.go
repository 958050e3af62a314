// Package pdfa checks documents against the PDF/A parts 1 to 4 and repairs
// what can be repaired without re-rendering content.
package pdfa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
	"github.com/wudi/pdfakit/xmp"
)

// Enforcer validates documents against a level and repairs them.
type Enforcer interface {
	Enforce(ctx compliance.Context, doc *semantic.Document, level Level) error
	Validate(ctx compliance.Context, doc *semantic.Document, level Level) (*compliance.Report, error)
	// Check stops at the first violation and returns it as a
	// *compliance.ConformanceError.
	Check(ctx compliance.Context, doc *semantic.Document, level Level) error
}

type enforcerImpl struct {
	opts []Option
	o    options
}

// NewEnforcer returns an Enforcer configured with opts.
func NewEnforcer(opts ...Option) Enforcer {
	return &enforcerImpl{opts: opts, o: newOptions(opts)}
}

func (e *enforcerImpl) Validate(ctx compliance.Context, doc *semantic.Document, level Level) (*compliance.Report, error) {
	ctx, span := e.o.tracer.StartSpan(ctx, observability.SpanValidate)
	defer span.Finish()
	span.SetTag(observability.TagLevel, level.String())

	opts := append(append([]Option{}, e.opts...), WithFailFast(false))
	report, err := NewChecker(level, opts...).CheckDocument(ctx, doc)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag(observability.TagViolations, len(report.Violations))
	return report, nil
}

func (e *enforcerImpl) Check(ctx compliance.Context, doc *semantic.Document, level Level) error {
	ctx, span := e.o.tracer.StartSpan(ctx, observability.SpanCheck)
	defer span.Finish()
	span.SetTag(observability.TagLevel, level.String())

	opts := append(append([]Option{}, e.opts...), WithFailFast(true))
	_, err := NewChecker(level, opts...).CheckDocument(ctx, doc)
	if err != nil {
		span.SetError(err)
	}
	return err
}

func (e *enforcerImpl) Enforce(ctx compliance.Context, doc *semantic.Document, level Level) error {
	if doc == nil {
		return errors.New("pdfa: nil document")
	}
	ctx, span := e.o.tracer.StartSpan(ctx, observability.SpanEnforce)
	defer span.Finish()
	span.SetTag(observability.TagLevel, level.String())
	log := e.o.logger.With(observability.String("level", level.String()))

	if err := checkCancelled(ctx); err != nil {
		span.SetError(err)
		return err
	}

	// 1. Remove encryption and fix the version
	if doc.Encrypted || doc.Trailer.HasEncrypt {
		log.Debug("removing encryption")
		doc.Encrypted = false
		doc.Trailer.HasEncrypt = false
		doc.Permissions = raw.Permissions{}
		doc.OwnerPassword = ""
		doc.UserPassword = ""
	}
	if v := doc.Trailer.Version; v.IsZero() || (level.IsLevelA4() && v.Major != 2) || v.Compare(level.MaxVersion()) > 0 {
		doc.Trailer.Version = level.MaxVersion()
	}
	if doc.Catalog != nil {
		doc.Catalog.Version = ""
	}

	// 2. Output intent
	e.fixOutputIntents(doc, level)

	// 3. Catalog, forms and optional content
	e.fixCatalog(doc, level)
	e.fixForms(doc, level)

	// 4. Pages
	seen := make(map[*semantic.Resources]bool)
	for _, p := range doc.Pages {
		if err := checkCancelled(ctx); err != nil {
			span.SetError(err)
			return err
		}
		e.fixPage(p, level, seen)
	}

	// 5. Embedded files
	e.fixEmbeddedFiles(doc, level)

	// 6. Metadata and trailer ID
	e.fixMetadata(doc, level)
	if len(doc.Trailer.ID) == 0 {
		id := md5Sum([]byte(fmt.Sprintf("%s|%d|%d|%s", e.o.now().UTC().Format("20060102150405.000000000"),
			len(doc.Pages), doc.Trailer.FileSize, infoTitle(doc))))
		doc.Trailer.ID = [][]byte{id, id}
	}

	doc.Dirty = true
	log.Info("pdfa enforcement finished", observability.Int("pages", len(doc.Pages)))
	return nil
}

func infoTitle(doc *semantic.Document) string {
	if doc.Info == nil {
		return ""
	}
	return doc.Info.Title
}

func (e *enforcerImpl) fixOutputIntents(doc *semantic.Document, level Level) {
	var profile []byte
	for _, oi := range doc.OutputIntents {
		if oi.S != "GTS_PDFA1" {
			continue
		}
		if p, err := cmm.NewICCProfile(oi.DestOutputProfile); err == nil {
			if major, _ := p.Version(); major <= level.MaxICCVersion() {
				profile = oi.DestOutputProfile
				break
			}
		}
	}
	if profile == nil {
		profile = cmm.SRGBProfile()
		fixed := false
		for i := range doc.OutputIntents {
			if doc.OutputIntents[i].S == "GTS_PDFA1" {
				doc.OutputIntents[i].DestOutputProfile = profile
				doc.OutputIntents[i].Dirty = true
				fixed = true
			}
		}
		if !fixed {
			doc.OutputIntents = append(doc.OutputIntents, semantic.OutputIntent{
				S:                         "GTS_PDFA1",
				OutputConditionIdentifier: cmm.SRGBDescription(),
				Info:                      cmm.SRGBDescription(),
				DestOutputProfile:         profile,
				Dirty:                     true,
			})
		}
	}
	if level.IsLevelA1() {
		return
	}
	for i := range doc.OutputIntents {
		if len(doc.OutputIntents[i].DestOutputProfile) > 0 {
			doc.OutputIntents[i].DestOutputProfile = profile
		}
	}
}

// allowedChain reports whether every action of the chain starting at a is
// permitted by level.
func allowedChain(a semantic.Action, level Level) bool {
	ok := true
	allowed := level.allowedActions()
	semantic.WalkActions(a, func(x semantic.Action) {
		if !allowed[x.ActionType()] {
			ok = false
			return
		}
		switch v := x.(type) {
		case semantic.NamedAction:
			ok = ok && allowedNamedActions[v.Name]
		case *semantic.NamedAction:
			ok = ok && allowedNamedActions[v.Name]
		case semantic.URIAction:
			ok = ok && !isJavaScriptURI(v.URI)
		case *semantic.URIAction:
			ok = ok && !isJavaScriptURI(v.URI)
		}
	})
	return ok
}

func sanitizeAction(a semantic.Action, level Level) semantic.Action {
	if a == nil || allowedChain(a, level) {
		return a
	}
	return nil
}

func sanitizeActions(m map[string]semantic.Action, level Level) map[string]semantic.Action {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]semantic.Action, len(m))
	for k, a := range m {
		if a = sanitizeAction(a, level); a != nil {
			out[k] = a
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (e *enforcerImpl) fixCatalog(doc *semantic.Document, level Level) {
	if cat := doc.Catalog; cat != nil {
		cat.AdditionalActions = nil
		cat.OpenAction = sanitizeAction(cat.OpenAction, level)
		cat.HasAlternatePresentations = false
		cat.JavaScriptNames = nil
		cat.NeedsRendering = false
		if level.IsLevelA1() {
			cat.HasRequirements = false
		}
		cat.Dirty = true
	}
	if level.RequiresTagging() && doc.StructTree != nil {
		doc.Marked = true
	}
	oc := doc.OCProperties
	if oc == nil {
		return
	}
	if !level.AllowsLayers() {
		doc.OCProperties = nil
		return
	}
	configs := oc.Configs
	if oc.D != nil {
		configs = append([]*semantic.OCConfig{oc.D}, configs...)
	}
	names := make(map[string]bool)
	for i, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Name == "" || names[cfg.Name] {
			cfg.Name = "Configuration " + strconv.Itoa(i+1)
			for names[cfg.Name] {
				cfg.Name += "'"
			}
		}
		names[cfg.Name] = true
		cfg.HasAS = false
		listed := make(map[*semantic.OptionalContentGroup]bool, len(cfg.Order))
		for _, g := range cfg.Order {
			listed[g] = true
		}
		for _, g := range oc.OCGs {
			if g != nil && !listed[g] {
				cfg.Order = append(cfg.Order, g)
			}
		}
	}
}

func (e *enforcerImpl) fixForms(doc *semantic.Document, level Level) {
	form := doc.AcroForm
	if form == nil {
		return
	}
	form.NeedAppearances = false
	form.XFA = nil
	form.HasXFA = false
	for _, root := range form.Fields {
		root.Walk(func(f *semantic.FormField) {
			f.AdditionalActions = nil
			f.Action = sanitizeAction(f.Action, level)
		})
	}
	form.Dirty = true
}

func (e *enforcerImpl) fixPage(p *semantic.Page, level Level, seen map[*semantic.Resources]bool) {
	if level.IsLevelA1() {
		p.AdditionalActions = sanitizeActions(p.AdditionalActions, level)
	} else {
		p.AdditionalActions = nil
	}
	p.HasPresSteps = false
	fixResources(p.Resources, seen, 0)

	kept := p.Annotations[:0]
	for _, a := range p.Annotations {
		if isForbiddenAnnotation(a, level) {
			continue
		}
		fixAnnotation(a, level)
		kept = append(kept, a)
	}
	p.Annotations = kept
	p.Dirty = true
}

func fixAnnotation(a semantic.Annotation, level Level) {
	b := a.Base()
	if !(b.Subtype == "Popup" && !level.IsLevelA1()) {
		flags := b.Flags | semantic.AnnotFlagPrint
		flags &^= semantic.AnnotFlagHidden | semantic.AnnotFlagInvisible | semantic.AnnotFlagNoView | semantic.AnnotFlagToggleNoView
		b.SetFlags(flags)
	}
	if level.IsLevelA1() {
		b.CA = nil
		if b.Subtype != "Widget" {
			b.AdditionalActions = sanitizeActions(b.AdditionalActions, level)
		} else {
			b.AdditionalActions = nil
		}
	} else {
		b.AdditionalActions = nil
	}
	if b.Appearance != nil {
		b.Appearance.R = nil
		b.Appearance.D = nil
	}
	switch v := a.(type) {
	case *semantic.LinkAnnotation:
		v.Action = sanitizeAction(v.Action, level)
		if isJavaScriptURI(v.URI) {
			v.URI = ""
		}
	case *semantic.WidgetAnnotation:
		v.Action = sanitizeAction(v.Action, level)
	case *semantic.ScreenAnnotation:
		v.Action = sanitizeAction(v.Action, level)
	}
	b.Dirty = true
}

// fixResources clears graphics state and image entries that can be removed
// without changing how the page renders.
func fixResources(res *semantic.Resources, seen map[*semantic.Resources]bool, depth int) {
	if res == nil || seen[res] || depth > maxResourceDepth {
		return
	}
	seen[res] = true
	for name, gs := range res.ExtGStates {
		gs.Transfer = ""
		if gs.Transfer2 != "" && gs.Transfer2 != "Default" {
			gs.Transfer2 = ""
		}
		if gs.Halftone != nil {
			gs.Halftone.Name = ""
		}
		if gs.RenderingIntent != "" && !renderingIntents[gs.RenderingIntent] {
			gs.RenderingIntent = "RelativeColorimetric"
		}
		gs.Dirty = true
		res.ExtGStates[name] = gs
	}
	for name, xo := range res.XObjects {
		xo.Interpolate = false
		xo.HasOPI = false
		xo.HasAlternates = false
		if xo.Intent != "" && !renderingIntents[xo.Intent] {
			xo.Intent = "RelativeColorimetric"
		}
		xo.Dirty = true
		res.XObjects[name] = xo
		fixResources(xo.Resources, seen, depth+1)
	}
	for _, f := range res.Fonts {
		if f != nil && f.Subtype == "Type3" {
			fixResources(f.Resources, seen, depth+1)
		}
	}
	res.Dirty = true
}

func (e *enforcerImpl) fixEmbeddedFiles(doc *semantic.Document, level Level) {
	if !level.AllowsAttachment() {
		doc.EmbeddedFiles = nil
		doc.AssociatedFiles = nil
		return
	}
	now := xmp.FormatPDFDate(e.o.now())
	fix := func(files []semantic.EmbeddedFile) []semantic.EmbeddedFile {
		kept := files[:0]
		for _, ef := range files {
			if !level.AllowsArbitraryAttachment() {
				if part, err := e.o.payload(ef.Data); err != nil || part < 1 || part > 2 {
					continue
				}
			}
			if ef.FileName == "" {
				ef.FileName = fileName(&ef)
			}
			if ef.UnicodeName == "" {
				ef.UnicodeName = ef.FileName
			}
			if level.Part() >= 3 {
				if ef.Relationship == "" {
					ef.Relationship = "Unspecified"
				}
				if ef.Subtype == "" {
					ef.Subtype = "application/octet-stream"
				}
				if ef.Params == nil {
					ef.Params = &semantic.EmbeddedFileParams{Size: len(ef.Data)}
				}
				if ef.Params.ModDate == "" {
					ef.Params.ModDate = now
				}
				if len(ef.Data) > 0 {
					ef.Params.CheckSum = md5Sum(ef.Data)
				}
			}
			ef.Dirty = true
			kept = append(kept, ef)
		}
		return kept
	}
	doc.EmbeddedFiles = fix(doc.EmbeddedFiles)
	doc.AssociatedFiles = fix(doc.AssociatedFiles)
}

// fixMetadata rewrites the XMP packet with the level's identification and
// the Info values, and keeps both in sync.
func (e *enforcerImpl) fixMetadata(doc *semantic.Document, level Level) {
	m := &xmp.Metadata{}
	if doc.Metadata != nil && len(doc.Metadata.Raw) > 0 {
		if parsed, err := xmp.Parse(doc.Metadata.Raw); err == nil {
			m = parsed
		}
	}
	if doc.Info == nil {
		doc.Info = &semantic.DocumentInfo{}
	}
	info := doc.Info
	now := e.o.now()

	m.Part = level.Part()
	m.Conformance = level.Conformance()
	m.Rev = ""
	if level.IsLevelA4() {
		m.Rev = "2020"
	}

	if info.Title != "" {
		m.Title = info.Title
	}
	if info.Author != "" {
		m.Creators = []string{info.Author}
	}
	if info.Subject != "" {
		m.Description = info.Subject
	}
	if len(info.Keywords) > 0 {
		m.Keywords = strings.Join(info.Keywords, ", ")
	}
	if info.Creator != "" {
		m.CreatorTool = info.Creator
	}
	if info.Producer != "" {
		m.Producer = info.Producer
	}
	if t, err := xmp.ParsePDFDate(info.CreationDate); err == nil {
		m.CreateDate = xmp.FormatDate(t)
	} else {
		info.CreationDate = ""
	}
	info.ModDate = xmp.FormatPDFDate(now)
	m.ModifyDate = xmp.FormatDate(now)

	if level.IsLevelA4() {
		doc.Info = &semantic.DocumentInfo{ModDate: info.ModDate, OriginalRef: info.OriginalRef, Dirty: true}
	} else {
		info.Dirty = true
	}

	md := &semantic.XMPMetadata{Raw: m.Marshal(), Dirty: true}
	if doc.Metadata != nil {
		md.OriginalRef = doc.Metadata.OriginalRef
	}
	doc.Metadata = md
}

func checkCancelled(ctx compliance.Context) error {
	select {
	case <-ctx.Done():
		return &ValidationCancelledError{Err: ctx.Err()}
	default:
		return nil
	}
}

// ValidationCancelledError is returned when the context ends during
// validation or enforcement.
type ValidationCancelledError struct {
	Err error
}

func (e *ValidationCancelledError) Error() string { return "validation cancelled" }

func (e *ValidationCancelledError) Unwrap() error { return e.Err }
