package pdfa

import (
	"fmt"
	"time"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/observability"
)

// PayloadInspector returns the PDF/A part declared by an embedded PDF
// payload, or 0 when the payload is not a PDF/A file.
type PayloadInspector func(data []byte) (int, error)

// Option configures a Checker or an Enforcer.
type Option func(*options)

type options struct {
	logger   observability.Logger
	tracer   observability.Tracer
	failFast bool
	payload  PayloadInspector
	now      func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		logger:  observability.NopLogger{},
		tracer:  observability.NopTracer(),
		payload: XMPPayloadInspector,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Rule hits are logged at debug level.
func WithLogger(l observability.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for validation spans.
func WithTracer(t observability.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithFailFast stops at the first violation and returns it as a
// *compliance.ConformanceError.
func WithFailFast(on bool) Option {
	return func(o *options) { o.failFast = on }
}

// WithPayloadInspector replaces the detection of PDF/A payloads in
// embedded files.
func WithPayloadInspector(fn PayloadInspector) Option {
	return func(o *options) {
		if fn != nil {
			o.payload = fn
		}
	}
}

// WithClock sets the time source used by the enforcer.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Checker evaluates the rules of one level against a document. Objects
// shared between pages are checked once; pages can be checked as they are
// produced and the document afterwards.
type Checker struct {
	level  Level
	opts   options
	log    observability.Logger
	report *compliance.Report
	failed *compliance.ConformanceError

	checked map[any]struct{}
	pages   map[*semantic.Page]struct{}

	doc         *semantic.Document
	hasIntent   bool
	intentSpace string
	separations map[string]*semantic.SeparationColorSpace
}

type refKey struct {
	kind string
	ref  raw.ObjectRef
}

// NewChecker returns a checker for level.
func NewChecker(level Level, opts ...Option) *Checker {
	o := newOptions(opts)
	return &Checker{
		level:       level,
		opts:        o,
		log:         o.logger.With(observability.String("level", level.String())),
		report:      &compliance.Report{Compliant: true, Standard: level.String()},
		checked:     make(map[any]struct{}),
		pages:       make(map[*semantic.Page]struct{}),
		separations: make(map[string]*semantic.SeparationColorSpace),
	}
}

// Level returns the level the checker enforces.
func (c *Checker) Level() Level { return c.level }

// Report returns the violations recorded so far.
func (c *Checker) Report() *compliance.Report { return c.report }

// CheckPage checks a single page of doc. In fail-fast mode the first
// violation is returned as a *compliance.ConformanceError.
func (c *Checker) CheckPage(ctx compliance.Context, doc *semantic.Document, page *semantic.Page) error {
	if err := checkCancelled(ctx); err != nil {
		return err
	}
	c.prepare(doc)
	if page == nil {
		return nil
	}
	if _, ok := c.pages[page]; ok {
		return c.err()
	}
	c.pages[page] = struct{}{}
	c.checkPage(ctx, page)
	if err := checkCancelled(ctx); err != nil {
		return err
	}
	return c.err()
}

// CheckDocument runs the document level rules and checks every page not
// checked yet. The returned error is non-nil when the context is cancelled
// or, in fail-fast mode, for the first violation.
func (c *Checker) CheckDocument(ctx compliance.Context, doc *semantic.Document) (*compliance.Report, error) {
	if doc == nil {
		return c.report, fmt.Errorf("pdfa: nil document")
	}
	if err := checkCancelled(ctx); err != nil {
		return c.report, err
	}
	c.prepare(doc)
	steps := []func(*semantic.Document){
		c.checkFile,
		c.checkLimits,
		c.checkOutputIntents,
		c.checkMetadata,
		c.checkCatalog,
		c.checkForms,
		c.checkOptionalContent,
		c.checkEmbeddedFiles,
		c.checkSignatures,
	}
	for _, step := range steps {
		if c.stopped() {
			return c.report, c.err()
		}
		step(doc)
	}
	for _, p := range doc.Pages {
		if err := c.CheckPage(ctx, doc, p); err != nil {
			return c.report, err
		}
	}
	c.log.Info("pdfa check finished",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("violations", len(c.report.Violations)),
		observability.Bool("compliant", c.report.Compliant))
	return c.report, c.err()
}

// prepare derives the document facts page rules depend on.
func (c *Checker) prepare(doc *semantic.Document) {
	if c.doc == doc {
		return
	}
	c.doc = doc
	c.hasIntent, c.intentSpace = false, ""
	if doc == nil {
		return
	}
	for _, oi := range doc.OutputIntents {
		if oi.S != "GTS_PDFA1" {
			continue
		}
		c.hasIntent = true
		if c.intentSpace != "" || len(oi.DestOutputProfile) == 0 {
			continue
		}
		if p, err := cmm.NewICCProfile(oi.DestOutputProfile); err == nil {
			c.intentSpace = p.ColorSpace()
		}
	}
}

func (c *Checker) violate(code, location string, args ...any) {
	if c.failed != nil {
		return
	}
	msg := messages[code]
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	v := compliance.Violation{Code: code, Description: msg, Location: location, Severity: compliance.SeverityError}
	c.report.Add(v)
	c.log.Debug("rule violated",
		observability.String("code", code),
		observability.String("location", location))
	if c.opts.failFast {
		c.failed = compliance.NewConformanceError(v)
	}
}

func (c *Checker) stopped() bool { return c.failed != nil }

func (c *Checker) err() error {
	if c.failed != nil {
		return c.failed
	}
	return nil
}

// once reports whether key is seen for the first time. Pointers are keyed by
// identity; values by their object reference, and values without one are
// always checked.
func (c *Checker) once(key any) bool {
	if key == nil {
		return true
	}
	if rk, ok := key.(refKey); ok && rk.ref.IsZero() {
		return true
	}
	if _, ok := c.checked[key]; ok {
		return false
	}
	c.checked[key] = struct{}{}
	return true
}

func (c *Checker) checkPage(ctx compliance.Context, p *semantic.Page) {
	loc := fmt.Sprintf("page %d", p.Index+1)
	c.checkPageDict(p, loc)
	if c.stopped() {
		return
	}
	c.checkResources(ctx, p.Resources, loc)
	for i, cs := range p.Contents {
		if c.stopped() {
			return
		}
		c.checkContent(ctx, cs, p.Resources, fmt.Sprintf("%s content %d", loc, i+1))
	}
	usesTransparency := resourcesUseTransparency(p.Resources, 0)
	if p.Group != nil && p.Group.IsTransparency() {
		if c.level.IsLevelA1() {
			c.violate(CodePageGroup, loc)
		} else if p.Group.CS != nil {
			c.checkColorSpace(p.Group.CS, p.Resources, loc+" group")
		}
	}
	if usesTransparency && c.level.AllowsTransparency() && !c.hasIntent {
		if p.Group == nil || p.Group.CS == nil {
			c.violate(CodePageGroupColorSpace, loc)
		}
	}
	for _, a := range p.Annotations {
		if c.stopped() {
			return
		}
		c.checkAnnotation(ctx, a, p.Resources, loc)
	}
}

func (c *Checker) checkPageDict(p *semantic.Page, loc string) {
	if len(p.AdditionalActions) > 0 {
		if c.level.IsLevelA1() {
			for _, a := range p.AdditionalActions {
				c.checkAction(a, loc)
			}
		} else {
			c.violate(CodePageActions, loc)
		}
	}
	if p.HasPresSteps {
		c.violate(CodePresSteps, loc)
	}
	lim := c.level.Limits()
	if lim.MaxPageSize == 0 {
		return
	}
	unit := p.UserUnit
	if unit == 0 {
		unit = 1
	}
	for _, name := range []string{"MediaBox", "CropBox", "TrimBox", "BleedBox", "ArtBox"} {
		r, ok := p.Boxes()[name]
		if !ok || r.IsZero() {
			continue
		}
		w, h := r.Width()*unit, r.Height()*unit
		if w < lim.MinPageSize || h < lim.MinPageSize || w > lim.MaxPageSize || h > lim.MaxPageSize {
			c.violate(CodePageSize, loc, name, w, h)
		}
	}
}
