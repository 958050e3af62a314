package pdfa

import (
	"fmt"
	"strings"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/ir/semantic"
)

var annotationsA1 = []string{
	"Text", "Link", "FreeText", "Line", "Square", "Circle", "Highlight",
	"Underline", "Squiggly", "StrikeOut", "Stamp", "Ink", "Popup", "Widget",
	"PrinterMark", "TrapNet",
}

var annotationsA2 = append(append([]string{}, annotationsA1...),
	"Polygon", "PolyLine", "Caret", "FileAttachment", "Watermark", "Redact")

var annotationsA4 = append(append([]string{}, annotationsA2...), "Projection")

// allowedAnnotations returns the annotation subtypes the level permits.
func (l Level) allowedAnnotations() map[string]bool {
	list := annotationsA2
	switch {
	case l.IsLevelA1():
		list = annotationsA1
	case l.IsLevelA4():
		list = annotationsA4
	}
	out := make(map[string]bool, len(list)+2)
	for _, s := range list {
		out[s] = true
	}
	if l == PDFA4E {
		out["3D"] = true
		out["RichMedia"] = true
	}
	return out
}

// allowedActions returns the action types the level permits.
func (l Level) allowedActions() map[string]bool {
	out := map[string]bool{"GoTo": true, "GoToR": true, "Thread": true, "URI": true, "Named": true, "SubmitForm": true}
	if l.Part() >= 2 {
		out["GoToE"] = true
	}
	if l.IsLevelA4() {
		out["GoToDp"] = true
		out["SetOCGState"] = true
	}
	if l == PDFA4E {
		out["GoTo3DView"] = true
		out["RichMediaExecute"] = true
	}
	return out
}

var allowedNamedActions = map[string]bool{
	"NextPage":  true,
	"PrevPage":  true,
	"FirstPage": true,
	"LastPage":  true,
}

func isForbiddenAnnotation(a semantic.Annotation, level Level) bool {
	return !level.allowedAnnotations()[a.Type()]
}

func (c *Checker) checkAnnotation(ctx compliance.Context, a semantic.Annotation, res *semantic.Resources, pageLoc string) {
	if a == nil || !c.once(a) || !c.once(refKey{"annot", a.Reference()}) {
		return
	}
	subtype := a.Type()
	loc := fmt.Sprintf("%s annotation %s", pageLoc, subtype)
	if isForbiddenAnnotation(a, c.level) {
		c.violate(CodeAnnotationSubtype, loc, subtype)
		return
	}
	b := a.Base()
	popupExempt := subtype == "Popup" && !c.level.IsLevelA1()

	switch {
	case !b.HasFlags && !popupExempt:
		c.violate(CodeAnnotationNoFlags, loc)
	case b.HasFlags && !popupExempt:
		if b.Flags&semantic.AnnotFlagPrint == 0 {
			c.violate(CodeAnnotationPrintFlag, loc)
		}
		hidden := semantic.AnnotFlagHidden | semantic.AnnotFlagInvisible | semantic.AnnotFlagNoView
		if !c.level.IsLevelA1() {
			hidden |= semantic.AnnotFlagToggleNoView
		}
		if b.Flags&hidden != 0 {
			c.violate(CodeAnnotationHiddenFlags, loc)
		}
	}

	if c.level.IsLevelA1() {
		if b.CA != nil && *b.CA != 1.0 {
			c.violate(CodeAnnotationOpacity, loc)
		}
		if len(b.Color) > 0 || len(semantic.InteriorColor(a)) > 0 {
			c.useDevice(deviceRGB, nil, loc)
		}
	}

	ap := b.Appearance
	if ap != nil && (ap.R != nil || ap.D != nil) {
		c.violate(CodeAppearanceKeys, loc)
	}
	if !c.level.IsLevelA1() && (ap == nil || ap.N == nil) && subtype != "Popup" && subtype != "Link" {
		if r := b.RectVal; r.Width() != 0 || r.Height() != 0 {
			c.violate(CodeMissingAppearance, loc, subtype)
		}
	}
	if w, ok := a.(*semantic.WidgetAnnotation); ok && w.Field != nil && w.Field.FieldType == "Btn" {
		if ap != nil && ap.N != nil && !ap.N.IsSubDictionary() {
			c.violate(CodeButtonAppearance, loc)
		}
	}

	if len(b.AdditionalActions) > 0 {
		if subtype == "Widget" || !c.level.IsLevelA1() {
			c.violate(CodeAnnotationActions, loc)
		} else {
			for _, key := range sortedKeys(b.AdditionalActions) {
				c.checkAction(b.AdditionalActions[key], loc)
			}
		}
	}
	if c.level.RequiresTagging() && b.Contents == "" {
		switch subtype {
		case "Widget", "Link", "Popup":
		default:
			c.violate(CodeAnnotationContents, loc, subtype)
		}
	}

	c.checkAction(semantic.AnnotationAction(a), loc)
	switch v := a.(type) {
	case *semantic.LinkAnnotation:
		if isJavaScriptURI(v.URI) {
			c.violate(CodeJavaScriptURI, loc)
		}
	case *semantic.FileAttachmentAnnotation:
		c.checkEmbeddedFile(&v.File, loc)
	}

	if ap != nil && ap.N != nil {
		c.checkAppearance(ctx, ap.N, res, loc+" appearance")
	}
}

func (c *Checker) checkAppearance(ctx compliance.Context, e *semantic.AppearanceEntry, res *semantic.Resources, loc string) {
	if e.Stream != nil && c.once(e.Stream) {
		c.checkXObject(ctx, e.Stream, res, loc, 0)
	}
	for _, state := range sortedKeys(e.States) {
		if xo := e.States[state]; xo != nil && c.once(xo) {
			c.checkXObject(ctx, xo, res, loc+" "+state, 0)
		}
	}
}

// checkAction checks a and every action chained through Next.
func (c *Checker) checkAction(a semantic.Action, loc string) {
	if a == nil {
		return
	}
	allowed := c.level.allowedActions()
	semantic.WalkActions(a, func(x semantic.Action) {
		t := x.ActionType()
		if !allowed[t] {
			c.violate(CodeForbiddenAction, loc, t)
			return
		}
		switch v := x.(type) {
		case semantic.NamedAction:
			if !allowedNamedActions[v.Name] {
				c.violate(CodeNamedAction, loc, v.Name)
			}
		case *semantic.NamedAction:
			if !allowedNamedActions[v.Name] {
				c.violate(CodeNamedAction, loc, v.Name)
			}
		case semantic.URIAction:
			if isJavaScriptURI(v.URI) {
				c.violate(CodeJavaScriptURI, loc)
			}
		case *semantic.URIAction:
			if isJavaScriptURI(v.URI) {
				c.violate(CodeJavaScriptURI, loc)
			}
		}
	})
}

func isJavaScriptURI(uri string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(uri)), "javascript:")
}
