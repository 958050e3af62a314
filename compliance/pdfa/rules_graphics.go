package pdfa

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/contentstream"
	"github.com/wudi/pdfakit/ir/semantic"
)

var renderingIntents = map[string]bool{
	"RelativeColorimetric": true,
	"AbsoluteColorimetric": true,
	"Perceptual":           true,
	"Saturation":           true,
}

var standardBlendModes = map[string]bool{
	"Normal": true, "Compatible": true, "Multiply": true, "Screen": true,
	"Overlay": true, "Darken": true, "Lighten": true, "ColorDodge": true,
	"ColorBurn": true, "HardLight": true, "SoftLight": true, "Difference": true,
	"Exclusion": true, "Hue": true, "Saturation": true, "Color": true,
	"Luminosity": true,
}

const maxResourceDepth = 16

// checkResources checks every resource of a resource dictionary once.
func (c *Checker) checkResources(ctx compliance.Context, res *semantic.Resources, loc string) {
	c.checkResourcesDepth(ctx, res, loc, 0)
}

func (c *Checker) checkResourcesDepth(ctx compliance.Context, res *semantic.Resources, loc string, depth int) {
	if res == nil || depth > maxResourceDepth || !c.once(res) {
		return
	}
	for _, name := range sortedKeys(res.ColorSpaces) {
		c.checkColorSpace(res.ColorSpaces[name], res, fmt.Sprintf("%s colour space %s", loc, name))
	}
	for _, name := range sortedKeys(res.ExtGStates) {
		gs := res.ExtGStates[name]
		c.checkExtGState(&gs, res, fmt.Sprintf("%s graphics state %s", loc, name))
	}
	for _, name := range sortedKeys(res.Fonts) {
		if c.stopped() {
			return
		}
		c.checkFont(ctx, res.Fonts[name], fmt.Sprintf("%s font %s", loc, name), depth)
	}
	for _, name := range sortedKeys(res.XObjects) {
		if c.stopped() {
			return
		}
		xo := res.XObjects[name]
		c.checkXObject(ctx, &xo, res, fmt.Sprintf("%s xobject %s", loc, name), depth)
	}
	for _, name := range sortedKeys(res.Shadings) {
		if sh := res.Shadings[name]; sh != nil {
			c.checkColorSpace(sh.ShadingColorSpace(), res, fmt.Sprintf("%s shading %s", loc, name))
		}
	}
	for _, name := range sortedKeys(res.Patterns) {
		c.checkPattern(ctx, res.Patterns[name], res, fmt.Sprintf("%s pattern %s", loc, name), depth)
	}
	if !c.level.AllowsLayers() {
		for _, name := range sortedKeys(res.Properties) {
			switch res.Properties[name].(type) {
			case *semantic.OptionalContentGroup, *semantic.OptionalContentMembership:
				c.violate(CodeOptionalContent, fmt.Sprintf("%s properties %s", loc, name))
			}
		}
	}
}

func (c *Checker) checkExtGState(gs *semantic.ExtGState, res *semantic.Resources, loc string) {
	if !c.once(refKey{"extgstate", gs.OriginalRef}) {
		return
	}
	if c.level.IsLevelA1() {
		switch {
		case gs.SoftMask != nil:
			c.violate(CodeExtGStateTransparency, loc, "SMask")
		case gs.StrokeAlpha != nil && *gs.StrokeAlpha != 1:
			c.violate(CodeExtGStateTransparency, loc, "CA")
		case gs.FillAlpha != nil && *gs.FillAlpha != 1:
			c.violate(CodeExtGStateTransparency, loc, "ca")
		case gs.BlendMode != "" && gs.BlendMode != "Normal" && gs.BlendMode != "Compatible":
			c.violate(CodeExtGStateTransparency, loc, "BM "+gs.BlendMode)
		}
	} else if gs.BlendMode != "" && !standardBlendModes[gs.BlendMode] {
		c.violate(CodeBlendMode, loc, gs.BlendMode)
	}
	if gs.Transfer != "" {
		c.violate(CodeTransferFunction, loc)
	}
	if gs.Transfer2 != "" && gs.Transfer2 != "Default" {
		c.violate(CodeTransfer2, loc)
	}
	if ht := gs.Halftone; ht != nil && !c.level.IsLevelA1() {
		if ht.Type != 0 && ht.Type != 1 && ht.Type != 5 {
			c.violate(CodeHalftoneType, loc, ht.Type)
		}
		if ht.Name != "" {
			c.violate(CodeHalftoneName, loc)
		}
	}
	if gs.RenderingIntent != "" && !renderingIntents[gs.RenderingIntent] {
		c.violate(CodeRenderingIntent, loc, gs.RenderingIntent)
	}
	if sm := gs.SoftMask; sm != nil && sm.Group != nil && c.level.AllowsTransparency() {
		if sm.Group.Group != nil && sm.Group.Group.CS != nil {
			c.checkColorSpace(sm.Group.Group.CS, res, loc+" soft mask")
		}
	}
}

func (c *Checker) checkXObject(ctx compliance.Context, xo *semantic.XObject, res *semantic.Resources, loc string, depth int) {
	if !c.once(refKey{"xobject", xo.OriginalRef}) {
		return
	}
	if xo.HasOPI {
		c.violate(CodeOPI, loc)
	}
	switch xo.Subtype {
	case "PS":
		c.violate(CodePostScriptXObject, loc)
	case "Image":
		c.checkImage(xo, res, loc)
	case "Form":
		c.checkForm(ctx, xo, res, loc, depth)
	}
}

func (c *Checker) checkImage(img *semantic.XObject, res *semantic.Resources, loc string) {
	if img.HasAlternates {
		c.violate(CodeAlternates, loc)
	}
	if img.Interpolate {
		c.violate(CodeInterpolate, loc)
	}
	if img.Intent != "" && !renderingIntents[img.Intent] {
		c.violate(CodeRenderingIntent, loc, img.Intent)
	}
	if c.level.IsLevelA1() && (img.SMask != nil || img.SMaskInData > 0) {
		c.violate(CodeImageSoftMask, loc)
	}
	jpx := false
	for _, f := range img.Filters {
		switch f {
		case "LZWDecode":
			c.violate(CodeLZW, loc)
		case "JPXDecode":
			jpx = true
		}
	}
	if jpx && !c.level.IsLevelA1() {
		if bpc := img.BitsPerComponent; bpc != 0 && (bpc < 1 || bpc > 38) {
			c.violate(CodeJPXBitDepth, loc, bpc)
		}
		if img.ColorSpace == nil && !img.ImageMask && len(img.Data) > 0 && !bytes.Contains(img.Data, []byte("colr")) {
			c.violate(CodeJPXColorSpace, loc)
		}
	}
	if !img.ImageMask && img.ColorSpace != nil {
		c.checkColorSpace(img.ColorSpace, res, loc)
	}
}

func (c *Checker) checkForm(ctx compliance.Context, form *semantic.XObject, res *semantic.Resources, loc string, depth int) {
	if form.Subtype2 == "PS" {
		c.violate(CodePostScriptXObject, loc)
	}
	if form.HasRef {
		c.violate(CodeReferenceXObject, loc)
	}
	if form.Group.IsTransparency() {
		if c.level.IsLevelA1() {
			c.violate(CodeTransparencyGroup, loc)
		} else if form.Group.CS != nil {
			c.checkColorSpace(form.Group.CS, res, loc+" group")
		}
	}
	inner := form.Resources
	if inner == nil {
		inner = res
	}
	c.checkResourcesDepth(ctx, form.Resources, loc, depth+1)
	if form.Contents != nil {
		c.checkContent(ctx, *form.Contents, inner, loc)
	}
}

func (c *Checker) checkPattern(ctx compliance.Context, p semantic.Pattern, res *semantic.Resources, loc string, depth int) {
	switch v := p.(type) {
	case *semantic.TilingPattern:
		if !c.once(v) {
			return
		}
		inner := v.Resources
		if inner == nil {
			inner = res
		}
		c.checkResourcesDepth(ctx, v.Resources, loc, depth+1)
		if len(v.Content) > 0 {
			c.checkContent(ctx, semantic.ContentStream{RawBytes: v.Content}, inner, loc)
		}
	case *semantic.ShadingPattern:
		if !c.once(v) {
			return
		}
		if v.Shading != nil {
			c.checkColorSpace(v.Shading.ShadingColorSpace(), res, loc)
		}
		if v.ExtGState != nil {
			c.checkExtGState(v.ExtGState, res, loc)
		}
	}
}

// checkInlineImage applies the image rules to a BI operand.
func (c *Checker) checkInlineImage(img semantic.InlineImageOperand, res *semantic.Resources, loc string) {
	vals := img.Image.Values
	if b, ok := vals["Interpolate"].(semantic.BoolOperand); ok && b.Value {
		c.violate(CodeInterpolate, loc)
	}
	if n, ok := vals["Intent"].(semantic.NameOperand); ok && !renderingIntents[n.Value] {
		c.violate(CodeRenderingIntent, loc, n.Value)
	}
	for _, f := range operandNames(vals["Filter"]) {
		if contentstream.ExpandInlineName(f) == "LZWDecode" {
			c.violate(CodeLZW, loc)
		}
	}
	if b, ok := vals["ImageMask"].(semantic.BoolOperand); ok && b.Value {
		return
	}
	switch cs := vals["ColorSpace"].(type) {
	case semantic.NameOperand:
		c.checkNamedColorSpace(contentstream.ExpandInlineName(cs.Value), res, loc)
	case semantic.ArrayOperand:
		// [/Indexed base hival lookup]
		if len(cs.Values) > 1 {
			if base, ok := cs.Values[1].(semantic.NameOperand); ok {
				c.checkNamedColorSpace(contentstream.ExpandInlineName(base.Value), res, loc)
			}
		}
	}
}

func operandNames(op semantic.Operand) []string {
	switch v := op.(type) {
	case semantic.NameOperand:
		return []string{v.Value}
	case semantic.ArrayOperand:
		var out []string
		for _, e := range v.Values {
			if n, ok := e.(semantic.NameOperand); ok {
				out = append(out, n.Value)
			}
		}
		return out
	}
	return nil
}

// resourcesUseTransparency reports whether a resource dictionary, or a form
// it reaches, carries transparency: soft masks, constant alpha below one,
// non-Normal blend modes or transparency groups.
func resourcesUseTransparency(res *semantic.Resources, depth int) bool {
	if res == nil || depth > maxResourceDepth {
		return false
	}
	for _, gs := range res.ExtGStates {
		if isTransparent(gs) {
			return true
		}
	}
	for _, xo := range res.XObjects {
		switch xo.Subtype {
		case "Image":
			if xo.SMask != nil || xo.SMaskInData > 0 {
				return true
			}
		case "Form":
			if xo.Group.IsTransparency() || resourcesUseTransparency(xo.Resources, depth+1) {
				return true
			}
		}
	}
	return false
}

func isTransparent(gs semantic.ExtGState) bool {
	if gs.SoftMask != nil {
		return true
	}
	if gs.StrokeAlpha != nil && *gs.StrokeAlpha < 1.0 {
		return true
	}
	if gs.FillAlpha != nil && *gs.FillAlpha < 1.0 {
		return true
	}
	if gs.BlendMode != "" && gs.BlendMode != "Normal" && gs.BlendMode != "Compatible" {
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
