package pdfa

import (
	"bytes"
	"fmt"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/ir/semantic"
)

const (
	deviceGray = "DeviceGray"
	deviceRGB  = "DeviceRGB"
	deviceCMYK = "DeviceCMYK"
)

func (c *Checker) checkOutputIntents(doc *semantic.Document) {
	var shared []byte
	for i, oi := range doc.OutputIntents {
		loc := fmt.Sprintf("output intent %d", i+1)
		if len(oi.DestOutputProfile) > 0 && !c.level.IsLevelA1() {
			if shared == nil {
				shared = oi.DestOutputProfile
			} else if !bytes.Equal(shared, oi.DestOutputProfile) {
				c.violate(CodeOutputIntentsDiffer, loc)
			}
		}
		if oi.S != "GTS_PDFA1" {
			continue
		}
		if len(oi.DestOutputProfile) == 0 {
			c.violate(CodeOutputIntentNoProfile, loc)
			continue
		}
		p, err := cmm.NewICCProfile(oi.DestOutputProfile)
		if err != nil {
			c.violate(CodeInvalidOutputProfile, loc, err.Error())
			continue
		}
		if cl := p.Class(); cl != cmm.ClassOutput && cl != cmm.ClassDisplay {
			c.violate(CodeOutputProfileClass, loc, cl)
		}
		switch sp := p.ColorSpace(); sp {
		case cmm.SpaceGray, cmm.SpaceRGB, cmm.SpaceCMYK:
		default:
			c.violate(CodeOutputProfileSpace, loc, sp)
		}
		if major, _ := p.Version(); major > c.level.MaxICCVersion() {
			c.violate(CodeOutputProfileVersion, loc, major, c.level.MaxICCVersion())
		}
	}
}

// checkColorSpace checks a colour space that is used by content, resolving
// device families through the Default colour spaces of res.
func (c *Checker) checkColorSpace(cs semantic.ColorSpace, res *semantic.Resources, loc string) {
	c.checkColorSpaceDepth(cs, res, loc, 0)
}

const maxColorSpaceDepth = 8

func (c *Checker) checkColorSpaceDepth(cs semantic.ColorSpace, res *semantic.Resources, loc string, depth int) {
	if cs == nil || depth > maxColorSpaceDepth || c.stopped() {
		return
	}
	switch v := cs.(type) {
	case semantic.DeviceColorSpace:
		c.useDevice(v.Name, res, loc)
	case *semantic.ICCBasedColorSpace:
		if c.once(v) {
			c.checkICCBased(v, loc)
		}
	case *semantic.SeparationColorSpace:
		if !c.once(v) {
			return
		}
		c.checkSeparation(v, loc)
		c.checkColorSpaceDepth(v.Alternate, res, loc, depth+1)
	case *semantic.DeviceNColorSpace:
		if !c.once(v) {
			return
		}
		if limit := c.level.Limits().MaxDeviceN; limit > 0 && len(v.Names) > limit {
			c.violate(CodeDeviceNLimit, loc, len(v.Names), limit)
		}
		c.checkColorSpaceDepth(v.Alternate, res, loc, depth+1)
		if v.Attributes != nil {
			for _, sep := range v.Attributes.Colorants {
				c.checkColorSpaceDepth(sep, res, loc, depth+1)
			}
		}
	case *semantic.IndexedColorSpace:
		c.checkColorSpaceDepth(v.Base, res, loc, depth+1)
	case *semantic.PatternColorSpace:
		c.checkColorSpaceDepth(v.Underlying, res, loc, depth+1)
	}
}

// checkNamedColorSpace resolves a colour space operand: a family name or a
// key of the ColorSpace resource dictionary.
func (c *Checker) checkNamedColorSpace(name string, res *semantic.Resources, loc string) {
	switch name {
	case deviceGray, deviceRGB, deviceCMYK:
		c.useDevice(name, res, loc)
		return
	case "", "Pattern", "CalGray", "CalRGB", "Lab":
		return
	}
	if res != nil {
		if cs, ok := res.ColorSpaces[name]; ok {
			c.checkColorSpace(cs, res, loc)
		}
	}
}

// useDevice records the use of a device colour family.
func (c *Checker) useDevice(name string, res *semantic.Resources, loc string) {
	if def := res.DefaultColorSpace(name); def != nil {
		if _, isDevice := def.(semantic.DeviceColorSpace); !isDevice {
			c.checkColorSpace(def, res, loc)
			return
		}
	}
	if !c.hasIntent {
		c.violate(CodeDeviceColorWithoutIntent, loc, name)
		return
	}
	switch name {
	case deviceRGB:
		if c.intentSpace != "" && c.intentSpace != cmm.SpaceRGB {
			c.violate(CodeDeviceRGB, loc)
		}
	case deviceCMYK:
		if c.intentSpace != "" && c.intentSpace != cmm.SpaceCMYK {
			c.violate(CodeDeviceCMYK, loc)
		}
	}
}

func (c *Checker) checkICCBased(cs *semantic.ICCBasedColorSpace, loc string) {
	p, err := cmm.NewICCProfile(cs.Profile)
	if err != nil {
		c.violate(CodeInvalidICCProfile, loc, err.Error())
		return
	}
	if n := p.NumComponents(); n != 0 && cs.N != 0 && n != cs.N {
		c.violate(CodeICCComponents, loc, cs.N, n)
	}
	if major, _ := p.Version(); major > c.level.MaxICCVersion() {
		c.violate(CodeICCVersion, loc, major, c.level.MaxICCVersion())
	}
}

// checkSeparation requires Separation spaces sharing a colorant name to
// agree on alternate space and tint transform.
func (c *Checker) checkSeparation(cs *semantic.SeparationColorSpace, loc string) {
	if c.level.IsLevelA1() || cs.Name == "All" || cs.Name == "None" {
		return
	}
	prev, ok := c.separations[cs.Name]
	if !ok {
		c.separations[cs.Name] = cs
		return
	}
	if !sameColorSpace(prev.Alternate, cs.Alternate) || !sameFunction(prev.TintTransform, cs.TintTransform) {
		c.violate(CodeSeparationMismatch, loc, cs.Name)
	}
}

func sameColorSpace(a, b semantic.ColorSpace) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ColorSpaceName() != b.ColorSpaceName() {
		return false
	}
	ia, okA := a.(*semantic.ICCBasedColorSpace)
	ib, okB := b.(*semantic.ICCBasedColorSpace)
	if okA && okB {
		return ia == ib || bytes.Equal(ia.Profile, ib.Profile)
	}
	return true
}

func sameFunction(a, b semantic.Function) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if ra, rb := a.Reference(), b.Reference(); !ra.IsZero() || !rb.IsZero() {
		return ra == rb
	}
	if a.FunctionType() != b.FunctionType() {
		return false
	}
	switch fa := a.(type) {
	case *semantic.PostScriptFunction:
		fb, ok := b.(*semantic.PostScriptFunction)
		return ok && bytes.Equal(fa.Code, fb.Code)
	case *semantic.SampledFunction:
		fb, ok := b.(*semantic.SampledFunction)
		return ok && bytes.Equal(fa.Samples, fb.Samples)
	case *semantic.ExponentialFunction:
		fb, ok := b.(*semantic.ExponentialFunction)
		return ok && fa.N == fb.N && floatsEqual(fa.C0, fb.C0) && floatsEqual(fa.C1, fb.C1)
	}
	return true
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
