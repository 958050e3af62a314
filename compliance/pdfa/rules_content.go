package pdfa

import (
	"errors"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/contentstream"
	"github.com/wudi/pdfakit/ir/semantic"
)

// checkContent scans a content stream for operators, colour use, inline
// images and graphics state nesting.
func (c *Checker) checkContent(ctx compliance.Context, cs semantic.ContentStream, res *semantic.Resources, loc string) {
	ops := cs.Operations
	if len(ops) == 0 && len(cs.RawBytes) > 0 {
		parsed, err := contentstream.Parse(cs.RawBytes)
		if err != nil {
			c.violate(CodeContentSyntax, loc, err.Error())
		}
		ops = parsed
	}
	if len(ops) == 0 {
		return
	}

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Operator
	}
	seen := make(map[string]bool)
	for _, op := range contentstream.UndefinedOperators(names) {
		if !seen[op] {
			seen[op] = true
			c.violate(CodeUndefinedOperator, loc, op)
		}
	}

	proc := contentstream.NewProcessor()
	setSpace := contentstream.HandlerFunc(func(ec *contentstream.ExecutionContext, op semantic.Operation) error {
		if len(op.Operands) > 0 {
			if n, ok := op.Operands[0].(semantic.NameOperand); ok {
				c.checkNamedColorSpace(n.Value, ec.Resources, loc)
			}
		}
		return nil
	})
	device := func(family string) contentstream.HandlerFunc {
		return func(ec *contentstream.ExecutionContext, _ semantic.Operation) error {
			c.useDevice(family, ec.Resources, loc)
			return nil
		}
	}
	proc.RegisterHandler("cs", setSpace)
	proc.RegisterHandler("CS", setSpace)
	proc.RegisterHandler("g", device(deviceGray))
	proc.RegisterHandler("G", device(deviceGray))
	proc.RegisterHandler("rg", device(deviceRGB))
	proc.RegisterHandler("RG", device(deviceRGB))
	proc.RegisterHandler("k", device(deviceCMYK))
	proc.RegisterHandler("K", device(deviceCMYK))
	proc.RegisterHandler("ri", contentstream.HandlerFunc(func(ec *contentstream.ExecutionContext, _ semantic.Operation) error {
		if ri := ec.GraphicsState.RenderingIntent; !renderingIntents[ri] {
			c.violate(CodeRenderingIntent, loc, ri)
		}
		return nil
	}))
	proc.RegisterHandler("BI", contentstream.HandlerFunc(func(ec *contentstream.ExecutionContext, op semantic.Operation) error {
		for _, o := range op.Operands {
			if img, ok := o.(semantic.InlineImageOperand); ok {
				c.checkInlineImage(img, ec.Resources, loc)
			}
		}
		return nil
	}))

	ec := &contentstream.ExecutionContext{Resources: res}
	err := proc.Process(ctx, ops, ec)
	switch {
	case errors.Is(err, contentstream.ErrStackUnderflow):
		c.violate(CodeContentSyntax, loc, err.Error())
	case err != nil:
		return
	}
	if limit := c.level.Limits().MaxQDepth; limit > 0 && ec.GraphicsState.MaxDepth() > limit {
		c.violate(CodeNestingTooDeep, loc, limit)
	}
}
