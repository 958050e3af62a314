// Package contentstream parses page and form content streams into operations
// and replays them through registered operator handlers.
package contentstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/wudi/pdfakit/ir/semantic"
)

// ErrStackUnderflow is returned when Q has no matching q.
var ErrStackUnderflow = errors.New("contentstream: graphics state stack empty")

// Parse decodes a content stream into operations. Inline images are folded
// into a single BI operation whose operand is an InlineImageOperand.
func Parse(data []byte) ([]semantic.Operation, error) {
	l := &lexer{data: data}
	var (
		ops      []semantic.Operation
		operands []semantic.Operand
	)
	for {
		tok, err := l.next()
		if err != nil {
			return ops, err
		}
		switch tok.kind {
		case tokEOF:
			if len(operands) > 0 {
				return ops, fmt.Errorf("contentstream: %d dangling operands", len(operands))
			}
			return ops, nil
		case tokOperand:
			operands = append(operands, tok.operand)
		case tokArrayOpen:
			arr, err := readArray(l)
			if err != nil {
				return ops, err
			}
			operands = append(operands, arr)
		case tokDictOpen:
			d, err := readDict(l)
			if err != nil {
				return ops, err
			}
			operands = append(operands, d)
		case tokArrayClose, tokDictClose:
			return ops, fmt.Errorf("contentstream: unbalanced delimiter at offset %d", l.pos)
		case tokKeyword:
			if tok.keyword == "BI" {
				img, err := readInlineImage(l)
				if err != nil {
					return ops, err
				}
				ops = append(ops, semantic.Operation{Operator: "BI", Operands: []semantic.Operand{img}})
				operands = nil
				continue
			}
			ops = append(ops, semantic.Operation{Operator: tok.keyword, Operands: operands})
			operands = nil
		}
	}
}

func readArray(l *lexer) (semantic.ArrayOperand, error) {
	var arr semantic.ArrayOperand
	for {
		tok, err := l.next()
		if err != nil {
			return arr, err
		}
		switch tok.kind {
		case tokEOF:
			return arr, ErrUnexpectedEOF
		case tokArrayClose:
			return arr, nil
		case tokArrayOpen:
			inner, err := readArray(l)
			if err != nil {
				return arr, err
			}
			arr.Values = append(arr.Values, inner)
		case tokDictOpen:
			d, err := readDict(l)
			if err != nil {
				return arr, err
			}
			arr.Values = append(arr.Values, d)
		case tokOperand:
			arr.Values = append(arr.Values, tok.operand)
		case tokKeyword:
			arr.Values = append(arr.Values, semantic.NameOperand{Value: tok.keyword})
		default:
			return arr, fmt.Errorf("contentstream: unexpected token in array at offset %d", l.pos)
		}
	}
}

func readDict(l *lexer) (semantic.DictOperand, error) {
	d := semantic.DictOperand{Values: make(map[string]semantic.Operand)}
	for {
		tok, err := l.next()
		if err != nil {
			return d, err
		}
		switch tok.kind {
		case tokEOF:
			return d, ErrUnexpectedEOF
		case tokDictClose:
			return d, nil
		case tokOperand:
			key, ok := tok.operand.(semantic.NameOperand)
			if !ok {
				return d, fmt.Errorf("contentstream: dictionary key is %s", tok.operand.Type())
			}
			v, err := readValue(l)
			if err != nil {
				return d, err
			}
			d.Values[key.Value] = v
		default:
			return d, fmt.Errorf("contentstream: unexpected token in dictionary at offset %d", l.pos)
		}
	}
}

func readValue(l *lexer) (semantic.Operand, error) {
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokOperand:
		return tok.operand, nil
	case tokArrayOpen:
		return readArray(l)
	case tokDictOpen:
		return readDict(l)
	case tokKeyword:
		return semantic.NameOperand{Value: tok.keyword}, nil
	case tokEOF:
		return nil, ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("contentstream: unexpected value token at offset %d", l.pos)
}

// readInlineImage reads key/value pairs up to ID and the image data up to EI.
func readInlineImage(l *lexer) (semantic.InlineImageOperand, error) {
	img := semantic.InlineImageOperand{Image: semantic.DictOperand{Values: make(map[string]semantic.Operand)}}
	for {
		tok, err := l.next()
		if err != nil {
			return img, err
		}
		switch tok.kind {
		case tokEOF:
			return img, ErrUnexpectedEOF
		case tokKeyword:
			if tok.keyword != "ID" {
				return img, fmt.Errorf("contentstream: unexpected %q in inline image", tok.keyword)
			}
			data, err := l.readInlineData()
			if err != nil {
				return img, err
			}
			img.Data = data
			return img, nil
		case tokOperand:
			key, ok := tok.operand.(semantic.NameOperand)
			if !ok {
				return img, fmt.Errorf("contentstream: inline image key is %s", tok.operand.Type())
			}
			v, err := readValue(l)
			if err != nil {
				return img, err
			}
			img.Image.Values[expandInlineKey(key.Value)] = v
		default:
			return img, fmt.Errorf("contentstream: unexpected token in inline image at offset %d", l.pos)
		}
	}
}

var inlineKeys = map[string]string{
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"D":   "Decode",
	"DP":  "DecodeParms",
	"F":   "Filter",
	"H":   "Height",
	"IM":  "ImageMask",
	"I":   "Interpolate",
	"W":   "Width",
	"L":   "Length",
}

func expandInlineKey(k string) string {
	if full, ok := inlineKeys[k]; ok {
		return full
	}
	return k
}

var inlineValues = map[string]string{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
	"AHx":  "ASCIIHexDecode",
	"A85":  "ASCII85Decode",
	"LZW":  "LZWDecode",
	"Fl":   "FlateDecode",
	"RL":   "RunLengthDecode",
	"CCF":  "CCITTFaxDecode",
	"DCT":  "DCTDecode",
}

// ExpandInlineName maps inline image abbreviations such as RGB or Fl to
// their full names. Other names are returned unchanged.
func ExpandInlineName(v string) string {
	if full, ok := inlineValues[v]; ok {
		return full
	}
	return v
}

// Processor replays operations through registered handlers.
type Processor interface {
	Process(ctx context.Context, ops []semantic.Operation, ec *ExecutionContext) error
	RegisterHandler(op string, h OperatorHandler)
}

// OperatorHandler handles a single operator.
type OperatorHandler interface {
	Handle(ec *ExecutionContext, op semantic.Operation) error
}

// HandlerFunc adapts a function to OperatorHandler.
type HandlerFunc func(ec *ExecutionContext, op semantic.Operation) error

func (f HandlerFunc) Handle(ec *ExecutionContext, op semantic.Operation) error { return f(ec, op) }

// ExecutionContext is the state handed to handlers.
type ExecutionContext struct {
	GraphicsState *GraphicsState
	Resources     *semantic.Resources
}

// GraphicsState tracks the parts of the graphics state conformance checks
// care about.
type GraphicsState struct {
	FillColorSpace   string
	StrokeColorSpace string
	RenderingIntent  string
	stack            []GraphicsState
	maxDepth         int
}

// Save pushes a copy of the current state (q).
func (gs *GraphicsState) Save() {
	clone := *gs
	clone.stack = nil
	gs.stack = append(gs.stack, clone)
	if len(gs.stack) > gs.maxDepth {
		gs.maxDepth = len(gs.stack)
	}
}

// Restore pops the last saved state (Q).
func (gs *GraphicsState) Restore() error {
	n := len(gs.stack)
	if n == 0 {
		return ErrStackUnderflow
	}
	top := gs.stack[n-1]
	stack, maxDepth := gs.stack[:n-1], gs.maxDepth
	*gs = top
	gs.stack, gs.maxDepth = stack, maxDepth
	return nil
}

// Depth returns the current q nesting depth.
func (gs *GraphicsState) Depth() int { return len(gs.stack) }

// MaxDepth returns the deepest q nesting seen so far.
func (gs *GraphicsState) MaxDepth() int { return gs.maxDepth }

type simpleProcessor struct{ handlers map[string]OperatorHandler }

// NewProcessor returns a processor that maintains the q/Q stack and the
// current colour spaces, then dispatches to registered handlers.
func NewProcessor() Processor {
	return &simpleProcessor{handlers: make(map[string]OperatorHandler)}
}

func (p *simpleProcessor) RegisterHandler(op string, h OperatorHandler) { p.handlers[op] = h }

func (p *simpleProcessor) Process(ctx context.Context, ops []semantic.Operation, ec *ExecutionContext) error {
	if ec.GraphicsState == nil {
		ec.GraphicsState = &GraphicsState{}
	}
	gs := ec.GraphicsState
	for i, op := range ops {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		switch op.Operator {
		case "q":
			gs.Save()
		case "Q":
			if err := gs.Restore(); err != nil {
				return err
			}
		case "cs":
			gs.FillColorSpace = firstName(op)
		case "CS":
			gs.StrokeColorSpace = firstName(op)
		case "g":
			gs.FillColorSpace = "DeviceGray"
		case "G":
			gs.StrokeColorSpace = "DeviceGray"
		case "rg":
			gs.FillColorSpace = "DeviceRGB"
		case "RG":
			gs.StrokeColorSpace = "DeviceRGB"
		case "k":
			gs.FillColorSpace = "DeviceCMYK"
		case "K":
			gs.StrokeColorSpace = "DeviceCMYK"
		case "ri":
			gs.RenderingIntent = firstName(op)
		}
		if h, ok := p.handlers[op.Operator]; ok {
			if err := h.Handle(ec, op); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstName(op semantic.Operation) string {
	if len(op.Operands) == 0 {
		return ""
	}
	if n, ok := op.Operands[0].(semantic.NameOperand); ok {
		return n.Value
	}
	return ""
}
