package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/wudi/pdfakit/ir/semantic"
)

// ErrUnexpectedEOF is returned when a stream ends inside a token.
var ErrUnexpectedEOF = errors.New("contentstream: unexpected end of stream")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOperand
	tokKeyword
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
)

type token struct {
	kind    tokenKind
	operand semantic.Operand
	keyword string
}

// lexer splits content stream bytes into operands and keywords.
type lexer struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhite(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return token{kind: tokEOF}, nil
	}
	c := l.data[l.pos]
	switch {
	case c == '/':
		l.pos++
		return token{kind: tokOperand, operand: semantic.NameOperand{Value: l.readName()}}, nil
	case c == '(':
		l.pos++
		s, err := l.readLiteral()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokOperand, operand: semantic.StringOperand{Value: s}}, nil
	case c == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return token{kind: tokDictOpen}, nil
		}
		l.pos++
		s, err := l.readHex()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokOperand, operand: semantic.StringOperand{Value: s}}, nil
	case c == '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokDictClose}, nil
		}
		l.pos++
		return token{}, fmt.Errorf("contentstream: stray '>' at offset %d", l.pos-1)
	case c == '[':
		l.pos++
		return token{kind: tokArrayOpen}, nil
	case c == ']':
		l.pos++
		return token{kind: tokArrayClose}, nil
	case c == '{' || c == '}':
		l.pos++
		return token{kind: tokKeyword, keyword: string(c)}, nil
	case c == ')':
		l.pos++
		return token{}, fmt.Errorf("contentstream: stray ')' at offset %d", l.pos-1)
	}

	start := l.pos
	for l.pos < len(l.data) && !isWhite(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	word := string(l.data[start:l.pos])
	if n, ok := parseNumber(word); ok {
		return token{kind: tokOperand, operand: semantic.NumberOperand{Value: n}}, nil
	}
	switch word {
	case "true":
		return token{kind: tokOperand, operand: semantic.BoolOperand{Value: true}}, nil
	case "false":
		return token{kind: tokOperand, operand: semantic.BoolOperand{Value: false}}, nil
	case "null":
		return token{kind: tokOperand, operand: semantic.NullOperand{}}, nil
	}
	return token{kind: tokKeyword, keyword: word}, nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	c := s[0]
	if !(c >= '0' && c <= '9') && c != '-' && c != '+' && c != '.' {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (l *lexer) readName() string {
	var b bytes.Buffer
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhite(c) || isDelim(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) {
			if v, err := strconv.ParseUint(string(l.data[l.pos+1:l.pos+3]), 16, 8); err == nil {
				b.WriteByte(byte(v))
				l.pos += 3
				continue
			}
		}
		b.WriteByte(c)
		l.pos++
	}
	return b.String()
}

func (l *lexer) readLiteral() ([]byte, error) {
	var b bytes.Buffer
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.Bytes(), nil
			}
		case '\\':
			if l.pos >= len(l.data) {
				return nil, ErrUnexpectedEOF
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					b.WriteByte(byte(v))
					continue
				}
				b.WriteByte(e)
			}
			continue
		}
		b.WriteByte(c)
	}
	return nil, ErrUnexpectedEOF
}

func (l *lexer) readHex() ([]byte, error) {
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				v, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
				if err != nil {
					return nil, fmt.Errorf("contentstream: bad hex string: %w", err)
				}
				out[i] = byte(v)
			}
			return out, nil
		}
		if isWhite(c) {
			continue
		}
		digits = append(digits, c)
	}
	return nil, ErrUnexpectedEOF
}

// readInlineData consumes the bytes between ID and EI.
func (l *lexer) readInlineData() ([]byte, error) {
	if l.pos < len(l.data) && isWhite(l.data[l.pos]) {
		l.pos++
	}
	start := l.pos
	for i := start; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		if i > start && !isWhite(l.data[i-1]) {
			continue
		}
		if i+2 < len(l.data) && !isWhite(l.data[i+2]) && !isDelim(l.data[i+2]) {
			continue
		}
		end := i
		if end > start && isWhite(l.data[end-1]) {
			end--
		}
		l.pos = i + 2
		return l.data[start:end], nil
	}
	return nil, ErrUnexpectedEOF
}
