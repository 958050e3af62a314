package fonts

import (
	"errors"
	"fmt"
)

// CFF holds the parts of a Compact Font Format program needed to list its
// glyphs.
type CFF struct {
	Names     []string
	TopDict   map[int][]float64
	Strings   []string
	Charset   []int // SIDs (or CIDs) for glyphs 1..n-1
	NumGlyphs int
}

// CFF top DICT operators.
const (
	cffOpCharset     = 15
	cffOpCharStrings = 17
	cffOpROS         = 1230 // escape 12 30
)

var errCFFShort = errors.New("fonts: truncated CFF data")

// ParseCFF reads the header, Name, Top DICT and String INDEXes, the
// CharStrings count and the charset.
func ParseCFF(data []byte) (*CFF, error) {
	if len(data) < 4 {
		return nil, errCFFShort
	}
	if data[0] != 1 {
		return nil, fmt.Errorf("fonts: unsupported CFF major version %d", data[0])
	}
	pos := int(data[2])
	names, pos, err := cffIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("fonts: name index: %w", err)
	}
	tops, pos, err := cffIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("fonts: top dict index: %w", err)
	}
	strs, _, err := cffIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("fonts: string index: %w", err)
	}
	c := &CFF{TopDict: map[int][]float64{}}
	for _, n := range names {
		c.Names = append(c.Names, string(n))
	}
	for _, s := range strs {
		c.Strings = append(c.Strings, string(s))
	}
	if len(tops) > 0 {
		if c.TopDict, err = cffDict(tops[0]); err != nil {
			return nil, err
		}
	}
	if off, ok := c.TopDict[cffOpCharStrings]; ok && len(off) == 1 {
		cs, _, err := cffIndex(data, int(off[0]))
		if err != nil {
			return nil, fmt.Errorf("fonts: charstrings index: %w", err)
		}
		c.NumGlyphs = len(cs)
	}
	if off, ok := c.TopDict[cffOpCharset]; ok && len(off) == 1 && off[0] > 2 && c.NumGlyphs > 1 {
		c.Charset = cffCharset(data, int(off[0]), c.NumGlyphs)
	}
	return c, nil
}

// IsCIDKeyed reports whether the top DICT carries ROS.
func (c *CFF) IsCIDKeyed() bool {
	_, ok := c.TopDict[cffOpROS]
	return ok
}

// GlyphNames resolves the charset to glyph names. CID-keyed fonts have none.
func (c *CFF) GlyphNames() []string {
	if c.IsCIDKeyed() || c.NumGlyphs == 0 {
		return nil
	}
	out := []string{".notdef"}
	for _, sid := range c.Charset {
		out = append(out, c.sidName(sid))
	}
	return out
}

func (c *CFF) sidName(sid int) string {
	if sid < len(cffStandardStrings) {
		return cffStandardStrings[sid]
	}
	i := sid - len(cffStandardStrings)
	if i < len(c.Strings) {
		return c.Strings[i]
	}
	return fmt.Sprintf("sid%d", sid)
}

func cffIndex(data []byte, pos int) ([][]byte, int, error) {
	if pos+2 > len(data) {
		return nil, pos, errCFFShort
	}
	count := int(be16(data[pos:]))
	pos += 2
	if count == 0 {
		return nil, pos, nil
	}
	if pos >= len(data) {
		return nil, pos, errCFFShort
	}
	offSize := int(data[pos])
	pos++
	if offSize < 1 || offSize > 4 {
		return nil, pos, fmt.Errorf("invalid offSize %d", offSize)
	}
	offsets := make([]int, count+1)
	for i := range offsets {
		if pos+offSize > len(data) {
			return nil, pos, errCFFShort
		}
		v := 0
		for j := 0; j < offSize; j++ {
			v = v<<8 | int(data[pos+j])
		}
		offsets[i] = v
		pos += offSize
	}
	base := pos - 1
	out := make([][]byte, count)
	for i := 0; i < count; i++ {
		start, end := base+offsets[i], base+offsets[i+1]
		if start > end || end > len(data) {
			return nil, pos, errCFFShort
		}
		out[i] = data[start:end]
	}
	return out, base + offsets[count], nil
}

func cffDict(b []byte) (map[int][]float64, error) {
	out := map[int][]float64{}
	var operands []float64
	for i := 0; i < len(b); {
		v := int(b[i])
		switch {
		case v <= 21:
			op := v
			i++
			if v == 12 {
				if i >= len(b) {
					return nil, errCFFShort
				}
				op = 1200 + int(b[i])
				i++
			}
			out[op] = operands
			operands = nil
		case v == 28:
			if i+3 > len(b) {
				return nil, errCFFShort
			}
			operands = append(operands, float64(int16(be16(b[i+1:]))))
			i += 3
		case v == 29:
			if i+5 > len(b) {
				return nil, errCFFShort
			}
			operands = append(operands, float64(int32(be32(b[i+1:]))))
			i += 5
		case v == 30:
			// real numbers are nibble encoded; operators here only need integers
			i++
			for i < len(b) {
				n := b[i]
				i++
				if n&0x0f == 0x0f || n>>4 == 0x0f {
					break
				}
			}
			operands = append(operands, 0)
		case v >= 32 && v <= 246:
			operands = append(operands, float64(v-139))
			i++
		case v >= 247 && v <= 250:
			if i+2 > len(b) {
				return nil, errCFFShort
			}
			operands = append(operands, float64((v-247)*256+int(b[i+1])+108))
			i += 2
		case v >= 251 && v <= 254:
			if i+2 > len(b) {
				return nil, errCFFShort
			}
			operands = append(operands, float64(-(v-251)*256-int(b[i+1])-108))
			i += 2
		default:
			return nil, fmt.Errorf("fonts: reserved CFF dict byte %d", v)
		}
	}
	return out, nil
}

func cffCharset(data []byte, pos, numGlyphs int) []int {
	if pos >= len(data) {
		return nil
	}
	format := data[pos]
	pos++
	var sids []int
	switch format {
	case 0:
		for len(sids) < numGlyphs-1 && pos+2 <= len(data) {
			sids = append(sids, int(be16(data[pos:])))
			pos += 2
		}
	case 1, 2:
		for len(sids) < numGlyphs-1 {
			step := 3
			if format == 2 {
				step = 4
			}
			if pos+step > len(data) {
				break
			}
			first := int(be16(data[pos:]))
			left := int(data[pos+2])
			if format == 2 {
				left = int(be16(data[pos+2:]))
			}
			for j := 0; j <= left && len(sids) < numGlyphs-1; j++ {
				sids = append(sids, first+j)
			}
			pos += step
		}
	}
	return sids
}
