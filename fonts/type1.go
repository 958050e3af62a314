package fonts

import (
	"bytes"
	"errors"
	"regexp"
	"sort"
)

// eexec and charstring encryption keys.
const (
	eexecKey = 55665
	t1C1     = 52845
	t1C2     = 22719
)

var (
	errNoEexec = errors.New("fonts: Type 1 program has no eexec section")

	charStringsRE = regexp.MustCompile(`/CharStrings\s+\d+`)
	glyphDefRE    = regexp.MustCompile(`/([^\s/\[\]{}()<>%]+)\s+(\d+)\s+(RD|-\|)\s`)
)

// Type1Glyphs lists the glyph names defined in the CharStrings dictionary of
// an embedded Type 1 program (PFA or PFB layout), sorted.
func Type1Glyphs(data []byte) ([]string, error) {
	data = stripPFB(data)
	i := bytes.Index(data, []byte("eexec"))
	if i < 0 {
		return nil, errNoEexec
	}
	enc := data[i+len("eexec"):]
	for len(enc) > 0 && (enc[0] == '\r' || enc[0] == '\n' || enc[0] == ' ' || enc[0] == '\t') {
		enc = enc[1:]
	}
	if isHexSection(enc) {
		enc = decodeHexSection(enc)
	}
	plain := Decrypt(enc, eexecKey)
	if len(plain) > 4 {
		plain = plain[4:]
	}

	loc := charStringsRE.FindIndex(plain)
	if loc == nil {
		return nil, errors.New("fonts: Type 1 program has no CharStrings")
	}
	rest := plain[loc[1]:]
	seen := map[string]bool{}
	for len(rest) > 0 {
		m := glyphDefRE.FindSubmatchIndex(rest)
		if m == nil {
			break
		}
		name := string(rest[m[2]:m[3]])
		n := atoi(rest[m[4]:m[5]])
		seen[name] = true
		skip := m[1] + n
		if skip > len(rest) {
			break
		}
		rest = rest[skip:]
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Decrypt reverses Type 1 eexec/charstring encryption with the given key.
func Decrypt(src []byte, key uint16) []byte {
	r := key
	out := make([]byte, len(src))
	for i, c := range src {
		out[i] = c ^ byte(r>>8)
		r = (uint16(c)+r)*t1C1 + t1C2
	}
	return out
}

// Encrypt applies Type 1 encryption with the given key.
func Encrypt(src []byte, key uint16) []byte {
	r := key
	out := make([]byte, len(src))
	for i, p := range src {
		c := p ^ byte(r>>8)
		out[i] = c
		r = (uint16(c)+r)*t1C1 + t1C2
	}
	return out
}

// stripPFB removes PFB segment headers, leaving the concatenated segments.
func stripPFB(data []byte) []byte {
	if len(data) < 6 || data[0] != 0x80 {
		return data
	}
	var out []byte
	for len(data) >= 2 && data[0] == 0x80 {
		if data[1] == 3 || len(data) < 6 {
			break
		}
		n := int(data[2]) | int(data[3])<<8 | int(data[4])<<16 | int(data[5])<<24
		data = data[6:]
		if n > len(data) {
			n = len(data)
		}
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return out
}

func isHexSection(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	for _, c := range b[:4] {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

func decodeHexSection(b []byte) []byte {
	out := make([]byte, 0, len(b)/2)
	var hi byte
	half := false
	for _, c := range b {
		if !isHexDigit(c) {
			continue
		}
		if !half {
			hi = hexVal(c)
			half = true
			continue
		}
		out = append(out, hi<<4|hexVal(c))
		half = false
	}
	return out
}

func atoi(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}
