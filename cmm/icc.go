package cmm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
)

const iccHeaderSize = 128

var (
	ErrProfileTooShort = errors.New("invalid ICC profile data")
	ErrBadSignature    = errors.New("ICC profile is missing the acsp signature")
)

// ICCProfile implements Profile for ICC data.
type ICCProfile struct {
	data []byte
	tags map[string]tagEntry
}

type tagEntry struct {
	offset uint32
	size   uint32
}

// NewICCProfile parses the header and tag table of an ICC profile.
func NewICCProfile(data []byte) (*ICCProfile, error) {
	if len(data) < iccHeaderSize+4 {
		return nil, ErrProfileTooShort
	}
	if string(data[36:40]) != "acsp" {
		return nil, ErrBadSignature
	}
	declared := binary.BigEndian.Uint32(data[0:4])
	if int64(declared) > int64(len(data)) {
		return nil, fmt.Errorf("ICC profile declares %d bytes but has %d", declared, len(data))
	}
	p := &ICCProfile{data: data, tags: make(map[string]tagEntry)}
	count := binary.BigEndian.Uint32(data[iccHeaderSize : iccHeaderSize+4])
	if uint64(iccHeaderSize)+4+uint64(count)*12 > uint64(len(data)) {
		return nil, fmt.Errorf("ICC tag table with %d entries exceeds profile size", count)
	}
	for i := uint32(0); i < count; i++ {
		base := iccHeaderSize + 4 + int(i)*12
		sig := string(data[base : base+4])
		off := binary.BigEndian.Uint32(data[base+4 : base+8])
		size := binary.BigEndian.Uint32(data[base+8 : base+12])
		if uint64(off)+uint64(size) > uint64(len(data)) {
			return nil, fmt.Errorf("ICC tag %q out of bounds", sig)
		}
		p.tags[sig] = tagEntry{offset: off, size: size}
	}
	return p, nil
}

// Name returns the profile description from the desc tag.
func (p *ICCProfile) Name() string {
	raw, ok := p.tag("desc")
	if !ok || len(raw) < 12 {
		return ""
	}
	switch string(raw[0:4]) {
	case "desc":
		n := binary.BigEndian.Uint32(raw[8:12])
		if uint64(12)+uint64(n) > uint64(len(raw)) {
			return ""
		}
		return strings.TrimRight(string(raw[12:12+n]), "\x00")
	case "mluc":
		if len(raw) < 28 {
			return ""
		}
		length := binary.BigEndian.Uint32(raw[20:24])
		offset := binary.BigEndian.Uint32(raw[24:28])
		if uint64(offset)+uint64(length) > uint64(len(raw)) {
			return ""
		}
		u := raw[offset : offset+length]
		units := make([]uint16, len(u)/2)
		for i := range units {
			units[i] = binary.BigEndian.Uint16(u[2*i:])
		}
		return string(utf16.Decode(units))
	}
	return ""
}

func (p *ICCProfile) ColorSpace() string { return string(p.data[16:20]) }

func (p *ICCProfile) Class() string { return string(p.data[12:16]) }

// PCS returns the profile connection space signature.
func (p *ICCProfile) PCS() string { return string(p.data[20:24]) }

// Version returns the major and minor version from the header.
func (p *ICCProfile) Version() (major, minor int) {
	return int(p.data[8]), int(p.data[9] >> 4)
}

// NumComponents returns the channel count implied by the colour space.
func (p *ICCProfile) NumComponents() int { return Components(p.ColorSpace()) }

// HasTag reports whether the tag table contains sig.
func (p *ICCProfile) HasTag(sig string) bool {
	_, ok := p.tags[sig]
	return ok
}

func (p *ICCProfile) Data() []byte {
	return p.data
}

func (p *ICCProfile) tag(sig string) ([]byte, bool) {
	e, ok := p.tags[sig]
	if !ok {
		return nil, false
	}
	return p.data[e.offset : e.offset+e.size], true
}
