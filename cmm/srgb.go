package cmm

import (
	"encoding/binary"
	"math"
	"sync"
)

const srgbDescription = "sRGB IEC61966-2.1"

var (
	srgbOnce sync.Once
	srgbData []byte
)

// SRGBProfile returns a compact ICC v2 display profile describing sRGB
// (D50-adapted primaries, gamma 2.2 curves). The returned slice is shared and
// must not be modified.
func SRGBProfile() []byte {
	srgbOnce.Do(func() { srgbData = buildSRGB() })
	return srgbData
}

// SRGBDescription is the output condition identifier matching SRGBProfile.
func SRGBDescription() string { return srgbDescription }

type iccTag struct {
	sig  string
	data []byte
}

func buildSRGB() []byte {
	curve := iccCurve(2.2)
	tags := []iccTag{
		{"desc", iccTextDescription(srgbDescription)},
		{"cprt", iccText("No copyright, use freely")},
		{"wtpt", iccXYZ(0.9642, 1.0, 0.8249)},
		{"rXYZ", iccXYZ(0.4361, 0.2225, 0.0139)},
		{"gXYZ", iccXYZ(0.3851, 0.7169, 0.0971)},
		{"bXYZ", iccXYZ(0.1431, 0.0606, 0.7141)},
		{"rTRC", curve},
		{"gTRC", curve},
		{"bTRC", curve},
	}

	tableLen := 4 + 12*len(tags)
	offset := iccHeaderSize + tableLen
	table := make([]byte, tableLen)
	binary.BigEndian.PutUint32(table[0:4], uint32(len(tags)))
	var body []byte
	for i, t := range tags {
		base := 4 + 12*i
		copy(table[base:base+4], t.sig)
		binary.BigEndian.PutUint32(table[base+4:], uint32(offset+len(body)))
		binary.BigEndian.PutUint32(table[base+8:], uint32(len(t.data)))
		body = append(body, t.data...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}

	total := iccHeaderSize + tableLen + len(body)
	header := make([]byte, iccHeaderSize)
	binary.BigEndian.PutUint32(header[0:4], uint32(total))
	binary.BigEndian.PutUint32(header[8:12], 0x02100000)
	copy(header[12:16], ClassDisplay)
	copy(header[16:20], SpaceRGB)
	copy(header[20:24], "XYZ ")
	copy(header[36:40], "acsp")
	copy(header[68:80], iccXYZ(0.9642, 1.0, 0.8249)[8:])

	out := make([]byte, 0, total)
	out = append(out, header...)
	out = append(out, table...)
	out = append(out, body...)
	return out
}

func s15Fixed16(v float64) uint32 {
	return uint32(int32(math.Round(v * 65536)))
}

func iccXYZ(x, y, z float64) []byte {
	b := make([]byte, 20)
	copy(b, "XYZ ")
	binary.BigEndian.PutUint32(b[8:], s15Fixed16(x))
	binary.BigEndian.PutUint32(b[12:], s15Fixed16(y))
	binary.BigEndian.PutUint32(b[16:], s15Fixed16(z))
	return b
}

func iccCurve(gamma float64) []byte {
	b := make([]byte, 14)
	copy(b, "curv")
	binary.BigEndian.PutUint32(b[8:], 1)
	binary.BigEndian.PutUint16(b[12:], uint16(math.Round(gamma*256)))
	return b
}

func iccText(s string) []byte {
	b := make([]byte, 8, 8+len(s)+1)
	copy(b, "text")
	b = append(b, s...)
	return append(b, 0)
}

func iccTextDescription(s string) []byte {
	b := make([]byte, 12, 12+len(s)+1+8+3+67)
	copy(b, "desc")
	binary.BigEndian.PutUint32(b[8:], uint32(len(s)+1))
	b = append(b, s...)
	b = append(b, 0)
	b = append(b, make([]byte, 8)...)  // unicode language code and count
	b = append(b, make([]byte, 3)...)  // scriptcode code and count
	b = append(b, make([]byte, 67)...) // scriptcode string
	return b
}
