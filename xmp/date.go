package xmp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses an XMP (ISO 8601) date. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("xmp: invalid date %q", s)
}

// FormatDate formats t the way XMP dates are written.
func FormatDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParsePDFDate parses a PDF date string such as D:20240501101500+02'00'.
// Trailing components may be omitted.
func ParsePDFDate(s string) (time.Time, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "D:")
	digits := v
	zone := ""
	if i := strings.IndexAny(v, "Zz+-"); i >= 0 {
		digits, zone = v[:i], v[i:]
	}
	if len(digits) < 4 || len(digits)%2 != 0 || len(digits) > 14 {
		return time.Time{}, fmt.Errorf("xmp: invalid PDF date %q", s)
	}
	fields := []int{0, 1, 1, 0, 0, 0}
	for i := 0; i < len(fields); i++ {
		start, end := 4+(i-1)*2, 4+i*2
		if i == 0 {
			start, end = 0, 4
		}
		if end > len(digits) {
			break
		}
		n, err := strconv.Atoi(digits[start:end])
		if err != nil {
			return time.Time{}, fmt.Errorf("xmp: invalid PDF date %q", s)
		}
		fields[i] = n
	}
	loc := time.UTC
	if zone != "" && zone[0] != 'Z' && zone[0] != 'z' {
		z := strings.ReplaceAll(strings.TrimSuffix(zone[1:], "'"), "'", "")
		hh, mm := z, ""
		if len(z) > 2 {
			hh, mm = z[:2], z[2:]
		}
		h, err := strconv.Atoi(hh)
		if err != nil {
			return time.Time{}, fmt.Errorf("xmp: invalid PDF date zone %q", s)
		}
		m := 0
		if mm != "" {
			if m, err = strconv.Atoi(mm); err != nil {
				return time.Time{}, fmt.Errorf("xmp: invalid PDF date zone %q", s)
			}
		}
		offset := h*3600 + m*60
		if zone[0] == '-' {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	return time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, loc), nil
}

// FormatPDFDate formats t as a PDF date string.
func FormatPDFDate(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 {
		return t.Format("D:20060102150405Z")
	}
	sign := '+'
	if offset < 0 {
		sign, offset = '-', -offset
	}
	return fmt.Sprintf("%s%c%02d'%02d'", t.Format("D:20060102150405"), sign, offset/3600, offset%3600/60)
}
