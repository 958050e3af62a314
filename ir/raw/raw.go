package raw

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectRef uniquely identifies an indirect PDF object.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// IsZero reports whether the reference points to no object.
func (r ObjectRef) IsZero() bool { return r.Num == 0 && r.Gen == 0 }

// Version is a PDF header version such as 1.7 or 2.0.
type Version struct {
	Major int
	Minor int
}

var (
	V14 = Version{1, 4}
	V17 = Version{1, 7}
	V20 = Version{2, 0}
)

// ParseVersion accepts "1.7", "%PDF-1.7" or "PDF-2.0".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "%")
	s = strings.TrimPrefix(s, "PDF-")
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("invalid PDF version %q", s)
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("invalid PDF version %q: %w", s, err)
	}
	mi, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("invalid PDF version %q: %w", s, err)
	}
	return Version{Major: ma, Minor: mi}, nil
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// IsZero reports whether the version is unknown.
func (v Version) IsZero() bool { return v.Major == 0 && v.Minor == 0 }

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor < o.Minor:
		return -1
	case v.Minor > o.Minor:
		return 1
	}
	return 0
}

// Permissions describes allowed actions expressed in the parsed document.
type Permissions struct {
	Print, Modify, Copy, ModifyAnnotations, FillForms, ExtractAccessible, Assemble, PrintHighQuality bool
}

// Trailer captures the file-level facts read from the trailer and header.
type Trailer struct {
	Version     Version
	ID          [][]byte
	HasEncrypt  bool
	Size        int   // number of indirect objects
	FileSize    int64 // bytes
	Incremental int   // number of incremental updates
}

// Stats records the extreme values observed while walking every object of a
// file. Implementation limit rules are evaluated against it.
type Stats struct {
	MaxStringLen   int
	MaxNameLen     int
	MaxInt         int64
	MinInt         int64
	MaxReal        float64
	MaxArrayLen    int
	MaxDictLen     int
	LongestName    string
	StringLocation ObjectRef
	NameLocation   ObjectRef
}

// ObserveString records a string of n bytes found in obj.
func (s *Stats) ObserveString(n int, obj ObjectRef) {
	if n > s.MaxStringLen {
		s.MaxStringLen = n
		s.StringLocation = obj
	}
}

// ObserveName records a name found in obj.
func (s *Stats) ObserveName(name string, obj ObjectRef) {
	if len(name) > s.MaxNameLen {
		s.MaxNameLen = len(name)
		s.LongestName = name
		s.NameLocation = obj
	}
}

// ObserveInt records an integer.
func (s *Stats) ObserveInt(v int64) {
	if v > s.MaxInt {
		s.MaxInt = v
	}
	if v < s.MinInt {
		s.MinInt = v
	}
}

// ObserveReal records the magnitude of a real number.
func (s *Stats) ObserveReal(v float64) {
	if v < 0 {
		v = -v
	}
	if v > s.MaxReal {
		s.MaxReal = v
	}
}

// ObserveArray records an array length.
func (s *Stats) ObserveArray(n int) {
	if n > s.MaxArrayLen {
		s.MaxArrayLen = n
	}
}

// ObserveDict records a dictionary entry count.
func (s *Stats) ObserveDict(n int) {
	if n > s.MaxDictLen {
		s.MaxDictLen = n
	}
}
