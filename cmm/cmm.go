package cmm

// Profile represents a color profile (e.g., ICC).
type Profile interface {
	// Name returns the profile description or name.
	Name() string
	// ColorSpace returns the color space signature (e.g., "RGB ", "CMYK").
	ColorSpace() string
	// Class returns the profile class (e.g., "mntr", "prtr").
	Class() string
	// Data returns the raw profile bytes.
	Data() []byte
}

// Color space signatures from the ICC header.
const (
	SpaceGray = "GRAY"
	SpaceRGB  = "RGB "
	SpaceCMYK = "CMYK"
	SpaceLab  = "Lab "
)

// Profile/device class signatures from the ICC header.
const (
	ClassInput      = "scnr"
	ClassDisplay    = "mntr"
	ClassOutput     = "prtr"
	ClassLink       = "link"
	ClassColorSpace = "spac"
	ClassAbstract   = "abst"
	ClassNamed      = "nmcl"
)

// Components returns the number of colour components for a colour space
// signature, or 0 when it is not known.
func Components(space string) int {
	switch space {
	case SpaceGray:
		return 1
	case SpaceRGB, SpaceLab, "XYZ ", "YCbr", "HSV ", "HLS ", "CMY ", "Yxy ", "Luv ":
		return 3
	case SpaceCMYK:
		return 4
	}
	if len(space) == 4 && space[1:] == "CLR" {
		// 2CLR..FCLR
		c := space[0]
		switch {
		case c >= '2' && c <= '9':
			return int(c - '0')
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10
		}
	}
	return 0
}
