package contentstream

// operators lists every operator defined by ISO 32000.
var operators = map[string]bool{
	// general graphics state
	"w": true, "J": true, "j": true, "M": true, "d": true, "ri": true, "i": true, "gs": true,
	// special graphics state
	"q": true, "Q": true, "cm": true,
	// path construction
	"m": true, "l": true, "c": true, "v": true, "y": true, "h": true, "re": true,
	// path painting
	"S": true, "s": true, "f": true, "F": true, "f*": true, "B": true, "B*": true,
	"b": true, "b*": true, "n": true,
	// clipping
	"W": true, "W*": true,
	// text objects and state
	"BT": true, "ET": true, "Tc": true, "Tw": true, "Tz": true, "TL": true, "Tf": true,
	"Tr": true, "Ts": true,
	// text positioning and showing
	"Td": true, "TD": true, "Tm": true, "T*": true, "Tj": true, "TJ": true, "'": true, "\"": true,
	// type 3 fonts
	"d0": true, "d1": true,
	// colour
	"CS": true, "cs": true, "SC": true, "SCN": true, "sc": true, "scn": true,
	"G": true, "g": true, "RG": true, "rg": true, "K": true, "k": true,
	// shading, images, XObjects
	"sh": true, "BI": true, "ID": true, "EI": true, "Do": true,
	// marked content
	"MP": true, "DP": true, "BMC": true, "BDC": true, "EMC": true,
	// compatibility
	"BX": true, "EX": true,
}

// IsDefined reports whether op is an operator defined by ISO 32000.
func IsDefined(op string) bool { return operators[op] }

// UndefinedOperators returns the operators of ops that are not defined,
// ignoring those inside BX/EX compatibility sections.
func UndefinedOperators(ops []string) []string {
	var out []string
	compat := 0
	for _, op := range ops {
		switch op {
		case "BX":
			compat++
			continue
		case "EX":
			if compat > 0 {
				compat--
			}
			continue
		}
		if compat == 0 && !operators[op] {
			out = append(out, op)
		}
	}
	return out
}
