package cmm

import (
	"encoding/binary"
	"testing"
)

func TestICCProfileParse(t *testing.T) {
	data := make([]byte, 132)
	binary.BigEndian.PutUint32(data[0:4], 132)
	binary.BigEndian.PutUint32(data[12:16], 0x6D6E7472) // mntr
	binary.BigEndian.PutUint32(data[16:20], 0x52474220) // RGB
	binary.BigEndian.PutUint32(data[36:40], 0x61637370) // acsp
	binary.BigEndian.PutUint32(data[128:132], 0)

	p, err := NewICCProfile(data)
	if err != nil {
		t.Fatalf("NewICCProfile failed: %v", err)
	}

	if p.Class() != "mntr" {
		t.Errorf("expected class 'mntr', got '%s'", p.Class())
	}
	if p.ColorSpace() != "RGB " {
		t.Errorf("expected color space 'RGB ', got '%s'", p.ColorSpace())
	}
	if p.NumComponents() != 3 {
		t.Errorf("expected 3 components, got %d", p.NumComponents())
	}
}

func TestICCProfileRejectsGarbage(t *testing.T) {
	if _, err := NewICCProfile([]byte("mock profile")); err == nil {
		t.Fatal("expected error for short profile")
	}
	data := make([]byte, 200)
	if _, err := NewICCProfile(data); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestICCProfileTagOutOfBounds(t *testing.T) {
	data := make([]byte, 144)
	binary.BigEndian.PutUint32(data[0:4], 144)
	copy(data[36:40], "acsp")
	binary.BigEndian.PutUint32(data[128:132], 1)
	copy(data[132:136], "desc")
	binary.BigEndian.PutUint32(data[136:140], 140)
	binary.BigEndian.PutUint32(data[140:144], 500)
	if _, err := NewICCProfile(data); err == nil {
		t.Fatal("expected out of bounds tag error")
	}
}

func TestSRGBProfile(t *testing.T) {
	p, err := NewICCProfile(SRGBProfile())
	if err != nil {
		t.Fatalf("parse built-in sRGB: %v", err)
	}
	if p.ColorSpace() != SpaceRGB || p.Class() != ClassDisplay || p.PCS() != "XYZ " {
		t.Fatalf("unexpected header: %q %q %q", p.ColorSpace(), p.Class(), p.PCS())
	}
	if major, minor := p.Version(); major != 2 || minor != 1 {
		t.Fatalf("unexpected version %d.%d", major, minor)
	}
	if p.Name() != SRGBDescription() {
		t.Fatalf("unexpected description %q", p.Name())
	}
	for _, tag := range []string{"wtpt", "rXYZ", "gTRC", "cprt"} {
		if !p.HasTag(tag) {
			t.Errorf("missing tag %s", tag)
		}
	}
	if len(SRGBProfile())%4 != 0 {
		t.Errorf("profile size %d not 4-byte aligned", len(SRGBProfile()))
	}
}

func TestComponents(t *testing.T) {
	tests := map[string]int{"GRAY": 1, "RGB ": 3, "CMYK": 4, "6CLR": 6, "FCLR": 15, "????": 0}
	for space, want := range tests {
		if got := Components(space); got != want {
			t.Errorf("Components(%q) = %d, want %d", space, got, want)
		}
	}
}
