package pdfa_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfakit/cmm"
	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
)

func TestLevelNames(t *testing.T) {
	cases := []struct {
		level       pdfa.Level
		name        string
		part        int
		conformance string
	}{
		{pdfa.PDFA1A, "PDF/A-1a", 1, "A"},
		{pdfa.PDFA1B, "PDF/A-1b", 1, "B"},
		{pdfa.PDFA2U, "PDF/A-2u", 2, "U"},
		{pdfa.PDFA3B, "PDF/A-3b", 3, "B"},
		{pdfa.PDFA4, "PDF/A-4", 4, ""},
		{pdfa.PDFA4E, "PDF/A-4e", 4, "E"},
		{pdfa.PDFA4F, "PDF/A-4f", 4, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.level.String())
		assert.Equal(t, tc.part, tc.level.Part())
		assert.Equal(t, tc.conformance, tc.level.Conformance())

		parsed, err := pdfa.ParseLevel(tc.name)
		require.NoError(t, err)
		assert.Equal(t, tc.level, parsed)
	}
	_, err := pdfa.ParseLevel("PDF/A-5z")
	assert.Error(t, err)
}

func TestLevelCapabilities(t *testing.T) {
	assert.False(t, pdfa.PDFA1B.AllowsTransparency())
	assert.True(t, pdfa.PDFA2B.AllowsTransparency())
	assert.False(t, pdfa.PDFA1A.AllowsAttachment())
	assert.False(t, pdfa.PDFA2B.AllowsArbitraryAttachment())
	assert.True(t, pdfa.PDFA3B.AllowsArbitraryAttachment())
	assert.True(t, pdfa.PDFA2A.RequiresTagging())
	assert.False(t, pdfa.PDFA2U.RequiresTagging())
	assert.True(t, pdfa.PDFA2U.RequiresUnicode())
	assert.True(t, pdfa.PDFA1A.RequiresUnicode())
	assert.False(t, pdfa.PDFA1B.RequiresUnicode())
	assert.True(t, pdfa.PDFA4.RequiresUnicode())
	assert.Equal(t, raw.V14, pdfa.PDFA1B.MaxVersion())
	assert.Equal(t, raw.V17, pdfa.PDFA3U.MaxVersion())
	assert.Equal(t, raw.V20, pdfa.PDFA4F.MaxVersion())
	assert.Equal(t, 8191, pdfa.PDFA1B.Limits().MaxArrayLen)
	assert.Zero(t, pdfa.PDFA2B.Limits().MaxArrayLen)
	assert.Zero(t, pdfa.PDFA4.Limits().MaxStringLen)
}

func TestPDFALevels(t *testing.T) {
	e := pdfa.NewEnforcer()
	ctx := context.Background()

	base := func() *semantic.Document {
		return &semantic.Document{
			OutputIntents: []semantic.OutputIntent{srgbIntent()},
			Pages: []*semantic.Page{{
				MediaBox: semantic.Rectangle{URX: 595, URY: 842},
				Resources: &semantic.Resources{
					Fonts: map[string]*semantic.Font{"F1": embeddedFont()},
				},
			}},
		}
	}

	t.Run("Transparency", func(t *testing.T) {
		doc := base()
		alpha := 0.5
		doc.Pages[0].Resources.ExtGStates = map[string]semantic.ExtGState{
			"GS1": {FillAlpha: &alpha},
		}

		rep, err := e.Validate(ctx, doc, pdfa.PDFA1B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "TRN001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "TRN001"))
		assert.False(t, hasViolation(rep, "TRN005"), "output intent present, page group colour space optional")
	})

	t.Run("TransparencyWithoutIntent", func(t *testing.T) {
		doc := base()
		doc.OutputIntents = nil
		alpha := 0.5
		doc.Pages[0].Resources.ExtGStates = map[string]semantic.ExtGState{
			"GS1": {FillAlpha: &alpha},
		}
		rep, err := e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "TRN005"))
	})

	t.Run("Layers", func(t *testing.T) {
		doc := base()
		doc.Pages[0].Resources.Properties = map[string]semantic.PropertyList{
			"OC1": &semantic.OptionalContentGroup{Name: "Layer1"},
		}

		rep, err := e.Validate(ctx, doc, pdfa.PDFA1B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "LYR001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "LYR001"))
	})

	t.Run("OptionalContentConfigurations", func(t *testing.T) {
		doc := base()
		g1 := &semantic.OptionalContentGroup{Name: "Layer1"}
		g2 := &semantic.OptionalContentGroup{Name: "Layer2"}
		doc.OCProperties = &semantic.OCProperties{
			OCGs:    []*semantic.OptionalContentGroup{g1, g2},
			D:       &semantic.OCConfig{Name: "Default", HasAS: true, Order: []*semantic.OptionalContentGroup{g1}},
			Configs: []*semantic.OCConfig{{Name: "Default", Order: []*semantic.OptionalContentGroup{g1, g2}}},
		}
		rep, err := e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "LYR003"))
		assert.True(t, hasViolation(rep, "LYR004"))
		assert.True(t, hasViolation(rep, "LYR005"))

		require.NoError(t, e.Enforce(ctx, doc, pdfa.PDFA2B))
		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		for _, code := range []string{"LYR002", "LYR003", "LYR004", "LYR005"} {
			assert.False(t, hasViolation(rep, code), code)
		}
	})

	t.Run("Attachments", func(t *testing.T) {
		doc := base()
		doc.EmbeddedFiles = []semantic.EmbeddedFile{
			{Name: "test.txt", FileName: "test.txt", UnicodeName: "test.txt", Data: []byte("hello")},
		}

		rep, err := e.Validate(ctx, doc, pdfa.PDFA1B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "ATT001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "ATT002"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA3B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "ATT001"))
		assert.False(t, hasViolation(rep, "ATT002"))
		assert.True(t, hasViolation(rep, "ATT004"))
		assert.True(t, hasViolation(rep, "ATT006"))
	})

	t.Run("Annotations", func(t *testing.T) {
		doc := base()
		doc.Pages[0].Annotations = []semantic.Annotation{
			&semantic.MovieAnnotation{BaseAnnotation: semantic.BaseAnnotation{Subtype: "Movie"}},
		}

		for _, level := range []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B, pdfa.PDFA4} {
			rep, err := e.Validate(ctx, doc, level)
			require.NoError(t, err)
			assert.True(t, hasViolation(rep, "ANN001"), level.String())
		}
	})

	t.Run("FileAttachmentAnnotation", func(t *testing.T) {
		doc := base()
		doc.Pages[0].Annotations = []semantic.Annotation{
			&semantic.FileAttachmentAnnotation{
				BaseAnnotation: semantic.BaseAnnotation{Subtype: "FileAttachment", Flags: semantic.AnnotFlagPrint, HasFlags: true},
			},
		}
		rep, err := e.Validate(ctx, doc, pdfa.PDFA1B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "ANN001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "ANN001"))
	})

	t.Run("Tagging", func(t *testing.T) {
		doc := base()
		rep, err := e.Validate(ctx, doc, pdfa.PDFA2A)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "CAT005"))
		assert.True(t, hasViolation(rep, "CAT006"))
		assert.True(t, hasViolation(rep, "CAT007"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "CAT005"))
	})

	t.Run("UnicodeFonts", func(t *testing.T) {
		doc := base()
		doc.Pages[0].Resources.Fonts["T3"] = &semantic.Font{Subtype: "Type3", BaseFont: "Glyphs"}

		for _, level := range []pdfa.Level{pdfa.PDFA1A, pdfa.PDFA2A, pdfa.PDFA2U, pdfa.PDFA4} {
			rep, err := e.Validate(ctx, doc, level)
			require.NoError(t, err)
			assert.True(t, hasViolation(rep, "FNT009"), level.String())
		}
		for _, level := range []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B} {
			rep, err := e.Validate(ctx, doc, level)
			require.NoError(t, err)
			assert.False(t, hasViolation(rep, "FNT009"), level.String())
		}

		doc.Pages[0].Resources.Fonts["T3"].ToUnicodeCMap = []byte("/CIDInit /ProcSet findresource begin")
		rep, err := e.Validate(ctx, doc, pdfa.PDFA1A)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "FNT009"))
	})

	t.Run("OutputProfileColourSpace", func(t *testing.T) {
		lab := append([]byte(nil), cmm.SRGBProfile()...)
		copy(lab[12:16], cmm.ClassOutput)
		copy(lab[16:20], cmm.SpaceLab)

		doc := base()
		doc.OutputIntents[0].DestOutputProfile = lab
		for _, level := range []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2B, pdfa.PDFA4} {
			rep, err := e.Validate(ctx, doc, level)
			require.NoError(t, err)
			assert.True(t, hasViolation(rep, "INT007"), level.String())
			assert.False(t, hasViolation(rep, "INT003"), level.String())
		}

		rep, err := e.Validate(ctx, base(), pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "INT007"))
	})

	t.Run("Version", func(t *testing.T) {
		doc := base()
		doc.Trailer.Version = raw.V17
		rep, err := e.Validate(ctx, doc, pdfa.PDFA1B)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "VER001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA2B)
		require.NoError(t, err)
		assert.False(t, hasViolation(rep, "VER001"))

		rep, err = e.Validate(ctx, doc, pdfa.PDFA4)
		require.NoError(t, err)
		assert.True(t, hasViolation(rep, "VER001"))
	})
}

func hasViolation(rep *compliance.Report, code string) bool {
	return rep != nil && rep.Has(code)
}
