package pdfa_test

import (
	"context"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfakit/compliance"
	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/ir/raw"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/security"
	"github.com/wudi/pdfakit/xmp"
)

func count(rep *compliance.Report, code string) int {
	n := 0
	for _, v := range rep.Violations {
		if v.Code == code {
			n++
		}
	}
	return n
}

func pageWithContent(content string) *semantic.Page {
	return &semantic.Page{
		MediaBox:  semantic.Rectangle{URX: 612, URY: 792},
		Resources: &semantic.Resources{},
		Contents:  []semantic.ContentStream{{RawBytes: []byte(content)}},
	}
}

func TestSharedFontCheckedOnce(t *testing.T) {
	font := &semantic.Font{Subtype: "TrueType", BaseFont: "Helvetica", Encoding: "WinAnsiEncoding"}
	res := &semantic.Resources{Fonts: map[string]*semantic.Font{"F1": font}}
	doc := &semantic.Document{
		OutputIntents: []semantic.OutputIntent{srgbIntent()},
		Pages: []*semantic.Page{
			{Index: 0, Resources: res},
			{Index: 1, Resources: &semantic.Resources{Fonts: map[string]*semantic.Font{"F9": font}}},
		},
	}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, count(rep, "FNT001"))
}

func TestCheckPageThenDocument(t *testing.T) {
	page := pageWithContent("1 0 0 rg 0 0 5 5 re f")
	doc := &semantic.Document{Pages: []*semantic.Page{page}}
	c := pdfa.NewChecker(pdfa.PDFA2B)
	ctx := context.Background()

	require.NoError(t, c.CheckPage(ctx, doc, page))
	assert.Equal(t, 1, count(c.Report(), "INT001"))

	rep, err := c.CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, count(rep, "INT001"), "page is not checked twice")
	assert.True(t, rep.Has("MET001"))
}

func TestCheckerFailFast(t *testing.T) {
	page := pageWithContent("0 0 1 RG")
	doc := &semantic.Document{Trailer: raw.Trailer{ID: [][]byte{{1}, {1}}}, Pages: []*semantic.Page{page}}
	c := pdfa.NewChecker(pdfa.PDFA1B, pdfa.WithFailFast(true))

	err := c.CheckPage(context.Background(), doc, page)
	var ce *compliance.ConformanceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "INT001", ce.Code)
	assert.Equal(t, "page 1 content 1", ce.Location)
	assert.Len(t, c.Report().Violations, 1)
}

func TestContentStreamRules(t *testing.T) {
	ctx := context.Background()
	check := func(level pdfa.Level, content string) *compliance.Report {
		doc := &semantic.Document{
			OutputIntents: []semantic.OutputIntent{srgbIntent()},
			Pages:         []*semantic.Page{pageWithContent(content)},
		}
		rep, err := pdfa.NewChecker(level).CheckDocument(ctx, doc)
		require.NoError(t, err)
		return rep
	}

	rep := check(pdfa.PDFA2B, "foo foo 0 0 m bar")
	assert.Equal(t, 2, count(rep, "CNT001"))

	rep = check(pdfa.PDFA2B, "q Q Q")
	assert.True(t, rep.Has("CNT002"))

	rep = check(pdfa.PDFA1B, strings.Repeat("q ", 29)+strings.Repeat("Q ", 29))
	assert.True(t, rep.Has("LIM007"))
	rep = check(pdfa.PDFA4, strings.Repeat("q ", 29)+strings.Repeat("Q ", 29))
	assert.False(t, rep.Has("LIM007"))

	rep = check(pdfa.PDFA2B, "/Vivid ri")
	assert.True(t, rep.Has("GST005"))

	rep = check(pdfa.PDFA2B, "0 0 0 1 k")
	assert.True(t, rep.Has("CLR002"))
	rep = check(pdfa.PDFA2B, "0.5 g 1 0 0 rg")
	assert.False(t, rep.Has("CLR001"))
	assert.False(t, rep.Has("INT001"))
}

func TestDefaultColorSpaceReplacesDevice(t *testing.T) {
	page := pageWithContent("0 0 0 1 k")
	page.Resources.ColorSpaces = map[string]semantic.ColorSpace{
		"DefaultCMYK": &semantic.ICCBasedColorSpace{N: 4, Profile: []byte("not a profile")},
	}
	doc := &semantic.Document{Pages: []*semantic.Page{page}}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("INT001"))
	assert.Equal(t, 1, count(rep, "CLR003"))
}

func TestImageRules(t *testing.T) {
	page := &semantic.Page{
		MediaBox: semantic.Rectangle{URX: 612, URY: 792},
		Resources: &semantic.Resources{XObjects: map[string]semantic.XObject{
			"Im1": {Subtype: "Image", Interpolate: true, Filters: []string{"LZWDecode"}, ColorSpace: semantic.DeviceColorSpace{Name: "DeviceGray"}},
		}},
	}
	doc := &semantic.Document{OutputIntents: []semantic.OutputIntent{srgbIntent()}, Pages: []*semantic.Page{page}}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("XOB005"))
	assert.True(t, rep.Has("XOB006"))
}

func TestPageSizeLimits(t *testing.T) {
	page := &semantic.Page{MediaBox: semantic.Rectangle{URX: 2, URY: 792}}
	doc := &semantic.Document{Pages: []*semantic.Page{page}}
	rep, err := pdfa.NewChecker(pdfa.PDFA1B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("PAG001"))

	page.UserUnit = 2
	rep, err = pdfa.NewChecker(pdfa.PDFA1B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("PAG001"))
}

func TestImplementationLimits(t *testing.T) {
	doc := &semantic.Document{
		Trailer: raw.Trailer{Size: 9_000_000},
		Stats: &raw.Stats{
			MaxStringLen:   70000,
			StringLocation: raw.ObjectRef{Num: 12},
			MaxArrayLen:    9000,
			MaxInt:         1 << 40,
		},
	}
	rep, err := pdfa.NewChecker(pdfa.PDFA1B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	for _, code := range []string{"LIM001", "LIM003", "LIM005", "LIM009"} {
		assert.True(t, rep.Has(code), code)
	}

	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("LIM001"), "string limit is 32767 from part 2")
	assert.False(t, rep.Has("LIM005"))
	assert.True(t, rep.Has("LIM003"))
}

func TestOutputIntentRules(t *testing.T) {
	ctx := context.Background()
	doc := &semantic.Document{OutputIntents: []semantic.OutputIntent{
		srgbIntent(),
		{S: "GTS_PDFX", DestOutputProfile: []byte("another profile")},
	}}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("INT005"))

	rep, err = pdfa.NewChecker(pdfa.PDFA1B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("INT005"))

	doc.OutputIntents = []semantic.OutputIntent{{S: "GTS_PDFA1", DestOutputProfile: []byte("garbage")}}
	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("INT002"))

	doc.OutputIntents = []semantic.OutputIntent{{S: "GTS_PDFA1"}}
	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("INT006"))
}

func TestMetadataRules(t *testing.T) {
	ctx := context.Background()
	m := &xmp.Metadata{Part: 2, Conformance: "B", Title: "XMP title", Producer: "pdfakit"}
	doc := &semantic.Document{
		Metadata: &semantic.XMPMetadata{Raw: m.Marshal()},
		Info:     &semantic.DocumentInfo{Title: "Info title", Producer: "pdfakit"},
	}

	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, count(rep, "MET007"))
	assert.False(t, rep.Has("MET004"))

	rep, err = pdfa.NewChecker(pdfa.PDFA3B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("MET004"))

	rep, err = pdfa.NewChecker(pdfa.PDFA2U).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("MET005"))

	m4 := &xmp.Metadata{Part: 4}
	doc = &semantic.Document{
		Metadata: &semantic.XMPMetadata{Raw: m4.Marshal()},
		Info:     &semantic.DocumentInfo{Title: "Info title"},
	}
	rep, err = pdfa.NewChecker(pdfa.PDFA4).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("MET006"))
	assert.True(t, rep.Has("MET008"))
	assert.False(t, rep.Has("MET007"))
}

func TestEmbeddedPDFAPayload(t *testing.T) {
	ctx := context.Background()
	payload := append([]byte("%PDF-1.7\n1 0 obj\n<< /Type /Metadata >>\nstream\n"),
		(&xmp.Metadata{Part: 1, Conformance: "B"}).Marshal()...)
	doc := &semantic.Document{EmbeddedFiles: []semantic.EmbeddedFile{
		{Name: "inner.pdf", FileName: "inner.pdf", UnicodeName: "inner.pdf", Data: payload},
	}}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("ATT002"))

	reject := pdfa.WithPayloadInspector(func([]byte) (int, error) { return 0, nil })
	rep, err = pdfa.NewChecker(pdfa.PDFA2B, reject).CheckDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("ATT002"))

	part, err := pdfa.XMPPayloadInspector([]byte("plain text"))
	require.NoError(t, err)
	assert.Zero(t, part)
}

func TestEmbeddedFileChecksum(t *testing.T) {
	data := []byte("invoice data")
	doc := &semantic.Document{AssociatedFiles: []semantic.EmbeddedFile{{
		Name: "invoice.xml", FileName: "invoice.xml", UnicodeName: "invoice.xml",
		Relationship: "Data", Subtype: "text/xml", Data: data,
		Params: &semantic.EmbeddedFileParams{ModDate: "D:20240101000000Z", CheckSum: []byte("0123456789abcdef")},
	}}}
	rep, err := pdfa.NewChecker(pdfa.PDFA3B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("ATT007"))
	assert.False(t, rep.Has("ATT004"))

	rep, err = pdfa.NewChecker(pdfa.PDFA4F).CheckDocument(context.Background(), &semantic.Document{})
	require.NoError(t, err)
	assert.True(t, rep.Has("ATT008"))
}

func testCertificate(t *testing.T, kp security.KeyPair) *x509.Certificate {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "pdfakit signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, kp.Public(), kp.Private())
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func TestSignatureRules(t *testing.T) {
	kp, err := security.GenerateKeyPair("RSA", 2048)
	require.NoError(t, err)
	cert := testCertificate(t, kp)
	der, err := security.SignDetached([]byte("signed bytes"), cert, kp.Private(), nil, "SHA-256")
	require.NoError(t, err)
	contents := append(append([]byte(nil), der...), make([]byte, 32)...)
	gap := int64(2*len(contents) + 2)

	good := &semantic.Signature{
		FieldName: "Sig1",
		SubFilter: "ETSI.CAdES.detached",
		Contents:  contents,
		ByteRange: []int64{0, 100, 100 + gap, 40},
	}
	fileSize := 100 + gap + 40
	doc := &semantic.Document{Signatures: []*semantic.Signature{good}}
	doc.Trailer.FileSize = fileSize
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	for _, code := range []string{"SIG001", "SIG002", "SIG003", "SIG004", "SIG006"} {
		assert.False(t, rep.Has(code), code)
	}

	// Bytes appended after the signed revision leave the file partly uncovered.
	doc.Trailer.FileSize = fileSize + 10
	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, count(rep, "SIG006"))

	// An earlier signature need only cover its own revision.
	earlier := *good
	earlier.FieldName = "Sig0"
	earlier.ByteRange = []int64{0, 100, 100 + gap, 10}
	doc.Signatures = []*semantic.Signature{&earlier, good}
	doc.Trailer.FileSize = fileSize
	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("SIG006"))
	doc.Trailer.FileSize = 0

	bad := &semantic.Signature{
		FieldName: "Sig2",
		SubFilter: "adbe.pkcs7.sha1",
		Contents:  []byte("garbage"),
		ByteRange: []int64{0, 100, 120, 40},
	}
	doc.Signatures = []*semantic.Signature{bad}
	rep, err = pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("SIG001"))
	assert.True(t, rep.Has("SIG002"))
	assert.True(t, rep.Has("SIG006"))

	rep, err = pdfa.NewChecker(pdfa.PDFA1B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, rep.Has("SIG001"))
}

func TestActionRules(t *testing.T) {
	page := &semantic.Page{
		MediaBox: semantic.Rectangle{URX: 612, URY: 792},
		Annotations: []semantic.Annotation{
			&semantic.LinkAnnotation{
				BaseAnnotation: semantic.BaseAnnotation{Subtype: "Link", Flags: semantic.AnnotFlagPrint, HasFlags: true},
				Action: semantic.URIAction{
					URI:        "https://example.org",
					ActionBase: semantic.ActionBase{Next: []semantic.Action{semantic.NamedAction{Name: "Print"}}},
				},
			},
			&semantic.LinkAnnotation{
				BaseAnnotation: semantic.BaseAnnotation{Subtype: "Link", Flags: semantic.AnnotFlagPrint, HasFlags: true},
				Action:         semantic.LaunchAction{},
			},
		},
	}
	doc := &semantic.Document{
		Catalog: &semantic.Catalog{OpenAction: semantic.URIAction{URI: "JavaScript:alert(1)"}},
		Pages:   []*semantic.Page{page},
	}
	rep, err := pdfa.NewChecker(pdfa.PDFA2B).CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, rep.Has("ACT001"))
	assert.True(t, rep.Has("ACT002"))
	assert.True(t, rep.Has("ACT003"))
}
