package loader_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfakit/compliance/pdfa"
	"github.com/wudi/pdfakit/ir/semantic"
	"github.com/wudi/pdfakit/loader"
	"github.com/wudi/pdfakit/observability"
	"github.com/wudi/pdfakit/xmp"
)

// buildPDF lays out numbered objects with a classic cross-reference table.
// Stream objects are given as dictionary and data joined by "stream\n".
func buildPDF(objects []string, trailer string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f\r\n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d %s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, trailer, xref)
	return buf.Bytes()
}

func stream(dict, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

func samplePDF() []byte {
	md := (&xmp.Metadata{Part: 2, Conformance: "B", Title: "Sample"}).Marshal()
	content := "BT /F1 12 Tf (Hello) Tj ET"
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R /Metadata 7 0 R /Lang (en) /MarkInfo << /Marked true >> >>",
		"<< /Type /Pages /Kids [3 0 R 8 0 R] /Count 2 /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> >>",
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R /Annots [9 0 R] >>",
		stream("", content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Title (Sample) /Author (QA) /Keywords (alpha, beta; gamma) /Producer <FEFF00410042> >>",
		stream("/Type /Metadata /Subtype /XML", string(md)),
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R /Rotate 90 /CropBox [0 0 300 300] >>",
		"<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] /F 4 /A << /S /URI /URI (http://example.com) >> >>",
	}, "/Root 1 0 R /Info 6 0 R /ID [<0102> <0102>]")
}

func TestLoad(t *testing.T) {
	doc, err := loader.Load(context.Background(), bytes.NewReader(samplePDF()), loader.Options{})
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	p1, p2 := doc.Pages[0], doc.Pages[1]
	assert.Equal(t, semantic.Rectangle{URX: 612, URY: 792}, p1.MediaBox)
	assert.Equal(t, semantic.Rectangle{URX: 300, URY: 300}, p2.CropBox)
	assert.Equal(t, 90, p2.Rotate)
	require.Len(t, p1.Contents, 1)
	assert.Contains(t, string(p1.Contents[0].RawBytes), "(Hello) Tj")

	require.NotNil(t, p1.Resources)
	f := p1.Resources.Fonts["F1"]
	require.NotNil(t, f)
	assert.Equal(t, "Helvetica", f.BaseFont)
	assert.Same(t, f, p2.Resources.Fonts["F1"])

	require.Len(t, p1.Annotations, 1)
	link, ok := p1.Annotations[0].(*semantic.LinkAnnotation)
	require.True(t, ok)
	assert.Equal(t, "http://example.com", link.URI)
	assert.True(t, link.HasFlags)
	assert.Equal(t, semantic.AnnotFlagPrint, link.Flags)

	assert.Equal(t, "1.4", doc.Trailer.Version.String())
	assert.Equal(t, [][]byte{{1, 2}, {1, 2}}, doc.Trailer.ID)
	assert.Equal(t, int64(len(samplePDF())), doc.Trailer.FileSize)
	assert.False(t, doc.Encrypted)
	assert.Equal(t, "en", doc.Lang)
	assert.True(t, doc.Marked)

	require.NotNil(t, doc.Info)
	assert.Equal(t, "Sample", doc.Info.Title)
	assert.Equal(t, "AB", doc.Info.Producer)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, doc.Info.Keywords)

	require.NotNil(t, doc.Metadata)
	m, err := xmp.Parse(doc.Metadata.Raw)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Part)
	require.NotNil(t, doc.Stats)
	assert.GreaterOrEqual(t, doc.Stats.MaxInt, int64(792))
}

func TestLoadedDocumentValidates(t *testing.T) {
	doc, err := loader.Load(context.Background(), bytes.NewReader(samplePDF()), loader.Options{})
	require.NoError(t, err)

	rep, err := pdfa.NewEnforcer().Validate(context.Background(), doc, pdfa.PDFA2B)
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.False(t, rep.Compliant)
	assert.True(t, rep.Has(pdfa.CodeFontNotEmbedded))
	assert.False(t, rep.Has(pdfa.CodeEncrypted))
	assert.False(t, rep.Has(pdfa.CodeMissingMetadata))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF(), 0o600))

	doc, err := loader.LoadFile(context.Background(), path, loader.Options{})
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 2)

	_, err = loader.LoadFile(context.Background(), filepath.Join(dir, "missing.pdf"), loader.Options{})
	var le *loader.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "open", le.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadRejectsNonPDF(t *testing.T) {
	_, err := loader.Load(context.Background(), strings.NewReader("hello world"), loader.Options{})
	assert.ErrorIs(t, err, loader.ErrNotPDF)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.Load(ctx, bytes.NewReader(samplePDF()), loader.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

type loadSpan struct {
	name string
	tags map[string]interface{}
	err  error
}

type loadTracer struct{ spans []*loadSpan }

func (r *loadTracer) StartSpan(ctx context.Context, name string) (context.Context, observability.Span) {
	s := &loadSpan{name: name, tags: map[string]interface{}{}}
	r.spans = append(r.spans, s)
	return ctx, s
}

func (s *loadSpan) SetTag(key string, value interface{}) { s.tags[key] = value }
func (s *loadSpan) SetError(err error)                   { s.err = err }
func (s *loadSpan) Finish()                              {}

func TestLoadSpan(t *testing.T) {
	tr := &loadTracer{}
	_, err := loader.Load(context.Background(), bytes.NewReader(samplePDF()), loader.Options{Tracer: tr})
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), strings.NewReader("hello world"), loader.Options{Tracer: tr})
	require.Error(t, err)

	require.Len(t, tr.spans, 2)
	ok, bad := tr.spans[0], tr.spans[1]
	assert.Equal(t, observability.SpanLoad, ok.name)
	assert.Equal(t, 2, ok.tags[observability.TagPages])
	assert.NoError(t, ok.err)
	assert.ErrorIs(t, bad.err, loader.ErrNotPDF)
}

func TestProbePDFA(t *testing.T) {
	part, err := loader.ProbePDFA(samplePDF())
	require.NoError(t, err)
	assert.Equal(t, 2, part)

	part, err = loader.ProbePDFA([]byte("plain text"))
	require.NoError(t, err)
	assert.Zero(t, part)
}

func TestLoadForms(t *testing.T) {
	data := buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] /NeedAppearances true >> /OpenAction [3 0 R /Fit] >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 200 200] >>",
		"<< /Type /Page /Parent 2 0 R /Annots [5 0 R] /AA << /O << /S /JavaScript /JS (app.alert(1)) >> >> >>",
		"<< /FT /Btn /T (agree) /Kids [5 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /Parent 4 0 R /Rect [0 0 20 20] /A << /S /Named /N /NextPage /Next << /S /Launch /F (run.exe) >> >> >>",
	}, "/Root 1 0 R")
	doc, err := loader.Load(context.Background(), bytes.NewReader(data), loader.Options{})
	require.NoError(t, err)

	require.NotNil(t, doc.AcroForm)
	assert.True(t, doc.AcroForm.NeedAppearances)
	require.Len(t, doc.AcroForm.Fields, 1)
	field := doc.AcroForm.Fields[0]
	assert.Equal(t, "agree", field.Name)

	w, ok := doc.Pages[0].Annotations[0].(*semantic.WidgetAnnotation)
	require.True(t, ok)
	assert.Same(t, field, w.Field)
	named, ok := w.Action.(semantic.NamedAction)
	require.True(t, ok)
	assert.Equal(t, "NextPage", named.Name)
	require.Len(t, named.Next, 1)
	assert.Equal(t, "Launch", named.Next[0].ActionType())

	js, ok := doc.Pages[0].AdditionalActions["O"].(semantic.JavaScriptAction)
	require.True(t, ok)
	assert.Equal(t, "app.alert(1)", js.JS)

	open, ok := doc.Catalog.OpenAction.(semantic.GoToAction)
	require.True(t, ok)
	assert.Equal(t, 0, open.PageIndex)
	assert.Empty(t, doc.Trailer.ID)
}
