package xmp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/pdfakit/xmp"
)

const attributePacket = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/" pdfaid:part="2" pdfaid:conformance="B"/>
  <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
   <dc:title><rdf:Alt><rdf:li xml:lang="x-default">Annual report</rdf:li></rdf:Alt></dc:title>
   <dc:creator><rdf:Seq><rdf:li>Ada</rdf:li><rdf:li>Grace</rdf:li></rdf:Seq></dc:creator>
  </rdf:Description>
  <rdf:Description rdf:about="" xmlns:pdf="http://ns.adobe.com/pdf/1.3/">
   <pdf:Producer>pdfakit</pdf:Producer>
   <pdf:Keywords>archive, pdfa</pdf:Keywords>
  </rdf:Description>
  <rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmp:CreatorTool="writer"/>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func TestParseAttributesAndElements(t *testing.T) {
	m, err := xmp.Parse([]byte(attributePacket))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Part)
	assert.Equal(t, "B", m.Conformance)
	assert.True(t, m.HasPart())
	assert.Equal(t, "Annual report", m.Title)
	assert.Equal(t, []string{"Ada", "Grace"}, m.Creators)
	assert.Equal(t, "pdfakit", m.Producer)
	assert.Equal(t, "archive, pdfa", m.Keywords)
	assert.Equal(t, "writer", m.CreatorTool)

	v, ok := m.Property(xmp.NSDC, "creator")
	require.True(t, ok)
	assert.Equal(t, "Ada, Grace", v)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := &xmp.Metadata{
		Part:        4,
		Rev:         "2020",
		Title:       "Q&A <draft>",
		Creators:    []string{"Lin"},
		Producer:    "pdfakit",
		CreatorTool: "pdfacheck",
		ModifyDate:  "2024-05-01T10:00:00Z",
	}
	out, err := xmp.Parse(in.Marshal())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Part)
	assert.Equal(t, "2020", out.Rev)
	assert.Empty(t, out.Conformance)
	assert.Equal(t, "Q&A <draft>", out.Title)
	assert.Equal(t, []string{"Lin"}, out.Creators)
	assert.Equal(t, "pdfakit", out.Producer)
	assert.Equal(t, "pdfacheck", out.CreatorTool)
	assert.Equal(t, "2024-05-01T10:00:00Z", out.ModifyDate)
}

func TestParseWithoutIdentification(t *testing.T) {
	m, err := xmp.Parse([]byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"></rdf:RDF></x:xmpmeta>`))
	require.NoError(t, err)
	assert.False(t, m.HasPart())
	assert.Zero(t, m.Part)
}

func TestParseRejectsNonXMP(t *testing.T) {
	_, err := xmp.Parse([]byte("<html><body>hello</body></html>"))
	assert.ErrorIs(t, err, xmp.ErrNoRDF)
}
