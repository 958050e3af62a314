// Package xmp reads and writes the subset of XMP metadata PDF/A relies on:
// the pdfaid identification schema, Dublin Core and the PDF and XMP basic
// schemas that mirror the document information dictionary.
package xmp

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespace URIs.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSPDFAID  = "http://www.aiim.org/pdfa/ns/id/"
	NSDC      = "http://purl.org/dc/elements/1.1/"
	NSPDF     = "http://ns.adobe.com/pdf/1.3/"
	NSXMP     = "http://ns.adobe.com/xap/1.0/"
	NSXMPMeta = "adobe:ns:meta/"
)

// ErrNoRDF is returned when the packet has no rdf:RDF element.
var ErrNoRDF = errors.New("xmp: packet has no rdf:RDF element")

// Metadata holds the properties extracted from a packet.
type Metadata struct {
	Part        int
	Conformance string
	Rev         string
	Amd         string

	Title       string
	Creators    []string
	Description string

	Keywords    string
	Producer    string
	CreatorTool string
	CreateDate  string
	ModifyDate  string

	// Properties holds every simple property as "namespace|local" -> value.
	Properties map[string]string
}

// Property returns a raw property value by namespace and local name.
func (m *Metadata) Property(ns, local string) (string, bool) {
	v, ok := m.Properties[ns+"|"+local]
	return v, ok
}

// HasPart reports whether pdfaid:part was present.
func (m *Metadata) HasPart() bool {
	_, ok := m.Property(NSPDFAID, "part")
	return ok
}

// Parse reads an XMP packet.
func Parse(data []byte) (*Metadata, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	m := &Metadata{Properties: make(map[string]string)}

	var (
		inRDF    bool
		depth    int // depth inside rdf:Description
		property xml.Name
		values   []string
		text     strings.Builder
		inLi     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmp: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == NSRDF && t.Name.Local == "RDF":
				inRDF = true
			case inRDF && t.Name.Space == NSRDF && t.Name.Local == "Description" && depth == 0:
				depth = 1
				for _, a := range t.Attr {
					if a.Name.Space == "" || a.Name.Space == NSRDF || a.Name.Space == "xmlns" {
						continue
					}
					m.set(a.Name, []string{a.Value})
				}
			case depth == 1:
				property = t.Name
				values = values[:0]
				text.Reset()
				depth = 2
			case depth >= 2:
				depth++
				if t.Name.Space == NSRDF && t.Name.Local == "li" {
					inLi = true
					text.Reset()
				}
			}
		case xml.CharData:
			if depth >= 2 {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case depth > 2:
				if t.Name.Space == NSRDF && t.Name.Local == "li" && inLi {
					values = append(values, strings.TrimSpace(text.String()))
					text.Reset()
					inLi = false
				}
				depth--
			case depth == 2:
				if len(values) == 0 {
					values = append(values, strings.TrimSpace(text.String()))
				}
				m.set(property, values)
				depth = 1
			case depth == 1:
				depth = 0
			case t.Name.Space == NSRDF && t.Name.Local == "RDF":
				inRDF = false
			}
		}
	}
	if !bytes.Contains(data, []byte("RDF")) {
		return nil, ErrNoRDF
	}
	return m, nil
}

func (m *Metadata) set(name xml.Name, values []string) {
	if len(values) == 0 {
		return
	}
	first := values[0]
	m.Properties[name.Space+"|"+name.Local] = strings.Join(values, ", ")
	switch name.Space {
	case NSPDFAID:
		switch name.Local {
		case "part":
			m.Part, _ = strconv.Atoi(strings.TrimSpace(first))
		case "conformance":
			m.Conformance = first
		case "rev":
			m.Rev = first
		case "amd":
			m.Amd = first
		}
	case NSDC:
		switch name.Local {
		case "title":
			m.Title = first
		case "creator":
			m.Creators = append([]string(nil), values...)
		case "description":
			m.Description = first
		}
	case NSPDF:
		switch name.Local {
		case "Keywords":
			m.Keywords = first
		case "Producer":
			m.Producer = first
		}
	case NSXMP:
		switch name.Local {
		case "CreatorTool":
			m.CreatorTool = first
		case "CreateDate":
			m.CreateDate = first
		case "ModifyDate":
			m.ModifyDate = first
		}
	}
}
