package linkbase

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// --- Linkbase XML Structures ---
// Minimal structs for the elements needed from the XBRL linkbase schema.
// A linkbase document is: <linkbase> → <presentationLink>/<labelLink>/
// <referenceLink> → arcs and resources. Attribute names are matched by
// local name, so the xlink: prefix on from/to/label/href is ignored.

// Document represents the top-level <linkbase> element.
type Document struct {
	XMLName           xml.Name           `xml:"linkbase"`
	RoleRefs          []RoleRef          `xml:"roleRef"`
	PresentationLinks []PresentationLink `xml:"presentationLink"`
	LabelLinks        []LabelLink        `xml:"labelLink"`
	ReferenceLinks    []ReferenceLink    `xml:"referenceLink"`
}

// RoleRef represents a <roleRef> element. Its href carries the
// call-report-<form>-<period> naming convention.
type RoleRef struct {
	Href string `xml:"href,attr"`
}

// PresentationLink represents a <presentationLink> element.
type PresentationLink struct {
	Role string   `xml:"role,attr"`
	Arcs []xmlArc `xml:"presentationArc"`
}

// LabelLink represents a <labelLink> element.
type LabelLink struct {
	Arcs   []xmlArc   `xml:"labelArc"`
	Labels []xmlLabel `xml:"label"`
}

// ReferenceLink represents a <referenceLink> element.
type ReferenceLink struct {
	Arcs       []xmlArc            `xml:"referenceArc"`
	References []ReferenceResource `xml:"reference"`
}

// xmlArc captures the from/to endpoints shared by all arc elements.
type xmlArc struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

// xmlLabel represents a <label> resource element.
type xmlLabel struct {
	Label string `xml:"label,attr"`
	Text  string `xml:",chardata"`
}

// UnmarshalXML decodes a <reference> element. The xlink label attribute is
// captured directly; every child element becomes a Fields entry keyed by its
// local name, since citation field names differ between schema revisions.
func (r *ReferenceResource) UnmarshalXML(decoder *xml.Decoder, start xml.StartElement) error {
	r.Fields = make(map[string]string)
	for _, attr := range start.Attr {
		if attr.Name.Local == "label" {
			r.Label = attr.Value
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		switch element := token.(type) {
		case xml.StartElement:
			var text string
			if err := decoder.DecodeElement(&text, &element); err != nil {
				return err
			}
			r.Fields[element.Name.Local] = strings.TrimSpace(text)
		case xml.EndElement:
			return nil
		}
	}
}

// --- Parsing Functions ---

// Parse decodes a linkbase XML document.
func Parse(reader io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false

	document := &Document{}
	if err := decoder.Decode(document); err != nil {
		return nil, fmt.Errorf("failed to parse linkbase XML: %w", err)
	}

	return document, nil
}

// PresentationArcs flattens the document's presentation links into arc
// records. Arcs missing either endpoint are skipped.
func (d *Document) PresentationArcs() []PresentationArc {
	var arcs []PresentationArc
	for _, link := range d.PresentationLinks {
		for _, arc := range link.Arcs {
			if arc.From == "" || arc.To == "" {
				continue
			}
			arcs = append(arcs, PresentationArc{From: arc.From, To: arc.To})
		}
	}
	return arcs
}

// LabelArcs flattens the document's label links into label-arc records.
func (d *Document) LabelArcs() []LabelArc {
	var arcs []LabelArc
	for _, link := range d.LabelLinks {
		for _, arc := range link.Arcs {
			if arc.From == "" || arc.To == "" {
				continue
			}
			arcs = append(arcs, LabelArc{From: arc.From, To: arc.To})
		}
	}
	return arcs
}

// LabelResources flattens the document's label links into label resources.
func (d *Document) LabelResources() []LabelResource {
	var labels []LabelResource
	for _, link := range d.LabelLinks {
		for _, label := range link.Labels {
			if label.Label == "" {
				continue
			}
			labels = append(labels, LabelResource{
				Key:  label.Label,
				Text: strings.TrimSpace(label.Text),
			})
		}
	}
	return labels
}

// ReferenceArcs flattens the document's reference links into arc records.
func (d *Document) ReferenceArcs() []ReferenceArc {
	var arcs []ReferenceArc
	for _, link := range d.ReferenceLinks {
		for _, arc := range link.Arcs {
			if arc.From == "" || arc.To == "" {
				continue
			}
			arcs = append(arcs, ReferenceArc{From: arc.From, To: arc.To})
		}
	}
	return arcs
}

// ReferenceResources flattens the document's reference links into citation
// records.
func (d *Document) ReferenceResources() []ReferenceResource {
	var references []ReferenceResource
	for _, link := range d.ReferenceLinks {
		references = append(references, link.References...)
	}
	return references
}
