// Package linkbase decodes XBRL linkbase documents into the flat record
// slices consumed by the taxonomy resolver.
package linkbase

// PresentationArc is a parent→child relationship record from the
// presentation linkbase. From is the parent concept, To the child.
type PresentationArc struct {
	From string
	To   string
}

// LabelArc links a concept identifier to an intermediate label-resource key.
type LabelArc struct {
	From string
	To   string
}

// LabelResource maps a label-resource key to display text.
type LabelResource struct {
	Key  string
	Text string
}

// ReferenceArc links a concept to a reference resource. The resolver does not
// consume these directly (reference resources carry their own label keys),
// but they are decoded for completeness.
type ReferenceArc struct {
	From string
	To   string
}

// ReferenceResource is a paper-form citation record. The child element names
// vary across CDR schema revisions, so they are captured as a name→text map
// and matched downstream by substring rather than by fixed name.
type ReferenceResource struct {
	Label  string
	Fields map[string]string
}

// Snapshot aggregates everything decoded from one taxonomy ZIP: the record
// slices from the three linkbases the resolver consumes, plus the report
// metadata extracted from the role URI convention.
type Snapshot struct {
	FormNumber string
	Quarter    string

	PresentationArcs []PresentationArc
	LabelArcs        []LabelArc
	Labels           []LabelResource
	ReferenceArcs    []ReferenceArc
	References       []ReferenceResource
}
