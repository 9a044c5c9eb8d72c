package taxonomy

import "github.com/coolbeans/cdrtax/pkg/linkbase"

// LabelResolver maps concept identifiers to display text by joining label
// arcs (concept → label-resource key) against label resources (key → text).
// Both sides are indexed up front so lookups are O(1); arc counts run in the
// thousands and nested scans do not scale.
type LabelResolver struct {
	byConcept map[string]string
	conflicts int
}

// NewLabelResolver builds the concept→text index. When multiple arc/resource
// pairs target the same concept, the last one in input order wins; the input
// order carries no guarantee, so conflicts are counted for diagnostics
// rather than silently absorbed.
func NewLabelResolver(arcs []linkbase.LabelArc, resources []linkbase.LabelResource) *LabelResolver {
	byKey := make(map[string]string, len(resources))
	for _, resource := range resources {
		byKey[resource.Key] = resource.Text
	}

	resolver := &LabelResolver{
		byConcept: make(map[string]string, len(arcs)),
	}
	for _, arc := range arcs {
		text, ok := byKey[arc.To]
		if !ok {
			continue
		}
		if _, dup := resolver.byConcept[arc.From]; dup {
			resolver.conflicts++
		}
		resolver.byConcept[arc.From] = text
	}

	return resolver
}

// Lookup returns the label for a concept. A concept without a label arc
// simply has none; downstream consumers render that as null.
func (r *LabelResolver) Lookup(concept string) (string, bool) {
	text, ok := r.byConcept[concept]
	return text, ok
}

// LookupRef returns the concept as a ConceptRef with its label resolved, or
// a nil label when absent.
func (r *LabelResolver) LookupRef(concept string) ConceptRef {
	ref := ConceptRef{Code: concept}
	if text, ok := r.byConcept[concept]; ok {
		ref.Label = &text
	}
	return ref
}

// Count returns the number of concepts with a resolved label.
func (r *LabelResolver) Count() int {
	return len(r.byConcept)
}

// ConflictCount returns how many concepts had more than one matching
// arc/resource pair.
func (r *LabelResolver) ConflictCount() int {
	return r.conflicts
}
