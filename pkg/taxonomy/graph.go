package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/cdrtax/pkg/linkbase"
)

// ConceptGraph is the reversed presentation hierarchy: edges run child→parent
// so paths are enumerated from leaves up to the root. Built once per taxonomy
// snapshot and read-only thereafter.
type ConceptGraph struct {
	// parents maps each concept to its sorted parent concepts. Sorting fixes
	// the traversal order; the source arc order carries no guarantee.
	parents map[string][]string

	root           string
	leafCandidates []string
	arcCount       int
}

// BuildGraph constructs a ConceptGraph from presentation arcs and classifies
// the root and the leaf candidates. It fails with ErrMalformedHierarchy when
// the arc input is empty and ErrAmbiguousRoot when the hierarchy does not
// have exactly one root (a concept appearing only as a parent). Duplicate
// (parent, child) arcs are idempotent.
func BuildGraph(arcs []linkbase.PresentationArc) (*ConceptGraph, error) {
	if len(arcs) == 0 {
		return nil, fmt.Errorf("%w: presentation arc input is empty, no schedules can be derived", ErrMalformedHierarchy)
	}

	froms := make(map[string]bool)
	tos := make(map[string]bool)
	parentSets := make(map[string]map[string]bool)
	arcCount := 0

	for _, arc := range arcs {
		froms[arc.From] = true
		tos[arc.To] = true

		set, ok := parentSets[arc.To]
		if !ok {
			set = make(map[string]bool)
			parentSets[arc.To] = set
		}
		if !set[arc.From] {
			set[arc.From] = true
			arcCount++
		}
	}

	var roots []string
	for concept := range froms {
		if !tos[concept] {
			roots = append(roots, concept)
		}
	}
	if len(roots) != 1 {
		sort.Strings(roots)
		return nil, fmt.Errorf("%w: want exactly one root concept, found %d [%s]",
			ErrAmbiguousRoot, len(roots), strings.Join(roots, ", "))
	}

	var leaves []string
	for concept := range tos {
		if !froms[concept] {
			leaves = append(leaves, concept)
		}
	}
	sort.Strings(leaves)

	parents := make(map[string][]string, len(parentSets))
	for child, set := range parentSets {
		list := make([]string, 0, len(set))
		for parent := range set {
			list = append(list, parent)
		}
		sort.Strings(list)
		parents[child] = list
	}

	return &ConceptGraph{
		parents:        parents,
		root:           roots[0],
		leafCandidates: leaves,
		arcCount:       arcCount,
	}, nil
}

// Root returns the unique hierarchy root.
func (g *ConceptGraph) Root() string {
	return g.root
}

// LeafCandidates returns every concept appearing only as a child, sorted.
// These are candidates only; filter with DataLeaves before enumeration.
func (g *ConceptGraph) LeafCandidates() []string {
	return g.leafCandidates
}

// DataLeaves filters the leaf candidates down to reportable data concepts
// using the profile's data markers.
func (g *ConceptGraph) DataLeaves(profile *Profile) []string {
	var leaves []string
	for _, concept := range g.leafCandidates {
		if profile.IsDataConcept(concept) {
			leaves = append(leaves, concept)
		}
	}
	return leaves
}

// Parents returns the sorted parents of a concept; the root has none.
func (g *ConceptGraph) Parents(concept string) []string {
	return g.parents[concept]
}

// ArcCount returns the number of distinct edges.
func (g *ConceptGraph) ArcCount() int {
	return g.arcCount
}

// ConceptCount returns the number of distinct concepts in the hierarchy.
func (g *ConceptGraph) ConceptCount() int {
	seen := make(map[string]bool, len(g.parents))
	for child, parents := range g.parents {
		seen[child] = true
		for _, parent := range parents {
			seen[parent] = true
		}
	}
	return len(seen)
}
