package taxonomy

import (
	"fmt"

	"github.com/coolbeans/cdrtax/pkg/linkbase"
)

// Resolver runs the resolution pipeline over one taxonomy snapshot: graph
// construction, root/leaf classification, path enumeration, label
// resolution, hierarchy assembly, and reference merging. One Resolver
// processes one snapshot end to end; there is no state shared across
// invocations.
type Resolver struct {
	profile     *Profile
	cacheSize   int
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCacheSize sets the path memo size.
func WithCacheSize(size int) Option {
	return func(r *Resolver) { r.cacheSize = size }
}

// WithConcurrency sets the path enumeration worker count.
func WithConcurrency(workers int) Option {
	return func(r *Resolver) { r.concurrency = workers }
}

// NewResolver creates a resolver. A nil profile selects the FFIEC CDR
// defaults.
func NewResolver(profile *Profile, opts ...Option) (*Resolver, error) {
	if profile == nil {
		profile = DefaultProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	resolver := &Resolver{profile: profile}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver, nil
}

// Resolve turns a decoded snapshot into the final taxonomy document. The
// result is only valid when the error is nil; there are no meaningful
// partial results.
func (r *Resolver) Resolve(snapshot *linkbase.Snapshot) (*Taxonomy, *ResolveStats, error) {
	if snapshot == nil {
		return nil, nil, fmt.Errorf("snapshot is nil")
	}

	graph, err := BuildGraph(snapshot.PresentationArcs)
	if err != nil {
		return nil, nil, err
	}

	stats := &ResolveStats{
		Arcs:           graph.ArcCount(),
		Concepts:       graph.ConceptCount(),
		LeafCandidates: len(graph.LeafCandidates()),
	}

	leaves := graph.DataLeaves(r.profile)
	stats.DataLeaves = len(leaves)

	enumerator, err := NewPathEnumerator(graph, r.cacheSize, r.concurrency)
	if err != nil {
		return nil, nil, err
	}
	pathsByLeaf, err := enumerator.EnumerateAll(leaves)
	if err != nil {
		return nil, nil, err
	}
	for _, paths := range pathsByLeaf {
		stats.Paths += len(paths)
	}

	labels := NewLabelResolver(snapshot.LabelArcs, snapshot.Labels)
	stats.Labels = labels.Count()
	stats.LabelConflicts = labels.ConflictCount()

	assembler := NewAssembler(r.profile, labels)
	data, assembleStats := assembler.Assemble(pathsByLeaf)
	stats.Schedules = assembleStats.Schedules
	stats.DiscardedColumnPaths = assembleStats.DiscardedColumnPaths
	stats.DiscardedLinePaths = assembleStats.DiscardedLinePaths

	mergeStats, err := MergeReferences(data, snapshot.References)
	if err != nil {
		return nil, nil, err
	}
	stats.ReferenceRecords = mergeStats.Records
	stats.MergedReferences = mergeStats.Merged
	stats.UnmatchedReferences = mergeStats.Unmatched

	return &Taxonomy{
		FormNumber: snapshot.FormNumber,
		Quarter:    snapshot.Quarter,
		Data:       data,
	}, stats, nil
}
