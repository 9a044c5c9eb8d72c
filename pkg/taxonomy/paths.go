package taxonomy

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultPathCacheSize bounds the per-concept path memo. CDR hierarchies
	// run 10³–10⁴ concepts; a bounded cache caps memory on pathological
	// inputs while still sharing ancestor chains across leaves.
	DefaultPathCacheSize = 8192

	// DefaultConcurrency is the worker count for enumerating paths across
	// leaves.
	DefaultConcurrency = 4
)

// PathEnumerator enumerates every simple directed path from a leaf concept to
// the hierarchy root. The graph is treated as an immutable snapshot, so
// enumeration is safe to fan out across leaves; paths-to-root per concept are
// memoized in a synchronized LRU cache so overlapping ancestor chains are not
// re-derived for every leaf.
//
// Returned paths are shared with the memo and must be treated as read-only.
type PathEnumerator struct {
	graph       *ConceptGraph
	memo        *lru.Cache[string, [][]string]
	concurrency int
}

// NewPathEnumerator creates an enumerator over the given graph. cacheSize
// and concurrency fall back to defaults when non-positive.
func NewPathEnumerator(graph *ConceptGraph, cacheSize, concurrency int) (*PathEnumerator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultPathCacheSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	memo, err := lru.New[string, [][]string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create path cache: %w", err)
	}

	return &PathEnumerator{
		graph:       graph,
		memo:        memo,
		concurrency: concurrency,
	}, nil
}

// PathsToRoot returns every simple path from the leaf to the root, each
// ordered leaf-first and root-last. A leaf with no path to the root is fatal:
// every data concept must be presentable somewhere in the schedule hierarchy.
func (e *PathEnumerator) PathsToRoot(leaf string) ([][]string, error) {
	visiting := make(map[string]bool)
	paths := e.pathsFrom(leaf, visiting)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: data concept %q has no path to root %q", ErrUnreachableLeaf, leaf, e.graph.Root())
	}
	return paths, nil
}

// pathsFrom returns all simple paths from concept to the root, memoized per
// concept. The visiting set keeps paths simple: a concept already on the
// current chain is not extended through. The hierarchy is guaranteed acyclic
// by construction, so this only matters for invariant-violating input, where
// an unreachable region simply yields zero paths instead of recursing
// forever.
func (e *PathEnumerator) pathsFrom(concept string, visiting map[string]bool) [][]string {
	if concept == e.graph.Root() {
		return [][]string{{concept}}
	}

	if paths, ok := e.memo.Get(concept); ok {
		return paths
	}

	if visiting[concept] {
		return nil
	}
	visiting[concept] = true
	defer delete(visiting, concept)

	var paths [][]string
	for _, parent := range e.graph.Parents(concept) {
		for _, sub := range e.pathsFrom(parent, visiting) {
			path := make([]string, 0, len(sub)+1)
			path = append(path, concept)
			path = append(path, sub...)
			paths = append(paths, path)
		}
	}

	e.memo.Add(concept, paths)
	return paths
}

// EnumerateAll enumerates paths for every given leaf on a bounded worker
// pool and returns them keyed by leaf. The first enumeration failure in leaf
// order is returned.
func (e *PathEnumerator) EnumerateAll(leaves []string) (map[string][][]string, error) {
	results := make([][][]string, len(leaves))
	errs := make([]error, len(leaves))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.concurrency)

	for i, leaf := range leaves {
		wg.Add(1)
		go func(i int, leaf string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i], errs[i] = e.PathsToRoot(leaf)
		}(i, leaf)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	paths := make(map[string][][]string, len(leaves))
	for i, leaf := range leaves {
		paths[leaf] = results[i]
	}
	return paths, nil
}
