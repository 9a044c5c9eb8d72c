package taxonomy

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustGraph(t *testing.T, pairs ...[2]string) *ConceptGraph {
	t.Helper()
	graph, err := BuildGraph(arcs(pairs...))
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	return graph
}

func mustEnumerator(t *testing.T, graph *ConceptGraph) *PathEnumerator {
	t.Helper()
	enumerator, err := NewPathEnumerator(graph, 0, 0)
	if err != nil {
		t.Fatalf("NewPathEnumerator failed: %v", err)
	}
	return enumerator
}

func TestPathsToRoot_SingleChain(t *testing.T) {
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"tax-RC", "column1"},
		[2]string{"column1", "cc_leaf1"},
	)
	enumerator := mustEnumerator(t, graph)

	paths, err := enumerator.PathsToRoot("cc_leaf1")
	if err != nil {
		t.Fatalf("PathsToRoot failed: %v", err)
	}

	want := [][]string{{"cc_leaf1", "column1", "tax-RC", "root"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Expected paths %v, got %v", want, paths)
	}
}

func TestPathsToRoot_MultipleAncestry(t *testing.T) {
	// cc_leaf1 is presented under two schedules.
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"root", "tax-RI"},
		[2]string{"tax-RC", "cc_leaf1"},
		[2]string{"tax-RI", "cc_leaf1"},
	)
	enumerator := mustEnumerator(t, graph)

	paths, err := enumerator.PathsToRoot("cc_leaf1")
	if err != nil {
		t.Fatalf("PathsToRoot failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d: %v", len(paths), paths)
	}
	for _, path := range paths {
		if path[0] != "cc_leaf1" {
			t.Errorf("Expected path to start at leaf, got %v", path)
		}
		if path[len(path)-1] != "root" {
			t.Errorf("Expected path to end at root, got %v", path)
		}
		seen := make(map[string]bool)
		for _, concept := range path {
			if seen[concept] {
				t.Errorf("Expected simple path, got repeated %q in %v", concept, path)
			}
			seen[concept] = true
		}
	}
}

func TestPathsToRoot_SharedAncestorsAcrossLeaves(t *testing.T) {
	// Both leaves hang off the same grouping; the memo must not corrupt
	// either leaf's result.
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"tax-RC", "grouping"},
		[2]string{"grouping", "cc_leaf1"},
		[2]string{"grouping", "cc_leaf2"},
	)
	enumerator := mustEnumerator(t, graph)

	for _, leaf := range []string{"cc_leaf1", "cc_leaf2"} {
		paths, err := enumerator.PathsToRoot(leaf)
		if err != nil {
			t.Fatalf("PathsToRoot(%s) failed: %v", leaf, err)
		}
		want := [][]string{{leaf, "grouping", "tax-RC", "root"}}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("Expected paths %v for %s, got %v", want, leaf, paths)
		}
	}
}

func TestPathsToRoot_UnreachableLeaf(t *testing.T) {
	// cc_b hangs off a cyclic region that never reaches the root.
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"tax-RC", "cc_a"},
		[2]string{"x", "y"},
		[2]string{"y", "x"},
		[2]string{"y", "cc_b"},
	)
	enumerator := mustEnumerator(t, graph)

	_, err := enumerator.PathsToRoot("cc_b")
	if err == nil {
		t.Fatal("Expected error for unreachable leaf")
	}
	if !errors.Is(err, ErrUnreachableLeaf) {
		t.Errorf("Expected ErrUnreachableLeaf, got: %v", err)
	}
	if !strings.Contains(err.Error(), "cc_b") {
		t.Errorf("Expected error to name the leaf, got: %v", err)
	}
}

func TestEnumerateAll(t *testing.T) {
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"root", "tax-RI"},
		[2]string{"tax-RC", "cc_leaf1"},
		[2]string{"tax-RI", "cc_leaf1"},
		[2]string{"tax-RC", "cc_leaf2"},
	)
	enumerator := mustEnumerator(t, graph)

	leaves := graph.DataLeaves(DefaultProfile())
	paths, err := enumerator.EnumerateAll(leaves)
	if err != nil {
		t.Fatalf("EnumerateAll failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Expected paths for 2 leaves, got %d", len(paths))
	}
	if len(paths["cc_leaf1"]) != 2 {
		t.Errorf("Expected 2 paths for cc_leaf1, got %v", paths["cc_leaf1"])
	}
	if len(paths["cc_leaf2"]) != 1 {
		t.Errorf("Expected 1 path for cc_leaf2, got %v", paths["cc_leaf2"])
	}
}

func TestEnumerateAll_Deterministic(t *testing.T) {
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"root", "tax-RI"},
		[2]string{"tax-RC", "cc_leaf1"},
		[2]string{"tax-RI", "cc_leaf1"},
	)
	leaves := graph.DataLeaves(DefaultProfile())

	first, err := mustEnumerator(t, graph).EnumerateAll(leaves)
	if err != nil {
		t.Fatalf("EnumerateAll failed: %v", err)
	}
	second, err := mustEnumerator(t, graph).EnumerateAll(leaves)
	if err != nil {
		t.Fatalf("EnumerateAll failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results across runs, got %v vs %v", first, second)
	}
}

func TestEnumerateAll_PropagatesUnreachableLeaf(t *testing.T) {
	graph := mustGraph(t,
		[2]string{"root", "tax-RC"},
		[2]string{"tax-RC", "cc_a"},
		[2]string{"x", "y"},
		[2]string{"y", "x"},
		[2]string{"y", "cc_b"},
	)
	enumerator := mustEnumerator(t, graph)

	_, err := enumerator.EnumerateAll(graph.DataLeaves(DefaultProfile()))
	if err == nil {
		t.Fatal("Expected error for unreachable leaf")
	}
	if !errors.Is(err, ErrUnreachableLeaf) {
		t.Errorf("Expected ErrUnreachableLeaf, got: %v", err)
	}
}
