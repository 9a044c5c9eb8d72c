package taxonomy

import "errors"

// Fatal resolution errors. Each is fatal to the current snapshot: the input
// is a static taxonomy, so retrying cannot change the outcome. Call sites
// wrap these with the offending concept or record key so malformed input is
// diagnosable; match with errors.Is.
var (
	// ErrMalformedHierarchy reports empty or structurally invalid arc input.
	ErrMalformedHierarchy = errors.New("malformed hierarchy")

	// ErrAmbiguousRoot reports zero or multiple root candidates. The resolver
	// requires the hierarchy to have exactly one root.
	ErrAmbiguousRoot = errors.New("ambiguous root")

	// ErrUnreachableLeaf reports a recognized data concept with no path to
	// the root; every data concept must be presentable somewhere in the
	// schedule hierarchy.
	ErrUnreachableLeaf = errors.New("unreachable leaf")

	// ErrUnresolvableReferenceSchema reports reference records that expose no
	// field matching the required schedule/line/column name substrings.
	ErrUnresolvableReferenceSchema = errors.New("unresolvable reference schema")
)
