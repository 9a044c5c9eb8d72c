// Package taxonomy resolves a call-report presentation hierarchy into a
// schedule/column/line mapping for every reportable data concept.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConceptRef is one structural level of an assembled path: a concept
// identifier and its resolved display label. Label is nil when the concept
// has no caption in the taxonomy; that is expected partial data, not an
// error.
type ConceptRef struct {
	Code  string  `json:"code"`
	Label *string `json:"label"`
}

// Reference carries the paper-form citation attached to a schedule entry.
type Reference struct {
	Line   string `json:"line"`
	Column string `json:"column"`
}

// ScheduleEntry is the assembled structure for one leaf concept within one
// schedule: at most one column breakdown, at most one line breakdown, and an
// optional paper-form citation. The column_ids and line_ids maps are keyed
// schedule/colset/column plus extra_col_N for deeper grouping levels.
type ScheduleEntry struct {
	ColumnIDs map[string]ConceptRef `json:"column_ids,omitempty"`
	LineIDs   map[string]ConceptRef `json:"line_ids,omitempty"`
	Reference *Reference            `json:"reference,omitempty"`
}

// ScheduleRecord maps schedule short-codes to the assembled entry for one
// leaf concept.
type ScheduleRecord map[string]*ScheduleEntry

// Taxonomy is the final resolved document: report identity plus the mapping
// from each leaf data concept to its schedule records. It is immutable once
// assembly and reference merging complete.
type Taxonomy struct {
	FormNumber string                    `json:"form_number"`
	Quarter    string                    `json:"quarter"`
	Data       map[string]ScheduleRecord `json:"data"`
}

// ToJSON serializes the taxonomy document.
func (t *Taxonomy) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// ResolveStats collects per-stage statistics from one resolution run.
// DiscardedColumnPaths and DiscardedLinePaths count alternate structures
// dropped by first-match-wins assembly so analysts can detect information
// loss; LabelConflicts counts duplicate label arcs resolved last-write-wins.
type ResolveStats struct {
	Arcs           int `json:"arcs"`
	Concepts       int `json:"concepts"`
	LeafCandidates int `json:"leaf_candidates"`
	DataLeaves     int `json:"data_leaves"`
	Paths          int `json:"paths"`
	Labels         int `json:"labels"`
	LabelConflicts int `json:"label_conflicts"`

	Schedules            int `json:"schedules"`
	DiscardedColumnPaths int `json:"discarded_column_paths"`
	DiscardedLinePaths   int `json:"discarded_line_paths"`

	ReferenceRecords    int `json:"reference_records"`
	MergedReferences    int `json:"merged_references"`
	UnmatchedReferences int `json:"unmatched_references"`
}

// String returns a formatted summary of the statistics.
func (s *ResolveStats) String() string {
	var sb strings.Builder

	sb.WriteString("Resolution Statistics:\n")
	sb.WriteString(fmt.Sprintf("  Presentation arcs:   %d\n", s.Arcs))
	sb.WriteString(fmt.Sprintf("  Concepts:            %d\n", s.Concepts))
	sb.WriteString(fmt.Sprintf("  Leaf candidates:     %d\n", s.LeafCandidates))
	sb.WriteString(fmt.Sprintf("  Data leaves:         %d\n", s.DataLeaves))
	sb.WriteString(fmt.Sprintf("  Paths enumerated:    %d\n", s.Paths))
	sb.WriteString(fmt.Sprintf("  Labels resolved:     %d\n", s.Labels))
	sb.WriteString(fmt.Sprintf("  Label conflicts:     %d\n", s.LabelConflicts))
	sb.WriteString(fmt.Sprintf("  Schedules:           %d\n", s.Schedules))
	sb.WriteString(fmt.Sprintf("  Discarded columns:   %d\n", s.DiscardedColumnPaths))
	sb.WriteString(fmt.Sprintf("  Discarded lines:     %d\n", s.DiscardedLinePaths))
	sb.WriteString(fmt.Sprintf("  Reference records:   %d\n", s.ReferenceRecords))
	sb.WriteString(fmt.Sprintf("  References merged:   %d\n", s.MergedReferences))
	sb.WriteString(fmt.Sprintf("  References dropped:  %d\n", s.UnmatchedReferences))

	return sb.String()
}
