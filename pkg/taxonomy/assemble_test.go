package taxonomy

import (
	"reflect"
	"testing"

	"github.com/coolbeans/cdrtax/pkg/linkbase"
)

func testLabels() *LabelResolver {
	return NewLabelResolver(
		[]linkbase.LabelArc{
			{From: "tax-RC", To: "lbl_rc"},
			{From: "column1", To: "lbl_col1"},
		},
		[]linkbase.LabelResource{
			{Key: "lbl_rc", Text: "Schedule RC"},
			{Key: "lbl_col1", Text: "Total Assets"},
		},
	)
}

func TestAssemble_ColumnPath(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, stats := assembler.Assemble(map[string][][]string{
		"cc_leaf1": {{"cc_leaf1", "column1", "columnset1", "tax-RC", "root"}},
	})

	record, ok := data["cc_leaf1"]
	if !ok {
		t.Fatal("Expected record for cc_leaf1")
	}
	entry, ok := record["RC"]
	if !ok {
		t.Fatalf("Expected schedule short-code RC, got records for %v", keysOf(record))
	}

	schedRC := "Schedule RC"
	totalAssets := "Total Assets"
	wantColumns := map[string]ConceptRef{
		"schedule": {Code: "tax-RC", Label: &schedRC},
		"colset":   {Code: "columnset1"},
		"column":   {Code: "column1", Label: &totalAssets},
	}
	if !reflect.DeepEqual(entry.ColumnIDs, wantColumns) {
		t.Errorf("Expected column ids %v, got %v", wantColumns, entry.ColumnIDs)
	}
	if entry.LineIDs != nil {
		t.Errorf("Expected no line ids, got %v", entry.LineIDs)
	}
	if stats.Schedules != 1 {
		t.Errorf("Expected 1 schedule, got %d", stats.Schedules)
	}
}

func TestAssemble_LinePath(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, _ := assembler.Assemble(map[string][][]string{
		"cc_leaf2": {{"cc_leaf2", "line_grp", "tax-RI", "root"}},
	})

	entry := data["cc_leaf2"]["RI"]
	if entry == nil {
		t.Fatal("Expected entry for schedule RI")
	}

	wantLines := map[string]ConceptRef{
		"schedule":    {Code: "tax-RI"},
		"extra_col_0": {Code: "line_grp"},
	}
	if !reflect.DeepEqual(entry.LineIDs, wantLines) {
		t.Errorf("Expected line ids %v, got %v", wantLines, entry.LineIDs)
	}
	if entry.ColumnIDs != nil {
		t.Errorf("Expected no column ids, got %v", entry.ColumnIDs)
	}
}

func TestAssemble_ExtraColumnLevels(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, _ := assembler.Assemble(map[string][][]string{
		"cc_leaf1": {{"cc_leaf1", "subgroup", "column1", "columnset1", "tax-RC", "root"}},
	})

	entry := data["cc_leaf1"]["RC"]
	if entry == nil {
		t.Fatal("Expected entry for schedule RC")
	}
	extra, ok := entry.ColumnIDs["extra_col_0"]
	if !ok || extra.Code != "subgroup" {
		t.Errorf("Expected extra_col_0 = subgroup, got %v", entry.ColumnIDs)
	}
}

func TestAssemble_FirstMatchWins(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, stats := assembler.Assemble(map[string][][]string{
		"cc_leaf1": {
			{"cc_leaf1", "column1", "colset1", "tax-RC", "root"},
			{"cc_leaf1", "column2", "colset2", "tax-RC", "root"},
		},
	})

	entry := data["cc_leaf1"]["RC"]
	if entry.ColumnIDs["column"].Code != "column1" {
		t.Errorf("Expected first column path to win, got %v", entry.ColumnIDs)
	}
	if stats.DiscardedColumnPaths != 1 {
		t.Errorf("Expected 1 discarded column path, got %d", stats.DiscardedColumnPaths)
	}
}

func TestAssemble_ColumnDirectlyUnderSchedule(t *testing.T) {
	// A column concept nested directly under the schedule decodes to just
	// schedule and colset positions; deeper positions are simply absent.
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, _ := assembler.Assemble(map[string][][]string{
		"cc_leaf1": {{"cc_leaf1", "column1", "tax-RC", "root"}},
	})

	entry := data["cc_leaf1"]["RC"]
	if entry == nil {
		t.Fatal("Expected entry for schedule RC")
	}
	wantColumns := map[string]ConceptRef{
		"schedule": {Code: "tax-RC", Label: strPtr("Schedule RC")},
		"colset":   {Code: "column1", Label: strPtr("Total Assets")},
	}
	if !reflect.DeepEqual(entry.ColumnIDs, wantColumns) {
		t.Errorf("Expected column ids %v, got %v", wantColumns, entry.ColumnIDs)
	}
}

func strPtr(s string) *string {
	return &s
}

func TestAssemble_UnmarkedPathYieldsEmptyEntry(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, _ := assembler.Assemble(map[string][][]string{
		"cc_leaf3": {{"cc_leaf3", "grouping", "tax-RC", "root"}},
	})

	entry, ok := data["cc_leaf3"]["RC"]
	if !ok {
		t.Fatal("Expected schedule entry even when no path matched a shape")
	}
	if entry.ColumnIDs != nil || entry.LineIDs != nil {
		t.Errorf("Expected empty entry, got %+v", entry)
	}
}

func TestAssemble_ShortPathsAreSkipped(t *testing.T) {
	assembler := NewAssembler(DefaultProfile(), testLabels())

	data, _ := assembler.Assemble(map[string][][]string{
		"root": {{"root"}},
	})

	if len(data) != 0 {
		t.Errorf("Expected no records for a root-only path, got %v", data)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	paths := map[string][][]string{
		"cc_leaf1": {
			{"cc_leaf1", "column1", "columnset1", "tax-RC", "root"},
			{"cc_leaf1", "line_grp", "tax-RI", "root"},
		},
		"cc_leaf2": {{"cc_leaf2", "line_grp", "tax-RI", "root"}},
	}

	first, firstStats := NewAssembler(DefaultProfile(), testLabels()).Assemble(paths)
	second, secondStats := NewAssembler(DefaultProfile(), testLabels()).Assemble(paths)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical assembly across runs")
	}
	if firstStats != secondStats {
		t.Errorf("Expected identical stats across runs, got %+v vs %+v", firstStats, secondStats)
	}
}

func keysOf(record ScheduleRecord) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	return keys
}
