package taxonomy

import (
	"fmt"
	"strings"

	"github.com/coolbeans/cdrtax/pkg/linkbase"
)

// MergeStats reports the outcome of reference merging.
type MergeStats struct {
	Records   int
	Merged    int
	Unmatched int
}

// referenceSchema holds the citation field names located for this snapshot's
// schema revision.
type referenceSchema struct {
	scheduleField string
	lineField     string
	columnField   string
}

// resolveReferenceSchema locates the schedule/line/column citation fields by
// case-insensitive substring match on the first record's field names. The
// literal names vary across CDR schema revisions, but each always contains
// its role as a substring.
func resolveReferenceSchema(record linkbase.ReferenceResource) (*referenceSchema, error) {
	find := func(substring string) (string, error) {
		for name := range record.Fields {
			if strings.Contains(strings.ToLower(name), substring) {
				return name, nil
			}
		}
		return "", fmt.Errorf("%w: reference record %q has no field matching %q",
			ErrUnresolvableReferenceSchema, record.Label, substring)
	}

	scheduleField, err := find("schedule")
	if err != nil {
		return nil, err
	}
	lineField, err := find("line")
	if err != nil {
		return nil, err
	}
	columnField, err := find("column")
	if err != nil {
		return nil, err
	}

	return &referenceSchema{
		scheduleField: scheduleField,
		lineField:     lineField,
		columnField:   columnField,
	}, nil
}

// MergeReferences attaches paper-form line/column citations to the assembled
// schedule records. Each record's label key is normalized to its first two
// underscore-delimited tokens to recover the leaf concept; records whose
// normalized key or schedule citation has no assembled entry are enrichment
// with nothing to enrich and are silently dropped. The merger never creates
// entries. Zero records is a no-op.
func MergeReferences(data map[string]ScheduleRecord, references []linkbase.ReferenceResource) (MergeStats, error) {
	stats := MergeStats{Records: len(references)}
	if len(references) == 0 {
		return stats, nil
	}

	schema, err := resolveReferenceSchema(references[0])
	if err != nil {
		return stats, err
	}

	for _, record := range references {
		leaf := normalizeLabelKey(record.Label)

		schedules, ok := data[leaf]
		if !ok {
			stats.Unmatched++
			continue
		}
		entry, ok := schedules[record.Fields[schema.scheduleField]]
		if !ok {
			stats.Unmatched++
			continue
		}

		entry.Reference = &Reference{
			Line:   record.Fields[schema.lineField],
			Column: record.Fields[schema.columnField],
		}
		stats.Merged++
	}

	return stats, nil
}

// normalizeLabelKey derives a leaf concept key from a reference label: the
// first two underscore-delimited tokens (e.g. "cc_RCON2170_suffix" →
// "cc_RCON2170"). Labels with fewer tokens pass through unchanged.
func normalizeLabelKey(label string) string {
	tokens := strings.SplitN(label, "_", 3)
	if len(tokens) < 2 {
		return label
	}
	return tokens[0] + "_" + tokens[1]
}
