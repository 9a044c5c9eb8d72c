package taxonomy

import (
	"sort"
	"strconv"
	"strings"
)

// Assembler reassembles enumerated leaf→root paths into per-schedule column
// and line structures with labels attached.
type Assembler struct {
	profile *Profile
	labels  *LabelResolver
}

// AssembleStats reports what assembly kept and dropped.
type AssembleStats struct {
	Schedules int

	// Discarded counters surface alternate column/line structures dropped by
	// first-match-wins grouping; a non-zero count means the taxonomy
	// presents a schedule with more than one breakdown of the same shape.
	DiscardedColumnPaths int
	DiscardedLinePaths   int
}

// pathShape classifies a path by its marker substring.
type pathShape int

const (
	shapeNone pathShape = iota
	shapeColumn
	shapeLine
)

// NewAssembler creates an assembler using the profile's markers and the
// resolved labels.
func NewAssembler(profile *Profile, labels *LabelResolver) *Assembler {
	return &Assembler{profile: profile, labels: labels}
}

// Assemble decodes each leaf's paths into schedule records. For every path
// the root is dropped and the adjacent concept identifies the schedule;
// within a schedule group the first column-shaped and first line-shaped path
// win, later paths of the same shape are counted and discarded. Paths
// matching neither marker are intermediate structural noise and are skipped.
// Assembly is deterministic for a fixed input: schedules are visited in
// sorted order and paths in enumeration order.
func (a *Assembler) Assemble(pathsByLeaf map[string][][]string) (map[string]ScheduleRecord, AssembleStats) {
	data := make(map[string]ScheduleRecord, len(pathsByLeaf))
	stats := AssembleStats{}
	scheduleCodes := make(map[string]bool)

	leaves := make([]string, 0, len(pathsByLeaf))
	for leaf := range pathsByLeaf {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)

	for _, leaf := range leaves {
		// Strip the root from every path and group by the schedule concept,
		// the node that was adjacent to it.
		groups := make(map[string][][]string)
		for _, path := range pathsByLeaf[leaf] {
			if len(path) < 2 {
				continue
			}
			trimmed := path[:len(path)-1]
			schedule := trimmed[len(trimmed)-1]
			groups[schedule] = append(groups[schedule], trimmed)
		}
		if len(groups) == 0 {
			continue
		}

		schedules := make([]string, 0, len(groups))
		for schedule := range groups {
			schedules = append(schedules, schedule)
		}
		sort.Strings(schedules)

		record := make(ScheduleRecord, len(schedules))
		for _, schedule := range schedules {
			code := a.profile.ScheduleCode(schedule)
			entry := &ScheduleEntry{}

			for _, trimmed := range groups[schedule] {
				switch a.classify(trimmed) {
				case shapeColumn:
					if entry.ColumnIDs != nil {
						stats.DiscardedColumnPaths++
						continue
					}
					entry.ColumnIDs = a.decodeColumn(trimmed)
				case shapeLine:
					if entry.LineIDs != nil {
						stats.DiscardedLinePaths++
						continue
					}
					entry.LineIDs = a.decodeLine(trimmed)
				}
			}

			record[code] = entry
			scheduleCodes[code] = true
		}
		data[leaf] = record
	}

	stats.Schedules = len(scheduleCodes)
	return data, stats
}

// classify inspects the path's concept identifiers in leaf-to-schedule order
// and returns the shape of the first marker found.
func (a *Assembler) classify(trimmed []string) pathShape {
	for _, concept := range trimmed {
		if strings.Contains(concept, a.profile.ColumnMarker) {
			return shapeColumn
		}
		if strings.Contains(concept, a.profile.LineMarker) {
			return shapeLine
		}
	}
	return shapeNone
}

// decodeColumn assigns positions along a column-shaped path, read
// root-to-leaf with the leaf itself excluded: schedule, then column-set,
// then column, then sequentially numbered extra grouping levels.
func (a *Assembler) decodeColumn(trimmed []string) map[string]ConceptRef {
	levels := reverseWithoutLeaf(trimmed)
	if len(levels) == 0 {
		return nil
	}

	ids := map[string]ConceptRef{
		"schedule": a.labels.LookupRef(levels[0]),
	}
	if len(levels) > 1 {
		ids["colset"] = a.labels.LookupRef(levels[1])
	}
	if len(levels) > 2 {
		ids["column"] = a.labels.LookupRef(levels[2])
	}
	if len(levels) > 3 {
		for i, concept := range levels[3:] {
			ids[extraKey(i)] = a.labels.LookupRef(concept)
		}
	}
	return ids
}

// decodeLine assigns positions along a line-shaped path: schedule, then
// sequentially numbered extra levels.
func (a *Assembler) decodeLine(trimmed []string) map[string]ConceptRef {
	levels := reverseWithoutLeaf(trimmed)
	if len(levels) == 0 {
		return nil
	}

	ids := map[string]ConceptRef{
		"schedule": a.labels.LookupRef(levels[0]),
	}
	for i, concept := range levels[1:] {
		ids[extraKey(i)] = a.labels.LookupRef(concept)
	}
	return ids
}

// reverseWithoutLeaf returns the path in schedule-to-leaf order with the
// leaf (first element) dropped. The input slice is shared with the path
// memo and is never mutated.
func reverseWithoutLeaf(trimmed []string) []string {
	if len(trimmed) < 2 {
		return nil
	}
	levels := make([]string, 0, len(trimmed)-1)
	for i := len(trimmed) - 1; i >= 1; i-- {
		levels = append(levels, trimmed[i])
	}
	return levels
}

// extraKey names the Nth extra grouping level. The same key family is used
// for both column and line paths, matching the published output format.
func extraKey(i int) string {
	return "extra_col_" + strconv.Itoa(i)
}
