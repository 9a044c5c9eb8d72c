// Package archive loads FFIEC CDR taxonomy ZIP files and extracts the
// decoded linkbase records and report metadata the resolver consumes.
package archive

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/coolbeans/cdrtax/pkg/linkbase"
)

// DefaultRolePrefix is the role/URI prefix used by CDR taxonomy role
// references: call-report-<form>-<yyyy>-<mm>-<dd>.
const DefaultRolePrefix = "call-report"

// TaxonomyFiles names the four linkbase entries inside a CDR taxonomy ZIP.
// All four must be present for the ZIP to be considered a CDR taxonomy.
type TaxonomyFiles struct {
	Captions     string
	Definitions  string
	Presentation string
	References   string
}

// Classify locates the caption, definition, presentation, and reference
// linkbase entries among the ZIP file names. CDR archives mark them with
// -cap/-def/-pres/-ref name segments.
func Classify(names []string) (*TaxonomyFiles, error) {
	files := &TaxonomyFiles{}

	markers := []struct {
		marker string
		target *string
	}{
		{"-cap", &files.Captions},
		{"-def", &files.Definitions},
		{"-pres", &files.Presentation},
		{"-ref", &files.References},
	}

	for _, entry := range markers {
		for _, name := range names {
			if strings.Contains(name, entry.marker) {
				*entry.target = name
				break
			}
		}
		if *entry.target == "" {
			return nil, fmt.Errorf("not a CDR taxonomy archive: no %s linkbase entry found", entry.marker)
		}
	}

	return files, nil
}

// Load opens a taxonomy ZIP and decodes it into a Snapshot. The definition
// linkbase is required to be present but is not decoded; the resolver only
// consumes presentation, caption, and reference records.
func Load(path string) (*linkbase.Snapshot, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy archive %s: %w", path, err)
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}

	files, err := Classify(names)
	if err != nil {
		return nil, err
	}

	captions, err := parseEntry(&reader.Reader, files.Captions)
	if err != nil {
		return nil, err
	}
	presentation, err := parseEntry(&reader.Reader, files.Presentation)
	if err != nil {
		return nil, err
	}
	references, err := parseEntry(&reader.Reader, files.References)
	if err != nil {
		return nil, err
	}

	if len(captions.RoleRefs) == 0 {
		return nil, fmt.Errorf("caption linkbase %s carries no roleRef to identify the report", files.Captions)
	}

	form, quarter, err := ParseReportID(captions.RoleRefs[0].Href, DefaultRolePrefix)
	if err != nil {
		return nil, err
	}

	return &linkbase.Snapshot{
		FormNumber:       form,
		Quarter:          quarter,
		PresentationArcs: presentation.PresentationArcs(),
		LabelArcs:        captions.LabelArcs(),
		Labels:           captions.LabelResources(),
		ReferenceArcs:    references.ReferenceArcs(),
		References:       references.ReferenceResources(),
	}, nil
}

// parseEntry opens a single ZIP entry and decodes it as a linkbase document.
func parseEntry(reader *zip.Reader, name string) (*linkbase.Document, error) {
	file, err := reader.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive entry %s: %w", name, err)
	}
	defer file.Close()

	document, err := linkbase.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return document, nil
}

// ParseReportID extracts the form number and reporting quarter from a roleRef
// href following the <prefix>-<form>-<yyyy>-<mm>-<dd> convention, e.g.
// "call-report-031-2024-03-31.xsd#...". The quarter is the three date
// segments rejoined with dashes.
func ParseReportID(href, rolePrefix string) (form, quarter string, err error) {
	base := href
	if idx := strings.Index(base, "#"); idx >= 0 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}

	base = strings.TrimPrefix(base, rolePrefix)
	base = strings.Trim(base, "-")

	segments := strings.Split(base, "-")
	if len(segments) < 4 {
		return "", "", fmt.Errorf("unrecognized report role href %q: want %s-<form>-<yyyy>-<mm>-<dd>", href, rolePrefix)
	}

	return segments[0], strings.Join(segments[1:4], "-"), nil
}
