package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile carries the matching rules used to interpret one taxonomy family.
// The defaults match the FFIEC CDR call-report taxonomies; other reporting
// taxonomies can adjust the markers without code changes.
type Profile struct {
	// Name identifies the profile in diagnostics.
	Name string `yaml:"name"`

	// DataMarkers are the identifier substrings that mark reportable data
	// concepts. Leaf candidates matching none of them are purely structural
	// and are excluded from path enumeration.
	DataMarkers []string `yaml:"data_markers"`

	// ColumnMarker classifies a path as column-shaped when any of its
	// concept identifiers contains it.
	ColumnMarker string `yaml:"column_marker"`

	// LineMarker classifies a path as line-shaped.
	LineMarker string `yaml:"line_marker"`

	// ScheduleSeparator splits schedule concept identifiers; the trailing
	// segment becomes the schedule short-code in the output mapping.
	ScheduleSeparator string `yaml:"schedule_separator"`
}

// DefaultProfile returns the matching rules for FFIEC CDR call-report
// taxonomies.
func DefaultProfile() *Profile {
	return &Profile{
		Name:              "ffiec-cdr",
		DataMarkers:       []string{"cc_", "uc_"},
		ColumnMarker:      "column",
		LineMarker:        "line",
		ScheduleSeparator: "-",
	}
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	if len(p.DataMarkers) == 0 {
		return fmt.Errorf("profile %q has no data markers", p.Name)
	}
	if p.ColumnMarker == "" {
		return fmt.Errorf("profile %q has no column marker", p.Name)
	}
	if p.LineMarker == "" {
		return fmt.Errorf("profile %q has no line marker", p.Name)
	}
	if p.ScheduleSeparator == "" {
		return fmt.Errorf("profile %q has no schedule separator", p.Name)
	}
	return nil
}

// IsDataConcept reports whether the identifier names a reportable data
// concept rather than a structural grouping concept.
func (p *Profile) IsDataConcept(concept string) bool {
	for _, marker := range p.DataMarkers {
		if strings.Contains(concept, marker) {
			return true
		}
	}
	return false
}

// ScheduleCode derives the output key for a schedule concept: the trailing
// segment after the final separator, which stays stable across
// taxonomy-version prefix changes.
func (p *Profile) ScheduleCode(concept string) string {
	if idx := strings.LastIndex(concept, p.ScheduleSeparator); idx >= 0 {
		return concept[idx+len(p.ScheduleSeparator):]
	}
	return concept
}

// ToYAML serializes the profile.
func (p *Profile) ToYAML() ([]byte, error) {
	return yaml.Marshal(p)
}

// LoadProfileFromFile reads a conversion profile from a YAML file.
func LoadProfileFromFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// SaveProfileToFile writes a conversion profile to a YAML file.
func SaveProfileToFile(profile *Profile, path string) error {
	data, err := profile.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}
