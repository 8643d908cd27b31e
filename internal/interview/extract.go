package interview

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultSentinels are the values a completion service emits when a field
// could not be determined. They must never overwrite real data.
func DefaultSentinels() []string {
	return []string{"not found", "n/a", "", "-"}
}

// DefaultLabels maps the labels of the resume analysis format to the profile
// fields they populate.
func DefaultLabels() []Label {
	return []Label{
		{Name: "Full Name", Field: FieldFullName},
		{Name: "Email", Field: FieldEmail},
		{Name: "Phone", Field: FieldPhone},
		{Name: "Years of Experience", Field: FieldYearsOfExperience},
		{Name: "Current/Recent Position", Field: FieldDesiredPosition},
		{Name: "Location", Field: FieldLocation},
		{Name: "Tech Stack/Skills", Field: FieldTechStack},
	}
}

// Label binds a textual label, as it appears in analysis output, to a
// candidate profile field.
type Label struct {
	Name  string
	Field string
}

// Sentinels is the set of absence markers compared case-insensitively.
type Sentinels struct {
	values map[string]struct{}
}

func NewSentinels(values []string) *Sentinels {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return &Sentinels{values: set}
}

// Absent reports whether the value means "field not determinable". The empty
// string is always absent.
func (s *Sentinels) Absent(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return true
	}
	if s == nil {
		return false
	}
	_, ok := s.values[value]
	return ok
}

// Extractor mines "<label>: <value>" lines out of free-form analysis text.
// It is best-effort by design: a missing label is a normal outcome, not an
// error, and identical input always yields identical output.
type Extractor struct {
	labels    []Label
	sentinels *Sentinels

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func NewExtractor(labels []Label, sentinels *Sentinels) *Extractor {
	if len(labels) == 0 {
		labels = DefaultLabels()
	}
	if sentinels == nil {
		sentinels = NewSentinels(DefaultSentinels())
	}
	return &Extractor{
		labels:    labels,
		sentinels: sentinels,
		patterns:  make(map[string]*regexp.Regexp, len(labels)),
	}
}

// Extract returns the trimmed value of the first "<label>: <value>" line in
// text. The label match is case-insensitive. The boolean is false when the
// label is missing or the value is an absence sentinel.
func (e *Extractor) Extract(text, label string) (string, bool) {
	match := e.pattern(label).FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	value := strings.TrimSpace(match[1])
	if e.sentinels.Absent(value) {
		return "", false
	}

	return value, true
}

// ExtractAll runs Extract for every configured label and returns the
// successfully extracted values keyed by profile field.
func (e *Extractor) ExtractAll(text string) map[string]string {
	fields := make(map[string]string, len(e.labels))
	for _, label := range e.labels {
		if value, ok := e.Extract(text, label.Name); ok {
			fields[label.Field] = value
		}
	}
	return fields
}

func (e *Extractor) pattern(label string) *regexp.Regexp {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.patterns[label]; ok {
		return p
	}

	p := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:[ \t]*([^\n]+)`)
	e.patterns[label] = p
	return p
}
