package interview

import "testing"

const sampleAnalysis = `**EXTRACTED INFORMATION:**
- Full Name: Jane Doe
- Email: Not found
- Phone: +1 555 0100
- Years of Experience: 7
- Current/Recent Position: Senior Backend Engineer
- Location: n/a
- Tech Stack/Skills: Go, PostgreSQL, Kubernetes

**CANDIDATE SUMMARY:**
Jane is a seasoned backend engineer.`

func newTestExtractor() *Extractor {
	return NewExtractor(nil, nil)
}

func TestExtractReturnsTrimmedValue(t *testing.T) {
	e := newTestExtractor()

	value, ok := e.Extract(sampleAnalysis, "Full Name")
	if !ok {
		t.Fatalf("expected a value for Full Name")
	}
	if value != "Jane Doe" {
		t.Fatalf("unexpected value: %q", value)
	}
}

func TestExtractLabelMatchIsCaseInsensitive(t *testing.T) {
	e := newTestExtractor()

	value, ok := e.Extract("full name: Jane Doe", "Full Name")
	if !ok || value != "Jane Doe" {
		t.Fatalf("expected case-insensitive label match, got %q, %v", value, ok)
	}
}

func TestExtractSentinelsAreAbsentRegardlessOfCase(t *testing.T) {
	e := newTestExtractor()

	for _, text := range []string{
		"Email: Not found",
		"Email: NOT FOUND",
		"Email: n/a",
		"Email: N/A",
		"Email: -",
		"Email:   ",
	} {
		if value, ok := e.Extract(text, "Email"); ok {
			t.Fatalf("expected absence for %q, got %q", text, value)
		}
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	e := newTestExtractor()

	text := "Location: Berlin\nLocation: Munich"
	value, ok := e.Extract(text, "Location")
	if !ok || value != "Berlin" {
		t.Fatalf("expected first match to win, got %q, %v", value, ok)
	}
}

func TestExtractMissingLabelIsNotAnError(t *testing.T) {
	e := newTestExtractor()

	for _, text := range []string{"", "no labels here", "Full Name", "weird: : :"} {
		if value, ok := e.Extract(text, "Phone"); ok {
			t.Fatalf("expected absence for %q, got %q", text, value)
		}
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	e := newTestExtractor()

	first, _ := e.Extract(sampleAnalysis, "Tech Stack/Skills")
	second, _ := e.Extract(sampleAnalysis, "Tech Stack/Skills")
	if first != second {
		t.Fatalf("identical input must yield identical output: %q vs %q", first, second)
	}
}

func TestExtractAllPopulatesOnlyRecognizedFields(t *testing.T) {
	e := newTestExtractor()

	fields := e.ExtractAll(sampleAnalysis)

	if fields[FieldFullName] != "Jane Doe" {
		t.Fatalf("unexpected full name: %q", fields[FieldFullName])
	}
	if fields[FieldDesiredPosition] != "Senior Backend Engineer" {
		t.Fatalf("unexpected position: %q", fields[FieldDesiredPosition])
	}
	if _, ok := fields[FieldEmail]; ok {
		t.Fatalf("sentinel email must not be extracted")
	}
	if _, ok := fields[FieldLocation]; ok {
		t.Fatalf("sentinel location must not be extracted")
	}
}

func TestExtractWithCustomSentinels(t *testing.T) {
	e := NewExtractor(nil, NewSentinels([]string{"unknown"}))

	if value, ok := e.Extract("Phone: unknown", "Phone"); ok {
		t.Fatalf("expected custom sentinel to mean absence, got %q", value)
	}

	// The built-in defaults are replaced, not merged.
	value, ok := e.Extract("Phone: not found", "Phone")
	if !ok || value != "not found" {
		t.Fatalf("expected literal value with custom sentinels, got %q, %v", value, ok)
	}
}
