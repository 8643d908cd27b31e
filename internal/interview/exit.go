package interview

import (
	"regexp"
	"strings"
)

// DefaultExitKeywords are the utterances that end an interview.
func DefaultExitKeywords() []string {
	return []string{"bye", "exit", "quit", "goodbye", "thank you", "thanks", "end"}
}

// ExitDetector decides whether a user message signals the candidate wants to
// end the session. Keywords match as whole words only, so "goodbyeee" does
// not trigger on "bye" or "goodbye". Multi-word keywords match as literal
// phrases.
type ExitDetector struct {
	patterns []*regexp.Regexp
}

func NewExitDetector(keywords []string) *ExitDetector {
	if len(keywords) == 0 {
		keywords = DefaultExitKeywords()
	}

	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(keyword)+`\b`))
	}

	return &ExitDetector{patterns: patterns}
}

// IsExit reports whether the message contains any exit keyword as a whole
// word. It is a pure function with no side effects.
func (d *ExitDetector) IsExit(message string) bool {
	message = strings.ToLower(strings.TrimSpace(message))
	for _, pattern := range d.patterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}
