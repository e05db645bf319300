// ABOUTME: Secondary text heuristics used by the dispatch policy
// ABOUTME: Time cues gate metadata extraction; email cues make a command sensitive
package core

import (
	"regexp"
	"strings"
	"unicode"
)

// timeCueWords are matched as substrings so "meeting" and "reminder" count
var timeCueWords = []string{"tomorrow", "today", "tonight", "next", "meet", "schedule", "remind"}

var emailCue = regexp.MustCompile(`\b(e-?mails?|mails?|inbox|gmail)\b`)

// HasTimeCue reports whether text looks like it carries a schedulable time or place
func HasTimeCue(text string) bool {
	lower := strings.ToLower(text)
	for _, r := range lower {
		if unicode.IsDigit(r) {
			return true
		}
	}
	for _, w := range timeCueWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// HasEmailCue reports whether text mentions email or mail
func HasEmailCue(text string) bool {
	return emailCue.MatchString(strings.ToLower(text))
}
