// ABOUTME: Wake-word gate decides whether an utterance was addressed to the assistant
// ABOUTME: Strips the wake phrase and any separator that follows it
package core

import (
	"strings"
	"unicode"

	"github.com/harper/mindmate/internal/models"
)

// isWakeSeparator covers whatever follows the wake word: "Mindmate, ...", "mindmate: ...",
// and the dashes or ellipses speech-to-text engines insert after a name.
func isWakeSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// ApplyWakeGate prefix-tests the trimmed utterance against the wake word, case-insensitively.
// An empty wake word falls back to models.DefaultWakeWord. It never fails.
func ApplyWakeGate(text, wakeWord string) models.WakeState {
	wake := strings.ToLower(strings.TrimSpace(wakeWord))
	if wake == "" {
		wake = models.DefaultWakeWord
	}

	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, wake) {
		return models.WakeState{IsAwake: false, ProcessedText: text}
	}

	// Slice the original text when lowercasing kept byte offsets stable,
	// so the remainder keeps the speaker's casing.
	rest := lower[len(wake):]
	if len(lower) == len(trimmed) {
		rest = trimmed[len(wake):]
	}

	return models.WakeState{
		IsAwake:       true,
		ProcessedText: strings.TrimLeftFunc(rest, isWakeSeparator),
	}
}
