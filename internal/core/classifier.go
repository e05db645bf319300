// ABOUTME: Intent Classifier applies the pattern library in fixed priority order
// ABOUTME: Retrieval beats Hypothetical beats Command; anything else is conversation or noise
package core

import (
	"strings"

	"github.com/harper/mindmate/internal/models"
)

// NoMatchReason is reported when no tier matched
const NoMatchReason = "no specific command or question detected"

// Classifier is a pure, stateless intent classifier. Safe for concurrent use.
type Classifier struct {
	retrieval    []Trigger
	hypothetical []Trigger
	command      []Trigger
}

// NewClassifier snapshots the library's tiers. A nil library means the defaults.
func NewClassifier(lib *PatternLibrary) *Classifier {
	if lib == nil {
		lib = DefaultPatternLibrary()
	}
	return &Classifier{
		retrieval:    append([]Trigger(nil), lib.Retrieval...),
		hypothetical: append([]Trigger(nil), lib.Hypothetical...),
		command:      append([]Trigger(nil), lib.Command...),
	}
}

// Normalize lowercases and trims text the way every tier expects it.
// Leading punctuation goes too, so "— what's on today?" still starts with "what".
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "’", "'")
	text = strings.TrimLeftFunc(text, isWakeSeparator)
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify returns exactly one verdict for text. It never fails.
func (c *Classifier) Classify(text string) models.ClassificationResult {
	normalized := Normalize(text)

	// Layer 1: questions. Checked first so "suppose ..., what to do?" stays a question.
	for _, t := range c.retrieval {
		if t.Matches(normalized) {
			return models.ClassificationResult{
				Intent:        models.IntentRetrieval,
				Confidence:    models.ConfidenceHigh,
				MatchedReason: t.Reason,
			}
		}
	}

	// Layer 2: hypotheticals
	for _, t := range c.hypothetical {
		if t.Matches(normalized) {
			return models.ClassificationResult{
				Intent:        models.IntentAssumption,
				Confidence:    models.ConfidenceHigh,
				MatchedReason: t.Reason,
			}
		}
	}

	// Layer 3: commands. Every trigger is tested; any match is enough.
	var verbs []string
	for _, t := range c.command {
		if t.Matches(normalized) {
			verbs = append(verbs, t.Phrase)
		}
	}
	if len(verbs) > 0 {
		return models.ClassificationResult{
			Intent:        models.IntentCommand,
			Confidence:    models.ConfidenceHigh,
			MatchedReason: "action verb detected: " + strings.Join(verbs, ", "),
		}
	}

	// Layer 4: just conversation
	return models.ClassificationResult{
		Intent:        models.IntentConversationOrNoise,
		Confidence:    models.ConfidenceMedium,
		MatchedReason: NoMatchReason,
	}
}
