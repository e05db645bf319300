// ABOUTME: Intent classification result types
// ABOUTME: IntentKind and ConfidenceLevel are closed enums produced by the classifier
package models

// IntentKind is the coarse purpose behind an utterance
type IntentKind string

const (
	// IntentRetrieval - a question or search against the user's own data
	IntentRetrieval IntentKind = "retrieval"

	// IntentAssumption - a hypothetical ("suppose", "imagine") not meant to be acted on
	IntentAssumption IntentKind = "assumption"

	// IntentCommand - a directive to schedule, note, call, send...
	IntentCommand IntentKind = "command"

	// IntentConversationOrNoise - idle talk or ambient speech
	IntentConversationOrNoise IntentKind = "conversation_or_noise"
)

// AllIntents lists every IntentKind in classifier priority order
var AllIntents = []IntentKind{
	IntentRetrieval,
	IntentAssumption,
	IntentCommand,
	IntentConversationOrNoise,
}

// IsValid reports whether k is a known intent
func (k IntentKind) IsValid() bool {
	switch k {
	case IntentRetrieval, IntentAssumption, IntentCommand, IntentConversationOrNoise:
		return true
	}
	return false
}

// ConfidenceLevel is how strongly the classifier believes its verdict
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
)

// ClassificationResult is produced fresh per utterance and never mutated
type ClassificationResult struct {
	Intent        IntentKind      `json:"intent"`
	Confidence    ConfidenceLevel `json:"confidence"`
	MatchedReason string          `json:"matched_reason"`
}
