// ABOUTME: WakeState is the output of the wake-word gate
// ABOUTME: Says whether an utterance was addressed to the assistant
package models

// DefaultWakeWord is used when a user has not configured one
const DefaultWakeWord = "mindmate"

// WakeState is derived from one utterance and one wake phrase
type WakeState struct {
	IsAwake       bool   `json:"is_awake"`
	ProcessedText string `json:"processed_text"`
}
