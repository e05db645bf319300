// ABOUTME: Dispatch decision types produced by the dispatch policy
// ABOUTME: Defines the six handling branches an utterance can end in
package models

// DispatchAction is the branch the dispatch policy chose
type DispatchAction string

const (
	// ActionIgnored - nothing persisted; a response only when a collaborator failed on an awake request
	ActionIgnored DispatchAction = "ignored"

	// ActionAnsweredFromSchedule - retrieval answered from the stored schedule
	ActionAnsweredFromSchedule DispatchAction = "answered_from_schedule"

	// ActionAnsweredFromModel - reply produced by the generative collaborator
	ActionAnsweredFromModel DispatchAction = "answered_from_model"

	// ActionSavedSilently - event captured from ambient speech, no spoken reply
	ActionSavedSilently DispatchAction = "saved_silently"

	// ActionSavedWithAck - event captured and confirmed to the user
	ActionSavedWithAck DispatchAction = "saved_with_ack"

	// ActionBlocked - sensitive action requested without the wake word
	ActionBlocked DispatchAction = "blocked"
)

// IsValid reports whether a is a known action
func (a DispatchAction) IsValid() bool {
	switch a {
	case ActionIgnored, ActionAnsweredFromSchedule, ActionAnsweredFromModel,
		ActionSavedSilently, ActionSavedWithAck, ActionBlocked:
		return true
	}
	return false
}

// DispatchDecision is the single outcome for one utterance.
// A nil ResponseText means the assistant stays silent.
type DispatchDecision struct {
	Action        DispatchAction       `json:"action"`
	ResponseText  *string              `json:"response_text"`
	ShouldPersist bool                 `json:"should_persist"`
	SavedEvent    *ExtractedEvent      `json:"saved_event,omitempty"`
	Intent        ClassificationResult `json:"classification"`
	Awake         bool                 `json:"awake"`
}

// Response returns the response text or "" when silent
func (d DispatchDecision) Response() string {
	if d.ResponseText == nil {
		return ""
	}
	return *d.ResponseText
}

// IsSilent reports whether the decision carries no spoken reply
func (d DispatchDecision) IsSilent() bool {
	return d.ResponseText == nil
}

// Say wraps a reply string for DispatchDecision.ResponseText
func Say(text string) *string {
	return &text
}
