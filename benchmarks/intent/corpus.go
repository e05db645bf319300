// ABOUTME: Labeled utterance corpus for the intent and dispatch benchmark
// ABOUTME: Each case names the expected intent, wake state and dispatch action

package intent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/mindmate/internal/models"
)

// Case is one labeled utterance
type Case struct {
	ID       string `yaml:"id" json:"id"`
	Text     string `yaml:"text" json:"text"`
	WakeWord string `yaml:"wake_word,omitempty" json:"wake_word,omitempty"` // stored for the case's user before it runs

	Intent models.IntentKind     `yaml:"intent" json:"intent"`
	Awake  bool                  `yaml:"awake" json:"awake"`
	Action models.DispatchAction `yaml:"action,omitempty" json:"action,omitempty"` // empty skips the dispatch check
}

// Corpus is a named set of cases
type Corpus struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Validate checks every case carries a known intent and action
func (c Corpus) Validate() error {
	if len(c.Cases) == 0 {
		return fmt.Errorf("corpus %q has no cases", c.Name)
	}
	seen := make(map[string]bool, len(c.Cases))
	for i, tc := range c.Cases {
		if tc.ID == "" {
			return fmt.Errorf("case %d: id is required", i)
		}
		if seen[tc.ID] {
			return fmt.Errorf("case %s: duplicate id", tc.ID)
		}
		seen[tc.ID] = true
		if strings.TrimSpace(tc.Text) == "" {
			return fmt.Errorf("case %s: text is required", tc.ID)
		}
		if !tc.Intent.IsValid() {
			return fmt.Errorf("case %s: unknown intent %q", tc.ID, tc.Intent)
		}
		if tc.Action != "" && !tc.Action.IsValid() {
			return fmt.Errorf("case %s: unknown action %q", tc.ID, tc.Action)
		}
	}
	return nil
}

// LoadCorpus reads a YAML corpus file
func LoadCorpus(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("reading corpus: %w", err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Corpus{}, fmt.Errorf("parsing corpus: %w", err)
	}
	if c.Name == "" {
		c.Name = path
	}
	if err := c.Validate(); err != nil {
		return Corpus{}, err
	}
	return c, nil
}

// DefaultCorpus returns the built-in cases, labeled against the default trigger
// tables, the "mindmate" wake word and the dismiss policy
func DefaultCorpus() Corpus {
	return Corpus{
		Name: "default",
		Cases: []Case{
			// Questions
			{ID: "r01", Text: "Mindmate, what's on tomorrow?", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromSchedule},
			{ID: "r02", Text: "what time is the dentist tomorrow", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r03", Text: "check my calendar", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r04", Text: "do i have anything on friday", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r05", Text: "Mindmate, am I free on Friday?", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromSchedule},
			{ID: "r06", Text: "mindmate, find my notes about the trip", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromModel},
			{ID: "r07", Text: "where did i park", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r08", Text: "when is my next meeting", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r09", Text: "Mindmate, what should I cook tonight", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromSchedule},
			{ID: "r10", Text: "suppose we meet at 5, what should i bring?", Intent: models.IntentRetrieval, Action: models.ActionBlocked},
			{ID: "r11", Text: "MINDMATE CHECK MY SCHEDULE", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromSchedule},
			{ID: "r12", Text: "jarvis, what's on today", WakeWord: "jarvis", Intent: models.IntentRetrieval, Awake: true, Action: models.ActionAnsweredFromSchedule},

			// Hypotheticals
			{ID: "a01", Text: "suppose it rains tomorrow", Intent: models.IntentAssumption, Action: models.ActionIgnored},
			{ID: "a02", Text: "Mindmate, imagine I quit my job", Intent: models.IntentAssumption, Awake: true, Action: models.ActionIgnored},
			{ID: "a03", Text: "let's say the flight is delayed", Intent: models.IntentAssumption, Action: models.ActionIgnored},
			{ID: "a04", Text: "hypothetically, could we afford a boat", Intent: models.IntentAssumption, Action: models.ActionIgnored},
			{ID: "a05", Text: "assuming the meeting moves, i'll be late", Intent: models.IntentAssumption, Action: models.ActionIgnored},

			// Commands
			{ID: "c01", Text: "remind me to call mom tomorrow at 5", Intent: models.IntentCommand, Action: models.ActionSavedSilently},
			{ID: "c02", Text: "Mindmate, schedule a dentist appointment on friday at 9", Intent: models.IntentCommand, Awake: true, Action: models.ActionSavedWithAck},
			{ID: "c03", Text: "book a table for dinner tonight", Intent: models.IntentCommand, Action: models.ActionSavedSilently},
			{ID: "c04", Text: "Mindmate, send an email to Sarah", Intent: models.IntentCommand, Awake: true, Action: models.ActionAnsweredFromModel},
			{ID: "c05", Text: "send an email to sarah", Intent: models.IntentCommand, Action: models.ActionBlocked},
			{ID: "c06", Text: "write a note about the budget", Intent: models.IntentCommand, Action: models.ActionIgnored},
			{ID: "c07", Text: "mindmate, create a shopping list", Intent: models.IntentCommand, Awake: true, Action: models.ActionAnsweredFromModel},
			{ID: "c08", Text: "i need to plan the party next saturday", Intent: models.IntentCommand, Action: models.ActionSavedSilently},
			{ID: "c09", Text: "call the plumber tomorrow morning", Intent: models.IntentCommand, Action: models.ActionSavedSilently},

			// Everything else
			{ID: "n01", Text: "the weather is lovely", Intent: models.IntentConversationOrNoise, Action: models.ActionIgnored},
			{ID: "n02", Text: "Mindmate, how are you?", Intent: models.IntentConversationOrNoise, Awake: true, Action: models.ActionAnsweredFromModel},
			{ID: "n03", Text: "mindmate, good morning", Intent: models.IntentConversationOrNoise, Awake: true, Action: models.ActionAnsweredFromModel},
			{ID: "n04", Text: "we should meet for coffee tomorrow", Intent: models.IntentConversationOrNoise, Action: models.ActionSavedSilently},
			{ID: "n05", Text: "jarvis, good night", Intent: models.IntentConversationOrNoise, Action: models.ActionIgnored},
		},
	}
}
