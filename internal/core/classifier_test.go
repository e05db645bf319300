// ABOUTME: Tests for the intent classifier priority cascade
// ABOUTME: Covers tier ordering, any-match commands, normalization and idempotence

package core

import (
	"sync"
	"testing"

	"github.com/harper/mindmate/internal/models"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name       string
		text       string
		wantIntent models.IntentKind
		wantReason string
	}{
		{
			name:       "question ending beats hypothetical opener",
			text:       "Suppose I have a meeting, what to do?",
			wantIntent: models.IntentRetrieval,
			wantReason: "question 'what to do'",
		},
		{
			name:       "hypothetical",
			text:       "Imagine if I had a meeting",
			wantIntent: models.IntentAssumption,
			wantReason: "hypothetical marker 'imagine'",
		},
		{
			name:       "command reports every verb",
			text:       "Remind me to call Mom at 5 PM",
			wantIntent: models.IntentCommand,
			wantReason: "action verb detected: remind, call",
		},
		{
			name:       "small talk",
			text:       "The weather looks nice today",
			wantIntent: models.IntentConversationOrNoise,
			wantReason: NoMatchReason,
		},
		{
			name:       "leading question word",
			text:       "What's my schedule?",
			wantIntent: models.IntentRetrieval,
			wantReason: "question starting with 'what'",
		},
		{
			name:       "leading word needs a boundary",
			text:       "Whatever you think is fine",
			wantIntent: models.IntentConversationOrNoise,
			wantReason: NoMatchReason,
		},
		{
			name:       "search keyword mid sentence",
			text:       "could you check my calendar",
			wantIntent: models.IntentRetrieval,
			wantReason: "search keyword 'check'",
		},
		{
			name:       "availability question",
			text:       "Am I free on Friday",
			wantIntent: models.IntentRetrieval,
			wantReason: "availability question 'am i free'",
		},
		{
			name:       "retrieval tier runs before hypothetical tier",
			text:       "What if we went to Paris",
			wantIntent: models.IntentRetrieval,
			wantReason: "question starting with 'what'",
		},
		{
			name:       "curly apostrophe is normalized",
			text:       "Let’s say I booked a table",
			wantIntent: models.IntentAssumption,
			wantReason: "hypothetical marker 'let's say'",
		},
		{
			name:       "email command",
			text:       "Send an email to Bob",
			wantIntent: models.IntentCommand,
			wantReason: "action verb detected: send, email",
		},
		{
			name:       "any verb is enough",
			text:       "I need to save money for a book",
			wantIntent: models.IntentCommand,
			wantReason: "action verb detected: save, book",
		},
		{
			name:       "verb inside a longer word does not count",
			text:       "The planet is round",
			wantIntent: models.IntentConversationOrNoise,
			wantReason: NoMatchReason,
		},
		{
			name:       "multi word verb",
			text:       "Set a timer for the pasta",
			wantIntent: models.IntentCommand,
			wantReason: "action verb detected: set a",
		},
		{
			name:       "empty",
			text:       "",
			wantIntent: models.IntentConversationOrNoise,
			wantReason: NoMatchReason,
		},
		{
			name:       "surrounding whitespace and case",
			text:       "   SCHEDULE a dentist visit   ",
			wantIntent: models.IntentCommand,
			wantReason: "action verb detected: schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %v, want %v", got.Intent, tt.wantIntent)
			}
			if got.MatchedReason != tt.wantReason {
				t.Errorf("MatchedReason = %q, want %q", got.MatchedReason, tt.wantReason)
			}
			if !got.Intent.IsValid() {
				t.Errorf("Intent %q is not a valid intent", got.Intent)
			}
		})
	}
}

func TestClassify_Confidence(t *testing.T) {
	c := NewClassifier(nil)

	if got := c.Classify("find my notes").Confidence; got != models.ConfidenceHigh {
		t.Errorf("matched tier Confidence = %v, want high", got)
	}
	if got := c.Classify("nice weather").Confidence; got != models.ConfidenceMedium {
		t.Errorf("no match Confidence = %v, want medium", got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewClassifier(nil)
	inputs := []string{
		"Suppose I have a meeting, what to do?",
		"Remind me to call Mom at 5 PM",
		"The weather looks nice today",
		"",
	}

	for _, in := range inputs {
		first := c.Classify(in)
		second := c.Classify(in)
		if first != second {
			t.Errorf("Classify(%q) not idempotent: %+v then %+v", in, first, second)
		}
	}
}

func TestClassify_ConcurrentUse(t *testing.T) {
	c := NewClassifier(nil)
	want := c.Classify("Remind me to call Mom at 5 PM")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Classify("Remind me to call Mom at 5 PM"); got != want {
				t.Errorf("concurrent Classify = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Don’t FORGET  "); got != "don't forget" {
		t.Errorf("Normalize() = %q, want %q", got, "don't forget")
	}
	if got := Normalize("— What's on today?"); got != "what's on today?" {
		t.Errorf("Normalize() = %q, want %q", got, "what's on today?")
	}
}

func TestClassify_LeadingDashStillAQuestion(t *testing.T) {
	c := NewClassifier(nil)
	for _, text := range []string{"— what's my schedule?", "– when is the dentist?", "…what's on today?"} {
		if got := c.Classify(text); got.Intent != models.IntentRetrieval {
			t.Errorf("Classify(%q) = %s (%s), want retrieval", text, got.Intent, got.MatchedReason)
		}
	}
}
