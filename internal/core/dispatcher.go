// ABOUTME: Dispatcher implements the wake-word-gated dispatch policy
// ABOUTME: Routes each classified utterance to one of six branches and never fails
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/models"
)

// AssumptionPolicy decides how hypothetical statements reach the passive branch
type AssumptionPolicy string

const (
	// AssumptionDismiss short-circuits hypotheticals before the time-cue test.
	// Awake speakers hear DismissalReply; nothing is ever saved.
	AssumptionDismiss AssumptionPolicy = "dismiss"

	// AssumptionPassive treats hypotheticals like any other passive text,
	// so "suppose I meet Bob tomorrow at 5" can be captured.
	AssumptionPassive AssumptionPolicy = "passive"
)

// ParseAssumptionPolicy validates a policy name
func ParseAssumptionPolicy(s string) (AssumptionPolicy, error) {
	switch p := AssumptionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case AssumptionDismiss, AssumptionPassive:
		return p, nil
	case "":
		return AssumptionDismiss, nil
	}
	return "", fmt.Errorf("unknown assumption policy %q (want dismiss or passive)", s)
}

// Canned replies
const (
	FallbackReply  = "Sorry, my brain is offline right now. Please try again in a moment."
	DismissalReply = "That sounds hypothetical, so I won't act on it."
)

// DefaultCallTimeout bounds every collaborator call when Options leaves it unset
const DefaultCallTimeout = 20 * time.Second

// Options tunes the dispatcher
type Options struct {
	AssumptionPolicy AssumptionPolicy
	CallTimeout      time.Duration
	DefaultWakeWord  string
	Now              func() time.Time
	Logger           *zap.Logger
}

// Dispatcher is the only component that talks to persistence or the reply model.
// It keeps no per-request state and is safe for concurrent use.
type Dispatcher struct {
	classifier *Classifier
	collab     Collaborators

	assumptionPolicy AssumptionPolicy
	callTimeout      time.Duration
	defaultWakeWord  string
	now              func() time.Time
	logger           *zap.Logger
}

// NewDispatcher wires the classifier and collaborators together
func NewDispatcher(classifier *Classifier, collab Collaborators, opts Options) *Dispatcher {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if opts.AssumptionPolicy == "" {
		opts.AssumptionPolicy = AssumptionDismiss
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if strings.TrimSpace(opts.DefaultWakeWord) == "" {
		opts.DefaultWakeWord = models.DefaultWakeWord
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Dispatcher{
		classifier:       classifier,
		collab:           collab,
		assumptionPolicy: opts.AssumptionPolicy,
		callTimeout:      opts.CallTimeout,
		defaultWakeWord:  strings.ToLower(strings.TrimSpace(opts.DefaultWakeWord)),
		now:              opts.Now,
		logger:           opts.Logger,
	}
}

// Classifier exposes the classifier the dispatcher was built with
func (d *Dispatcher) Classifier() *Classifier {
	return d.classifier
}

// HandleUtterance is the single entry point: gate, classify, dispatch.
// It always returns a decision.
func (d *Dispatcher) HandleUtterance(ctx context.Context, userID, text string) models.DispatchDecision {
	utterance := models.NewUtterance(text, models.SenderUser, d.now())

	// Nothing to process; stops before classification
	if strings.TrimSpace(text) == "" {
		d.logger.Debug("empty utterance ignored", zap.String("user_id", userID))
		return models.DispatchDecision{Action: models.ActionIgnored}
	}

	wake := ApplyWakeGate(text, d.WakeWordFor(ctx, userID))
	classification := d.classifier.Classify(wake.ProcessedText)

	// Only exchanges addressed to the assistant enter the chat history
	if wake.IsAwake {
		d.appendChat(ctx, userID, string(models.SenderUser), text)
	}

	decision := d.Dispatch(ctx, userID, utterance, classification, wake)

	if wake.IsAwake && decision.ResponseText != nil {
		d.appendChat(ctx, userID, models.SenderAssistant, *decision.ResponseText)
	}

	d.logger.Info("utterance dispatched",
		zap.String("user_id", userID),
		zap.String("utterance_id", utterance.ID),
		zap.String("intent", string(classification.Intent)),
		zap.String("reason", classification.MatchedReason),
		zap.Bool("awake", wake.IsAwake),
		zap.String("action", string(decision.Action)),
		zap.Bool("persisted", decision.ShouldPersist),
	)
	return decision
}

// Dispatch applies the routing rules to an already gated and classified utterance
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, u models.Utterance, c models.ClassificationResult, w models.WakeState) models.DispatchDecision {
	decision := models.DispatchDecision{Intent: c, Awake: w.IsAwake}
	text := strings.TrimSpace(w.ProcessedText)

	// Rule 1: empty input
	if text == "" {
		decision.Action = models.ActionIgnored
		return decision
	}

	// Rule 2: sensitive actions never run on ambient speech
	if IsSensitive(c, text) {
		if !w.IsAwake {
			d.logger.Debug("sensitive action blocked without wake word",
				zap.String("user_id", userID),
				zap.String("utterance_id", u.ID),
				zap.String("intent", string(c.Intent)))
			decision.Action = models.ActionBlocked
			return decision
		}

		// Rule 3: sensitive and awake
		if c.Intent == models.IntentRetrieval {
			return d.answerRetrieval(ctx, userID, text, decision)
		}
		return d.answerFromModel(ctx, userID, text, decision)
	}

	// Rule 5: hypotheticals, when dismissed, stop here
	if c.Intent == models.IntentAssumption && d.assumptionPolicy == AssumptionDismiss {
		decision.Action = models.ActionIgnored
		if w.IsAwake {
			decision.ResponseText = models.Say(DismissalReply)
		}
		return decision
	}

	// Rule 4: passive data mining
	return d.capture(ctx, userID, text, decision)
}

// IsSensitive reports whether the action reads private schedule or communication data
func IsSensitive(c models.ClassificationResult, text string) bool {
	switch c.Intent {
	case models.IntentRetrieval:
		return true
	case models.IntentCommand:
		return HasEmailCue(text)
	}
	return false
}

// answerRetrieval answers from the schedule, or from the model when the date
// heuristic does not recognise a schedule question
func (d *Dispatcher) answerRetrieval(ctx context.Context, userID, text string, decision models.DispatchDecision) models.DispatchDecision {
	query, ok := ResolveScheduleDate(text, d.now())
	if !ok {
		return d.answerFromModel(ctx, userID, text, decision)
	}

	if d.collab.Schedule == nil {
		return d.degrade(decision, true, "schedule", ErrCollaboratorUnavailable)
	}
	entries, err := boundedCall(ctx, d.callTimeout, func(cctx context.Context) ([]models.ScheduleEntry, error) {
		return d.collab.Schedule.FetchScheduleForDate(cctx, userID, query.ISO())
	})
	if err != nil {
		return d.degrade(decision, true, "schedule", err)
	}

	decision.Action = models.ActionAnsweredFromSchedule
	decision.ResponseText = models.Say(FormatSchedule(query, entries))
	return decision
}

// answerFromModel delegates to the generative collaborator
func (d *Dispatcher) answerFromModel(ctx context.Context, userID, text string, decision models.DispatchDecision) models.DispatchDecision {
	if d.collab.Replies == nil {
		return d.degrade(decision, true, "reply", ErrCollaboratorUnavailable)
	}
	reply, err := boundedCall(ctx, d.callTimeout, func(cctx context.Context) (string, error) {
		return d.collab.Replies.GenerateConversationalReply(cctx, userID, text)
	})
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("%w: empty reply", ErrCollaboratorUnavailable)
	}
	if err != nil {
		return d.degrade(decision, true, "reply", err)
	}

	decision.Action = models.ActionAnsweredFromModel
	decision.ResponseText = models.Say(reply)
	return decision
}

// capture extracts and saves an event when the text carries a time cue
func (d *Dispatcher) capture(ctx context.Context, userID, text string, decision models.DispatchDecision) models.DispatchDecision {
	if HasTimeCue(text) {
		ext := d.extract(ctx, text)
		if event, important := ext.ImportantEvent(); important {
			return d.persist(ctx, userID, ext, event, decision)
		}
	}

	// Ambient chatter is dropped, not logged
	if !decision.Awake {
		decision.Action = models.ActionIgnored
		return decision
	}
	return d.answerFromModel(ctx, userID, text, decision)
}

// extract calls the metadata collaborator. Any failure counts as "nothing important".
func (d *Dispatcher) extract(ctx context.Context, text string) models.Extraction {
	if d.collab.Extractor == nil {
		return models.Extraction{}
	}
	ext, err := boundedCall(ctx, d.callTimeout, func(cctx context.Context) (models.Extraction, error) {
		return d.collab.Extractor.ExtractStructuredMetadata(cctx, text)
	})
	if err != nil {
		d.logger.Warn("metadata extraction failed, treating as unimportant", zap.Error(err))
		return models.Extraction{}
	}
	return ext
}

func (d *Dispatcher) persist(ctx context.Context, userID string, ext models.Extraction, event *models.ExtractedEvent, decision models.DispatchDecision) models.DispatchDecision {
	if d.collab.Events == nil {
		return d.degrade(decision, decision.Awake, "persist", ErrCollaboratorUnavailable)
	}
	saved, err := boundedCall(ctx, d.callTimeout, func(cctx context.Context) (bool, error) {
		return d.collab.Events.PersistEvent(cctx, userID, ext)
	})
	if err == nil && !saved {
		err = fmt.Errorf("%w: event not saved", ErrCollaboratorUnavailable)
	}
	if err != nil {
		return d.degrade(decision, decision.Awake, "persist", err)
	}

	decision.ShouldPersist = true
	decision.SavedEvent = event
	if decision.Awake {
		decision.Action = models.ActionSavedWithAck
		decision.ResponseText = models.Say(FormatSavedAck(event))
	} else {
		// Passive capture never interrupts ambient conversation
		decision.Action = models.ActionSavedSilently
	}
	return decision
}

// degrade turns a collaborator failure into Ignored, apologising only when a reply was expected
func (d *Dispatcher) degrade(decision models.DispatchDecision, replyExpected bool, call string, err error) models.DispatchDecision {
	d.logger.Warn("collaborator call failed, degrading to ignored",
		zap.String("call", call),
		zap.Error(err))

	decision.Action = models.ActionIgnored
	decision.ShouldPersist = false
	decision.SavedEvent = nil
	decision.ResponseText = nil
	if replyExpected {
		decision.ResponseText = models.Say(FallbackReply)
	}
	return decision
}

// WakeWordFor reads the user's wake word, falling back to the configured default on any problem
func (d *Dispatcher) WakeWordFor(ctx context.Context, userID string) string {
	if d.collab.WakeWords == nil {
		return d.defaultWakeWord
	}
	word, err := boundedCall(ctx, d.callTimeout, func(cctx context.Context) (string, error) {
		return d.collab.WakeWords.GetWakeWord(cctx, userID)
	})
	if err != nil {
		d.logger.Warn("wake word lookup failed, using default", zap.String("user_id", userID), zap.Error(err))
		return d.defaultWakeWord
	}
	if strings.TrimSpace(word) == "" {
		return d.defaultWakeWord
	}
	return word
}

// appendChat writes to the chat log synchronously so entries keep arrival order.
// Failures are logged and swallowed.
func (d *Dispatcher) appendChat(ctx context.Context, userID, sender, text string) {
	if d.collab.ChatLog == nil {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.callTimeout)
	defer cancel()
	if err := d.collab.ChatLog.AppendChatLog(cctx, userID, sender, text); err != nil {
		d.logger.Warn("chat log append failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// FormatSchedule renders a spoken schedule listing
func FormatSchedule(q ScheduleQuery, entries []models.ScheduleEntry) string {
	when := q.Label
	if when != q.ISO() {
		when = fmt.Sprintf("%s (%s)", q.Label, q.ISO())
	}
	if len(entries) == 0 {
		return fmt.Sprintf("You have no events scheduled for %s.", when)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's your schedule for %s:", when)
	for _, e := range entries {
		b.WriteString("\n- ")
		if e.Time != "" {
			b.WriteString(e.Time + " ")
		}
		b.WriteString(e.Title)
		if e.Category != "" {
			fmt.Fprintf(&b, " (%s)", e.Category)
		}
		if e.Location != "" {
			fmt.Fprintf(&b, " at %s", e.Location)
		}
	}
	return b.String()
}

// FormatSavedAck confirms a saved event by name. The title is quoted verbatim,
// never escaped, so the reply always contains it and reads cleanly aloud.
func FormatSavedAck(e *models.ExtractedEvent) string {
	msg := fmt.Sprintf("Got it. I saved \u201c%s\u201d", e.Title)
	if e.StartTime != "" {
		msg += " for " + e.StartTime
	}
	if e.LocationName != "" {
		msg += " at " + e.LocationName
	}
	return msg + "."
}
