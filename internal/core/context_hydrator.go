// ABOUTME: ContextHydrator assembles the reply prompt from profile hints, notes and upcoming events
// ABOUTME: Responder pairs it with a chat model to answer awake utterances
package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// ContextSource is the read side of the store the hydrator draws on
type ContextSource interface {
	RecentEventTitles(ctx context.Context, userID string, limit int) ([]string, error)
	SearchMemories(ctx context.Context, userID, keyword string, limit int) ([]string, error)
	UpcomingEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ScheduleEntry, error)
}

// ChatCompleter answers a user message under a system prompt
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const assistantPersona = "You are MindMate, a smart personal assistant. Answer the user's question. Be concise and helpful."

var keywordPattern = regexp.MustCompile(`\w+`)

// ContextHydrator builds prompts. A nil source yields a prompt with only the persona and clock.
type ContextHydrator struct {
	source      ContextSource
	now         func() time.Time
	maxKeywords int
	maxTokens   int
}

// NewContextHydrator creates a new ContextHydrator
func NewContextHydrator(source ContextSource, now func() time.Time) *ContextHydrator {
	if now == nil {
		now = time.Now
	}
	return &ContextHydrator{
		source:      source,
		now:         now,
		maxKeywords: 8,
		maxTokens:   1500,
	}
}

// Hydrate returns the system prompt for a reply to text.
// Lookups that fail are left out of the prompt rather than failing it.
func (h *ContextHydrator) Hydrate(ctx context.Context, userID, text string) string {
	now := h.now()

	var sections []string
	sections = append(sections, "SYSTEM:\n"+assistantPersona+"\nCurrent Time: "+now.Format("Monday, 2006-01-02 15:04")+"\n")

	if h.source != nil {
		if profile := h.profileSection(ctx, userID); profile != "" {
			sections = append(sections, profile)
		}
		if schedule := h.scheduleSection(ctx, userID, now); schedule != "" {
			sections = append(sections, schedule)
		}
		if notes := h.notesSection(ctx, userID, text); notes != "" {
			sections = append(sections, notes)
		}
	}

	return h.limitTokens(sections)
}

// profileSection infers coarse facts about the user from recent event titles
func (h *ContextHydrator) profileSection(ctx context.Context, userID string) string {
	titles, err := h.source.RecentEventTitles(ctx, userID, 5)
	if err != nil {
		return ""
	}
	for _, title := range titles {
		lower := strings.ToLower(title)
		if strings.Contains(lower, "exam") || strings.Contains(lower, "lab") {
			return "USER PROFILE:\n- User is likely a Student.\n"
		}
	}
	return ""
}

func (h *ContextHydrator) scheduleSection(ctx context.Context, userID string, now time.Time) string {
	events, err := h.source.UpcomingEvents(ctx, userID, now, now.Add(24*time.Hour))
	if err != nil {
		return ""
	}
	if len(events) == 0 {
		return "SCHEDULE:\nNo events in the next 24 hours.\n"
	}

	var sb strings.Builder
	sb.WriteString("SCHEDULE (next 24h):\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("- %s at %s\n", e.Title, e.Time))
	}
	return sb.String()
}

// notesSection searches stored memories for every longer word in text
func (h *ContextHydrator) notesSection(ctx context.Context, userID, text string) string {
	seen := make(map[string]bool)
	var notes []string

	for _, word := range Keywords(text, h.maxKeywords) {
		found, err := h.source.SearchMemories(ctx, userID, word, 1)
		if err != nil {
			continue
		}
		for _, note := range found {
			if !seen[note] {
				seen[note] = true
				notes = append(notes, note)
			}
		}
	}
	if len(notes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("NOTES:\n")
	for _, note := range notes {
		sb.WriteString(fmt.Sprintf("- Memory: '%s'\n", note))
	}
	return sb.String()
}

// limitTokens drops trailing sections until the prompt fits (4 chars ≈ 1 token).
// The first section is always kept.
func (h *ContextHydrator) limitTokens(sections []string) string {
	maxChars := h.maxTokens * 4
	total := 0
	kept := sections[:0]
	for i, s := range sections {
		if i > 0 && total+len(s)+1 > maxChars {
			break
		}
		kept = append(kept, s)
		total += len(s) + 1
	}
	return strings.Join(kept, "\n")
}

// Keywords returns the distinct lowercased words longer than three characters, in order
func Keywords(text string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(w)) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Responder implements ReplyGenerator on top of a chat model
type Responder struct {
	hydrator *ContextHydrator
	model    ChatCompleter
}

// NewResponder creates a new Responder
func NewResponder(hydrator *ContextHydrator, model ChatCompleter) *Responder {
	if hydrator == nil {
		hydrator = NewContextHydrator(nil, nil)
	}
	return &Responder{hydrator: hydrator, model: model}
}

// GenerateConversationalReply answers text with the user's context in the system prompt
func (r *Responder) GenerateConversationalReply(ctx context.Context, userID, text string) (string, error) {
	if r.model == nil {
		return "", ErrCollaboratorUnavailable
	}
	system := r.hydrator.Hydrate(ctx, userID, text)
	reply, err := r.model.Complete(ctx, system, text)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
