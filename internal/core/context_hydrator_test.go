// ABOUTME: Tests for ContextHydrator prompt assembly and the Responder
// ABOUTME: Uses an in-memory context source and a recording chat model

package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/mindmate/internal/models"
)

type fakeContextSource struct {
	titles   []string
	memories map[string][]string
	upcoming []models.ScheduleEntry
	err      error
	searched []string
}

func (f *fakeContextSource) RecentEventTitles(context.Context, string, int) ([]string, error) {
	return f.titles, f.err
}

func (f *fakeContextSource) SearchMemories(_ context.Context, _ string, keyword string, _ int) ([]string, error) {
	f.searched = append(f.searched, keyword)
	return f.memories[keyword], f.err
}

func (f *fakeContextSource) UpcomingEvents(context.Context, string, time.Time, time.Time) ([]models.ScheduleEntry, error) {
	return f.upcoming, f.err
}

type recordingModel struct {
	system string
	user   string
	reply  string
	err    error
}

func (m *recordingModel) Complete(_ context.Context, system, user string) (string, error) {
	m.system = system
	m.user = user
	return m.reply, m.err
}

func fixedClock() time.Time { return mondayMorning }

func TestContextHydrator_AssemblesSections(t *testing.T) {
	src := &fakeContextSource{
		titles: []string{"Chemistry Lab", "Lunch"},
		memories: map[string][]string{
			"passport": {"Passport is in the top drawer"},
			"where":    {"Passport is in the top drawer"},
		},
		upcoming: []models.ScheduleEntry{{Title: "Standup", Time: "2026-10-19 14:00"}},
	}
	h := NewContextHydrator(src, fixedClock)

	prompt := h.Hydrate(context.Background(), testUser, "Where is my passport?")

	assert.True(t, strings.HasPrefix(prompt, "SYSTEM:\n"))
	assert.Contains(t, prompt, "Current Time: Monday, 2026-10-19 10:00")
	assert.Contains(t, prompt, "- User is likely a Student.")
	assert.Contains(t, prompt, "- Standup at 2026-10-19 14:00")
	assert.Equal(t, 1, strings.Count(prompt, "Passport is in the top drawer"), "notes are deduplicated")
	assert.Equal(t, []string{"where", "passport"}, src.searched)
}

func TestContextHydrator_EmptySchedule(t *testing.T) {
	h := NewContextHydrator(&fakeContextSource{}, fixedClock)

	prompt := h.Hydrate(context.Background(), testUser, "hi")

	assert.Contains(t, prompt, "No events in the next 24 hours.")
	assert.NotContains(t, prompt, "USER PROFILE")
	assert.NotContains(t, prompt, "NOTES")
}

func TestContextHydrator_SourceFailuresAreSkipped(t *testing.T) {
	h := NewContextHydrator(&fakeContextSource{err: errors.New("locked")}, fixedClock)

	prompt := h.Hydrate(context.Background(), testUser, "remember the passport")

	assert.Contains(t, prompt, "SYSTEM:")
	assert.NotContains(t, prompt, "SCHEDULE")
	assert.NotContains(t, prompt, "NOTES")
}

func TestContextHydrator_LimitTokens(t *testing.T) {
	h := NewContextHydrator(nil, fixedClock)
	h.maxTokens = 10

	got := h.limitTokens([]string{"SYSTEM:\nkeep me always\n", strings.Repeat("x", 100)})
	assert.Equal(t, "SYSTEM:\nkeep me always\n", got)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"where", "passport", "drawer"}, Keywords("Where is my passport? The drawer, my passport!", 0))
	assert.Equal(t, []string{"where"}, Keywords("Where is my passport?", 1))
	assert.Empty(t, Keywords("a b cde", 0))
}

func TestResponder(t *testing.T) {
	model := &recordingModel{reply: "  It's in the drawer.\n"}
	r := NewResponder(NewContextHydrator(nil, fixedClock), model)

	got, err := r.GenerateConversationalReply(context.Background(), testUser, "where is my passport?")
	require.NoError(t, err)
	assert.Equal(t, "It's in the drawer.", got)
	assert.Equal(t, "where is my passport?", model.user)
	assert.Contains(t, model.system, "You are MindMate")
}

func TestResponder_Errors(t *testing.T) {
	_, err := NewResponder(nil, nil).GenerateConversationalReply(context.Background(), testUser, "hi")
	assert.ErrorIs(t, err, ErrCollaboratorUnavailable)

	model := &recordingModel{err: errors.New("rate limited")}
	_, err = NewResponder(nil, model).GenerateConversationalReply(context.Background(), testUser, "hi")
	assert.Error(t, err)
}
