// ABOUTME: In-memory collaborator fakes for dispatcher tests
// ABOUTME: Each fake records calls and can fail, block or panic on demand

package core

import (
	"context"
	"sync"

	"github.com/harper/mindmate/internal/models"
)

type fakeWakeWords struct {
	word string
	err  error
}

func (f *fakeWakeWords) GetWakeWord(context.Context, string) (string, error) {
	return f.word, f.err
}

type fakeSchedule struct {
	mu      sync.Mutex
	entries []models.ScheduleEntry
	err     error
	dates   []string
}

func (f *fakeSchedule) FetchScheduleForDate(_ context.Context, _ string, isoDate string) ([]models.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, isoDate)
	return f.entries, f.err
}

func (f *fakeSchedule) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dates)
}

type fakeExtractor struct {
	mu    sync.Mutex
	ext   models.Extraction
	err   error
	texts []string
}

func (f *fakeExtractor) ExtractStructuredMetadata(_ context.Context, text string) (models.Extraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.ext, f.err
}

func (f *fakeExtractor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

type fakeReplies struct {
	mu      sync.Mutex
	reply   string
	err     error
	panics  bool
	block   chan struct{}
	done    chan struct{}
	prompts []string
}

func (f *fakeReplies) GenerateConversationalReply(_ context.Context, _ string, text string) (string, error) {
	if f.done != nil {
		defer close(f.done)
	}
	if f.block != nil {
		<-f.block
	}
	if f.panics {
		panic("reply model crashed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, text)
	return f.reply, f.err
}

func (f *fakeReplies) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeEvents struct {
	mu    sync.Mutex
	saved bool
	err   error
	got   []models.Extraction
}

func (f *fakeEvents) PersistEvent(_ context.Context, _ string, ext models.Extraction) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, ext)
	return f.saved, f.err
}

func (f *fakeEvents) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

type chatEntry struct {
	userID string
	sender string
	text   string
}

type fakeChatLog struct {
	mu      sync.Mutex
	err     error
	entries []chatEntry
}

func (f *fakeChatLog) AppendChatLog(_ context.Context, userID, sender, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, chatEntry{userID: userID, sender: sender, text: text})
	return nil
}

func (f *fakeChatLog) snapshot() []chatEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chatEntry(nil), f.entries...)
}
