// ABOUTME: Contracts for the external services the dispatcher depends on
// ABOUTME: Storage, schedule lookup, extraction and reply generation are injected at startup
package core

import (
	"context"
	"errors"

	"github.com/harper/mindmate/internal/models"
)

var (
	// ErrCollaboratorUnavailable wraps any failure of an external collaborator
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrCollaboratorTimeout is returned when a collaborator exceeds the call bound
	ErrCollaboratorTimeout = errors.New("collaborator timed out")
)

// WakeWordSource reads the per-user wake word. An empty result means "unset".
type WakeWordSource interface {
	GetWakeWord(ctx context.Context, userID string) (string, error)
}

// ScheduleSource lists a user's events on one day. Returns an empty slice, never nil, when free.
type ScheduleSource interface {
	FetchScheduleForDate(ctx context.Context, userID, isoDate string) ([]models.ScheduleEntry, error)
}

// MetadataExtractor pulls an event, memory or reminder out of free text
type MetadataExtractor interface {
	ExtractStructuredMetadata(ctx context.Context, text string) (models.Extraction, error)
}

// ReplyGenerator produces a conversational reply
type ReplyGenerator interface {
	GenerateConversationalReply(ctx context.Context, userID, text string) (string, error)
}

// EventStore persists an extraction. The bool reports whether anything was saved.
type EventStore interface {
	PersistEvent(ctx context.Context, userID string, ext models.Extraction) (bool, error)
}

// ChatLog appends to the per-user chat history
type ChatLog interface {
	AppendChatLog(ctx context.Context, userID, sender, text string) error
}

// Collaborators groups everything the dispatcher calls out to.
// Any field may be nil; a nil collaborator behaves as unavailable.
type Collaborators struct {
	WakeWords WakeWordSource
	Schedule  ScheduleSource
	Extractor MetadataExtractor
	Replies   ReplyGenerator
	Events    EventStore
	ChatLog   ChatLog
}
