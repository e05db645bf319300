// ABOUTME: Utterance is one piece of text heard or typed by a user
// ABOUTME: Immutable once received; carries sender tag and arrival time
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sender tags who produced a piece of text
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// IsValid reports whether the sender is one of the known tags
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderSystem
}

// Utterance is a single raw input to the assistant
type Utterance struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	ArrivedAt time.Time `json:"arrived_at"`
}

// NewUtterance stamps raw text with an ID and arrival time
func NewUtterance(text string, sender Sender, arrivedAt time.Time) Utterance {
	return Utterance{
		ID:        generateUtteranceID(arrivedAt),
		Text:      text,
		Sender:    sender,
		ArrivedAt: arrivedAt.UTC(),
	}
}

func generateUtteranceID(t time.Time) string {
	return fmt.Sprintf("utt_%s_%s", t.Format("20060102_150405"), uuid.New().String()[:8])
}
