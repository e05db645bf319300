// ABOUTME: ChatMessage is one entry of the append-only chat log
// ABOUTME: Order of entries is arrival order
package models

import "time"

// ChatMessage is a persisted line of conversation
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SenderAssistant tags replies written by the assistant into the chat log
const SenderAssistant = "assistant"
