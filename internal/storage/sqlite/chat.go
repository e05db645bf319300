// ABOUTME: Chat history storage for SQLite
// ABOUTME: Append-only per-user log; row id order is arrival order
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// ChatStore handles chat message persistence
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// Append adds one message to the end of the user's history
func (s *ChatStore) Append(ctx context.Context, userID, sender, text string) error {
	if sender == "" {
		return fmt.Errorf("chat message needs a sender")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, sender, text, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, sender, text, time.Now().UTC())
	return err
}

// History returns the user's last limit messages, oldest first. limit <= 0 means all.
func (s *ChatStore) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, sender, text, created_at FROM (
			SELECT id, user_id, sender, text, created_at
			FROM chat_messages
			WHERE user_id = ?
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
