// ABOUTME: Per-user settings storage for SQLite
// ABOUTME: Holds the wake word each user addresses the assistant with
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrInvalidWakeWord is returned for a blank wake word
var ErrInvalidWakeWord = errors.New("wake word must not be empty")

// UserStore handles user settings persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// GetWakeWord returns the user's wake word, or "" when the user has none stored
func (s *UserStore) GetWakeWord(ctx context.Context, userID string) (string, error) {
	var word string
	err := s.db.QueryRowContext(ctx, `SELECT wake_word FROM users WHERE user_id = ?`, userID).Scan(&word)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return word, nil
}

// SetWakeWord stores the wake word trimmed and lowercased, creating the user if needed.
// It returns the stored form.
func (s *UserStore) SetWakeWord(ctx context.Context, userID, word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", ErrInvalidWakeWord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, wake_word)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET wake_word = excluded.wake_word
	`, userID, word)
	if err != nil {
		return "", err
	}
	return word, nil
}
