// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Satisfies the dispatcher's collaborator contracts and the reply context source
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// Storage manages all persistent assistant data using SQLite
type Storage struct {
	db       *DB
	users    *UserStore
	events   *EventStore
	memories *MemoryStore
	chat     *ChatStore
}

// NewStorage initializes storage with a database file at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		users:    NewUserStore(db),
		events:   NewEventStore(db),
		memories: NewMemoryStore(db),
		chat:     NewChatStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database
func (s *Storage) DB() *DB {
	return s.db
}

// GetWakeWord returns the user's wake word, "" when unset
func (s *Storage) GetWakeWord(ctx context.Context, userID string) (string, error) {
	return s.users.GetWakeWord(ctx, userID)
}

// SetWakeWord stores a normalized wake word and returns it
func (s *Storage) SetWakeWord(ctx context.Context, userID, word string) (string, error) {
	return s.users.SetWakeWord(ctx, userID, word)
}

// FetchScheduleForDate lists the user's events on isoDate
func (s *Storage) FetchScheduleForDate(ctx context.Context, userID, isoDate string) ([]models.ScheduleEntry, error) {
	return s.events.ForDate(ctx, userID, isoDate)
}

// PersistEvent saves an extraction transactionally
func (s *Storage) PersistEvent(ctx context.Context, userID string, ext models.Extraction) (bool, error) {
	return s.events.Persist(ctx, userID, ext)
}

// UpcomingEvents lists events starting between from and to
func (s *Storage) UpcomingEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ScheduleEntry, error) {
	return s.events.Between(ctx, userID, from, to)
}

// RecentEventTitles returns the newest event titles
func (s *Storage) RecentEventTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	return s.events.RecentTitles(ctx, userID, limit)
}

// SaveMemory stores a standalone memory
func (s *Storage) SaveMemory(ctx context.Context, userID string, mem models.ExtractedMemory) (int64, error) {
	return s.memories.Save(ctx, userID, mem)
}

// SearchMemories finds memories mentioning keyword
func (s *Storage) SearchMemories(ctx context.Context, userID, keyword string, limit int) ([]string, error) {
	return s.memories.Search(ctx, userID, keyword, limit)
}

// AppendChatLog adds a message to the user's chat history
func (s *Storage) AppendChatLog(ctx context.Context, userID, sender, text string) error {
	return s.chat.Append(ctx, userID, sender, text)
}

// ChatHistory returns the user's recent chat messages, oldest first
func (s *Storage) ChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	return s.chat.History(ctx, userID, limit)
}
