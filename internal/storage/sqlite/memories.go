// ABOUTME: Memory storage operations for SQLite
// ABOUTME: Saves standalone facts and finds them again by keyword
package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// MemoryStore handles memory persistence
type MemoryStore struct {
	db *DB
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore(db *DB) *MemoryStore {
	return &MemoryStore{db: db}
}

// Save stores a memory and returns its id
func (s *MemoryStore) Save(ctx context.Context, userID string, mem models.ExtractedMemory) (int64, error) {
	return insertMemory(ctx, s.db, userID, mem)
}

func insertMemory(ctx context.Context, db execer, userID string, mem models.ExtractedMemory) (int64, error) {
	memType := mem.Type
	if memType == "" {
		memType = "fact"
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO memories (user_id, memory_type, content, confidence_score, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, memType, mem.Content, mem.Confidence, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Search returns the newest memories whose content contains keyword, case-insensitively
func (s *MemoryStore) Search(ctx context.Context, userID, keyword string, limit int) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM memories
		WHERE user_id = ? AND content LIKE ? ESCAPE '\'
		ORDER BY id DESC
		LIMIT ?
	`, userID, "%"+escapeLike(keyword)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

// escapeLike makes % and _ literal inside a LIKE pattern
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
