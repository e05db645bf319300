// ABOUTME: Event storage operations for SQLite
// ABOUTME: Saves extractions transactionally and answers schedule queries by day or time window
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// EventTimeLayout is how event start times are stored
const EventTimeLayout = "2006-01-02 15:04"

var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	EventTimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeStartTime rewrites a parseable timestamp to EventTimeLayout.
// A bare date stays a bare date; anything else is kept as given.
func NormalizeStartTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(EventTimeLayout)
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

// clockPart returns HH:MM from a stored start time, or the whole value when it has no time
func clockPart(start string) string {
	if _, clock, ok := strings.Cut(start, " "); ok {
		if len(clock) > 5 {
			clock = clock[:5]
		}
		return clock
	}
	return start
}

// execer is satisfied by both *DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryExecer interface {
	execer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EventStore handles event persistence
type EventStore struct {
	db *DB
}

// NewEventStore creates a new EventStore
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// Persist saves the event with its location and reminder, plus any memory, in one transaction.
// It reports false when the extraction held nothing worth saving.
func (s *EventStore) Persist(ctx context.Context, userID string, ext models.Extraction) (bool, error) {
	event, important := ext.ImportantEvent()
	if !important && ext.Memory == nil {
		return false, nil
	}

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if ext.Memory != nil {
			if _, err := insertMemory(ctx, tx, userID, *ext.Memory); err != nil {
				return fmt.Errorf("saving memory: %w", err)
			}
		}
		if !important {
			return nil
		}

		locationID, err := getOrCreateLocation(ctx, tx, userID, event.LocationName)
		if err != nil {
			return fmt.Errorf("saving location: %w", err)
		}

		category := event.Category
		if category == "" {
			category = "Personal"
		}
		start := NormalizeStartTime(event.StartTime)

		res, err := tx.ExecContext(ctx, `
			INSERT INTO events (user_id, title, category, start_time, location_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, userID, event.Title, category, nullString(start), locationID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("saving event: %w", err)
		}

		if ext.Reminder != nil {
			eventID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reminders (user_id, event_id, trigger_time, recurrence_rule, priority_level)
				VALUES (?, ?, ?, ?, ?)
			`, userID, eventID, nullString(start), nullString(ext.Reminder.Recurrence), ext.Reminder.Priority)
			if err != nil {
				return fmt.Errorf("saving reminder: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// getOrCreateLocation returns the location id for name, or NULL for an empty name
func getOrCreateLocation(ctx context.Context, q queryExecer, userID, name string) (sql.NullInt64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sql.NullInt64{}, nil
	}

	if _, err := q.ExecContext(ctx, `
		INSERT INTO locations (user_id, name) VALUES (?, ?)
		ON CONFLICT(user_id, name) DO NOTHING
	`, userID, name); err != nil {
		return sql.NullInt64{}, err
	}

	var id int64
	err := q.QueryRowContext(ctx, `SELECT location_id FROM locations WHERE user_id = ? AND name = ?`, userID, name).Scan(&id)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// ForDate lists the user's events on isoDate (YYYY-MM-DD), earliest first.
// Time holds HH:MM. The result is empty, never nil, on a free day.
func (s *EventStore) ForDate(ctx context.Context, userID, isoDate string) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.title, COALESCE(e.category, ''), COALESCE(e.start_time, ''), COALESCE(l.name, '')
		FROM events e
		LEFT JOIN locations l ON l.location_id = e.location_id
		WHERE e.user_id = ? AND e.start_time LIKE ?
		ORDER BY e.start_time ASC, e.id ASC
	`, userID, isoDate+"%")
	if err != nil {
		return nil, err
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Time = clockPart(entries[i].Time)
	}
	return entries, nil
}

// Between lists events starting in [from, to], earliest first. Time holds the full start time.
func (s *EventStore) Between(ctx context.Context, userID string, from, to time.Time) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.title, COALESCE(e.category, ''), e.start_time, COALESCE(l.name, '')
		FROM events e
		LEFT JOIN locations l ON l.location_id = e.location_id
		WHERE e.user_id = ? AND e.start_time BETWEEN ? AND ?
		ORDER BY e.start_time ASC, e.id ASC
	`, userID, from.Format(EventTimeLayout), to.Format(EventTimeLayout))
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// RecentTitles returns the titles of the user's most recently saved events
func (s *EventStore) RecentTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title FROM events WHERE user_id = ? ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]models.ScheduleEntry, error) {
	defer func() { _ = rows.Close() }()

	entries := []models.ScheduleEntry{}
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.Title, &e.Category, &e.Time, &e.Location); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nullString converts empty strings to SQL NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
