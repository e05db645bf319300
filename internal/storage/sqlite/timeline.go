// ABOUTME: Timeline and dashboard queries over events and memories
// ABOUTME: Merges both into one newest-first feed and summarizes a single day
package sqlite

import (
	"context"
	"sort"
	"time"

	"github.com/harper/mindmate/internal/models"
)

// Timeline merges the user's events and memories, newest first.
// Events sort by start time and memories by when they were saved.
func (s *Storage) Timeline(ctx context.Context, userID string, limit int) ([]models.TimelineItem, error) {
	items := []models.TimelineItem{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, COALESCE(category, ''), COALESCE(start_time, '')
		FROM events WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		item := models.TimelineItem{Kind: models.TimelineEvent}
		if err := rows.Scan(&item.Title, &item.Category, &item.StartTime); err != nil {
			_ = rows.Close()
			return nil, err
		}
		items = append(items, item)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT content, memory_type, created_at
		FROM memories WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var createdAt time.Time
		item := models.TimelineItem{Kind: models.TimelineMemory}
		if err := rows.Scan(&item.Title, &item.Category, &createdAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		item.StartTime = createdAt.Format(EventTimeLayout)
		items = append(items, item)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime > items[j].StartTime
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// DailySummary counts the day's events, finds the busiest category and lists an HH:MM timeline
func (s *Storage) DailySummary(ctx context.Context, userID string, day time.Time) (models.DailySummary, error) {
	date := day.Format("2006-01-02")
	summary := models.DailySummary{
		Date:              date,
		TopCategory:       "None",
		CategoryBreakdown: map[string]int{},
		Timeline:          []string{},
	}

	entries, err := s.events.ForDate(ctx, userID, date)
	if err != nil {
		return summary, err
	}
	if len(entries) == 0 {
		summary.Message = "No activity recorded today."
		return summary, nil
	}

	var order []string
	for _, e := range entries {
		summary.Timeline = append(summary.Timeline, e.Time+" - "+e.Title)

		cat := e.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		if summary.CategoryBreakdown[cat] == 0 {
			order = append(order, cat)
		}
		summary.CategoryBreakdown[cat]++
	}

	// Ties go to the category seen first
	best := 0
	for _, cat := range order {
		if n := summary.CategoryBreakdown[cat]; n > best {
			best = n
			summary.TopCategory = cat
		}
	}
	summary.EventCount = len(entries)
	return summary, nil
}
