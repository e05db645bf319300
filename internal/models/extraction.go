// ABOUTME: Structured metadata extracted from free text by the extraction collaborator
// ABOUTME: Optional-field structs with explicit presence checks over loosely shaped JSON
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedExtraction is returned when extractor output cannot be read at all
var ErrMalformedExtraction = errors.New("malformed extraction")

// ExtractedEvent is a schedulable event found in text
type ExtractedEvent struct {
	Title        string `json:"title" yaml:"title"`
	StartTime    string `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	LocationName string `json:"location_name,omitempty" yaml:"location_name,omitempty"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
}

// ExtractedMemory is a standalone fact worth remembering
type ExtractedMemory struct {
	Type       string  `json:"type"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// ExtractedReminder marks the event as something to be reminded about
type ExtractedReminder struct {
	Recurrence string `json:"recurrence,omitempty"`
	Priority   string `json:"priority"`
}

// Extraction is the tagged result of metadata extraction. Every part is optional.
type Extraction struct {
	Event    *ExtractedEvent    `json:"event,omitempty"`
	Memory   *ExtractedMemory   `json:"memory,omitempty"`
	Reminder *ExtractedReminder `json:"reminder,omitempty"`
}

// IsEmpty reports whether nothing was extracted
func (e Extraction) IsEmpty() bool {
	return e.Event == nil && e.Memory == nil && e.Reminder == nil
}

// ImportantEvent returns the event when it has a title and either a start time or a location
func (e Extraction) ImportantEvent() (*ExtractedEvent, bool) {
	if e.Event == nil || e.Event.Title == "" {
		return nil, false
	}
	if e.Event.StartTime == "" && e.Event.LocationName == "" {
		return nil, false
	}
	return e.Event, true
}

// ParseExtraction reads extractor JSON. Missing or wrongly typed parts are dropped,
// only unreadable JSON is an error.
func ParseExtraction(data []byte) (Extraction, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Extraction{}, nil
	}

	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}

	var out Extraction

	if ev, ok := root["event"].(map[string]any); ok {
		event := &ExtractedEvent{
			Title:        stringField(ev, "title", "heading"),
			StartTime:    stringField(ev, "start_time", "startTime", "time"),
			LocationName: stringField(ev, "location_name", "locationName", "location"),
			Category:     stringField(ev, "category"),
		}
		if event.LocationName == "" {
			event.LocationName = stringField(root, "location", "location_name")
		}
		if event.Title != "" {
			out.Event = event
		}
	}

	if mem, ok := root["memory"].(map[string]any); ok {
		content := stringField(mem, "content")
		if content != "" {
			memType := stringField(mem, "type", "memory_type")
			if memType == "" {
				memType = "fact"
			}
			confidence := 0.5
			if c, ok := mem["confidence"].(float64); ok && c >= 0 && c <= 1 {
				confidence = c
			}
			out.Memory = &ExtractedMemory{Type: memType, Content: content, Confidence: confidence}
		}
	}

	if rem, ok := root["reminder"].(map[string]any); ok {
		if flag, present := rem["is_reminder"].(bool); !present || flag {
			priority := stringField(rem, "priority", "priority_level")
			if priority == "" {
				priority = "Medium"
			}
			out.Reminder = &ExtractedReminder{
				Recurrence: stringField(rem, "recurrence", "recurrence_rule"),
				Priority:   priority,
			}
		}
	}

	return out, nil
}

// stringField returns the first non-placeholder string value among keys
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if isPlaceholder(s) {
			continue
		}
		return s
	}
	return ""
}

// isPlaceholder catches template echoes models sometimes return verbatim
func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "", "...", "null", "none", "n/a", "unknown", "yyyy-mm-dd hh:mm:ss":
		return true
	}
	return false
}
