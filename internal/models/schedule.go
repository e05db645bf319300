// ABOUTME: Schedule, timeline and dashboard read models
// ABOUTME: Returned by storage for retrieval answers and summaries
package models

// ScheduleEntry is one event on a given day
type ScheduleEntry struct {
	Title    string `json:"title" yaml:"title"`
	Time     string `json:"time" yaml:"time"`
	Category string `json:"category" yaml:"category"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// TimelineKind distinguishes events from memories in the merged timeline
type TimelineKind string

const (
	TimelineEvent  TimelineKind = "event"
	TimelineMemory TimelineKind = "memory"
)

// TimelineItem is an event or memory in the user's timeline
type TimelineItem struct {
	Kind      TimelineKind `json:"type" yaml:"type"`
	Title     string       `json:"title" yaml:"title"`
	Category  string       `json:"category" yaml:"category"`
	StartTime string       `json:"start_time" yaml:"start_time"`
}

// DailySummary is the dashboard view of one day
type DailySummary struct {
	Date              string         `json:"date"`
	EventCount        int            `json:"event_count"`
	TopCategory       string         `json:"top_category"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
	Timeline          []string       `json:"timeline"`
	Message           string         `json:"message,omitempty"`
}
