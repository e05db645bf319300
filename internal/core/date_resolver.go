// ABOUTME: Keyword heuristic that turns a retrieval question into a schedule date
// ABOUTME: Independent of the classifier; may decline when no schedule is being asked about
package core

import (
	"regexp"
	"strings"
	"time"
)

// ISODate is the layout schedule lookups use
const ISODate = "2006-01-02"

// ScheduleQuery is a resolved schedule lookup
type ScheduleQuery struct {
	Date  time.Time
	Label string
}

// ISO returns the query date as YYYY-MM-DD
func (q ScheduleQuery) ISO() string {
	return q.Date.Format(ISODate)
}

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

	// scheduleCue marks a question as being about the calendar at all
	scheduleCue = regexp.MustCompile(`\b(schedule|agenda|calendar|plans?|planned|events?|meetings?|appointments?|busy|free|today|tonight|tomorrow|yesterday|do i have|what's on|whats on)\b`)

	weekdayPattern = regexp.MustCompile(`\b(next )?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

// ResolveScheduleDate picks the day a retrieval question is about. It returns false
// when the text does not look like a schedule question, so the caller can fall back.
func ResolveScheduleDate(text string, now time.Time) (ScheduleQuery, bool) {
	lower := Normalize(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if m := isoDatePattern.FindStringSubmatch(lower); m != nil {
		if d, err := time.ParseInLocation(ISODate, m[1], now.Location()); err == nil {
			return ScheduleQuery{Date: d, Label: m[1]}, true
		}
	}

	switch {
	case strings.Contains(lower, "tomorrow"):
		return ScheduleQuery{Date: today.AddDate(0, 0, 1), Label: "tomorrow"}, true
	case strings.Contains(lower, "yesterday"):
		return ScheduleQuery{Date: today.AddDate(0, 0, -1), Label: "yesterday"}, true
	case strings.Contains(lower, "today"), strings.Contains(lower, "tonight"):
		return ScheduleQuery{Date: today, Label: "today"}, true
	}

	// First weekday mentioned wins
	if m := weekdayPattern.FindStringSubmatch(lower); m != nil {
		wd := weekdayByName(m[2])
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		if ahead == 0 && m[1] != "" {
			ahead = 7
		}
		if ahead == 0 {
			return ScheduleQuery{Date: today, Label: "today"}, true
		}
		return ScheduleQuery{Date: today.AddDate(0, 0, ahead), Label: wd.String()}, true
	}

	if scheduleCue.MatchString(lower) {
		return ScheduleQuery{Date: today, Label: "today"}, true
	}
	return ScheduleQuery{}, false
}

func weekdayByName(name string) time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d
		}
	}
	return time.Sunday
}
