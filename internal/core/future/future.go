// Package future renders the distance to the next upcoming dated event.
package future

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"focustimer/internal/core/model"
)

// DateLayout is the stored date format of future events.
const DateLayout = "2006-01-02"

const (
	day   = 24 * 60 * 60
	month = 30 * day
)

// Dated is an event with its parsed date.
type Dated struct {
	Event model.FutureEvent
	Date  time.Time
}

// Upcoming returns events dated today or later, nearest first. Events with an
// invalid date are skipped.
func Upcoming(events []model.FutureEvent, now time.Time) []Dated {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	upcoming := make([]Dated, 0, len(events))
	for _, event := range events {
		date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(event.Date), now.Location())
		if err != nil {
			continue
		}
		if date.Before(today) {
			continue
		}
		upcoming = append(upcoming, Dated{Event: event, Date: date})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming
}

// Pick returns the upcoming event titled choice, or the nearest one when
// choice is empty, model.FutureChoiceNearest or not upcoming.
func Pick(events []model.FutureEvent, choice string, now time.Time) (Dated, bool) {
	upcoming := Upcoming(events, now)
	if len(upcoming) == 0 {
		return Dated{}, false
	}
	if choice != "" && choice != model.FutureChoiceNearest {
		for _, candidate := range upcoming {
			if candidate.Event.Title == choice {
				return candidate, true
			}
		}
	}
	return upcoming[0], true
}

// Line returns "title · delta" for the picked event, or "" when nothing is upcoming.
func Line(events []model.FutureEvent, choice string, unit model.FutureUnit, now time.Time) string {
	picked, ok := Pick(events, choice, now)
	if !ok {
		return ""
	}
	title := picked.Event.Title
	if title == "" {
		title = "Event"
	}
	return title + " · " + Delta(picked.Date, now, unit)
}

// Delta formats the distance from now to target in unit. Months are 30 days.
func Delta(target, now time.Time, unit model.FutureUnit) string {
	seconds := int(target.Sub(now) / time.Second)
	suffix := "left"
	if seconds < 0 {
		suffix = "passed"
		seconds = -seconds
	}

	switch unit {
	case model.FutureUnitMonths:
		return fmt.Sprintf("%d months %s", seconds/month, suffix)
	case model.FutureUnitDays:
		return fmt.Sprintf("%d days %s", seconds/day, suffix)
	case model.FutureUnitHours:
		return fmt.Sprintf("%d hours %s", seconds/3600, suffix)
	case model.FutureUnitMinutes:
		return fmt.Sprintf("%d minutes %s", seconds/60, suffix)
	case model.FutureUnitSeconds:
		return fmt.Sprintf("%d seconds %s", seconds, suffix)
	}

	months := seconds / month
	days := seconds % month / day
	hours := seconds % day / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60

	var parts []string
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%dmo", months))
	}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ") + " " + suffix
}
