// Package cycle buckets timestamps into UTC day and ISO-week keys.
package cycle

import (
	"fmt"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

const (
	dayLayout = "2006-01-02"
	day       = 24 * time.Hour
)

// DayKey returns the UTC calendar day of t as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// WeekKey returns the ISO week of t as "YYYY-Www".
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// DayKeyToTime returns 00:00 UTC of the day named by key.
func DayKeyToTime(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day key %q", domain.ErrInvalidInput, key)
	}
	return t, nil
}

// WeekKeyToTime returns Monday 00:00 UTC of the ISO week named by key.
func WeekKeyToTime(key string) (time.Time, error) {
	var year, week int
	if n, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil || n != 2 || len(key) != 8 {
		return time.Time{}, fmt.Errorf("%w: week key %q", domain.ErrInvalidInput, key)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: week key %q", domain.ErrInvalidInput, key)
	}

	// January 4th always falls in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)

	if WeekKey(monday) != key {
		return time.Time{}, fmt.Errorf("%w: week key %q", domain.ErrInvalidInput, key)
	}
	return monday, nil
}

// AddDays shifts a day key by n days.
func AddDays(key string, n int) (string, error) {
	t, err := DayKeyToTime(key)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, n)), nil
}

// StartOfNextDay returns 00:00 UTC of the day after t.
func StartOfNextDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(day)
}

// QuestCycleKey returns the current cycle key for a quest scope.
func QuestCycleKey(scope domain.QuestScope, t time.Time) string {
	if scope == domain.QuestScopeWeekly {
		return WeekKey(t)
	}
	return DayKey(t)
}
