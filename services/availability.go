// services/availability.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"
)

// DayHours is the opening schedule for a single weekday, as stored in
// Settings.OpeningHours.
type DayHours struct {
	Open   string
	Close  string
	Closed bool
}

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// OpeningHoursForDate extracts the DayHours for the weekday of date from
// the settings JSONB. Missing or malformed entries count as closed.
func OpeningHoursForDate(hours models.JSONB, date time.Time) DayHours {
	raw, ok := hours[weekdayKeys[date.Weekday()]]
	if !ok {
		return DayHours{Closed: true}
	}
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return DayHours{Closed: true}
	}

	day := DayHours{}
	if open, ok := entry["open"].(string); ok {
		day.Open = open
	}
	if closeAt, ok := entry["close"].(string); ok {
		day.Close = closeAt
	}
	if closed, ok := entry["closed"].(bool); ok {
		day.Closed = closed
	}
	return day
}

// AvailableTimes computes the bookable slot starts ("HH:MM") for a
// service of the given duration on date. Slots run from opening time in
// duration-sized steps and must end by closing time. Past dates and
// closed days yield no slots; for today, slots that already started are
// dropped. Times present in booked are removed.
//
// An empty result is a normal answer ("no slots this day"), not an error.
func AvailableTimes(day DayHours, durationMinutes int, booked []string, date, now time.Time) []string {
	if durationMinutes <= 0 {
		return []string{}
	}
	if utils.BeginningOfDay(date).Before(utils.BeginningOfDay(now)) {
		return []string{}
	}

	slots := GenerateSlots(day, durationMinutes)
	if len(slots) == 0 {
		return slots
	}

	// For same-day requests drop slots that already started.
	if utils.BeginningOfDay(date).Equal(utils.BeginningOfDay(now)) {
		cutoff := now.Hour()*60 + now.Minute()
		upcoming := make([]string, 0, len(slots))
		for _, s := range slots {
			start, err := parseClock(s)
			if err != nil {
				continue
			}
			if start > cutoff {
				upcoming = append(upcoming, s)
			}
		}
		slots = upcoming
	}

	if len(booked) == 0 {
		return slots
	}
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[strings.TrimSpace(b)] = true
	}
	free := make([]string, 0, len(slots))
	for _, s := range slots {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free
}

// GenerateSlots lists every slot start between opening and closing time,
// stepping by stepMinutes. A slot whose end would pass closing time is
// not offered.
func GenerateSlots(day DayHours, stepMinutes int) []string {
	if day.Closed || day.Open == "" || day.Close == "" || stepMinutes <= 0 {
		return []string{}
	}

	open, err := parseClock(day.Open)
	if err != nil {
		return []string{}
	}
	closeAt, err := parseClock(day.Close)
	if err != nil {
		return []string{}
	}

	slots := []string{}
	for start := open; start+stepMinutes <= closeAt; start += stepMinutes {
		slots = append(slots, formatClock(start))
	}
	return slots
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
