package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DiomarGoncalves/julia-lashes-studio/models"
)

var openDay = DayHours{Open: "09:00", Close: "12:00"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateSlotsStepsByDuration(t *testing.T) {
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, GenerateSlots(openDay, 60))
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, GenerateSlots(openDay, 30))
}

func TestGenerateSlotsMustEndByClosingTime(t *testing.T) {
	// 90-minute slots in a 9-12 window: 10:30 ends exactly at noon and is
	// offered, the next one would run past closing.
	assert.Equal(t, []string{"09:00", "10:30"}, GenerateSlots(openDay, 90))

	// A single slot longer than the whole window never fits.
	assert.Empty(t, GenerateSlots(openDay, 200))
}

func TestGenerateSlotsClosedOrMalformedDay(t *testing.T) {
	assert.Empty(t, GenerateSlots(DayHours{Open: "09:00", Close: "12:00", Closed: true}, 60))
	assert.Empty(t, GenerateSlots(DayHours{}, 60))
	assert.Empty(t, GenerateSlots(DayHours{Open: "late", Close: "12:00"}, 60))
	assert.Empty(t, GenerateSlots(openDay, 0))
}

func TestAvailableTimesRemovesBookedSlots(t *testing.T) {
	now := date(2025, time.March, 1)
	got := AvailableTimes(openDay, 60, []string{"10:00"}, date(2025, time.March, 10), now)
	assert.Equal(t, []string{"09:00", "11:00"}, got)
}

func TestAvailableTimesPastDateIsEmpty(t *testing.T) {
	now := date(2025, time.March, 10)
	got := AvailableTimes(openDay, 60, nil, date(2025, time.March, 9), now)
	assert.Empty(t, got)
}

func TestAvailableTimesSameDayDropsStartedSlots(t *testing.T) {
	now := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	got := AvailableTimes(openDay, 60, nil, date(2025, time.March, 10), now)
	// 09:00 already passed, 10:00 starts right now, only 11:00 remains.
	assert.Equal(t, []string{"11:00"}, got)
}

func TestAvailableTimesFullyBookedDayIsEmptyNotNil(t *testing.T) {
	now := date(2025, time.March, 1)
	got := AvailableTimes(openDay, 60, []string{"09:00", "10:00", "11:00"}, date(2025, time.March, 10), now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOpeningHoursForDate(t *testing.T) {
	hours := models.DefaultOpeningHours()

	// 2025-03-10 is a Monday.
	monday := OpeningHoursForDate(hours, date(2025, time.March, 10))
	assert.Equal(t, "09:00", monday.Open)
	assert.Equal(t, "19:00", monday.Close)
	assert.False(t, monday.Closed)

	// 2025-03-09 is a Sunday, closed by default.
	sunday := OpeningHoursForDate(hours, date(2025, time.March, 9))
	assert.True(t, sunday.Closed)

	// Missing weekday entry counts as closed.
	assert.True(t, OpeningHoursForDate(models.JSONB{}, date(2025, time.March, 10)).Closed)
}
