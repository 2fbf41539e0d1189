package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"protostats/internal/lifecycle"
	"protostats/internal/models"
)

func streakLifes(t *testing.T, dates ...string) []lifecycle.RecordLifecycle {
	t.Helper()
	records := make([]models.Record, len(dates))
	for i, d := range dates {
		records[i] = models.Record{Id: i + 1, ReleaseAt: d + "T12:00:00+09:00"}
	}
	return lifecycle.BuildAll(records, 4)
}

func jstNoon(date string) time.Time {
	parsed, err := time.Parse(time.RFC3339, date+"T12:00:00+09:00")
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestStreak_RunEndingYesterday(t *testing.T) {
	// Release days {D, D+1, D+3}, now = D+2.
	lifes := streakLifes(t, "2025-06-01", "2025-06-02", "2025-06-04")
	got := Streak(lifes, jstNoon("2025-06-03"))

	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, "2025-06-02", got.LongestStreakEndDate)
	assert.Equal(t, 3, got.TotalActiveDays)
}

func TestStreak_BrokenStreakIsZero(t *testing.T) {
	lifes := streakLifes(t, "2025-06-01", "2025-06-02")
	got := Streak(lifes, jstNoon("2025-06-10"))

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 2, got.TotalActiveDays)
}

func TestStreak_RunEndingToday(t *testing.T) {
	lifes := streakLifes(t, "2025-06-01", "2025-06-02", "2025-06-03")
	got := Streak(lifes, jstNoon("2025-06-03"))

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, "2025-06-03", got.LongestStreakEndDate)
}

func TestStreak_DistinctDaysNotRecords(t *testing.T) {
	// Three releases on the same day count as one active day.
	lifes := streakLifes(t, "2025-06-01", "2025-06-01", "2025-06-01")
	got := Streak(lifes, jstNoon("2025-06-01"))

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 1, got.TotalActiveDays)
}

func TestStreak_Empty(t *testing.T) {
	got := Streak(nil, time.Now())
	assert.Zero(t, got.CurrentStreak)
	assert.Zero(t, got.LongestStreak)
	assert.Zero(t, got.TotalActiveDays)
	assert.Empty(t, got.LongestStreakEndDate)
}

func TestStreak_FirstLongestRunWinsTies(t *testing.T) {
	lifes := streakLifes(t, "2025-06-01", "2025-06-02", "2025-06-10", "2025-06-11")
	got := Streak(lifes, jstNoon("2025-07-01"))

	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, "2025-06-02", got.LongestStreakEndDate)
}
