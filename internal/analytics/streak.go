package analytics

import (
	"sort"
	"time"

	"protostats/internal/lifecycle"
)

// CreationStreak describes runs of consecutive release days. It is derived
// from the set of distinct release calendar-days, not individual records.
type CreationStreak struct {
	CurrentStreak        int    `json:"currentStreak"`
	LongestStreak        int    `json:"longestStreak"`
	LongestStreakEndDate string `json:"longestStreakEndDate"`
	TotalActiveDays      int    `json:"totalActiveDays"`
}

// Streak computes release-day streaks against the fixed-offset "today"
// derived from now. currentStreak is the run ending today or yesterday,
// otherwise 0.
func Streak(lifes []lifecycle.RecordLifecycle, now time.Time) CreationStreak {
	daySet := make(map[int64]struct{}, len(lifes))
	for i := range lifes {
		daySet[lifes[i].Release.DayKey()] = struct{}{}
	}
	if len(daySet) == 0 {
		return CreationStreak{}
	}

	days := make([]int64, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	run := 1
	longest := 1
	longestEnd := days[0]
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
			longestEnd = days[i]
		}
	}

	// The live streak counts backwards from today (or yesterday when no
	// release landed yet today); any other run means the streak is broken.
	today := lifecycle.EpochDayKey(now.UnixMilli())
	current := 0
	anchor := today
	if _, ok := daySet[anchor]; !ok {
		anchor = today - 1
	}
	for {
		if _, ok := daySet[anchor]; !ok {
			break
		}
		current++
		anchor--
	}

	return CreationStreak{
		CurrentStreak:        current,
		LongestStreak:        longest,
		LongestStreakEndDate: lifecycle.DayKeyDate(longestEnd),
		TotalActiveDays:      len(days),
	}
}
