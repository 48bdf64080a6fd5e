// Package streak computes consecutive-day habit streaks from the completion log.
package streak

import (
	"sort"

	"github.com/julianstephens/greenie/internal/clock"
	"github.com/julianstephens/greenie/internal/models"
)

// Current counts consecutive days with at least one completion, ending today.
// A day without completions yet does not break the streak until it is over,
// so the count may also end yesterday.
func Current(completions []models.HabitCompletion, today string) int {
	days := completedDays(completions)

	day := today
	if !days[day] {
		day = clock.DaysBefore(today, 1)
	}

	count := 0
	for days[day] {
		count++
		day = clock.DaysBefore(day, 1)
	}
	return count
}

// Longest returns the longest run of consecutive completion days in the log.
func Longest(completions []models.HabitCompletion) int {
	days := completedDays(completions)
	if len(days) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if clock.DaysBefore(sorted[i], 1) == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// IsMilestone reports whether n is one of the configured milestone lengths.
func IsMilestone(n int, milestones []int) bool {
	for _, m := range milestones {
		if m == n {
			return true
		}
	}
	return false
}

func completedDays(completions []models.HabitCompletion) map[string]bool {
	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[c.Date] = true
	}
	return days
}
