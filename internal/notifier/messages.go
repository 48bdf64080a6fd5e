package notifier

import (
	"fmt"

	"github.com/julianstephens/greenie/internal/constants"
	"github.com/julianstephens/greenie/internal/models"
	"github.com/julianstephens/greenie/internal/streak"
)

// GoalMetMessage announces that today's footprint is back within the goal.
func GoalMetMessage(totalKg, goalKg float64) string {
	return fmt.Sprintf("🌱 Goal met! %.2f kg CO₂ today, under your %.0f kg goal.", totalKg, goalKg)
}

// StreakMessage congratulates the user on a streak milestone.
func StreakMessage(days int) string {
	return fmt.Sprintf("🔥 %d-day streak! Your plant is thriving.", days)
}

// Transition reports which notifications a change from prev to next earns,
// filtered by the user's settings. Both arguments describe the same user.
func Transition(settings models.NotificationSettings, goal float64, prev, next *models.DailyProgress, prevStreak, nextStreak int) []string {
	var out []string
	if settings.GoalMet && next != nil && next.GoalMet && next.TotalKgCO2 > 0 {
		sameDay := prev != nil && prev.Date == next.Date
		if sameDay && !prev.GoalMet {
			out = append(out, GoalMetMessage(next.TotalKgCO2, goal))
		}
	}
	if settings.StreakMilestone && nextStreak > prevStreak && streak.IsMilestone(nextStreak, constants.StreakMilestones) {
		out = append(out, StreakMessage(nextStreak))
	}
	return out
}
